package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-api/internal/dto"
	"github.com/noah-isme/lms-api/pkg/export"
	"github.com/noah-isme/lms-api/pkg/response"
)

type studentService interface {
	List(ctx context.Context) ([]dto.StudentDTO, error)
	Get(ctx context.Context, id int64) (*dto.StudentDTO, error)
	Create(ctx context.Context, req dto.StudentDTO) (*dto.StudentDTO, error)
	Update(ctx context.Context, id int64, req dto.StudentDTO) (*dto.StudentDTO, error)
	Delete(ctx context.Context, id int64) error
	Dataset(ctx context.Context) (export.Dataset, error)
}

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	students studentService
	exports  exportRenderer
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students studentService, exports exportRenderer) *StudentHandler {
	return &StudentHandler{students: students, exports: exports}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Success 200 {array} dto.StudentDTO
// @Failure 500 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	items, err := h.students.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// Get godoc
// @Summary Get student
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} dto.StudentDTO
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	item, err := h.students.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Create godoc
// @Summary Create student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body dto.StudentDTO true "Student payload"
// @Success 201 {object} dto.StudentDTO
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req dto.StudentDTO
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.students.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Replace student
// @Tags Students
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param payload body dto.StudentDTO true "Student payload"
// @Success 200 {object} dto.StudentDTO
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.StudentDTO
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.students.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Delete godoc
// @Summary Delete student
// @Tags Students
// @Param id path int true "Student ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.students.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Export students
// @Tags Students
// @Produce text/csv,application/pdf
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /students/export [get]
func (h *StudentHandler) Export(c *gin.Context) {
	writeExport(c, h.exports, "students", h.students.Dataset)
}
