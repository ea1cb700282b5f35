package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-api/internal/dto"
	"github.com/noah-isme/lms-api/pkg/export"
	"github.com/noah-isme/lms-api/pkg/response"
)

type courseService interface {
	List(ctx context.Context) ([]dto.CourseDTO, error)
	Get(ctx context.Context, id int64) (*dto.CourseDTO, error)
	Create(ctx context.Context, req dto.CourseDTO) (*dto.CourseDTO, error)
	Update(ctx context.Context, id int64, req dto.CourseDTO) (*dto.CourseDTO, error)
	Delete(ctx context.Context, id int64) error
	Dataset(ctx context.Context) (export.Dataset, error)
}

// CourseHandler exposes course endpoints.
type CourseHandler struct {
	courses courseService
	exports exportRenderer
}

// NewCourseHandler constructs CourseHandler.
func NewCourseHandler(courses courseService, exports exportRenderer) *CourseHandler {
	return &CourseHandler{courses: courses, exports: exports}
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Success 200 {array} dto.CourseDTO
// @Failure 500 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	items, err := h.courses.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// Get godoc
// @Summary Get course
// @Tags Courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.CourseDTO
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	item, err := h.courses.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Create godoc
// @Summary Create course
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body dto.CourseDTO true "Course payload"
// @Success 201 {object} dto.CourseDTO
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req dto.CourseDTO
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.courses.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Replace course
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param payload body dto.CourseDTO true "Course payload"
// @Success 200 {object} dto.CourseDTO
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /courses/{id} [put]
func (h *CourseHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.CourseDTO
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.courses.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Delete godoc
// @Summary Delete course
// @Tags Courses
// @Param id path int true "Course ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /courses/{id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.courses.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Export courses
// @Tags Courses
// @Produce text/csv,application/pdf
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /courses/export [get]
func (h *CourseHandler) Export(c *gin.Context) {
	writeExport(c, h.exports, "courses", h.courses.Dataset)
}
