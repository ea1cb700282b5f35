package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-api/internal/dto"
	"github.com/noah-isme/lms-api/pkg/export"
	"github.com/noah-isme/lms-api/pkg/response"
)

type universityService interface {
	List(ctx context.Context) ([]dto.UniversityDTO, error)
	Get(ctx context.Context, id int64) (*dto.UniversityDTO, error)
	Create(ctx context.Context, req dto.UniversityDTO) (*dto.UniversityDTO, error)
	Update(ctx context.Context, id int64, req dto.UniversityDTO) (*dto.UniversityDTO, error)
	Delete(ctx context.Context, id int64) error
	Dataset(ctx context.Context) (export.Dataset, error)
}

// UniversityHandler exposes university endpoints.
type UniversityHandler struct {
	universities universityService
	exports      exportRenderer
}

// NewUniversityHandler constructs UniversityHandler.
func NewUniversityHandler(universities universityService, exports exportRenderer) *UniversityHandler {
	return &UniversityHandler{universities: universities, exports: exports}
}

// List godoc
// @Summary List universities
// @Tags Universities
// @Produce json
// @Success 200 {array} dto.UniversityDTO
// @Failure 500 {object} response.Envelope
// @Router /universities [get]
func (h *UniversityHandler) List(c *gin.Context) {
	items, err := h.universities.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// Get godoc
// @Summary Get university
// @Tags Universities
// @Produce json
// @Param id path int true "University ID"
// @Success 200 {object} dto.UniversityDTO
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /universities/{id} [get]
func (h *UniversityHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	item, err := h.universities.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Create godoc
// @Summary Create university
// @Description students and courses are computed and ignored on input.
// @Tags Universities
// @Accept json
// @Produce json
// @Param payload body dto.UniversityDTO true "University payload"
// @Success 201 {object} dto.UniversityDTO
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /universities [post]
func (h *UniversityHandler) Create(c *gin.Context) {
	var req dto.UniversityDTO
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.universities.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Replace university
// @Tags Universities
// @Accept json
// @Produce json
// @Param id path int true "University ID"
// @Param payload body dto.UniversityDTO true "University payload"
// @Success 200 {object} dto.UniversityDTO
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /universities/{id} [put]
func (h *UniversityHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UniversityDTO
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.universities.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Delete godoc
// @Summary Delete university
// @Description Removes the university together with its students. Fails while courses still reference it.
// @Tags Universities
// @Param id path int true "University ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /universities/{id} [delete]
func (h *UniversityHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.universities.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Export universities
// @Tags Universities
// @Produce text/csv,application/pdf
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /universities/export [get]
func (h *UniversityHandler) Export(c *gin.Context) {
	writeExport(c, h.exports, "universities", h.universities.Dataset)
}
