package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-api/internal/dto"
	"github.com/noah-isme/lms-api/pkg/export"
	"github.com/noah-isme/lms-api/pkg/response"
)

type adminService interface {
	List(ctx context.Context) ([]dto.AdminDTO, error)
	Get(ctx context.Context, id int64) (*dto.AdminDTO, error)
	Create(ctx context.Context, req dto.AdminDTO) (*dto.AdminDTO, error)
	Update(ctx context.Context, id int64, req dto.AdminDTO) (*dto.AdminDTO, error)
	Delete(ctx context.Context, id int64) error
	Dataset(ctx context.Context) (export.Dataset, error)
}

// AdminHandler exposes admin endpoints. Admins reference no other entity.
type AdminHandler struct {
	admins  adminService
	exports exportRenderer
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(admins adminService, exports exportRenderer) *AdminHandler {
	return &AdminHandler{admins: admins, exports: exports}
}

// List godoc
// @Summary List admins
// @Tags Admins
// @Produce json
// @Success 200 {array} dto.AdminDTO
// @Failure 500 {object} response.Envelope
// @Router /admins [get]
func (h *AdminHandler) List(c *gin.Context) {
	items, err := h.admins.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// Get godoc
// @Summary Get admin
// @Tags Admins
// @Produce json
// @Param id path int true "Admin ID"
// @Success 200 {object} dto.AdminDTO
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admins/{id} [get]
func (h *AdminHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	item, err := h.admins.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Create godoc
// @Summary Create admin
// @Tags Admins
// @Accept json
// @Produce json
// @Param payload body dto.AdminDTO true "Admin payload"
// @Success 201 {object} dto.AdminDTO
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admins [post]
func (h *AdminHandler) Create(c *gin.Context) {
	var req dto.AdminDTO
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.admins.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Replace admin
// @Tags Admins
// @Accept json
// @Produce json
// @Param id path int true "Admin ID"
// @Param payload body dto.AdminDTO true "Admin payload"
// @Success 200 {object} dto.AdminDTO
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admins/{id} [put]
func (h *AdminHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.AdminDTO
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.admins.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Delete godoc
// @Summary Delete admin
// @Tags Admins
// @Param id path int true "Admin ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /admins/{id} [delete]
func (h *AdminHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.admins.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Export admins
// @Tags Admins
// @Produce text/csv,application/pdf
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /admins/export [get]
func (h *AdminHandler) Export(c *gin.Context) {
	writeExport(c, h.exports, "admins", h.admins.Dataset)
}
