package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-api/internal/service"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
	"github.com/noah-isme/lms-api/pkg/export"
	"github.com/noah-isme/lms-api/pkg/response"
)

type exportRenderer interface {
	Render(data export.Dataset, base string, format service.ExportFormat) (*service.ExportFile, error)
}

// parseID reads the :id path parameter. It writes a 400 and returns false when the id is not numeric.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid id"))
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return false
	}
	return true
}

// writeExport renders the dataset in the ?format= requested by the caller.
func writeExport(c *gin.Context, renderer exportRenderer, base string, load func(ctx context.Context) (export.Dataset, error)) {
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	data, err := load(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := renderer.Render(data, base, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}
