package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/lms-api/pkg/errors"
	"github.com/noah-isme/lms-api/pkg/export"
)

type failingRenderer struct{}

func (failingRenderer) Render(export.Dataset) ([]byte, error) {
	return nil, errors.New("boom")
}

func TestParseExportFormat(t *testing.T) {
	format, err := ParseExportFormat("")
	require.NoError(t, err)
	assert.Equal(t, ExportCSV, format)

	format, err = ParseExportFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, ExportPDF, format)

	_, err = ParseExportFormat("xlsx")
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestExportServiceRender(t *testing.T) {
	svc := NewExportService(nil, nil)
	data := export.Dataset{Title: "Courses", Headers: []string{"id", "title"}, Rows: []map[string]string{{"id": "1", "title": "Intro"}}}

	file, err := svc.Render(data, "courses", ExportCSV)
	require.NoError(t, err)
	assert.Equal(t, "courses.csv", file.Filename)
	assert.True(t, strings.HasPrefix(file.ContentType, "text/csv"))
	assert.Equal(t, "id,title\n1,Intro\n", string(file.Body))

	file, err = svc.Render(data, "courses", ExportPDF)
	require.NoError(t, err)
	assert.Equal(t, "courses.pdf", file.Filename)
	assert.Equal(t, "application/pdf", file.ContentType)
}

func TestExportServiceRenderFailure(t *testing.T) {
	svc := NewExportService(failingRenderer{}, nil)
	_, err := svc.Render(export.Dataset{Headers: []string{"id"}}, "x", ExportCSV)
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}
