package service

import (
	"fmt"
	"strings"

	appErrors "github.com/noah-isme/lms-api/pkg/errors"
	"github.com/noah-isme/lms-api/pkg/export"
)

// ExportFormat selects the rendering for entity exports.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportService renders entity datasets into downloadable files.
type ExportService struct {
	csv csvRenderer
	pdf pdfRenderer
}

// NewExportService constructs an ExportService, defaulting to the stock renderers.
func NewExportService(csv csvRenderer, pdf pdfRenderer) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{csv: csv, pdf: pdf}
}

// ParseExportFormat accepts csv or pdf, defaulting to csv when raw is empty.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ExportCSV:
		return ExportCSV, nil
	case ExportPDF:
		return ExportPDF, nil
	}
	return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", raw))
}

// Render produces the file for data named after base.
func (s *ExportService) Render(data export.Dataset, base string, format ExportFormat) (*ExportFile, error) {
	var (
		body        []byte
		err         error
		contentType string
	)
	switch format {
	case ExportPDF:
		body, err = s.pdf.Render(data)
		contentType = "application/pdf"
	default:
		format = ExportCSV
		body, err = s.csv.Render(data)
		contentType = "text/csv; charset=utf-8"
	}
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render export")
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("%s.%s", base, format),
		ContentType: contentType,
		Body:        body,
	}, nil
}
