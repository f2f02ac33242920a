package export

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// ErrPDFUnavailable is returned when no Unicode font is configured; the core
// PDF fonts cannot render Cyrillic.
var ErrPDFUnavailable = errors.New("pdf export requires a unicode font")

const pdfFontFamily = "report"

// PDFExporter renders datasets into a landscape tabular PDF using a TTF font.
type PDFExporter struct {
	fontPath string
}

// NewPDFExporter constructs a PDF exporter. fontPath points at a UTF-8 capable TTF file.
func NewPDFExporter(fontPath string) *PDFExporter {
	return &PDFExporter{fontPath: fontPath}
}

// Enabled reports whether the exporter can render documents.
func (e *PDFExporter) Enabled() bool {
	return e != nil && e.fontPath != ""
}

// Render creates a PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset) ([]byte, error) {
	if !e.Enabled() {
		return nil, ErrPDFUnavailable
	}
	if err := data.validate(); err != nil {
		return nil, fmt.Errorf("pdf: %w", err)
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddUTF8Font(pdfFontFamily, "", e.fontPath)
	pdf.SetMargins(8, 12, 8)
	pdf.SetAutoPageBreak(true, 10)
	pdf.AddPage()

	if data.Title != "" {
		pdf.SetFont(pdfFontFamily, "", 13)
		pdf.CellFormat(0, 9, data.Title, "", 1, "C", false, 0, "")
		pdf.Ln(3)
	}

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colWidth := (pageWidth - left - right) / float64(len(data.Headers))

	pdf.SetFont(pdfFontFamily, "", 7)
	pdf.SetFillColor(230, 230, 230)
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	for _, row := range data.Rows {
		for _, value := range row {
			pdf.CellFormat(colWidth, 6, value, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
