package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// Renderer turns a Document into bytes of some document format.
type Renderer interface {
	Render(doc *Document) ([]byte, error)
	ContentType() string
}

// PDFRenderer renders documents as A4 portrait PDFs.
type PDFRenderer struct {
	// Clock pins the embedded creation date; zero means time.Now.
	Clock func() time.Time
}

// NewPDFRenderer creates a PDF renderer
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// ContentType implements Renderer.
func (r *PDFRenderer) ContentType() string {
	return "application/pdf"
}

const (
	pdfMargin    = 10.0
	pdfRowHeight = 7.0
	pdfDateWidth = 26.0
)

// Render implements Renderer.
func (r *PDFRenderer) Render(doc *Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("hourbook", true)
	if r.Clock != nil {
		pdf.SetCreationDate(r.Clock())
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pageWidth, _ := pdf.GetPageSize()
	usable := pageWidth - 2*pdfMargin

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(usable, 10, tr(doc.Title), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range doc.HeaderLines {
		pdf.CellFormat(usable, 6, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	widths := columnWidths(len(doc.Columns), usable)

	// header: grey background, light text
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(128, 128, 128)
	pdf.SetTextColor(245, 245, 245)
	tableRow(pdf, tr, widths, doc.Columns, true)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for _, row := range doc.Rows {
		tableRow(pdf, tr, widths, row, false)
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(211, 211, 211)
	tableRow(pdf, tr, widths, doc.Total, true)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(usable, 6, tr(doc.SummaryTitle), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range doc.Summary {
		pdf.MultiCell(usable, 6, tr(line), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func tableRow(pdf *fpdf.Fpdf, tr func(string) string, widths []float64, cells []string, fill bool) {
	for i, w := range widths {
		text := ""
		if i < len(cells) {
			text = cells[i]
		}
		pdf.CellFormat(w, pdfRowHeight, tr(text), "1", 0, "C", fill, 0, "")
	}
	pdf.Ln(-1)
}

// columnWidths gives the date column a fixed width and splits the rest evenly.
func columnWidths(n int, usable float64) []float64 {
	widths := make([]float64, n)
	if n == 0 {
		return widths
	}
	widths[0] = pdfDateWidth
	if n == 1 {
		widths[0] = usable
		return widths
	}
	rest := (usable - pdfDateWidth) / float64(n-1)
	for i := 1; i < n; i++ {
		widths[i] = rest
	}
	return widths
}
