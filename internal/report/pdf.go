package report

import (
	"bytes"

	"github.com/jung-kurt/gofpdf"
)

// Table styling. Cosmetic, not part of the renderer contract.
const (
	pdfTitleSize  = 18.0
	pdfMetaSize   = 11.0
	pdfCellSize   = 8.0
	pdfRowHeight  = 6.0
	pdfHeadHeight = 7.0
)

// renderPDF writes a titled document with a generation timestamp and a
// paginated table. The column header row repeats on every page.
func renderPDF(req Request) ([]byte, error) {
	orientation := "P"
	if req.Landscape {
		orientation = "L"
	}
	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", pdfTitleSize)
	pdf.Cell(0, 10, req.Title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", pdfMetaSize)
	pdf.Cell(0, 6, "Generated: "+req.GeneratedAt.Format("2006-01-02 15:04:05"))
	pdf.Ln(10)

	pageW, pageH := pdf.GetPageSize()
	left, _, right, bottom := pdf.GetMargins()
	usable := pageW - left - right
	widths := columnWidths(req.Columns, usable)

	writeHeader := func() {
		pdf.SetFont("Helvetica", "B", pdfCellSize)
		pdf.SetFillColor(59, 130, 246)
		pdf.SetTextColor(255, 255, 255)
		for i, col := range req.Columns {
			pdf.CellFormat(widths[i], pdfHeadHeight, col.Header, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", pdfCellSize)
		pdf.SetTextColor(0, 0, 0)
	}

	writeHeader()
	for _, rec := range req.Records {
		if pdf.GetY()+pdfRowHeight > pageH-bottom {
			pdf.AddPage()
			writeHeader()
		}
		for i, cell := range req.cells(rec) {
			pdf.CellFormat(widths[i], pdfRowHeight, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// columnWidths distributes the usable page width proportionally to the
// Width hints, falling back to equal shares.
func columnWidths(columns []Column, usable float64) []float64 {
	total := 0.0
	for _, col := range columns {
		if col.Width > 0 {
			total += col.Width
		} else {
			total += 1
		}
	}
	widths := make([]float64, len(columns))
	for i, col := range columns {
		w := col.Width
		if w <= 0 {
			w = 1
		}
		widths[i] = usable * w / total
	}
	return widths
}
