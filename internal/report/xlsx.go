package report

import (
	"bytes"
	"strconv"

	"github.com/360EntSecGroup-Skylar/excelize"
)

// renderXLSX writes the header+row matrix into a single named sheet with
// column-width hints.
func renderXLSX(req Request) ([]byte, error) {
	sheet := req.Sheet
	if sheet == "" {
		sheet = "Report"
	}

	f := excelize.NewFile()
	f.SetSheetName("Sheet1", sheet)

	for col, header := range req.headers() {
		f.SetCellValue(sheet, axis(col, 1), header)
	}
	for i, rec := range req.Records {
		for col, value := range req.cells(rec) {
			f.SetCellValue(sheet, axis(col, i+2), value)
		}
	}

	for col, spec := range req.Columns {
		width := spec.Width
		if width <= 0 {
			width = 18
		}
		name := excelize.ToAlphaString(col)
		f.SetColWidth(sheet, name, name, width)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// axis converts zero-based column plus one-based row to an A1 reference.
func axis(col, row int) string {
	return excelize.ToAlphaString(col) + strconv.Itoa(row)
}
