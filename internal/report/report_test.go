package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"
)

type row struct {
	Name     string
	Quantity string
	Remarks  string
}

func testRequest(format Format, records []interface{}) Request {
	return Request{
		Title:    "Inventory Report",
		Sheet:    "Inventory",
		BaseName: "inventory-report-IT",
		Format:   format,
		Columns: []Column{
			{Header: "Name", Width: 30, Value: func(r interface{}) string { return r.(row).Name }},
			{Header: "Quantity", Width: 10, Value: func(r interface{}) string { return r.(row).Quantity }},
			{Header: "Remarks", Width: 40, Value: func(r interface{}) string { return r.(row).Remarks }},
		},
		Records:     records,
		GeneratedAt: time.Date(2024, 5, 14, 10, 30, 0, 0, time.UTC),
	}
}

func records(rows ...row) []interface{} {
	out := make([]interface{}, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}

func TestRenderCSVRoundTrip(t *testing.T) {
	recs := records(
		row{"Laptop", "7", "ok"},
		row{"Monitor", "0", `screen marked "fragile", handle with care`},
		row{"Cable, HDMI", "3", ""},
	)

	doc, err := Render(testRequest(FormatCSV, recs))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if doc.Filename != "inventory-report-IT-2024-05-14.csv" {
		t.Errorf("filename = %q", doc.Filename)
	}
	if doc.ContentType != "text/csv" {
		t.Errorf("content type = %q", doc.ContentType)
	}

	parsed, err := csv.NewReader(bytes.NewReader(doc.Data)).ReadAll()
	if err != nil {
		t.Fatalf("parsing rendered CSV: %v", err)
	}
	if len(parsed) != len(recs)+1 {
		t.Fatalf("parsed %d rows, want %d", len(parsed), len(recs)+1)
	}
	wantHeader := []string{"Name", "Quantity", "Remarks"}
	for i, h := range wantHeader {
		if parsed[0][i] != h {
			t.Errorf("header[%d] = %q, want %q", i, parsed[0][i], h)
		}
	}
	if parsed[2][2] != `screen marked "fragile", handle with care` {
		t.Errorf("embedded quote not recovered: %q", parsed[2][2])
	}
}

func TestRenderCSVQuotesEveryField(t *testing.T) {
	doc, err := Render(testRequest(FormatCSV, records(row{"Laptop", "7", "ok"})))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(doc.Data), "\n"), "\n")
	if lines[1] != `"Laptop","7","ok"` {
		t.Errorf("data row = %q", lines[1])
	}
}

func TestRenderEmptyInput(t *testing.T) {
	for _, format := range []Format{FormatCSV, FormatXLSX, FormatPDF} {
		_, err := Render(testRequest(format, nil))
		if !errors.Is(err, ErrNoData) {
			t.Errorf("format %q: err = %v, want ErrNoData", format, err)
		}
	}
}

func TestRenderXLSX(t *testing.T) {
	doc, err := Render(testRequest(FormatXLSX, records(row{"Laptop", "7", "ok"})))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	// xlsx files are zip archives
	if !bytes.HasPrefix(doc.Data, []byte("PK")) {
		t.Error("xlsx output is not a zip archive")
	}
	if !strings.HasSuffix(doc.Filename, ".xlsx") {
		t.Errorf("filename = %q", doc.Filename)
	}
}

func TestRenderPDF(t *testing.T) {
	recs := make([]row, 0, 120)
	for i := 0; i < 120; i++ {
		recs = append(recs, row{"Laptop", "7", "pagination filler"})
	}
	doc, err := Render(testRequest(FormatPDF, records(recs...)))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(doc.Data, []byte("%PDF")) {
		t.Error("pdf output missing %PDF header")
	}
	if doc.ContentType != "application/pdf" {
		t.Errorf("content type = %q", doc.ContentType)
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	_, err := Render(testRequest(Format("doc"), records(row{"a", "b", "c"})))
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("err = %v, want ErrUnknownFormat", err)
	}
}
