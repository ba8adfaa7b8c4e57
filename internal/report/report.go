// Package report renders a retrieved record list into a downloadable
// document. The renderer is presentation-only: filtering and aggregation
// happen at the call site, every format emits exactly the columns it is
// given, in order.
package report

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// Format selects the output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ErrNoData is returned when the record list is empty; no file is
// produced in that case.
var ErrNoData = errors.New("report: no data to render")

// ErrUnknownFormat is returned for a format outside the supported set.
var ErrUnknownFormat = errors.New("report: unknown format")

// Column binds a header label to an extractor producing the display value
// of a record. The same extractors run for every format, so all outputs
// are guaranteed to carry identical data.
type Column struct {
	Header string
	// Width is a column-width hint (spreadsheet characters / PDF weight).
	Width float64
	Value func(record interface{}) string
}

// Request describes one export.
type Request struct {
	Title     string
	Sheet     string
	BaseName  string
	Format    Format
	Landscape bool
	Columns   []Column
	Records   []interface{}
	// GeneratedAt stamps the document; the zero value means time.Now().
	GeneratedAt time.Time
}

// Document is a rendered export ready to be served.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Render produces the document for a request. An empty record list yields
// ErrNoData rather than an empty or broken file.
func Render(req Request) (*Document, error) {
	if len(req.Records) == 0 {
		return nil, ErrNoData
	}
	if len(req.Columns) == 0 {
		return nil, errors.New("report: no columns defined")
	}
	if req.GeneratedAt.IsZero() {
		req.GeneratedAt = time.Now()
	}

	switch req.Format {
	case FormatCSV:
		data, err := renderCSV(req)
		if err != nil {
			return nil, err
		}
		return req.document(data, "csv", "text/csv"), nil
	case FormatXLSX:
		data, err := renderXLSX(req)
		if err != nil {
			return nil, err
		}
		return req.document(data, "xlsx",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"), nil
	case FormatPDF:
		data, err := renderPDF(req)
		if err != nil {
			return nil, err
		}
		return req.document(data, "pdf", "application/pdf"), nil
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", req.Format)
	}
}

func (req Request) document(data []byte, ext, contentType string) *Document {
	return &Document{
		Filename:    fmt.Sprintf("%s-%s.%s", req.BaseName, req.GeneratedAt.Format("2006-01-02"), ext),
		ContentType: contentType,
		Data:        data,
	}
}

// cells runs the column extractors over one record.
func (req Request) cells(record interface{}) []string {
	row := make([]string, len(req.Columns))
	for i, col := range req.Columns {
		row[i] = col.Value(record)
	}
	return row
}

// headers returns the header labels in column order.
func (req Request) headers() []string {
	hs := make([]string, len(req.Columns))
	for i, col := range req.Columns {
		hs[i] = col.Header
	}
	return hs
}
