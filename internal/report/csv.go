package report

import (
	"strings"
)

// renderCSV writes a header row and one row per record. Every field is
// quoted; embedded double quotes are escaped by doubling so the output
// always parses back to the same row count.
func renderCSV(req Request) ([]byte, error) {
	var sb strings.Builder

	writeRow := func(fields []string) {
		for i, f := range fields {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteByte('"')
			sb.WriteString(strings.ReplaceAll(f, `"`, `""`))
			sb.WriteByte('"')
		}
		sb.WriteByte('\n')
	}

	writeRow(req.headers())
	for _, rec := range req.Records {
		writeRow(req.cells(rec))
	}

	return []byte(sb.String()), nil
}
