// Package importer holds the two batch reconciliation pipelines: pins from
// CSV exports, and social posts linked to already-imported pins. Both walk
// their file row by row, recover from per-row failures, and report a
// created/skipped summary; only a missing file or unreadable header aborts
// a batch.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Row is a header-keyed CSV record. Missing columns read as "".
type Row map[string]string

// Get returns the trimmed value of a column.
func (r Row) Get(key string) string {
	return strings.TrimSpace(r[key])
}

// First returns the first non-empty trimmed value among the given columns.
func (r Row) First(keys ...string) string {
	for _, k := range keys {
		if v := r.Get(k); v != "" {
			return v
		}
	}
	return ""
}

// RowResult is the outcome of importing one row. Name carries the pin name
// for pin rows and the post link for social rows.
type RowResult struct {
	Success  bool
	Name     string
	Category string
	Message  string
}

// Summary totals one finished batch.
type Summary struct {
	Total   int
	Created int
	Skipped int
}

// Options tune a batch run.
type Options struct {
	// Limit caps the number of rows processed; zero means all.
	Limit int
	// ReverseGeocode fills missing location columns from Nominatim.
	ReverseGeocode bool
}

// readRows loads the whole file into header-keyed rows. Short records pad
// with empty strings, long ones keep their extras unnamed (dropped).
func readRows(r io.Reader, limit int) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	var rows []Row
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv record: %w", err)
		}
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[strings.TrimSpace(col)] = record[i]
			} else {
				row[strings.TrimSpace(col)] = ""
			}
		}
		rows = append(rows, row)
		if limit > 0 && len(rows) >= limit {
			break
		}
	}
	return rows, nil
}

// openRows opens path and reads its rows. A missing file is a batch error.
func openRows(path string, limit int) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("CSV file not found: %s: %w", path, err)
	}
	defer f.Close()
	return readRows(f, limit)
}

// truncateMessage keeps progress lines readable when wrapping row errors.
func truncateMessage(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
