package tabular

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file type")
	ErrNoHeader          = errors.New("missing header row")
)

const (
	ExtCSV  = "csv"
	ExtXLS  = "xls"
	ExtXLSX = "xlsx"
)

// Row is one data line of a sheet, keyed by header name.
// Column order follows the header.
type Row struct {
	columns []string
	values  map[string]Value
}

// NewRow pairs header names with already typed values. Duplicate
// or blank header names keep only their first occurrence.
func NewRow(columns []string, values []Value) Row {
	row := Row{values: make(map[string]Value, len(columns))}
	for i, col := range columns {
		if col == "" {
			continue
		}
		if _, dup := row.values[col]; dup {
			continue
		}
		var v Value
		if i < len(values) {
			v = values[i]
		}
		row.columns = append(row.columns, col)
		row.values[col] = v
	}
	return row
}

func (r Row) Columns() []string { return r.columns }

func (r Row) Get(name string) (Value, bool) {
	v, ok := r.values[name]
	return v, ok
}

func (r Row) Len() int { return len(r.columns) }

// Extension returns the lowercase extension of filename without the dot.
func Extension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

func Supported(ext string) bool {
	switch strings.ToLower(ext) {
	case ExtCSV, ExtXLS, ExtXLSX:
		return true
	}
	return false
}

// Read turns a CSV or Excel stream into rows. The first line of the
// first sheet is the header; fully blank lines are dropped.
func Read(ext string, r io.Reader) ([]Row, error) {
	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(ext) {
	case ExtCSV:
		records, err = readCSV(r)
	case ExtXLSX:
		records, err = readXLSX(r)
	case ExtXLS:
		records, err = readXLS(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}
	return buildRows(records)
}

func buildRows(records [][]string) ([]Row, error) {
	if len(records) == 0 || isBlank(records[0]) {
		return nil, ErrNoHeader
	}
	header := records[0]
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		if isBlank(record) {
			continue
		}
		values := make([]Value, len(header))
		for i := range header {
			if i < len(record) {
				values[i] = Parse(record[i])
			}
		}
		rows = append(rows, NewRow(header, values))
	}
	return rows, nil
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
