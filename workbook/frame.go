// Package workbook loads uploaded spreadsheets into a column-ordered
// tabular form that the churn pipeline and dashboard aggregations consume.
package workbook

import (
	"fmt"
	"strconv"
	"strings"
)

// Frame is an ordered tabular dataset parsed from one sheet.
// Column order is preserved from the source sheet; cell values are
// strings, float64s, bools or nil for blank cells.
type Frame struct {
	Name    string           `json:"name"`
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// NewFrame creates an empty frame with the given column order.
func NewFrame(name string, columns []string) *Frame {
	return &Frame{
		Name:    name,
		Columns: append([]string(nil), columns...),
		Rows:    []map[string]any{},
	}
}

// NumRows returns the number of data rows.
func (f *Frame) NumRows() int {
	return len(f.Rows)
}

// HasColumn reports whether the frame contains the named column.
func (f *Frame) HasColumn(name string) bool {
	for _, c := range f.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Column returns all values of the named column in row order.
func (f *Frame) Column(name string) ([]any, error) {
	if !f.HasColumn(name) {
		return nil, fmt.Errorf("column %q not found", name)
	}
	values := make([]any, len(f.Rows))
	for i, row := range f.Rows {
		values[i] = row[name]
	}
	return values, nil
}

// RenameColumns applies the given old-name to new-name mapping in place.
// Columns absent from the frame are ignored.
func (f *Frame) RenameColumns(renames map[string]string) {
	for i, col := range f.Columns {
		if newName, ok := renames[col]; ok {
			f.Columns[i] = newName
		}
	}
	for _, row := range f.Rows {
		for old, newName := range renames {
			if v, ok := row[old]; ok {
				delete(row, old)
				row[newName] = v
			}
		}
	}
}

// DropColumns removes the named columns from the frame if present.
func (f *Frame) DropColumns(names ...string) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	kept := f.Columns[:0]
	for _, c := range f.Columns {
		if !drop[c] {
			kept = append(kept, c)
		}
	}
	f.Columns = kept
	for _, row := range f.Rows {
		for n := range drop {
			delete(row, n)
		}
	}
}

// CellString renders a cell value as its string form. Blank cells
// return the empty string.
func CellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "TRUE"
		}
		return "FALSE"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// CellFloat attempts to interpret a cell value as a number.
func CellFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// IsBlank reports whether a cell value counts as missing.
func IsBlank(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}
