package workbook

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrSheetNotFound reports a sheet name absent from the workbook.
var ErrSheetNotFound = errors.New("sheet not found")

// SheetNames returns the sheet names of an Excel workbook in order.
func SheetNames(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return f.GetSheetList(), nil
}

// ReadSheet parses one sheet of an Excel workbook into a Frame. The
// first row is the header; blank header cells get positional names.
// Rows shorter than the header are padded with blanks.
func ReadSheet(path, sheet string) (*Frame, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(sheet)
	if err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q: %w", sheet, ErrSheetNotFound)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return NewFrame(sheet, nil), nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		h = strings.TrimSpace(h)
		if h == "" {
			h = "Column" + strconv.Itoa(i+1)
		}
		header[i] = h
	}

	frame := NewFrame(sheet, header)
	for _, raw := range rows[1:] {
		row := make(map[string]any, len(header))
		empty := true
		for i, col := range header {
			var cell string
			if i < len(raw) {
				cell = strings.TrimSpace(raw[i])
			}
			if cell == "" {
				row[col] = nil
				continue
			}
			empty = false
			if num, err := strconv.ParseFloat(cell, 64); err == nil {
				row[col] = num
			} else {
				row[col] = cell
			}
		}
		if !empty {
			frame.Rows = append(frame.Rows, row)
		}
	}

	return frame, nil
}
