package workbook

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV renders the frame as CSV, header first, preserving column order.
func WriteCSV(w io.Writer, frame *Frame) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(frame.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, len(frame.Columns))
	for _, row := range frame.Rows {
		for i, col := range frame.Columns {
			record[i] = CellString(row[col])
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
