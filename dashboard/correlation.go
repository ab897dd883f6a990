package dashboard

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"github.com/ikteng/NUUMobile/churn"
	"github.com/ikteng/NUUMobile/workbook"
)

// ChurnCorrelation computes the Pearson correlation of every column
// against the derived churn outcome. Categorical columns are encoded
// as integers in first-seen order, boolean-like cells become 1/0,
// parseable dates become Unix timestamps and missing cells become -1.
func ChurnCorrelation(frame *workbook.Frame) (map[string]float64, error) {
	if frame.NumRows() == 0 {
		return nil, fmt.Errorf("sheet is empty")
	}

	target, err := churnTarget(frame)
	if err != nil {
		return nil, err
	}

	correlations := make(map[string]float64)
	for _, col := range frame.Columns {
		values := encodeColumn(frame, col)
		corr, err := stats.Pearson(values, target)
		if err != nil || math.IsNaN(corr) {
			// Constant columns have no defined correlation.
			continue
		}
		correlations[col] = math.Round(corr*10000) / 10000
	}
	return correlations, nil
}

// churnTarget derives the numeric churn outcome per row: an explicit
// Churn column wins (blank as 0), otherwise the warranty Type maps
// Return to 1 and everything else to 0.
func churnTarget(frame *workbook.Frame) ([]float64, error) {
	target := make([]float64, frame.NumRows())

	switch {
	case frame.HasColumn("Churn"):
		for i, row := range frame.Rows {
			if f, ok := workbook.CellFloat(row["Churn"]); ok {
				target[i] = f
			}
		}
	case frame.HasColumn("Type"):
		for i, row := range frame.Rows {
			if workbook.CellString(row["Type"]) == "Return" {
				target[i] = 1
			}
		}
	default:
		return nil, fmt.Errorf("neither Churn nor Type column found")
	}

	return target, nil
}

// encodeColumn converts one column to numeric form for correlation.
func encodeColumn(frame *workbook.Frame, col string) []float64 {
	values := make([]float64, frame.NumRows())
	categories := make(map[string]float64)

	for i, row := range frame.Rows {
		v := row[col]
		switch {
		case workbook.IsBlank(v):
			values[i] = -1
		case isBooleanCell(v):
			values[i] = booleanValue(v)
		default:
			if f, ok := workbook.CellFloat(v); ok {
				values[i] = f
				continue
			}
			if date, ok := churn.ParseDate(v); ok {
				values[i] = float64(date.Unix())
				continue
			}
			s := workbook.CellString(v)
			if _, ok := categories[s]; !ok {
				categories[s] = float64(len(categories))
			}
			values[i] = categories[s]
		}
	}
	return values
}

func isBooleanCell(v any) bool {
	if _, ok := v.(bool); ok {
		return true
	}
	s := workbook.CellString(v)
	return s == "TRUE" || s == "FALSE"
}

func booleanValue(v any) float64 {
	if b, ok := v.(bool); ok {
		if b {
			return 1
		}
		return 0
	}
	if workbook.CellString(v) == "TRUE" {
		return 1
	}
	return 0
}
