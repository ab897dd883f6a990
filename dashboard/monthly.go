package dashboard

import (
	"github.com/montanaflynn/stats"

	"github.com/ikteng/NUUMobile/churn"
	"github.com/ikteng/NUUMobile/workbook"
)

// monthNames is calendar order for stable payloads.
var monthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// activationMonth returns the month name of a row's activation date,
// or empty when it cannot be parsed.
func activationMonth(row map[string]any) string {
	date, ok := churn.ParseDate(row["activate date"])
	if !ok {
		return ""
	}
	return date.Month().String()
}

// MonthlySales counts device activations per calendar month.
func MonthlySales(frame *workbook.Frame) map[string]int {
	sales := make(map[string]int, len(monthNames))
	for _, month := range monthNames {
		sales[month] = 0
	}
	for _, row := range frame.Rows {
		if month := activationMonth(row); month != "" {
			sales[month]++
		}
	}
	return sales
}

// MonthlyModelSales counts activations per model per calendar month.
func MonthlyModelSales(frame *workbook.Frame) map[string]map[string]int {
	sales := make(map[string]map[string]int, len(monthNames))
	for _, month := range monthNames {
		sales[month] = map[string]int{}
	}
	for _, row := range frame.Rows {
		month := activationMonth(row)
		if month == "" || workbook.IsBlank(row["Model"]) {
			continue
		}
		sales[month][workbook.CellString(row["Model"])]++
	}
	return sales
}

// DeviceRetainment reports the mean hours between activation and the
// last usage interval, grouped by activation month. Months without
// parseable data report zero.
func DeviceRetainment(frame *workbook.Frame) map[string]float64 {
	hoursByMonth := make(map[string][]float64)
	for _, row := range frame.Rows {
		month := activationMonth(row)
		if month == "" {
			continue
		}
		activate, okA := churn.ParseDate(row["activate date"])
		interval, okI := churn.ParseDate(row["interval date"])
		if !okA || !okI {
			continue
		}
		hoursByMonth[month] = append(hoursByMonth[month], interval.Sub(activate).Hours())
	}

	retainment := make(map[string]float64, len(monthNames))
	for _, month := range monthNames {
		retainment[month] = 0
		if samples, ok := hoursByMonth[month]; ok {
			if mean, err := stats.Mean(samples); err == nil {
				retainment[month] = mean
			}
		}
	}
	return retainment
}
