package dashboard

import (
	"math"
	"testing"
)

func TestMonthlySalesCoversAllMonths(t *testing.T) {
	frame := frameWith([]string{"activate date"},
		map[string]any{"activate date": "2024-03-05"},
		map[string]any{"activate date": "2024-03-20"},
		map[string]any{"activate date": "2024-11-01"},
		map[string]any{"activate date": "not a date"},
	)

	got := MonthlySales(frame)
	if len(got) != 12 {
		t.Fatalf("months = %d, want 12", len(got))
	}
	if got["March"] != 2 || got["November"] != 1 {
		t.Errorf("sales = %v", got)
	}
	if got["June"] != 0 {
		t.Errorf("quiet month = %d, want 0", got["June"])
	}
}

func TestMonthlyModelSales(t *testing.T) {
	frame := frameWith([]string{"activate date", "Model"},
		map[string]any{"activate date": "2024-03-05", "Model": "A23"},
		map[string]any{"activate date": "2024-03-20", "Model": "A23"},
		map[string]any{"activate date": "2024-03-21", "Model": "Tab10"},
		map[string]any{"activate date": "2024-03-22", "Model": nil},
	)

	got := MonthlyModelSales(frame)
	if got["March"]["A23"] != 2 || got["March"]["Tab10"] != 1 {
		t.Errorf("march sales = %v", got["March"])
	}
	if len(got["March"]) != 2 {
		t.Errorf("blank model counted: %v", got["March"])
	}
	if got["June"] == nil || len(got["June"]) != 0 {
		t.Errorf("quiet month = %v, want empty map", got["June"])
	}
}

func TestDeviceRetainment(t *testing.T) {
	frame := frameWith([]string{"activate date", "interval date"},
		map[string]any{"activate date": "2024-01-01", "interval date": "2024-01-03"},
		map[string]any{"activate date": "2024-01-10", "interval date": "2024-01-11"},
		map[string]any{"activate date": "2024-02-01", "interval date": nil},
	)

	got := DeviceRetainment(frame)
	// January: mean of 48 and 24 hours.
	if math.Abs(got["January"]-36) > 1e-9 {
		t.Errorf("January = %v, want 36", got["January"])
	}
	// February has no usable interval and defaults to zero.
	if got["February"] != 0 {
		t.Errorf("February = %v, want 0", got["February"])
	}
	if len(got) != 12 {
		t.Errorf("months = %d, want 12", len(got))
	}
}
