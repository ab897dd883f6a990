package churn

import (
	"math"
	"testing"

	"github.com/ikteng/NUUMobile/workbook"
)

func frameFromRows(columns []string, rows ...map[string]any) *workbook.Frame {
	frame := workbook.NewFrame("Data", columns)
	frame.Rows = append(frame.Rows, rows...)
	return frame
}

func TestNormalizeEmptySheet(t *testing.T) {
	frame := workbook.NewFrame("Data", []string{"Model"})
	if _, err := Normalize(frame); err == nil {
		t.Fatal("expected error for empty sheet")
	}

	if _, err := Normalize(nil); err == nil {
		t.Fatal("expected error for nil frame")
	}
}

func TestNormalizeRenamesAndDrops(t *testing.T) {
	frame := frameFromRows(
		[]string{"Product/Model #", "Sale Channel", "imei1", "Warranty"},
		map[string]any{"Product/Model #": "A23", "Sale Channel": "Amazon", "imei1": "123", "Warranty": "Yes"},
	)

	ds, err := Normalize(frame)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	want := map[string]bool{"Model": true, "Source": true, "Warranty": true}
	for _, col := range ds.Columns {
		if !want[col] {
			t.Errorf("unexpected column %q", col)
		}
		delete(want, col)
	}
	for col := range want {
		t.Errorf("missing column %q", col)
	}
}

func TestDeriveLabelsFromType(t *testing.T) {
	frame := frameFromRows(
		[]string{"Type", "Warranty"},
		map[string]any{"Type": "Return", "Warranty": "Yes"},
		map[string]any{"Type": "Repair", "Warranty": "No"},
		map[string]any{"Type": "Exchange", "Warranty": "Yes"},
		map[string]any{"Type": nil, "Warranty": "No"},
	)

	ds, err := Normalize(frame)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	want := []int{1, 0, LabelUnknown, LabelUnknown}
	for i, label := range ds.Labels {
		if label != want[i] {
			t.Errorf("row %d: label = %d, want %d", i, label, want[i])
		}
	}
}

func TestDeriveLabelsChurnFlagWins(t *testing.T) {
	frame := frameFromRows(
		[]string{"Churn", "Type"},
		map[string]any{"Churn": float64(1), "Type": "Repair"},
		map[string]any{"Churn": float64(0), "Type": "Return"},
	)

	ds, err := Normalize(frame)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if ds.Labels[0] != 1 || ds.Labels[1] != 0 {
		t.Errorf("labels = %v, want [1 0]", ds.Labels)
	}
}

func TestCleanModelNames(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"a 23 plus", "A23Plus"},
		{"BUDS A", "Earbudsa"},
		{"earbudsb", "Earbudsb"},
		{"Tab 10", "Tab10"},
	}

	for _, tt := range tests {
		frame := frameFromRows(
			[]string{"Model", "Type"},
			map[string]any{"Model": tt.raw, "Type": "Return"},
		)
		ds, err := Normalize(frame)
		if err != nil {
			t.Fatalf("Normalize failed: %v", err)
		}
		if got := ds.Rows[0]["Model"]; got != tt.want {
			t.Errorf("cleanModelNames(%q) = %v, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestExtractCarrier(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"json array", `[{"carrier_name": "T-Mobile"}]`, "T-Mobile"},
		{"json name key", `[{"name": "Verizon"}]`, "Verizon"},
		{"raw token", "uninserted", "uninserted"},
		{"malformed json", `[{"carrier_name": `, InvalidJSONCarrier},
		{"empty array", `[]`, UnknownCarrier},
		{"entry without carrier", `[{"foo": "bar"}]`, UnknownCarrier},
		{"blank", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractCarrier(tt.raw); got != tt.want {
				t.Errorf("ExtractCarrier(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseDateArabicDigits(t *testing.T) {
	date, ok := ParseDate("٢٠٢٤-٠١-١٥")
	if !ok {
		t.Fatal("expected Arabic-Indic date to parse")
	}
	if date.Year() != 2024 || int(date.Month()) != 1 || date.Day() != 15 {
		t.Errorf("parsed %v, want 2024-01-15", date)
	}
}

func TestParseDateExcelSerial(t *testing.T) {
	// Serial 45292 is 2024-01-01.
	date, ok := ParseDate(float64(45292))
	if !ok {
		t.Fatal("expected serial date to parse")
	}
	if date.Year() != 2024 || int(date.Month()) != 1 || date.Day() != 1 {
		t.Errorf("parsed %v, want 2024-01-01", date)
	}
}

func TestDateDeltas(t *testing.T) {
	frame := frameFromRows(
		[]string{"activate date", "last bootl date", "interval date", "Type"},
		map[string]any{
			"activate date":   "2024-01-01",
			"last bootl date": "2024-01-11",
			"interval date":   "2024-01-21",
			"Type":            "Return",
		},
		map[string]any{
			"activate date":   "2024-01-01",
			"last bootl date": nil,
			"interval date":   "2024-01-05",
			"Type":            "Repair",
		},
	)

	ds, err := Normalize(frame)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	row := ds.Rows[0]
	if got := row["last_boot - activate"]; got != float64(10) {
		t.Errorf("last_boot - activate = %v, want 10", got)
	}
	if got := row["interval - last_boot"]; got != float64(10) {
		t.Errorf("interval - last_boot = %v, want 10", got)
	}
	if got := row["interval - activate"]; got != float64(20) {
		t.Errorf("interval - activate = %v, want 20", got)
	}

	// Raw date columns are gone.
	for _, col := range ds.Columns {
		if col == "activate date" || col == "last_boot_date" || col == "interval_date" {
			t.Errorf("raw date column %q survived normalization", col)
		}
	}

	// Deltas involving the missing boot date stay missing.
	if ds.Rows[1]["last_boot - activate"] != nil {
		t.Errorf("expected missing delta, got %v", ds.Rows[1]["last_boot - activate"])
	}
	if got := ds.Rows[1]["interval - activate"]; got != float64(4) {
		t.Errorf("interval - activate = %v, want 4", got)
	}
}

func TestNormalizeKeepsDeviceNumbers(t *testing.T) {
	frame := frameFromRows(
		[]string{"Device number", "Type"},
		map[string]any{"Device number": "DEV-1", "Type": "Return"},
		map[string]any{"Device number": "DEV-2", "Type": "Repair"},
	)

	ds, err := Normalize(frame)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if ds.Devices[0] != "DEV-1" || ds.Devices[1] != "DEV-2" {
		t.Errorf("devices = %v", ds.Devices)
	}
	for _, col := range ds.Columns {
		if col == "Device number" {
			t.Error("Device number should not be a model input")
		}
	}
}

func TestDaysBetweenFloorsPartialDays(t *testing.T) {
	a, _ := ParseDate("2024-01-01 12:00:00")
	b, _ := ParseDate("2024-01-02 06:00:00")
	if d := daysBetween(a, b); d != 0 {
		t.Errorf("daysBetween = %v, want 0", d)
	}
	if !math.Signbit(daysBetween(b, a)) {
		t.Error("expected negative delta when dates are reversed")
	}
}
