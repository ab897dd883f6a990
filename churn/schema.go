package churn

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/ikteng/NUUMobile/workbook"
)

// Dataset is the normalized form of one sheet: canonical column names,
// typed cells, per-row churn labels and the device identifiers needed
// to report predictions back against the source rows.
type Dataset struct {
	Columns []string
	Rows    []map[string]any
	// Labels holds the derived churn label per row: 1, 0, or
	// LabelUnknown when no ground truth could be derived.
	Labels []int
	// Devices holds the device number per row, empty when absent.
	Devices []string
}

// LabelUnknown marks rows whose churn outcome could not be derived.
const LabelUnknown = -1

// columnRenames maps raw sheet headers to canonical names.
var columnRenames = map[string]string{
	"Product/Model #": "Model",
	"last bootl date": "last_boot_date",
	"interval date":   "interval_date",
	"activate date":   "active_date",
	"Sale Channel":    "Source",
}

// excludedColumns are raw columns never used as model inputs.
var excludedColumns = []string{
	"Device number",
	"imei1",
	"Month",
	"Office Date",
	"Office Time In",
	"Final Status",
	"Defect / Damage type",
	"Responsible Party",
	"Feedback",
	"Slot 1",
	"Slot 2",
	"Verification",
	"Spare Parts Used if returned",
	"App Usage (s)",
	"last boot - activate",
	"last boot - interval",
	"activate",
}

// churnColumns are the headers that may carry a ground-truth flag,
// checked in order.
var churnColumns = []string{"Churn", "Chrn Flag", "Churn Flag"}

// dateLayouts are the accepted date formats, tried in order.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"01-02-2006",
	"02/01/2006 15:04",
	"1/2/2006",
	"1/2/06",
}

// Normalize converts a parsed sheet into the canonical dataset: renames
// headers, derives churn labels, cleans model names, classifies SIM
// carrier info, converts date columns into day-granularity deltas and
// drops columns excluded from modeling.
func Normalize(frame *workbook.Frame) (*Dataset, error) {
	if frame == nil || frame.NumRows() == 0 {
		return nil, NewSchemaError("sheet is empty")
	}

	work := &workbook.Frame{
		Name:    frame.Name,
		Columns: append([]string(nil), frame.Columns...),
		Rows:    make([]map[string]any, len(frame.Rows)),
	}
	for i, row := range frame.Rows {
		copied := make(map[string]any, len(row))
		for k, v := range row {
			copied[k] = v
		}
		work.Rows[i] = copied
	}

	work.RenameColumns(columnRenames)

	devices := extractDevices(work)
	labels := deriveLabels(work)

	work.DropColumns(excludedColumns...)
	work.DropColumns(churnColumns...)
	work.DropColumns("Type")

	cleanModelNames(work)
	classifyCarriers(work)
	deriveDateDeltas(work)

	if len(work.Columns) == 0 {
		return nil, NewSchemaError("no usable columns after normalization")
	}

	return &Dataset{
		Columns: work.Columns,
		Rows:    work.Rows,
		Labels:  labels,
		Devices: devices,
	}, nil
}

// NumRows returns the number of rows in the dataset.
func (d *Dataset) NumRows() int {
	return len(d.Rows)
}

// extractDevices captures device numbers before the column is dropped.
func extractDevices(frame *workbook.Frame) []string {
	devices := make([]string, len(frame.Rows))
	if !frame.HasColumn("Device number") {
		return devices
	}
	for i, row := range frame.Rows {
		devices[i] = workbook.CellString(row["Device number"])
	}
	return devices
}

// deriveLabels produces the per-row churn label. An explicit churn flag
// column wins; otherwise the warranty Type column maps Return to 1 and
// Repair to 0. Everything else is unknown.
func deriveLabels(frame *workbook.Frame) []int {
	labels := make([]int, len(frame.Rows))
	for i := range labels {
		labels[i] = LabelUnknown
	}

	for _, col := range churnColumns {
		if !frame.HasColumn(col) {
			continue
		}
		for i, row := range frame.Rows {
			if f, ok := workbook.CellFloat(row[col]); ok {
				if f >= 0.5 {
					labels[i] = 1
				} else {
					labels[i] = 0
				}
			}
		}
		return labels
	}

	if frame.HasColumn("Type") {
		for i, row := range frame.Rows {
			switch strings.TrimSpace(workbook.CellString(row["Type"])) {
			case "Return":
				labels[i] = 1
			case "Repair":
				labels[i] = 0
			}
		}
	}

	return labels
}

// cleanModelNames canonicalizes the Model column: spaces removed,
// title case, and the shorthand earbud labels expanded.
func cleanModelNames(frame *workbook.Frame) {
	if !frame.HasColumn("Model") {
		return
	}
	for _, row := range frame.Rows {
		raw := workbook.CellString(row["Model"])
		if raw == "" {
			continue
		}
		name := strings.ToLower(strings.ReplaceAll(raw, " ", ""))
		name = strings.ReplaceAll(name, "earbudsa", "budsa")
		name = strings.ReplaceAll(name, "earbudsb", "budsb")
		name = strings.ReplaceAll(name, "budsa", "earbudsa")
		name = strings.ReplaceAll(name, "budsb", "earbudsb")
		row["Model"] = titleCase(name)
	}
}

// titleCase upper-cases the first letter of each letter run, so
// digits start a new word (A23Plus, Tab10).
func titleCase(s string) string {
	var b strings.Builder
	upper := true
	for _, r := range s {
		if upper && r >= 'a' && r <= 'z' {
			b.WriteRune(r - 32)
		} else {
			b.WriteRune(r)
		}
		upper = !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'))
	}
	return b.String()
}

// simEntry matches one element of an embedded sim_info JSON array.
// Some exports label the carrier "carrier_name", others just "name".
type simEntry struct {
	CarrierName string `json:"carrier_name"`
	Name        string `json:"name"`
}

func (e simEntry) carrier() string {
	if strings.TrimSpace(e.CarrierName) != "" {
		return e.CarrierName
	}
	return strings.TrimSpace(e.Name)
}

// Sentinels recorded for sim_info cells that look like JSON: one for
// payloads that cannot be parsed, one for parsed payloads that carry
// no carrier name.
const (
	InvalidJSONCarrier = "Invalid JSON"
	UnknownCarrier     = "Unknown"
)

// ExtractCarrier classifies a raw sim_info cell. JSON arrays yield the
// first entry's carrier name, or Unknown when no name is present;
// malformed JSON yields the Invalid JSON sentinel; any other non-empty
// token passes through unchanged.
func ExtractCarrier(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
		var entries []simEntry
		if err := json.Unmarshal([]byte(trimmed), &entries); err != nil {
			var single simEntry
			if err := json.Unmarshal([]byte(trimmed), &single); err != nil {
				return InvalidJSONCarrier
			}
			entries = []simEntry{single}
		}
		if len(entries) == 0 || entries[0].carrier() == "" {
			return UnknownCarrier
		}
		return entries[0].carrier()
	}
	return trimmed
}

// classifyCarriers replaces raw sim_info payloads with the extracted
// carrier name.
func classifyCarriers(frame *workbook.Frame) {
	if !frame.HasColumn("sim_info") {
		return
	}
	for _, row := range frame.Rows {
		if workbook.IsBlank(row["sim_info"]) {
			row["sim_info"] = nil
			continue
		}
		row["sim_info"] = ExtractCarrier(workbook.CellString(row["sim_info"]))
	}
}

// arabicDigits maps Arabic-Indic digit runes to their ASCII values.
var arabicDigits = map[rune]rune{
	'٠': '0', '١': '1', '٢': '2', '٣': '3', '٤': '4',
	'٥': '5', '٦': '6', '٧': '7', '٨': '8', '٩': '9',
}

// normalizeDigits translates Arabic-Indic digits to ASCII so that
// regionally formatted dates parse.
func normalizeDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if ascii, ok := arabicDigits[r]; ok {
			return ascii
		}
		return r
	}, s)
}

// ParseDate interprets a raw cell as a calendar date. Numeric cells are
// treated as Excel serial dates; strings are tried against the accepted
// layouts after digit normalization.
func ParseDate(v any) (time.Time, bool) {
	if f, ok := v.(float64); ok {
		// Excel serial date, epoch 1899-12-30.
		if f > 0 && f < 200000 {
			epoch := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
			return epoch.AddDate(0, 0, int(f)), true
		}
		return time.Time{}, false
	}

	s := strings.TrimSpace(normalizeDigits(workbook.CellString(v)))
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// daysBetween returns whole days from a to b.
func daysBetween(a, b time.Time) float64 {
	return math.Floor(b.Sub(a).Hours() / 24)
}

// deriveDateDeltas converts the three lifecycle date columns into
// pairwise day deltas and drops the raw dates. Deltas involving a
// missing or unparseable date stay missing.
func deriveDateDeltas(frame *workbook.Frame) {
	const (
		bootCol     = "last_boot_date"
		intervalCol = "interval_date"
		activeCol   = "active_date"
	)

	hasAny := frame.HasColumn(bootCol) || frame.HasColumn(intervalCol) || frame.HasColumn(activeCol)
	if !hasAny {
		return
	}

	deltas := []string{"last_boot - activate", "interval - last_boot", "interval - activate"}
	for _, row := range frame.Rows {
		boot, bootOK := ParseDate(row[bootCol])
		interval, intervalOK := ParseDate(row[intervalCol])
		active, activeOK := ParseDate(row[activeCol])

		if bootOK && activeOK {
			row["last_boot - activate"] = daysBetween(active, boot)
		} else {
			row["last_boot - activate"] = nil
		}
		if intervalOK && bootOK {
			row["interval - last_boot"] = daysBetween(boot, interval)
		} else {
			row["interval - last_boot"] = nil
		}
		if intervalOK && activeOK {
			row["interval - activate"] = daysBetween(active, interval)
		} else {
			row["interval - activate"] = nil
		}
	}

	frame.DropColumns(bootCol, intervalCol, activeCol)
	frame.Columns = append(frame.Columns, deltas...)
}
