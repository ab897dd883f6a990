package dashboard

import (
	"strings"

	"github.com/ikteng/NUUMobile/workbook"
)

// AgeRanges counts the frequency of each age bracket. Sheets without
// an Age Range column yield an empty map.
func AgeRanges(frame *workbook.Frame) map[string]int {
	canonical := Canonicalize(frame)
	if !canonical.HasColumn("Age Range") {
		return map[string]int{}
	}

	frequency := make(map[string]int)
	for _, row := range canonical.Rows {
		if workbook.IsBlank(row["Age Range"]) {
			continue
		}
		frequency[workbook.CellString(row["Age Range"])]++
	}
	return frequency
}

// ModelTypes counts devices per model with near-duplicate model
// labels merged.
func ModelTypes(frame *workbook.Frame) map[string]int {
	canonical := Canonicalize(frame)
	if !canonical.HasColumn("Model") {
		return map[string]int{}
	}

	counts := make(map[string]int)
	for _, row := range canonical.Rows {
		if workbook.IsBlank(row["Model"]) {
			continue
		}
		counts[workbook.CellString(row["Model"])]++
	}
	return FuzzyGroup(counts)
}

// cleanModelLabel normalizes model spellings the way the scoring
// pipeline does: spaces out, earbud shorthand expanded, title case.
func cleanModelLabel(raw string) string {
	name := strings.ToLower(strings.ReplaceAll(raw, " ", ""))
	name = strings.ReplaceAll(name, "earbudsa", "budsa")
	name = strings.ReplaceAll(name, "earbudsb", "budsb")
	name = strings.ReplaceAll(name, "budsa", "earbudsa")
	name = strings.ReplaceAll(name, "budsb", "earbudsb")

	var b strings.Builder
	upper := true
	for _, r := range name {
		if upper && r >= 'a' && r <= 'z' {
			b.WriteRune(r - 32)
		} else {
			b.WriteRune(r)
		}
		upper = !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'))
	}
	return b.String()
}

// ModelChannelPerformance counts devices per model and sales channel.
// The Sale Channel column wins over Source when both exist.
func ModelChannelPerformance(frame *workbook.Frame) map[string]map[string]int {
	canonical := Canonicalize(frame)
	if !canonical.HasColumn("Model") {
		return map[string]map[string]int{}
	}

	channelCol := ""
	switch {
	case canonical.HasColumn("Sale Channel"):
		channelCol = "Sale Channel"
	case canonical.HasColumn("Source"):
		channelCol = "Source"
	default:
		return map[string]map[string]int{}
	}

	performance := make(map[string]map[string]int)
	for _, row := range canonical.Rows {
		if workbook.IsBlank(row["Model"]) || workbook.IsBlank(row[channelCol]) {
			continue
		}
		model := cleanModelLabel(workbook.CellString(row["Model"]))
		channel := workbook.CellString(row[channelCol])
		if performance[model] == nil {
			performance[model] = make(map[string]int)
		}
		performance[model][channel]++
	}
	return performance
}
