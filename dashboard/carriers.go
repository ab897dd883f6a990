package dashboard

import (
	"regexp"

	"github.com/ikteng/NUUMobile/churn"
	"github.com/ikteng/NUUMobile/workbook"
)

var carrierQualifier = regexp.MustCompile(`\s\([^)]+\)`)

// cleanCarrierLabel removes parenthetical qualifiers such as network
// codes from a carrier label.
func cleanCarrierLabel(label string) string {
	return carrierQualifier.ReplaceAllString(label, "")
}

// Carriers counts devices per carrier from the embedded sim_info
// payload.
func Carriers(frame *workbook.Frame) map[string]int {
	canonical := Canonicalize(frame)
	if !canonical.HasColumn("sim_info") {
		return map[string]int{}
	}

	counts := make(map[string]int)
	for _, row := range canonical.Rows {
		if workbook.IsBlank(row["sim_info"]) {
			continue
		}
		counts[churn.ExtractCarrier(workbook.CellString(row["sim_info"]))]++
	}
	return counts
}

// SlotCarriers counts devices per carrier for one SIM slot column
// ("Slot 1" or "Slot 2").
func SlotCarriers(frame *workbook.Frame, slot string) map[string]int {
	canonical := Canonicalize(frame)
	if !canonical.HasColumn(slot) {
		return map[string]int{}
	}

	counts := make(map[string]int)
	for _, row := range canonical.Rows {
		if workbook.IsBlank(row[slot]) {
			continue
		}
		counts[cleanCarrierLabel(workbook.CellString(row[slot]))]++
	}
	return counts
}

// CombinedSlotCarriers merges the carrier counts of both SIM slots.
func CombinedSlotCarriers(frame *workbook.Frame) map[string]int {
	combined := SlotCarriers(frame, "Slot 1")
	for carrier, count := range SlotCarriers(frame, "Slot 2") {
		combined[carrier] += count
	}
	return combined
}

// SimCountries counts devices per SIM country.
func SimCountries(frame *workbook.Frame) map[string]int {
	canonical := Canonicalize(frame)
	if !canonical.HasColumn("Sim Country") {
		return map[string]int{}
	}

	counts := make(map[string]int)
	for _, row := range canonical.Rows {
		if workbook.IsBlank(row["Sim Country"]) {
			continue
		}
		counts[cleanCarrierLabel(workbook.CellString(row["Sim Country"]))]++
	}
	return counts
}
