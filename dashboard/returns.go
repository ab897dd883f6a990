package dashboard

import (
	"github.com/ikteng/NUUMobile/workbook"
)

// returnedRows filters the sheet down to returned devices.
func returnedRows(frame *workbook.Frame) []map[string]any {
	var rows []map[string]any
	for _, row := range frame.Rows {
		if workbook.CellString(row["Type"]) == "Return" {
			rows = append(rows, row)
		}
	}
	return rows
}

// ReturnsCount counts the returned devices in a sheet.
func ReturnsCount(frame *workbook.Frame) int {
	return len(returnedRows(frame))
}

// DefectCounts tallies defect and damage types among returns.
func DefectCounts(frame *workbook.Frame) map[string]int {
	counts := make(map[string]int)
	for _, row := range returnedRows(frame) {
		if workbook.IsBlank(row["Defect / Damage type"]) {
			continue
		}
		counts[workbook.CellString(row["Defect / Damage type"])]++
	}
	return counts
}

// FeedbackCounts tallies customer feedback among returns, with a known
// data-entry typo fixed, the bare "F" placeholder dropped, and
// near-duplicate labels merged.
func FeedbackCounts(frame *workbook.Frame) map[string]int {
	counts := make(map[string]int)
	for _, row := range returnedRows(frame) {
		if workbook.IsBlank(row["Feedback"]) {
			continue
		}
		feedback := workbook.CellString(row["Feedback"])
		if feedback == "Walmart Reurn" {
			feedback = "Walmart Return"
		}
		if feedback == "F" {
			continue
		}
		counts[feedback]++
	}
	return FuzzyGroup(counts)
}

// VerificationCounts tallies verified issues among returns with
// near-duplicate labels merged.
func VerificationCounts(frame *workbook.Frame) map[string]int {
	counts := make(map[string]int)
	for _, row := range returnedRows(frame) {
		if workbook.IsBlank(row["Verification"]) {
			continue
		}
		counts[workbook.CellString(row["Verification"])]++
	}
	return FuzzyGroup(counts)
}

// ResponsiblePartyCounts tallies return causes among returns with
// near-duplicate labels merged.
func ResponsiblePartyCounts(frame *workbook.Frame) map[string]int {
	counts := make(map[string]int)
	for _, row := range returnedRows(frame) {
		if workbook.IsBlank(row["Responsible Party"]) {
			continue
		}
		counts[workbook.CellString(row["Responsible Party"])]++
	}
	return FuzzyGroup(counts)
}
