// Package dashboard computes the aggregate statistics served by the
// analytics endpoints: column frequencies, model and carrier
// breakdowns, monthly activity, returns analysis and churn
// correlation. All functions are pure over a parsed sheet.
package dashboard

import (
	"regexp"
	"sort"

	"github.com/ikteng/NUUMobile/churn"
	"github.com/ikteng/NUUMobile/workbook"
)

// headerAliases canonicalizes the model column's many spellings.
var headerAliases = map[string]string{
	"Product/Model #": "Model",
	"Product Model":   "Model",
}

var parenthetical = regexp.MustCompile(`\s*\([^)]*\)\s*`)

// CanonicalColumns returns the sheet's headers with aliases applied
// and parenthetical qualifiers stripped.
func CanonicalColumns(frame *workbook.Frame) []string {
	columns := make([]string, len(frame.Columns))
	for i, col := range frame.Columns {
		if alias, ok := headerAliases[col]; ok {
			col = alias
		}
		columns[i] = parenthetical.ReplaceAllString(col, "")
	}
	return columns
}

// Canonicalize applies canonical headers to a copy of the frame.
func Canonicalize(frame *workbook.Frame) *workbook.Frame {
	canonical := CanonicalColumns(frame)

	out := &workbook.Frame{
		Name:    frame.Name,
		Columns: canonical,
		Rows:    make([]map[string]any, len(frame.Rows)),
	}
	for i, row := range frame.Rows {
		copied := make(map[string]any, len(row))
		for j, col := range frame.Columns {
			copied[canonical[j]] = row[col]
		}
		out.Rows[i] = copied
	}
	return out
}

// MissingKey is the frequency bucket for blank cells.
const MissingKey = "NaN"

// ColumnFrequency counts distinct values of one canonical column.
// Embedded SIM JSON payloads are reduced to their carrier name and
// blank cells are bucketed under MissingKey.
func ColumnFrequency(frame *workbook.Frame, column string) (map[string]int, error) {
	canonical := Canonicalize(frame)
	values, err := canonical.Column(column)
	if err != nil {
		return nil, err
	}

	frequency := make(map[string]int)
	for _, v := range values {
		if workbook.IsBlank(v) {
			frequency[MissingKey]++
			continue
		}
		frequency[churn.ExtractCarrier(workbook.CellString(v))]++
	}
	return frequency, nil
}

// TopValue returns the most frequent value in a count map, breaking
// ties lexicographically for stable output.
func TopValue(counts map[string]int) (string, int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best, bestCount := "", 0
	for _, k := range keys {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best, bestCount
}
