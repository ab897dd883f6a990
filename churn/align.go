package churn

import (
	"math"
	"sort"

	"github.com/ikteng/NUUMobile/workbook"
)

// Align projects a normalized dataset onto a model's canonical feature
// space: categorical columns are one-hot encoded (first category
// dropped, dummies named Column_Value), canonical features absent from
// the input are added as zero columns, unknown columns are dropped,
// columns are reordered to the canonical order and remaining gaps are
// filled from the artifact's persisted imputation statistics.
//
// Aligning an already-aligned dataset is a no-op.
func Align(ds *Dataset, artifact *Artifact) (*Matrix, error) {
	if ds == nil || ds.NumRows() == 0 {
		return nil, NewSchemaError("no rows to align")
	}

	encoded := encode(ds)

	matrix := NewMatrix(artifact.FeatureNames, ds.NumRows())
	for j, feature := range artifact.FeatureNames {
		col, ok := encoded[feature]
		if !ok {
			// Canonical feature unseen in this sheet: all zeros.
			for i := range matrix.Rows {
				matrix.Rows[i][j] = 0
			}
			continue
		}
		for i := range matrix.Rows {
			matrix.Rows[i][j] = col[i]
		}
	}

	impute(matrix, artifact.Imputation)
	return matrix, nil
}

// encode converts every dataset column into one or more numeric
// columns keyed by encoded name. Numeric columns keep their name and
// values (missing as NaN); categorical columns become drop-first
// dummies named Column_Value with categories in sorted order.
func encode(ds *Dataset) map[string][]float64 {
	encoded := make(map[string][]float64)

	for _, col := range ds.Columns {
		values := make([]any, ds.NumRows())
		for i, row := range ds.Rows {
			values[i] = row[col]
		}

		if isNumericColumn(values) {
			nums := make([]float64, len(values))
			for i, v := range values {
				if f, ok := workbook.CellFloat(v); ok {
					nums[i] = f
				} else {
					nums[i] = math.NaN()
				}
			}
			encoded[col] = nums
			continue
		}

		categories := distinctStrings(values)
		if len(categories) == 0 {
			continue
		}
		// First category is the dropped baseline.
		for _, category := range categories[1:] {
			dummy := make([]float64, len(values))
			for i, v := range values {
				if !workbook.IsBlank(v) && workbook.CellString(v) == category {
					dummy[i] = 1
				}
			}
			encoded[col+"_"+category] = dummy
		}
	}

	return encoded
}

// isNumericColumn reports whether every non-missing cell is numeric.
func isNumericColumn(values []any) bool {
	sawValue := false
	for _, v := range values {
		if workbook.IsBlank(v) {
			continue
		}
		if _, ok := workbook.CellFloat(v); !ok {
			return false
		}
		sawValue = true
	}
	return sawValue
}

// distinctStrings returns the sorted distinct non-missing string values.
func distinctStrings(values []any) []string {
	seen := make(map[string]bool)
	for _, v := range values {
		if workbook.IsBlank(v) {
			continue
		}
		seen[workbook.CellString(v)] = true
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// impute fills NaN cells from the persisted per-feature statistics.
// Features without a persisted statistic fall back to zero.
func impute(m *Matrix, stats map[string]float64) {
	for j, feature := range m.Features {
		fill := 0.0
		if stats != nil {
			if v, ok := stats[feature]; ok {
				fill = v
			}
		}
		for i := range m.Rows {
			if math.IsNaN(m.Rows[i][j]) {
				m.Rows[i][j] = fill
			}
		}
	}
}

// Standardize applies a fitted scaler in place. Zero-variance features
// are left centered only.
func Standardize(m *Matrix, scaler *Scaler) {
	if scaler == nil {
		return
	}
	for j := range m.Features {
		mean := scaler.Mean[j]
		std := scaler.Std[j]
		for i := range m.Rows {
			v := m.Rows[i][j] - mean
			if std != 0 {
				v /= std
			}
			m.Rows[i][j] = v
		}
	}
}
