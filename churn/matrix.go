package churn

import "math"

// Matrix is a dense numeric feature matrix with named columns.
// Cells may hold NaN until imputation fills them.
type Matrix struct {
	Features []string    `json:"features"`
	Rows     [][]float64 `json:"rows"`
}

// NewMatrix allocates a matrix with the given feature names and row count.
// All cells start as NaN.
func NewMatrix(features []string, numRows int) *Matrix {
	rows := make([][]float64, numRows)
	for i := range rows {
		row := make([]float64, len(features))
		for j := range row {
			row[j] = math.NaN()
		}
		rows[i] = row
	}
	return &Matrix{
		Features: append([]string(nil), features...),
		Rows:     rows,
	}
}

// NumRows returns the number of rows.
func (m *Matrix) NumRows() int {
	return len(m.Rows)
}

// NumFeatures returns the number of feature columns.
func (m *Matrix) NumFeatures() int {
	return len(m.Features)
}

// FeatureIndex returns the column index of the named feature, or -1.
func (m *Matrix) FeatureIndex(name string) int {
	for i, f := range m.Features {
		if f == name {
			return i
		}
	}
	return -1
}

// Column returns a copy of the values in the given feature column.
func (m *Matrix) Column(j int) []float64 {
	col := make([]float64, len(m.Rows))
	for i, row := range m.Rows {
		col[i] = row[j]
	}
	return col
}

// Clone returns a deep copy of the matrix.
func (m *Matrix) Clone() *Matrix {
	clone := &Matrix{
		Features: append([]string(nil), m.Features...),
		Rows:     make([][]float64, len(m.Rows)),
	}
	for i, row := range m.Rows {
		clone.Rows[i] = append([]float64(nil), row...)
	}
	return clone
}

// Subset returns a new matrix containing only the given row indices.
func (m *Matrix) Subset(indices []int) *Matrix {
	sub := &Matrix{
		Features: append([]string(nil), m.Features...),
		Rows:     make([][]float64, 0, len(indices)),
	}
	for _, i := range indices {
		sub.Rows = append(sub.Rows, append([]float64(nil), m.Rows[i]...))
	}
	return sub
}
