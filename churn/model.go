package churn

import "math"

// Model scores aligned feature matrices. Implementations are built
// from persisted artifacts and are safe for concurrent use after
// construction.
type Model interface {
	// PredictProba returns the churn probability for every row.
	PredictProba(m *Matrix) ([]float64, error)

	// FeatureImportances returns per-feature importance scores in
	// canonical feature order, or false when the family has no
	// native notion of importance.
	FeatureImportances() ([]float64, bool)
}

// sigmoid maps a raw score to (0, 1).
func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}
