package churn

import (
	"fmt"
	"math"
)

// EnsembleModel is a soft-voting ensemble over a logistic regression
// and a boosted-tree learner: probabilities are averaged, and
// importances are each learner's scores normalized to sum to one and
// then averaged per feature.
type EnsembleModel struct {
	params      *EnsembleParams
	boosted     *BoostedModel
	numFeatures int
}

// NewEnsembleModel builds the runtime model from persisted parameters.
func NewEnsembleModel(params *EnsembleParams, numFeatures int) *EnsembleModel {
	return &EnsembleModel{
		params:      params,
		boosted:     NewBoostedModel(params.Boosted, numFeatures),
		numFeatures: numFeatures,
	}
}

// PredictProba returns the churn probability for every row.
func (em *EnsembleModel) PredictProba(m *Matrix) ([]float64, error) {
	if m.NumFeatures() != em.numFeatures {
		return nil, fmt.Errorf("matrix has %d features, model expects %d",
			m.NumFeatures(), em.numFeatures)
	}

	boostedProbs, err := em.boosted.PredictProba(m)
	if err != nil {
		return nil, fmt.Errorf("boosted learner: %w", err)
	}

	probs := make([]float64, m.NumRows())
	for i, row := range m.Rows {
		logit := em.params.Logistic.Intercept
		for j, coef := range em.params.Logistic.Coefficients {
			logit += coef * row[j]
		}
		probs[i] = (sigmoid(logit) + boostedProbs[i]) / 2
	}
	return probs, nil
}

// FeatureImportances averages the per-learner importances. Each
// learner's scores are first normalized to sum to one so that neither
// learner dominates by scale.
func (em *EnsembleModel) FeatureImportances() ([]float64, bool) {
	logistic := make([]float64, em.numFeatures)
	for j, coef := range em.params.Logistic.Coefficients {
		logistic[j] = math.Abs(coef)
	}
	normalize(logistic)

	boosted, _ := em.boosted.FeatureImportances()
	normalize(boosted)

	combined := make([]float64, em.numFeatures)
	for j := range combined {
		combined[j] = (logistic[j] + boosted[j]) / 2
	}
	return combined, true
}

// normalize scales values in place to sum to one; all-zero input is
// left unchanged.
func normalize(values []float64) {
	total := 0.0
	for _, v := range values {
		total += v
	}
	if total == 0 {
		return
	}
	for i := range values {
		values[i] /= total
	}
}
