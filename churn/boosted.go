package churn

import "fmt"

// BoostedModel is an additive gradient-boosted tree classifier. The
// raw score is the base score plus the learning-rate-weighted sum of
// tree outputs, squashed through a sigmoid.
type BoostedModel struct {
	params      *BoostedParams
	numFeatures int
}

// NewBoostedModel builds the runtime model from persisted parameters.
func NewBoostedModel(params *BoostedParams, numFeatures int) *BoostedModel {
	return &BoostedModel{params: params, numFeatures: numFeatures}
}

// PredictProba returns the churn probability for every row.
func (bm *BoostedModel) PredictProba(m *Matrix) ([]float64, error) {
	if m.NumFeatures() != bm.numFeatures {
		return nil, fmt.Errorf("matrix has %d features, model expects %d",
			m.NumFeatures(), bm.numFeatures)
	}

	probs := make([]float64, m.NumRows())
	for i, row := range m.Rows {
		score := bm.params.BaseScore
		for ti := range bm.params.Trees {
			leaf, err := bm.params.Trees[ti].Score(row)
			if err != nil {
				return nil, fmt.Errorf("tree %d: %w", ti, err)
			}
			score += bm.params.LearningRate * leaf
		}
		probs[i] = sigmoid(score)
	}
	return probs, nil
}

// FeatureImportances returns gain-based importances normalized to sum
// to one.
func (bm *BoostedModel) FeatureImportances() ([]float64, bool) {
	importance := make([]float64, bm.numFeatures)
	for i := range bm.params.Trees {
		bm.params.Trees[i].accumulateGains(importance)
	}

	total := 0.0
	for _, v := range importance {
		total += v
	}
	if total == 0 {
		return importance, true
	}
	for i := range importance {
		importance[i] /= total
	}
	return importance, true
}
