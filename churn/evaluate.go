package churn

import "fmt"

// ConfusionMatrix is the 2x2 outcome table for binary churn labels.
type ConfusionMatrix struct {
	TrueNegatives  int `json:"true_negatives"`
	FalsePositives int `json:"false_positives"`
	FalseNegatives int `json:"false_negatives"`
	TruePositives  int `json:"true_positives"`
}

// Evaluation is the scored report for a labeled sheet. All metrics are
// zero when their denominator is zero. Heatmap carries a base64 PNG of
// the confusion matrix.
type Evaluation struct {
	Evaluable bool             `json:"evaluable"`
	Rows      int              `json:"rows"`
	Accuracy  float64          `json:"accuracy"`
	Precision float64          `json:"precision"`
	Recall    float64          `json:"recall"`
	F1        float64          `json:"f1"`
	Confusion *ConfusionMatrix `json:"confusion_matrix,omitempty"`
	Heatmap   string           `json:"heatmap,omitempty"`
}

// NoEvaluableRows is the explicit result for sheets where no row has a
// derivable ground-truth label.
func NoEvaluableRows() *Evaluation {
	return &Evaluation{Evaluable: false}
}

// Evaluate computes zero-division-safe classification metrics and the
// confusion-matrix heatmap for matched label slices.
func Evaluate(yTrue, yPred []int) (*Evaluation, error) {
	if len(yTrue) != len(yPred) {
		return nil, fmt.Errorf("label slices disagree: %d vs %d", len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return NoEvaluableRows(), nil
	}

	cm := &ConfusionMatrix{}
	for i := range yTrue {
		switch {
		case yTrue[i] == 1 && yPred[i] == 1:
			cm.TruePositives++
		case yTrue[i] == 1 && yPred[i] == 0:
			cm.FalseNegatives++
		case yTrue[i] == 0 && yPred[i] == 1:
			cm.FalsePositives++
		default:
			cm.TrueNegatives++
		}
	}

	eval := &Evaluation{
		Evaluable: true,
		Rows:      len(yTrue),
		Accuracy:  safeDiv(float64(cm.TruePositives+cm.TrueNegatives), float64(len(yTrue))),
		Precision: safeDiv(float64(cm.TruePositives), float64(cm.TruePositives+cm.FalsePositives)),
		Recall:    safeDiv(float64(cm.TruePositives), float64(cm.TruePositives+cm.FalseNegatives)),
		Confusion: cm,
	}
	eval.F1 = safeDiv(2*eval.Precision*eval.Recall, eval.Precision+eval.Recall)

	heatmap, err := RenderConfusionHeatmap(cm)
	if err != nil {
		return nil, fmt.Errorf("failed to render heatmap: %w", err)
	}
	eval.Heatmap = heatmap

	return eval, nil
}

// safeDiv returns zero instead of dividing by zero.
func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
