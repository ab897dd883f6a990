package churn

import (
	"encoding/base64"
	"testing"
)

func TestEvaluateConfusionCounts(t *testing.T) {
	yTrue := []int{1, 1, 0, 0, 1, 0}
	yPred := []int{1, 0, 0, 1, 1, 0}

	eval, err := Evaluate(yTrue, yPred)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	cm := eval.Confusion
	if cm.TruePositives != 2 || cm.FalseNegatives != 1 ||
		cm.FalsePositives != 1 || cm.TrueNegatives != 2 {
		t.Fatalf("confusion = %+v", cm)
	}
	if eval.Rows != 6 {
		t.Errorf("rows = %d, want 6", eval.Rows)
	}
	if eval.Accuracy != 4.0/6.0 {
		t.Errorf("accuracy = %v", eval.Accuracy)
	}
	if eval.Precision != 2.0/3.0 {
		t.Errorf("precision = %v", eval.Precision)
	}
	if eval.Recall != 2.0/3.0 {
		t.Errorf("recall = %v", eval.Recall)
	}
	if eval.F1 != 2.0/3.0 {
		t.Errorf("f1 = %v", eval.F1)
	}
}

func TestEvaluateZeroDivisionSafe(t *testing.T) {
	// No positive predictions and no positive labels: precision,
	// recall, and F1 all have zero denominators.
	eval, err := Evaluate([]int{0, 0}, []int{0, 0})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if eval.Accuracy != 1 {
		t.Errorf("accuracy = %v, want 1", eval.Accuracy)
	}
	if eval.Precision != 0 || eval.Recall != 0 || eval.F1 != 0 {
		t.Errorf("metrics = %v %v %v, want zeros", eval.Precision, eval.Recall, eval.F1)
	}
}

func TestEvaluateMismatchedSlices(t *testing.T) {
	if _, err := Evaluate([]int{1}, []int{1, 0}); err == nil {
		t.Fatal("expected error for mismatched label slices")
	}
}

func TestEvaluateEmptySlices(t *testing.T) {
	eval, err := Evaluate(nil, nil)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if eval.Evaluable {
		t.Fatal("empty input should report no evaluable rows")
	}
}

func TestHeatmapIsValidBase64PNG(t *testing.T) {
	encoded, err := RenderConfusionHeatmap(&ConfusionMatrix{
		TrueNegatives: 5, FalsePositives: 2, FalseNegatives: 1, TruePositives: 8,
	})
	if err != nil {
		t.Fatalf("RenderConfusionHeatmap failed: %v", err)
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("heatmap is not valid base64: %v", err)
	}
	if len(raw) < 8 || string(raw[1:4]) != "PNG" {
		t.Fatal("heatmap payload is not a PNG")
	}
}
