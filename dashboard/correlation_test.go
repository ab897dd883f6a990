package dashboard

import (
	"testing"
)

func TestChurnCorrelationFromType(t *testing.T) {
	frame := frameWith([]string{"Type", "Warranty", "days active"},
		map[string]any{"Type": "Return", "Warranty": "Yes", "days active": float64(20)},
		map[string]any{"Type": "Return", "Warranty": "Yes", "days active": float64(15)},
		map[string]any{"Type": "Repair", "Warranty": "No", "days active": float64(2)},
		map[string]any{"Type": "Repair", "Warranty": "No", "days active": float64(1)},
	)

	got, err := ChurnCorrelation(frame)
	if err != nil {
		t.Fatalf("ChurnCorrelation failed: %v", err)
	}

	// Warranty encodes Yes first, so it moves opposite the target.
	if got["Warranty"] != -1 {
		t.Errorf("Warranty correlation = %v, want -1", got["Warranty"])
	}
	if got["days active"] < 0.9 {
		t.Errorf("days active correlation = %v, want strongly positive", got["days active"])
	}
	// Type itself encodes Return first and is perfectly anti-aligned.
	if got["Type"] != -1 {
		t.Errorf("Type correlation = %v, want -1", got["Type"])
	}
}

func TestChurnCorrelationPrefersChurnColumn(t *testing.T) {
	frame := frameWith([]string{"Churn", "score"},
		map[string]any{"Churn": float64(1), "score": float64(10)},
		map[string]any{"Churn": float64(0), "score": float64(2)},
		map[string]any{"Churn": float64(1), "score": float64(9)},
		map[string]any{"Churn": float64(0), "score": float64(1)},
	)

	got, err := ChurnCorrelation(frame)
	if err != nil {
		t.Fatalf("ChurnCorrelation failed: %v", err)
	}
	if got["score"] < 0.9 {
		t.Errorf("score correlation = %v, want strongly positive", got["score"])
	}
}

func TestChurnCorrelationSkipsConstantColumns(t *testing.T) {
	frame := frameWith([]string{"Type", "constant"},
		map[string]any{"Type": "Return", "constant": "same"},
		map[string]any{"Type": "Repair", "constant": "same"},
	)

	got, err := ChurnCorrelation(frame)
	if err != nil {
		t.Fatalf("ChurnCorrelation failed: %v", err)
	}
	if _, ok := got["constant"]; ok {
		t.Errorf("constant column reported: %v", got)
	}
}

func TestChurnCorrelationNeedsTarget(t *testing.T) {
	frame := frameWith([]string{"Model"},
		map[string]any{"Model": "A23"},
	)
	if _, err := ChurnCorrelation(frame); err == nil {
		t.Fatal("expected error without Churn or Type column")
	}
}

func TestChurnCorrelationEmptySheet(t *testing.T) {
	if _, err := ChurnCorrelation(frameWith([]string{"Type"})); err == nil {
		t.Fatal("expected error for empty sheet")
	}
}

func TestEncodeColumnRules(t *testing.T) {
	frame := frameWith([]string{"mixed"},
		map[string]any{"mixed": nil},
		map[string]any{"mixed": true},
		map[string]any{"mixed": float64(7)},
		map[string]any{"mixed": "alpha"},
		map[string]any{"mixed": "alpha"},
		map[string]any{"mixed": "beta"},
	)

	got := encodeColumn(frame, "mixed")
	want := []float64{-1, 1, 7, 0, 0, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("encoded[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
