package dashboard

import (
	"reflect"
	"testing"
)

func TestReturnsCount(t *testing.T) {
	frame := frameWith([]string{"Type"},
		map[string]any{"Type": "Return"},
		map[string]any{"Type": "Return"},
		map[string]any{"Type": "Repair"},
		map[string]any{"Type": nil},
	)
	if got := ReturnsCount(frame); got != 2 {
		t.Errorf("returns = %d, want 2", got)
	}
}

func TestDefectCountsOnlyReturns(t *testing.T) {
	frame := frameWith([]string{"Type", "Defect / Damage type"},
		map[string]any{"Type": "Return", "Defect / Damage type": "Cracked screen"},
		map[string]any{"Type": "Return", "Defect / Damage type": "Cracked screen"},
		map[string]any{"Type": "Repair", "Defect / Damage type": "Cracked screen"},
		map[string]any{"Type": "Return", "Defect / Damage type": nil},
	)

	got := DefectCounts(frame)
	want := map[string]int{"Cracked screen": 2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("defects = %v, want %v", got, want)
	}
}

func TestFeedbackCountsFixesTypoAndDropsPlaceholder(t *testing.T) {
	frame := frameWith([]string{"Type", "Feedback"},
		map[string]any{"Type": "Return", "Feedback": "Walmart Reurn"},
		map[string]any{"Type": "Return", "Feedback": "Walmart Return"},
		map[string]any{"Type": "Return", "Feedback": "F"},
		map[string]any{"Type": "Return", "Feedback": "Too slow"},
	)

	got := FeedbackCounts(frame)
	if got["Walmart Return"] != 2 {
		t.Errorf("feedback = %v", got)
	}
	if _, ok := got["F"]; ok {
		t.Errorf("placeholder survived: %v", got)
	}
	if got["Too slow"] != 1 {
		t.Errorf("feedback = %v", got)
	}
}

func TestVerificationCountsMergeSpellings(t *testing.T) {
	frame := frameWith([]string{"Type", "Verification"},
		map[string]any{"Type": "Return", "Verification": "Screen issue"},
		map[string]any{"Type": "Return", "Verification": "Screen issue"},
		map[string]any{"Type": "Return", "Verification": "Screen  issue"},
	)

	got := VerificationCounts(frame)
	if got["Screen issue"] != 3 {
		t.Errorf("verification = %v", got)
	}
}

func TestResponsiblePartyCounts(t *testing.T) {
	frame := frameWith([]string{"Type", "Responsible Party"},
		map[string]any{"Type": "Return", "Responsible Party": "Customer"},
		map[string]any{"Type": "Return", "Responsible Party": "Factory"},
		map[string]any{"Type": "Repair", "Responsible Party": "Factory"},
	)

	got := ResponsiblePartyCounts(frame)
	if got["Customer"] != 1 || got["Factory"] != 1 {
		t.Errorf("responsible parties = %v", got)
	}
}
