package churn

import (
	"math"
	"reflect"
	"testing"
)

func testArtifactFeatures() *Artifact {
	return &Artifact{
		Family:       FamilyBoosted,
		FeatureNames: []string{"Warranty_Yes", "Model_A23Plus", "interval - activate"},
		Imputation:   map[string]float64{"interval - activate": 7},
		Threshold:    0.4,
		Boosted:      testBoostedParams(),
	}
}

func TestAlignOneHotNaming(t *testing.T) {
	ds := &Dataset{
		Columns: []string{"Warranty", "interval - activate"},
		Rows: []map[string]any{
			{"Warranty": "No", "interval - activate": float64(3)},
			{"Warranty": "Yes", "interval - activate": float64(12)},
		},
		Labels:  []int{LabelUnknown, LabelUnknown},
		Devices: []string{"", ""},
	}

	matrix, err := Align(ds, testArtifactFeatures())
	if err != nil {
		t.Fatalf("Align failed: %v", err)
	}

	if !reflect.DeepEqual(matrix.Features, []string{"Warranty_Yes", "Model_A23Plus", "interval - activate"}) {
		t.Fatalf("features = %v", matrix.Features)
	}

	// "No" sorts first so it is the dropped baseline; only
	// Warranty_Yes survives as a dummy.
	if matrix.Rows[0][0] != 0 || matrix.Rows[1][0] != 1 {
		t.Errorf("Warranty_Yes column = [%v %v], want [0 1]", matrix.Rows[0][0], matrix.Rows[1][0])
	}
}

func TestAlignUnseenCategoryAndMissingColumns(t *testing.T) {
	// Sheet has a category the model never saw and lacks the model
	// column entirely. Both must align without error.
	ds := &Dataset{
		Columns: []string{"Warranty", "Mystery", "interval - activate"},
		Rows: []map[string]any{
			{"Warranty": "Lifetime", "Mystery": "x", "interval - activate": float64(3)},
			{"Warranty": "Extended", "Mystery": "y", "interval - activate": float64(5)},
		},
		Labels:  []int{LabelUnknown, LabelUnknown},
		Devices: []string{"", ""},
	}

	matrix, err := Align(ds, testArtifactFeatures())
	if err != nil {
		t.Fatalf("Align failed: %v", err)
	}

	// Model_A23Plus is absent from the input: all zeros.
	for i := range matrix.Rows {
		if matrix.Rows[i][1] != 0 {
			t.Errorf("row %d: Model_A23Plus = %v, want 0", i, matrix.Rows[i][1])
		}
	}
	// Warranty_Yes never matches the unseen categories: zeros too.
	for i := range matrix.Rows {
		if matrix.Rows[i][0] != 0 {
			t.Errorf("row %d: Warranty_Yes = %v, want 0", i, matrix.Rows[i][0])
		}
	}
	// Unknown encoded columns are dropped: width matches artifact.
	if matrix.NumFeatures() != 3 {
		t.Errorf("feature count = %d, want 3", matrix.NumFeatures())
	}
}

func TestAlignImputesFromArtifact(t *testing.T) {
	ds := &Dataset{
		Columns: []string{"interval - activate"},
		Rows: []map[string]any{
			{"interval - activate": nil},
			{"interval - activate": float64(2)},
		},
		Labels:  []int{LabelUnknown, LabelUnknown},
		Devices: []string{"", ""},
	}

	matrix, err := Align(ds, testArtifactFeatures())
	if err != nil {
		t.Fatalf("Align failed: %v", err)
	}

	j := matrix.FeatureIndex("interval - activate")
	if matrix.Rows[0][j] != 7 {
		t.Errorf("imputed value = %v, want persisted statistic 7", matrix.Rows[0][j])
	}
	if matrix.Rows[1][j] != 2 {
		t.Errorf("observed value = %v, want 2", matrix.Rows[1][j])
	}
	for i, row := range matrix.Rows {
		for k, v := range row {
			if math.IsNaN(v) {
				t.Errorf("cell (%d,%d) is NaN after imputation", i, k)
			}
		}
	}
}

func TestAlignIdempotent(t *testing.T) {
	artifact := testArtifactFeatures()

	ds := &Dataset{
		Columns: []string{"Warranty", "interval - activate"},
		Rows: []map[string]any{
			{"Warranty": "Yes", "interval - activate": float64(3)},
			{"Warranty": "No", "interval - activate": float64(12)},
		},
		Labels:  []int{LabelUnknown, LabelUnknown},
		Devices: []string{"", ""},
	}

	first, err := Align(ds, artifact)
	if err != nil {
		t.Fatalf("Align failed: %v", err)
	}

	// Feed the aligned matrix back as a dataset.
	aligned := &Dataset{
		Columns: first.Features,
		Rows:    make([]map[string]any, first.NumRows()),
		Labels:  ds.Labels,
		Devices: ds.Devices,
	}
	for i, row := range first.Rows {
		cells := make(map[string]any, len(row))
		for j, f := range first.Features {
			cells[f] = row[j]
		}
		aligned.Rows[i] = cells
	}

	second, err := Align(aligned, artifact)
	if err != nil {
		t.Fatalf("second Align failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("alignment is not idempotent:\nfirst  %v\nsecond %v", first.Rows, second.Rows)
	}
}

func TestStandardizeZeroVariance(t *testing.T) {
	m := NewMatrix([]string{"a", "b"}, 2)
	m.Rows[0][0], m.Rows[0][1] = 4, 10
	m.Rows[1][0], m.Rows[1][1] = 6, 10

	Standardize(m, &Scaler{Mean: []float64{5, 10}, Std: []float64{1, 0}})

	if m.Rows[0][0] != -1 || m.Rows[1][0] != 1 {
		t.Errorf("column a = [%v %v], want [-1 1]", m.Rows[0][0], m.Rows[1][0])
	}
	// Zero std leaves the column centered without dividing.
	if m.Rows[0][1] != 0 || m.Rows[1][1] != 0 {
		t.Errorf("column b = [%v %v], want [0 0]", m.Rows[0][1], m.Rows[1][1])
	}
}
