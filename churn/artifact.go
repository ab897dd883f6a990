package churn

import (
	"encoding/json"
	"fmt"
	"os"
)

// Model family selectors. These match the persisted artifact bundles
// and the HTTP route segments.
const (
	FamilyNeural   = "nn"
	FamilyEnsemble = "em"
	FamilyBoosted  = "xgb"
)

// Scaler holds a fitted standardization transform.
type Scaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// NetworkParams holds a trained multilayer perceptron: dense layers as
// weight matrices (rows = inputs, cols = outputs) plus bias vectors,
// with ReLU between hidden layers and a sigmoid output.
type NetworkParams struct {
	Weights [][][]float64 `json:"weights"`
	Biases  [][]float64   `json:"biases"`
}

// LogisticParams holds a trained logistic regression.
type LogisticParams struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// TreeParams holds one regression tree in flattened node form.
type TreeParams struct {
	Nodes []TreeNode `json:"nodes"`
}

// BoostedParams holds an additive gradient-boosted tree model.
type BoostedParams struct {
	BaseScore    float64      `json:"base_score"`
	LearningRate float64      `json:"learning_rate"`
	Trees        []TreeParams `json:"trees"`
}

// EnsembleParams holds the soft-voting ensemble's base learners.
type EnsembleParams struct {
	Logistic *LogisticParams `json:"logistic"`
	Boosted  *BoostedParams  `json:"boosted"`
}

// Artifact is a persisted model bundle: the canonical feature space,
// the imputation statistics captured at training time, the decision
// threshold and the family-specific parameters.
type Artifact struct {
	Family       string             `json:"family"`
	FeatureNames []string           `json:"feature_names"`
	Imputation   map[string]float64 `json:"imputation"`
	Scaler       *Scaler            `json:"scaler,omitempty"`
	Threshold    float64            `json:"threshold"`
	Network      *NetworkParams     `json:"network,omitempty"`
	Ensemble     *EnsembleParams    `json:"ensemble,omitempty"`
	Boosted      *BoostedParams     `json:"boosted,omitempty"`
}

// LoadArtifact reads and validates a model bundle from disk. A corrupt
// or inconsistent bundle fails here, at startup, not at request time.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}

	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, NewArtifactError(path, "invalid JSON: %v", err)
	}

	if err := artifact.Validate(); err != nil {
		return nil, NewArtifactError(path, "%v", err)
	}

	return &artifact, nil
}

// Validate checks the internal consistency of the bundle.
func (a *Artifact) Validate() error {
	switch a.Family {
	case FamilyNeural, FamilyEnsemble, FamilyBoosted:
	default:
		return fmt.Errorf("unknown model family %q", a.Family)
	}

	if len(a.FeatureNames) == 0 {
		return fmt.Errorf("empty feature list")
	}

	seen := make(map[string]bool, len(a.FeatureNames))
	for _, f := range a.FeatureNames {
		if f == "" {
			return fmt.Errorf("blank feature name")
		}
		if seen[f] {
			return fmt.Errorf("duplicate feature name %q", f)
		}
		seen[f] = true
	}

	if a.Threshold <= 0 || a.Threshold >= 1 {
		return fmt.Errorf("threshold %v outside (0, 1)", a.Threshold)
	}

	if a.Scaler != nil {
		if len(a.Scaler.Mean) != len(a.FeatureNames) || len(a.Scaler.Std) != len(a.FeatureNames) {
			return fmt.Errorf("scaler dimensions do not match feature list")
		}
	}

	switch a.Family {
	case FamilyNeural:
		if a.Network == nil || len(a.Network.Weights) == 0 {
			return fmt.Errorf("missing network parameters")
		}
		if len(a.Network.Weights) != len(a.Network.Biases) {
			return fmt.Errorf("network weights and biases disagree on layer count")
		}
		width := len(a.FeatureNames)
		for li, layer := range a.Network.Weights {
			if len(layer) == 0 || len(layer[0]) == 0 {
				return fmt.Errorf("network layer %d is empty", li)
			}
			if len(layer) != width {
				return fmt.Errorf("network layer %d input width %d, expected %d",
					li, len(layer), width)
			}
			outWidth := len(layer[0])
			for _, row := range layer {
				if len(row) != outWidth {
					return fmt.Errorf("network layer %d has ragged weight rows", li)
				}
			}
			if len(a.Network.Biases[li]) != outWidth {
				return fmt.Errorf("network layer %d bias width %d, expected %d",
					li, len(a.Network.Biases[li]), outWidth)
			}
			width = outWidth
		}
		if width != 1 {
			return fmt.Errorf("network output width %d, expected 1", width)
		}
	case FamilyEnsemble:
		if a.Ensemble == nil || a.Ensemble.Logistic == nil || a.Ensemble.Boosted == nil {
			return fmt.Errorf("missing ensemble base learners")
		}
		if len(a.Ensemble.Logistic.Coefficients) != len(a.FeatureNames) {
			return fmt.Errorf("logistic coefficient width %d does not match %d features",
				len(a.Ensemble.Logistic.Coefficients), len(a.FeatureNames))
		}
		if len(a.Ensemble.Boosted.Trees) == 0 {
			return fmt.Errorf("ensemble boosted learner has no trees")
		}
	case FamilyBoosted:
		if a.Boosted == nil || len(a.Boosted.Trees) == 0 {
			return fmt.Errorf("missing boosted trees")
		}
	}

	return nil
}

// BuildModel constructs the runtime model for the artifact's family.
func (a *Artifact) BuildModel() (Model, error) {
	switch a.Family {
	case FamilyNeural:
		return NewNeuralModel(a.Network), nil
	case FamilyEnsemble:
		return NewEnsembleModel(a.Ensemble, len(a.FeatureNames)), nil
	case FamilyBoosted:
		return NewBoostedModel(a.Boosted, len(a.FeatureNames)), nil
	default:
		return nil, fmt.Errorf("unknown model family %q", a.Family)
	}
}
