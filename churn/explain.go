package churn

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/ikteng/NUUMobile/utils"
)

// Importance is one feature's contribution score.
type Importance struct {
	Feature string  `json:"feature"`
	Score   float64 `json:"score"`
}

// ImportanceReport is the outcome of the explanation chain, tagged
// with the strategy that produced it.
type ImportanceReport struct {
	Method      string       `json:"method"`
	Importances []Importance `json:"importances"`
}

// ImportanceStrategy computes feature importances for a scored matrix.
// Strategies either succeed with a report or return an error, in which
// case the chain moves on to the next one.
type ImportanceStrategy interface {
	Name() string
	Explain(m *Matrix, labels []int) ([]Importance, error)
}

// ExplainChain tries strategies in a fixed order and returns the first
// result. Strategy failures are logged as degradations, never surfaced
// to the caller; the final strategy cannot fail.
type ExplainChain struct {
	strategies []ImportanceStrategy
	logger     *utils.Logger
}

// NewExplainChain builds the default chain for a predictor: shap-style
// attribution, permutation importance, native model importances, then
// the empty report.
func NewExplainChain(p *Predictor, logger *utils.Logger) *ExplainChain {
	return &ExplainChain{
		strategies: []ImportanceStrategy{
			&shapStrategy{model: p.model},
			&permutationStrategy{predictor: p},
			&nativeStrategy{model: p.model, features: p.artifact.FeatureNames},
		},
		logger: logger,
	}
}

// NewCustomChain builds a chain from explicit strategies.
func NewCustomChain(logger *utils.Logger, strategies ...ImportanceStrategy) *ExplainChain {
	return &ExplainChain{strategies: strategies, logger: logger}
}

// Run executes the chain. It always returns a report; when every
// strategy fails the report is empty and tagged "none".
func (c *ExplainChain) Run(m *Matrix, labels []int) *ImportanceReport {
	for _, strategy := range c.strategies {
		importances, err := strategy.Explain(m, labels)
		if err != nil {
			c.logger.Warn("importance strategy degraded",
				utils.Component("explain"),
				utils.String("strategy", strategy.Name()),
				utils.String("reason", err.Error()))
			continue
		}
		sortImportances(importances)
		return &ImportanceReport{Method: strategy.Name(), Importances: importances}
	}
	return &ImportanceReport{Method: "none", Importances: []Importance{}}
}

func sortImportances(importances []Importance) {
	sort.SliceStable(importances, func(i, j int) bool {
		return importances[i].Score > importances[j].Score
	})
}

const (
	shapBackgroundLimit = 10
	shapSampleLimit     = 50
	shapSeed            = 42
	permutationRepeats  = 10
	permutationSeed     = 42
)

// shapStrategy approximates SHAP values by masking: each feature is
// replaced with its background mean and the mean absolute change in
// predicted probability is that feature's attribution.
type shapStrategy struct {
	model Model
}

func (s *shapStrategy) Name() string { return "shap" }

func (s *shapStrategy) Explain(m *Matrix, labels []int) ([]Importance, error) {
	if m.NumRows() < 2 {
		return nil, fmt.Errorf("need at least 2 rows, have %d", m.NumRows())
	}

	rng := rand.New(rand.NewSource(shapSeed))

	background := m
	if background.NumRows() > shapBackgroundLimit {
		background = m.Subset(rng.Perm(m.NumRows())[:shapBackgroundLimit])
	}

	sample := m
	if sample.NumRows() > shapSampleLimit {
		sample = m.Subset(rng.Perm(m.NumRows())[:shapSampleLimit])
	}

	baseline, err := s.model.PredictProba(sample)
	if err != nil {
		return nil, fmt.Errorf("baseline prediction: %w", err)
	}

	means := make([]float64, background.NumFeatures())
	for j := range background.Features {
		sum := 0.0
		for _, row := range background.Rows {
			sum += row[j]
		}
		means[j] = sum / float64(background.NumRows())
	}

	importances := make([]Importance, len(m.Features))
	for j, feature := range m.Features {
		masked := sample.Clone()
		for i := range masked.Rows {
			masked.Rows[i][j] = means[j]
		}
		probs, err := s.model.PredictProba(masked)
		if err != nil {
			return nil, fmt.Errorf("masked prediction for %s: %w", feature, err)
		}
		total := 0.0
		for i := range probs {
			total += math.Abs(probs[i] - baseline[i])
		}
		importances[j] = Importance{Feature: feature, Score: total / float64(len(probs))}
	}

	return importances, nil
}

// permutationStrategy measures each feature's importance as the mean
// accuracy degradation over repeated column shuffles. It needs ground
// truth, so sheets without derivable labels fall through.
type permutationStrategy struct {
	predictor *Predictor
}

func (s *permutationStrategy) Name() string { return "permutation" }

func (s *permutationStrategy) Explain(m *Matrix, labels []int) ([]Importance, error) {
	var indices []int
	for i, label := range labels {
		if label != LabelUnknown {
			indices = append(indices, i)
		}
	}
	if len(indices) == 0 {
		return nil, fmt.Errorf("no labeled rows")
	}

	sub := m.Subset(indices)
	yTrue := make([]int, len(indices))
	for k, i := range indices {
		yTrue[k] = labels[i]
	}

	baseline, err := s.accuracy(sub, yTrue)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(permutationSeed))
	importances := make([]Importance, len(m.Features))
	for j, feature := range m.Features {
		degradation := 0.0
		for r := 0; r < permutationRepeats; r++ {
			shuffled := sub.Clone()
			perm := rng.Perm(shuffled.NumRows())
			for i, pi := range perm {
				shuffled.Rows[i][j] = sub.Rows[pi][j]
			}
			acc, err := s.accuracy(shuffled, yTrue)
			if err != nil {
				return nil, err
			}
			degradation += baseline - acc
		}
		importances[j] = Importance{Feature: feature, Score: degradation / permutationRepeats}
	}

	return importances, nil
}

func (s *permutationStrategy) accuracy(m *Matrix, yTrue []int) (float64, error) {
	probs, err := s.predictor.score(m)
	if err != nil {
		return 0, err
	}
	correct := 0
	for i, prob := range probs {
		if s.predictor.Label(prob) == yTrue[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue)), nil
}

// nativeStrategy reports the model family's own importances.
type nativeStrategy struct {
	model    Model
	features []string
}

func (s *nativeStrategy) Name() string { return "native" }

func (s *nativeStrategy) Explain(m *Matrix, labels []int) ([]Importance, error) {
	scores, ok := s.model.FeatureImportances()
	if !ok {
		return nil, fmt.Errorf("model family has no native importances")
	}
	importances := make([]Importance, len(s.features))
	for j, feature := range s.features {
		importances[j] = Importance{Feature: feature, Score: scores[j]}
	}
	return importances, nil
}
