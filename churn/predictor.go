package churn

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"github.com/ikteng/NUUMobile/utils"
	"github.com/ikteng/NUUMobile/workbook"
)

// Prediction is one scored row. Row is 1-based to match spreadsheet
// row numbering as users see it.
type Prediction struct {
	Row         int     `json:"row"`
	Device      string  `json:"device,omitempty"`
	Probability float64 `json:"probability"`
	Label       int     `json:"label"`
}

// Predictor runs the full scoring pipeline for one model family:
// normalize, align, scale and score, with explanation and evaluation
// built on top.
type Predictor struct {
	artifact *Artifact
	model    Model
	explain  *ExplainChain
	logger   *utils.Logger
}

// NewPredictor builds a predictor from a validated artifact.
func NewPredictor(artifact *Artifact, logger *utils.Logger) (*Predictor, error) {
	model, err := artifact.BuildModel()
	if err != nil {
		return nil, err
	}
	p := &Predictor{
		artifact: artifact,
		model:    model,
		logger:   logger,
	}
	p.explain = NewExplainChain(p, logger)
	return p, nil
}

// Family returns the predictor's model family selector.
func (p *Predictor) Family() string {
	return p.artifact.Family
}

// Threshold returns the decision threshold in use.
func (p *Predictor) Threshold() float64 {
	return p.artifact.Threshold
}

// prepare normalizes and aligns a sheet into the model's feature space.
func (p *Predictor) prepare(frame *workbook.Frame) (*Dataset, *Matrix, error) {
	ds, err := Normalize(frame)
	if err != nil {
		return nil, nil, err
	}
	matrix, err := Align(ds, p.artifact)
	if err != nil {
		return nil, nil, err
	}
	Standardize(matrix, p.artifact.Scaler)
	return ds, matrix, nil
}

// score runs inference on an aligned matrix.
func (p *Predictor) score(matrix *Matrix) ([]float64, error) {
	probs, err := p.model.PredictProba(matrix)
	if err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}
	return probs, nil
}

// Label converts a probability to a class label. Rows strictly above
// the threshold are churn.
func (p *Predictor) Label(prob float64) int {
	if prob > p.artifact.Threshold {
		return 1
	}
	return 0
}

// Predict scores every row of the sheet and returns ordered
// predictions.
func (p *Predictor) Predict(frame *workbook.Frame) ([]Prediction, error) {
	ds, matrix, err := p.prepare(frame)
	if err != nil {
		return nil, err
	}

	probs, err := p.score(matrix)
	if err != nil {
		return nil, err
	}

	predictions := make([]Prediction, len(probs))
	for i, prob := range probs {
		predictions[i] = Prediction{
			Row:         i + 1,
			Device:      ds.Devices[i],
			Probability: roundProb(prob),
			Label:       p.Label(prob),
		}
	}

	p.logger.Info("scored sheet",
		utils.Component("predictor"),
		utils.String("family", p.artifact.Family),
		utils.Int("rows", len(predictions)))
	return predictions, nil
}

// Download scores the sheet and returns the original rows with the
// probability and predicted label appended. An existing ground-truth
// Churn column is repositioned immediately before the probability
// column.
func (p *Predictor) Download(frame *workbook.Frame) (*workbook.Frame, error) {
	predictions, err := p.Predict(frame)
	if err != nil {
		return nil, err
	}

	out := &workbook.Frame{
		Name:    frame.Name,
		Columns: make([]string, 0, len(frame.Columns)+2),
		Rows:    make([]map[string]any, len(frame.Rows)),
	}

	churnCol := ""
	for _, col := range frame.Columns {
		for _, candidate := range churnColumns {
			if col == candidate {
				churnCol = col
			}
		}
		if churnCol != col {
			out.Columns = append(out.Columns, col)
		}
	}
	if churnCol != "" {
		out.Columns = append(out.Columns, churnCol)
	}
	out.Columns = append(out.Columns, "Churn Probability", "Churn Prediction")

	for i, row := range frame.Rows {
		copied := make(map[string]any, len(row)+2)
		for k, v := range row {
			copied[k] = v
		}
		if i < len(predictions) {
			copied["Churn Probability"] = predictions[i].Probability
			copied["Churn Prediction"] = float64(predictions[i].Label)
		}
		out.Rows[i] = copied
	}

	return out, nil
}

// Explain produces a feature-importance report via the strategy chain.
func (p *Predictor) Explain(frame *workbook.Frame) (*ImportanceReport, error) {
	ds, matrix, err := p.prepare(frame)
	if err != nil {
		return nil, err
	}
	return p.explain.Run(matrix, ds.Labels), nil
}

// Evaluate scores the sheet against its derived ground truth. Rows
// without a derivable label are excluded; if none remain, the explicit
// no-evaluable-rows form is returned.
func (p *Predictor) Evaluate(frame *workbook.Frame) (*Evaluation, error) {
	ds, matrix, err := p.prepare(frame)
	if err != nil {
		return nil, err
	}

	var indices []int
	for i, label := range ds.Labels {
		if label != LabelUnknown {
			indices = append(indices, i)
		}
	}
	if len(indices) == 0 {
		return NoEvaluableRows(), nil
	}

	probs, err := p.score(matrix.Subset(indices))
	if err != nil {
		return nil, err
	}

	yTrue := make([]int, len(indices))
	yPred := make([]int, len(indices))
	for k, i := range indices {
		yTrue[k] = ds.Labels[i]
		yPred[k] = p.Label(probs[k])
	}

	return Evaluate(yTrue, yPred)
}

// roundProb keeps reported probabilities at a stable precision.
func roundProb(p float64) float64 {
	return math.Round(p*10000) / 10000
}

// artifactFiles maps family selectors to bundle file names.
var artifactFiles = map[string]string{
	FamilyNeural:   "nn_model.json",
	FamilyEnsemble: "em_model.json",
	FamilyBoosted:  "xgb_model.json",
}

// Registry holds one predictor per model family, loaded once at
// startup and read-only afterwards.
type Registry struct {
	predictors map[string]*Predictor
}

// LoadRegistry loads every family bundle found in dir. A present but
// invalid bundle is a hard error; a missing bundle just leaves that
// family unavailable.
func LoadRegistry(dir string, logger *utils.Logger) (*Registry, error) {
	reg := &Registry{predictors: make(map[string]*Predictor)}

	for family, file := range artifactFiles {
		path := filepath.Join(dir, file)
		artifact, err := LoadArtifact(path)
		if err != nil {
			var artErr *ArtifactError
			if errors.As(err, &artErr) {
				return nil, err
			}
			logger.Warn("model bundle not available",
				utils.Component("registry"),
				utils.String("family", family),
				utils.String("path", path))
			continue
		}
		if artifact.Family != family {
			return nil, NewArtifactError(path, "bundle family %q does not match expected %q",
				artifact.Family, family)
		}

		predictor, err := NewPredictor(artifact, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s predictor: %w", family, err)
		}
		reg.predictors[family] = predictor
		logger.Info("loaded model bundle",
			utils.Component("registry"),
			utils.String("family", family),
			utils.Int("features", len(artifact.FeatureNames)))
	}

	return reg, nil
}

// NewRegistry builds a registry from pre-loaded artifacts, mainly for
// tests.
func NewRegistry(logger *utils.Logger, artifacts ...*Artifact) (*Registry, error) {
	reg := &Registry{predictors: make(map[string]*Predictor)}
	for _, artifact := range artifacts {
		predictor, err := NewPredictor(artifact, logger)
		if err != nil {
			return nil, err
		}
		reg.predictors[artifact.Family] = predictor
	}
	return reg, nil
}

// Get returns the predictor for a family selector.
func (r *Registry) Get(family string) (*Predictor, error) {
	predictor, ok := r.predictors[family]
	if !ok {
		return nil, fmt.Errorf("unknown model family %q", family)
	}
	return predictor, nil
}

// Families returns the loaded family selectors.
func (r *Registry) Families() []string {
	families := make([]string, 0, len(r.predictors))
	for f := range r.predictors {
		families = append(families, f)
	}
	return families
}
