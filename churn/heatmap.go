package churn

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// confusionGrid adapts a 2x2 confusion matrix to the heatmap grid
// interface. Columns are predicted labels, rows are actual labels with
// "No Churn" at the origin.
type confusionGrid struct {
	cm *ConfusionMatrix
}

func (g confusionGrid) Dims() (c, r int) { return 2, 2 }

func (g confusionGrid) X(c int) float64 { return float64(c) }

func (g confusionGrid) Y(r int) float64 { return float64(r) }

func (g confusionGrid) Z(c, r int) float64 {
	switch {
	case r == 0 && c == 0:
		return float64(g.cm.TrueNegatives)
	case r == 0 && c == 1:
		return float64(g.cm.FalsePositives)
	case r == 1 && c == 0:
		return float64(g.cm.FalseNegatives)
	default:
		return float64(g.cm.TruePositives)
	}
}

// RenderConfusionHeatmap renders the confusion matrix as a PNG heatmap
// and returns it base64 encoded.
func RenderConfusionHeatmap(cm *ConfusionMatrix) (string, error) {
	p := plot.New()
	p.Title.Text = "Confusion Matrix"
	p.X.Label.Text = "Predicted"
	p.Y.Label.Text = "Actual"

	heatmap := plotter.NewHeatMap(confusionGrid{cm: cm}, palette.Heat(12, 1))
	p.Add(heatmap)
	p.NominalX("No Churn", "Churn")
	p.NominalY("No Churn", "Churn")

	writer, err := p.WriterTo(4*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return "", fmt.Errorf("failed to render plot: %w", err)
	}

	var buf bytes.Buffer
	if _, err := writer.WriteTo(&buf); err != nil {
		return "", fmt.Errorf("failed to encode PNG: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
