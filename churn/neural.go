package churn

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// NeuralModel is a feed-forward multilayer perceptron. Hidden layers
// use ReLU activations; the single output unit is a sigmoid.
type NeuralModel struct {
	weights []*mat.Dense
	biases  []*mat.VecDense
}

// NewNeuralModel builds the runtime model from persisted layer
// parameters.
func NewNeuralModel(params *NetworkParams) *NeuralModel {
	nm := &NeuralModel{}
	for _, layer := range params.Weights {
		rows := len(layer)
		cols := len(layer[0])
		data := make([]float64, 0, rows*cols)
		for _, row := range layer {
			data = append(data, row...)
		}
		nm.weights = append(nm.weights, mat.NewDense(rows, cols, data))
	}
	for _, bias := range params.Biases {
		nm.biases = append(nm.biases, mat.NewVecDense(len(bias), append([]float64(nil), bias...)))
	}
	return nm
}

// PredictProba runs the forward pass and returns the churn probability
// for every row.
func (nm *NeuralModel) PredictProba(m *Matrix) ([]float64, error) {
	inputWidth, _ := nm.weights[0].Dims()
	if m.NumFeatures() != inputWidth {
		return nil, fmt.Errorf("matrix has %d features, network expects %d",
			m.NumFeatures(), inputWidth)
	}

	probs := make([]float64, m.NumRows())
	for i, row := range m.Rows {
		activation := mat.NewVecDense(len(row), append([]float64(nil), row...))

		for li, w := range nm.weights {
			_, outWidth := w.Dims()
			next := mat.NewVecDense(outWidth, nil)
			next.MulVec(w.T(), activation)
			next.AddVec(next, nm.biases[li])

			last := li == len(nm.weights)-1
			for k := 0; k < outWidth; k++ {
				v := next.AtVec(k)
				if last {
					next.SetVec(k, sigmoid(v))
				} else if v < 0 {
					next.SetVec(k, 0) // ReLU
				}
			}
			activation = next
		}

		if activation.Len() != 1 {
			return nil, fmt.Errorf("network output width %d, expected 1", activation.Len())
		}
		probs[i] = activation.AtVec(0)
	}
	return probs, nil
}

// FeatureImportances reports that the network has no native notion of
// feature importance.
func (nm *NeuralModel) FeatureImportances() ([]float64, bool) {
	return nil, false
}
