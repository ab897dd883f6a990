package churn

import "fmt"

// TreeNode is one node of a flattened regression tree. Internal nodes
// carry a split feature and threshold plus child indices; leaves carry
// the output score. Gain records the split's quality improvement and
// feeds feature importance.
type TreeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Score     float64 `json:"score"`
	Gain      float64 `json:"gain"`
	IsLeaf    bool    `json:"is_leaf"`
}

// Score traverses the tree from the root for one feature vector and
// returns the leaf score. Rows go left when the feature value is less
// than or equal to the threshold.
func (t *TreeParams) Score(x []float64) (float64, error) {
	if len(t.Nodes) == 0 {
		return 0, fmt.Errorf("tree has no nodes")
	}

	idx := 0
	for steps := 0; steps <= len(t.Nodes); steps++ {
		node := t.Nodes[idx]
		if node.IsLeaf {
			return node.Score, nil
		}
		if node.Feature < 0 || node.Feature >= len(x) {
			return 0, fmt.Errorf("split feature %d out of range", node.Feature)
		}
		if x[node.Feature] <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
		if idx < 0 || idx >= len(t.Nodes) {
			return 0, fmt.Errorf("child index %d out of range", idx)
		}
	}
	return 0, fmt.Errorf("tree traversal did not terminate")
}

// accumulateGains adds each internal node's gain to its split feature.
func (t *TreeParams) accumulateGains(importance []float64) {
	for _, node := range t.Nodes {
		if node.IsLeaf {
			continue
		}
		if node.Feature >= 0 && node.Feature < len(importance) {
			importance[node.Feature] += node.Gain
		}
	}
}
