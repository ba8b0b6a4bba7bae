package model

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// treeArtifact mirrors the parallel arrays of a fitted CART tree.
type treeArtifact struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

const leaf = -1

type tree struct {
	left, right []int
	feature     []int
	threshold   []float64
	// probas holds each node's normalized class distribution.
	probas [][]float64
}

// RandomForest averages the leaf distributions of its trees.
type RandomForest struct {
	classes   []int
	nFeatures int
	trees     []tree
}

func newRandomForest(a artifact) (*RandomForest, error) {
	if len(a.Estimators) == 0 {
		return nil, fmt.Errorf("%w: random forest has no estimators", ErrInvalidModel)
	}
	rf := &RandomForest{
		classes:   a.Classes,
		nFeatures: a.NFeatures,
		trees:     make([]tree, len(a.Estimators)),
	}
	for i, est := range a.Estimators {
		t, err := buildTree(est, a.NFeatures, len(a.Classes))
		if err != nil {
			return nil, fmt.Errorf("%w: estimator %d: %v", ErrInvalidModel, i, err)
		}
		rf.trees[i] = t
	}
	return rf, nil
}

func buildTree(est treeArtifact, nFeatures, nClasses int) (tree, error) {
	n := len(est.ChildrenLeft)
	if n == 0 {
		return tree{}, fmt.Errorf("empty tree")
	}
	if len(est.ChildrenRight) != n || len(est.Feature) != n || len(est.Threshold) != n || len(est.Value) != n {
		return tree{}, fmt.Errorf("node arrays disagree in length")
	}

	t := tree{
		left:      est.ChildrenLeft,
		right:     est.ChildrenRight,
		feature:   est.Feature,
		threshold: est.Threshold,
		probas:    make([][]float64, n),
	}
	for i := 0; i < n; i++ {
		l, r := t.left[i], t.right[i]
		if l == leaf || r == leaf {
			if l != r {
				return tree{}, fmt.Errorf("node %d has a single child", i)
			}
		} else {
			// Children always follow their parent in sklearn's depth-first layout,
			// which also rules out cycles.
			if l <= i || l >= n || r <= i || r >= n {
				return tree{}, fmt.Errorf("node %d has child out of range", i)
			}
			if f := t.feature[i]; f < 0 || f >= nFeatures {
				return tree{}, fmt.Errorf("node %d splits on feature %d", i, f)
			}
		}

		v := est.Value[i]
		if len(v) != nClasses {
			return tree{}, fmt.Errorf("node %d has %d class values", i, len(v))
		}
		t.probas[i] = normalize(v)
	}
	return t, nil
}

func normalize(v []float64) []float64 {
	out := make([]float64, len(v))
	sum := floats.Sum(v)
	if sum == 0 {
		return out
	}
	return floats.ScaleTo(out, 1/sum, v)
}

func (t *tree) leafProba(x []float64) []float64 {
	node := 0
	for t.left[node] != leaf {
		if x[t.feature[node]] <= t.threshold[node] {
			node = t.left[node]
		} else {
			node = t.right[node]
		}
	}
	return t.probas[node]
}

func (rf *RandomForest) PredictProba(x []float64) ([]float64, error) {
	if err := checkWidth(x, rf.nFeatures); err != nil {
		return nil, err
	}
	out := make([]float64, len(rf.classes))
	for i := range rf.trees {
		floats.Add(out, rf.trees[i].leafProba(x))
	}
	floats.Scale(1/float64(len(rf.trees)), out)
	return out, nil
}

func (rf *RandomForest) Predict(x []float64) (int, error) {
	p, err := rf.PredictProba(x)
	if err != nil {
		return 0, err
	}
	return rf.classes[floats.MaxIdx(p)], nil
}

func (rf *RandomForest) Classes() []int   { return append([]int(nil), rf.classes...) }
func (rf *RandomForest) NumFeatures() int { return rf.nFeatures }

// NumTrees is the number of estimators in the forest.
func (rf *RandomForest) NumTrees() int { return len(rf.trees) }
