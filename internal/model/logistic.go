package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// LogisticRegression is a fitted binary logistic model.
type LogisticRegression struct {
	classes   []int
	coef      []float64
	intercept float64
}

func newLogisticRegression(a artifact) (*LogisticRegression, error) {
	if len(a.Coef) != a.NFeatures {
		return nil, fmt.Errorf("%w: %d coefficients for %d features", ErrInvalidModel, len(a.Coef), a.NFeatures)
	}
	return &LogisticRegression{classes: a.Classes, coef: a.Coef, intercept: a.Intercept}, nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func (lr *LogisticRegression) PredictProba(x []float64) ([]float64, error) {
	if err := checkWidth(x, len(lr.coef)); err != nil {
		return nil, err
	}
	p := sigmoid(lr.intercept + floats.Dot(lr.coef, x))
	return []float64{1 - p, p}, nil
}

func (lr *LogisticRegression) Predict(x []float64) (int, error) {
	p, err := lr.PredictProba(x)
	if err != nil {
		return 0, err
	}
	return lr.classes[floats.MaxIdx(p)], nil
}

func (lr *LogisticRegression) Classes() []int   { return append([]int(nil), lr.classes...) }
func (lr *LogisticRegression) NumFeatures() int { return len(lr.coef) }
