// Package model evaluates binary classifiers exported from the training
// project as JSON. Models are read-only after Load and safe for concurrent use.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// Kinds of exported classifiers.
const (
	KindRandomForest       = "random_forest"
	KindLogisticRegression = "logistic_regression"
)

var (
	// ErrFeatureCount is returned when an input vector has the wrong width.
	ErrFeatureCount = errors.New("feature count mismatch")
	// ErrInvalidModel is returned when an artifact fails structural checks.
	ErrInvalidModel = errors.New("invalid model artifact")
)

// Classifier is a trained binary classifier.
type Classifier interface {
	// Predict returns the label with the highest probability.
	Predict(x []float64) (int, error)
	// PredictProba returns a distribution aligned with Classes().
	PredictProba(x []float64) ([]float64, error)
	Classes() []int
	NumFeatures() int
}

// artifact is the on-disk envelope shared by every kind.
type artifact struct {
	Kind       string         `json:"kind"`
	Classes    []int          `json:"classes"`
	NFeatures  int            `json:"n_features"`
	Estimators []treeArtifact `json:"estimators,omitempty"`
	Coef       []float64      `json:"coef,omitempty"`
	Intercept  float64        `json:"intercept,omitempty"`
}

// Load decodes and validates a classifier artifact.
func Load(r io.Reader) (Classifier, error) {
	var a artifact
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if len(a.Classes) != 2 || a.Classes[0] == a.Classes[1] {
		return nil, fmt.Errorf("%w: want two distinct classes, got %v", ErrInvalidModel, a.Classes)
	}
	if a.NFeatures <= 0 {
		return nil, fmt.Errorf("%w: n_features must be positive", ErrInvalidModel)
	}

	switch a.Kind {
	case KindRandomForest:
		rf, err := newRandomForest(a)
		if err != nil {
			return nil, err
		}
		return rf, nil
	case KindLogisticRegression:
		lr, err := newLogisticRegression(a)
		if err != nil {
			return nil, err
		}
		return lr, nil
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidModel, a.Kind)
	}
}

// LoadFile opens path and reads it with Load.
func LoadFile(path string) (Classifier, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func checkWidth(x []float64, n int) error {
	if len(x) != n {
		return fmt.Errorf("%w: got %d, want %d", ErrFeatureCount, len(x), n)
	}
	return nil
}
