package preprocess

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Aligner reindexes encoder output into the training-time column order.
// Columns the encoder does not produce are filled with 0; encoder outputs
// the classifier never saw are dropped.
type Aligner struct {
	columns []string
	// src[i] is the encoder output position feeding columns[i], or -1.
	src     []int
	srcSize int
}

// NewAligner precomputes the mapping from encoder names to feature columns.
func NewAligner(encoderNames, featureColumns []string) *Aligner {
	pos := make(map[string]int, len(encoderNames))
	for i, n := range encoderNames {
		pos[n] = i
	}
	a := &Aligner{
		columns: append([]string(nil), featureColumns...),
		src:     make([]int, len(featureColumns)),
		srcSize: len(encoderNames),
	}
	for i, c := range featureColumns {
		if p, ok := pos[c]; ok {
			a.src[i] = p
		} else {
			a.src[i] = -1
		}
	}
	return a
}

// Align maps one encoded row onto the feature columns.
func (a *Aligner) Align(encoded []float64) ([]float64, error) {
	if len(encoded) != a.srcSize {
		return nil, fmt.Errorf("align: got %d encoded values, want %d", len(encoded), a.srcSize)
	}
	out := make([]float64, len(a.columns))
	for i, p := range a.src {
		if p >= 0 {
			out[i] = encoded[p]
		}
	}
	return out, nil
}

// Columns returns the feature columns in output order.
func (a *Aligner) Columns() []string {
	return append([]string(nil), a.columns...)
}

// Unmatched lists feature columns the encoder can never produce. They are
// always 0 and usually point at an encoder/column-list mismatch.
func (a *Aligner) Unmatched() []string {
	var out []string
	for i, p := range a.src {
		if p < 0 {
			out = append(out, a.columns[i])
		}
	}
	return out
}

// Reindex is the one-shot form of NewAligner(names, columns).Align(values).
func Reindex(names []string, values []float64, columns []string) ([]float64, error) {
	return NewAligner(names, columns).Align(values)
}

// LoadColumns decodes the feature-column list artifact.
func LoadColumns(r io.Reader) ([]string, error) {
	var cols []string
	if err := json.NewDecoder(r).Decode(&cols); err != nil {
		return nil, fmt.Errorf("decode feature columns: %w", err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("feature column list is empty")
	}
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		if seen[c] {
			return nil, fmt.Errorf("duplicate feature column %q", c)
		}
		seen[c] = true
	}
	return cols, nil
}

// LoadColumnsFile opens path and reads it with LoadColumns.
func LoadColumnsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cols, err := LoadColumns(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cols, nil
}
