// Package dataset holds the reference table used to derive form choices and
// to render the dataset preview. A Frame is immutable once loaded.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// ErrColumnNotFound is returned when a named column is absent from the frame.
var ErrColumnNotFound = errors.New("column not found")

// naValues mirrors the tokens pandas.read_csv treats as missing by default.
var naValues = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// IsMissing reports whether a raw cell counts as a missing value.
func IsMissing(cell string) bool {
	_, ok := naValues[cell]
	return ok
}

// Frame is a rectangular table of raw string cells with named columns.
type Frame struct {
	columns []string
	rows    [][]string
	index   map[string]int
}

// New builds a frame from a header and rows. Every row must have one cell
// per column.
func New(columns []string, rows [][]string) (*Frame, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		index[c] = i
	}
	for i, r := range rows {
		if len(r) != len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, want %d", i+1, len(r), len(columns))
		}
	}
	return &Frame{columns: columns, rows: rows, index: index}, nil
}

// Columns returns the column names in file order.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.columns))
	copy(out, f.columns)
	return out
}

// Shape returns (rows, columns).
func (f *Frame) Shape() (int, int) {
	return len(f.rows), len(f.columns)
}

// Has reports whether the frame contains the column.
func (f *Frame) Has(col string) bool {
	_, ok := f.index[col]
	return ok
}

// MissingCount is the number of missing cells across the whole frame.
func (f *Frame) MissingCount() int {
	n := 0
	for _, r := range f.rows {
		for _, cell := range r {
			if IsMissing(cell) {
				n++
			}
		}
	}
	return n
}

// Head returns up to n rows. Callers must not modify the returned cells.
func (f *Frame) Head(n int) [][]string {
	if n < 0 {
		n = 0
	}
	if n > len(f.rows) {
		n = len(f.rows)
	}
	return f.rows[:n]
}

// Drop returns a frame without the named column.
func (f *Frame) Drop(col string) (*Frame, error) {
	pos, ok := f.index[col]
	if !ok {
		return nil, fmt.Errorf("drop %q: %w", col, ErrColumnNotFound)
	}

	columns := make([]string, 0, len(f.columns)-1)
	columns = append(columns, f.columns[:pos]...)
	columns = append(columns, f.columns[pos+1:]...)

	rows := make([][]string, len(f.rows))
	for i, r := range f.rows {
		nr := make([]string, 0, len(r)-1)
		nr = append(nr, r[:pos]...)
		nr = append(nr, r[pos+1:]...)
		rows[i] = nr
	}
	return New(columns, rows)
}

// IsNumeric reports whether every present cell in the column parses as a
// number. A column with no present cells is not numeric.
func (f *Frame) IsNumeric(col string) (bool, error) {
	pos, ok := f.index[col]
	if !ok {
		return false, fmt.Errorf("numeric check %q: %w", col, ErrColumnNotFound)
	}
	seen := false
	for _, r := range f.rows {
		cell := r[pos]
		if IsMissing(cell) {
			continue
		}
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			return false, nil
		}
		seen = true
	}
	return seen, nil
}

// Mean is the arithmetic mean over the present cells of a numeric column.
// It returns NaN when no cell is present.
func (f *Frame) Mean(col string) (float64, error) {
	pos, ok := f.index[col]
	if !ok {
		return 0, fmt.Errorf("mean %q: %w", col, ErrColumnNotFound)
	}
	var sum float64
	var n int
	for i, r := range f.rows {
		cell := r[pos]
		if IsMissing(cell) {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return 0, fmt.Errorf("mean %q row %d: %w", col, i+1, err)
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN(), nil
	}
	return sum / float64(n), nil
}

// Distinct returns the sorted distinct present values of a column.
func (f *Frame) Distinct(col string) ([]string, error) {
	pos, ok := f.index[col]
	if !ok {
		return nil, fmt.Errorf("distinct %q: %w", col, ErrColumnNotFound)
	}
	seen := make(map[string]struct{})
	var out []string
	for _, r := range f.rows {
		cell := r[pos]
		if IsMissing(cell) {
			continue
		}
		if _, dup := seen[cell]; dup {
			continue
		}
		seen[cell] = struct{}{}
		out = append(out, cell)
	}
	sort.Strings(out)
	return out, nil
}
