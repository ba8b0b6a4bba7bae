// Package preprocess turns a raw input row into the feature vector the
// classifier was trained on: column-transformer encoding followed by
// reindexing into the training-time column order.
package preprocess

import (
	"strconv"
)

// Value is one raw cell of an input row, either numeric or categorical.
type Value struct {
	num   float64
	str   string
	isNum bool
}

// Num wraps a numeric cell.
func Num(v float64) Value { return Value{num: v, isNum: true} }

// Str wraps a categorical cell.
func Str(s string) Value { return Value{str: s} }

// IsNum reports whether the cell holds a number.
func (v Value) IsNum() bool { return v.isNum }

// Float returns the cell as a number, parsing categorical text if needed.
func (v Value) Float() (float64, bool) {
	if v.isNum {
		return v.num, true
	}
	f, err := strconv.ParseFloat(v.str, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// String renders the cell the way categories are written in the encoder artifact.
func (v Value) String() string {
	if v.isNum {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return v.str
}

// MarshalText lets rows be logged and serialized as plain values.
func (v Value) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// Row maps raw column names to cells.
type Row map[string]Value
