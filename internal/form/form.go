// Package form derives the prediction form from the reference dataset and
// turns submitted values into a raw input row.
package form

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cricketml/prematch/internal/dataset"
	"github.com/cricketml/prematch/internal/preprocess"
)

// Columns with fixed widgets.
const (
	ColTossWinner   = "toss_winner"
	ColTossDecision = "toss_decision_bat"
	ColTeam1Form    = "team1_key_player_form"
	ColTeam2Form    = "team2_key_player_form"
)

var (
	ErrInvalidChoice = errors.New("invalid choice")
	ErrNotNumeric    = errors.New("value is not numeric")
	ErrMissingField  = errors.New("missing field")
)

// Kind selects the widget rendered for a field.
type Kind string

const (
	KindSelect Kind = "select"
	KindNumber Kind = "number"
)

// Option is one selectable label and the raw value it submits.
type Option struct {
	Label string           `json:"label"`
	Value preprocess.Value `json:"value"`
}

// Field describes the widget for one raw feature column.
type Field struct {
	Column  string   `json:"column"`
	Label   string   `json:"label"`
	Kind    Kind     `json:"kind"`
	Options []Option `json:"options,omitempty"`
	Default float64  `json:"default"`
}

// MarshalJSON always reports the default of a number field, including a zero
// mean, and leaves it out for select fields and for a column with no values.
func (f Field) MarshalJSON() ([]byte, error) {
	type alias Field
	out := struct {
		alias
		Default *float64 `json:"default,omitempty"`
	}{alias: alias(f)}
	if f.Kind == KindNumber && !math.IsNaN(f.Default) {
		d := f.Default
		out.Default = &d
	}
	return json.Marshal(out)
}

// PlayerForm maps the key-player form labels to their fixed ratings, in display order.
var PlayerForm = []Option{
	{Label: "Poor", Value: preprocess.Num(40)},
	{Label: "Average", Value: preprocess.Num(50)},
	{Label: "Good", Value: preprocess.Num(60)},
	{Label: "Very Good", Value: preprocess.Num(70)},
	{Label: "Excellent", Value: preprocess.Num(80)},
}

var tossWinner = []Option{
	{Label: "Team 1", Value: preprocess.Num(1)},
	{Label: "Team 2", Value: preprocess.Num(0)},
}

var tossDecision = []Option{
	{Label: "Bat", Value: preprocess.Num(1)},
	{Label: "Bowl", Value: preprocess.Num(0)},
}

var titleCaser = cases.Title(language.English)

// Schema is the ordered set of fields for every raw feature column.
type Schema struct {
	Fields []Field
	index  map[string]int
}

// Build derives one field per column of features, in column order.
func Build(features *dataset.Frame) (*Schema, error) {
	s := &Schema{index: make(map[string]int)}
	for _, col := range features.Columns() {
		f, err := fieldFor(features, col)
		if err != nil {
			return nil, err
		}
		s.index[col] = len(s.Fields)
		s.Fields = append(s.Fields, f)
	}
	return s, nil
}

func fieldFor(features *dataset.Frame, col string) (Field, error) {
	switch col {
	case ColTossWinner:
		return Field{Column: col, Label: "Toss Winner", Kind: KindSelect, Options: tossWinner}, nil
	case ColTossDecision:
		return Field{Column: col, Label: "Toss Decision", Kind: KindSelect, Options: tossDecision}, nil
	case ColTeam1Form, ColTeam2Form:
		label := titleCaser.String(strings.ReplaceAll(col, "_", " "))
		return Field{Column: col, Label: label, Kind: KindSelect, Options: PlayerForm}, nil
	}

	numeric, err := features.IsNumeric(col)
	if err != nil {
		return Field{}, err
	}
	if numeric {
		mean, err := features.Mean(col)
		if err != nil {
			return Field{}, err
		}
		return Field{Column: col, Label: col, Kind: KindNumber, Default: mean}, nil
	}

	values, err := features.Distinct(col)
	if err != nil {
		return Field{}, err
	}
	opts := make([]Option, len(values))
	for i, v := range values {
		opts[i] = Option{Label: v, Value: preprocess.Str(v)}
	}
	return Field{Column: col, Label: col, Kind: KindSelect, Options: opts}, nil
}

// Field returns the field for a column.
func (s *Schema) Field(col string) (Field, bool) {
	i, ok := s.index[col]
	if !ok {
		return Field{}, false
	}
	return s.Fields[i], true
}

// Lookup resolves a select label to its value.
func (f Field) Lookup(label string) (preprocess.Value, bool) {
	for _, o := range f.Options {
		if o.Label == label {
			return o.Value, true
		}
	}
	return preprocess.Value{}, false
}

// Parse converts submitted values, keyed by column, into a raw row. Select
// fields take the option label; number fields take a decimal and fall back to
// the column mean when omitted. Keys that are not fields are ignored.
func (s *Schema) Parse(values map[string]string) (preprocess.Row, error) {
	row := make(preprocess.Row, len(s.Fields))
	for _, f := range s.Fields {
		raw, ok := values[f.Column]
		raw = strings.TrimSpace(raw)

		switch f.Kind {
		case KindNumber:
			if !ok || raw == "" {
				row[f.Column] = preprocess.Num(f.Default)
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: %s=%q", ErrNotNumeric, f.Column, raw)
			}
			row[f.Column] = preprocess.Num(v)
		case KindSelect:
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrMissingField, f.Column)
			}
			v, found := f.Lookup(raw)
			if !found {
				return nil, fmt.Errorf("%w: %s=%q", ErrInvalidChoice, f.Column, raw)
			}
			row[f.Column] = v
		}
	}
	return row, nil
}

// Defaults returns the values a freshly rendered form submits: the first
// option of every select and the mean of every number field.
func (s *Schema) Defaults() map[string]string {
	out := make(map[string]string, len(s.Fields))
	for _, f := range s.Fields {
		switch f.Kind {
		case KindNumber:
			out[f.Column] = strconv.FormatFloat(f.Default, 'f', -1, 64)
		case KindSelect:
			if len(f.Options) > 0 {
				out[f.Column] = f.Options[0].Label
			}
		}
	}
	return out
}
