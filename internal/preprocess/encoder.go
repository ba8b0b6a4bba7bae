package preprocess

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Transformer kinds.
const (
	KindOneHot      = "onehot"
	KindPassthrough = "passthrough"
	KindDrop        = "drop"
)

// Unknown-category policies.
const (
	HandleUnknownError  = "error"
	HandleUnknownIgnore = "ignore"
)

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrNotNumeric      = errors.New("value is not numeric")
	ErrMissingColumn   = errors.New("missing input column")
	ErrInvalidEncoder  = errors.New("invalid encoder artifact")
)

type transformerArtifact struct {
	Name          string              `json:"name"`
	Kind          string              `json:"kind"`
	Columns       []string            `json:"columns"`
	Categories    [][]json.RawMessage `json:"categories,omitempty"`
	HandleUnknown string              `json:"handle_unknown,omitempty"`
	Drop          []json.RawMessage   `json:"drop,omitempty"`
}

type encoderArtifact struct {
	VerboseFeatureNamesOut bool                  `json:"verbose_feature_names_out"`
	Transformers           []transformerArtifact `json:"transformers"`
}

// oneHotColumn holds the fitted state for a single categorical input.
type oneHotColumn struct {
	name       string
	categories []string
	// index maps a category to its output slot; dropped categories are absent.
	index   map[string]int
	numeric map[float64]int
	width   int
}

type transformer struct {
	name          string
	kind          string
	columns       []string
	onehot        []oneHotColumn
	handleUnknown string
}

// Encoder is a fitted column transformer. It is read-only after Load.
type Encoder struct {
	transformers []transformer
	names        []string
	inputs       []string
}

// LoadEncoder decodes and validates an encoder artifact.
func LoadEncoder(r io.Reader) (*Encoder, error) {
	var a encoderArtifact
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode encoder: %w", err)
	}
	if len(a.Transformers) == 0 {
		return nil, fmt.Errorf("%w: no transformers", ErrInvalidEncoder)
	}

	enc := &Encoder{}
	seenInput := map[string]bool{}
	seenName := map[string]bool{}
	for i, ta := range a.Transformers {
		t, err := buildTransformer(ta)
		if err != nil {
			return nil, fmt.Errorf("%w: transformer %d (%s): %v", ErrInvalidEncoder, i, ta.Name, err)
		}
		for _, c := range t.columns {
			if seenInput[c] {
				return nil, fmt.Errorf("%w: column %q used by more than one transformer", ErrInvalidEncoder, c)
			}
			seenInput[c] = true
			if t.kind != KindDrop {
				enc.inputs = append(enc.inputs, c)
			}
		}
		for _, n := range t.featureNames(a.VerboseFeatureNamesOut) {
			if seenName[n] {
				return nil, fmt.Errorf("%w: duplicate output feature %q", ErrInvalidEncoder, n)
			}
			seenName[n] = true
			enc.names = append(enc.names, n)
		}
		enc.transformers = append(enc.transformers, t)
	}
	return enc, nil
}

// LoadEncoderFile opens path and reads it with LoadEncoder.
func LoadEncoderFile(path string) (*Encoder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	enc, err := LoadEncoder(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return enc, nil
}

func buildTransformer(ta transformerArtifact) (transformer, error) {
	t := transformer{name: ta.Name, kind: ta.Kind, columns: ta.Columns, handleUnknown: ta.HandleUnknown}
	if t.name == "" {
		return t, errors.New("missing name")
	}
	if len(t.columns) == 0 {
		return t, errors.New("no columns")
	}

	switch ta.Kind {
	case KindPassthrough, KindDrop:
		return t, nil
	case KindOneHot:
	default:
		return t, fmt.Errorf("unknown kind %q", ta.Kind)
	}

	if t.handleUnknown == "" {
		t.handleUnknown = HandleUnknownError
	}
	if t.handleUnknown != HandleUnknownError && t.handleUnknown != HandleUnknownIgnore {
		return t, fmt.Errorf("unsupported handle_unknown %q", t.handleUnknown)
	}
	if len(ta.Categories) != len(ta.Columns) {
		return t, fmt.Errorf("%d category lists for %d columns", len(ta.Categories), len(ta.Columns))
	}
	if len(ta.Drop) != 0 && len(ta.Drop) != len(ta.Columns) {
		return t, fmt.Errorf("%d drop entries for %d columns", len(ta.Drop), len(ta.Columns))
	}

	for i, col := range ta.Columns {
		cats := make([]string, len(ta.Categories[i]))
		for j, raw := range ta.Categories[i] {
			s, err := scalarText(raw)
			if err != nil {
				return t, fmt.Errorf("column %q category %d: %v", col, j, err)
			}
			cats[j] = s
		}
		drop := ""
		hasDrop := false
		if len(ta.Drop) > 0 && !isNull(ta.Drop[i]) {
			s, err := scalarText(ta.Drop[i])
			if err != nil {
				return t, fmt.Errorf("column %q drop: %v", col, err)
			}
			drop, hasDrop = s, true
		}
		oh, err := newOneHotColumn(col, cats, drop, hasDrop)
		if err != nil {
			return t, err
		}
		t.onehot = append(t.onehot, oh)
	}
	return t, nil
}

func newOneHotColumn(name string, categories []string, drop string, hasDrop bool) (oneHotColumn, error) {
	oh := oneHotColumn{
		name:    name,
		index:   make(map[string]int, len(categories)),
		numeric: make(map[float64]int, len(categories)),
	}
	dropped := false
	for _, c := range categories {
		if _, dup := oh.index[c]; dup {
			return oh, fmt.Errorf("column %q repeats category %q", name, c)
		}
		if hasDrop && c == drop {
			dropped = true
			// Keep the category known so it encodes as all zeros.
			oh.index[c] = -1
			if f, err := strconv.ParseFloat(c, 64); err == nil {
				oh.numeric[f] = -1
			}
			continue
		}
		oh.index[c] = oh.width
		if f, err := strconv.ParseFloat(c, 64); err == nil {
			oh.numeric[f] = oh.width
		}
		oh.categories = append(oh.categories, c)
		oh.width++
	}
	if hasDrop && !dropped {
		return oh, fmt.Errorf("column %q drops unknown category %q", name, drop)
	}
	return oh, nil
}

// slot returns the output position for v, -1 for a dropped category, and
// false when the category was never seen during fitting.
func (oh *oneHotColumn) slot(v Value) (int, bool) {
	if i, ok := oh.index[v.String()]; ok {
		return i, true
	}
	if f, ok := v.Float(); ok {
		if i, ok := oh.numeric[f]; ok {
			return i, true
		}
	}
	return 0, false
}

func (t *transformer) featureNames(verbose bool) []string {
	prefix := ""
	if verbose {
		prefix = t.name + "__"
	}
	var out []string
	switch t.kind {
	case KindPassthrough:
		for _, c := range t.columns {
			out = append(out, prefix+c)
		}
	case KindOneHot:
		for _, oh := range t.onehot {
			for _, cat := range oh.categories {
				out = append(out, prefix+oh.name+"_"+cat)
			}
		}
	}
	return out
}

// FeatureNamesOut returns the output column names in output order.
func (e *Encoder) FeatureNamesOut() []string {
	return append([]string(nil), e.names...)
}

// InputColumns returns the raw columns the encoder reads.
func (e *Encoder) InputColumns() []string {
	return append([]string(nil), e.inputs...)
}

// Transform encodes a single row. The result is aligned with FeatureNamesOut.
func (e *Encoder) Transform(row Row) ([]float64, error) {
	out := make([]float64, 0, len(e.names))
	for _, t := range e.transformers {
		switch t.kind {
		case KindPassthrough:
			for _, c := range t.columns {
				v, ok := row[c]
				if !ok {
					return nil, fmt.Errorf("%w: %q", ErrMissingColumn, c)
				}
				f, ok := v.Float()
				if !ok {
					return nil, fmt.Errorf("%w: column %q value %q", ErrNotNumeric, c, v.String())
				}
				out = append(out, f)
			}
		case KindOneHot:
			for i := range t.onehot {
				oh := &t.onehot[i]
				v, ok := row[oh.name]
				if !ok {
					return nil, fmt.Errorf("%w: %q", ErrMissingColumn, oh.name)
				}
				block := make([]float64, oh.width)
				pos, known := oh.slot(v)
				if !known && t.handleUnknown == HandleUnknownError {
					return nil, fmt.Errorf("%w: column %q value %q", ErrUnknownCategory, oh.name, v.String())
				}
				if known && pos >= 0 {
					block[pos] = 1
				}
				out = append(out, block...)
			}
		}
	}
	return out, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// scalarText renders a JSON scalar as text. Numbers keep their literal
// spelling so "1.0" stays distinct from "1" in feature names.
func scalarText(raw json.RawMessage) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return "", err
	}
	switch x := v.(type) {
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case bool:
		if x {
			return "True", nil
		}
		return "False", nil
	default:
		return "", fmt.Errorf("category must be a string, number or bool, got %s", raw)
	}
}
