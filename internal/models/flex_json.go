package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FormValues are submitted form values keyed by column. Values are kept as
// text because select fields are matched by label and number fields are
// parsed later against the form schema.
type FormValues map[string]string

// UnmarshalJSON accepts both string-encoded and native JSON scalars, so
// clients may send {"team1_recent_wins": 4} or {"team1_recent_wins": "4"}.
// Numbers keep their literal text. Null entries are dropped so a number
// field falls back to its default.
func (v *FormValues) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = nil
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("flex unmarshal: %w", err)
	}

	out := make(FormValues, len(raw))
	for key, rawVal := range raw {
		rawVal = bytes.TrimSpace(rawVal)
		if len(rawVal) == 0 {
			continue
		}

		switch c := rawVal[0]; {
		case c == '"':
			var s string
			if err := json.Unmarshal(rawVal, &s); err != nil {
				return fmt.Errorf("flex unmarshal %q: %w", key, err)
			}
			out[key] = s
		case c == '-' || (c >= '0' && c <= '9'):
			var n json.Number
			if err := json.Unmarshal(rawVal, &n); err != nil {
				return fmt.Errorf("flex unmarshal %q: %w", key, err)
			}
			out[key] = n.String()
		case bytes.Equal(rawVal, []byte("null")):
			continue
		default:
			return fmt.Errorf("flex unmarshal %q: expected a string or a number", key)
		}
	}

	*v = out
	return nil
}
