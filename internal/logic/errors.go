package logic

import (
	"errors"

	"github.com/cricketml/prematch/internal/form"
	"github.com/cricketml/prematch/internal/preprocess"
)

// InputError marks a failure caused by the submitted values rather than by
// the service. Handlers report it back to the user.
type InputError struct {
	Err error
}

func (e *InputError) Error() string { return e.Err.Error() }
func (e *InputError) Unwrap() error { return e.Err }

// IsInputError reports whether err was caused by user input.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}

var inputSentinels = []error{
	form.ErrInvalidChoice,
	form.ErrNotNumeric,
	form.ErrMissingField,
	preprocess.ErrUnknownCategory,
	preprocess.ErrNotNumeric,
	preprocess.ErrMissingColumn,
}

// classify wraps known input failures in InputError.
func classify(err error) error {
	for _, s := range inputSentinels {
		if errors.Is(err, s) {
			return &InputError{Err: err}
		}
	}
	return err
}
