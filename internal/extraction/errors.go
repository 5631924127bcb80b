package extraction

import (
	"errors"
	"fmt"
)

// Failure kinds. Match them with errors.Is against anything the pipeline returns.
var (
	ErrImageDecode   = errors.New("image decode failed")
	ErrOCREngine     = errors.New("ocr engine failed")
	ErrEmptyText     = errors.New("empty text")
	ErrMissingAmount = errors.New("no amount")
)

// Error is the single failed-extraction outcome of a pipeline run
type Error struct {
	// State is the last state reached before failing
	State State
	// Kind is one of the Err* sentinels above
	Kind error
	// Err is the underlying cause, if any
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.Error()
}

// Reason returns the short failure reason without the underlying cause
func (e *Error) Reason() string {
	return e.Kind.Error()
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func fail(state State, kind error, cause error) *Error {
	return &Error{State: state, Kind: kind, Err: cause}
}
