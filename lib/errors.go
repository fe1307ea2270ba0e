package lib

import (
	"errors"
	"fmt"
)

var (
	ErrAuthExtraction    = errors.New("csrf token not found in session page")
	ErrNotFound          = errors.New("component not found")
	ErrMalformedDocument = errors.New("malformed symbol document")
	ErrMalformedProperty = errors.New("malformed symbol property")
	ErrConverterFailure  = errors.New("converter failed")
	ErrFormat            = errors.New("invalid library path")
)

/*
	StageError is returned when an external converter stage exits non-zero
	or does not produce its output artifact.
*/
type StageError struct {
	Stage    string
	ExitCode int
	Output   string
	Err      error
}

func (e *StageError) Error() string {
	msg := fmt.Sprintf("%s stage failed", e.Stage)
	if e.ExitCode != 0 {
		msg += fmt.Sprintf(" (exit code %d)", e.ExitCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Output != "" {
		msg += "\n" + e.Output
	}

	return msg
}

func (e *StageError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConverterFailure}
	}

	return []error{ErrConverterFailure, e.Err}
}
