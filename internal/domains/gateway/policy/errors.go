package policy

import (
	"errors"
	"fmt"
)

var (
	ErrMissingParameter = errors.New("missing required parameters")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// ParameterError rejects input before it reaches a builder or the network.
type ParameterError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ParameterError) Error() string {
	switch {
	case e.Field == "":
		return fmt.Sprintf("%v: %s", e.Err, e.Reason)
	case e.Reason == "":
		return fmt.Sprintf("%v: %s", e.Err, e.Field)
	default:
		return fmt.Sprintf("%v: %s %s", e.Err, e.Field, e.Reason)
	}
}

func (e *ParameterError) Unwrap() error {
	return e.Err
}

func missing(field string) error {
	return &ParameterError{Field: field, Err: ErrMissingParameter}
}

func invalid(field, reason string) error {
	return &ParameterError{Field: field, Reason: reason, Err: ErrInvalidParameter}
}

// InvalidParameter reports a value that passed shape checks but was
// rejected further in.
func InvalidParameter(field string, err error) error {
	return &ParameterError{Field: field, Reason: err.Error(), Err: ErrInvalidParameter}
}
