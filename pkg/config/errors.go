package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validation error kinds. Every FieldError unwraps to exactly one of these.
var (
	ErrMissingRequiredField = errors.New("missing required field")
	ErrUnknownField         = errors.New("unknown field")
	ErrOutOfBounds          = errors.New("value out of bounds")
	ErrTypeMismatch         = errors.New("type mismatch")
)

// FieldError reports a problem with a single configuration key.
type FieldError struct {
	// Key is the slot key, or "slot.subkey" for entity sub-configuration.
	Key string

	// Err is one of the sentinel kinds above.
	Err error

	// Detail is a human-readable explanation.
	Detail string

	// Line is the source line of the key, if known.
	Line int
}

func (e *FieldError) Error() string {
	var sb strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&sb, "line %d: ", e.Line)
	}
	fmt.Fprintf(&sb, "%s: %v", e.Key, e.Err)
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	return sb.String()
}

func (e *FieldError) Unwrap() error { return e.Err }

// Code returns the error kind name, e.g. "OutOfBoundsValue".
func (e *FieldError) Code() string {
	switch {
	case errors.Is(e.Err, ErrMissingRequiredField):
		return "MissingRequiredField"
	case errors.Is(e.Err, ErrUnknownField):
		return "UnknownField"
	case errors.Is(e.Err, ErrOutOfBounds):
		return "OutOfBoundsValue"
	case errors.Is(e.Err, ErrTypeMismatch):
		return "TypeMismatch"
	default:
		return "Invalid"
	}
}

// ValidationError collects every FieldError found in one validation pass.
type ValidationError struct {
	Errors []*FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.Error()
	}
	return fmt.Sprintf("%d configuration errors: %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Unwrap exposes the individual field errors to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error {
	out := make([]error, len(e.Errors))
	for i, fe := range e.Errors {
		out[i] = fe
	}
	return out
}

// Field returns the first error reported for key, or nil.
func (e *ValidationError) Field(key string) *FieldError {
	for _, fe := range e.Errors {
		if fe.Key == key {
			return fe
		}
	}
	return nil
}

func (e *ValidationError) add(key string, kind error, format string, args ...any) {
	e.Errors = append(e.Errors, &FieldError{
		Key:    key,
		Err:    kind,
		Detail: fmt.Sprintf(format, args...),
	})
}
