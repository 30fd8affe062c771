package errs

import (
	"errors"
	"fmt"
)

// Error kinds shared by both services. Wrap them with %w and test with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrBusinessRule = errors.New("business rule violation")
	ErrValidation   = errors.New("validation error")
	ErrRemoteCall   = errors.New("remote call failure")
	ErrInternal     = errors.New("internal error")
)

// Error is a classified error carrying a caller-facing message and an
// optional cause. errors.Is matches both the kind and the cause chain.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}

	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}

	return []error{e.Kind}
}

// New creates a classified error with a formatted message.
func New(kind error, format string, args ...any) error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap classifies cause under kind, keeping cause reachable through errors.Is.
func Wrap(kind, cause error, format string, args ...any) error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// NotFound is a shorthand for New(ErrNotFound, ...).
func NotFound(format string, args ...any) error {
	return New(ErrNotFound, format, args...)
}

// Conflict is a shorthand for New(ErrConflict, ...).
func Conflict(format string, args ...any) error {
	return New(ErrConflict, format, args...)
}

// BusinessRule is a shorthand for New(ErrBusinessRule, ...).
func BusinessRule(format string, args ...any) error {
	return New(ErrBusinessRule, format, args...)
}

// Validation is a shorthand for New(ErrValidation, ...).
func Validation(format string, args ...any) error {
	return New(ErrValidation, format, args...)
}

// Kind returns the taxonomy sentinel matching err.
// Remote call failures win over the classification of their cause,
// anything unclassified is reported as ErrInternal.
func Kind(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrRemoteCall):
		return ErrRemoteCall
	case errors.Is(err, ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrConflict):
		return ErrConflict
	case errors.Is(err, ErrBusinessRule):
		return ErrBusinessRule
	case errors.Is(err, ErrValidation):
		return ErrValidation
	default:
		return ErrInternal
	}
}
