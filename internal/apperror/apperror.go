// Package apperror defines the error kinds surfaced by the log store and query engine.
package apperror

import (
	"errors"
	"fmt"
)

type Kind string

const (
	ValidationFailed   Kind = "ValidationFailed"
	StorageUnavailable Kind = "StorageUnavailable"
	StorageWriteFailed Kind = "StorageWriteFailed"
	InvalidFilterValue Kind = "InvalidFilterValue"
)

// Error carries a Kind, a human readable message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind, so errors.Is(err, apperror.New(kind, "")) works
// alongside the sentinel values below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrValidationFailed   = &Error{Kind: ValidationFailed}
	ErrStorageUnavailable = &Error{Kind: StorageUnavailable}
	ErrStorageWriteFailed = &Error{Kind: StorageWriteFailed}
	ErrInvalidFilterValue = &Error{Kind: InvalidFilterValue}
)

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}
