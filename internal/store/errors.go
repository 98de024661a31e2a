package store

import (
	"fmt"
	"net/http"
)

// Error is a storage-layer error carrying the HTTP status it maps to.
// Implementations return the package sentinels below so callers can
// test with errors.Is.
type Error struct {
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPCode returns the HTTP status this error maps to.
func (e *Error) HTTPCode() int { return e.Code }

// WithMessage returns a copy with a different user-facing message.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{Code: e.Code, Message: msg, Err: e.Err}
}

// WithCause returns a copy wrapping an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Err: err}
}

var (
	ErrNotFound      = &Error{Code: http.StatusNotFound, Message: "resource not found"}
	ErrAlreadyExists = &Error{Code: http.StatusConflict, Message: "resource already exists"}
	ErrInvalidInput  = &Error{Code: http.StatusBadRequest, Message: "invalid input"}
	ErrUnauthorized  = &Error{Code: http.StatusUnauthorized, Message: "unauthorized"}
	ErrForbidden     = &Error{Code: http.StatusForbidden, Message: "forbidden"}
)
