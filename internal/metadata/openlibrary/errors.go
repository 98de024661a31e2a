package openlibrary

import (
	"errors"
	"fmt"
)

// Sentinel errors for OpenLibrary API operations.
var (
	ErrNotFound   = errors.New("openlibrary: not found")
	ErrBadRequest = errors.New("openlibrary: bad request")
	ErrServer     = errors.New("openlibrary: server error")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op   string // Operation: "resolve", "edition", "search", "author"
	ISBN string // If applicable
	Err  error
}

func (e *Error) Error() string {
	if e.ISBN != "" {
		return fmt.Sprintf("openlibrary %s [%s]: %v", e.Op, e.ISBN, e.Err)
	}
	return fmt.Sprintf("openlibrary %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// wrapError creates an Error with context.
func wrapError(op, isbn string, err error) error {
	return &Error{
		Op:   op,
		ISBN: isbn,
		Err:  err,
	}
}
