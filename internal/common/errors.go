// Package common holds the error kinds shared by services, stores and
// controllers. Callers match kinds with errors.Is.
package common

import (
	"errors"
	"fmt"
)

var (
	ErrValidation  = errors.New("validation error")
	ErrDuplicate   = errors.New("already exists")
	ErrReferential = errors.New("referenced record does not exist")
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("record has dependents")
	ErrAuth        = errors.New("unauthorized")
)

// Error is a domain error with a message that is safe to show to clients.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) error { return newError(ErrValidation, format, args...) }

func Duplicate(format string, args ...any) error { return newError(ErrDuplicate, format, args...) }

func Referential(format string, args ...any) error {
	return newError(ErrReferential, format, args...)
}

func NotFound(format string, args ...any) error { return newError(ErrNotFound, format, args...) }

func Conflict(format string, args ...any) error { return newError(ErrConflict, format, args...) }

func Auth(format string, args ...any) error { return newError(ErrAuth, format, args...) }

// Message returns the client-facing text of err, or fallback when err
// carries none.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return fallback
}
