package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers and the transport layer.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidInput
	KindNotFound
	KindNoSession
	KindAlreadyRunning
	KindConflict
	KindStorageUnavailable
)

// Error carries a kind, a caller-safe message and an optional wrapped cause.
// The cause is for logs only and never crosses the API boundary.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind with a caller-safe message.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf is New with formatting.
func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and caller-safe message to an underlying cause.
func Wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf reports the kind of err, or KindUnknown for plain errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Message returns the caller-safe message of err, or a generic fallback.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return "internal error"
}

func IsInvalidInput(err error) bool { return KindOf(err) == KindInvalidInput }

func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

func IsNoSession(err error) bool { return KindOf(err) == KindNoSession }

func IsAlreadyRunning(err error) bool { return KindOf(err) == KindAlreadyRunning }

func IsConflict(err error) bool { return KindOf(err) == KindConflict }

func IsStorageUnavailable(err error) bool { return KindOf(err) == KindStorageUnavailable }
