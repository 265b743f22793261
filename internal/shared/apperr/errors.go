// Package apperr defines the error taxonomy shared by every layer of the service.
// Transport code maps a Kind to a status code; everything below it only picks the Kind.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the transport boundary.
type Kind int

const (
	// KindInternal is any failure that has no more specific kind.
	KindInternal Kind = iota
	// KindValidation means a required field is missing or malformed.
	KindValidation
	// KindDuplicate means a uniqueness constraint was violated.
	KindDuplicate
	// KindUnauthenticated covers bad credentials and missing, invalid or expired tokens.
	KindUnauthenticated
	// KindNotFound means the record does not exist or is not owned by the caller.
	KindNotFound
	// KindStore means the underlying persistence layer failed.
	KindStore
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindDuplicate:
		return "duplicate"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindNotFound:
		return "not_found"
	case KindStore:
		return "store"
	default:
		return "internal"
	}
}

// Error carries a Kind, a message that is safe to show to clients, and an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// New returns a sentinel error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap attaches a kind and public message to cause.
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// Store wraps a persistence failure. It returns nil for a nil cause.
func Store(cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: KindStore, Msg: "store failure", Err: cause}
}

// Validation builds a validation error with a formatted message.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the public message of the first *Error in err's chain.
// ok is false when err carries no *Error.
func MessageOf(err error) (msg string, ok bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg, true
	}
	return "", false
}
