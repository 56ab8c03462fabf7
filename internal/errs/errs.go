// Package errs provides the single error type shared by the storage
// drivers and the document store.
//
// Drivers wrap their native errors into *errs.Error with a Kind; callers
// use the Is* predicates instead of matching driver-specific codes or
// error strings.
package errs

import (
	"errors"
	"fmt"
)

// Kind categorises an error without exposing backend-specific codes.
type Kind int

const (
	KindUnknown        Kind = iota
	KindNotFound            // requested key absent
	KindSourceNotFound      // copy/move source absent before any mutation
	KindParse               // stored bytes are not valid document JSON
	KindValidation          // bad arguments, detected before any call
	KindBackend             // any other collaborator failure
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindSourceNotFound:
		return "source_not_found"
	case KindParse:
		return "parse_failed"
	case KindValidation:
		return "invalid_input"
	case KindBackend:
		return "backend_failed"
	default:
		return "unknown"
	}
}

// Error carries a Kind, a human message, and the original cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap lets errors.Is and errors.As traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an *Error with no cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf creates an *Error with a formatted message and no cause.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error around an underlying cause.
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// IsNotFound reports whether err represents an absent key.
func IsNotFound(err error) bool {
	return kindOf(err) == KindNotFound
}

// IsSourceNotFound reports whether a copy or move failed its source probe.
func IsSourceNotFound(err error) bool {
	return kindOf(err) == KindSourceNotFound
}

// IsParse reports whether stored bytes failed to decode as a document.
func IsParse(err error) bool {
	return kindOf(err) == KindParse
}

// IsValidation reports whether err was caused by bad caller input.
func IsValidation(err error) bool {
	return kindOf(err) == KindValidation
}

// IsBackend reports whether err is an unclassified collaborator failure.
func IsBackend(err error) bool {
	return kindOf(err) == KindBackend
}

func kindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
