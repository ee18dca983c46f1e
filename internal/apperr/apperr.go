// Package apperr defines the error taxonomy shared by stores and handlers.
// Stores classify failures (missing rows, unique-constraint violations);
// handlers map the classification onto HTTP status codes. Anything
// unclassified is treated as an internal error and never leaks details
// to the client.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the API surface.
type Kind int

const (
	// KindInternal is the default for unclassified failures.
	KindInternal Kind = iota
	// KindNotFound: entity lookup by slug/id/username failed.
	KindNotFound
	// KindConflict: uniqueness violation (duplicate name/slug/email/username).
	KindConflict
	// KindPermissionDenied: role or ownership check failed.
	KindPermissionDenied
	// KindValidation: malformed or contradictory input.
	KindValidation
	// KindUnauthenticated: missing or invalid credential.
	KindUnauthenticated
)

// Error carries a classification and a client-safe message.
type Error struct {
	Kind Kind
	Msg  string
	Err  error // wrapped cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound returns a KindNotFound error with a formatted message.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// Conflict returns a KindConflict error with a formatted message.
func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

// PermissionDenied returns a KindPermissionDenied error.
func PermissionDenied(format string, args ...any) *Error {
	return &Error{Kind: KindPermissionDenied, Msg: fmt.Sprintf(format, args...)}
}

// Validation returns a KindValidation error with a formatted message.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// Unauthenticated returns a KindUnauthenticated error.
func Unauthenticated(format string, args ...any) *Error {
	return &Error{Kind: KindUnauthenticated, Msg: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected failure. The message is client-safe; the
// cause stays available for logging via Unwrap.
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// KindOf extracts the Kind from an error chain. Unclassified errors
// report KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the client-safe message for an error chain. For
// unclassified errors it returns a generic message so internal details
// never reach the client.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Msg
	}
	return "An unexpected error occurred"
}
