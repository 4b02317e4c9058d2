package booking

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a booking error for translation at the API boundary.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindNotFound      Kind = "not_found"
	KindConflict      Kind = "conflict"
	KindAuthorization Kind = "authorization"
	KindDatabase      Kind = "database"
)

// Error is the uniform domain error: a kind, a message, and for
// validation failures the offending fields. Database errors wrap the
// underlying cause, which is logged but never leaked to callers.
type Error struct {
	Kind    Kind
	Message string
	Fields  []string
	Err     error
}

func (e *Error) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: %s (fields: %s)", e.Kind, e.Message, strings.Join(e.Fields, ", "))
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// validationError builds a KindValidation error naming the bad fields.
func validationError(message string, fields ...string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func notFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func conflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func authorizationError(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

// databaseError wraps an unexpected persistence failure behind a
// generic message.
func databaseError(err error) *Error {
	return &Error{Kind: KindDatabase, Message: "persistence failure", Err: err}
}

// KindOf extracts the kind of a booking error, or KindDatabase for
// anything unclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindDatabase
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
