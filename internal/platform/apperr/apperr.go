// Package apperr defines the error taxonomy shared by all resource
// services. Services raise typed errors; the central HTTP error handler
// maps them to status codes and the response envelope.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	// Unauthenticated: no credential was presented.
	Unauthenticated Kind = iota + 1
	// InvalidCredential: a credential was presented but failed
	// signature or expiry checks.
	InvalidCredential
	// Forbidden: the caller's role or ownership scope denies the action.
	Forbidden
	// MissingField: a required field is absent from the payload.
	MissingField
	// InvalidValue: a field is outside its closed value set.
	InvalidValue
	// NotFound: the resource, or a referenced foreign key, does not exist.
	NotFound
	// Conflict: uniqueness, scheduling collision, duplicate note, or a
	// delete blocked by referencing rows.
	Conflict
	// Unexpected: store failure or programming error.
	Unexpected
)

func (k Kind) String() string {
	switch k {
	case Unauthenticated:
		return "UNAUTHENTICATED"
	case InvalidCredential:
		return "INVALID_CREDENTIAL"
	case Forbidden:
		return "FORBIDDEN"
	case MissingField:
		return "MISSING_FIELD"
	case InvalidValue:
		return "INVALID_VALUE"
	case NotFound:
		return "NOT_FOUND"
	case Conflict:
		return "CONFLICT"
	default:
		return "UNEXPECTED"
	}
}

// HTTPStatus returns the status code the kind maps to at the boundary.
func (k Kind) HTTPStatus() int {
	switch k {
	case Unauthenticated, InvalidCredential:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case MissingField, InvalidValue:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a kind, a caller-safe message, and an optional cause.
// The cause is logged server-side only and never rendered to clients.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the kind from err, or Unexpected if err is not an
// *Error. A nil err has no kind and reports 0.
func KindOf(err error) Kind {
	if err == nil {
		return 0
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Unexpected
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
