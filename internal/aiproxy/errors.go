package aiproxy

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind categorizes proxy failures. Each kind maps to one HTTP status.
type Kind string

const (
	InvalidInput       Kind = "INVALID_INPUT"
	ConfigurationError Kind = "CONFIGURATION"
	UpstreamFailure    Kind = "UPSTREAM"
	InternalError      Kind = "INTERNAL"
)

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	if k == InvalidInput {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Error is a categorized proxy error. Message is safe to return to clients;
// Cause is only logged.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// NewError creates an error of the given kind.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError wraps cause with a kind and client-facing message.
func WrapError(cause error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// KindOf returns the kind of err, treating uncategorized errors as internal.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return InternalError
}
