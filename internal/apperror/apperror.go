// Package apperror defines the error kinds surfaced to API callers.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation  Kind = "validation"
	KindAuth        Kind = "unauthorized"
	KindForbidden   Kind = "forbidden"
	KindNotFound    Kind = "not_found"
	KindPersistence Kind = "persistence"
	KindRateLimit   Kind = "rate_limited"
)

// Error is a failure with a stable kind and a human-readable message.
// Issues maps field names to problems for validation failures.
type Error struct {
	Kind    Kind
	Message string
	Issues  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func Validation(message string, issues map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Issues: issues}
}

func Auth(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func NotFound(message string, err error) *Error {
	return &Error{Kind: KindNotFound, Message: message, Err: err}
}

// Persistence wraps a store failure, keeping the store's message.
func Persistence(err error) *Error {
	msg := "store operation failed"
	if err != nil {
		msg = err.Error()
	}
	return &Error{Kind: KindPersistence, Message: msg, Err: err}
}

func RateLimited() *Error {
	return &Error{Kind: KindRateLimit, Message: "Too many requests, try again later"}
}

// As returns the *Error in err's chain, or nil.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	appErr := As(err)
	return appErr != nil && appErr.Kind == kind
}
