package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind buckets an expected, user-facing failure into an HTTP-mappable class.
type Kind int

const (
	KindValidation Kind = iota
	KindPermission
	KindRateLimit
	KindConflict
	KindNotFound
	KindDependency
)

// Error is an expected outcome carrying a machine-readable code plus the
// numeric context the client needs to render a precise message
// (current vs. required values and the like).
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details map[string]interface{}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// With attaches a detail field and returns the error for chaining.
func (e *Error) With(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Payload flattens the error into the JSON body the handlers return.
func (e *Error) Payload() map[string]interface{} {
	body := map[string]interface{}{
		"error":   e.Code,
		"message": e.Message,
	}
	for k, v := range e.Details {
		body[k] = v
	}
	return body
}

func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindPermission:
		return http.StatusForbidden
	case KindRateLimit:
		return http.StatusTooManyRequests
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// From unwraps err looking for an *Error.
func From(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Dependency wraps an unexpected datastore or downstream failure. The
// underlying error is kept for logs but never leaks into the payload.
func Dependency(err error) error {
	return fmt.Errorf("%w: %v", errDependency, err)
}

var errDependency = &Error{
	Kind:    KindDependency,
	Code:    "DependencyError",
	Message: "service temporarily unavailable",
}
