// Package apperr defines the error taxonomy shared by every service.
//
// An *Error travels unchanged through HTTP responses and command replies: the
// router serializes it into the reply, the dispatcher decodes it back, and the
// HTTP layer renders it with the standard failure envelope.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for transport-independent handling.
type Kind string

const (
	KindNotFound           Kind = "NOT_FOUND"
	KindValidation         Kind = "VALIDATION_ERROR"
	KindUnauthorized       Kind = "UNAUTHORIZED"
	KindInvalidToken       Kind = "INVALID_TOKEN"
	KindForbidden          Kind = "FORBIDDEN"
	KindConflict           Kind = "CONFLICT"
	KindUnknownCommand     Kind = "UNKNOWN_COMMAND"
	KindUpstreamTimeout    Kind = "UPSTREAM_TIMEOUT"
	KindServiceUnavailable Kind = "SERVICE_UNAVAILABLE"
	KindStorageFailure     Kind = "STORAGE_FAILURE"
	KindRateLimited        Kind = "RATE_LIMITED"
	KindCanceled           Kind = "REQUEST_CANCELED"
	KindInternal           Kind = "INTERNAL_ERROR"
)

// StatusClientClosedRequest is reported when the caller went away before the
// reply arrived. net/http has no constant for it.
const StatusClientClosedRequest = 499

// Error is a classified application error.
type Error struct {
	Kind    Kind                `json:"kind"`
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"errors,omitempty"`

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches on Kind so that errors.Is(err, apperr.InvalidToken("")) works
// regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Status returns the HTTP status code for the error kind.
func (e *Error) Status() int {
	return StatusFor(e.Kind)
}

// WithCause returns a copy of e wrapping cause. The cause is never
// serialized.
func (e *Error) WithCause(cause error) *Error {
	cp := *e
	cp.cause = cause
	return &cp
}

// StatusFor maps a kind to an HTTP status code.
func StatusFor(k Kind) int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindUnknownCommand:
		return http.StatusBadRequest
	case KindUnauthorized, KindInvalidToken:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindUpstreamTimeout:
		return http.StatusGatewayTimeout
	case KindServiceUnavailable:
		return http.StatusServiceUnavailable
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindCanceled:
		return StatusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Code: string(kind), Message: message}
}

// NotFound reports a missing resource, formatted like "Product with ID x not found".
func NotFound(resource, id string) *Error {
	if id == "" {
		return newError(KindNotFound, resource+" not found")
	}
	return newError(KindNotFound, fmt.Sprintf("%s with ID %s not found", resource, id))
}

// Validation reports malformed input. fields may be nil.
func Validation(message string, fields map[string][]string) *Error {
	e := newError(KindValidation, message)
	e.Fields = fields
	return e
}

func Unauthorized(message string) *Error {
	return newError(KindUnauthorized, message)
}

// InvalidToken is the single rejection used for malformed, unknown, expired
// and revoked tokens.
func InvalidToken(message string) *Error {
	if message == "" {
		message = "Invalid token"
	}
	return newError(KindInvalidToken, message)
}

func Forbidden(message string) *Error {
	return newError(KindForbidden, message)
}

func Conflict(message string) *Error {
	return newError(KindConflict, message)
}

// ConflictCode is Conflict with a more specific machine-readable code.
func ConflictCode(code, message string) *Error {
	e := newError(KindConflict, message)
	e.Code = code
	return e
}

func RateLimited() *Error {
	return newError(KindRateLimited, "Too many requests")
}

func UnknownCommand(command string) *Error {
	return newError(KindUnknownCommand, fmt.Sprintf("unknown command %q", command))
}

func UpstreamTimeout(service, command string) *Error {
	return newError(KindUpstreamTimeout, fmt.Sprintf("%s did not reply to %s in time", service, command))
}

func ServiceUnavailable(message string) *Error {
	return newError(KindServiceUnavailable, message)
}

// Canceled reports a request abandoned by its caller.
func Canceled(cause error) *Error {
	return newError(KindCanceled, "Request canceled").WithCause(cause)
}

// Storage wraps a persistence failure. The cause is kept for logging only.
func Storage(cause error) *Error {
	return newError(KindStorageFailure, "Storage unavailable").WithCause(cause)
}

// Internal wraps an unclassified failure with a sanitized message.
func Internal(cause error) *Error {
	return newError(KindInternal, "Internal server error").WithCause(cause)
}

// From classifies any error. context.Canceled becomes Canceled; other
// unclassified errors become Internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, context.Canceled) {
		return Canceled(err)
	}
	return Internal(err)
}

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}
