// Package serrors defines the semantic error kinds shared by the SDK, the
// outbox service and the HTTP layer. Feishu business codes and HTTP statuses
// are folded into these kinds so callers can branch with errors.Is without
// knowing vendor codes.
package serrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is a semantic error category. Only NewKind creates kinds.
type Kind interface {
	error
	isKind()
}

type kind struct{ s string }

func (k kind) Error() string { return k.s }
func (k kind) isKind()       {}

// NewKind creates a kind sentinel. Kinds compare by name.
func NewKind(name string) Kind { return kind{s: name} }

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = NewKind("NOT_FOUND")
	// ErrUnauthorized indicates a missing, expired or invalid credential.
	ErrUnauthorized = NewKind("UNAUTHORIZED")
	// ErrForbidden indicates the app lacks a scope or the caller lacks access.
	ErrForbidden = NewKind("FORBIDDEN")
	// ErrBadRequest indicates the server rejected the input.
	ErrBadRequest = NewKind("BAD_REQUEST")
	// ErrConflict indicates the entity is not in a state that allows the operation.
	ErrConflict = NewKind("CONFLICT")
	ErrInternal = NewKind("INTERNAL")
	ErrTimeout  = NewKind("TIMEOUT")
	// ErrUnavailable indicates a 5xx from upstream or a dependency being down.
	ErrUnavailable = NewKind("UNAVAILABLE")
	// ErrRateLimited indicates the frequency limit was hit.
	ErrRateLimited = NewKind("RATE_LIMITED")
	// ErrValidation indicates a request was rejected locally before being sent,
	// e.g. a required field was empty.
	ErrValidation = NewKind("VALIDATION")
)

var httpStatus = map[Kind]int{ //nolint: gochecknoglobals
	ErrNotFound:     http.StatusNotFound,
	ErrUnauthorized: http.StatusUnauthorized,
	ErrForbidden:    http.StatusForbidden,
	ErrBadRequest:   http.StatusBadRequest,
	ErrValidation:   http.StatusBadRequest,
	ErrConflict:     http.StatusConflict,
	ErrTimeout:      http.StatusGatewayTimeout,
	ErrUnavailable:  http.StatusServiceUnavailable,
	ErrRateLimited:  http.StatusTooManyRequests,
	ErrInternal:     http.StatusInternalServerError,
}

// HTTPStatus returns the status an HTTP server answers err with. Errors
// without a kind are internal.
func HTTPStatus(err error) int {
	if status, ok := httpStatus[KindOf(err)]; ok {
		return status
	}

	return http.StatusInternalServerError
}

// KindOf returns the first semantic kind found in err's chain, or nil.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) && e.kind != nil {
		return e.kind
	}
	var k Kind
	if errors.As(err, &k) {
		return k
	}

	return nil
}

// Retryable reports whether err belongs to a kind that may succeed when the
// same call is made again later.
func Retryable(err error) bool {
	return errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrUnavailable) ||
		errors.Is(err, ErrTimeout)
}

// Error carries a kind, an optional cause and an optional message.
// errors.Is and errors.As match both the kind and the cause chain.
//
// Error() renders "<msg>: <cause>", dropping whichever part is empty, and
// falls back to the kind name.
type Error struct {
	kind Kind
	err  error
	msg  string
}

// With returns an error of kind k with a formatted message.
func With(k Kind, msgFmt string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(msgFmt, args...)}
}

// Wrap returns an error of kind k wrapping err, with a formatted message.
func Wrap(k Kind, err error, msgFmt string, args ...any) *Error {
	return &Error{kind: k, err: err, msg: fmt.Sprintf(msgFmt, args...)}
}

// KindOnly returns an error that only carries k.
func KindOnly(k Kind) *Error { return &Error{kind: k} }

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch {
	case e.msg != "" && e.err != nil:
		return e.msg + ": " + e.err.Error()
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	case e.kind != nil:
		return e.kind.Error()
	default:
		return "unknown error"
	}
}

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return e == nil && target == nil
	}

	return (e.kind != nil && errors.Is(e.kind, target)) || (e.err != nil && errors.Is(e.err, target))
}

func (e *Error) As(target any) bool {
	if e == nil || target == nil {
		return false
	}

	return (e.kind != nil && errors.As(e.kind, target)) || (e.err != nil && errors.As(e.err, target))
}

// Kind returns the kind of e, or nil.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the message without the cause.
func (e *Error) Message() string { return e.msg }

// Cause returns the wrapped error, or nil.
func (e *Error) Cause() error { return e.err }
