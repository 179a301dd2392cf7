package lark

import (
	"errors"
	"fmt"
	"net/http"

	"openlark/pkg/serrors"
)

// Business codes returned by the Open Platform gateway.
const (
	CodeAccessTokenMissing       = 99991661
	CodeTenantAccessTokenInvalid = 99991663
	CodeAppAccessTokenInvalid    = 99991664
	CodeAccessTokenInvalid       = 99991665
	CodeUserAccessTokenInvalid   = 99991668
	CodeUserAccessTokenExpired   = 99991677
	CodeNoPermission             = 99991672
	CodeUserNoPermission         = 99991679
	CodeAppNotAuthorized         = 99991401
	CodeFrequencyLimited         = 99991400
)

// FieldViolation points at a request field the server rejected.
type FieldViolation struct {
	Field       string `json:"field"`
	Value       string `json:"value,omitempty"`
	Description string `json:"description,omitempty"`
}

// APIError is a non-zero code returned in a response envelope.
type APIError struct {
	Code           int
	Msg            string
	LogID          string
	StatusCode     int
	Troubleshooter string
	Violations     []FieldViolation
}

func (e *APIError) Error() string {
	s := fmt.Sprintf("lark api error: code=%d msg=%q", e.Code, e.Msg)
	if e.LogID != "" {
		s += " log_id=" + e.LogID
	}
	for _, v := range e.Violations {
		s += fmt.Sprintf(" [%s: %s]", v.Field, v.Description)
	}

	return s
}

// Is matches another *APIError with the same code, so callers can compare
// against &APIError{Code: CodeNoPermission}.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}

	return t.Code == e.Code
}

// AsAPIError returns the *APIError in err's chain, or nil.
func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	return nil
}

// KindForCode maps a business code, falling back to the HTTP status, to a
// semantic error kind.
func KindForCode(code, statusCode int) serrors.Kind {
	switch code {
	case CodeAccessTokenMissing, CodeTenantAccessTokenInvalid, CodeAppAccessTokenInvalid,
		CodeAccessTokenInvalid, CodeUserAccessTokenInvalid, CodeUserAccessTokenExpired:
		return serrors.ErrUnauthorized
	case CodeNoPermission, CodeUserNoPermission, CodeAppNotAuthorized:
		return serrors.ErrForbidden
	case CodeFrequencyLimited:
		return serrors.ErrRateLimited
	}

	switch {
	case statusCode == http.StatusBadRequest:
		return serrors.ErrBadRequest
	case statusCode == http.StatusUnauthorized:
		return serrors.ErrUnauthorized
	case statusCode == http.StatusForbidden:
		return serrors.ErrForbidden
	case statusCode == http.StatusNotFound:
		return serrors.ErrNotFound
	case statusCode == http.StatusConflict:
		return serrors.ErrConflict
	case statusCode == http.StatusTooManyRequests:
		return serrors.ErrRateLimited
	case statusCode >= 500:
		return serrors.ErrUnavailable
	default:
		return serrors.ErrInternal
	}
}

// IsTokenInvalid reports whether code says a managed app or tenant token was
// rejected, which means the cached copy must be dropped.
func IsTokenInvalid(code int) bool {
	return code == CodeTenantAccessTokenInvalid || code == CodeAppAccessTokenInvalid
}
