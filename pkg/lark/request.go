package lark

import (
	"net/url"
	"strings"

	"openlark/pkg/serrors"
)

// AccessTokenType names the credential an endpoint accepts.
type AccessTokenType string

const (
	AccessTokenTypeNone   AccessTokenType = ""
	AccessTokenTypeApp    AccessTokenType = "app_access_token"
	AccessTokenTypeTenant AccessTokenType = "tenant_access_token"
	AccessTokenTypeUser   AccessTokenType = "user_access_token"
)

// APIRequest describes one call against the Open Platform. Services build it
// from their typed requests; callers may also build one directly for
// endpoints without a typed wrapper.
type APIRequest struct {
	HTTPMethod string
	// APIPath is a URL template such as /open-apis/im/v1/messages/:message_id.
	APIPath     string
	PathParams  PathParams
	QueryParams url.Values
	// Body is JSON encoded when non-nil.
	Body any

	SupportedAccessTokenTypes []AccessTokenType
	// SkipAuth sends the request without an Authorization header.
	SkipAuth bool
	// DataAtRoot decodes the whole body into the output instead of the data
	// field. The auth endpoints answer this way.
	DataAtRoot bool
}

// NewAPIRequest returns a request with empty path and query parameters.
func NewAPIRequest(method, path string, tokenTypes ...AccessTokenType) *APIRequest {
	return &APIRequest{
		HTTPMethod:                method,
		APIPath:                   path,
		PathParams:                PathParams{},
		QueryParams:               url.Values{},
		SupportedAccessTokenTypes: tokenTypes,
	}
}

// PathParams maps placeholder names to values.
type PathParams map[string]string

func (p PathParams) Set(key, value string) {
	p[key] = value
}

func (p PathParams) Get(key string) string {
	return p[key]
}

func (r *APIRequest) supports(t AccessTokenType) bool {
	for _, s := range r.SupportedAccessTokenTypes {
		if s == t {
			return true
		}
	}

	return false
}

// resolvePath substitutes :name segments with escaped path parameters.
func (r *APIRequest) resolvePath() (string, error) {
	if !strings.HasPrefix(r.APIPath, "/") {
		return "", serrors.With(serrors.ErrValidation, "api path %q must start with /", r.APIPath)
	}

	segments := strings.Split(r.APIPath, "/")
	for i, seg := range segments {
		if !strings.HasPrefix(seg, ":") {
			continue
		}
		name := seg[1:]
		value := r.PathParams.Get(name)
		if value == "" {
			return "", serrors.With(serrors.ErrValidation, "path parameter %s is required", name)
		}
		segments[i] = url.PathEscape(value)
	}

	return strings.Join(segments, "/"), nil
}
