package lark

import "net/http"

// RequestOption customizes a single call.
type RequestOption func(*requestOptions)

type requestOptions struct {
	userAccessToken   string
	tenantAccessToken string
	appAccessToken    string
	tenantKey         string
	appTicket         string
	requestID         string
	header            http.Header
	needHelpdeskAuth  bool
}

func newRequestOptions(opts []RequestOption) *requestOptions {
	o := &requestOptions{header: make(http.Header)}
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// WithUserAccessToken calls the endpoint on behalf of a user.
func WithUserAccessToken(token string) RequestOption {
	return func(o *requestOptions) { o.userAccessToken = token }
}

// WithTenantAccessToken uses the given tenant token instead of the managed one.
func WithTenantAccessToken(token string) RequestOption {
	return func(o *requestOptions) { o.tenantAccessToken = token }
}

// WithAppAccessToken uses the given app token instead of the managed one.
func WithAppAccessToken(token string) RequestOption {
	return func(o *requestOptions) { o.appAccessToken = token }
}

// WithTenantKey selects the tenant a marketplace app acts for.
func WithTenantKey(tenantKey string) RequestOption {
	return func(o *requestOptions) { o.tenantKey = tenantKey }
}

// WithAppTicket overrides the cached app ticket of a marketplace app.
func WithAppTicket(ticket string) RequestOption {
	return func(o *requestOptions) { o.appTicket = ticket }
}

// WithHeaders adds headers to the request.
func WithHeaders(header http.Header) RequestOption {
	return func(o *requestOptions) {
		for k, v := range header {
			o.header[k] = append(o.header[k], v...)
		}
	}
}

// WithRequestID sets X-Request-Id. A random one is generated otherwise.
func WithRequestID(id string) RequestOption {
	return func(o *requestOptions) { o.requestID = id }
}

// WithNeedHelpdeskAuth adds the helpdesk authorization header built from
// Config.HelpdeskID and Config.HelpdeskToken.
func WithNeedHelpdeskAuth() RequestOption {
	return func(o *requestOptions) { o.needHelpdeskAuth = true }
}
