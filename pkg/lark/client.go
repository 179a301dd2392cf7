// Package lark is the core client of the Feishu/Lark Open Platform. It
// resolves request templates, injects access tokens, retries transient
// failures and decodes the {code, msg, data} response envelope. Endpoint
// families live in pkg/service and build on Client.Request.
package lark

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"openlark/pkg/metrics"
	"openlark/pkg/serrors"
)

const (
	// Version is reported in the User-Agent header.
	Version   = "0.3.0"
	userAgent = "openlark-go/" + Version
)

// Client is the client to the Open Platform. Create it with NewClient. It is
// safe for concurrent use.
type Client struct {
	modifyLock sync.RWMutex
	config     *Config

	tokens  *TokenManager
	metrics *metrics.Instruments
	tracer  trace.Tracer
}

// NewClient returns a new client for the given configuration. If the
// configuration is nil, DefaultConfig is used. Zero fields are filled with
// their defaults.
func NewClient(c *Config) (*Client, error) {
	if c == nil {
		c = DefaultConfig()
	}
	if c.Error != nil {
		return nil, fmt.Errorf("could not read configuration: %w", c.Error)
	}

	if err := NewValidator().
		Required("app_id", c.AppID).
		Required("app_secret", c.AppSecret).
		OneOf("app_type", string(c.AppType), string(AppTypeSelfBuilt), string(AppTypeMarketplace)).
		Err(); err != nil {
		return nil, err
	}

	config := *c
	def := defaultConfig()
	if config.AppType == "" {
		config.AppType = def.AppType
	}
	if config.BaseURL == "" {
		config.BaseURL = def.BaseURL
	}
	config.BaseURL = strings.TrimSuffix(config.BaseURL, "/")
	if config.HTTPClient == nil {
		config.HTTPClient = def.HTTPClient
	}
	if config.HTTPClient.Transport == nil {
		config.HTTPClient.Transport = def.HTTPClient.Transport
	}
	if config.Headers == nil {
		config.Headers = make(http.Header)
	} else {
		config.Headers = config.Headers.Clone()
	}
	if config.RetryWaitMin == 0 {
		config.RetryWaitMin = def.RetryWaitMin
	}
	if config.RetryWaitMax == 0 {
		config.RetryWaitMax = def.RetryWaitMax
	}
	if config.TokenCache == nil {
		config.TokenCache = NewMemoryCache()
	}

	// Ensure redirects are not automatically followed.
	config.HTTPClient.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	client := &Client{
		config:  &config,
		metrics: config.Metrics,
		tracer:  otel.Tracer("openlark/pkg/lark"),
	}
	if client.metrics == nil {
		client.metrics = metrics.Default()
	}
	client.tokens = newTokenManager(&config, client)

	return client, nil
}

// Tokens returns the token manager of the client.
func (c *Client) Tokens() *TokenManager {
	return c.tokens
}

// AppID returns the app id the client was created with.
func (c *Client) AppID() string {
	c.modifyLock.RLock()
	defer c.modifyLock.RUnlock()

	return c.config.AppID
}

// BaseURL returns the Open Platform host the client talks to.
func (c *Client) BaseURL() string {
	c.modifyLock.RLock()
	defer c.modifyLock.RUnlock()

	return c.config.BaseURL
}

// SetBaseURL changes the Open Platform host.
func (c *Client) SetBaseURL(baseURL string) {
	c.modifyLock.Lock()
	defer c.modifyLock.Unlock()

	c.config.BaseURL = strings.TrimSuffix(baseURL, "/")
}

// SetLimiter sets the client-side rate limiter. Nil removes it.
func (c *Client) SetLimiter(rateLimit float64, burst int) {
	c.modifyLock.Lock()
	defer c.modifyLock.Unlock()

	if rateLimit <= 0 {
		c.config.Limiter = nil

		return
	}
	c.config.Limiter = rate.NewLimiter(rate.Limit(rateLimit), burst)
}

// SetMaxRetries sets the number of retries for transient failures.
func (c *Client) SetMaxRetries(retries int) {
	c.modifyLock.Lock()
	defer c.modifyLock.Unlock()

	c.config.MaxRetries = retries
}

// SetHeaders replaces the headers added to every request.
func (c *Client) SetHeaders(headers http.Header) {
	c.modifyLock.Lock()
	defer c.modifyLock.Unlock()

	c.config.Headers = headers.Clone()
}

// Clone creates a new client with the same configuration. The token manager
// and its cache are shared; headers are copied.
func (c *Client) Clone() *Client {
	c.modifyLock.RLock()
	defer c.modifyLock.RUnlock()

	config := *c.config
	config.Headers = c.config.Headers.Clone()

	return &Client{
		config:  &config,
		tokens:  c.tokens,
		metrics: c.metrics,
		tracer:  c.tracer,
	}
}

// Request sends req and decodes the data of the response envelope into out.
// out may be nil. When a managed app or tenant token is rejected as invalid,
// the cached token is dropped and the call is made once more.
func (c *Client) Request(ctx context.Context, req *APIRequest, out any, opts ...RequestOption) (*RawResponse, error) {
	o := newRequestOptions(opts)

	tokenType, err := selectTokenType(req, o)
	if err != nil {
		return nil, err
	}
	if o.needHelpdeskAuth {
		if err := c.checkHelpdesk(); err != nil {
			return nil, err
		}
	}

	raw, err := c.do(ctx, req, out, o, tokenType)
	if err == nil {
		return raw, nil
	}

	apiErr := AsAPIError(err)
	if apiErr == nil || !IsTokenInvalid(apiErr.Code) || !o.managed(tokenType) {
		return raw, err
	}

	if ierr := c.tokens.Invalidate(ctx, tokenType, o.tenantKey); ierr != nil {
		return raw, errors.Join(err, ierr)
	}

	return c.do(ctx, req, out, o, tokenType)
}

func (c *Client) checkHelpdesk() error {
	c.modifyLock.RLock()
	defer c.modifyLock.RUnlock()

	if c.config.HelpdeskID == "" || c.config.HelpdeskToken == "" {
		return serrors.With(serrors.ErrValidation, "helpdesk id and token are required for helpdesk requests")
	}

	return nil
}

// Do sends req and returns the decoded data as a typed response. When the
// platform answered with an error the response is returned along with the
// error, so the caller can still read its rate limit and log id.
func Do[T any](ctx context.Context, c *Client, req *APIRequest, opts ...RequestOption) (*Response[T], error) {
	var data T
	raw, err := c.Request(ctx, req, &data, opts...)
	if raw == nil {
		return nil, err
	}

	return &Response[T]{RawResponse: raw, Data: data}, err
}

// managed reports whether the token of type t comes from the token manager
// rather than from a request option.
func (o *requestOptions) managed(t AccessTokenType) bool {
	switch t {
	case AccessTokenTypeApp:
		return o.appAccessToken == ""
	case AccessTokenTypeTenant:
		return o.tenantAccessToken == ""
	default:
		return false
	}
}

// selectTokenType picks the credential for req. A token passed as an option
// wins when the endpoint supports it; otherwise the managed tenant token is
// preferred over the app token. Endpoints that only take user tokens need
// one passed in.
func selectTokenType(req *APIRequest, o *requestOptions) (AccessTokenType, error) {
	if req.SkipAuth || len(req.SupportedAccessTokenTypes) == 0 {
		return AccessTokenTypeNone, nil
	}

	switch {
	case o.userAccessToken != "" && req.supports(AccessTokenTypeUser):
		return AccessTokenTypeUser, nil
	case o.tenantAccessToken != "" && req.supports(AccessTokenTypeTenant):
		return AccessTokenTypeTenant, nil
	case o.appAccessToken != "" && req.supports(AccessTokenTypeApp):
		return AccessTokenTypeApp, nil
	case req.supports(AccessTokenTypeTenant):
		return AccessTokenTypeTenant, nil
	case req.supports(AccessTokenTypeApp):
		return AccessTokenTypeApp, nil
	}

	return AccessTokenTypeNone, serrors.With(serrors.ErrValidation,
		"%s %s requires a user access token", req.HTTPMethod, req.APIPath)
}

func (c *Client) accessToken(ctx context.Context, tokenType AccessTokenType, o *requestOptions) (string, error) {
	switch tokenType {
	case AccessTokenTypeUser:
		return o.userAccessToken, nil
	case AccessTokenTypeTenant:
		if o.tenantAccessToken != "" {
			return o.tenantAccessToken, nil
		}

		return c.tokens.TenantAccessToken(ctx, o.tenantKey, o.appTicket)
	case AccessTokenTypeApp:
		if o.appAccessToken != "" {
			return o.appAccessToken, nil
		}

		return c.tokens.AppAccessToken(ctx, o.appTicket)
	default:
		return "", nil
	}
}
