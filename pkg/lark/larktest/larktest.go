// Package larktest provides an in-memory Open Platform for tests. The token
// endpoints are answered automatically; every other request is passed to a
// handler function.
package larktest

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"openlark/pkg/lark"
)

const (
	AppID       = "cli_test"
	AppSecret   = "secret"
	TenantToken = "t-test-token"
	AppToken    = "a-test-token"
)

// RoundTripFunc allows using a function as an http.RoundTripper.
type RoundTripFunc func(*http.Request) (*http.Response, error)

func (f RoundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// Platform counts token fetches so tests can assert on caching.
type Platform struct {
	TokenFetches atomic.Int32
	handler      RoundTripFunc
}

func (p *Platform) RoundTrip(r *http.Request) (*http.Response, error) {
	switch r.URL.Path {
	case "/open-apis/auth/v3/tenant_access_token/internal":
		p.TokenFetches.Add(1)

		return JSON(http.StatusOK, `{"code":0,"msg":"ok","tenant_access_token":"`+TenantToken+`","expire":7200}`), nil
	case "/open-apis/auth/v3/app_access_token/internal":
		p.TokenFetches.Add(1)

		return JSON(http.StatusOK, `{"code":0,"msg":"ok","app_access_token":"`+AppToken+`","expire":7200}`), nil
	}

	return p.handler(r)
}

// NewClient returns a self-built app client backed by a Platform that passes
// API requests to fn.
func NewClient(t testing.TB, fn RoundTripFunc) (*lark.Client, *Platform) {
	t.Helper()

	p := &Platform{handler: fn}
	c, err := lark.NewClient(&lark.Config{
		AppID:        AppID,
		AppSecret:    AppSecret,
		BaseURL:      lark.FeishuBaseURL,
		HTTPClient:   &http.Client{Transport: p},
		MaxRetries:   0,
		RetryWaitMin: 1,
		RetryWaitMax: 1,
	})
	require.NoError(t, err)

	return c, p
}

// JSON builds a response with a JSON body.
func JSON(status int, body string) *http.Response {
	h := http.Header{}
	h.Set("Content-Type", "application/json; charset=utf-8")
	h.Set("X-Tt-Logid", "log-test")

	return &http.Response{
		StatusCode: status,
		Header:     h,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// OK wraps data in a successful envelope.
func OK(data string) *http.Response {
	return JSON(http.StatusOK, `{"code":0,"msg":"success","data":`+data+`}`)
}

// Fail returns an envelope with a non-zero code.
func Fail(status, code int, msg string) *http.Response {
	b, _ := json.Marshal(map[string]any{"code": code, "msg": msg})

	return JSON(status, string(b))
}

// DecodeBody decodes the JSON body of r into a map.
func DecodeBody(t testing.TB, r *http.Request) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.NewDecoder(r.Body).Decode(&out))

	return out
}
