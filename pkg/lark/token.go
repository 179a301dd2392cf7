package lark

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"openlark/pkg/logger"
	"openlark/pkg/serrors"
)

const (
	appAccessTokenInternalPath    = "/open-apis/auth/v3/app_access_token/internal"
	tenantAccessTokenInternalPath = "/open-apis/auth/v3/tenant_access_token/internal"
	appAccessTokenPath            = "/open-apis/auth/v3/app_access_token"
	tenantAccessTokenPath         = "/open-apis/auth/v3/tenant_access_token"
	appTicketResendPath           = "/open-apis/auth/v3/app_ticket/resend"

	// tokens are dropped this long before the server expires them
	expiryDelta  = 3 * time.Minute
	appTicketTTL = 12 * time.Hour

	tokenFetchTimeout = time.Minute
)

func appAccessTokenKey(appID string) string {
	return "app_access_token-" + appID
}

func tenantAccessTokenKey(appID, tenantKey string) string {
	return "tenant_access_token-" + appID + "-" + tenantKey
}

func appTicketKey(appID string) string {
	return "app_ticket-" + appID
}

type requester interface {
	Request(ctx context.Context, req *APIRequest, out any, opts ...RequestOption) (*RawResponse, error)
}

// TokenManager obtains app and tenant access tokens and keeps them cached
// until shortly before they expire. User access tokens are never managed;
// callers pass them per request.
type TokenManager struct {
	appID     string
	appSecret string
	appType   AppType

	// cache is nil when token caching is disabled.
	cache   TokenCache
	tickets TokenCache

	client requester
	group  singleflight.Group
}

func newTokenManager(cfg *Config, client requester) *TokenManager {
	m := &TokenManager{
		appID:     cfg.AppID,
		appSecret: cfg.AppSecret,
		appType:   cfg.AppType,
		client:    client,
	}
	if !cfg.DisableTokenCache {
		m.cache = cfg.TokenCache
	}
	m.tickets = cfg.TokenCache
	if m.tickets == nil {
		m.tickets = NewMemoryCache()
	}

	return m
}

type tokenResp struct {
	AppAccessToken    string `json:"app_access_token"`
	TenantAccessToken string `json:"tenant_access_token"`
	Expire            int    `json:"expire"`
}

// AppAccessToken returns the app access token. appTicket is only used by
// marketplace apps and falls back to the stored ticket when empty.
func (m *TokenManager) AppAccessToken(ctx context.Context, appTicket string) (string, error) {
	return m.cached(ctx, appAccessTokenKey(m.appID), func(ctx context.Context) (string, time.Duration, error) {
		if m.appType == AppTypeMarketplace {
			return m.fetchMarketplaceAppToken(ctx, appTicket)
		}

		return m.fetch(ctx, appAccessTokenInternalPath, map[string]string{
			"app_id":     m.appID,
			"app_secret": m.appSecret,
		}, func(r tokenResp) string { return r.AppAccessToken })
	})
}

// TenantAccessToken returns the tenant access token. Marketplace apps must
// name the tenant; self-built apps ignore tenantKey.
func (m *TokenManager) TenantAccessToken(ctx context.Context, tenantKey, appTicket string) (string, error) {
	if m.appType == AppTypeMarketplace && tenantKey == "" {
		return "", serrors.With(serrors.ErrValidation, "tenant key is required for marketplace apps")
	}

	return m.cached(ctx, tenantAccessTokenKey(m.appID, tenantKey), func(ctx context.Context) (string, time.Duration, error) {
		if m.appType != AppTypeMarketplace {
			return m.fetch(ctx, tenantAccessTokenInternalPath, map[string]string{
				"app_id":     m.appID,
				"app_secret": m.appSecret,
			}, func(r tokenResp) string { return r.TenantAccessToken })
		}

		appToken, err := m.AppAccessToken(ctx, appTicket)
		if err != nil {
			return "", 0, err
		}

		return m.fetch(ctx, tenantAccessTokenPath, map[string]string{
			"app_access_token": appToken,
			"tenant_key":       tenantKey,
		}, func(r tokenResp) string { return r.TenantAccessToken })
	})
}

func (m *TokenManager) fetchMarketplaceAppToken(ctx context.Context, appTicket string) (string, time.Duration, error) {
	if appTicket == "" {
		ticket, err := m.AppTicket(ctx)
		if err != nil {
			return "", 0, err
		}
		appTicket = ticket
	}
	if appTicket == "" {
		if err := m.ResendAppTicket(ctx); err != nil {
			logger.Warn(ctx, "could not request app ticket resend", zap.Error(err))
		}

		return "", 0, serrors.With(serrors.ErrValidation, "app ticket is not available yet, a resend was requested")
	}

	return m.fetch(ctx, appAccessTokenPath, map[string]string{
		"app_id":     m.appID,
		"app_secret": m.appSecret,
		"app_ticket": appTicket,
	}, func(r tokenResp) string { return r.AppAccessToken })
}

func (m *TokenManager) fetch(ctx context.Context,
	path string,
	body map[string]string,
	pick func(tokenResp) string) (string, time.Duration, error) {
	req := NewAPIRequest(http.MethodPost, path)
	req.Body = body
	req.SkipAuth = true
	req.DataAtRoot = true

	var resp tokenResp
	if _, err := m.client.Request(ctx, req, &resp); err != nil {
		return "", 0, fmt.Errorf("could not fetch access token: %w", err)
	}
	token := pick(resp)
	if token == "" {
		return "", 0, serrors.With(serrors.ErrInternal, "empty access token returned by %s", path)
	}

	return token, time.Duration(resp.Expire) * time.Second, nil
}

func (m *TokenManager) cached(ctx context.Context,
	key string,
	fetch func(ctx context.Context) (string, time.Duration, error)) (string, error) {
	if m.cache != nil {
		token, err := m.cache.Get(ctx, key)
		if err != nil {
			logger.Warn(ctx, "could not read token cache", zap.String("key", key), zap.Error(err))
		} else if token != "" {
			return token, nil
		}
	}

	// The fetch is shared by every caller waiting on key, so it runs detached
	// from the context of the caller that started it.
	ch := m.group.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), tokenFetchTimeout)
		defer cancel()

		token, expire, err := fetch(fctx)
		if err != nil {
			return "", err
		}

		if ttl := expire - expiryDelta; m.cache != nil && ttl > 0 {
			if err := m.cache.Set(fctx, key, token, ttl); err != nil {
				logger.Warn(fctx, "could not write token cache", zap.String("key", key), zap.Error(err))
			}
		}

		return token, nil
	})

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("could not fetch access token: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err //nolint: wrapcheck
		}

		return res.Val.(string), nil //nolint: forcetypeassert
	}
}

// Invalidate drops the cached token of the given type.
func (m *TokenManager) Invalidate(ctx context.Context, tokenType AccessTokenType, tenantKey string) error {
	if m.cache == nil {
		return nil
	}

	var key string
	switch tokenType {
	case AccessTokenTypeApp:
		key = appAccessTokenKey(m.appID)
	case AccessTokenTypeTenant:
		key = tenantAccessTokenKey(m.appID, tenantKey)
	default:
		return nil
	}
	if err := m.cache.Delete(ctx, key); err != nil {
		return fmt.Errorf("could not delete cached token: %w", err)
	}

	return nil
}

// SetAppTicket stores the ticket pushed by the app_ticket event.
func (m *TokenManager) SetAppTicket(ctx context.Context, ticket string) error {
	if err := m.tickets.Set(ctx, appTicketKey(m.appID), ticket, appTicketTTL); err != nil {
		return fmt.Errorf("could not store app ticket: %w", err)
	}

	return nil
}

// AppTicket returns the stored app ticket or an empty string.
func (m *TokenManager) AppTicket(ctx context.Context) (string, error) {
	ticket, err := m.tickets.Get(ctx, appTicketKey(m.appID))
	if err != nil {
		return "", fmt.Errorf("could not read app ticket: %w", err)
	}

	return ticket, nil
}

// ResendAppTicket asks the platform to push a fresh app_ticket event.
func (m *TokenManager) ResendAppTicket(ctx context.Context) error {
	req := NewAPIRequest(http.MethodPost, appTicketResendPath)
	req.Body = map[string]string{
		"app_id":     m.appID,
		"app_secret": m.appSecret,
	}
	req.SkipAuth = true

	if _, err := m.client.Request(ctx, req, nil); err != nil {
		return fmt.Errorf("could not resend app ticket: %w", err)
	}

	return nil
}
