package lark_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"openlark/pkg/lark"
	"openlark/pkg/serrors"
)

func TestReadEnvironment(t *testing.T) {
	t.Setenv(lark.EnvAppID, "cli_env")
	t.Setenv(lark.EnvAppSecret, "env-secret")
	t.Setenv(lark.EnvBaseURL, lark.LarkBaseURL+"/")
	t.Setenv(lark.EnvMaxRetries, "5")
	t.Setenv(lark.EnvClientTimeout, "90")
	t.Setenv(lark.EnvRateLimit, "10:3")

	cfg := lark.DefaultConfig()
	require.NoError(t, cfg.Error)
	require.Equal(t, "cli_env", cfg.AppID)
	require.Equal(t, "env-secret", cfg.AppSecret)
	require.Equal(t, lark.LarkBaseURL, cfg.BaseURL)
	require.Equal(t, 5, cfg.MaxRetries)
	require.Equal(t, 90*time.Second, cfg.Timeout)
	require.NotNil(t, cfg.Limiter)
	require.InDelta(t, 10, float64(cfg.Limiter.Limit()), 0.001)
	require.Equal(t, 3, cfg.Limiter.Burst())
}

func TestReadEnvironment_Invalid(t *testing.T) {
	t.Setenv(lark.EnvAppID, "cli_env")
	t.Setenv(lark.EnvMaxRetries, "lots")

	cfg := &lark.Config{AppID: "original"}
	require.Error(t, cfg.ReadEnvironment())
	require.Equal(t, "original", cfg.AppID, "no value is applied on error")

	t.Setenv(lark.EnvMaxRetries, "")
	t.Setenv(lark.EnvRateLimit, "fast")
	require.Error(t, cfg.ReadEnvironment())

	t.Setenv(lark.EnvRateLimit, "2.5")
	require.NoError(t, cfg.ReadEnvironment())
	require.Equal(t, 2, cfg.Limiter.Burst())
	require.Equal(t, "cli_env", cfg.AppID)

	_, err := lark.NewClient(&lark.Config{Error: errors.New("broken env")})
	require.ErrorContains(t, err, "broken env")
}

func TestParseRateLimit(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	h := http.Header{}
	h.Set("x-ogw-ratelimit-limit", "100")
	h.Set("x-ogw-ratelimit-reset", "30")
	h.Set("x-ogw-ratelimit-remaining", "7")

	rl := lark.ParseRateLimit(h, http.StatusOK, now)
	require.Equal(t, 100, rl.Limit)
	require.Equal(t, 7, rl.Remaining)
	require.True(t, rl.ResetAt.Equal(now.Add(30*time.Second)))

	h.Del("x-ogw-ratelimit-remaining")
	require.Equal(t, 100, lark.ParseRateLimit(h, http.StatusOK, now).Remaining)
	require.Equal(t, 0, lark.ParseRateLimit(h, http.StatusTooManyRequests, now).Remaining)

	require.True(t, lark.ParseRateLimit(http.Header{}, http.StatusOK, now).IsZero())
}

func TestKindForCode(t *testing.T) {
	cases := []struct {
		code, status int
		want         serrors.Kind
	}{
		{lark.CodeAccessTokenMissing, 400, serrors.ErrUnauthorized},
		{lark.CodeTenantAccessTokenInvalid, 400, serrors.ErrUnauthorized},
		{lark.CodeAppAccessTokenInvalid, 400, serrors.ErrUnauthorized},
		{lark.CodeAccessTokenInvalid, 400, serrors.ErrUnauthorized},
		{lark.CodeUserAccessTokenInvalid, 401, serrors.ErrUnauthorized},
		{lark.CodeUserAccessTokenExpired, 401, serrors.ErrUnauthorized},
		{lark.CodeNoPermission, 400, serrors.ErrForbidden},
		{lark.CodeUserNoPermission, 400, serrors.ErrForbidden},
		{lark.CodeAppNotAuthorized, 400, serrors.ErrForbidden},
		{lark.CodeFrequencyLimited, 400, serrors.ErrRateLimited},
		{1, 401, serrors.ErrUnauthorized},
		{1, 403, serrors.ErrForbidden},
		{1, 409, serrors.ErrConflict},
		{1, 429, serrors.ErrRateLimited},
		{1, 503, serrors.ErrUnavailable},
		{1, 200, serrors.ErrInternal},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, lark.KindForCode(tc.code, tc.status), "code %d status %d", tc.code, tc.status)
	}

	require.True(t, lark.IsTokenInvalid(lark.CodeTenantAccessTokenInvalid))
	require.True(t, lark.IsTokenInvalid(lark.CodeAppAccessTokenInvalid))
	require.False(t, lark.IsTokenInvalid(lark.CodeUserAccessTokenInvalid))
}

func TestValidator(t *testing.T) {
	require.NoError(t, lark.NewValidator().Required("a", "x").MaxItems("b", 2, 2).OneOf("c", "", "y").Err())

	err := lark.NewValidator().
		Required("receive_id", " ").
		MaxItems("emails", 51, 50).
		OneOf("msg_type", "video", "text", "post").
		Check(false, "uuid", "must be at most 50 characters").
		Err()
	require.ErrorIs(t, err, serrors.ErrValidation)
	require.Equal(t, "invalid request: receive_id is required; "+
		"emails has 51 items, at most 50 allowed; "+
		`msg_type must be one of text, post, got "video"; `+
		"uuid must be at most 50 characters", err.Error())
}

func TestClampPageSize(t *testing.T) {
	require.Equal(t, 20, lark.ClampPageSize(0, 20, 50))
	require.Equal(t, 20, lark.ClampPageSize(-3, 20, 50))
	require.Equal(t, 50, lark.ClampPageSize(500, 20, 50))
	require.Equal(t, 7, lark.ClampPageSize(7, 20, 50))
}

func TestIterator(t *testing.T) {
	pages := map[string]*lark.PageResult[int]{
		"":   {Items: []int{1, 2}, PageToken: "p2", HasMore: true},
		"p2": {Items: []int{}, PageToken: "p3", HasMore: true},
		"p3": {Items: []int{3}, HasMore: false},
	}
	var seen []string
	it := lark.NewIterator(func(_ context.Context, token string) (*lark.PageResult[int], error) {
		seen = append(seen, token)

		return pages[token], nil
	})

	all, err := it.Collect(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, all)
	require.Equal(t, []string{"", "p2", "p3"}, seen)
	require.Empty(t, it.PageToken())

	_, ok, err := it.Next(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestIteratorFrom_StartsAtToken(t *testing.T) {
	var seen []string
	fail := true
	it := lark.NewIteratorFrom("p2", func(_ context.Context, token string) (*lark.PageResult[int], error) {
		seen = append(seen, token)
		if fail {
			fail = false

			return nil, serrors.With(serrors.ErrUnavailable, "down")
		}

		return &lark.PageResult[int]{Items: []int{7}}, nil
	})
	require.Equal(t, "p2", it.PageToken())

	_, err := it.Collect(context.Background(), 0)
	require.ErrorIs(t, err, serrors.ErrUnavailable)

	all, err := it.Collect(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, []int{7}, all)
	require.Equal(t, []string{"p2", "p2"}, seen)
}

func TestIterator_StopsWithoutToken(t *testing.T) {
	calls := 0
	it := lark.NewIterator(func(_ context.Context, token string) (*lark.PageResult[string], error) {
		calls++

		return &lark.PageResult[string]{Items: []string{"a"}, HasMore: true}, nil
	})

	all, err := it.Collect(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, all)
	require.Equal(t, 1, calls)
}

func TestIterator_LimitAndError(t *testing.T) {
	it := lark.NewIterator(func(_ context.Context, token string) (*lark.PageResult[int], error) {
		if token == "" {
			return &lark.PageResult[int]{Items: []int{1, 2, 3}, PageToken: "next", HasMore: true}, nil
		}

		return nil, serrors.With(serrors.ErrUnavailable, "down")
	})

	first, err := it.Collect(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, first)
	require.Equal(t, "next", it.PageToken())

	rest, err := it.Collect(context.Background(), 0)
	require.ErrorIs(t, err, serrors.ErrUnavailable)
	require.Equal(t, []int{3}, rest)
}

func TestRetryLinear(t *testing.T) {
	calls := 0
	err := lark.RetryLinear(context.Background(), 3, time.Millisecond, func(context.Context) error {
		calls++
		if calls < 3 {
			return serrors.With(serrors.ErrRateLimited, "slow down")
		}

		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)

	calls = 0
	err = lark.RetryLinear(context.Background(), 3, time.Millisecond, func(context.Context) error {
		calls++

		return serrors.With(serrors.ErrBadRequest, "bad")
	})
	require.ErrorIs(t, err, serrors.ErrBadRequest)
	require.Equal(t, 1, calls)

	calls = 0
	err = lark.RetryLinear(context.Background(), 2, time.Millisecond, func(context.Context) error {
		calls++

		return serrors.With(serrors.ErrUnavailable, "attempt %d", calls)
	})
	require.ErrorContains(t, err, "attempt 2")
	require.Equal(t, 2, calls)
}

func TestRetryLinear_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	err := lark.RetryLinear(ctx, 5, time.Hour, func(context.Context) error {
		cancel()

		return serrors.With(serrors.ErrTimeout, "slow")
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := lark.NewMemoryCache()

	v, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	require.Empty(t, v)

	require.NoError(t, c.Set(ctx, "k", "v", time.Hour))
	v, _ = c.Get(ctx, "k")
	require.Equal(t, "v", v)

	require.NoError(t, c.Set(ctx, "short", "v", time.Millisecond))
	time.Sleep(5 * time.Millisecond)
	v, _ = c.Get(ctx, "short")
	require.Empty(t, v)

	require.NoError(t, c.Set(ctx, "forever", "v", 0))
	require.NoError(t, c.Delete(ctx, "forever"))
	v, _ = c.Get(ctx, "forever")
	require.Empty(t, v)
}
