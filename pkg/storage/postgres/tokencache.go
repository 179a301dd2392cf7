package postgres

import (
	"context"
	"time"

	"openlark/pkg/lark"
	"openlark/pkg/storage"
)

var _ lark.TokenCache = (*TokenCache)(nil)

// neverExpires is stored for values set without a ttl.
var neverExpires = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC) //nolint: gochecknoglobals

// TokenCache lets every replica of the service share the tokens and the app
// ticket obtained by any of them.
type TokenCache struct {
	storage storage.TokenStorage
	now     func() time.Time
}

func NewTokenCache(s storage.TokenStorage) *TokenCache {
	return &TokenCache{storage: s, now: time.Now}
}

func (c *TokenCache) Get(ctx context.Context, key string) (string, error) {
	return c.storage.Token(ctx, key) //nolint: wrapcheck
}

// Set stores value. A non-positive ttl keeps it until deleted.
func (c *TokenCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	expiresAt := neverExpires
	if ttl > 0 {
		expiresAt = c.now().Add(ttl)
	}

	return c.storage.StoreToken(ctx, key, value, expiresAt) //nolint: wrapcheck
}

func (c *TokenCache) Delete(ctx context.Context, key string) error {
	return c.storage.DeleteToken(ctx, key) //nolint: wrapcheck
}
