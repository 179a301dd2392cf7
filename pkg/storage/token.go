package storage

import (
	"context"
	"time"
)

// TokenStorage keeps access tokens and app tickets shared by every process
// using the same app credentials.
type TokenStorage interface {
	// Token returns the value stored under key, or an empty string when the
	// key is missing or expired.
	Token(ctx context.Context, key string) (string, error)
	// StoreToken inserts or replaces the value stored under key.
	StoreToken(ctx context.Context, key, value string, expiresAt time.Time) error
	// DeleteToken removes key. Deleting a missing key is not an error.
	DeleteToken(ctx context.Context, key string) error
}
