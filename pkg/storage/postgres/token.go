package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
)

const (
	tokensTable = "lark_tokens"
)

// Token returns the unexpired value stored under key, or an empty string.
func (p *PgSQL) Token(ctx context.Context, key string) (string, error) {
	var row PgToken
	found, err := p.Builder.From(tokensTable).
		Where(
			goqu.I("key").Eq(key),
			goqu.I("expires_at").Gt(goqu.L("CURRENT_TIMESTAMP")),
		).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return "", fmt.Errorf("could not fetch token from pg: %w", err)
	}
	if !found {
		return "", nil
	}

	return row.Value, nil
}

// StoreToken upserts the value stored under key.
func (p *PgSQL) StoreToken(ctx context.Context, key, value string, expiresAt time.Time) error {
	_, err := p.Builder.Insert(tokensTable).
		Rows(PgToken{Key: key, Value: value, ExpiresAt: expiresAt}).
		OnConflict(goqu.DoUpdate("key", goqu.Record{
			"value":      goqu.I("excluded.value"),
			"expires_at": goqu.I("excluded.expires_at"),
			"updated_at": goqu.L("CURRENT_TIMESTAMP"),
		})).
		Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("could not store token into pg: %w", err)
	}

	return nil
}

func (p *PgSQL) DeleteToken(ctx context.Context, key string) error {
	_, err := p.Builder.Delete(tokensTable).
		Where(goqu.I("key").Eq(key)).
		Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("could not delete token from pg: %w", err)
	}

	return nil
}
