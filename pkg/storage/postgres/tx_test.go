package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"openlark/internal/notifier"
	"openlark/pkg/serrors"
	"openlark/pkg/storage"
	"openlark/pkg/storage/postgres"
)

func countDeliveries(t *testing.T, db *sql.DB, receiveID string) int {
	t.Helper()
	row := db.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM deliveries WHERE receive_id = $1`, receiveID)
	var c int
	require.NoError(t, row.Scan(&c))

	return c
}

func TestPgSQL_Begin_SuccessAndAlreadyInTx(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	txStorage, err := pg.Begin(ctx)
	require.NoError(t, err)
	require.NotNil(t, txStorage)

	inner, ok := txStorage.(*postgres.PgSQL)
	require.True(t, ok)
	_, isTx := inner.DB.(*sql.Tx)
	require.True(t, isTx)
	require.Nil(t, inner.Pool, "tx handles must not own the pool")

	_, err = inner.Begin(ctx)
	require.ErrorIs(t, err, storage.ErrAlreadyInTx)
	require.ErrorIs(t, err, serrors.ErrInternal)

	require.NoError(t, inner.Rollback())
}

func TestPgSQL_Commit_SuccessAndNotInTx(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	db := pg.DB.(*sql.DB)
	ctx := context.Background()

	require.ErrorIs(t, pg.Commit(), storage.ErrNotInTx)

	txStorage, err := pg.Begin(ctx)
	require.NoError(t, err)

	_, err = txStorage.StoreDeliveries(ctx, newDelivery("ou_commit"))
	require.NoError(t, err)
	require.Equal(t, 0, countDeliveries(t, db, "ou_commit"), "not visible before commit")

	require.NoError(t, txStorage.Commit())
	require.Equal(t, 1, countDeliveries(t, db, "ou_commit"))
}

func TestPgSQL_Rollback_SuccessAndNotInTx(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	db := pg.DB.(*sql.DB)
	ctx := context.Background()

	require.ErrorIs(t, pg.Rollback(), storage.ErrNotInTx)

	txStorage, err := pg.Begin(ctx)
	require.NoError(t, err)

	_, err = txStorage.StoreDeliveries(ctx, newDelivery("ou_rollback"))
	require.NoError(t, err)

	require.NoError(t, txStorage.Rollback())
	require.Equal(t, 0, countDeliveries(t, db, "ou_rollback"))
}

func TestPgSQL_WithTx_DeliveryAndJobTogether(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	db := pg.DB.(*sql.DB)
	ctx := context.Background()

	err := pg.WithTx(ctx, func(s storage.AllStorage) error {
		res, err := s.StoreDeliveries(ctx, newDelivery("ou_ok"))
		if err != nil {
			return err //nolint: wrapcheck
		}
		_, err = s.AddJob(ctx, notifier.NewDeliveryJobArgs(res[0].ID, 3), nil)

		return err //nolint: wrapcheck
	})
	require.NoError(t, err)
	require.Equal(t, 1, countDeliveries(t, db, "ou_ok"))

	boom := errors.New("boom")
	err = pg.WithTx(ctx, func(s storage.AllStorage) error {
		res, err := s.StoreDeliveries(ctx, newDelivery("ou_fail"))
		if err != nil {
			return err //nolint: wrapcheck
		}
		if _, err := s.AddJob(ctx, notifier.NewDeliveryJobArgs(res[0].ID, 3), nil); err != nil {
			return err //nolint: wrapcheck
		}

		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 0, countDeliveries(t, db, "ou_fail"))

	var jobs int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM river_job`).Scan(&jobs))
	require.Equal(t, 1, jobs, "only the committed delivery has a job")
}
