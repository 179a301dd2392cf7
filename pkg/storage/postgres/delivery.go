package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"openlark/pkg/domain"
	"openlark/pkg/storage"
)

const (
	deliveriesTable = "deliveries"
)

func (p *PgSQL) StoreDeliveries(ctx context.Context, deliveries ...domain.Delivery) ([]domain.Delivery, error) {
	if len(deliveries) == 0 {
		return nil, nil
	}

	var result []PgDelivery
	if err := p.Builder.Insert(deliveriesTable).
		Rows(domainDeliveriesToPg(deliveries)).
		Returning(&PgDelivery{}).
		Executor().ScanStructsContext(ctx, &result); err != nil {
		return nil, fmt.Errorf("could not store deliveries into pg: %w", err)
	}

	return pgDeliveriesToDomain(result), nil
}

// UpdateDeliveryByID updates a pending delivery with the provided fields and
// returns the updated row, or nil when no pending delivery has the given id.
func (p *PgSQL) UpdateDeliveryByID(ctx context.Context,
	id domain.DeliveryID,
	updates storage.DeliveryUpdates) (*domain.Delivery, error) {
	rec := goqu.Record{
		"updated_at": goqu.L("CURRENT_TIMESTAMP"),
	}
	attempts := "attempts"
	if updates.Attempted {
		attempts = "attempts + 1"
		rec["attempts"] = goqu.L(attempts)
	}
	if updates.Status != "" {
		rec["status"] = statusExpression(updates, attempts)
	}
	if updates.MessageID != nil {
		rec["message_id"] = *updates.MessageID
	}
	if updates.LastError != nil {
		if *updates.LastError == "" {
			// set to NULL when empty string provided
			rec["last_error"] = goqu.L("NULL")
		} else {
			rec["last_error"] = *updates.LastError
		}
	}

	var row PgDelivery
	found, err := p.Builder.Update(deliveriesTable).
		Set(rec).Where(
		goqu.I("id").Eq(uuid.UUID(id)),
		goqu.I("status").Eq(string(domain.DeliveryStatusPending)),
		goqu.I("deleted_at").IsNull(),
	).Returning(&PgDelivery{}).Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not update delivery in pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// statusExpression keeps a failing delivery pending until it used up its attempts.
func statusExpression(updates storage.DeliveryUpdates, attempts string) any {
	if updates.Status != domain.DeliveryStatusFailed || updates.MaxAttempts <= 0 {
		return string(updates.Status)
	}

	return goqu.Case().
		When(goqu.L(attempts+" >= ?", updates.MaxAttempts), string(domain.DeliveryStatusFailed)).
		Else(string(domain.DeliveryStatusPending))
}

// DeliveryByID returns a delivery by its ID, excluding soft-deleted rows.
func (p *PgSQL) DeliveryByID(ctx context.Context, id domain.DeliveryID) (*domain.Delivery, error) {
	var row PgDelivery
	found, err := p.Builder.From(deliveriesTable).
		Where(
			goqu.I("id").Eq(uuid.UUID(id)),
			goqu.I("deleted_at").IsNull(),
		).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch delivery by id: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// Deliveries returns deliveries created before the optional cursor, ordered
// by created_at DESC, id DESC.
func (p *PgSQL) Deliveries(ctx context.Context,
	status domain.DeliveryStatus,
	cursor time.Time,
	limit uint) (storage.DeliveryPage, error) {
	w := []goqu.Expression{
		goqu.I("deleted_at").IsNull(),
	}
	if status != "" {
		w = append(w, goqu.I("status").Eq(string(status)))
	}
	if !cursor.IsZero() {
		w = append(w, goqu.I("created_at").Lt(cursor))
	}

	// fetch one extra to determine if there is a next page
	fetch := limit + 1
	ds := p.Builder.From(deliveriesTable).
		Where(w...).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		Limit(fetch)

	var rows []PgDelivery
	if err := ds.Executor().ScanStructsContext(ctx, &rows); err != nil {
		return storage.DeliveryPage{}, fmt.Errorf("could not fetch deliveries from pg: %w", err)
	}

	var nextCursor *time.Time
	if uint(len(rows)) > limit {
		rows = rows[:limit]
		nextCursor = &rows[len(rows)-1].CreatedAt
	}

	return storage.DeliveryPage{
		Deliveries: pgDeliveriesToDomain(rows),
		NextCursor: nextCursor,
	}, nil
}

// DeleteDelivery performs a soft delete by setting the deleted_at timestamp,
// returning the deleted record.
func (p *PgSQL) DeleteDelivery(ctx context.Context, id domain.DeliveryID) (*domain.Delivery, error) {
	var row PgDelivery
	found, err := p.Builder.Update(deliveriesTable).
		Set(goqu.Record{
			"deleted_at": goqu.L("CURRENT_TIMESTAMP"),
		}).Where(
		goqu.I("id").Eq(uuid.UUID(id)),
		goqu.I("deleted_at").IsNull(),
	).Returning(&PgDelivery{}).Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not delete delivery in pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}
