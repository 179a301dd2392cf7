package storage

import (
	"context"
	"time"

	"openlark/pkg/domain"
)

// DeliveryUpdates describes a set of optional fields that can be applied to a
// pending delivery. Zero and nil fields are left unchanged.
type DeliveryUpdates struct {
	// Status is the new status to set for the delivery.
	Status domain.DeliveryStatus
	// MessageID, when provided, stores the id assigned by the platform.
	MessageID *string
	// LastError, when provided, sets the last error text. An empty string value
	// clears it (set to NULL).
	LastError *string
	// Attempted increments the attempts counter.
	Attempted bool
	// MaxAttempts, when provided alongside a Failed status, only sets Failed
	// once the attempts after increment reach this threshold; otherwise the
	// delivery stays Pending. A value <= 0 disables this guard.
	MaxAttempts int
}

// DeliveryPage groups a page of deliveries together with an optional
// NextCursor used for pagination.
type DeliveryPage struct {
	Deliveries []domain.Delivery
	// NextCursor is the created_at of the last delivery on the page. It is nil
	// when there is no next page.
	NextCursor *time.Time
}

// DeliveryStorage persists the message outbox.
type DeliveryStorage interface {
	// StoreDeliveries inserts one or more deliveries and returns the stored rows
	// including generated fields.
	StoreDeliveries(ctx context.Context, deliveries ...domain.Delivery) ([]domain.Delivery, error)
	// UpdateDeliveryByID applies updates to a pending, non-deleted delivery and
	// returns the updated row. It returns nil when no pending delivery matched,
	// so terminal states are never overwritten. updated_at is set automatically.
	UpdateDeliveryByID(ctx context.Context, id domain.DeliveryID, updates DeliveryUpdates) (*domain.Delivery, error)
	// DeliveryByID fetches a delivery excluding soft-deleted records. Returns
	// nil when not found.
	DeliveryByID(ctx context.Context, id domain.DeliveryID) (*domain.Delivery, error)
	// Deliveries returns a page of deliveries created before the optional
	// cursor, newest first. If status is non-empty, results are filtered to
	// records with the given status.
	Deliveries(ctx context.Context,
		status domain.DeliveryStatus,
		cursor time.Time,
		limit uint) (DeliveryPage, error)
	// DeleteDelivery soft-deletes a delivery and returns it, or nil if it was
	// not found.
	DeleteDelivery(ctx context.Context, id domain.DeliveryID) (*domain.Delivery, error)
}
