// Package notifier implements the message outbox: deliveries are stored
// together with a River job in one transaction and sent by the worker later.
package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"openlark/internal/config"
	"openlark/pkg/domain"
	"openlark/pkg/lark"
	"openlark/pkg/logger"
	"openlark/pkg/messenger"
	"openlark/pkg/serrors"
	"openlark/pkg/storage"
)

// Options configure how deliveries are enqueued and retried.
type Options struct {
	// MaxAttempts is the number of failed sends after which a delivery is
	// marked failed. It is also the max attempts of its River job.
	MaxAttempts int
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		MaxAttempts: cfg.Notifier.MaxAttempts,
	}
}

type notifier struct {
	options   Options
	storage   storage.Storage
	messenger messenger.Client
}

// Enqueue validates and stores a pending delivery and adds its job in the
// same transaction.
func (n notifier) Enqueue(ctx context.Context, delivery domain.Delivery) (*domain.Delivery, error) {
	idType, id, err := NormalizeReceiver(delivery.ReceiveIDType, delivery.ReceiveID)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "invalid receiver")
	}
	if err := lark.NewValidator().
		Required("msg_type", delivery.MsgType).
		Required("content", delivery.Content).
		Check(delivery.Content == "" || json.Valid([]byte(delivery.Content)), "content", "must be valid JSON").
		Err(); err != nil {
		return nil, err
	}

	var stored *domain.Delivery
	if err := n.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		res, err := tx.StoreDeliveries(ctx, domain.Delivery{
			ID:            delivery.ID,
			ReceiveIDType: idType,
			ReceiveID:     id,
			MsgType:       delivery.MsgType,
			Content:       delivery.Content,
			Status:        domain.DeliveryStatusPending,
		})
		if err != nil {
			return fmt.Errorf("could not store delivery: %w", err)
		}
		stored = &res[0]

		if _, err := tx.AddJob(ctx, NewDeliveryJobArgs(stored.ID, n.options.MaxAttempts), nil); err != nil {
			return fmt.Errorf("could not add job: %w", err)
		}

		return nil
	}); err != nil {
		return nil, fmt.Errorf("could not enqueue delivery: %w", err)
	}

	return stored, nil
}

// Deliver sends a pending delivery and records the outcome. The delivery id
// is sent as the message uuid, so a retry after a lost response does not
// produce a second message. The returned rate limit is the one observed on
// the send, zero when nothing was sent.
func (n notifier) Deliver(ctx context.Context, id domain.DeliveryID) (*domain.Delivery, lark.RateLimit, error) {
	delivery, err := n.Delivery(ctx, id)
	if err != nil {
		return nil, lark.RateLimit{}, err
	}
	if delivery.Status != domain.DeliveryStatusPending {
		return delivery, lark.RateLimit{}, serrors.With(serrors.ErrConflict, "delivery is %s", delivery.Status)
	}

	ctx = logger.WithFields(ctx, zap.Stringer("delivery_id", id))
	res, rl, sendErr := n.messenger.Send(ctx, messenger.Message{
		ReceiveIDType: delivery.ReceiveIDType,
		ReceiveID:     delivery.ReceiveID,
		MsgType:       delivery.MsgType,
		Content:       delivery.Content,
		UUID:          id.String(),
	})
	if sendErr == nil {
		empty := ""
		updated, err := n.storage.UpdateDeliveryByID(ctx, id, storage.DeliveryUpdates{
			Status:    domain.DeliveryStatusCompleted,
			MessageID: &res.MessageID,
			LastError: &empty,
		})
		if err != nil {
			return nil, rl, fmt.Errorf("could not store delivered message: %w", err)
		}
		if updated == nil {
			// canceled or deleted while the message was in flight
			logger.Warn(ctx, "delivery changed while sending", zap.String("message_id", res.MessageID))
			delivery.MessageID = res.MessageID

			return delivery, rl, nil
		}

		return updated, rl, nil
	}

	msg := sendErr.Error()
	updates := failureUpdates(sendErr, n.options.MaxAttempts)
	updates.LastError = &msg
	updated, err := n.storage.UpdateDeliveryByID(ctx, id, updates)
	if err != nil {
		return nil, rl, errors.Join(sendErr, fmt.Errorf("could not store delivery error: %w", err))
	}
	if updated != nil {
		delivery = updated
	}

	return delivery, rl, fmt.Errorf("could not deliver message: %w", sendErr)
}

// failureUpdates decides what a failed send does to the delivery. Rate
// limited sends are not counted as attempts; requests the platform will never
// accept fail the delivery at once.
func failureUpdates(err error, maxAttempts int) storage.DeliveryUpdates {
	switch {
	case errors.Is(err, serrors.ErrRateLimited):
		return storage.DeliveryUpdates{}
	case Permanent(err):
		return storage.DeliveryUpdates{Status: domain.DeliveryStatusFailed, Attempted: true}
	default:
		return storage.DeliveryUpdates{
			Status:      domain.DeliveryStatusFailed,
			Attempted:   true,
			MaxAttempts: maxAttempts,
		}
	}
}

// Permanent reports whether sending the same message again cannot succeed.
func Permanent(err error) bool {
	return errors.Is(err, serrors.ErrValidation) ||
		errors.Is(err, serrors.ErrBadRequest) ||
		errors.Is(err, serrors.ErrForbidden) ||
		errors.Is(err, serrors.ErrNotFound)
}

// Deliveries returns a page of deliveries filtered by status. It supports
// cursor-based pagination using an RFC3339 timestamp string and returns the
// next cursor when more results are available.
func (n notifier) Deliveries(ctx context.Context,
	status domain.DeliveryStatus,
	cursor string,
	limit uint) ([]domain.Delivery, string, error) {
	var cursorTime time.Time
	if cursor != "" {
		t, err := time.Parse(time.RFC3339Nano, cursor)
		if err != nil {
			return nil, "", serrors.Wrap(serrors.ErrBadRequest, err, "invalid cursor")
		}
		cursorTime = t
	}

	page, err := n.storage.Deliveries(ctx, status, cursorTime, limit)
	if err != nil {
		return nil, "", fmt.Errorf("could not get deliveries: %w", err)
	}

	var next string
	if page.NextCursor != nil {
		next = page.NextCursor.Format(time.RFC3339Nano)
	}

	return page.Deliveries, next, nil
}

// Delivery fetches a single delivery by ID. It returns a not-found error when
// no matching delivery exists.
func (n notifier) Delivery(ctx context.Context, id domain.DeliveryID) (*domain.Delivery, error) {
	res, err := n.storage.DeliveryByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not get delivery: %w", err)
	}
	if res == nil {
		return nil, serrors.With(serrors.ErrNotFound, "delivery not found")
	}

	return res, nil
}

// Cancel stops a pending delivery from being sent. Its job is left in the
// queue and finishes without sending once it sees the delivery is canceled.
func (n notifier) Cancel(ctx context.Context, id domain.DeliveryID) (*domain.Delivery, error) {
	updated, err := n.storage.UpdateDeliveryByID(ctx, id, storage.DeliveryUpdates{
		Status: domain.DeliveryStatusCanceled,
	})
	if err != nil {
		return nil, fmt.Errorf("could not cancel delivery: %w", err)
	}
	if updated != nil {
		return updated, nil
	}

	delivery, err := n.Delivery(ctx, id)
	if err != nil {
		return nil, err
	}

	return nil, serrors.With(serrors.ErrConflict, "delivery is %s", delivery.Status)
}

// Delete soft-deletes a delivery. A pending delivery that is deleted is never
// sent.
func (n notifier) Delete(ctx context.Context, id domain.DeliveryID) error {
	res, err := n.storage.DeleteDelivery(ctx, id)
	if err != nil {
		return fmt.Errorf("could not delete delivery: %w", err)
	}
	if res == nil {
		return serrors.With(serrors.ErrNotFound, "delivery not found")
	}

	return nil
}

// New creates a new Notifier backed by the provided storage and messenger.
func New(storage storage.Storage, messenger messenger.Client, options Options) Notifier {
	return &notifier{
		options:   options,
		storage:   storage,
		messenger: messenger,
	}
}
