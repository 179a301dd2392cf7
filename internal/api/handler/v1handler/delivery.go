package v1handler

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"openlark/internal/api/specs/v1specs"
	"openlark/pkg/domain"
	"openlark/pkg/logger"
)

const DefaultLimit = 20

func DomainDeliveryToV1Specs(in *domain.Delivery) *v1specs.Delivery {
	out := &v1specs.Delivery{
		ID:            uuid.UUID(in.ID),
		ReceiveIDType: in.ReceiveIDType,
		ReceiveID:     in.ReceiveID,
		MsgType:       in.MsgType,
		Content:       in.Content,
		Status:        v1specs.DeliveryStatus(in.Status),
		Attempts:      int(in.Attempts), //nolint: gosec
		CreatedAt:     in.CreatedAt,
	}
	if in.MessageID != "" {
		out.MessageID = v1specs.NewOptString(in.MessageID)
	}
	if in.LastError != "" {
		out.LastError = v1specs.NewOptString(in.LastError)
	}
	if !in.UpdatedAt.IsZero() {
		out.UpdatedAt.SetTo(in.UpdatedAt)
	}

	return out
}

// CreateDelivery enqueues a message for asynchronous sending.
func (h Handler) CreateDelivery(ctx context.Context, req *v1specs.CreateDeliveryRequest) (*v1specs.Delivery, error) {
	d, err := h.deps.Notifier.Enqueue(ctx, domain.Delivery{
		ReceiveIDType: req.ReceiveIDType.Value,
		ReceiveID:     req.ReceiveID,
		MsgType:       req.MsgType,
		Content:       req.Content,
	})
	if err != nil {
		return nil, err //nolint: wrapcheck
	}
	logger.Info(ctx, "delivery enqueued", zap.Stringer("delivery_id", d.ID), zap.String("subject", SubjectFromContext(ctx)))

	return DomainDeliveryToV1Specs(d), nil
}

// ListDeliveries returns a page of deliveries, newest first.
func (h Handler) ListDeliveries(ctx context.Context, params v1specs.ListDeliveriesParams) (*v1specs.DeliveryList, error) {
	deliveries, nextCursor, err := h.deps.Notifier.Deliveries(ctx,
		domain.DeliveryStatus(params.Status.Value),
		params.Cursor.Value,
		uint(params.Limit.Or(DefaultLimit))) //nolint: gosec
	if err != nil {
		return nil, err //nolint: wrapcheck
	}

	items := make([]v1specs.Delivery, 0, len(deliveries))
	for i := range deliveries {
		items = append(items, *DomainDeliveryToV1Specs(&deliveries[i]))
	}

	var cursorOpt v1specs.OptNilString
	if nextCursor != "" {
		cursorOpt = v1specs.NewOptNilString(nextCursor)
	}

	return &v1specs.DeliveryList{
		Items:      items,
		NextCursor: cursorOpt,
	}, nil
}

// GetDelivery returns a delivery by ID.
func (h Handler) GetDelivery(ctx context.Context, params v1specs.GetDeliveryParams) (*v1specs.Delivery, error) {
	d, err := h.deps.Notifier.Delivery(ctx, domain.DeliveryID(params.ID))
	if err != nil {
		return nil, err //nolint: wrapcheck
	}

	return DomainDeliveryToV1Specs(d), nil
}

// CancelDelivery stops a pending delivery from being sent.
func (h Handler) CancelDelivery(ctx context.Context, params v1specs.CancelDeliveryParams) (*v1specs.Delivery, error) {
	d, err := h.deps.Notifier.Cancel(ctx, domain.DeliveryID(params.ID))
	if err != nil {
		return nil, err //nolint: wrapcheck
	}
	logger.Info(ctx, "delivery canceled", zap.Stringer("delivery_id", d.ID), zap.String("subject", SubjectFromContext(ctx)))

	return DomainDeliveryToV1Specs(d), nil
}

// DeleteDelivery removes a delivery. A pending delivery is never sent afterwards.
func (h Handler) DeleteDelivery(ctx context.Context, params v1specs.DeleteDeliveryParams) error {
	if err := h.deps.Notifier.Delete(ctx, domain.DeliveryID(params.ID)); err != nil {
		return err //nolint: wrapcheck
	}
	logger.Info(ctx, "delivery deleted", zap.String("delivery_id", params.ID.String()), zap.String("subject", SubjectFromContext(ctx)))

	return nil
}
