package notifier

import (
	"context"

	"openlark/pkg/domain"
	"openlark/pkg/lark"
)

//go:generate mockgen -package mocknotifier -source=interface.go -destination=mock/mocknotifier.go *
type Notifier interface {
	Enqueue(ctx context.Context, delivery domain.Delivery) (*domain.Delivery, error)
	Deliver(ctx context.Context, id domain.DeliveryID) (*domain.Delivery, lark.RateLimit, error)
	Deliveries(ctx context.Context,
		status domain.DeliveryStatus,
		cursor string,
		limit uint) ([]domain.Delivery, string, error)
	Delivery(ctx context.Context, id domain.DeliveryID) (*domain.Delivery, error)
	Cancel(ctx context.Context, id domain.DeliveryID) (*domain.Delivery, error)
	Delete(ctx context.Context, id domain.DeliveryID) error
}
