package postgres

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"openlark/pkg/domain"
)

type PgDelivery struct {
	ID uuid.UUID `db:"id"`

	ReceiveIDType string `db:"receive_id_type"`
	ReceiveID     string `db:"receive_id"`
	MsgType       string `db:"msg_type"`
	Content       string `db:"content"`

	MessageID sql.NullString `db:"message_id" goqu:"skipinsert"`
	Status    string         `db:"status"`

	Attempts  uint           `db:"attempts"   goqu:"skipinsert"`
	LastError sql.NullString `db:"last_error" goqu:"skipinsert"`

	CreatedAt time.Time    `db:"created_at" goqu:"skipinsert"`
	UpdatedAt sql.NullTime `db:"updated_at" goqu:"skipinsert"`
	DeletedAt sql.NullTime `db:"deleted_at" goqu:"skipinsert"`
}

func (p *PgDelivery) ToDomain() *domain.Delivery {
	return &domain.Delivery{
		ID:            domain.DeliveryID(p.ID),
		ReceiveIDType: p.ReceiveIDType,
		ReceiveID:     p.ReceiveID,
		MsgType:       p.MsgType,
		Content:       p.Content,
		MessageID:     p.MessageID.String,
		Status:        domain.DeliveryStatus(p.Status),
		Attempts:      p.Attempts,
		LastError:     p.LastError.String,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt.Time,
		DeletedAt:     p.DeletedAt.Time,
	}
}

// FromDomain fills p from d. A zero id is replaced with a new random one and
// an empty status with Pending.
func (p *PgDelivery) FromDomain(d domain.Delivery) {
	id := uuid.UUID(d.ID)
	if id == uuid.Nil {
		id = uuid.New()
	}
	status := d.Status
	if status == "" {
		status = domain.DeliveryStatusPending
	}

	*p = PgDelivery{
		ID:            id,
		ReceiveIDType: d.ReceiveIDType,
		ReceiveID:     d.ReceiveID,
		MsgType:       d.MsgType,
		Content:       d.Content,
		MessageID: sql.NullString{
			String: d.MessageID,
			Valid:  d.MessageID != "",
		},
		Status:   string(status),
		Attempts: d.Attempts,
		LastError: sql.NullString{
			String: d.LastError,
			Valid:  d.LastError != "",
		},
		CreatedAt: d.CreatedAt,
		UpdatedAt: sql.NullTime{
			Time:  d.UpdatedAt,
			Valid: !d.UpdatedAt.IsZero(),
		},
		DeletedAt: sql.NullTime{
			Time:  d.DeletedAt,
			Valid: !d.DeletedAt.IsZero(),
		},
	}
}

func domainDeliveriesToPg(deliveries []domain.Delivery) []PgDelivery {
	out := make([]PgDelivery, len(deliveries))
	for i := range out {
		out[i].FromDomain(deliveries[i])
	}

	return out
}

func pgDeliveriesToDomain(deliveries []PgDelivery) []domain.Delivery {
	out := make([]domain.Delivery, 0, len(deliveries))
	for _, d := range deliveries {
		out = append(out, *d.ToDomain())
	}

	return out
}

type PgToken struct {
	Key       string    `db:"key"`
	Value     string    `db:"value"`
	ExpiresAt time.Time `db:"expires_at"`
	UpdatedAt time.Time `db:"updated_at" goqu:"skipinsert"`
}
