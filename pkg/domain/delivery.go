package domain

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryID uniquely identifies a queued message.
// It wraps uuid.UUID to provide type safety at the domain layer.
type DeliveryID uuid.UUID

func (id DeliveryID) String() string {
	return uuid.UUID(id).String()
}

func (id DeliveryID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *DeliveryID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

// ParseDeliveryID parses the textual form of a DeliveryID.
func ParseDeliveryID(s string) (DeliveryID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return DeliveryID{}, err //nolint: wrapcheck
	}

	return DeliveryID(id), nil
}

// DeliveryStatus represents the lifecycle state of a delivery.
type DeliveryStatus string

const (
	// DeliveryStatusPending indicates the message is queued and has not been sent yet.
	DeliveryStatusPending DeliveryStatus = "PENDING"
	// DeliveryStatusCompleted indicates the message was accepted by the platform; MessageID is set.
	DeliveryStatusCompleted DeliveryStatus = "COMPLETED"
	// DeliveryStatusFailed indicates every attempt failed; see LastError and Attempts.
	DeliveryStatusFailed DeliveryStatus = "FAILED"
	// DeliveryStatusCanceled indicates the delivery was canceled before it was sent.
	DeliveryStatusCanceled DeliveryStatus = "CANCELED"
)

// Terminal reports whether no further attempt will be made.
func (s DeliveryStatus) Terminal() bool {
	return s == DeliveryStatusCompleted || s == DeliveryStatusFailed || s == DeliveryStatusCanceled
}

// Delivery is a message queued for sending through the im/v1 messages endpoint.
type Delivery struct {
	// ID is the unique identifier of the delivery. It is also sent as the
	// message uuid so retried sends are deduplicated by the platform.
	ID DeliveryID `json:"id"`

	// ReceiveIDType is one of open_id, union_id, user_id, email or chat_id.
	ReceiveIDType string `json:"receiveIdType"`
	ReceiveID     string `json:"receiveId"`
	// MsgType is the message type, e.g. text or interactive.
	MsgType string `json:"msgType"`
	// Content is the JSON encoded message content.
	Content string `json:"content"`

	// MessageID is the id assigned by the platform once the message was sent.
	MessageID string `json:"messageId,omitempty"`
	// Status is the current lifecycle state of the delivery.
	Status DeliveryStatus `json:"status"`

	// Attempts is the number of failed sends.
	Attempts uint `json:"attempts"`
	// LastError stores the most recent send error, if any.
	LastError string `json:"lastError,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	// DeletedAt marks when the delivery was soft-deleted; zero value means not deleted.
	DeletedAt time.Time `json:"-"`
}
