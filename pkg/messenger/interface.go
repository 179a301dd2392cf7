// Package messenger defines the narrow view of the messaging API used by the
// outbox worker, so deliveries can be tested without the Open Platform.
package messenger

import (
	"context"

	"openlark/pkg/lark"
)

// Message is a message addressed to a user or a chat.
type Message struct {
	ReceiveIDType string
	ReceiveID     string
	MsgType       string
	// Content is the JSON encoded message content.
	Content string
	// UUID deduplicates sends of the same message for one hour.
	UUID string
}

// SendRes represents the response of a successful send.
type SendRes struct {
	MessageID string
}

// Client sends and recalls messages. Both calls return the rate limit the
// gateway reported for the endpoint, also when the call failed.
//
//go:generate mockgen -package mockmessenger -source=interface.go -destination=mock/mockmessenger.go *
type Client interface {
	Send(ctx context.Context, msg Message) (SendRes, lark.RateLimit, error)
	Recall(ctx context.Context, messageID string) (lark.RateLimit, error)
}
