// Package larkim provides a messenger.Client implementation backed by the
// im/v1 messages endpoints.
package larkim

import (
	"context"
	"fmt"

	"openlark/pkg/lark"
	"openlark/pkg/messenger"
	"openlark/pkg/service/im"
)

// Client sends messages as the app's bot using tenant access tokens. It is
// safe for concurrent use.
type Client struct {
	im *im.Service
}

// Ensure Client conforms to the messenger.Client interface at compile time.
var _ messenger.Client = (*Client)(nil)

func New(c *lark.Client) *Client {
	return &Client{im: im.New(c)}
}

// Send creates the message. A rejected message still reports the rate limit
// read from the response headers.
func (c *Client) Send(ctx context.Context, msg messenger.Message) (messenger.SendRes, lark.RateLimit, error) {
	req := im.NewCreateMessageReqBuilder().
		ReceiveIDType(msg.ReceiveIDType).
		ReceiveID(msg.ReceiveID).
		MsgType(msg.MsgType).
		Content(msg.Content).
		UUID(msg.UUID).
		Build()

	resp, err := c.im.Message.Create(ctx, req)
	var rl lark.RateLimit
	if resp != nil {
		rl = resp.RateLimit
	}
	if err != nil {
		return messenger.SendRes{}, rl, fmt.Errorf("could not send message: %w", err)
	}

	return messenger.SendRes{MessageID: resp.Data.MessageID}, rl, nil
}

// Recall deletes a message previously sent by the bot.
func (c *Client) Recall(ctx context.Context, messageID string) (lark.RateLimit, error) {
	raw, err := c.im.Message.Delete(ctx, messageID)
	var rl lark.RateLimit
	if raw != nil {
		rl = raw.RateLimit
	}
	if err != nil {
		return rl, fmt.Errorf("could not recall message: %w", err)
	}

	return rl, nil
}
