package event

import (
	"encoding/json"
	"net/http"

	"openlark/pkg/serrors"
)

// Event types with typed registrations.
const (
	EventTypeP2MessageReceiveV1         = "im.message.receive_v1"
	EventTypeP2MessageReactionCreatedV1 = "im.message.reaction.created_v1"
	EventTypeAppTicket                  = "app_ticket"

	typeURLVerification = "url_verification"
	schemaV2            = "2.0"
)

// EventHeader is the header of schema 2.0 events.
type EventHeader struct {
	EventID    string `json:"event_id"`
	EventType  string `json:"event_type"`
	CreateTime string `json:"create_time"`
	Token      string `json:"token"`
	AppID      string `json:"app_id"`
	TenantKey  string `json:"tenant_key"`
}

type EventV2Base struct {
	Schema string       `json:"schema"`
	Header *EventHeader `json:"header"`
}

type UserID struct {
	UnionID string `json:"union_id,omitempty"`
	UserID  string `json:"user_id,omitempty"`
	OpenID  string `json:"open_id,omitempty"`
}

type EventSender struct {
	SenderID   *UserID `json:"sender_id,omitempty"`
	SenderType string  `json:"sender_type,omitempty"`
	TenantKey  string  `json:"tenant_key,omitempty"`
}

type MentionEvent struct {
	Key       string  `json:"key,omitempty"`
	ID        *UserID `json:"id,omitempty"`
	Name      string  `json:"name,omitempty"`
	TenantKey string  `json:"tenant_key,omitempty"`
}

type EventMessage struct {
	MessageID   string          `json:"message_id"`
	RootID      string          `json:"root_id,omitempty"`
	ParentID    string          `json:"parent_id,omitempty"`
	CreateTime  string          `json:"create_time,omitempty"`
	UpdateTime  string          `json:"update_time,omitempty"`
	ChatID      string          `json:"chat_id,omitempty"`
	ThreadID    string          `json:"thread_id,omitempty"`
	ChatType    string          `json:"chat_type,omitempty"`
	MessageType string          `json:"message_type,omitempty"`
	Content     string          `json:"content,omitempty"`
	Mentions    []*MentionEvent `json:"mentions,omitempty"`
}

// Text returns the text of a text message.
func (m *EventMessage) Text() (string, error) {
	if m.MessageType != "text" {
		return "", serrors.With(serrors.ErrBadRequest, "message %s is %s, not text", m.MessageID, m.MessageType)
	}

	var c struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(m.Content), &c); err != nil {
		return "", serrors.Wrap(serrors.ErrBadRequest, err, "could not decode text content")
	}

	return c.Text, nil
}

type P2MessageReceiveV1Data struct {
	Sender  *EventSender  `json:"sender"`
	Message *EventMessage `json:"message"`
}

// P2MessageReceiveV1 is delivered when the bot receives a message.
type P2MessageReceiveV1 struct {
	EventV2Base
	Event *P2MessageReceiveV1Data `json:"event"`
}

type Emoji struct {
	EmojiType string `json:"emoji_type"`
}

type P2MessageReactionCreatedV1Data struct {
	MessageID    string  `json:"message_id"`
	ReactionType *Emoji  `json:"reaction_type"`
	OperatorType string  `json:"operator_type"`
	UserID       *UserID `json:"user_id,omitempty"`
	AppID        string  `json:"app_id,omitempty"`
	ActionTime   string  `json:"action_time"`
}

// P2MessageReactionCreatedV1 is delivered when a reaction is added to a
// message the bot can see.
type P2MessageReactionCreatedV1 struct {
	EventV2Base
	Event *P2MessageReactionCreatedV1Data `json:"event"`
}

type AppTicketEventData struct {
	AppID     string `json:"app_id"`
	AppTicket string `json:"app_ticket"`
	Type      string `json:"type"`
}

// AppTicketEvent is pushed to marketplace apps every hour, and on demand
// after a resend request. It still uses the v1 event schema.
type AppTicketEvent struct {
	UUID  string              `json:"uuid"`
	Token string              `json:"token"`
	TS    string              `json:"ts"`
	Type  string              `json:"type"`
	Event *AppTicketEventData `json:"event"`
}

// CustomizedEvent carries any event type without a typed registration. Raw
// holds the decrypted body.
type CustomizedEvent struct {
	EventV2Base
	EventType string          `json:"-"`
	Event     map[string]any  `json:"event"`
	Raw       json.RawMessage `json:"-"`
}

// EventResp is what the callback endpoint answers.
type EventResp struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}
