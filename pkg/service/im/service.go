// Package im wraps the messaging endpoints (im/v1) of the Open Platform:
// sending, replying to, reading, listing and recalling messages, and
// managing emoji reactions on them.
package im

import (
	"openlark/pkg/lark"
)

// Receiver id types accepted by Message.Create.
const (
	ReceiveIDTypeOpenID  = "open_id"
	ReceiveIDTypeUserID  = "user_id"
	ReceiveIDTypeUnionID = "union_id"
	ReceiveIDTypeEmail   = "email"
	ReceiveIDTypeChatID  = "chat_id"
)

// Message types.
const (
	MsgTypeText        = "text"
	MsgTypePost        = "post"
	MsgTypeImage       = "image"
	MsgTypeFile        = "file"
	MsgTypeAudio       = "audio"
	MsgTypeMedia       = "media"
	MsgTypeSticker     = "sticker"
	MsgTypeInteractive = "interactive"
	MsgTypeShareChat   = "share_chat"
	MsgTypeShareUser   = "share_user"
)

// User id types used in query parameters.
const (
	UserIDTypeOpenID  = "open_id"
	UserIDTypeUserID  = "user_id"
	UserIDTypeUnionID = "union_id"
)

var receiveIDTypes = []string{ //nolint: gochecknoglobals
	ReceiveIDTypeOpenID, ReceiveIDTypeUserID, ReceiveIDTypeUnionID, ReceiveIDTypeEmail, ReceiveIDTypeChatID,
}

var msgTypes = []string{ //nolint: gochecknoglobals
	MsgTypeText, MsgTypePost, MsgTypeImage, MsgTypeFile, MsgTypeAudio, MsgTypeMedia,
	MsgTypeSticker, MsgTypeInteractive, MsgTypeShareChat, MsgTypeShareUser,
}

var userIDTypes = []string{UserIDTypeOpenID, UserIDTypeUserID, UserIDTypeUnionID} //nolint: gochecknoglobals

// tenant tokens send as the bot, user tokens as the user
var messageTokenTypes = []lark.AccessTokenType{ //nolint: gochecknoglobals
	lark.AccessTokenTypeTenant, lark.AccessTokenTypeUser,
}

// Service groups the im/v1 resources.
type Service struct {
	Message         *MessageService
	MessageReaction *MessageReactionService
}

func New(c *lark.Client) *Service {
	return &Service{
		Message:         &MessageService{client: c},
		MessageReaction: &MessageReactionService{client: c},
	}
}
