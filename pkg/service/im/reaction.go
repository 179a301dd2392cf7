package im

import (
	"context"
	"net/http"
	"strconv"

	"openlark/pkg/lark"
)

const (
	reactionsPath = "/open-apis/im/v1/messages/:message_id/reactions"
	reactionPath  = "/open-apis/im/v1/messages/:message_id/reactions/:reaction_id"

	listReactionsDefaultPageSize = 20
	listReactionsMaxPageSize     = 50
)

type Emoji struct {
	EmojiType string `json:"emoji_type"`
}

type Operator struct {
	OperatorID   string `json:"operator_id,omitempty"`
	OperatorType string `json:"operator_type,omitempty"`
}

type MessageReaction struct {
	ReactionID   string    `json:"reaction_id,omitempty"`
	Operator     *Operator `json:"operator,omitempty"`
	ActionTime   string    `json:"action_time,omitempty"`
	ReactionType *Emoji    `json:"reaction_type,omitempty"`
}

// MessageReactionService manages emoji reactions on messages.
type MessageReactionService struct {
	client *lark.Client
}

type CreateMessageReactionReq struct {
	MessageID string
	EmojiType string
}

type CreateMessageReactionReqBuilder struct {
	req CreateMessageReactionReq
}

func NewCreateMessageReactionReqBuilder() *CreateMessageReactionReqBuilder {
	return &CreateMessageReactionReqBuilder{}
}

func (b *CreateMessageReactionReqBuilder) MessageID(id string) *CreateMessageReactionReqBuilder {
	b.req.MessageID = id

	return b
}

// EmojiType is the emoji key, e.g. "THUMBSUP" or "SMILE".
func (b *CreateMessageReactionReqBuilder) EmojiType(t string) *CreateMessageReactionReqBuilder {
	b.req.EmojiType = t

	return b
}

func (b *CreateMessageReactionReqBuilder) Build() *CreateMessageReactionReq {
	req := b.req

	return &req
}

func (r *CreateMessageReactionReq) Validate() error {
	return lark.NewValidator().
		Required("message_id", r.MessageID).
		Required("emoji_type", r.EmojiType).
		Err()
}

// Create adds a reaction to a message.
func (s *MessageReactionService) Create(ctx context.Context,
	req *CreateMessageReactionReq,
	opts ...lark.RequestOption) (*lark.Response[MessageReaction], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	apiReq := lark.NewAPIRequest(http.MethodPost, reactionsPath, messageTokenTypes...)
	apiReq.PathParams.Set("message_id", req.MessageID)
	apiReq.Body = struct {
		ReactionType Emoji `json:"reaction_type"`
	}{ReactionType: Emoji{EmojiType: req.EmojiType}}

	return lark.Do[MessageReaction](ctx, s.client, apiReq, opts...)
}

type ListMessageReactionReq struct {
	MessageID string
	// ReactionType filters by emoji key; empty lists every reaction.
	ReactionType string
	PageSize     int
	PageToken    string
	UserIDType   string
}

type ListMessageReactionReqBuilder struct {
	req ListMessageReactionReq
}

func NewListMessageReactionReqBuilder() *ListMessageReactionReqBuilder {
	return &ListMessageReactionReqBuilder{}
}

func (b *ListMessageReactionReqBuilder) MessageID(id string) *ListMessageReactionReqBuilder {
	b.req.MessageID = id

	return b
}

func (b *ListMessageReactionReqBuilder) ReactionType(t string) *ListMessageReactionReqBuilder {
	b.req.ReactionType = t

	return b
}

func (b *ListMessageReactionReqBuilder) PageSize(size int) *ListMessageReactionReqBuilder {
	b.req.PageSize = size

	return b
}

func (b *ListMessageReactionReqBuilder) PageToken(token string) *ListMessageReactionReqBuilder {
	b.req.PageToken = token

	return b
}

func (b *ListMessageReactionReqBuilder) UserIDType(t string) *ListMessageReactionReqBuilder {
	b.req.UserIDType = t

	return b
}

func (b *ListMessageReactionReqBuilder) Build() *ListMessageReactionReq {
	req := b.req
	req.PageSize = lark.ClampPageSize(req.PageSize, listReactionsDefaultPageSize, listReactionsMaxPageSize)

	return &req
}

func (r *ListMessageReactionReq) Validate() error {
	return lark.NewValidator().
		Required("message_id", r.MessageID).
		OneOf("user_id_type", r.UserIDType, userIDTypes...).
		Err()
}

// List returns one page of reactions on a message.
func (s *MessageReactionService) List(ctx context.Context,
	req *ListMessageReactionReq,
	opts ...lark.RequestOption) (*lark.Response[lark.PageResult[MessageReaction]], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	apiReq := lark.NewAPIRequest(http.MethodGet, reactionsPath, messageTokenTypes...)
	apiReq.PathParams.Set("message_id", req.MessageID)
	q := apiReq.QueryParams
	if req.ReactionType != "" {
		q.Set("reaction_type", req.ReactionType)
	}
	q.Set("page_size", strconv.Itoa(lark.ClampPageSize(req.PageSize, listReactionsDefaultPageSize, listReactionsMaxPageSize)))
	if req.PageToken != "" {
		q.Set("page_token", req.PageToken)
	}
	if req.UserIDType != "" {
		q.Set("user_id_type", req.UserIDType)
	}

	return lark.Do[lark.PageResult[MessageReaction]](ctx, s.client, apiReq, opts...)
}

// Delete removes a reaction and returns it.
func (s *MessageReactionService) Delete(ctx context.Context,
	messageID, reactionID string,
	opts ...lark.RequestOption) (*lark.Response[MessageReaction], error) {
	if err := lark.NewValidator().
		Required("message_id", messageID).
		Required("reaction_id", reactionID).
		Err(); err != nil {
		return nil, err
	}

	apiReq := lark.NewAPIRequest(http.MethodDelete, reactionPath, messageTokenTypes...)
	apiReq.PathParams.Set("message_id", messageID)
	apiReq.PathParams.Set("reaction_id", reactionID)

	return lark.Do[MessageReaction](ctx, s.client, apiReq, opts...)
}
