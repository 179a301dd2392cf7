package im

import (
	"context"
	"net/http"
	"strconv"

	"openlark/pkg/lark"
)

const (
	messagesPath     = "/open-apis/im/v1/messages"
	messagePath      = "/open-apis/im/v1/messages/:message_id"
	messageReplyPath = "/open-apis/im/v1/messages/:message_id/reply"

	listMessagesDefaultPageSize = 20
	listMessagesMaxPageSize     = 50
	maxUUIDLength               = 50
)

// Sort orders of Message.List.
const (
	SortByCreateTimeAsc  = "ByCreateTimeAsc"
	SortByCreateTimeDesc = "ByCreateTimeDesc"
)

type Sender struct {
	ID         string `json:"id,omitempty"`
	IDType     string `json:"id_type,omitempty"`
	SenderType string `json:"sender_type,omitempty"`
	TenantKey  string `json:"tenant_key,omitempty"`
}

type MessageBody struct {
	Content string `json:"content,omitempty"`
}

type Mention struct {
	Key       string `json:"key,omitempty"`
	ID        string `json:"id,omitempty"`
	IDType    string `json:"id_type,omitempty"`
	Name      string `json:"name,omitempty"`
	TenantKey string `json:"tenant_key,omitempty"`
}

type Message struct {
	MessageID      string       `json:"message_id,omitempty"`
	RootID         string       `json:"root_id,omitempty"`
	ParentID       string       `json:"parent_id,omitempty"`
	ThreadID       string       `json:"thread_id,omitempty"`
	MsgType        string       `json:"msg_type,omitempty"`
	CreateTime     string       `json:"create_time,omitempty"`
	UpdateTime     string       `json:"update_time,omitempty"`
	Deleted        bool         `json:"deleted,omitempty"`
	Updated        bool         `json:"updated,omitempty"`
	ChatID         string       `json:"chat_id,omitempty"`
	Sender         *Sender      `json:"sender,omitempty"`
	Body           *MessageBody `json:"body,omitempty"`
	Mentions       []Mention    `json:"mentions,omitempty"`
	UpperMessageID string       `json:"upper_message_id,omitempty"`
}

// MessageService sends and reads messages.
type MessageService struct {
	client *lark.Client
}

// CreateMessageReqBody is the JSON body of Message.Create.
type CreateMessageReqBody struct {
	ReceiveID string `json:"receive_id"`
	MsgType   string `json:"msg_type"`
	Content   string `json:"content"`
	// UUID deduplicates sends of the same message for one hour.
	UUID string `json:"uuid,omitempty"`
}

type CreateMessageReq struct {
	ReceiveIDType string
	Body          CreateMessageReqBody
}

type CreateMessageReqBuilder struct {
	req CreateMessageReq
}

func NewCreateMessageReqBuilder() *CreateMessageReqBuilder {
	return &CreateMessageReqBuilder{}
}

func (b *CreateMessageReqBuilder) ReceiveIDType(t string) *CreateMessageReqBuilder {
	b.req.ReceiveIDType = t

	return b
}

func (b *CreateMessageReqBuilder) ReceiveID(id string) *CreateMessageReqBuilder {
	b.req.Body.ReceiveID = id

	return b
}

func (b *CreateMessageReqBuilder) MsgType(t string) *CreateMessageReqBuilder {
	b.req.Body.MsgType = t

	return b
}

func (b *CreateMessageReqBuilder) Content(content string) *CreateMessageReqBuilder {
	b.req.Body.Content = content

	return b
}

func (b *CreateMessageReqBuilder) UUID(uuid string) *CreateMessageReqBuilder {
	b.req.Body.UUID = uuid

	return b
}

func (b *CreateMessageReqBuilder) Build() *CreateMessageReq {
	req := b.req

	return &req
}

func (r *CreateMessageReq) Validate() error {
	return lark.NewValidator().
		Required("receive_id_type", r.ReceiveIDType).
		OneOf("receive_id_type", r.ReceiveIDType, receiveIDTypes...).
		Required("receive_id", r.Body.ReceiveID).
		Required("msg_type", r.Body.MsgType).
		OneOf("msg_type", r.Body.MsgType, msgTypes...).
		Required("content", r.Body.Content).
		Check(len(r.Body.UUID) <= maxUUIDLength, "uuid", "must be at most 50 characters").
		Err()
}

// Create sends a message to a user or a chat.
func (s *MessageService) Create(ctx context.Context,
	req *CreateMessageReq,
	opts ...lark.RequestOption) (*lark.Response[Message], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	apiReq := lark.NewAPIRequest(http.MethodPost, messagesPath, messageTokenTypes...)
	apiReq.QueryParams.Set("receive_id_type", req.ReceiveIDType)
	apiReq.Body = req.Body

	return lark.Do[Message](ctx, s.client, apiReq, opts...)
}

// ReplyMessageReqBody is the JSON body of Message.Reply.
type ReplyMessageReqBody struct {
	MsgType       string `json:"msg_type"`
	Content       string `json:"content"`
	ReplyInThread bool   `json:"reply_in_thread,omitempty"`
	UUID          string `json:"uuid,omitempty"`
}

type ReplyMessageReq struct {
	MessageID string
	Body      ReplyMessageReqBody
}

type ReplyMessageReqBuilder struct {
	req ReplyMessageReq
}

func NewReplyMessageReqBuilder() *ReplyMessageReqBuilder {
	return &ReplyMessageReqBuilder{}
}

func (b *ReplyMessageReqBuilder) MessageID(id string) *ReplyMessageReqBuilder {
	b.req.MessageID = id

	return b
}

func (b *ReplyMessageReqBuilder) MsgType(t string) *ReplyMessageReqBuilder {
	b.req.Body.MsgType = t

	return b
}

func (b *ReplyMessageReqBuilder) Content(content string) *ReplyMessageReqBuilder {
	b.req.Body.Content = content

	return b
}

func (b *ReplyMessageReqBuilder) ReplyInThread(inThread bool) *ReplyMessageReqBuilder {
	b.req.Body.ReplyInThread = inThread

	return b
}

func (b *ReplyMessageReqBuilder) UUID(uuid string) *ReplyMessageReqBuilder {
	b.req.Body.UUID = uuid

	return b
}

func (b *ReplyMessageReqBuilder) Build() *ReplyMessageReq {
	req := b.req

	return &req
}

func (r *ReplyMessageReq) Validate() error {
	return lark.NewValidator().
		Required("message_id", r.MessageID).
		Required("msg_type", r.Body.MsgType).
		OneOf("msg_type", r.Body.MsgType, msgTypes...).
		Required("content", r.Body.Content).
		Check(len(r.Body.UUID) <= maxUUIDLength, "uuid", "must be at most 50 characters").
		Err()
}

// Reply answers a message, optionally in its thread.
func (s *MessageService) Reply(ctx context.Context,
	req *ReplyMessageReq,
	opts ...lark.RequestOption) (*lark.Response[Message], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	apiReq := lark.NewAPIRequest(http.MethodPost, messageReplyPath, messageTokenTypes...)
	apiReq.PathParams.Set("message_id", req.MessageID)
	apiReq.Body = req.Body

	return lark.Do[Message](ctx, s.client, apiReq, opts...)
}

type GetMessageReq struct {
	MessageID  string
	UserIDType string
}

type GetMessageReqBuilder struct {
	req GetMessageReq
}

func NewGetMessageReqBuilder() *GetMessageReqBuilder {
	return &GetMessageReqBuilder{}
}

func (b *GetMessageReqBuilder) MessageID(id string) *GetMessageReqBuilder {
	b.req.MessageID = id

	return b
}

func (b *GetMessageReqBuilder) UserIDType(t string) *GetMessageReqBuilder {
	b.req.UserIDType = t

	return b
}

func (b *GetMessageReqBuilder) Build() *GetMessageReq {
	req := b.req

	return &req
}

func (r *GetMessageReq) Validate() error {
	return lark.NewValidator().
		Required("message_id", r.MessageID).
		OneOf("user_id_type", r.UserIDType, userIDTypes...).
		Err()
}

// GetMessageRespData holds the message and, for merged forwards, its children.
type GetMessageRespData struct {
	Items []Message `json:"items"`
}

// Get reads a message.
func (s *MessageService) Get(ctx context.Context,
	req *GetMessageReq,
	opts ...lark.RequestOption) (*lark.Response[GetMessageRespData], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	apiReq := lark.NewAPIRequest(http.MethodGet, messagePath, messageTokenTypes...)
	apiReq.PathParams.Set("message_id", req.MessageID)
	if req.UserIDType != "" {
		apiReq.QueryParams.Set("user_id_type", req.UserIDType)
	}

	return lark.Do[GetMessageRespData](ctx, s.client, apiReq, opts...)
}

// Delete recalls a message sent by the caller.
func (s *MessageService) Delete(ctx context.Context, messageID string, opts ...lark.RequestOption) (*lark.RawResponse, error) {
	if err := lark.NewValidator().Required("message_id", messageID).Err(); err != nil {
		return nil, err
	}

	apiReq := lark.NewAPIRequest(http.MethodDelete, messagePath, messageTokenTypes...)
	apiReq.PathParams.Set("message_id", messageID)

	return s.client.Request(ctx, apiReq, nil, opts...)
}

type ListMessageReq struct {
	ContainerIDType string
	ContainerID     string
	// StartTime and EndTime are unix seconds; zero means unbounded.
	StartTime int64
	EndTime   int64
	SortType  string
	PageSize  int
	PageToken string
}

type ListMessageReqBuilder struct {
	req ListMessageReq
}

func NewListMessageReqBuilder() *ListMessageReqBuilder {
	return &ListMessageReqBuilder{req: ListMessageReq{ContainerIDType: "chat"}}
}

func (b *ListMessageReqBuilder) ContainerIDType(t string) *ListMessageReqBuilder {
	b.req.ContainerIDType = t

	return b
}

func (b *ListMessageReqBuilder) ContainerID(id string) *ListMessageReqBuilder {
	b.req.ContainerID = id

	return b
}

func (b *ListMessageReqBuilder) StartTime(unix int64) *ListMessageReqBuilder {
	b.req.StartTime = unix

	return b
}

func (b *ListMessageReqBuilder) EndTime(unix int64) *ListMessageReqBuilder {
	b.req.EndTime = unix

	return b
}

func (b *ListMessageReqBuilder) SortType(t string) *ListMessageReqBuilder {
	b.req.SortType = t

	return b
}

func (b *ListMessageReqBuilder) PageSize(size int) *ListMessageReqBuilder {
	b.req.PageSize = size

	return b
}

func (b *ListMessageReqBuilder) PageToken(token string) *ListMessageReqBuilder {
	b.req.PageToken = token

	return b
}

// Build clamps the page size to the endpoint's limits.
func (b *ListMessageReqBuilder) Build() *ListMessageReq {
	req := b.req
	req.PageSize = lark.ClampPageSize(req.PageSize, listMessagesDefaultPageSize, listMessagesMaxPageSize)

	return &req
}

func (r *ListMessageReq) Validate() error {
	return lark.NewValidator().
		Required("container_id_type", r.ContainerIDType).
		OneOf("container_id_type", r.ContainerIDType, "chat", "thread").
		Required("container_id", r.ContainerID).
		OneOf("sort_type", r.SortType, SortByCreateTimeAsc, SortByCreateTimeDesc).
		Check(r.EndTime == 0 || r.StartTime <= r.EndTime, "end_time", "must not be before start_time").
		Err()
}

// List returns one page of the history of a chat or thread.
func (s *MessageService) List(ctx context.Context,
	req *ListMessageReq,
	opts ...lark.RequestOption) (*lark.Response[lark.PageResult[Message]], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	apiReq := lark.NewAPIRequest(http.MethodGet, messagesPath, messageTokenTypes...)
	q := apiReq.QueryParams
	q.Set("container_id_type", req.ContainerIDType)
	q.Set("container_id", req.ContainerID)
	if req.StartTime > 0 {
		q.Set("start_time", strconv.FormatInt(req.StartTime, 10))
	}
	if req.EndTime > 0 {
		q.Set("end_time", strconv.FormatInt(req.EndTime, 10))
	}
	if req.SortType != "" {
		q.Set("sort_type", req.SortType)
	}
	q.Set("page_size", strconv.Itoa(lark.ClampPageSize(req.PageSize, listMessagesDefaultPageSize, listMessagesMaxPageSize)))
	if req.PageToken != "" {
		q.Set("page_token", req.PageToken)
	}

	return lark.Do[lark.PageResult[Message]](ctx, s.client, apiReq, opts...)
}

// ListIterator walks every message matching req, starting at req.PageToken.
func (s *MessageService) ListIterator(req *ListMessageReq, opts ...lark.RequestOption) *lark.Iterator[Message] {
	return lark.NewIteratorFrom(req.PageToken, func(ctx context.Context, pageToken string) (*lark.PageResult[Message], error) {
		page := *req
		page.PageToken = pageToken

		resp, err := s.List(ctx, &page, opts...)
		if err != nil {
			return nil, err
		}

		return &resp.Data, nil
	})
}
