// Package task wraps the task/v2 endpoints.
package task

import (
	"context"
	"net/http"
	"slices"
	"strconv"

	"openlark/pkg/lark"
)

const (
	tasksPath = "/open-apis/task/v2/tasks"
	taskPath  = "/open-apis/task/v2/tasks/:task_guid"

	listDefaultPageSize = 50
	listMaxPageSize     = 100
	summaryMaxLen       = 3000
)

// Member roles.
const (
	RoleAssignee = "assignee"
	RoleFollower = "follower"
)

// Fields accepted in Patch's update_fields.
const (
	FieldSummary     = "summary"
	FieldDescription = "description"
	FieldDue         = "due"
	FieldStart       = "start"
	FieldCompletedAt = "completed_at"
	FieldExtra       = "extra"
	FieldMilestone   = "is_milestone"
)

var updatableFields = []string{ //nolint: gochecknoglobals
	FieldSummary, FieldDescription, FieldDue, FieldStart, FieldCompletedAt, FieldExtra, FieldMilestone,
}

var taskTokenTypes = []lark.AccessTokenType{lark.AccessTokenTypeTenant, lark.AccessTokenTypeUser} //nolint: gochecknoglobals

// Due and Start share the same shape. Timestamp is in milliseconds, sent as a string.
type Due struct {
	Timestamp string `json:"timestamp,omitempty"`
	IsAllDay  bool   `json:"is_all_day,omitempty"`
}

type Member struct {
	ID   string `json:"id"`
	Type string `json:"type,omitempty"`
	Role string `json:"role,omitempty"`
	Name string `json:"name,omitempty"`
}

// TaskInfo is a task as returned by the server.
type TaskInfo struct {
	GUID        string   `json:"guid,omitempty"`
	TaskID      string   `json:"task_id,omitempty"`
	Summary     string   `json:"summary,omitempty"`
	Description string   `json:"description,omitempty"`
	Due         *Due     `json:"due,omitempty"`
	Start       *Due     `json:"start,omitempty"`
	Creator     *Member  `json:"creator,omitempty"`
	Members     []Member `json:"members,omitempty"`
	CompletedAt string   `json:"completed_at,omitempty"`
	Status      string   `json:"status,omitempty"`
	URL         string   `json:"url,omitempty"`
	Extra       string   `json:"extra,omitempty"`
	IsMilestone bool     `json:"is_milestone,omitempty"`
	CreatedAt   string   `json:"created_at,omitempty"`
	UpdatedAt   string   `json:"updated_at,omitempty"`
}

// Completed reports whether completed_at is set. The server sends "0" for open tasks.
func (t *TaskInfo) Completed() bool {
	return t.CompletedAt != "" && t.CompletedAt != "0"
}

type Service struct {
	Task *TaskService
}

func New(c *lark.Client) *Service {
	return &Service{Task: &TaskService{client: c}}
}

type TaskService struct {
	client *lark.Client
}

type TaskRespData struct {
	Task TaskInfo `json:"task"`
}

type CreateTaskReqBody struct {
	Summary     string   `json:"summary"`
	Description string   `json:"description,omitempty"`
	Due         *Due     `json:"due,omitempty"`
	Start       *Due     `json:"start,omitempty"`
	Members     []Member `json:"members,omitempty"`
	ClientToken string   `json:"client_token,omitempty"`
	Extra       string   `json:"extra,omitempty"`
	IsMilestone bool     `json:"is_milestone,omitempty"`
}

type CreateTaskReq struct {
	UserIDType string
	Body       CreateTaskReqBody
}

type CreateTaskReqBuilder struct {
	req CreateTaskReq
}

func NewCreateTaskReqBuilder() *CreateTaskReqBuilder {
	return &CreateTaskReqBuilder{}
}

func (b *CreateTaskReqBuilder) UserIDType(t string) *CreateTaskReqBuilder {
	b.req.UserIDType = t

	return b
}

func (b *CreateTaskReqBuilder) Summary(summary string) *CreateTaskReqBuilder {
	b.req.Body.Summary = summary

	return b
}

func (b *CreateTaskReqBuilder) Description(description string) *CreateTaskReqBuilder {
	b.req.Body.Description = description

	return b
}

// Due sets the deadline in unix milliseconds.
func (b *CreateTaskReqBuilder) Due(ms int64, allDay bool) *CreateTaskReqBuilder {
	b.req.Body.Due = &Due{Timestamp: strconv.FormatInt(ms, 10), IsAllDay: allDay}

	return b
}

func (b *CreateTaskReqBuilder) Start(ms int64, allDay bool) *CreateTaskReqBuilder {
	b.req.Body.Start = &Due{Timestamp: strconv.FormatInt(ms, 10), IsAllDay: allDay}

	return b
}

// Member adds a user with the given role.
func (b *CreateTaskReqBuilder) Member(id, role string) *CreateTaskReqBuilder {
	b.req.Body.Members = append(b.req.Body.Members, Member{ID: id, Type: "user", Role: role})

	return b
}

func (b *CreateTaskReqBuilder) ClientToken(token string) *CreateTaskReqBuilder {
	b.req.Body.ClientToken = token

	return b
}

func (b *CreateTaskReqBuilder) Extra(extra string) *CreateTaskReqBuilder {
	b.req.Body.Extra = extra

	return b
}

func (b *CreateTaskReqBuilder) Build() *CreateTaskReq {
	req := b.req
	req.Body.Members = append([]Member(nil), b.req.Body.Members...)

	return &req
}

func (r *CreateTaskReq) Validate() error {
	v := lark.NewValidator().
		Required("summary", r.Body.Summary).
		Check(len([]rune(r.Body.Summary)) <= summaryMaxLen, "summary", "is longer than 3000 characters")
	for _, m := range r.Body.Members {
		v.Required("members.id", m.ID).OneOf("members.role", m.Role, RoleAssignee, RoleFollower)
	}
	if r.Body.Due != nil && r.Body.Start != nil {
		due, _ := strconv.ParseInt(r.Body.Due.Timestamp, 10, 64)
		start, _ := strconv.ParseInt(r.Body.Start.Timestamp, 10, 64)
		v.Check(start <= due, "start", "must not be after due")
	}

	return v.Err()
}

// Create adds a task.
func (s *TaskService) Create(ctx context.Context,
	req *CreateTaskReq,
	opts ...lark.RequestOption) (*lark.Response[TaskRespData], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	apiReq := lark.NewAPIRequest(http.MethodPost, tasksPath, taskTokenTypes...)
	if req.UserIDType != "" {
		apiReq.QueryParams.Set("user_id_type", req.UserIDType)
	}
	apiReq.Body = req.Body

	return lark.Do[TaskRespData](ctx, s.client, apiReq, opts...)
}

// Get reads a task by guid.
func (s *TaskService) Get(ctx context.Context,
	guid, userIDType string,
	opts ...lark.RequestOption) (*lark.Response[TaskRespData], error) {
	if err := lark.NewValidator().Required("task_guid", guid).Err(); err != nil {
		return nil, err
	}

	apiReq := lark.NewAPIRequest(http.MethodGet, taskPath, taskTokenTypes...)
	apiReq.PathParams.Set("task_guid", guid)
	if userIDType != "" {
		apiReq.QueryParams.Set("user_id_type", userIDType)
	}

	return lark.Do[TaskRespData](ctx, s.client, apiReq, opts...)
}

type PatchTaskReq struct {
	GUID         string
	UserIDType   string
	Task         TaskInfo
	UpdateFields []string
}

type PatchTaskReqBuilder struct {
	req PatchTaskReq
}

func NewPatchTaskReqBuilder() *PatchTaskReqBuilder {
	return &PatchTaskReqBuilder{}
}

func (b *PatchTaskReqBuilder) GUID(guid string) *PatchTaskReqBuilder {
	b.req.GUID = guid

	return b
}

func (b *PatchTaskReqBuilder) UserIDType(t string) *PatchTaskReqBuilder {
	b.req.UserIDType = t

	return b
}

func (b *PatchTaskReqBuilder) field(name string) {
	if !slices.Contains(b.req.UpdateFields, name) {
		b.req.UpdateFields = append(b.req.UpdateFields, name)
	}
}

func (b *PatchTaskReqBuilder) Summary(summary string) *PatchTaskReqBuilder {
	b.req.Task.Summary = summary
	b.field(FieldSummary)

	return b
}

func (b *PatchTaskReqBuilder) Description(description string) *PatchTaskReqBuilder {
	b.req.Task.Description = description
	b.field(FieldDescription)

	return b
}

func (b *PatchTaskReqBuilder) Due(ms int64, allDay bool) *PatchTaskReqBuilder {
	b.req.Task.Due = &Due{Timestamp: strconv.FormatInt(ms, 10), IsAllDay: allDay}
	b.field(FieldDue)

	return b
}

// CompletedAt marks the task complete at ms; 0 reopens it.
func (b *PatchTaskReqBuilder) CompletedAt(ms int64) *PatchTaskReqBuilder {
	b.req.Task.CompletedAt = strconv.FormatInt(ms, 10)
	b.field(FieldCompletedAt)

	return b
}

// UpdateFields lists fields to clear or overwrite explicitly, in addition to
// those set through the builder.
func (b *PatchTaskReqBuilder) UpdateFields(fields ...string) *PatchTaskReqBuilder {
	for _, f := range fields {
		b.field(f)
	}

	return b
}

func (b *PatchTaskReqBuilder) Build() *PatchTaskReq {
	req := b.req
	req.UpdateFields = append([]string(nil), b.req.UpdateFields...)

	return &req
}

func (r *PatchTaskReq) Validate() error {
	v := lark.NewValidator().
		Required("task_guid", r.GUID).
		Check(len(r.UpdateFields) > 0, "update_fields", "must not be empty")
	for _, f := range r.UpdateFields {
		v.OneOf("update_fields", f, updatableFields...)
	}

	return v.Err()
}

// Patch updates the fields named in UpdateFields.
func (s *TaskService) Patch(ctx context.Context,
	req *PatchTaskReq,
	opts ...lark.RequestOption) (*lark.Response[TaskRespData], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	apiReq := lark.NewAPIRequest(http.MethodPatch, taskPath, taskTokenTypes...)
	apiReq.PathParams.Set("task_guid", req.GUID)
	if req.UserIDType != "" {
		apiReq.QueryParams.Set("user_id_type", req.UserIDType)
	}
	apiReq.Body = struct {
		Task         TaskInfo `json:"task"`
		UpdateFields []string `json:"update_fields"`
	}{Task: req.Task, UpdateFields: req.UpdateFields}

	return lark.Do[TaskRespData](ctx, s.client, apiReq, opts...)
}

// Delete removes a task.
func (s *TaskService) Delete(ctx context.Context, guid string, opts ...lark.RequestOption) (*lark.RawResponse, error) {
	if err := lark.NewValidator().Required("task_guid", guid).Err(); err != nil {
		return nil, err
	}

	apiReq := lark.NewAPIRequest(http.MethodDelete, taskPath, taskTokenTypes...)
	apiReq.PathParams.Set("task_guid", guid)

	return s.client.Request(ctx, apiReq, nil, opts...)
}

type ListTaskReq struct {
	// Completed filters on completion when set.
	Completed  *bool
	UserIDType string
	PageSize   int
	PageToken  string
}

type ListTaskReqBuilder struct {
	req ListTaskReq
}

func NewListTaskReqBuilder() *ListTaskReqBuilder {
	return &ListTaskReqBuilder{}
}

func (b *ListTaskReqBuilder) Completed(completed bool) *ListTaskReqBuilder {
	b.req.Completed = &completed

	return b
}

func (b *ListTaskReqBuilder) UserIDType(t string) *ListTaskReqBuilder {
	b.req.UserIDType = t

	return b
}

func (b *ListTaskReqBuilder) PageSize(size int) *ListTaskReqBuilder {
	b.req.PageSize = size

	return b
}

func (b *ListTaskReqBuilder) PageToken(token string) *ListTaskReqBuilder {
	b.req.PageToken = token

	return b
}

func (b *ListTaskReqBuilder) Build() *ListTaskReq {
	req := b.req
	req.PageSize = lark.ClampPageSize(req.PageSize, listDefaultPageSize, listMaxPageSize)

	return &req
}

// List returns one page of the tasks of the user behind the user access
// token passed with lark.WithUserAccessToken.
func (s *TaskService) List(ctx context.Context,
	req *ListTaskReq,
	opts ...lark.RequestOption) (*lark.Response[lark.PageResult[TaskInfo]], error) {
	apiReq := lark.NewAPIRequest(http.MethodGet, tasksPath, lark.AccessTokenTypeUser)
	q := apiReq.QueryParams
	q.Set("type", "my_tasks")
	q.Set("page_size", strconv.Itoa(lark.ClampPageSize(req.PageSize, listDefaultPageSize, listMaxPageSize)))
	if req.PageToken != "" {
		q.Set("page_token", req.PageToken)
	}
	if req.Completed != nil {
		q.Set("completed", strconv.FormatBool(*req.Completed))
	}
	if req.UserIDType != "" {
		q.Set("user_id_type", req.UserIDType)
	}

	return lark.Do[lark.PageResult[TaskInfo]](ctx, s.client, apiReq, opts...)
}

func (s *TaskService) ListIterator(req *ListTaskReq, opts ...lark.RequestOption) *lark.Iterator[TaskInfo] {
	return lark.NewIteratorFrom(req.PageToken, func(ctx context.Context, pageToken string) (*lark.PageResult[TaskInfo], error) {
		page := *req
		page.PageToken = pageToken

		resp, err := s.List(ctx, &page, opts...)
		if err != nil {
			return nil, err
		}

		return &resp.Data, nil
	})
}
