// Package bitable wraps the record and dashboard endpoints of bitable/v1.
package bitable

import (
	"context"
	"net/http"
	"strconv"

	"openlark/pkg/lark"
)

const (
	recordsPath        = "/open-apis/bitable/v1/apps/:app_token/tables/:table_id/records"
	recordPath         = "/open-apis/bitable/v1/apps/:app_token/tables/:table_id/records/:record_id"
	recordsBatchCreate = "/open-apis/bitable/v1/apps/:app_token/tables/:table_id/records/batch_create"
	dashboardsPath     = "/open-apis/bitable/v1/apps/:app_token/dashboards"

	recordsDefaultPage    = 20
	recordsMaxPage        = 500
	batchCreateMaxItems   = 500
	dashboardsDefaultPage = 10
	dashboardsMaxPage     = 100
)

var tokenTypes = []lark.AccessTokenType{lark.AccessTokenTypeTenant, lark.AccessTokenTypeUser} //nolint: gochecknoglobals

// Person is a user reference in created_by and last_modified_by.
type Person struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name,omitempty"`
	EnName string `json:"en_name,omitempty"`
	Email  string `json:"email,omitempty"`
}

// AppTableRecord is one row. Field values keep the shape the server sends:
// strings, numbers, arrays of options or people, and so on.
type AppTableRecord struct {
	RecordID         string         `json:"record_id,omitempty"`
	Fields           map[string]any `json:"fields"`
	CreatedBy        *Person        `json:"created_by,omitempty"`
	CreatedTime      int64          `json:"created_time,omitempty"`
	LastModifiedBy   *Person        `json:"last_modified_by,omitempty"`
	LastModifiedTime int64          `json:"last_modified_time,omitempty"`
}

// Service groups the bitable/v1 resources.
type Service struct {
	AppTableRecord *AppTableRecordService
	AppDashboard   *AppDashboardService
}

func New(c *lark.Client) *Service {
	return &Service{
		AppTableRecord: &AppTableRecordService{client: c},
		AppDashboard:   &AppDashboardService{client: c},
	}
}

// AppTableRecordService reads and writes table records.
type AppTableRecordService struct {
	client *lark.Client
}

// Table addresses a table inside a base.
type Table struct {
	AppToken string
	TableID  string
}

func (t Table) validate(v *lark.Validator) *lark.Validator {
	return v.Required("app_token", t.AppToken).Required("table_id", t.TableID)
}

func (t Table) apiRequest(method, path string) *lark.APIRequest {
	req := lark.NewAPIRequest(method, path, tokenTypes...)
	req.PathParams.Set("app_token", t.AppToken)
	req.PathParams.Set("table_id", t.TableID)

	return req
}

type ListAppTableRecordReq struct {
	Table
	ViewID     string
	Filter     string
	Sort       string
	FieldNames string
	UserIDType string
	PageSize   int
	PageToken  string
}

type ListAppTableRecordReqBuilder struct {
	req ListAppTableRecordReq
}

func NewListAppTableRecordReqBuilder() *ListAppTableRecordReqBuilder {
	return &ListAppTableRecordReqBuilder{}
}

func (b *ListAppTableRecordReqBuilder) AppToken(token string) *ListAppTableRecordReqBuilder {
	b.req.AppToken = token

	return b
}

func (b *ListAppTableRecordReqBuilder) TableID(id string) *ListAppTableRecordReqBuilder {
	b.req.TableID = id

	return b
}

func (b *ListAppTableRecordReqBuilder) ViewID(id string) *ListAppTableRecordReqBuilder {
	b.req.ViewID = id

	return b
}

// Filter is a formula such as AND(CurrentValue.[Status]="Open").
func (b *ListAppTableRecordReqBuilder) Filter(filter string) *ListAppTableRecordReqBuilder {
	b.req.Filter = filter

	return b
}

// Sort is a JSON array such as ["Priority DESC"].
func (b *ListAppTableRecordReqBuilder) Sort(sort string) *ListAppTableRecordReqBuilder {
	b.req.Sort = sort

	return b
}

// FieldNames is a JSON array of the fields to return.
func (b *ListAppTableRecordReqBuilder) FieldNames(names string) *ListAppTableRecordReqBuilder {
	b.req.FieldNames = names

	return b
}

func (b *ListAppTableRecordReqBuilder) UserIDType(t string) *ListAppTableRecordReqBuilder {
	b.req.UserIDType = t

	return b
}

func (b *ListAppTableRecordReqBuilder) PageSize(size int) *ListAppTableRecordReqBuilder {
	b.req.PageSize = size

	return b
}

func (b *ListAppTableRecordReqBuilder) PageToken(token string) *ListAppTableRecordReqBuilder {
	b.req.PageToken = token

	return b
}

func (b *ListAppTableRecordReqBuilder) Build() *ListAppTableRecordReq {
	req := b.req
	req.PageSize = lark.ClampPageSize(req.PageSize, recordsDefaultPage, recordsMaxPage)

	return &req
}

func (r *ListAppTableRecordReq) Validate() error {
	return r.validate(lark.NewValidator()).Err()
}

// List returns one page of records.
func (s *AppTableRecordService) List(ctx context.Context,
	req *ListAppTableRecordReq,
	opts ...lark.RequestOption) (*lark.Response[lark.PageResult[AppTableRecord]], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	apiReq := req.apiRequest(http.MethodGet, recordsPath)
	q := apiReq.QueryParams
	for k, v := range map[string]string{
		"view_id":      req.ViewID,
		"filter":       req.Filter,
		"sort":         req.Sort,
		"field_names":  req.FieldNames,
		"user_id_type": req.UserIDType,
		"page_token":   req.PageToken,
	} {
		if v != "" {
			q.Set(k, v)
		}
	}
	q.Set("page_size", strconv.Itoa(lark.ClampPageSize(req.PageSize, recordsDefaultPage, recordsMaxPage)))

	return lark.Do[lark.PageResult[AppTableRecord]](ctx, s.client, apiReq, opts...)
}

// ListIterator walks every record matching req.
func (s *AppTableRecordService) ListIterator(req *ListAppTableRecordReq,
	opts ...lark.RequestOption) *lark.Iterator[AppTableRecord] {
	return lark.NewIteratorFrom(req.PageToken, func(ctx context.Context, pageToken string) (*lark.PageResult[AppTableRecord], error) {
		page := *req
		page.PageToken = pageToken

		resp, err := s.List(ctx, &page, opts...)
		if err != nil {
			return nil, err
		}

		return &resp.Data, nil
	})
}

// RecordRespData wraps a single record.
type RecordRespData struct {
	Record AppTableRecord `json:"record"`
}

type CreateAppTableRecordReq struct {
	Table
	UserIDType string
	// ClientToken makes the create idempotent.
	ClientToken string
	Fields      map[string]any
}

type CreateAppTableRecordReqBuilder struct {
	req CreateAppTableRecordReq
}

func NewCreateAppTableRecordReqBuilder() *CreateAppTableRecordReqBuilder {
	return &CreateAppTableRecordReqBuilder{req: CreateAppTableRecordReq{Fields: map[string]any{}}}
}

func (b *CreateAppTableRecordReqBuilder) AppToken(token string) *CreateAppTableRecordReqBuilder {
	b.req.AppToken = token

	return b
}

func (b *CreateAppTableRecordReqBuilder) TableID(id string) *CreateAppTableRecordReqBuilder {
	b.req.TableID = id

	return b
}

func (b *CreateAppTableRecordReqBuilder) UserIDType(t string) *CreateAppTableRecordReqBuilder {
	b.req.UserIDType = t

	return b
}

func (b *CreateAppTableRecordReqBuilder) ClientToken(token string) *CreateAppTableRecordReqBuilder {
	b.req.ClientToken = token

	return b
}

// Field sets one field value.
func (b *CreateAppTableRecordReqBuilder) Field(name string, value any) *CreateAppTableRecordReqBuilder {
	b.req.Fields[name] = value

	return b
}

func (b *CreateAppTableRecordReqBuilder) Build() *CreateAppTableRecordReq {
	req := b.req
	req.Fields = cloneFields(b.req.Fields)

	return &req
}

func (r *CreateAppTableRecordReq) Validate() error {
	return r.validate(lark.NewValidator()).
		Check(len(r.Fields) > 0, "fields", "must not be empty").
		Err()
}

// Create adds one record.
func (s *AppTableRecordService) Create(ctx context.Context,
	req *CreateAppTableRecordReq,
	opts ...lark.RequestOption) (*lark.Response[RecordRespData], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	apiReq := req.apiRequest(http.MethodPost, recordsPath)
	if req.UserIDType != "" {
		apiReq.QueryParams.Set("user_id_type", req.UserIDType)
	}
	if req.ClientToken != "" {
		apiReq.QueryParams.Set("client_token", req.ClientToken)
	}
	apiReq.Body = AppTableRecord{Fields: req.Fields}

	return lark.Do[RecordRespData](ctx, s.client, apiReq, opts...)
}

type UpdateAppTableRecordReq struct {
	Table
	RecordID   string
	UserIDType string
	Fields     map[string]any
}

type UpdateAppTableRecordReqBuilder struct {
	req UpdateAppTableRecordReq
}

func NewUpdateAppTableRecordReqBuilder() *UpdateAppTableRecordReqBuilder {
	return &UpdateAppTableRecordReqBuilder{req: UpdateAppTableRecordReq{Fields: map[string]any{}}}
}

func (b *UpdateAppTableRecordReqBuilder) AppToken(token string) *UpdateAppTableRecordReqBuilder {
	b.req.AppToken = token

	return b
}

func (b *UpdateAppTableRecordReqBuilder) TableID(id string) *UpdateAppTableRecordReqBuilder {
	b.req.TableID = id

	return b
}

func (b *UpdateAppTableRecordReqBuilder) RecordID(id string) *UpdateAppTableRecordReqBuilder {
	b.req.RecordID = id

	return b
}

func (b *UpdateAppTableRecordReqBuilder) UserIDType(t string) *UpdateAppTableRecordReqBuilder {
	b.req.UserIDType = t

	return b
}

// Field sets one field value; fields left out keep their value.
func (b *UpdateAppTableRecordReqBuilder) Field(name string, value any) *UpdateAppTableRecordReqBuilder {
	b.req.Fields[name] = value

	return b
}

func (b *UpdateAppTableRecordReqBuilder) Build() *UpdateAppTableRecordReq {
	req := b.req
	req.Fields = cloneFields(b.req.Fields)

	return &req
}

func (r *UpdateAppTableRecordReq) Validate() error {
	return r.validate(lark.NewValidator()).
		Required("record_id", r.RecordID).
		Check(len(r.Fields) > 0, "fields", "must not be empty").
		Err()
}

// Update overwrites the given fields of a record.
func (s *AppTableRecordService) Update(ctx context.Context,
	req *UpdateAppTableRecordReq,
	opts ...lark.RequestOption) (*lark.Response[RecordRespData], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	apiReq := req.apiRequest(http.MethodPut, recordPath)
	apiReq.PathParams.Set("record_id", req.RecordID)
	if req.UserIDType != "" {
		apiReq.QueryParams.Set("user_id_type", req.UserIDType)
	}
	apiReq.Body = AppTableRecord{Fields: req.Fields}

	return lark.Do[RecordRespData](ctx, s.client, apiReq, opts...)
}

type DeleteRecordRespData struct {
	Deleted  bool   `json:"deleted"`
	RecordID string `json:"record_id"`
}

// Delete removes one record.
func (s *AppTableRecordService) Delete(ctx context.Context,
	table Table,
	recordID string,
	opts ...lark.RequestOption) (*lark.Response[DeleteRecordRespData], error) {
	if err := table.validate(lark.NewValidator()).Required("record_id", recordID).Err(); err != nil {
		return nil, err
	}

	apiReq := table.apiRequest(http.MethodDelete, recordPath)
	apiReq.PathParams.Set("record_id", recordID)

	return lark.Do[DeleteRecordRespData](ctx, s.client, apiReq, opts...)
}

type BatchCreateAppTableRecordReq struct {
	Table
	UserIDType  string
	ClientToken string
	Records     []AppTableRecord
}

type BatchCreateAppTableRecordReqBuilder struct {
	req BatchCreateAppTableRecordReq
}

func NewBatchCreateAppTableRecordReqBuilder() *BatchCreateAppTableRecordReqBuilder {
	return &BatchCreateAppTableRecordReqBuilder{}
}

func (b *BatchCreateAppTableRecordReqBuilder) AppToken(token string) *BatchCreateAppTableRecordReqBuilder {
	b.req.AppToken = token

	return b
}

func (b *BatchCreateAppTableRecordReqBuilder) TableID(id string) *BatchCreateAppTableRecordReqBuilder {
	b.req.TableID = id

	return b
}

func (b *BatchCreateAppTableRecordReqBuilder) UserIDType(t string) *BatchCreateAppTableRecordReqBuilder {
	b.req.UserIDType = t

	return b
}

func (b *BatchCreateAppTableRecordReqBuilder) ClientToken(token string) *BatchCreateAppTableRecordReqBuilder {
	b.req.ClientToken = token

	return b
}

// Record appends a record with the given fields.
func (b *BatchCreateAppTableRecordReqBuilder) Record(fields map[string]any) *BatchCreateAppTableRecordReqBuilder {
	b.req.Records = append(b.req.Records, AppTableRecord{Fields: cloneFields(fields)})

	return b
}

func (b *BatchCreateAppTableRecordReqBuilder) Build() *BatchCreateAppTableRecordReq {
	req := b.req
	req.Records = append([]AppTableRecord(nil), b.req.Records...)

	return &req
}

func (r *BatchCreateAppTableRecordReq) Validate() error {
	return r.validate(lark.NewValidator()).
		Check(len(r.Records) > 0, "records", "must not be empty").
		MaxItems("records", len(r.Records), batchCreateMaxItems).
		Err()
}

type BatchCreateRespData struct {
	Records []AppTableRecord `json:"records"`
}

// BatchCreate adds up to 500 records in one call.
func (s *AppTableRecordService) BatchCreate(ctx context.Context,
	req *BatchCreateAppTableRecordReq,
	opts ...lark.RequestOption) (*lark.Response[BatchCreateRespData], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	apiReq := req.apiRequest(http.MethodPost, recordsBatchCreate)
	if req.UserIDType != "" {
		apiReq.QueryParams.Set("user_id_type", req.UserIDType)
	}
	if req.ClientToken != "" {
		apiReq.QueryParams.Set("client_token", req.ClientToken)
	}
	apiReq.Body = struct {
		Records []AppTableRecord `json:"records"`
	}{Records: req.Records}

	return lark.Do[BatchCreateRespData](ctx, s.client, apiReq, opts...)
}

func cloneFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}

	return out
}
