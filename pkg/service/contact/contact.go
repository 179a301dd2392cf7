// Package contact wraps the user lookup endpoints of contact/v3.
package contact

import (
	"context"
	"net/http"
	"strconv"

	"openlark/pkg/lark"
)

const (
	userPath             = "/open-apis/contact/v3/users/:user_id"
	findByDepartmentPath = "/open-apis/contact/v3/users/find_by_department"
	batchGetIDPath       = "/open-apis/contact/v3/users/batch_get_id"

	findByDepartmentDefaultPageSize = 10
	findByDepartmentMaxPageSize     = 50
	batchGetIDMaxItems              = 50
)

// Id types of users and departments.
const (
	UserIDTypeOpenID  = "open_id"
	UserIDTypeUserID  = "user_id"
	UserIDTypeUnionID = "union_id"

	DepartmentIDTypeDepartmentID     = "department_id"
	DepartmentIDTypeOpenDepartmentID = "open_department_id"
)

var userIDTypes = []string{UserIDTypeOpenID, UserIDTypeUserID, UserIDTypeUnionID} //nolint: gochecknoglobals

var departmentIDTypes = []string{DepartmentIDTypeDepartmentID, DepartmentIDTypeOpenDepartmentID} //nolint: gochecknoglobals

var userTokenTypes = []lark.AccessTokenType{lark.AccessTokenTypeTenant, lark.AccessTokenTypeUser} //nolint: gochecknoglobals

type Avatar struct {
	Avatar72     string `json:"avatar_72,omitempty"`
	Avatar240    string `json:"avatar_240,omitempty"`
	Avatar640    string `json:"avatar_640,omitempty"`
	AvatarOrigin string `json:"avatar_origin,omitempty"`
}

type UserStatus struct {
	IsFrozen    bool `json:"is_frozen"`
	IsResigned  bool `json:"is_resigned"`
	IsActivated bool `json:"is_activated"`
	IsExited    bool `json:"is_exited"`
	IsUnjoin    bool `json:"is_unjoin"`
}

type User struct {
	UnionID       string      `json:"union_id,omitempty"`
	UserID        string      `json:"user_id,omitempty"`
	OpenID        string      `json:"open_id,omitempty"`
	Name          string      `json:"name,omitempty"`
	EnName        string      `json:"en_name,omitempty"`
	Nickname      string      `json:"nickname,omitempty"`
	Email         string      `json:"email,omitempty"`
	Mobile        string      `json:"mobile,omitempty"`
	Avatar        *Avatar     `json:"avatar,omitempty"`
	Status        *UserStatus `json:"status,omitempty"`
	DepartmentIDs []string    `json:"department_ids,omitempty"`
	LeaderUserID  string      `json:"leader_user_id,omitempty"`
	City          string      `json:"city,omitempty"`
	Country       string      `json:"country,omitempty"`
	WorkStation   string      `json:"work_station,omitempty"`
	JoinTime      int64       `json:"join_time,omitempty"`
	EmployeeNo    string      `json:"employee_no,omitempty"`
	EmployeeType  int         `json:"employee_type,omitempty"`
	JobTitle      string      `json:"job_title,omitempty"`
}

// Service groups the contact/v3 resources.
type Service struct {
	User *UserService
}

func New(c *lark.Client) *Service {
	return &Service{User: &UserService{client: c}}
}

// UserService reads users of the tenant.
type UserService struct {
	client *lark.Client
}

type GetUserReq struct {
	UserID           string
	UserIDType       string
	DepartmentIDType string
}

type GetUserReqBuilder struct {
	req GetUserReq
}

func NewGetUserReqBuilder() *GetUserReqBuilder {
	return &GetUserReqBuilder{}
}

func (b *GetUserReqBuilder) UserID(id string) *GetUserReqBuilder {
	b.req.UserID = id

	return b
}

func (b *GetUserReqBuilder) UserIDType(t string) *GetUserReqBuilder {
	b.req.UserIDType = t

	return b
}

func (b *GetUserReqBuilder) DepartmentIDType(t string) *GetUserReqBuilder {
	b.req.DepartmentIDType = t

	return b
}

func (b *GetUserReqBuilder) Build() *GetUserReq {
	req := b.req

	return &req
}

func (r *GetUserReq) Validate() error {
	return lark.NewValidator().
		Required("user_id", r.UserID).
		OneOf("user_id_type", r.UserIDType, userIDTypes...).
		OneOf("department_id_type", r.DepartmentIDType, departmentIDTypes...).
		Err()
}

type GetUserRespData struct {
	User *User `json:"user"`
}

// Get reads one user.
func (s *UserService) Get(ctx context.Context,
	req *GetUserReq,
	opts ...lark.RequestOption) (*lark.Response[GetUserRespData], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	apiReq := lark.NewAPIRequest(http.MethodGet, userPath, userTokenTypes...)
	apiReq.PathParams.Set("user_id", req.UserID)
	setIDTypes(apiReq, req.UserIDType, req.DepartmentIDType)

	return lark.Do[GetUserRespData](ctx, s.client, apiReq, opts...)
}

type FindByDepartmentReq struct {
	DepartmentID     string
	UserIDType       string
	DepartmentIDType string
	PageSize         int
	PageToken        string
}

type FindByDepartmentReqBuilder struct {
	req FindByDepartmentReq
}

func NewFindByDepartmentReqBuilder() *FindByDepartmentReqBuilder {
	return &FindByDepartmentReqBuilder{}
}

// DepartmentID selects the department; "0" is the root department.
func (b *FindByDepartmentReqBuilder) DepartmentID(id string) *FindByDepartmentReqBuilder {
	b.req.DepartmentID = id

	return b
}

func (b *FindByDepartmentReqBuilder) UserIDType(t string) *FindByDepartmentReqBuilder {
	b.req.UserIDType = t

	return b
}

func (b *FindByDepartmentReqBuilder) DepartmentIDType(t string) *FindByDepartmentReqBuilder {
	b.req.DepartmentIDType = t

	return b
}

func (b *FindByDepartmentReqBuilder) PageSize(size int) *FindByDepartmentReqBuilder {
	b.req.PageSize = size

	return b
}

func (b *FindByDepartmentReqBuilder) PageToken(token string) *FindByDepartmentReqBuilder {
	b.req.PageToken = token

	return b
}

func (b *FindByDepartmentReqBuilder) Build() *FindByDepartmentReq {
	req := b.req
	req.PageSize = lark.ClampPageSize(req.PageSize, findByDepartmentDefaultPageSize, findByDepartmentMaxPageSize)

	return &req
}

func (r *FindByDepartmentReq) Validate() error {
	return lark.NewValidator().
		Required("department_id", r.DepartmentID).
		OneOf("user_id_type", r.UserIDType, userIDTypes...).
		OneOf("department_id_type", r.DepartmentIDType, departmentIDTypes...).
		Err()
}

// FindByDepartment returns one page of the direct members of a department.
func (s *UserService) FindByDepartment(ctx context.Context,
	req *FindByDepartmentReq,
	opts ...lark.RequestOption) (*lark.Response[lark.PageResult[User]], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	apiReq := lark.NewAPIRequest(http.MethodGet, findByDepartmentPath, userTokenTypes...)
	q := apiReq.QueryParams
	q.Set("department_id", req.DepartmentID)
	setIDTypes(apiReq, req.UserIDType, req.DepartmentIDType)
	q.Set("page_size",
		strconv.Itoa(lark.ClampPageSize(req.PageSize, findByDepartmentDefaultPageSize, findByDepartmentMaxPageSize)))
	if req.PageToken != "" {
		q.Set("page_token", req.PageToken)
	}

	return lark.Do[lark.PageResult[User]](ctx, s.client, apiReq, opts...)
}

// FindByDepartmentIterator walks every direct member of a department.
func (s *UserService) FindByDepartmentIterator(req *FindByDepartmentReq, opts ...lark.RequestOption) *lark.Iterator[User] {
	return lark.NewIteratorFrom(req.PageToken, func(ctx context.Context, pageToken string) (*lark.PageResult[User], error) {
		page := *req
		page.PageToken = pageToken

		resp, err := s.FindByDepartment(ctx, &page, opts...)
		if err != nil {
			return nil, err
		}

		return &resp.Data, nil
	})
}

type BatchGetIDReqBody struct {
	Emails          []string `json:"emails,omitempty"`
	Mobiles         []string `json:"mobiles,omitempty"`
	IncludeResigned bool     `json:"include_resigned,omitempty"`
}

type BatchGetIDReq struct {
	UserIDType string
	Body       BatchGetIDReqBody
}

type BatchGetIDReqBuilder struct {
	req BatchGetIDReq
}

func NewBatchGetIDReqBuilder() *BatchGetIDReqBuilder {
	return &BatchGetIDReqBuilder{}
}

func (b *BatchGetIDReqBuilder) UserIDType(t string) *BatchGetIDReqBuilder {
	b.req.UserIDType = t

	return b
}

func (b *BatchGetIDReqBuilder) Emails(emails ...string) *BatchGetIDReqBuilder {
	b.req.Body.Emails = append(b.req.Body.Emails, emails...)

	return b
}

func (b *BatchGetIDReqBuilder) Mobiles(mobiles ...string) *BatchGetIDReqBuilder {
	b.req.Body.Mobiles = append(b.req.Body.Mobiles, mobiles...)

	return b
}

func (b *BatchGetIDReqBuilder) IncludeResigned(include bool) *BatchGetIDReqBuilder {
	b.req.Body.IncludeResigned = include

	return b
}

func (b *BatchGetIDReqBuilder) Build() *BatchGetIDReq {
	req := b.req
	req.Body.Emails = append([]string(nil), b.req.Body.Emails...)
	req.Body.Mobiles = append([]string(nil), b.req.Body.Mobiles...)

	return &req
}

func (r *BatchGetIDReq) Validate() error {
	return lark.NewValidator().
		Check(len(r.Body.Emails)+len(r.Body.Mobiles) > 0, "emails or mobiles", "must not both be empty").
		MaxItems("emails", len(r.Body.Emails), batchGetIDMaxItems).
		MaxItems("mobiles", len(r.Body.Mobiles), batchGetIDMaxItems).
		OneOf("user_id_type", r.UserIDType, userIDTypes...).
		Err()
}

// UserContactInfo maps an email or mobile to a user id. UserID is empty when
// nobody in the tenant matches.
type UserContactInfo struct {
	UserID string      `json:"user_id,omitempty"`
	Email  string      `json:"email,omitempty"`
	Mobile string      `json:"mobile,omitempty"`
	Status *UserStatus `json:"status,omitempty"`
}

type BatchGetIDRespData struct {
	UserList []UserContactInfo `json:"user_list"`
}

// BatchGetID resolves emails and mobiles to user ids. Only tenant tokens are accepted.
func (s *UserService) BatchGetID(ctx context.Context,
	req *BatchGetIDReq,
	opts ...lark.RequestOption) (*lark.Response[BatchGetIDRespData], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	apiReq := lark.NewAPIRequest(http.MethodPost, batchGetIDPath, lark.AccessTokenTypeTenant)
	if req.UserIDType != "" {
		apiReq.QueryParams.Set("user_id_type", req.UserIDType)
	}
	apiReq.Body = req.Body

	return lark.Do[BatchGetIDRespData](ctx, s.client, apiReq, opts...)
}

func setIDTypes(apiReq *lark.APIRequest, userIDType, departmentIDType string) {
	if userIDType != "" {
		apiReq.QueryParams.Set("user_id_type", userIDType)
	}
	if departmentIDType != "" {
		apiReq.QueryParams.Set("department_id_type", departmentIDType)
	}
}
