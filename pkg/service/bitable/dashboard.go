package bitable

import (
	"context"
	"net/http"
	"strconv"

	"openlark/pkg/lark"
)

type DashboardItem struct {
	BlockID string `json:"block_id"`
	Name    string `json:"name"`
}

// AppDashboardService lists the dashboards of a base.
type AppDashboardService struct {
	client *lark.Client
}

type ListAppDashboardReq struct {
	AppToken  string
	PageSize  int
	PageToken string
}

type ListAppDashboardReqBuilder struct {
	req ListAppDashboardReq
}

func NewListAppDashboardReqBuilder() *ListAppDashboardReqBuilder {
	return &ListAppDashboardReqBuilder{}
}

func (b *ListAppDashboardReqBuilder) AppToken(token string) *ListAppDashboardReqBuilder {
	b.req.AppToken = token

	return b
}

func (b *ListAppDashboardReqBuilder) PageSize(size int) *ListAppDashboardReqBuilder {
	b.req.PageSize = size

	return b
}

func (b *ListAppDashboardReqBuilder) PageToken(token string) *ListAppDashboardReqBuilder {
	b.req.PageToken = token

	return b
}

func (b *ListAppDashboardReqBuilder) Build() *ListAppDashboardReq {
	req := b.req
	req.PageSize = lark.ClampPageSize(req.PageSize, dashboardsDefaultPage, dashboardsMaxPage)

	return &req
}

func (r *ListAppDashboardReq) Validate() error {
	return lark.NewValidator().Required("app_token", r.AppToken).Err()
}

// ListAppDashboardRespData differs from other list responses: the items are
// under "dashboards".
type ListAppDashboardRespData struct {
	Dashboards []DashboardItem `json:"dashboards"`
	PageToken  string          `json:"page_token"`
	HasMore    bool            `json:"has_more"`
}

// List returns one page of dashboards.
func (s *AppDashboardService) List(ctx context.Context,
	req *ListAppDashboardReq,
	opts ...lark.RequestOption) (*lark.Response[ListAppDashboardRespData], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	apiReq := lark.NewAPIRequest(http.MethodGet, dashboardsPath, tokenTypes...)
	apiReq.PathParams.Set("app_token", req.AppToken)
	apiReq.QueryParams.Set("page_size", strconv.Itoa(lark.ClampPageSize(req.PageSize, dashboardsDefaultPage, dashboardsMaxPage)))
	if req.PageToken != "" {
		apiReq.QueryParams.Set("page_token", req.PageToken)
	}

	return lark.Do[ListAppDashboardRespData](ctx, s.client, apiReq, opts...)
}

// ListIterator walks every dashboard of a base.
func (s *AppDashboardService) ListIterator(req *ListAppDashboardReq, opts ...lark.RequestOption) *lark.Iterator[DashboardItem] {
	return lark.NewIteratorFrom(req.PageToken, func(ctx context.Context, pageToken string) (*lark.PageResult[DashboardItem], error) {
		page := *req
		page.PageToken = pageToken

		resp, err := s.List(ctx, &page, opts...)
		if err != nil {
			return nil, err
		}

		return &lark.PageResult[DashboardItem]{
			Items:     resp.Data.Dashboards,
			PageToken: resp.Data.PageToken,
			HasMore:   resp.Data.HasMore,
		}, nil
	})
}
