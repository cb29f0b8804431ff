package handler

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"issue-tracker/internal/domain"
	"issue-tracker/internal/query"
	"issue-tracker/internal/service"
	"issue-tracker/internal/transport/http/ez"
)

type IssueHandler struct {
	svc *service.IssueService
	log *zap.Logger
}

func NewIssueHandler(svc *service.IssueService, l *zap.Logger) *IssueHandler {
	return &IssueHandler{svc: svc, log: l}
}

func (h *IssueHandler) Mount(_, private *gin.RouterGroup) {
	e := ez.New(private, h.log)

	// 过滤条件可放在 query string 或 JSON body 中
	ez.Register(e, ez.Action[struct{}, query.Page[domain.Issue]]{
		Method: http.MethodGet,
		Path:   "/issues",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *domain.User, _ *struct{}) (query.Page[domain.Issue], error) {
			r := listRequest(c)
			if err := mergeJSONBody(c, &r); err != nil {
				return query.Page[domain.Issue]{}, ez.BadBody(err)
			}
			return h.svc.List(c.Request.Context(), r)
		},
	})

	// 单个对象或数组
	ez.Register(e, ez.Action[struct{}, any]{
		Method: http.MethodPost,
		Path:   "/issues",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, p *domain.User, _ *struct{}) (any, error) {
			raw, err := c.GetRawData()
			if err != nil {
				return nil, ez.BadBody(err)
			}
			raw = bytes.TrimSpace(raw)
			if len(raw) > 0 && raw[0] == '[' {
				var batch []service.IssueInput
				if err := json.Unmarshal(raw, &batch); err != nil {
					return nil, ez.BadBody(err)
				}
				return h.svc.BulkCreate(c.Request.Context(), p, batch, true)
			}
			var in service.IssueInput
			if err := json.Unmarshal(raw, &in); err != nil {
				return nil, ez.BadBody(err)
			}
			return h.svc.Create(c.Request.Context(), p, in)
		},
	})
}
