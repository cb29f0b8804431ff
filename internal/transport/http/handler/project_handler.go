package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"issue-tracker/internal/domain"
	"issue-tracker/internal/query"
	"issue-tracker/internal/service"
	"issue-tracker/internal/transport/http/ez"
	resp "issue-tracker/internal/transport/http/response"
)

type ProjectHandler struct {
	svc *service.ProjectService
	log *zap.Logger
}

func NewProjectHandler(svc *service.ProjectService, l *zap.Logger) *ProjectHandler {
	return &ProjectHandler{svc: svc, log: l}
}

func (h *ProjectHandler) Mount(_, private *gin.RouterGroup) {
	e := ez.New(private, h.log)

	ez.Register(e, ez.Action[struct{}, query.Page[domain.Project]]{
		Method: http.MethodGet,
		Path:   "/projects",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *domain.User, _ *struct{}) (query.Page[domain.Project], error) {
			return h.svc.List(c.Request.Context(), listRequest(c))
		},
	})

	ez.Register(e, ez.Action[service.ProjectInput, *domain.Project]{
		Method: http.MethodPost,
		Path:   "/projects",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, p *domain.User, in *service.ProjectInput) (*domain.Project, error) {
			return h.svc.Create(c.Request.Context(), p, *in)
		},
	})

	ez.Register(e, ez.Action[struct{}, resp.Data]{
		Method: http.MethodGet,
		Path:   "/project/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *domain.User, _ *struct{}) (resp.Data, error) {
			id, ok := parseID(c, "id")
			if !ok {
				return resp.Data{}, service.ErrProjectNotFound
			}
			pr, err := h.svc.Get(c.Request.Context(), id)
			if err != nil {
				return resp.Data{}, err
			}
			return resp.Data{Data: pr}, nil
		},
	})

	ez.Register(e, ez.Action[service.ProjectInput, *domain.Project]{
		Method: http.MethodPut,
		Path:   "/project/:id",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, p *domain.User, in *service.ProjectInput) (*domain.Project, error) {
			id, ok := parseID(c, "id")
			if !ok {
				return nil, service.ErrProjectNotFound
			}
			return h.svc.Update(c.Request.Context(), p, id, *in)
		},
	})

	ez.Register(e, ez.Action[struct{}, resp.Message]{
		Method: http.MethodDelete,
		Path:   "/project/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, p *domain.User, _ *struct{}) (resp.Message, error) {
			id, ok := parseID(c, "id")
			if !ok {
				return resp.Message{}, service.ErrProjectNotFound
			}
			if err := h.svc.Delete(c.Request.Context(), p, id); err != nil {
				return resp.Message{}, err
			}
			return resp.Message{Message: "Project removed"}, nil
		},
	})
}
