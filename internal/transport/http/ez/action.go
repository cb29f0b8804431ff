// Package ez registers typed request handlers ("actions") on gin groups.
// An action binds its input, runs with the request principal and answers with
// either its output or the uniform error body.
package ez

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"issue-tracker/internal/domain"
	"issue-tracker/internal/service"
	mdw "issue-tracker/internal/transport/http/middleware"
	resp "issue-tracker/internal/transport/http/response"
)

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ { return EZ{g: g, log: l} }

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param / body 取
)

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method string
	Path   string
	Binder Binder
	// Auth requires a principal; the group must run the JWT middleware.
	Auth    bool
	Handler func(c *gin.Context, p *domain.User, in *I) (O, error)
}

// Register mounts the action on the group.
func Register[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		p := mdw.Principal(c)
		if a.Auth && p == nil {
			Fail(c, e.log, service.ErrUnauthenticated)
			return
		}

		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			Fail(c, e.log, BadBody(bindErr))
			return
		}

		out, err := a.Handler(c, p, &in)
		if err != nil {
			Fail(c, e.log, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}

// BadBody turns a decode failure into a client-facing validation error.
func BadBody(err error) error {
	var mbe *http.MaxBytesError
	switch {
	case errors.As(err, &mbe):
		return &service.ValidationError{Fields: map[string][]string{resp.CatNonField: {"Request body too large."}}}
	case errors.Is(err, io.EOF):
		return &service.ValidationError{Fields: map[string][]string{resp.CatNonField: {"Request body is empty."}}}
	default:
		return &service.ValidationError{Fields: map[string][]string{resp.CatNonField: {"Malformed request body."}}}
	}
}

// Fail writes the error response; unexpected errors are logged once here.
func Fail(c *gin.Context, l *zap.Logger, err error) {
	status, body, known := resp.FromError(err)
	if !known {
		l.Error("request failed",
			zap.String("rid", mdw.RequestIDFrom(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(status, body)
}
