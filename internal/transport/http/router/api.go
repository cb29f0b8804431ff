package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"issue-tracker/internal/core/config"
	"issue-tracker/internal/core/server"
	"issue-tracker/internal/service"
	"issue-tracker/internal/transport/http/handler"
	mdw "issue-tracker/internal/transport/http/middleware"
)

type Services struct {
	Auth     *service.AuthService
	Projects *service.ProjectService
	Issues   *service.IssueService
}

// NewAPIEngine builds the public HTTP surface under /api plus /health and /metrics.
func NewAPIEngine(l *zap.Logger, lim config.Limits, svc Services) *gin.Engine {
	r := server.NewRouter(l)

	chain := []gin.HandlerFunc{mdw.Metrics(), mdw.AccessLog(l)}
	if lim.RPS > 0 {
		chain = append(chain, mdw.RateLimit(rate.Limit(lim.RPS), lim.Burst))
	}
	if lim.PerIPRPS > 0 {
		chain = append(chain, mdw.RateLimitPerIP(rate.Limit(lim.PerIPRPS), lim.PerIPBurst))
	}
	if lim.Concurrency > 0 {
		chain = append(chain, mdw.ConcurrencyLimit(lim.Concurrency))
	}
	if lim.MaxBodyBytes > 0 {
		chain = append(chain, mdw.MaxBodyBytes(lim.MaxBodyBytes))
	}
	if lim.TimeoutSec > 0 {
		chain = append(chain, mdw.Timeout(time.Duration(lim.TimeoutSec)*time.Second))
	}
	r.Use(chain...)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	private := api.Group("")
	private.Use(mdw.AuthJWT(svc.Auth, l))

	var reg Registry
	reg.Register(
		handler.NewAuthHandler(svc.Auth, l),
		handler.NewProjectHandler(svc.Projects, l),
		handler.NewIssueHandler(svc.Issues, l),
	)
	reg.MountAll(api, private)
	return r
}
