package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mdw "issue-tracker/internal/transport/http/middleware"
)

// NewRouter returns a bare engine with request ids, panic recovery and CORS.
func NewRouter(l *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(mdw.RequestID(), mdw.Recovery(l))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", mdw.KeyRequestID},
		ExposeHeaders:   []string{mdw.KeyRequestID},
		MaxAge:          12 * time.Hour,
	}))
	return r
}

func BuildServer(addr string, handler http.Handler, rt, wt, it time.Duration) *http.Server {
	return &http.Server{
		Addr:           addr,
		Handler:        handler,
		ReadTimeout:    rt,
		WriteTimeout:   wt,
		IdleTimeout:    it,
		MaxHeaderBytes: 1 << 20, // 1MB
	}
}

func Addr(host string, port int) string { return fmt.Sprintf("%s:%d", host, port) }
