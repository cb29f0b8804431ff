package middleware

import (
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resp "issue-tracker/internal/transport/http/response"
)

// Recovery logs the panic with its stack and answers with the internal error
// body. Mount it after RequestID so the log line carries the rid.
func Recovery(l *zap.Logger) gin.HandlerFunc {
	onPanic := func(c *gin.Context, _ any) { resp.AbortInternal(c) }
	return func(c *gin.Context) {
		ginzap.CustomRecoveryWithZap(l.With(zap.String("rid", RequestIDFrom(c))), true, onPanic)(c)
	}
}
