package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"issue-tracker/internal/domain"
	resp "issue-tracker/internal/transport/http/response"
)

const keyPrincipal = "principal"

type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*domain.User, error)
}

// AuthJWT resolves the bearer access token to a user and stores it as the
// request principal. Failures other than bad credentials (store errors) are
// logged before the 500 goes out.
func AuthJWT(a Authenticator, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		tok, _ := strings.CutPrefix(ah, "Bearer ")
		u, err := a.Authenticate(c.Request.Context(), strings.TrimSpace(tok))
		if err != nil {
			status, body, known := resp.FromError(err)
			if !known {
				l.Error("authentication failed",
					zap.String("rid", RequestIDFrom(c)),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Error(err),
				)
			}
			c.AbortWithStatusJSON(status, body)
			return
		}
		c.Set(keyPrincipal, u)
		c.Next()
	}
}

// Principal returns the authenticated user, or nil on public routes.
func Principal(c *gin.Context) *domain.User {
	if v, ok := c.Get(keyPrincipal); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}
