package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"issue-tracker/internal/service"
)

// ErrorBody 统一错误格式：{"errors": {"<category>": ["<message>", ...]}}
type ErrorBody struct {
	Errors map[string][]string `json:"errors"`
}

type Message struct {
	Message string `json:"message"`
}

type Data struct {
	Data any `json:"data"`
}

func Errors(category string, msgs ...string) ErrorBody {
	return ErrorBody{Errors: map[string][]string{category: msgs}}
}

// FromError maps a service error to its status and body. known is false for
// errors that should be logged and hidden behind the internal error body.
func FromError(err error) (status int, body ErrorBody, known bool) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ErrorBody{Errors: ve.Fields}, true
	case errors.Is(err, service.ErrMissingField):
		return http.StatusBadRequest, Errors(CatAuthentication, err.Error()), true
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, Errors(CatAuthentication, service.ErrInvalidCredentials.Error()), true
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized, Errors(CatAuthentication, service.ErrUnauthenticated.Error()), true
	case errors.Is(err, service.ErrTokenExpired):
		return http.StatusUnauthorized, Errors(CatToken, service.ErrTokenExpired.Error()), true
	case errors.Is(err, service.ErrTokenRevoked):
		return http.StatusUnauthorized, Errors(CatToken, service.ErrTokenRevoked.Error()), true
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, Errors(CatPermission, service.ErrForbidden.Error()), true
	case errors.Is(err, service.ErrProjectNotFound):
		return http.StatusNotFound, Errors(CatNotFound, "Project not found"), true
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, Errors(CatNotFound, "User not found"), true
	}
	return http.StatusInternalServerError, Errors(CatInternal, MsgInternal), false
}

// Abort writes an error body and stops the handler chain.
func Abort(c *gin.Context, status int, category string, msgs ...string) {
	c.AbortWithStatusJSON(status, Errors(category, msgs...))
}

func AbortInternal(c *gin.Context) {
	Abort(c, http.StatusInternalServerError, CatInternal, MsgInternal)
}
