package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"issue-tracker/internal/domain"
	"issue-tracker/internal/service"
	"issue-tracker/internal/transport/http/ez"
	resp "issue-tracker/internal/transport/http/response"
)

type AuthHandler struct {
	svc *service.AuthService
	log *zap.Logger
}

func NewAuthHandler(svc *service.AuthService, l *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: l}
}

func (*AuthHandler) Priority() int { return 10 }

type registerOut struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

type loginIn struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginOut struct {
	Message      string `json:"message"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type refreshIn struct {
	RefreshToken string `json:"refresh_token"`
}

type accessOut struct {
	AccessToken string `json:"access_token"`
}

// bindLoose decodes an optional JSON body. An absent body leaves in zeroed so
// the service reports the missing fields; a malformed one is a 400.
func bindLoose(c *gin.Context, in any) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(in); err != nil && !errors.Is(err, io.EOF) {
		return ez.BadBody(err)
	}
	return nil
}

func (h *AuthHandler) Mount(public, private *gin.RouterGroup) {
	pub := ez.New(public, h.log)

	ez.Register(pub, ez.Action[service.RegisterInput, registerOut]{
		Method: http.MethodPost,
		Path:   "/register",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, _ *domain.User, in *service.RegisterInput) (registerOut, error) {
			u, err := h.svc.Register(c.Request.Context(), *in)
			if err != nil {
				return registerOut{}, err
			}
			return registerOut{Email: u.Email, Username: u.Username}, nil
		},
	})

	ez.Register(pub, ez.Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *domain.User, in *loginIn) (loginOut, error) {
			if err := bindLoose(c, in); err != nil {
				return loginOut{}, err
			}
			pair, err := h.svc.Login(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				return loginOut{}, err
			}
			return loginOut{
				Message:      "Logged in successfully",
				AccessToken:  pair.Access,
				RefreshToken: pair.Refresh,
			}, nil
		},
	})

	ez.Register(pub, ez.Action[refreshIn, resp.Message]{
		Method: http.MethodPost,
		Path:   "/logout",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *domain.User, in *refreshIn) (resp.Message, error) {
			if err := bindLoose(c, in); err != nil {
				return resp.Message{}, err
			}
			if err := h.svc.Logout(c.Request.Context(), in.RefreshToken); err != nil {
				return resp.Message{}, err
			}
			return resp.Message{Message: "Logged out successfully"}, nil
		},
	})

	ez.Register(pub, ez.Action[refreshIn, accessOut]{
		Method: http.MethodPost,
		Path:   "/token/refresh",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *domain.User, in *refreshIn) (accessOut, error) {
			if err := bindLoose(c, in); err != nil {
				return accessOut{}, err
			}
			tok, err := h.svc.Refresh(c.Request.Context(), in.RefreshToken)
			if err != nil {
				return accessOut{}, err
			}
			return accessOut{AccessToken: tok}, nil
		},
	})

	priv := ez.New(private, h.log)

	ez.Register(priv, ez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(_ *gin.Context, p *domain.User, _ *struct{}) (*domain.User, error) {
			return p, nil
		},
	})

	ez.Register(priv, ez.Action[service.UpdateProfileInput, *domain.User]{
		Method: http.MethodPut,
		Path:   "/me",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, p *domain.User, in *service.UpdateProfileInput) (*domain.User, error) {
			return h.svc.UpdateProfile(c.Request.Context(), p, *in)
		},
	})
}
