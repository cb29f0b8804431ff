package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"issue-tracker/internal/core/auth"
	"issue-tracker/internal/core/cache"
	"issue-tracker/internal/domain"
	"issue-tracker/pkg/utils"
)

type RegisterInput struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,bcrypt"`
}

type UpdateProfileInput struct {
	Username *string `json:"username" validate:"omitnil,min=1,max=50"`
	Email    *string `json:"email" validate:"omitnil,email,max=255"`
	Password *string `json:"password" validate:"omitnil,min=1,bcrypt"`
}

type AuthService struct {
	users   domain.UserRepository
	cache   *cache.Users
	jwt     *auth.JWTer
	revoked auth.RevocationStore
	log     *zap.Logger
}

type AuthOption func(*AuthService)

// WithUserCache resolves request principals through Redis.
func WithUserCache(c *cache.Users) AuthOption {
	return func(s *AuthService) { s.cache = c }
}

func NewAuthService(users domain.UserRepository, jwter *auth.JWTer, revoked auth.RevocationStore, log *zap.Logger, opts ...AuthOption) *AuthService {
	s := &AuthService{users: users, jwt: jwter, revoked: revoked, log: log}
	for _, o := range opts {
		o(s)
	}
	return s
}

// normalizeEmail lowercases the domain part only; the local part is case-sensitive.
func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndexByte(email, '@')
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	if err := check(in, ""); err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &domain.User{
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: hash,
		IsActive:     true,
		IsStaff:      true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, fieldError("email", "user with this email already exists.")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// ValidateCredentials returns the active user owning email when password
// matches its hash.
func (s *AuthService) ValidateCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, &MissingFieldError{Msg: "Email/password is required"}
	}
	u, err := s.users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		utils.BurnPasswordCheck(password)
		return nil, ErrInvalidCredentials
	case err != nil:
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !utils.CheckPassword(password, u.PasswordHash) || !u.IsActive {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *AuthService) IssueTokens(u *domain.User) (auth.Pair, error) {
	p, err := s.jwt.IssuePair(u.ID)
	if err != nil {
		return auth.Pair{}, fmt.Errorf("issue tokens: %w", err)
	}
	return p, nil
}

// Login validates the credentials and issues a token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (auth.Pair, error) {
	u, err := s.ValidateCredentials(ctx, email, password)
	observeAuth("login", err)
	if err != nil {
		return auth.Pair{}, err
	}
	pair, err := s.IssueTokens(u)
	if err != nil {
		return auth.Pair{}, err
	}
	s.log.Debug("tokens issued", zap.Uint64("uid", u.ID), zap.String("jti", pair.RefreshClaims.ID),
		zap.Time("refresh_exp", pair.RefreshClaims.ExpiresAt.Time))
	return pair, nil
}

// Refresh mints a new access token from a refresh token that is neither
// expired nor blacklisted.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	tok, err := s.refresh(ctx, refreshToken)
	observeAuth("refresh", err)
	return tok, err
}

func (s *AuthService) refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", &MissingFieldError{Msg: "Refresh token is required"}
	}
	c, err := s.jwt.Parse(refreshToken, auth.TypeRefresh)
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return "", ErrTokenExpired
	case err != nil:
		return "", fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	revoked, err := s.revoked.IsRevoked(ctx, c.ID)
	if err != nil {
		return "", fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return "", ErrTokenRevoked
	}
	u, err := s.users.FindByID(ctx, c.UID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "", ErrUnauthenticated
	case err != nil:
		return "", fmt.Errorf("find user: %w", err)
	case !u.IsActive:
		return "", ErrUnauthenticated
	}
	access, err := s.jwt.Issue(u.ID)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	return access, nil
}

// Logout blacklists the refresh token. Logging out twice, or with a token
// that has already expired, succeeds without doing anything.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	err := s.logout(ctx, refreshToken)
	observeAuth("logout", err)
	return err
}

func (s *AuthService) logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return &MissingFieldError{Msg: "Refresh token is required"}
	}
	c, err := s.jwt.Parse(refreshToken, auth.TypeRefresh)
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return nil
	case err != nil:
		return fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	// Parse 在 exp 之后仍有 Leeway 宽限，黑名单要覆盖到宽限结束
	if err := s.revoked.Revoke(ctx, c.ID, c.UID, c.ExpiresAt.Add(s.jwt.Leeway)); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.log.Info("refresh token revoked", zap.Uint64("uid", c.UID), zap.String("jti", c.ID))
	return nil
}

// Authenticate resolves the principal of an access token.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	if accessToken == "" {
		return nil, ErrUnauthenticated
	}
	c, err := s.jwt.Parse(accessToken, auth.TypeAccess)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	u, err := s.findUser(ctx, c.UID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil, ErrUnauthenticated
	case err != nil:
		return nil, fmt.Errorf("find user: %w", err)
	case !u.IsActive:
		return nil, ErrUnauthenticated
	}
	return u, nil
}

func (s *AuthService) findUser(ctx context.Context, id uint64) (*domain.User, error) {
	if s.cache != nil {
		u, err := s.cache.FindByID(ctx, id)
		if err == nil || errors.Is(err, domain.ErrNotFound) {
			return u, err
		}
		// Redis 不可用时回源数据库
		s.log.Warn("user cache unavailable", zap.Error(err))
	}
	return s.users.FindByID(ctx, id)
}

func (s *AuthService) UpdateProfile(ctx context.Context, principal *domain.User, in UpdateProfileInput) (*domain.User, error) {
	if in.Email != nil {
		e := normalizeEmail(*in.Email)
		in.Email = &e
	}
	if err := check(in, ""); err != nil {
		return nil, err
	}
	u, err := s.users.FindByID(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if in.Username != nil {
		u.Username = strings.TrimSpace(*in.Username)
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.Password != nil {
		hash, err := utils.HashPassword(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = hash
	}
	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, fieldError("email", "user with this email already exists.")
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.Forget(ctx, u.ID); err != nil {
			s.log.Warn("user cache invalidation failed", zap.Uint64("uid", u.ID), zap.Error(err))
		}
	}
	return u, nil
}
