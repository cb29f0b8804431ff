package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenType string

const (
	TypeAccess  TokenType = "access"
	TypeRefresh TokenType = "refresh"
)

var (
	ErrTokenInvalid   = errors.New("token invalid")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenWrongType = errors.New("token has wrong type")
)

type Claims struct {
	UID  uint64    `json:"uid"`
	Type TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

type Pair struct {
	Access  string
	Refresh string
	// RefreshClaims is kept so callers can log or store the jti without re-parsing.
	RefreshClaims *Claims
}

type JWTer struct {
	Secret     []byte
	Issuer     string
	TTL        time.Duration // access token
	RefreshTTL time.Duration
	Leeway     time.Duration
	// Now is overridable in tests.
	Now func() time.Time
}

func (j *JWTer) now() time.Time {
	if j.Now != nil {
		return j.Now()
	}
	return time.Now()
}

func (j *JWTer) sign(uid uint64, typ TokenType, ttl time.Duration) (string, *Claims, error) {
	now := j.now()
	claims := &Claims{
		UID:  uid,
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprint(uid),
			Issuer:    j.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.Secret)
	if err != nil {
		return "", nil, err
	}
	return s, claims, nil
}

// Issue signs a short-lived access token for uid.
func (j *JWTer) Issue(uid uint64) (string, error) {
	s, _, err := j.sign(uid, TypeAccess, j.TTL)
	return s, err
}

// IssuePair signs an access token and a refresh token for uid.
func (j *JWTer) IssuePair(uid uint64) (Pair, error) {
	access, err := j.Issue(uid)
	if err != nil {
		return Pair{}, err
	}
	refresh, rc, err := j.sign(uid, TypeRefresh, j.RefreshTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Access: access, Refresh: refresh, RefreshClaims: rc}, nil
}

// Parse verifies signature, issuer, expiry and token type.
func (j *JWTer) Parse(tokenStr string, want TokenType) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg %v", token.Header["alg"])
		}
		return j.Secret, nil
	},
		jwt.WithIssuer(j.Issuer),
		jwt.WithLeeway(j.Leeway),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid || c.UID == 0 {
		return nil, ErrTokenInvalid
	}
	if c.Type != want {
		return nil, ErrTokenWrongType
	}
	return c, nil
}
