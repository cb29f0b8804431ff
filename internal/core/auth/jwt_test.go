package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTer(now *time.Time) *JWTer {
	return &JWTer{
		Secret:     []byte("test-secret"),
		Issuer:     "issue-tracker",
		TTL:        5 * time.Minute,
		RefreshTTL: 24 * time.Hour,
		Now:        func() time.Time { return *now },
	}
}

func TestIssuePair_RoundTrip(t *testing.T) {
	now := time.Now()
	j := newTestJWTer(&now)

	p, err := j.IssuePair(42)
	require.NoError(t, err)
	require.NotEqual(t, p.Access, p.Refresh)

	ac, err := j.Parse(p.Access, TypeAccess)
	require.NoError(t, err)
	assert.EqualValues(t, 42, ac.UID)

	rc, err := j.Parse(p.Refresh, TypeRefresh)
	require.NoError(t, err)
	assert.EqualValues(t, 42, rc.UID)
	assert.Equal(t, p.RefreshClaims.ID, rc.ID)
	assert.NotEmpty(t, rc.ID)
}

func TestParse_WrongType(t *testing.T) {
	now := time.Now()
	j := newTestJWTer(&now)
	p, err := j.IssuePair(1)
	require.NoError(t, err)

	_, err = j.Parse(p.Refresh, TypeAccess)
	assert.True(t, errors.Is(err, ErrTokenWrongType))
	_, err = j.Parse(p.Access, TypeRefresh)
	assert.True(t, errors.Is(err, ErrTokenWrongType))
}

func TestParse_Expired(t *testing.T) {
	now := time.Now()
	j := newTestJWTer(&now)
	p, err := j.IssuePair(1)
	require.NoError(t, err)

	now = now.Add(10 * time.Minute)
	_, err = j.Parse(p.Access, TypeAccess)
	assert.True(t, errors.Is(err, ErrTokenExpired))

	// refresh token outlives the access token
	_, err = j.Parse(p.Refresh, TypeRefresh)
	assert.NoError(t, err)

	now = now.Add(48 * time.Hour)
	_, err = j.Parse(p.Refresh, TypeRefresh)
	assert.True(t, errors.Is(err, ErrTokenExpired))
}

func TestParse_Tampered(t *testing.T) {
	now := time.Now()
	j := newTestJWTer(&now)
	tok, err := j.Issue(7)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	_, err = j.Parse(parts[0]+"."+parts[1]+"."+string(sig), TypeAccess)
	assert.True(t, errors.Is(err, ErrTokenInvalid))

	_, err = j.Parse("garbage", TypeAccess)
	assert.True(t, errors.Is(err, ErrTokenInvalid))
}

func TestParse_UntrustedKeyOrIssuer(t *testing.T) {
	now := time.Now()
	j := newTestJWTer(&now)

	other := newTestJWTer(&now)
	other.Secret = []byte("someone-else")
	tok, err := other.Issue(7)
	require.NoError(t, err)
	_, err = j.Parse(tok, TypeAccess)
	assert.True(t, errors.Is(err, ErrTokenInvalid))

	other = newTestJWTer(&now)
	other.Issuer = "elsewhere"
	tok, err = other.Issue(7)
	require.NoError(t, err)
	_, err = j.Parse(tok, TypeAccess)
	assert.True(t, errors.Is(err, ErrTokenInvalid))
}
