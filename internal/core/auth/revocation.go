package auth

import (
	"context"
	"time"
)

// RevocationStore is the refresh-token blacklist. Implementations must make
// Revoke idempotent and safe for concurrent use.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, userID uint64, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
