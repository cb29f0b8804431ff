package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedPrefix = "revoked:refresh:"

// RevocationList keeps blacklisted refresh-token ids in Redis until the token
// would have expired on its own.
type RevocationList struct {
	RDB *redis.Client
	Now func() time.Time
}

func NewRevocationList(rdb *redis.Client) *RevocationList {
	return &RevocationList{RDB: rdb, Now: time.Now}
}

func (r *RevocationList) Revoke(ctx context.Context, jti string, userID uint64, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.Now())
	if ttl <= 0 {
		return nil // 已过期的令牌本身就无法再使用
	}
	// SetNX：重复吊销不改写原记录
	return r.RDB.SetNX(ctx, revokedPrefix+jti, userID, ttl).Err()
}

func (r *RevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := r.RDB.Get(ctx, revokedPrefix+jti).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	default:
		return false, err
	}
}
