package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"issue-tracker/internal/domain"
)

// TokenRepo is the database-backed refresh-token blacklist.
type TokenRepo struct{ db *gorm.DB }

func NewTokenRepo(db *gorm.DB) *TokenRepo { return &TokenRepo{db: db} }

// Revoke is idempotent: a second call for the same jti is a no-op.
func (r *TokenRepo) Revoke(ctx context.Context, jti string, userID uint64, expiresAt time.Time) error {
	rt := domain.RevokedToken{JTI: jti, UserID: userID, ExpiresAt: expiresAt}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "jti"}}, DoNothing: true}).
		Create(&rt).Error
}

func (r *TokenRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.RevokedToken{}).Where("jti = ?", jti).Count(&n).Error
	return n > 0, err
}

// PurgeExpired drops entries whose token could no longer be used anyway.
func (r *TokenRepo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&domain.RevokedToken{})
	return res.RowsAffected, res.Error
}
