package domain

import "time"

// RevokedToken is one entry of the refresh-token blacklist, keyed by the JWT id.
type RevokedToken struct {
	ID        uint64    `gorm:"primaryKey"`
	JTI       string    `gorm:"uniqueIndex;size:64;not null"`
	UserID    uint64    `gorm:"index;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (RevokedToken) TableName() string { return "revoked_tokens" }

// Models lists every persisted type, in dependency order, for AutoMigrate.
func Models() []any {
	return []any{&User{}, &Project{}, &Issue{}, &RevokedToken{}}
}
