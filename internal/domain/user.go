package domain

import (
	"context"
	"time"
)

type User struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Username     string    `gorm:"size:50;not null" json:"username"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	IsAdmin      bool      `gorm:"not null;default:false" json:"is_admin"`
	IsStaff      bool      `gorm:"not null;default:true" json:"is_staff"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uint64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
}
