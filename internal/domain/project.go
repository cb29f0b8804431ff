package domain

import (
	"context"
	"time"

	"issue-tracker/internal/query"
)

type Project struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	OwnerID     uint64    `gorm:"not null;index" json:"owner"`
	Owner       *User     `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"size:500;not null" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime;index" json:"updated_at"`
}

func (Project) TableName() string { return "projects" }

type ProjectRepository interface {
	Create(ctx context.Context, p *Project) error
	FindByID(ctx context.Context, id uint64) (*Project, error)
	Update(ctx context.Context, p *Project) error
	// Delete removes the project and all of its issues atomically.
	Delete(ctx context.Context, id uint64) error
	List(ctx context.Context, spec query.Spec) (query.Page[Project], error)
}
