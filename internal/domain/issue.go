package domain

import (
	"context"
	"time"

	"issue-tracker/internal/query"
)

type Issue struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	OwnerID     uint64    `gorm:"not null;index" json:"owner"`
	Owner       *User     `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	ProjectID   uint64    `gorm:"not null;index" json:"project"`
	Project     *Project  `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"size:500;not null" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime;index" json:"updated_at"`
}

func (Issue) TableName() string { return "issues" }

type IssueRepository interface {
	Create(ctx context.Context, is *Issue) error
	BulkCreate(ctx context.Context, issues []Issue) error
	CountByProject(ctx context.Context, projectID uint64) (int64, error)
	List(ctx context.Context, spec query.Spec) (query.Page[Issue], error)
}
