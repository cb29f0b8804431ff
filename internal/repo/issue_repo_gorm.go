package repo

import (
	"context"

	"gorm.io/gorm"

	"issue-tracker/internal/domain"
	"issue-tracker/internal/query"
)

type IssueRepo struct{ db *gorm.DB }

func NewIssueRepo(db *gorm.DB) *IssueRepo { return &IssueRepo{db: db} }

func (r *IssueRepo) Create(ctx context.Context, is *domain.Issue) error {
	return translate(r.db.WithContext(ctx).Create(is).Error)
}

// BulkCreate inserts all issues in one transaction, in batches of the
// session's CreateBatchSize.
func (r *IssueRepo) BulkCreate(ctx context.Context, issues []domain.Issue) error {
	if len(issues) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&issues).Error
	}))
}

func (r *IssueRepo) CountByProject(ctx context.Context, projectID uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Issue{}).Where("project_id = ?", projectID).Count(&n).Error
	return n, err
}

func (r *IssueRepo) List(ctx context.Context, spec query.Spec) (query.Page[domain.Issue], error) {
	return query.Run[domain.Issue](ctx, r.db, spec)
}
