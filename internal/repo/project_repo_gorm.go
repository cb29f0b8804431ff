package repo

import (
	"context"

	"gorm.io/gorm"

	"issue-tracker/internal/domain"
	"issue-tracker/internal/query"
)

type ProjectRepo struct{ db *gorm.DB }

func NewProjectRepo(db *gorm.DB) *ProjectRepo { return &ProjectRepo{db: db} }

func (r *ProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *ProjectRepo) FindByID(ctx context.Context, id uint64) (*domain.Project, error) {
	var p domain.Project
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *ProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	return translate(r.db.WithContext(ctx).Model(p).Select("title", "description", "updated_at").Updates(p).Error)
}

// Delete removes the issues of the project and then the project itself in a
// single transaction.
func (r *ProjectRepo) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&domain.Issue{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Project{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (r *ProjectRepo) List(ctx context.Context, spec query.Spec) (query.Page[domain.Project], error) {
	return query.Run[domain.Project](ctx, r.db, spec)
}
