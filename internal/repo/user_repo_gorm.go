package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"issue-tracker/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *UserRepo) FindByID(ctx context.Context, id uint64) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	return translate(r.db.WithContext(ctx).Save(u).Error)
}

// translate maps gorm/driver errors onto the domain sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isDupKey(err):
		return errors.Join(domain.ErrDuplicate, err)
	default:
		return err
	}
}

func isDupKey(err error) bool {
	// 兜底：驱动未实现 ErrorTranslator 时按报错文本判断
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}
