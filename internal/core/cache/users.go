package cache

import (
	"context"
	"fmt"
	"time"

	"issue-tracker/internal/domain"
)

type userFinder interface {
	FindByID(ctx context.Context, id uint64) (*domain.User, error)
}

// Users fronts a user lookup with Redis. Only the public fields of the user
// survive the round trip; the password hash is never cached.
type Users struct {
	C    *Cache
	TTL  time.Duration
	Repo userFinder
}

func userKey(id uint64) string { return fmt.Sprintf("user:%d", id) }

func (u *Users) FindByID(ctx context.Context, id uint64) (*domain.User, error) {
	got, err := GetOrLoadJSON(u.C, ctx, userKey(id), u.TTL, func(ctx context.Context) (*domain.User, error) {
		return u.Repo.FindByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	if got == nil {
		return nil, domain.ErrNotFound
	}
	return got, nil
}

func (u *Users) Forget(ctx context.Context, id uint64) error {
	return u.C.Delete(ctx, userKey(id))
}
