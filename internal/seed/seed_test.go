package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"issue-tracker/internal/domain"
	"issue-tracker/internal/repo"
	"issue-tracker/internal/testutil"
	"issue-tracker/pkg/utils"
)

func newSeeder(t *testing.T) *Seeder {
	db := testutil.OpenDB(t)
	return &Seeder{
		Users:    repo.NewUserRepo(db),
		Projects: repo.NewProjectRepo(db),
		Issues:   repo.NewIssueRepo(db),
		Faker:    gofakeit.New(42),
	}
}

func TestFakeIssues(t *testing.T) {
	issues := FakeIssues(gofakeit.New(1), 5, 3, 9)
	require.Len(t, issues, 5)
	for _, is := range issues {
		assert.EqualValues(t, 3, is.OwnerID)
		assert.EqualValues(t, 9, is.ProjectID)
		assert.NotEmpty(t, is.Title)
		assert.Contains(t, is.Description, ", ")
	}
}

func TestSeedIssues(t *testing.T) {
	s := newSeeder(t)
	ctx := context.Background()

	admin, created, err := s.SeedAdmin(ctx, "root@x.com", "", "pw")
	require.NoError(t, err)
	require.True(t, created)
	p := &domain.Project{OwnerID: admin.ID, Title: "Seeded project", Description: "holds the demo issues"}
	require.NoError(t, s.Projects.Create(ctx, p))

	issues, err := s.SeedIssues(ctx, "root@x.com", p.ID, 0)
	require.NoError(t, err)
	assert.Len(t, issues, DefaultIssueCount)

	n, err := s.Issues.CountByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, DefaultIssueCount, n)

	_, err = s.SeedIssues(ctx, "root@x.com", p.ID+100, 3)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	_, err = s.SeedIssues(ctx, "ghost@x.com", p.ID, 3)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestSeedAdmin_PromotesExisting(t *testing.T) {
	s := newSeeder(t)
	ctx := context.Background()
	require.NoError(t, s.Users.Create(ctx, &domain.User{Email: "me@x.com", Username: "me", PasswordHash: "x", IsActive: true}))

	u, created, err := s.SeedAdmin(ctx, "me@x.com", "", "new-pw")
	require.NoError(t, err)
	assert.False(t, created)
	assert.True(t, u.IsAdmin)

	got, err := s.Users.FindByEmail(ctx, "me@x.com")
	require.NoError(t, err)
	assert.True(t, got.IsAdmin)
	assert.Equal(t, "me", got.Username)
	assert.True(t, utils.CheckPassword("new-pw", got.PasswordHash))
}
