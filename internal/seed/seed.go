// Package seed fills a database with demo data and bootstrap accounts.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"

	"issue-tracker/internal/domain"
	"issue-tracker/pkg/utils"
)

const DefaultIssueCount = 30

// FakeIssues builds n issues owned by ownerID on projectID. Titles are fake
// person names and descriptions fake street/city lines.
func FakeIssues(f *gofakeit.Faker, n int, ownerID, projectID uint64) []domain.Issue {
	out := make([]domain.Issue, n)
	for i := range out {
		out[i] = domain.Issue{
			OwnerID:     ownerID,
			ProjectID:   projectID,
			Title:       f.Name(),
			Description: f.Street() + ", " + f.City(),
		}
	}
	return out
}

type Seeder struct {
	Users    domain.UserRepository
	Projects domain.ProjectRepository
	Issues   domain.IssueRepository
	Faker    *gofakeit.Faker
}

// SeedIssues creates n fake issues for the user owning email on project. The
// project must exist.
func (s *Seeder) SeedIssues(ctx context.Context, email string, projectID uint64, n int) ([]domain.Issue, error) {
	if n <= 0 {
		n = DefaultIssueCount
	}
	u, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("owner %q: %w", email, err)
	}
	if _, err := s.Projects.FindByID(ctx, projectID); err != nil {
		return nil, fmt.Errorf("project %d: %w", projectID, err)
	}
	issues := FakeIssues(s.Faker, n, u.ID, projectID)
	if err := s.Issues.BulkCreate(ctx, issues); err != nil {
		return nil, fmt.Errorf("bulk create: %w", err)
	}
	return issues, nil
}

// SeedAdmin creates an active admin account, or promotes an existing one.
func (s *Seeder) SeedAdmin(ctx context.Context, email, username, password string) (*domain.User, bool, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, false, errors.New("email and password are required")
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, false, err
	}
	u, err := s.Users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		if username == "" {
			username, _, _ = strings.Cut(email, "@")
		}
		u = &domain.User{
			Email:        email,
			Username:     username,
			PasswordHash: hash,
			IsActive:     true,
			IsStaff:      true,
			IsAdmin:      true,
		}
		if err := s.Users.Create(ctx, u); err != nil {
			return nil, false, err
		}
		return u, true, nil
	case err != nil:
		return nil, false, err
	}
	u.IsAdmin, u.IsStaff, u.IsActive = true, true, true
	u.PasswordHash = hash
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, false, err
	}
	return u, false, nil
}
