package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"issue-tracker/internal/domain"
	"issue-tracker/internal/query"
	"issue-tracker/internal/testutil"
)

type RepoTestSuite struct {
	suite.Suite
	ctx      context.Context
	users    *UserRepo
	projects *ProjectRepo
	issues   *IssueRepo
	tokens   *TokenRepo
}

func (s *RepoTestSuite) SetupTest() {
	db := testutil.OpenDB(s.T())
	s.ctx = context.Background()
	s.users = NewUserRepo(db)
	s.projects = NewProjectRepo(db)
	s.issues = NewIssueRepo(db)
	s.tokens = NewTokenRepo(db)
}

func (s *RepoTestSuite) createUser(email string) *domain.User {
	u := &domain.User{Email: email, Username: "u", PasswordHash: "x", IsActive: true}
	s.Require().NoError(s.users.Create(s.ctx, u))
	return u
}

func (s *RepoTestSuite) createProject(owner uint64, title string) *domain.Project {
	p := &domain.Project{OwnerID: owner, Title: title, Description: "a description long enough"}
	s.Require().NoError(s.projects.Create(s.ctx, p))
	return p
}

func (s *RepoTestSuite) TestUser_FindByEmailAndNotFound() {
	u := s.createUser("a@x.com")

	got, err := s.users.FindByEmail(s.ctx, "a@x.com")
	s.Require().NoError(err)
	s.Equal(u.ID, got.ID)

	_, err = s.users.FindByEmail(s.ctx, "missing@x.com")
	s.True(errors.Is(err, domain.ErrNotFound))
	_, err = s.users.FindByID(s.ctx, 9999)
	s.True(errors.Is(err, domain.ErrNotFound))
}

func (s *RepoTestSuite) TestUser_DuplicateEmail() {
	s.createUser("dup@x.com")
	err := s.users.Create(s.ctx, &domain.User{Email: "dup@x.com", Username: "other", PasswordHash: "y"})
	s.True(errors.Is(err, domain.ErrDuplicate), "got %v", err)
}

func (s *RepoTestSuite) TestProject_UpdateAndFind() {
	u := s.createUser("o@x.com")
	p := s.createProject(u.ID, "Original title")

	p.Title = "Renamed project"
	s.Require().NoError(s.projects.Update(s.ctx, p))

	got, err := s.projects.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("Renamed project", got.Title)
	s.Equal(u.ID, got.OwnerID)
}

func (s *RepoTestSuite) TestProject_DeleteCascadesIssues() {
	u := s.createUser("c@x.com")
	doomed := s.createProject(u.ID, "Doomed project")
	kept := s.createProject(u.ID, "Kept project")

	s.Require().NoError(s.issues.BulkCreate(s.ctx, []domain.Issue{
		{OwnerID: u.ID, ProjectID: doomed.ID, Title: "one", Description: "d"},
		{OwnerID: u.ID, ProjectID: doomed.ID, Title: "two", Description: "d"},
		{OwnerID: u.ID, ProjectID: doomed.ID, Title: "three", Description: "d"},
		{OwnerID: u.ID, ProjectID: kept.ID, Title: "other", Description: "d"},
	}))

	spec, _, err := query.Issues.Build(query.Request{}, query.Options{})
	s.Require().NoError(err)
	before, err := s.issues.List(s.ctx, spec)
	s.Require().NoError(err)
	s.EqualValues(4, before.Count)

	s.Require().NoError(s.projects.Delete(s.ctx, doomed.ID))

	n, err := s.issues.CountByProject(s.ctx, doomed.ID)
	s.Require().NoError(err)
	s.Zero(n)
	after, err := s.issues.List(s.ctx, spec)
	s.Require().NoError(err)
	s.Equal(before.Count-3, after.Count)

	_, err = s.projects.FindByID(s.ctx, doomed.ID)
	s.True(errors.Is(err, domain.ErrNotFound))
	_, err = s.projects.FindByID(s.ctx, kept.ID)
	s.NoError(err)
}

func (s *RepoTestSuite) TestProject_DeleteMissing() {
	err := s.projects.Delete(s.ctx, 4242)
	s.True(errors.Is(err, domain.ErrNotFound))
}

func (s *RepoTestSuite) TestIssue_BulkCreateAssignsIDs() {
	u := s.createUser("b@x.com")
	p := s.createProject(u.ID, "Bulk project")
	batch := make([]domain.Issue, 30)
	for i := range batch {
		batch[i] = domain.Issue{OwnerID: u.ID, ProjectID: p.ID, Title: "t", Description: "d"}
	}
	s.Require().NoError(s.issues.BulkCreate(s.ctx, batch))
	for _, is := range batch {
		s.NotZero(is.ID)
	}
	s.NoError(s.issues.BulkCreate(s.ctx, nil))
}

func (s *RepoTestSuite) TestToken_RevokeIsIdempotent() {
	exp := time.Now().Add(time.Hour)
	s.Require().NoError(s.tokens.Revoke(s.ctx, "jti-1", 1, exp))
	s.Require().NoError(s.tokens.Revoke(s.ctx, "jti-1", 1, exp))

	ok, err := s.tokens.IsRevoked(s.ctx, "jti-1")
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.tokens.IsRevoked(s.ctx, "jti-2")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *RepoTestSuite) TestToken_PurgeExpired() {
	now := time.Now()
	s.Require().NoError(s.tokens.Revoke(s.ctx, "old", 1, now.Add(-time.Hour)))
	s.Require().NoError(s.tokens.Revoke(s.ctx, "fresh", 1, now.Add(time.Hour)))

	n, err := s.tokens.PurgeExpired(s.ctx, now)
	s.Require().NoError(err)
	s.EqualValues(1, n)

	ok, _ := s.tokens.IsRevoked(s.ctx, "fresh")
	s.True(ok)
}

func TestRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RepoTestSuite))
}
