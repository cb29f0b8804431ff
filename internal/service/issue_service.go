package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"issue-tracker/internal/domain"
	"issue-tracker/internal/query"
)

type IssueInput struct {
	ProjectID   uint64 `json:"project_id" validate:"gt=0"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=500"`
}

type IssueService struct {
	issues   domain.IssueRepository
	projects domain.ProjectRepository
	opts     query.Options
	log      *zap.Logger
}

func NewIssueService(issues domain.IssueRepository, projects domain.ProjectRepository, opts query.Options, log *zap.Logger) *IssueService {
	return &IssueService{issues: issues, projects: projects, opts: opts, log: log}
}

func (s *IssueService) List(ctx context.Context, r query.Request) (query.Page[domain.Issue], error) {
	spec, err := buildSpec(s.log, query.Issues, r, s.opts)
	if err != nil {
		return query.Page[domain.Issue]{}, err
	}
	page, err := s.issues.List(ctx, spec)
	if err != nil {
		return query.Page[domain.Issue]{}, fmt.Errorf("list issues: %w", err)
	}
	return page, nil
}

func (in *IssueInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
}

func (s *IssueService) Create(ctx context.Context, principal *domain.User, in IssueInput) (*domain.Issue, error) {
	issues, err := s.prepare(ctx, principal, []IssueInput{in}, false)
	if err != nil {
		return nil, err
	}
	is := &issues[0]
	if err := s.issues.Create(ctx, is); err != nil {
		return nil, fmt.Errorf("create issue: %w", err)
	}
	return is, nil
}

// BulkCreate validates every input before writing anything; the batch is
// stored in one transaction. indexed controls whether validation messages are
// keyed "[i].field" (array bodies) or plain "field".
func (s *IssueService) BulkCreate(ctx context.Context, principal *domain.User, in []IssueInput, indexed bool) ([]domain.Issue, error) {
	issues, err := s.prepare(ctx, principal, in, indexed)
	if err != nil {
		return nil, err
	}
	if err := s.issues.BulkCreate(ctx, issues); err != nil {
		return nil, fmt.Errorf("create issues: %w", err)
	}
	return issues, nil
}

func (s *IssueService) prepare(ctx context.Context, principal *domain.User, in []IssueInput, indexed bool) ([]domain.Issue, error) {
	if len(in) == 0 {
		return nil, fieldError("non_field_errors", "Expected a non-empty list of items.")
	}
	bad := &ValidationError{Fields: map[string][]string{}}
	for i := range in {
		in[i].normalize()
		prefix := ""
		if indexed {
			prefix = fmt.Sprintf("[%d].", i)
		}
		if err := merge(bad, check(in[i], prefix)); err != nil {
			return nil, err
		}
	}
	if len(bad.Fields) > 0 {
		return nil, bad
	}

	seen := map[uint64]bool{}
	for _, it := range in {
		if seen[it.ProjectID] {
			continue
		}
		seen[it.ProjectID] = true
		if _, err := s.projects.FindByID(ctx, it.ProjectID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, ErrProjectNotFound
			}
			return nil, fmt.Errorf("find project: %w", err)
		}
	}

	issues := make([]domain.Issue, len(in))
	for i, it := range in {
		issues[i] = domain.Issue{
			OwnerID:     principal.ID,
			ProjectID:   it.ProjectID,
			Title:       it.Title,
			Description: it.Description,
		}
	}
	return issues, nil
}
