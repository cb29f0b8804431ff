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

type ProjectInput struct {
	Title       string `json:"title" validate:"required,min=10,max=200"`
	Description string `json:"description" validate:"required,min=20,max=500"`
}

type ProjectService struct {
	projects domain.ProjectRepository
	opts     query.Options
	log      *zap.Logger
}

func NewProjectService(projects domain.ProjectRepository, opts query.Options, log *zap.Logger) *ProjectService {
	return &ProjectService{projects: projects, opts: opts, log: log}
}

// buildSpec turns a raw listing request into a Spec. Permissive fallbacks are
// logged; strict rejections become a ValidationError keyed by request field.
func buildSpec(log *zap.Logger, sc *query.Schema, r query.Request, opts query.Options) (query.Spec, error) {
	spec, rejected, err := sc.Build(r, opts)
	if err != nil {
		var re *query.RejectedError
		if errors.As(err, &re) {
			return query.Spec{}, &ValidationError{Fields: re.Fields()}
		}
		return query.Spec{}, err
	}
	if len(rejected) > 0 {
		fields := make([]string, len(rejected))
		for i, rj := range rejected {
			fields[i] = rj.String()
		}
		log.Warn("query input ignored",
			zap.String("schema", sc.Name()),
			zap.Strings("rejections", fields),
		)
	}
	return spec, nil
}

func (s *ProjectService) List(ctx context.Context, r query.Request) (query.Page[domain.Project], error) {
	spec, err := buildSpec(s.log, query.Projects, r, s.opts)
	if err != nil {
		return query.Page[domain.Project]{}, err
	}
	page, err := s.projects.List(ctx, spec)
	if err != nil {
		return query.Page[domain.Project]{}, fmt.Errorf("list projects: %w", err)
	}
	return page, nil
}

func (in *ProjectInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
}

func (s *ProjectService) Create(ctx context.Context, principal *domain.User, in ProjectInput) (*domain.Project, error) {
	in.normalize()
	if err := check(in, ""); err != nil {
		return nil, err
	}
	p := &domain.Project{OwnerID: principal.ID, Title: in.Title, Description: in.Description}
	if err := s.projects.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return p, nil
}

func (s *ProjectService) Get(ctx context.Context, id uint64) (*domain.Project, error) {
	p, err := s.projects.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	return p, nil
}

// owned loads the project and checks that principal may mutate it.
func (s *ProjectService) owned(ctx context.Context, principal *domain.User, id uint64) (*domain.Project, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != principal.ID {
		return nil, ErrForbidden
	}
	return p, nil
}

func (s *ProjectService) Update(ctx context.Context, principal *domain.User, id uint64, in ProjectInput) (*domain.Project, error) {
	p, err := s.owned(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	in.normalize()
	if err := check(in, ""); err != nil {
		return nil, err
	}
	p.Title, p.Description = in.Title, in.Description
	if err := s.projects.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return p, nil
}

// Delete removes the project and, with it, every issue filed against it.
func (s *ProjectService) Delete(ctx context.Context, principal *domain.User, id uint64) error {
	if _, err := s.owned(ctx, principal, id); err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("delete project: %w", err)
	}
	s.log.Info("project removed", zap.Uint64("project_id", id), zap.Uint64("uid", principal.ID))
	return nil
}
