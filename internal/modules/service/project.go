package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/NehanAhmed/Forge/internal/config"
	"github.com/NehanAhmed/Forge/internal/llm"
	"github.com/NehanAhmed/Forge/internal/modules/model"
	"github.com/NehanAhmed/Forge/internal/modules/repo"
	"github.com/NehanAhmed/Forge/internal/pkg/plan"
	"github.com/NehanAhmed/Forge/internal/pkg/slug"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	// createAttempts bounds how often a create retries after losing the slug
	// uniqueness race. Each retry re-allocates against the current table state.
	createAttempts = 3
	retryBackoff   = 75 * time.Millisecond
)

type CreateProjectInput struct {
	Title            string
	Description      string
	ProblemStatement string
	TargetUsers      *int
	TeamSize         *int
	TimelineWeeks    *int
	BudgetRange      *string
	IsPublic         *bool
}

type UpdateProjectInput struct {
	Title       *string
	Description *string
	IsPublic    *bool
}

type ProjectService interface {
	Create(ctx context.Context, in CreateProjectInput, userID *string) (*model.Project, error)
	// GetBySlug applies the visibility gate and counts the view. Private
	// projects read by a non-owner report ErrProjectNotFound, not a
	// permission error.
	GetBySlug(ctx context.Context, s string, viewer *string) (*model.Project, error)
	ListPublic(ctx context.Context, limit, offset int) ([]*model.Project, int64, error)
	ListMine(ctx context.Context, userID string, limit, offset int) ([]*model.Project, int64, error)
	Update(ctx context.Context, id uuid.UUID, userID string, in UpdateProjectInput) (*model.Project, error)
	Delete(ctx context.Context, id uuid.UUID, userID string) error
	Fork(ctx context.Context, s string, viewer *string) (*model.Project, error)
}

type projectService struct {
	projects  repo.ProjectRepo
	generator llm.Generator
	cfg       *config.Config
	log       *zap.Logger
}

func NewProjectService(projects repo.ProjectRepo, generator llm.Generator, cfg *config.Config, log *zap.Logger) ProjectService {
	return &projectService{projects: projects, generator: generator, cfg: cfg, log: log}
}

func (s *projectService) Create(ctx context.Context, in CreateProjectInput, userID *string) (*model.Project, error) {
	brief := plan.Brief{
		Title:            in.Title,
		Description:      in.Description,
		ProblemStatement: in.ProblemStatement,
		TargetUsers:      in.TargetUsers,
		TeamSize:         in.TeamSize,
		TimelineWeeks:    in.TimelineWeeks,
		BudgetRange:      in.BudgetRange,
	}

	doc, err := s.generator.Generate(ctx, brief)
	if err != nil {
		return nil, err
	}

	p := s.buildProject(in, doc, userID)
	base := slug.Make(in.Title)

	for attempt := 1; attempt <= createAttempts; attempt++ {
		allocated, err := s.projects.AllocateSlug(ctx, base)
		if err != nil {
			return nil, err
		}
		p.Slug = allocated

		err = s.projects.Create(ctx, p)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, repo.ErrDuplicateSlug) {
			return nil, err
		}

		s.log.Warn("slug collision on create, retrying",
			zap.String("slug", allocated),
			zap.Int("attempt", attempt))
		if attempt < createAttempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * retryBackoff):
			}
		}
	}
	return nil, ErrSlugExhausted
}

func (s *projectService) buildProject(in CreateProjectInput, doc *plan.Document, userID *string) *model.Project {
	isPublic := true
	if in.IsPublic != nil {
		isPublic = *in.IsPublic
	}

	// The roadmap's adjusted timeline supersedes whatever the caller asked
	// for; that adjustment is the whole point of the analysis.
	adjusted := int(math.Round(doc.Roadmap.AdjustedTimelineWeeks))
	timeline := &adjusted

	p := &model.Project{
		UserID:           userID,
		Title:            in.Title,
		Description:      in.Description,
		ProblemStatement: in.ProblemStatement,
		TargetUsers:      in.TargetUsers,
		TeamSize:         in.TeamSize,
		TimelineWeeks:    timeline,
		BudgetRange:      in.BudgetRange,
		Metadata:         datatypes.NewJSONType(doc.Metadata),
		TechStack:        datatypes.NewJSONType(doc.TechStack),
		DatabaseSchema:   datatypes.NewJSONType(doc.DatabaseSchema),
		Risks:            datatypes.NewJSONType(doc.Risks),
		Roadmap:          datatypes.NewJSONType(doc.Roadmap),
		KeyFeatures:      datatypes.NewJSONType(doc.KeyFeatures),
		ExecutiveSummary: doc.ExecutiveSummary,
		IsPublic:         isPublic,
		ViewCount:        0,
		ForkCount:        0,
	}

	if userID == nil && s.cfg.App.GuestProjectTTLHours > 0 {
		expires := time.Now().Add(time.Duration(s.cfg.App.GuestProjectTTLHours) * time.Hour)
		p.ExpiresAt = &expires
	}
	return p
}

func (s *projectService) GetBySlug(ctx context.Context, slugVal string, viewer *string) (*model.Project, error) {
	p, err := s.projects.GetBySlug(ctx, slugVal)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	if !CanView(p, viewer) {
		return nil, ErrProjectNotFound
	}

	if err := s.projects.IncrementViewCount(ctx, p.ID); err != nil {
		// A lost view count never blocks the read.
		s.log.Warn("view count increment failed", zap.String("slug", p.Slug), zap.Error(err))
	} else {
		p.ViewCount++
	}
	return p, nil
}

func (s *projectService) ListPublic(ctx context.Context, limit, offset int) ([]*model.Project, int64, error) {
	return s.projects.ListPublic(ctx, limit, offset)
}

func (s *projectService) ListMine(ctx context.Context, userID string, limit, offset int) ([]*model.Project, int64, error) {
	return s.projects.ListByUser(ctx, userID, limit, offset)
}

func (s *projectService) Update(ctx context.Context, id uuid.UUID, userID string, in UpdateProjectInput) (*model.Project, error) {
	fields := map[string]any{}
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.IsPublic != nil {
		fields["is_public"] = *in.IsPublic
	}
	if len(fields) == 0 {
		// A no-op update still goes through the ownership check so a
		// well-known id never exposes someone else's private project.
		p, err := s.projects.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProjectNotFound
			}
			return nil, err
		}
		if p.UserID == nil || *p.UserID != userID {
			return nil, ErrNotOwner
		}
		return p, nil
	}

	rows, err := s.projects.UpdateOwned(ctx, id, userID, fields)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, s.ownershipError(ctx, id)
	}
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	rows, err := s.projects.DeleteOwned(ctx, id, userID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return s.ownershipError(ctx, id)
	}
	return nil
}

// ownershipError distinguishes a missing project from one owned by someone
// else after an owner-scoped write matched no rows.
func (s *projectService) ownershipError(ctx context.Context, id uuid.UUID) error {
	if _, err := s.projects.GetByID(ctx, id); errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProjectNotFound
	}
	return ErrNotOwner
}

func (s *projectService) Fork(ctx context.Context, slugVal string, viewer *string) (*model.Project, error) {
	src, err := s.projects.GetBySlug(ctx, slugVal)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	if !CanView(src, viewer) {
		return nil, ErrProjectNotFound
	}

	fork := &model.Project{
		UserID:           viewer,
		Title:            src.Title,
		Description:      src.Description,
		ProblemStatement: src.ProblemStatement,
		TargetUsers:      src.TargetUsers,
		TeamSize:         src.TeamSize,
		TimelineWeeks:    src.TimelineWeeks,
		BudgetRange:      src.BudgetRange,
		Metadata:         src.Metadata,
		TechStack:        src.TechStack,
		DatabaseSchema:   src.DatabaseSchema,
		Risks:            src.Risks,
		Roadmap:          src.Roadmap,
		KeyFeatures:      src.KeyFeatures,
		ExecutiveSummary: src.ExecutiveSummary,
		IsPublic:         src.IsPublic,
	}
	if viewer == nil && s.cfg.App.GuestProjectTTLHours > 0 {
		expires := time.Now().Add(time.Duration(s.cfg.App.GuestProjectTTLHours) * time.Hour)
		fork.ExpiresAt = &expires
	}

	base := slug.Make(src.Title)
	for attempt := 1; attempt <= createAttempts; attempt++ {
		allocated, err := s.projects.AllocateSlug(ctx, base)
		if err != nil {
			return nil, err
		}
		fork.Slug = allocated

		err = s.projects.Create(ctx, fork)
		if err == nil {
			if err := s.projects.IncrementForkCount(ctx, src.ID); err != nil {
				s.log.Warn("fork count increment failed", zap.String("slug", src.Slug), zap.Error(err))
			}
			return fork, nil
		}
		if !errors.Is(err, repo.ErrDuplicateSlug) {
			return nil, err
		}
		if attempt < createAttempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * retryBackoff):
			}
		}
	}
	return nil, ErrSlugExhausted
}
