package repo

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/NehanAhmed/Forge/internal/modules/model"
	"github.com/NehanAhmed/Forge/internal/pkg/slug"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicateSlug is returned by Create when the slug unique index rejects
// the row. Callers re-allocate and retry.
var ErrDuplicateSlug = errors.New("project slug already taken")

type ProjectRepo interface {
	Create(ctx context.Context, p *model.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
	GetBySlug(ctx context.Context, s string) (*model.Project, error)
	// AllocateSlug returns the first free candidate derived from base. The
	// result can still lose a race; Create reports that as ErrDuplicateSlug.
	AllocateSlug(ctx context.Context, base string) (string, error)
	ListPublic(ctx context.Context, limit, offset int) ([]*model.Project, int64, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*model.Project, int64, error)
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
	IncrementForkCount(ctx context.Context, id uuid.UUID) error
	UpdateOwned(ctx context.Context, id uuid.UUID, userID string, fields map[string]any) (int64, error)
	DeleteOwned(ctx context.Context, id uuid.UUID, userID string) (int64, error)
}

type projectRepo struct{ db *gorm.DB }

func NewProjectRepo(db *gorm.DB) ProjectRepo {
	return &projectRepo{db: db}
}

func (r *projectRepo) Create(ctx context.Context, p *model.Project) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateSlug
		}
		return err
	}
	return nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *projectRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var p model.Project
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *projectRepo) GetBySlug(ctx context.Context, s string) (*model.Project, error) {
	var p model.Project
	if err := r.db.WithContext(ctx).Where("slug = ?", s).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *projectRepo) AllocateSlug(ctx context.Context, base string) (string, error) {
	for n := 0; ; n++ {
		candidate := slugCandidate(base, n)
		var count int64
		err := r.db.WithContext(ctx).
			Model(&model.Project{}).
			Where("slug = ?", candidate).
			Count(&count).Error
		if err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
	}
}

// slugCandidate derives the n-th candidate for base: the base itself, then
// base-1, base-2 and so on. An empty base yields bare counters starting at 1.
// The suffix is kept within the slug length limit by trimming the base;
// trailing dashes are stripped after the cut so the candidate stays a valid
// slug.
func slugCandidate(base string, n int) string {
	if base == "" {
		return strconv.Itoa(n + 1)
	}
	if n == 0 {
		return base
	}
	suffix := "-" + strconv.Itoa(n)
	if len(base)+len(suffix) > slug.MaxLength {
		base = strings.TrimRight(base[:slug.MaxLength-len(suffix)], "-")
	}
	return base + suffix
}

func (r *projectRepo) ListPublic(ctx context.Context, limit, offset int) ([]*model.Project, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Project{}).Where("is_public = ?", true)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []*model.Project
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&projects).Error
	return projects, total, err
}

func (r *projectRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*model.Project, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Project{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []*model.Project
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&projects).Error
	return projects, total, err
}

// IncrementViewCount bumps the counter in a single UPDATE so concurrent
// readers never lose increments.
func (r *projectRepo) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Project{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
}

func (r *projectRepo) IncrementForkCount(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Project{}).
		Where("id = ?", id).
		UpdateColumn("fork_count", gorm.Expr("fork_count + ?", 1)).Error
}

// UpdateOwned applies fields only when the row belongs to userID, so
// ownership is enforced by the WHERE clause rather than a read-then-write.
func (r *projectRepo) UpdateOwned(ctx context.Context, id uuid.UUID, userID string, fields map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Project{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *projectRepo) DeleteOwned(ctx context.Context, id uuid.UUID, userID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Project{})
	return res.RowsAffected, res.Error
}
