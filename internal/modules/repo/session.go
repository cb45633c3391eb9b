package repo

import (
	"context"
	"time"

	"github.com/NehanAhmed/Forge/internal/modules/model"
	"gorm.io/gorm"
)

type SessionRepo interface {
	// GetByToken resolves a bearer token to its session, ignoring expired rows.
	GetByToken(ctx context.Context, token string) (*model.Session, error)
}

type sessionRepo struct{ db *gorm.DB }

func NewSessionRepo(db *gorm.DB) SessionRepo {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) GetByToken(ctx context.Context, token string) (*model.Session, error) {
	var s model.Session
	err := r.db.WithContext(ctx).
		Where("token = ? AND expires_at > ?", token, time.Now()).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}
