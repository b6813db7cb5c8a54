package repository

import (
	"context"
	"errors"

	"github.com/ethanhollins/cc-web-sub001/internal/domain"
)

// ErrNotFound is wrapped by every lookup that matches no row.
var ErrNotFound = errors.New("not found")

type PreferenceRepo interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	All(ctx context.Context) (map[string]string, error)
}

type SkillTabRepo interface {
	List(ctx context.Context) ([]domain.SkillTab, error)
	Get(ctx context.Context, skillID string) (*domain.SkillTab, error)
	Insert(ctx context.Context, tab domain.SkillTab) error
	Delete(ctx context.Context, skillID string) error
	SetPosition(ctx context.Context, skillID string, position int) error
	SetPinned(ctx context.Context, skillID string, pinned bool) error
}
