package progress

import (
	"context"

	"heroworld/internal/models"
)

// progressRepository is implemented by repository.ProgressRepository
type progressRepository interface {
	GetProgress(ctx context.Context, playerID string) (*models.Progress, error)
	SaveProgress(ctx context.Context, playerID string, p models.Progress) error
	DeleteProgress(ctx context.Context, playerID string) error
}

// SQLStore keeps progress in the relational tables
type SQLStore struct {
	repo progressRepository
}

// NewSQLStore creates a store backed by repo
func NewSQLStore(repo progressRepository) *SQLStore {
	return &SQLStore{repo: repo}
}

func (s *SQLStore) Load(ctx context.Context, playerID string) (models.Progress, bool, error) {
	p, err := s.repo.GetProgress(ctx, playerID)
	if err != nil {
		return Default(), false, err
	}
	if p == nil {
		return Default(), false, nil
	}
	return sanitize(*p), true, nil
}

func (s *SQLStore) Save(ctx context.Context, playerID string, p models.Progress) error {
	return s.repo.SaveProgress(ctx, playerID, sanitize(p.Clone()))
}

func (s *SQLStore) Delete(ctx context.Context, playerID string) error {
	return s.repo.DeleteProgress(ctx, playerID)
}
