package progress

import (
	"context"
	"sync"

	"heroworld/internal/models"
)

// Store persists progress records by player id
type Store interface {
	// Load returns the stored record; found is false when there is none
	Load(ctx context.Context, playerID string) (p models.Progress, found bool, err error)
	Save(ctx context.Context, playerID string, p models.Progress) error
	Delete(ctx context.Context, playerID string) error
}

// MemoryStore keeps encoded records in a map
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, playerID string) (models.Progress, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[playerID]
	if !ok {
		return Default(), false, nil
	}
	return Decode(data), true, nil
}

func (s *MemoryStore) Save(_ context.Context, playerID string, p models.Progress) error {
	data, err := Encode(p)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.blobs[playerID] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, playerID string) error {
	s.mu.Lock()
	delete(s.blobs, playerID)
	s.mu.Unlock()
	return nil
}
