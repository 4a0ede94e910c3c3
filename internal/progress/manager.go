package progress

import (
	"context"
	"log"
	"sync"

	"heroworld/internal/models"
)

// Manager serialises progress updates and hides storage failures. After the
// first store error it logs a warning and keeps serving from memory for the
// rest of the process.
type Manager struct {
	mu       sync.Mutex
	store    Store
	memory   *MemoryStore
	degraded bool
}

// NewManager creates a manager over store. A nil store keeps everything in memory.
func NewManager(store Store) *Manager {
	m := &Manager{memory: NewMemoryStore()}
	if store == nil {
		m.degraded = true
		store = m.memory
	}
	m.store = store
	return m
}

// Degraded reports whether the manager has fallen back to memory
func (m *Manager) Degraded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.degraded
}

// Load returns the player's progress, or defaults
func (m *Manager) Load(ctx context.Context, playerID string) models.Progress {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(ctx, playerID)
}

// Save stores p, never lowering a stored level
func (m *Manager) Save(ctx context.Context, playerID string, p models.Progress) models.Progress {
	m.mu.Lock()
	defer m.mu.Unlock()
	merged := Merge(m.load(ctx, playerID), p)
	m.save(ctx, playerID, merged)
	return merged
}

// Unlock raises gameID to level when that is higher than the stored level
func (m *Manager) Unlock(ctx context.Context, playerID, gameID string, level int) models.Progress {
	return m.Update(ctx, playerID, func(p *models.Progress) {
		*p = Unlock(*p, gameID, level)
	})
}

// Update applies fn to the stored progress and saves the result
func (m *Manager) Update(ctx context.Context, playerID string, fn func(p *models.Progress)) models.Progress {
	m.mu.Lock()
	defer m.mu.Unlock()
	current := m.load(ctx, playerID)
	next := current.Clone()
	fn(&next)
	next = Merge(current, next)
	m.save(ctx, playerID, next)
	return next
}

// Reset forgets everything about the player
func (m *Manager) Reset(ctx context.Context, playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.memory.Delete(ctx, playerID)
	if m.degraded {
		return
	}
	if err := m.store.Delete(ctx, playerID); err != nil {
		m.degrade(err)
	}
}

func (m *Manager) load(ctx context.Context, playerID string) models.Progress {
	if !m.degraded {
		p, found, err := m.store.Load(ctx, playerID)
		if err == nil {
			if found {
				m.memory.Save(ctx, playerID, p)
			}
			return p
		}
		m.degrade(err)
	}
	p, _, _ := m.memory.Load(ctx, playerID)
	return p
}

func (m *Manager) save(ctx context.Context, playerID string, p models.Progress) {
	m.memory.Save(ctx, playerID, p)
	if m.degraded {
		return
	}
	if err := m.store.Save(ctx, playerID, p); err != nil {
		m.degrade(err)
	}
}

func (m *Manager) degrade(err error) {
	log.Printf("Warning: progress storage unavailable, keeping progress in memory: %v", err)
	m.degraded = true
}
