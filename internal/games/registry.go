// Package games holds the mini-game strategies and a registry keyed by game id.
// Each game registers itself from an init function so shells can look games
// up by the id stored in progress and in the catalog.
package games

import (
	"fmt"
	"sort"
	"sync"

	"heroworld/internal/engine"
)

var (
	registry = make(map[string]engine.Game)
	mu       sync.RWMutex
)

// Register adds a game. It panics when the id is already taken.
func Register(g engine.Game) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := registry[g.ID()]; exists {
		panic(fmt.Sprintf("games: %q already registered", g.ID()))
	}
	registry[g.ID()] = g
}

// Lookup returns the game registered under id
func Lookup(id string) (engine.Game, bool) {
	mu.RLock()
	defer mu.RUnlock()
	g, ok := registry[id]
	return g, ok
}

// IDs returns every registered id, sorted
func IDs() []string {
	mu.RLock()
	defer mu.RUnlock()

	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Get is Lookup with an engine.ErrUnknownGame error for unknown ids
func Get(id string) (engine.Game, error) {
	g, ok := Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", engine.ErrUnknownGame, id)
	}
	return g, nil
}

// All returns every registered game sorted by id
func All() []engine.Game {
	ids := IDs()
	mu.RLock()
	defer mu.RUnlock()

	out := make([]engine.Game, 0, len(ids))
	for _, id := range ids {
		out = append(out, registry[id])
	}
	return out
}

func itoa(values []int) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprint(v)
	}
	return out
}
