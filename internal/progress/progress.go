// Package progress keeps each player's hero, language and unlocked levels.
//
// The record is a small JSON blob stored under StorageKey. Stores persist it;
// the Manager serialises read-modify-write updates and keeps the game playable
// in memory when the backing store fails.
package progress

import (
	"encoding/json"

	"heroworld/internal/engine"
	"heroworld/internal/models"
)

// StorageKey names the serialized progress record
const StorageKey = "hero_world_progress_v1"

// Default returns the progress of a brand new player
func Default() models.Progress {
	return models.Progress{
		UnlockedLevels: map[string]int{},
		Language:       models.Arabic,
	}
}

// Unlock returns a copy of p with gameID unlocked up to level.
// Levels never go down and never pass engine.MaxLevel.
func Unlock(p models.Progress, gameID string, level int) models.Progress {
	out := p.Clone()
	level = engine.ClampLevel(level)
	if level > out.UnlockedLevels[gameID] {
		out.UnlockedLevels[gameID] = level
	}
	return out
}

// Merge combines a stored record with a newer one. The newer hero and
// language win; each unlocked level is the max of both.
func Merge(stored, newer models.Progress) models.Progress {
	out := sanitize(newer.Clone())
	for game, level := range stored.UnlockedLevels {
		out = Unlock(out, game, level)
	}
	return out
}

// Encode serializes p
func Encode(p models.Progress) ([]byte, error) {
	return json.Marshal(sanitize(p.Clone()))
}

// Decode parses a serialized record. Malformed data yields Default.
func Decode(data []byte) models.Progress {
	var p models.Progress
	if len(data) == 0 || json.Unmarshal(data, &p) != nil {
		return Default()
	}
	return sanitize(p)
}

func sanitize(p models.Progress) models.Progress {
	if !p.Language.Valid() {
		p.Language = models.Arabic
	}
	levels := make(map[string]int, len(p.UnlockedLevels))
	for game, level := range p.UnlockedLevels {
		if game == "" || level < engine.MinLevel {
			continue
		}
		levels[game] = engine.ClampLevel(level)
	}
	p.UnlockedLevels = levels
	return p
}
