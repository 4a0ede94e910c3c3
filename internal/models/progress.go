package models

import "time"

// Language is a UI language
type Language string

const (
	Arabic  Language = "ar"
	English Language = "en"
)

// Valid reports whether l is a supported language
func (l Language) Valid() bool {
	return l == Arabic || l == English
}

// Toggle returns the other language
func (l Language) Toggle() Language {
	if l == English {
		return Arabic
	}
	return English
}

// RTL reports whether the language is written right to left
func (l Language) RTL() bool {
	return l == Arabic
}

// Progress is everything remembered about a player between visits
type Progress struct {
	SelectedCharacterID string         `json:"selectedCharacterId,omitempty"`
	UnlockedLevels      map[string]int `json:"unlockedLevels"`
	Language            Language       `json:"language"`
}

// UnlockedLevel returns the highest playable level of a game. Games never played return 1.
func (p Progress) UnlockedLevel(gameID string) int {
	if l := p.UnlockedLevels[gameID]; l > 1 {
		return l
	}
	return 1
}

// Clone returns a deep copy
func (p Progress) Clone() Progress {
	levels := make(map[string]int, len(p.UnlockedLevels))
	for k, v := range p.UnlockedLevels {
		levels[k] = v
	}
	p.UnlockedLevels = levels
	return p
}

// Player is a device or child profile that owns a Progress record
type Player struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name,omitempty" db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// SessionResult is a completed game session
type SessionResult struct {
	ID          int64     `json:"id" db:"id"`
	PlayerID    string    `json:"playerId" db:"player_id"`
	GameID      string    `json:"gameId" db:"game_id"`
	Level       int       `json:"level" db:"level"`
	Difficulty  string    `json:"difficulty" db:"difficulty"`
	Score       int       `json:"score" db:"score"`
	Target      int       `json:"target" db:"target"`
	DurationMs  int64     `json:"durationMs" db:"duration_ms"`
	CompletedAt time.Time `json:"completedAt" db:"completed_at"`
}
