package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Difficulty is the player's chosen difficulty for a session
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Level bounds shared by every game
const (
	MinLevel = 1
	MaxLevel = 30
)

var (
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrInvalidLevel      = errors.New("invalid level")
)

// Difficulties lists the difficulties in increasing order
var Difficulties = []Difficulty{Easy, Medium, Hard}

// ParseDifficulty converts user input into a Difficulty
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(strings.ToLower(strings.TrimSpace(s))) {
	case Easy:
		return Easy, nil
	case Medium:
		return Medium, nil
	case Hard:
		return Hard, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDifficulty, s)
}

// Valid reports whether d is one of the known difficulties
func (d Difficulty) Valid() bool {
	return d == Easy || d == Medium || d == Hard
}

// Rank returns 0, 1 or 2 for easy, medium and hard
func (d Difficulty) Rank() int {
	switch d {
	case Medium:
		return 1
	case Hard:
		return 2
	}
	return 0
}

// ByDifficulty picks the value matching d. Unknown difficulties pick easy.
func ByDifficulty[T any](d Difficulty, easy, medium, hard T) T {
	switch d {
	case Medium:
		return medium
	case Hard:
		return hard
	}
	return easy
}

// ValidLevel reports whether level is inside [MinLevel, MaxLevel]
func ValidLevel(level int) bool {
	return level >= MinLevel && level <= MaxLevel
}

// ClampLevel forces level into [MinLevel, MaxLevel]
func ClampLevel(level int) int {
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}
