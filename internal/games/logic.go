package games

import (
	"math/rand"

	"heroworld/internal/engine"
)

func init() { Register(LogicPatterns{}) }

var patternSymbols = []string{
	"🍎", "🍌", "🍇", "🍓", "🚗", "✈️", "🚂", "🚁",
	"🦁", "🐯", "🐻", "🐼", "⚽", "🏀", "🎾", "🏐",
}

// Pattern shapes, A B and C being distinct symbols
const (
	PatternABAB   = 1
	PatternAABAAB = 2
	PatternABCABC = 3
)

// LogicPatterns shows a repeating pattern and asks for the next symbol
type LogicPatterns struct{}

func (LogicPatterns) ID() string                { return "logic" }
func (LogicPatterns) Category() engine.Category { return engine.CategoryDiscrete }

func (LogicPatterns) TargetScore(level int, d engine.Difficulty) int {
	return min(3+level/2+engine.ByDifficulty(d, 0, 1, 2), 10)
}

// PatternKind picks the pattern shape from difficulty and level
func (LogicPatterns) PatternKind(level int, d engine.Difficulty) int {
	kind := level % 3
	switch {
	case d == engine.Easy || (kind == 0 && d != engine.Hard):
		return PatternABAB
	case d == engine.Medium || kind == 1:
		return PatternAABAAB
	}
	return PatternABCABC
}

func (l LogicPatterns) NewRound(rng *rand.Rand, level int, d engine.Difficulty) engine.Round {
	sym := engine.Sample(rng, patternSymbols, 3)
	a, b, c := sym[0], sym[1], sym[2]

	kind := l.PatternKind(level, d)
	var pattern []string
	switch kind {
	case PatternABAB:
		pattern = []string{a, b, a, b}
	case PatternAABAAB:
		pattern = []string{a, a, b, a, a, b}
	default:
		pattern = []string{a, b, c, a, b, c}
	}

	wrong := engine.MustDistractors(rng, patternSymbols, a, 3)
	return engine.NewRound(rng, pattern, a, wrong, engine.Params{"pattern": kind, "options": 4})
}
