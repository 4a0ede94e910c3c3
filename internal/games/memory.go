package games

import (
	"math/rand"
	"time"

	"heroworld/internal/engine"
)

func init() { Register(Memory{}) }

var memoryFaces = []string{
	"🍎", "🍌", "🍇", "🍓", "🍒", "🍍", "🥝", "🍉",
	"🦁", "🐯", "🐼", "🦊", "🐰", "🐭", "🐨", "🐸",
}

// FlipBackDelay is how long a mismatched pair stays face up
const FlipBackDelay = time.Second

// Memory is the classic pairs game
type Memory struct{}

func (Memory) ID() string                { return "memory" }
func (Memory) Category() engine.Category { return engine.CategoryBoard }

// TargetScore is the number of pairs on the board
func (Memory) TargetScore(level int, d engine.Difficulty) int {
	return min(2+level/3+engine.ByDifficulty(d, 0, 1, 2), 12)
}

func (m Memory) NewBoard(rng *rand.Rand, level int, d engine.Difficulty) engine.Board {
	pairs := m.TargetScore(level, d)
	faces := engine.Sample(rng, memoryFaces, pairs)

	cards := make([]engine.Cell, 0, pairs*2)
	for _, f := range faces {
		cards = append(cards, engine.Cell{Value: f}, engine.Cell{Value: f})
	}
	engine.Shuffle(rng, cards)

	return &memoryBoard{cards: cards, first: -1, second: -1}
}

type memoryBoard struct {
	cards   []engine.Cell
	first   int
	second  int
	pending bool
}

func (b *memoryBoard) Apply(m engine.Move) engine.Verdict {
	if b.pending || m.Index < 0 || m.Index >= len(b.cards) {
		return engine.Verdict{}
	}
	card := &b.cards[m.Index]
	if card.Revealed || card.Matched {
		return engine.Verdict{}
	}
	card.Revealed = true

	if b.first < 0 {
		b.first = m.Index
		return engine.Verdict{Outcome: engine.OutcomeNeutral}
	}

	first := &b.cards[b.first]
	if first.Value == card.Value {
		first.Matched, card.Matched = true, true
		b.first = -1
		return engine.Verdict{Outcome: engine.OutcomeCorrect}
	}

	b.second = m.Index
	b.pending = true
	return engine.Verdict{Outcome: engine.OutcomeNeutral, SettleAfter: FlipBackDelay}
}

// Settle turns a mismatched pair face down again and counts the miss
func (b *memoryBoard) Settle() engine.Outcome {
	if !b.pending {
		return engine.OutcomeNeutral
	}
	b.cards[b.first].Revealed = false
	b.cards[b.second].Revealed = false
	b.first, b.second = -1, -1
	b.pending = false
	return engine.OutcomeIncorrect
}

func (b *memoryBoard) View() engine.BoardView {
	cells := make([]engine.Cell, len(b.cards))
	for i, c := range b.cards {
		if c.Revealed || c.Matched {
			cells[i] = c
		}
	}
	return engine.BoardView{Columns: memoryColumns(len(b.cards)), Cells: cells}
}

func memoryColumns(n int) int {
	switch {
	case n <= 8:
		return 4
	case n <= 18:
		return 6
	}
	return 8
}
