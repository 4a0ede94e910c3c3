package games

import (
	"math/rand"

	"heroworld/internal/engine"
)

func init() { Register(TreasureHunt{}) }

var treasureIcons = []string{"💎", "👑", "💰", "💍", "📜", "🔱", "🏺", "🗝️"}

// TreasureHunt hides treasures under a square grid of sand
type TreasureHunt struct{}

func (TreasureHunt) ID() string                { return "treasure_hunt" }
func (TreasureHunt) Category() engine.Category { return engine.CategoryBoard }

// GridSize is the side length of the grid
func (TreasureHunt) GridSize(d engine.Difficulty) int {
	return engine.ByDifficulty(d, 4, 5, 6)
}

// TargetScore is the number of buried treasures
func (t TreasureHunt) TargetScore(level int, d engine.Difficulty) int {
	g := t.GridSize(d)
	return min(engine.ByDifficulty(d, 3, 5, 7)+level/5, g*g-5)
}

func (t TreasureHunt) NewBoard(rng *rand.Rand, level int, d engine.Difficulty) engine.Board {
	g := t.GridSize(d)
	cells := make([]engine.Cell, g*g)
	for _, i := range rng.Perm(len(cells))[:t.TargetScore(level, d)] {
		cells[i].Value = treasureIcons[rng.Intn(len(treasureIcons))]
	}
	return &treasureBoard{size: g, cells: cells}
}

type treasureBoard struct {
	size  int
	cells []engine.Cell
}

func (b *treasureBoard) Apply(m engine.Move) engine.Verdict {
	if m.Index < 0 || m.Index >= len(b.cells) || b.cells[m.Index].Revealed {
		return engine.Verdict{}
	}
	c := &b.cells[m.Index]
	c.Revealed = true
	if c.Value == "" {
		return engine.Verdict{Outcome: engine.OutcomeIncorrect}
	}
	c.Matched = true
	return engine.Verdict{Outcome: engine.OutcomeCorrect}
}

func (b *treasureBoard) Settle() engine.Outcome { return engine.OutcomeNeutral }

func (b *treasureBoard) View() engine.BoardView {
	cells := make([]engine.Cell, len(b.cells))
	for i, c := range b.cells {
		if c.Revealed {
			cells[i] = c
		}
	}
	return engine.BoardView{Columns: b.size, Cells: cells}
}
