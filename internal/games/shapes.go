package games

import (
	"math/rand"

	"heroworld/internal/engine"
)

func init() { Register(Shapes{}) }

// Shape is a puzzle piece and the slot it fits
type Shape struct {
	ID   string
	Icon string
}

var puzzleShapes = []Shape{
	{ID: "circle", Icon: "🔴"},
	{ID: "square", Icon: "🟦"},
	{ID: "triangle", Icon: "🔺"},
	{ID: "star", Icon: "⭐"},
}

// Shapes is a shape sorter. Cells are slots named by shape id; the tray holds the pieces.
type Shapes struct{}

func (Shapes) ID() string                { return "shapes" }
func (Shapes) Category() engine.Category { return engine.CategoryBoard }

func (Shapes) TargetScore(int, engine.Difficulty) int { return len(puzzleShapes) }

func (Shapes) NewBoard(rng *rand.Rand, _ int, _ engine.Difficulty) engine.Board {
	slots := engine.Sample(rng, puzzleShapes, len(puzzleShapes))
	tray := engine.Sample(rng, puzzleShapes, len(puzzleShapes))
	b := &shapesBoard{slots: slots, filled: make([]bool, len(slots))}
	for _, s := range tray {
		b.tray = append(b.tray, s.Icon)
	}
	return b
}

type shapesBoard struct {
	slots  []Shape
	filled []bool
	tray   []string
}

func (b *shapesBoard) Apply(m engine.Move) engine.Verdict {
	if m.Index < 0 || m.Index >= len(b.slots) || b.filled[m.Index] {
		return engine.Verdict{}
	}
	at := -1
	for i, icon := range b.tray {
		if icon == m.Value {
			at = i
		}
	}
	if at < 0 {
		return engine.Verdict{}
	}
	// a piece dropped on the wrong slot is ignored
	if b.slots[m.Index].Icon != m.Value {
		return engine.Verdict{}
	}
	b.filled[m.Index] = true
	b.tray = append(b.tray[:at], b.tray[at+1:]...)
	return engine.Verdict{Outcome: engine.OutcomeCorrect}
}

func (b *shapesBoard) Settle() engine.Outcome { return engine.OutcomeNeutral }

func (b *shapesBoard) View() engine.BoardView {
	cells := make([]engine.Cell, len(b.slots))
	for i, s := range b.slots {
		cells[i] = engine.Cell{Value: s.ID, Matched: b.filled[i], Revealed: b.filled[i]}
	}
	tray := make([]string, len(b.tray))
	copy(tray, b.tray)
	return engine.BoardView{Columns: len(cells), Cells: cells, Tray: tray}
}
