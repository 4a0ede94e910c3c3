package games

import (
	"math/rand"

	"heroworld/internal/engine"
)

func init() { Register(ShadowMatch{}) }

var shadowAnimals = []string{
	"🐶", "🐱", "🐭", "🐹", "🐰", "🦊", "🐻", "🐼",
	"🐨", "🐯", "🦁", "🐮", "🐷", "🐸", "🐵", "🐔",
	"🐧", "🐦", "🐤", "🦆", "🦅", "🦉", "🦇", "🐺",
}

// ShadowMatch asks the child to drop each animal on its own shadow.
// A move names the shadow in Index and the animal in Value.
type ShadowMatch struct{}

func (ShadowMatch) ID() string                { return "shadow" }
func (ShadowMatch) Category() engine.Category { return engine.CategoryBoard }

func (ShadowMatch) TargetScore(level int, d engine.Difficulty) int {
	return min(min(3+level/3, 6)+engine.ByDifficulty(d, 0, 2, 4), 12)
}

func (s ShadowMatch) NewBoard(rng *rand.Rand, level int, d engine.Difficulty) engine.Board {
	shadows := engine.Sample(rng, shadowAnimals, s.TargetScore(level, d))
	tray := make([]string, len(shadows))
	copy(tray, shadows)
	engine.Shuffle(rng, tray)
	return &shadowBoard{
		shadows: shadows,
		matched: make([]bool, len(shadows)),
		tray:    tray,
	}
}

type shadowBoard struct {
	shadows []string
	matched []bool
	tray    []string
}

func (b *shadowBoard) Apply(m engine.Move) engine.Verdict {
	if m.Index < 0 || m.Index >= len(b.shadows) || b.matched[m.Index] {
		return engine.Verdict{}
	}
	at := -1
	for i, icon := range b.tray {
		if icon == m.Value {
			at = i
			break
		}
	}
	if at < 0 {
		return engine.Verdict{}
	}
	if b.shadows[m.Index] != m.Value {
		return engine.Verdict{Outcome: engine.OutcomeIncorrect}
	}
	b.matched[m.Index] = true
	b.tray = append(b.tray[:at], b.tray[at+1:]...)
	return engine.Verdict{Outcome: engine.OutcomeCorrect}
}

func (b *shadowBoard) Settle() engine.Outcome { return engine.OutcomeNeutral }

func (b *shadowBoard) View() engine.BoardView {
	cells := make([]engine.Cell, len(b.shadows))
	for i, icon := range b.shadows {
		cells[i] = engine.Cell{Value: icon, Matched: b.matched[i], Revealed: b.matched[i]}
	}
	tray := make([]string, len(b.tray))
	copy(tray, b.tray)
	return engine.BoardView{Columns: min(len(cells), 4), Cells: cells, Tray: tray}
}
