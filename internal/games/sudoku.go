package games

import (
	"math/rand"
	"strconv"
	"time"

	"heroworld/internal/engine"
)

func init() { Register(Sudoku{}) }

const sudokuSize = 4

// WrongValueDelay is how long a wrong digit stays on the board
const WrongValueDelay = 500 * time.Millisecond

var sudokuTemplates = [][sudokuSize][sudokuSize]int{
	{{1, 2, 3, 4}, {3, 4, 1, 2}, {2, 3, 4, 1}, {4, 1, 2, 3}},
	{{2, 3, 4, 1}, {4, 1, 2, 3}, {1, 2, 3, 4}, {3, 4, 1, 2}},
	{{4, 3, 2, 1}, {2, 1, 4, 3}, {3, 4, 1, 2}, {1, 2, 3, 4}},
}

// Sudoku is a 4x4 sudoku. A move names a cell and the digit to place.
type Sudoku struct{}

func (Sudoku) ID() string                { return "sudoku" }
func (Sudoku) Category() engine.Category { return engine.CategoryBoard }

// TargetScore is the number of hidden cells
func (Sudoku) TargetScore(level int, d engine.Difficulty) int {
	return min(min(4+level/3, 10)+engine.ByDifficulty(d, 0, 2, 4), 14)
}

func (s Sudoku) NewBoard(rng *rand.Rand, level int, d engine.Difficulty) engine.Board {
	tpl := sudokuTemplates[rng.Intn(len(sudokuTemplates))]

	// relabelling the digits keeps every row, column and box valid
	relabel := rng.Perm(sudokuSize)
	b := &sudokuBoard{
		solution: make([]string, sudokuSize*sudokuSize),
		cells:    make([]engine.Cell, sudokuSize*sudokuSize),
	}
	for r, row := range tpl {
		for c, v := range row {
			b.solution[r*sudokuSize+c] = strconv.Itoa(relabel[v-1] + 1)
		}
	}

	hidden := make(map[int]bool)
	for _, i := range rng.Perm(len(b.cells))[:s.TargetScore(level, d)] {
		hidden[i] = true
	}
	for i := range b.cells {
		if !hidden[i] {
			b.cells[i] = engine.Cell{Value: b.solution[i], Revealed: true, Fixed: true}
		}
	}
	return b
}

type sudokuBoard struct {
	solution []string
	cells    []engine.Cell
}

func (b *sudokuBoard) Apply(m engine.Move) engine.Verdict {
	if m.Index < 0 || m.Index >= len(b.cells) {
		return engine.Verdict{}
	}
	if n, err := strconv.Atoi(m.Value); err != nil || n < 1 || n > sudokuSize {
		return engine.Verdict{}
	}
	c := &b.cells[m.Index]
	if c.Fixed || c.Matched || c.Wrong {
		return engine.Verdict{}
	}

	c.Value = m.Value
	c.Revealed = true
	if b.solution[m.Index] == m.Value {
		c.Matched = true
		return engine.Verdict{Outcome: engine.OutcomeCorrect}
	}
	c.Wrong = true
	return engine.Verdict{Outcome: engine.OutcomeIncorrect, SettleAfter: WrongValueDelay}
}

// Settle clears every wrong digit
func (b *sudokuBoard) Settle() engine.Outcome {
	for i := range b.cells {
		if b.cells[i].Wrong {
			b.cells[i] = engine.Cell{}
		}
	}
	return engine.OutcomeNeutral
}

func (b *sudokuBoard) View() engine.BoardView {
	cells := make([]engine.Cell, len(b.cells))
	copy(cells, b.cells)
	return engine.BoardView{Columns: sudokuSize, Cells: cells}
}
