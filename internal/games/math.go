package games

import (
	"math/rand"
	"strconv"

	"heroworld/internal/engine"
)

func init() { Register(Math{}) }

// Math asks for the result of an addition or a subtraction
type Math struct{}

func (Math) ID() string                { return "math" }
func (Math) Category() engine.Category { return engine.CategoryDiscrete }

func (Math) TargetScore(level int, d engine.Difficulty) int {
	return min(3+level/3+engine.ByDifficulty(d, 0, 1, 2), 10)
}

// OperandRange is the largest operand for level and d
func (Math) OperandRange(level int, d engine.Difficulty) int {
	return 5 + level + engine.ByDifficulty(d, 0, 10, 25)
}

func (m Math) NewRound(rng *rand.Rand, level int, d engine.Difficulty) engine.Round {
	rangeMax := m.OperandRange(level, d)
	a := rng.Intn(rangeMax) + 1
	b := rng.Intn(rangeMax) + 1

	op := "+"
	answer := a + b
	if (level > 5 || d != engine.Easy) && rng.Float64() > 0.5 {
		op = "-"
		if a < b {
			a, b = b, a
		}
		answer = a - b
	}

	// 2*range is at least 12, so three distinct wrong answers always exist
	seen := map[int]bool{answer: true}
	var wrong []int
	for len(wrong) < 3 {
		v := rng.Intn(rangeMax*2) + 1
		if seen[v] {
			continue
		}
		seen[v] = true
		wrong = append(wrong, v)
	}

	return engine.NewRound(rng,
		[]string{strconv.Itoa(a), op, strconv.Itoa(b)},
		strconv.Itoa(answer),
		itoa(wrong),
		engine.Params{"range": rangeMax, "options": 4},
	)
}
