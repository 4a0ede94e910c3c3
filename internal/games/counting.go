package games

import (
	"math/rand"
	"strconv"

	"heroworld/internal/engine"
)

func init() { Register(Counting{}) }

// Counting shows a sky of stars and asks how many there are
type Counting struct{}

func (Counting) ID() string                { return "counting" }
func (Counting) Category() engine.Category { return engine.CategoryDiscrete }

func (Counting) TargetScore(level int, d engine.Difficulty) int {
	return min(3+level/3+engine.ByDifficulty(d, 0, 1, 2), 8)
}

// MaxStars is the exclusive upper bound of the star count
func (Counting) MaxStars(level int, d engine.Difficulty) int {
	return min(5+level/2+engine.ByDifficulty(d, 0, 5, 10), 20)
}

func (c Counting) NewRound(rng *rand.Rand, level int, d engine.Difficulty) engine.Round {
	maxStars := c.MaxStars(level, d)
	count := rng.Intn(maxStars-2) + 2

	// near misses: count±1..3, never below one
	var near []string
	for delta := 1; delta <= 3; delta++ {
		near = append(near, strconv.Itoa(count+delta))
		if v := count - delta; v >= 1 {
			near = append(near, strconv.Itoa(v))
		}
	}
	wrong := engine.MustDistractors(rng, near, strconv.Itoa(count), 3)

	stars := make([]string, count)
	for i := range stars {
		stars[i] = "⭐"
	}

	return engine.NewRound(rng,
		stars,
		strconv.Itoa(count),
		wrong,
		engine.Params{"max_stars": maxStars, "options": 4},
	)
}
