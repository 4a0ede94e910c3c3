package games

import (
	"math/rand"

	"heroworld/internal/engine"
)

func init() { Register(OddOneOut{}) }

type itemCategory struct {
	Name  string
	Items []string
}

var oddOneCategories = []itemCategory{
	{Name: "fruits", Items: []string{"🍎", "🍌", "🍇", "🍓", "🍒", "🍍", "🥝", "🍉"}},
	{Name: "animals", Items: []string{"🦁", "🐯", "🐼", "🦊", "🐰", "🐭", "🐨", "🐸"}},
	{Name: "vehicles", Items: []string{"🚗", "✈️", "🚂", "🚁", "🚢", "🚲", "🚀", "🚜"}},
	{Name: "sports", Items: []string{"⚽", "🏀", "🎾", "🏐", "🏈", "⚾", "🎱", "🏓"}},
	{Name: "sweets", Items: []string{"🍦", "🍩", "🍪", "🍰", "🧁", "🍭", "🍬", "🍫"}},
}

// OddOneOut shows items of one category plus a single intruder
type OddOneOut struct{}

func (OddOneOut) ID() string                { return "odd_one" }
func (OddOneOut) Category() engine.Category { return engine.CategoryDiscrete }

func (OddOneOut) TargetScore(level int, d engine.Difficulty) int {
	return min(3+level/2+engine.ByDifficulty(d, 0, 1, 2), 10)
}

func (OddOneOut) NewRound(rng *rand.Rand, level int, d engine.Difficulty) engine.Round {
	cats := engine.Sample(rng, oddOneCategories, 2)
	main, odd := cats[0], cats[1]

	count := engine.ByDifficulty(d, 3, 5, 7)
	items := engine.Sample(rng, main.Items, count)
	intruder := odd.Items[rng.Intn(len(odd.Items))]

	return engine.NewRound(rng, []string{main.Name}, intruder, items, engine.Params{"items": count + 1})
}
