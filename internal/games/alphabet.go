package games

import (
	"math/rand"

	"heroworld/internal/engine"
)

func init() { Register(Alphabet{}) }

var arabicLetters = []string{
	"أ", "ب", "ت", "ث", "ج", "ح", "خ", "د", "ذ", "ر", "ز", "س", "ش", "ص",
	"ض", "ط", "ظ", "ع", "غ", "ف", "ق", "ك", "ل", "م", "ن", "ه", "و", "ي",
}

// Alphabet shows a letter and asks the child to find it among the options
type Alphabet struct{}

func (Alphabet) ID() string                { return "alphabet" }
func (Alphabet) Category() engine.Category { return engine.CategoryDiscrete }

func (Alphabet) TargetScore(level int, d engine.Difficulty) int {
	return min(3+level/3+engine.ByDifficulty(d, 0, 3, 6), 15)
}

func (Alphabet) NewRound(rng *rand.Rand, level int, d engine.Difficulty) engine.Round {
	options := engine.ByDifficulty(d, 4, 6, 8)
	target := arabicLetters[rng.Intn(len(arabicLetters))]
	wrong := engine.MustDistractors(rng, arabicLetters, target, options-1)

	return engine.NewRound(rng, []string{target}, target, wrong, engine.Params{"options": options})
}
