package games

import (
	"math/rand"

	"heroworld/internal/engine"
)

func init() { Register(AnimalSounds{}) }

// Animal is a sound-game animal. The prompt carries the id; shells map it to a sound asset.
type Animal struct {
	ID    string
	Name  string
	Emoji string
}

var animals = []Animal{
	{ID: "lion", Name: "أسد", Emoji: "🦁"},
	{ID: "cow", Name: "بقرة", Emoji: "🐮"},
	{ID: "duck", Name: "بطة", Emoji: "🦆"},
	{ID: "sheep", Name: "خروف", Emoji: "🐑"},
	{ID: "dog", Name: "كلب", Emoji: "🐶"},
	{ID: "cat", Name: "قطة", Emoji: "🐱"},
	{ID: "elephant", Name: "فيل", Emoji: "🐘"},
	{ID: "horse", Name: "حصان", Emoji: "🐴"},
	{ID: "monkey", Name: "قرد", Emoji: "🐒"},
	{ID: "rooster", Name: "ديك", Emoji: "🐓"},
}

// AnimalSounds plays an animal's sound and asks which animal made it
type AnimalSounds struct{}

func (AnimalSounds) ID() string                { return "animal_sounds" }
func (AnimalSounds) Category() engine.Category { return engine.CategoryDiscrete }

func (AnimalSounds) TargetScore(level int, d engine.Difficulty) int {
	return min(3+level/2+engine.ByDifficulty(d, 0, 1, 2), 10)
}

func (AnimalSounds) NewRound(rng *rand.Rand, level int, d engine.Difficulty) engine.Round {
	options := engine.ByDifficulty(d, 4, 6, 8)
	picked := engine.Sample(rng, animals, options)
	target := picked[rng.Intn(len(picked))]

	var wrong []string
	for _, a := range picked {
		if a.ID != target.ID {
			wrong = append(wrong, a.ID)
		}
	}
	return engine.NewRound(rng, []string{target.ID}, target.ID, wrong, engine.Params{"options": options})
}

// AnimalByID returns the animal for id
func AnimalByID(id string) (Animal, bool) {
	for _, a := range animals {
		if a.ID == id {
			return a, true
		}
	}
	return Animal{}, false
}
