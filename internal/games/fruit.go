package games

import (
	"math"
	"math/rand"
	"time"

	"heroworld/internal/engine"
)

func init() { Register(FruitCatch{}) }

var fallingFruits = []string{"🍎", "🍐", "🍊", "🍋", "🍌", "🍉", "🍇", "🍓", "🍒", "🥝"}

const (
	bombIcon = "💣"

	KindFruit = "fruit"
	KindBomb  = "bomb"

	basketStart   = 50
	basketMin     = 5
	basketMax     = 95
	basketReach   = 10
	catchTop      = 85
	catchBottom   = 95
	fieldBottom   = 100
	fruitSpawnY   = -10
	BombPenalty   = 5
	fruitMoveTick = 30 * time.Millisecond
)

// FruitCatch drops fruit and bombs towards a basket the child steers
type FruitCatch struct{}

func (FruitCatch) ID() string                { return "fruit_catch" }
func (FruitCatch) Category() engine.Category { return engine.CategoryContinuous }

func (FruitCatch) TargetScore(level int, _ engine.Difficulty) int {
	return min(10+2*level, 50)
}

func (FruitCatch) SpawnInterval(level int) time.Duration {
	return time.Duration(1000-min(20*level, 500)) * time.Millisecond
}

func (FruitCatch) MoveInterval() time.Duration { return fruitMoveTick }

// Penalty removes five points for a caught bomb without going below zero
func (FruitCatch) Penalty() engine.PenaltyPolicy {
	return engine.PenaltyPolicy{Amount: BombPenalty, ClampAtZero: true}
}

// BombChance is the probability that a spawned item is a bomb
func (FruitCatch) BombChance(d engine.Difficulty) float64 {
	return engine.ByDifficulty(d, 0.05, 0.15, 0.25)
}

func (f FruitCatch) NewField(rng *rand.Rand, level int, d engine.Difficulty) engine.Field {
	return &fruitField{
		rng:    rng,
		level:  level,
		bomb:   f.BombChance(d),
		speed:  engine.ByDifficulty(d, 1.0, 1.2, 1.5),
		basket: basketStart,
	}
}

type fruitField struct {
	rng    *rand.Rand
	level  int
	bomb   float64
	speed  float64
	basket float64
	nextID int
	items  []engine.Entity
}

func (f *fruitField) Spawn() {
	f.nextID++
	e := engine.Entity{
		ID:    f.nextID,
		Kind:  KindFruit,
		Icon:  fallingFruits[f.rng.Intn(len(fallingFruits))],
		X:     f.rng.Float64()*90 + 5,
		Y:     fruitSpawnY,
		Speed: (2 + f.rng.Float64()*2) * f.speed * (1 + float64(f.level)/20),
	}
	if f.rng.Float64() < f.bomb {
		e.Kind, e.Icon = KindBomb, bombIcon
	}
	f.items = append(f.items, e)
}

// Step moves every item down, reporting catches. Missed fruit is dropped silently.
func (f *fruitField) Step() []engine.Outcome {
	var outs []engine.Outcome
	kept := f.items[:0]
	for _, e := range f.items {
		e.Y += e.Speed
		switch {
		case e.Y > catchTop && e.Y < catchBottom && math.Abs(e.X-f.basket) < basketReach:
			if e.Kind == KindBomb {
				outs = append(outs, engine.OutcomeIncorrect)
			} else {
				outs = append(outs, engine.OutcomeCorrect)
			}
		case e.Y > fieldBottom:
		default:
			kept = append(kept, e)
		}
	}
	f.items = kept
	return outs
}

func (f *fruitField) Act(a engine.Action) []engine.Outcome {
	if a.Kind == engine.ActionSteer {
		f.basket = math.Max(basketMin, math.Min(basketMax, a.X))
	}
	return nil
}

func (f *fruitField) View() engine.FieldView {
	items := make([]engine.Entity, len(f.items))
	copy(items, f.items)
	return engine.FieldView{Entities: items, Player: f.basket}
}
