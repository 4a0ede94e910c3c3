package games

import (
	"math/rand"
	"time"

	"heroworld/internal/engine"
)

func init() { Register(BalloonPop{}) }

var balloonColors = []string{"red", "blue", "green", "yellow", "pink", "purple", "orange"}

// BalloonPop floats balloons up the screen to be popped
type BalloonPop struct{}

func (BalloonPop) ID() string                { return "balloon_pop" }
func (BalloonPop) Category() engine.Category { return engine.CategoryContinuous }

func (BalloonPop) TargetScore(level int, _ engine.Difficulty) int {
	return min(10+2*level, 40)
}

func (BalloonPop) SpawnInterval(level int) time.Duration {
	return time.Duration(max(1200-20*level, 400)) * time.Millisecond
}

func (BalloonPop) MoveInterval() time.Duration { return 20 * time.Millisecond }

// Penalty is zero; balloons that escape cost nothing
func (BalloonPop) Penalty() engine.PenaltyPolicy { return engine.PenaltyPolicy{} }

func (BalloonPop) NewField(rng *rand.Rand, level int, d engine.Difficulty) engine.Field {
	return &balloonField{
		rng:   rng,
		level: level,
		speed: engine.ByDifficulty(d, 1.0, 1.3, 1.6),
	}
}

type balloonField struct {
	rng      *rand.Rand
	level    int
	speed    float64
	nextID   int
	balloons []engine.Entity
}

func (f *balloonField) Spawn() {
	f.nextID++
	f.balloons = append(f.balloons, engine.Entity{
		ID:    f.nextID,
		Kind:  balloonColors[f.rng.Intn(len(balloonColors))],
		Icon:  "🎈",
		X:     f.rng.Float64()*80 + 10,
		Y:     110,
		Speed: (1 + f.rng.Float64()*1.5) * f.speed * (1 + float64(f.level)/25),
	})
}

func (f *balloonField) Step() []engine.Outcome {
	kept := f.balloons[:0]
	for _, b := range f.balloons {
		b.Y -= b.Speed
		if b.Y > -20 {
			kept = append(kept, b)
		}
	}
	f.balloons = kept
	return nil
}

func (f *balloonField) Act(a engine.Action) []engine.Outcome {
	if a.Kind != engine.ActionPop {
		return nil
	}
	for i, b := range f.balloons {
		if b.ID == a.ID {
			f.balloons = append(f.balloons[:i], f.balloons[i+1:]...)
			return []engine.Outcome{engine.OutcomeCorrect}
		}
	}
	return nil
}

func (f *balloonField) View() engine.FieldView {
	bs := make([]engine.Entity, len(f.balloons))
	copy(bs, f.balloons)
	return engine.FieldView{Entities: bs}
}
