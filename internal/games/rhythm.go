package games

import (
	"math/rand"
	"time"

	"heroworld/internal/engine"
)

func init() { Register(Rhythm{}) }

const (
	RhythmLanes  = 3
	rhythmStartY = -50
	rhythmStep   = 4
	rhythmFloor  = 550
	hitZoneTop   = 400
	hitZoneEnd   = 500
)

var rhythmIcons = []string{"⭐", "🎵", "🎈"}

// Rhythm drops notes down three lanes; tapping a lane while a note is in the hit zone scores
type Rhythm struct{}

func (Rhythm) ID() string                { return "rhythm" }
func (Rhythm) Category() engine.Category { return engine.CategoryContinuous }

func (Rhythm) TargetScore(int, engine.Difficulty) int { return 15 }

func (Rhythm) SpawnInterval(int) time.Duration { return 1200 * time.Millisecond }
func (Rhythm) MoveInterval() time.Duration     { return 30 * time.Millisecond }
func (Rhythm) Penalty() engine.PenaltyPolicy   { return engine.PenaltyPolicy{} }

func (Rhythm) NewField(rng *rand.Rand, _ int, _ engine.Difficulty) engine.Field {
	return &rhythmField{rng: rng}
}

type rhythmField struct {
	rng    *rand.Rand
	nextID int
	notes  []engine.Entity
}

func (f *rhythmField) Spawn() {
	f.nextID++
	f.notes = append(f.notes, engine.Entity{
		ID:    f.nextID,
		Kind:  "note",
		Icon:  rhythmIcons[f.rng.Intn(len(rhythmIcons))],
		Lane:  f.rng.Intn(RhythmLanes),
		Y:     rhythmStartY,
		Speed: rhythmStep,
	})
}

func (f *rhythmField) Step() []engine.Outcome {
	kept := f.notes[:0]
	for _, n := range f.notes {
		n.Y += n.Speed
		if n.Y < rhythmFloor {
			kept = append(kept, n)
		}
	}
	f.notes = kept
	return nil
}

// Act scores the first note of the tapped lane inside the hit zone. Taps that miss are ignored.
func (f *rhythmField) Act(a engine.Action) []engine.Outcome {
	if a.Kind != engine.ActionTap {
		return nil
	}
	for i, n := range f.notes {
		if n.Lane == a.Lane && n.Y > hitZoneTop && n.Y < hitZoneEnd {
			f.notes = append(f.notes[:i], f.notes[i+1:]...)
			return []engine.Outcome{engine.OutcomeCorrect}
		}
	}
	return nil
}

func (f *rhythmField) View() engine.FieldView {
	ns := make([]engine.Entity, len(f.notes))
	copy(ns, f.notes)
	return engine.FieldView{Entities: ns}
}
