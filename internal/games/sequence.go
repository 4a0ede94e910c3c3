package games

import (
	"time"

	"heroworld/internal/engine"
)

func init() {
	Register(Simon{})
	Register(Piano{})
}

var (
	simonPads = []float64{261.63, 329.63, 392.00, 523.25}
	pianoKeys = []float64{261.63, 293.66, 329.63, 349.23, 392.00, 440.00, 493.88, 523.25}
)

func sequenceTempo(d engine.Difficulty) time.Duration {
	return engine.ByDifficulty(d, 800*time.Millisecond, 600*time.Millisecond, 400*time.Millisecond)
}

// Simon plays a run of coloured pads for the child to repeat
type Simon struct{}

func (Simon) ID() string                             { return "simon" }
func (Simon) Category() engine.Category              { return engine.CategorySequence }
func (Simon) TargetScore(int, engine.Difficulty) int { return 1 }
func (Simon) Pads() []float64                        { return simonPads }
func (Simon) Tempo(d engine.Difficulty) time.Duration {
	return sequenceTempo(d)
}
func (Simon) SettleDelay() time.Duration { return 500 * time.Millisecond }

func (Simon) SequenceLength(level int, d engine.Difficulty) int {
	return min(3+level/2, 10) + engine.ByDifficulty(d, 0, 2, 4)
}

// Piano is Simon on an eight-key C major scale
type Piano struct{}

func (Piano) ID() string                             { return "piano" }
func (Piano) Category() engine.Category              { return engine.CategorySequence }
func (Piano) TargetScore(int, engine.Difficulty) int { return 1 }
func (Piano) Pads() []float64                        { return pianoKeys }
func (Piano) Tempo(d engine.Difficulty) time.Duration {
	return sequenceTempo(d)
}
func (Piano) SettleDelay() time.Duration { return 600 * time.Millisecond }

func (Piano) SequenceLength(level int, d engine.Difficulty) int {
	return min(2+level/2, 6) + engine.ByDifficulty(d, 0, 2, 4)
}
