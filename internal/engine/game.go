package engine

import (
	"errors"
	"math/rand"
	"time"
)

// ErrUnknownGame is returned for a game id with no registered strategy
var ErrUnknownGame = errors.New("unknown game")

// Category groups games by how a round is played
type Category string

const (
	CategoryDiscrete   Category = "discrete"
	CategoryBoard      Category = "board"
	CategorySequence   Category = "sequence"
	CategoryContinuous Category = "continuous"
	CategoryFreePlay   Category = "freeplay"
)

// Game is the strategy behind one mini-game
type Game interface {
	ID() string
	Category() Category
	TargetScore(level int, d Difficulty) int
}

// DiscreteGame produces independent question rounds
type DiscreteGame interface {
	Game
	NewRound(rng *rand.Rand, level int, d Difficulty) Round
}

// Outcome is the evaluation of one input
type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomeNeutral
	OutcomeCorrect
	OutcomeIncorrect
)

// Move is an input on a board game
type Move struct {
	Index int    `json:"index"`
	Value string `json:"value,omitempty"`
}

// Verdict is a board's answer to a move. A non-zero SettleAfter asks the
// controller to call Settle once that much time has passed; the outcome
// Settle returns is scored like a move.
type Verdict struct {
	Outcome     Outcome
	SettleAfter time.Duration
}

// Cell is one visible square of a board
type Cell struct {
	Value    string `json:"value,omitempty"`
	Revealed bool   `json:"revealed,omitempty"`
	Matched  bool   `json:"matched,omitempty"`
	Fixed    bool   `json:"fixed,omitempty"`
	Wrong    bool   `json:"wrong,omitempty"`
}

// BoardView is the renderable state of a board
type BoardView struct {
	Columns int      `json:"columns"`
	Cells   []Cell   `json:"cells"`
	Tray    []string `json:"tray,omitempty"`
}

// Board is the mutable state of a board round
type Board interface {
	Apply(m Move) Verdict
	Settle() Outcome
	View() BoardView
}

// BoardGame builds a fresh board per round
type BoardGame interface {
	Game
	NewBoard(rng *rand.Rand, level int, d Difficulty) Board
}

// SequenceGame is a present-then-recall game
type SequenceGame interface {
	Game
	SequenceLength(level int, d Difficulty) int
	// Pads returns the frequency of every pad; len is the pad count.
	Pads() []float64
	Tempo(d Difficulty) time.Duration
	// SettleDelay is the pause between the last presented note and recall
	SettleDelay() time.Duration
}

// ActionKind names a continuous-game input
type ActionKind string

const (
	ActionSteer ActionKind = "steer"
	ActionPop   ActionKind = "pop"
	ActionTap   ActionKind = "tap"
)

// Action is an input on a continuous game
type Action struct {
	Kind ActionKind `json:"kind"`
	X    float64    `json:"x,omitempty"`
	ID   int        `json:"id,omitempty"`
	Lane int        `json:"lane,omitempty"`
}

// Entity is a moving object in a continuous game
type Entity struct {
	ID    int     `json:"id"`
	Kind  string  `json:"kind"`
	Icon  string  `json:"icon"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Speed float64 `json:"speed"`
	Lane  int     `json:"lane,omitempty"`
}

// FieldView is the renderable state of a continuous field
type FieldView struct {
	Entities []Entity `json:"entities"`
	Player   float64  `json:"player,omitempty"`
}

// Field is the mutable state of a continuous round
type Field interface {
	Spawn()
	Step() []Outcome
	Act(a Action) []Outcome
	View() FieldView
}

// ContinuousGame spawns and moves entities on two independent timers
type ContinuousGame interface {
	Game
	NewField(rng *rand.Rand, level int, d Difficulty) Field
	SpawnInterval(level int) time.Duration
	MoveInterval() time.Duration
	Penalty() PenaltyPolicy
}

// FreePlayGame has no scoring loop; the round ends on request
type FreePlayGame interface {
	Game
	Palette() []string
	// PickLimit is how many palette items must be picked; zero means none.
	PickLimit(d Difficulty) int
}
