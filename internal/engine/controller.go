package engine

import (
	"errors"
	"maps"
	"math/rand"
	"sync"
	"time"
)

// State is the controller's position in the difficulty, level, round flow
type State string

const (
	StateAwaitingDifficulty State = "awaiting_difficulty"
	StateAwaitingLevel      State = "awaiting_level"
	StateInRound            State = "in_round"
	StateCompleted          State = "completed"
	StateExited             State = "exited"
)

// Phase is the sub-state of a sequence round
type Phase string

const (
	PhaseNone       Phase = ""
	PhasePresenting Phase = "presenting"
	PhaseRecalling  Phase = "recalling"
)

// Emotion is the hero's reaction shown next to the game
type Emotion string

const (
	EmotionIdle  Emotion = "idle"
	EmotionHappy Emotion = "happy"
	EmotionSad   Emotion = "sad"
)

const (
	// ReactionDuration is how long a happy or sad reaction lasts
	ReactionDuration = 1200 * time.Millisecond
	// RecallRetryDelay is the pause before a sequence is presented again
	RecallRetryDelay = time.Second
)

var (
	ErrLevelLocked     = errors.New("level is locked")
	ErrWrongState      = errors.New("action not allowed in current state")
	ErrWrongGame       = errors.New("action not supported by this game")
	ErrInputDisabled   = errors.New("input disabled")
	ErrInvalidMove     = errors.New("invalid move")
	ErrPicksIncomplete = errors.New("not enough picks")
)

// CompletionFunc is told which level a finished round unlocks
type CompletionFunc func(gameID string, nextLevel int)

// Options configures a Controller. Zero fields get defaults.
type Options struct {
	Scheduler     *Scheduler
	Sound         SoundProvider
	Rand          *rand.Rand
	UnlockedLevel int
	OnComplete    CompletionFunc
}

// Controller runs one game session from difficulty selection to completion.
// All methods are safe for concurrent use.
type Controller struct {
	mu         sync.Mutex
	game       Game
	sched      *Scheduler
	sound      SoundProvider
	rng        *rand.Rand
	onComplete CompletionFunc

	state      State
	difficulty Difficulty
	level      int
	unlocked   int
	score      Score
	startedAt  time.Duration
	finishedAt time.Duration

	timers *Group
	round  *Round
	board  Board
	field  Field

	seq       []int
	input     []int
	phase     Phase
	activePad int

	picks []string
	story string
	epoch int

	emotion      Emotion
	emotionSeq   int
	emotionTimer TimerID

	pending []func()
}

// NewController creates a controller waiting for a difficulty
func NewController(game Game, opts Options) *Controller {
	c := &Controller{
		game:       game,
		sched:      opts.Scheduler,
		sound:      opts.Sound,
		rng:        opts.Rand,
		onComplete: opts.OnComplete,
		state:      StateAwaitingDifficulty,
		unlocked:   ClampLevel(opts.UnlockedLevel),
		emotion:    EmotionIdle,
		activePad:  -1,
	}
	if c.sched == nil {
		c.sched = NewScheduler()
	}
	if c.sound == nil {
		c.sound = NoSound{}
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return c
}

// Game returns the game strategy this controller runs
func (c *Controller) Game() Game {
	return c.game
}

// Scheduler returns the clock driving this controller's timers
func (c *Controller) Scheduler() *Scheduler {
	return c.sched
}

// State returns the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetUnlockedLevel raises the highest selectable level. Lower values are ignored.
func (c *Controller) SetUnlockedLevel(level int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if level = ClampLevel(level); level > c.unlocked {
		c.unlocked = level
	}
}

// SelectDifficulty moves from difficulty selection to level selection
func (c *Controller) SelectDifficulty(d Difficulty) error {
	if !d.Valid() {
		return ErrInvalidDifficulty
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateAwaitingDifficulty {
		return ErrWrongState
	}
	c.difficulty = d
	c.state = StateAwaitingLevel
	return nil
}

// SelectLevel starts a round at level. Locked levels are rejected and leave
// the state unchanged.
func (c *Controller) SelectLevel(level int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateAwaitingLevel && c.state != StateCompleted {
		return ErrWrongState
	}
	if !ValidLevel(level) {
		return ErrInvalidLevel
	}
	if level > c.unlocked {
		return ErrLevelLocked
	}
	c.leaveRound()
	c.level = level
	c.startRound()
	return nil
}

// Back unwinds exactly one step. Leaving a round forfeits it.
func (c *Controller) Back() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case StateInRound, StateCompleted:
		c.leaveRound()
		c.state = StateAwaitingLevel
	case StateAwaitingLevel:
		c.difficulty = ""
		c.state = StateAwaitingDifficulty
	case StateAwaitingDifficulty:
		c.state = StateExited
	default:
		return ErrWrongState
	}
	return nil
}

// Close stops every timer and exits the session
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leaveRound()
	if c.emotionTimer != 0 {
		c.sched.Cancel(c.emotionTimer)
		c.emotionTimer = 0
	}
	c.state = StateExited
}

// Answer submits a choice in a discrete game
func (c *Controller) Answer(choice string) (Result, error) {
	return c.do(func() (Result, error) {
		if err := c.requireRound(CategoryDiscrete); err != nil {
			return Result{}, err
		}
		if !c.round.Evaluate(choice) {
			c.miss(PenaltyPolicy{})
			return c.result(false), nil
		}
		if !c.hit() {
			r := c.game.(DiscreteGame).NewRound(c.rng, c.level, c.difficulty)
			c.round = &r
		}
		return c.result(true), nil
	})
}

// Move applies a move on a board game
func (c *Controller) Move(m Move) (Result, error) {
	return c.do(func() (Result, error) {
		if err := c.requireRound(CategoryBoard); err != nil {
			return Result{}, err
		}
		v := c.board.Apply(m)
		switch v.Outcome {
		case OutcomeIgnored:
			r := c.result(false)
			r.Ignored = true
			return r, nil
		case OutcomeCorrect:
			c.hit()
		case OutcomeIncorrect:
			c.miss(PenaltyPolicy{})
		}
		if v.SettleAfter > 0 && c.state == StateInRound {
			board := c.board
			c.timers.After(v.SettleAfter, c.timed(c.timers, func() {
				c.applyOutcomes([]Outcome{board.Settle()})
			}))
		}
		return c.result(v.Outcome == OutcomeCorrect), nil
	})
}

// Act applies an input on a continuous game
func (c *Controller) Act(a Action) (Result, error) {
	return c.do(func() (Result, error) {
		if err := c.requireRound(CategoryContinuous); err != nil {
			return Result{}, err
		}
		return c.applyOutcomes(c.field.Act(a)), nil
	})
}

// Snapshot returns a copy of everything a shell needs to render
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		GameID:        c.game.ID(),
		Category:      c.game.Category(),
		State:         c.state,
		Difficulty:    c.difficulty,
		Level:         c.level,
		UnlockedLevel: c.unlocked,
		Score:         c.score.Value,
		Target:        c.score.Target,
		Emotion:       c.emotion,
		Phase:         c.phase,
		ActivePad:     c.activePad,
		Recalled:      len(c.input),
		Story:         c.story,
		ElapsedMs:     c.elapsed().Milliseconds(),
	}
	if c.round != nil {
		r := *c.round
		r.Choices = append([]string(nil), c.round.Choices...)
		r.Swatches = maps.Clone(c.round.Swatches)
		s.Round = &r
	}
	if c.board != nil {
		v := c.board.View()
		s.Board = &v
	}
	if c.field != nil {
		v := c.field.View()
		s.Field = &v
	}
	if sg, ok := c.game.(SequenceGame); ok {
		s.Pads = len(sg.Pads())
		s.SequenceLength = len(c.seq)
	}
	if fg, ok := c.game.(FreePlayGame); ok {
		s.Palette = fg.Palette()
		if c.difficulty.Valid() {
			s.PickLimit = fg.PickLimit(c.difficulty)
		}
		s.Picks = append([]string(nil), c.picks...)
	}
	return s
}

func (c *Controller) elapsed() time.Duration {
	switch c.state {
	case StateInRound:
		return c.sched.Now() - c.startedAt
	case StateCompleted:
		return c.finishedAt - c.startedAt
	}
	return 0
}

// do runs fn under the lock, then fires completion callbacks outside it
func (c *Controller) do(fn func() (Result, error)) (Result, error) {
	c.mu.Lock()
	res, err := fn()
	pending := c.takePending()
	c.mu.Unlock()

	for _, p := range pending {
		p()
	}
	return res, err
}

func (c *Controller) takePending() []func() {
	p := c.pending
	c.pending = nil
	return p
}

// timed wraps a timer callback so it runs under the lock and only while g is
// the live timer group of an active round
func (c *Controller) timed(g *Group, fn func()) func() {
	return func() {
		c.mu.Lock()
		if c.timers != g || c.state != StateInRound {
			c.mu.Unlock()
			return
		}
		fn()
		pending := c.takePending()
		c.mu.Unlock()

		for _, p := range pending {
			p()
		}
	}
}

func (c *Controller) requireRound(cat Category) error {
	if c.state != StateInRound {
		return ErrWrongState
	}
	if c.game.Category() != cat {
		return ErrWrongGame
	}
	return nil
}

func (c *Controller) result(correct bool) Result {
	return Result{
		Correct:   correct,
		Score:     c.score.Value,
		Target:    c.score.Target,
		Completed: c.state == StateCompleted,
	}
}

func (c *Controller) startRound() {
	c.epoch++
	c.state = StateInRound
	c.score = Score{Target: c.game.TargetScore(c.level, c.difficulty)}
	c.startedAt = c.sched.Now()
	c.timers = c.sched.NewGroup()

	switch g := c.game.(type) {
	case DiscreteGame:
		r := g.NewRound(c.rng, c.level, c.difficulty)
		c.round = &r
	case BoardGame:
		c.board = g.NewBoard(c.rng, c.level, c.difficulty)
	case SequenceGame:
		c.seq = c.randomSequence(g, g.SequenceLength(c.level, c.difficulty))
		c.present(0)
	case ContinuousGame:
		c.field = g.NewField(c.rng, c.level, c.difficulty)
		field := c.field
		c.timers.Every(g.SpawnInterval(c.level), c.timed(c.timers, field.Spawn))
		c.timers.Every(g.MoveInterval(), c.timed(c.timers, func() {
			c.applyOutcomes(field.Step())
		}))
	case FreePlayGame:
		c.picks = nil
		c.story = ""
	}
}

// leaveRound cancels both round timers at once and drops round state
func (c *Controller) leaveRound() {
	if c.timers != nil {
		c.timers.Cancel()
		c.timers = nil
	}
	c.round = nil
	c.board = nil
	c.field = nil
	c.seq = nil
	c.input = nil
	c.phase = PhaseNone
	c.activePad = -1
	c.picks = nil
	c.story = ""
}

// hit scores a correct answer and reports whether the round completed
func (c *Controller) hit() bool {
	reached := c.score.Hit()
	c.sound.PlaySound(SoundCorrect)
	c.react(EmotionHappy)
	if reached {
		c.complete()
	}
	return reached
}

func (c *Controller) miss(p PenaltyPolicy) {
	c.score.Miss(p)
	c.sound.PlaySound(SoundIncorrect)
	c.react(EmotionSad)
}

func (c *Controller) complete() {
	if c.timers != nil {
		c.timers.Cancel()
		c.timers = nil
	}
	c.state = StateCompleted
	c.finishedAt = c.sched.Now()
	c.phase = PhaseNone
	c.sound.PlaySound(SoundWin)

	next := c.level + 1
	if next > MaxLevel {
		next = MaxLevel
	}
	if next > c.unlocked {
		c.unlocked = next
	}
	if c.onComplete != nil {
		gameID, cb := c.game.ID(), c.onComplete
		c.pending = append(c.pending, func() { cb(gameID, next) })
	}
}

func (c *Controller) applyOutcomes(outs []Outcome) Result {
	correct := false
	var penalty PenaltyPolicy
	if cg, ok := c.game.(ContinuousGame); ok {
		penalty = cg.Penalty()
	}
	for _, o := range outs {
		if c.state != StateInRound {
			break
		}
		switch o {
		case OutcomeCorrect:
			correct = true
			c.hit()
		case OutcomeIncorrect:
			c.miss(penalty)
		}
	}
	return c.result(correct)
}

func (c *Controller) react(e Emotion) {
	c.emotion = e
	if c.emotionTimer != 0 {
		c.sched.Cancel(c.emotionTimer)
	}
	c.emotionSeq++
	seq := c.emotionSeq
	c.emotionTimer = c.sched.After(ReactionDuration, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.emotionSeq == seq {
			c.emotion = EmotionIdle
			c.emotionTimer = 0
		}
	})
}
