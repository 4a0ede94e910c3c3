package engine_test

import (
	"context"
	"errors"
	"math/rand"
	"slices"
	"testing"
	"time"

	"heroworld/internal/engine"
	"heroworld/internal/games"
)

type completion struct {
	gameID string
	next   int
}

type harness struct {
	ctrl  *engine.Controller
	sched *engine.Scheduler
	cues  *engine.CueRecorder
	done  []completion
}

func newHarness(t *testing.T, game engine.Game, unlocked int) *harness {
	t.Helper()
	h := &harness{
		sched: engine.NewScheduler(),
		cues:  engine.NewCueRecorder(),
	}
	h.ctrl = engine.NewController(game, engine.Options{
		Scheduler:     h.sched,
		Sound:         h.cues,
		Rand:          rand.New(rand.NewSource(42)),
		UnlockedLevel: unlocked,
		OnComplete: func(gameID string, next int) {
			h.done = append(h.done, completion{gameID, next})
		},
	})
	return h
}

func (h *harness) start(t *testing.T, d engine.Difficulty, level int) {
	t.Helper()
	if err := h.ctrl.SelectDifficulty(d); err != nil {
		t.Fatalf("SelectDifficulty() error = %v", err)
	}
	if err := h.ctrl.SelectLevel(level); err != nil {
		t.Fatalf("SelectLevel(%d) error = %v", level, err)
	}
}

func lookup(t *testing.T, id string) engine.Game {
	t.Helper()
	g, ok := games.Lookup(id)
	if !ok {
		t.Fatalf("game %q not registered", id)
	}
	return g
}

func TestMathRoundToCompletion(t *testing.T) {
	h := newHarness(t, lookup(t, "math"), 1)
	h.start(t, engine.Easy, 1)

	snap := h.ctrl.Snapshot()
	if snap.Target != 3 {
		t.Fatalf("Target = %v, want 3", snap.Target)
	}

	for i := 0; i < 3; i++ {
		res, err := h.ctrl.Answer(h.ctrl.Snapshot().Round.Target)
		if err != nil {
			t.Fatalf("Answer() error = %v", err)
		}
		if !res.Correct || res.Score != i+1 {
			t.Errorf("Answer() = %+v, want correct with score %d", res, i+1)
		}
	}

	if got := h.ctrl.State(); got != engine.StateCompleted {
		t.Errorf("State() = %v, want %v", got, engine.StateCompleted)
	}
	if want := []completion{{"math", 2}}; !slices.Equal(h.done, want) {
		t.Errorf("completions = %v, want %v", h.done, want)
	}
	sounds, _ := h.cues.Drain()
	want := []engine.Sound{engine.SoundCorrect, engine.SoundCorrect, engine.SoundCorrect, engine.SoundWin}
	if !slices.Equal(sounds, want) {
		t.Errorf("sounds = %v, want %v", sounds, want)
	}
	if got := h.ctrl.Snapshot().UnlockedLevel; got != 2 {
		t.Errorf("UnlockedLevel = %v, want 2", got)
	}

	if _, err := h.ctrl.Answer("1"); !errors.Is(err, engine.ErrWrongState) {
		t.Errorf("Answer() after completion error = %v, want %v", err, engine.ErrWrongState)
	}

	// the next level is now playable straight from the completed screen
	if err := h.ctrl.SelectLevel(2); err != nil {
		t.Errorf("SelectLevel(2) error = %v", err)
	}
}

func TestWrongAnswerKeepsRound(t *testing.T) {
	h := newHarness(t, lookup(t, "alphabet"), 1)
	h.start(t, engine.Easy, 1)

	before := h.ctrl.Snapshot().Round
	var wrong string
	for _, c := range before.Choices {
		if c != before.Target {
			wrong = c
			break
		}
	}

	res, err := h.ctrl.Answer(wrong)
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if res.Correct || res.Score != 0 {
		t.Errorf("Answer(wrong) = %+v, want incorrect with score 0", res)
	}

	after := h.ctrl.Snapshot()
	if !slices.Equal(after.Round.Choices, before.Choices) || after.Round.Target != before.Target {
		t.Error("a wrong answer should leave the round in place")
	}
	if after.Emotion != engine.EmotionSad {
		t.Errorf("Emotion = %v, want %v", after.Emotion, engine.EmotionSad)
	}
	if sounds, _ := h.cues.Drain(); !slices.Equal(sounds, []engine.Sound{engine.SoundIncorrect}) {
		t.Errorf("sounds = %v, want incorrect", sounds)
	}
}

func TestLockedLevelRejected(t *testing.T) {
	h := newHarness(t, lookup(t, "math"), 1)
	if err := h.ctrl.SelectDifficulty(engine.Medium); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		level int
		want  error
	}{
		{2, engine.ErrLevelLocked},
		{0, engine.ErrInvalidLevel},
		{31, engine.ErrInvalidLevel},
	}
	for _, tt := range tests {
		if err := h.ctrl.SelectLevel(tt.level); !errors.Is(err, tt.want) {
			t.Errorf("SelectLevel(%d) error = %v, want %v", tt.level, err, tt.want)
		}
		if got := h.ctrl.State(); got != engine.StateAwaitingLevel {
			t.Errorf("State() = %v after SelectLevel(%d), want unchanged", got, tt.level)
		}
	}

	h.ctrl.SetUnlockedLevel(5)
	h.ctrl.SetUnlockedLevel(2)
	if got := h.ctrl.Snapshot().UnlockedLevel; got != 5 {
		t.Errorf("UnlockedLevel = %v, want 5", got)
	}
}

func TestBackUnwindsOneStep(t *testing.T) {
	h := newHarness(t, lookup(t, "colors"), 1)
	h.start(t, engine.Hard, 1)

	steps := []engine.State{
		engine.StateAwaitingLevel,
		engine.StateAwaitingDifficulty,
		engine.StateExited,
	}
	for _, want := range steps {
		if err := h.ctrl.Back(); err != nil {
			t.Fatalf("Back() error = %v", err)
		}
		if got := h.ctrl.State(); got != want {
			t.Errorf("State() = %v, want %v", got, want)
		}
	}
	if err := h.ctrl.Back(); !errors.Is(err, engine.ErrWrongState) {
		t.Errorf("Back() from exited error = %v, want %v", err, engine.ErrWrongState)
	}
}

func TestWrongCategoryInput(t *testing.T) {
	h := newHarness(t, lookup(t, "math"), 1)
	if _, err := h.ctrl.Answer("1"); !errors.Is(err, engine.ErrWrongState) {
		t.Errorf("Answer() before a round error = %v, want %v", err, engine.ErrWrongState)
	}
	h.start(t, engine.Easy, 1)
	if _, err := h.ctrl.Move(engine.Move{}); !errors.Is(err, engine.ErrWrongGame) {
		t.Errorf("Move() error = %v, want %v", err, engine.ErrWrongGame)
	}
	if _, err := h.ctrl.Press(0); !errors.Is(err, engine.ErrWrongGame) {
		t.Errorf("Press() error = %v, want %v", err, engine.ErrWrongGame)
	}
	if err := h.ctrl.SelectDifficulty(engine.Hard); !errors.Is(err, engine.ErrWrongState) {
		t.Errorf("SelectDifficulty() in round error = %v, want %v", err, engine.ErrWrongState)
	}
}

func TestReactionResets(t *testing.T) {
	h := newHarness(t, lookup(t, "math"), 1)
	h.start(t, engine.Hard, 1)

	if _, err := h.ctrl.Answer(h.ctrl.Snapshot().Round.Target); err != nil {
		t.Fatal(err)
	}
	h.sched.Advance(engine.ReactionDuration - time.Millisecond)
	if got := h.ctrl.Snapshot().Emotion; got != engine.EmotionHappy {
		t.Errorf("Emotion = %v, want %v", got, engine.EmotionHappy)
	}
	h.sched.Advance(time.Millisecond)
	if got := h.ctrl.Snapshot().Emotion; got != engine.EmotionIdle {
		t.Errorf("Emotion = %v, want %v", got, engine.EmotionIdle)
	}
}

func TestShapesWrongSlotIsSilent(t *testing.T) {
	h := newHarness(t, lookup(t, "shapes"), 1)
	h.start(t, engine.Easy, 1)

	slot := h.ctrl.Snapshot().Board.Cells[0].Value
	for _, piece := range h.ctrl.Snapshot().Board.Tray {
		res, err := h.ctrl.Move(engine.Move{Index: 0, Value: piece})
		if err != nil {
			t.Fatal(err)
		}
		if res.Correct {
			continue
		}
		if !res.Ignored {
			t.Errorf("Move(%s on %s) = %+v, want ignored", piece, slot, res)
		}
	}
	if sounds, _ := h.cues.Drain(); slices.Contains(sounds, engine.SoundIncorrect) {
		t.Errorf("sounds = %v, want no incorrect cue", sounds)
	}
	if got := h.ctrl.Snapshot().Emotion; got == engine.EmotionSad {
		t.Errorf("Emotion = %v after wrong drops", got)
	}
}

func TestCompletionAtLastLevel(t *testing.T) {
	h := newHarness(t, lookup(t, "shapes"), 30)
	h.start(t, engine.Easy, 30)

	// shapes: feed every tray piece to the slot that takes it
	for h.ctrl.State() == engine.StateInRound {
		board := h.ctrl.Snapshot().Board
		moved := false
		for i, cell := range board.Cells {
			if cell.Matched {
				continue
			}
			for _, piece := range board.Tray {
				res, err := h.ctrl.Move(engine.Move{Index: i, Value: piece})
				if err != nil {
					t.Fatal(err)
				}
				if res.Correct {
					moved = true
					break
				}
			}
			if moved {
				break
			}
		}
		if !moved {
			t.Fatal("no piece fits")
		}
	}

	if want := []completion{{"shapes", 30}}; !slices.Equal(h.done, want) {
		t.Errorf("completions = %v, want %v", h.done, want)
	}
}

// settleBoard records Settle calls
type settleBoard struct{ settled int }

func (b *settleBoard) Apply(engine.Move) engine.Verdict {
	return engine.Verdict{Outcome: engine.OutcomeIncorrect, SettleAfter: 500 * time.Millisecond}
}
func (b *settleBoard) Settle() engine.Outcome {
	b.settled++
	return engine.OutcomeNeutral
}
func (b *settleBoard) View() engine.BoardView { return engine.BoardView{} }

type settleGame struct{ board *settleBoard }

func (settleGame) ID() string                             { return "settle" }
func (settleGame) Category() engine.Category              { return engine.CategoryBoard }
func (settleGame) TargetScore(int, engine.Difficulty) int { return 1 }
func (g settleGame) NewBoard(*rand.Rand, int, engine.Difficulty) engine.Board {
	return g.board
}

func TestBoardSettleTimer(t *testing.T) {
	board := &settleBoard{}
	h := newHarness(t, settleGame{board: board}, 1)
	h.start(t, engine.Easy, 1)

	res, err := h.ctrl.Move(engine.Move{Index: 0})
	if err != nil {
		t.Fatal(err)
	}
	if res.Correct {
		t.Error("Move() should be incorrect")
	}

	h.sched.Advance(499 * time.Millisecond)
	if board.settled != 0 {
		t.Fatal("Settle() ran early")
	}
	h.sched.Advance(time.Millisecond)
	if board.settled != 1 {
		t.Fatalf("Settle() ran %d times, want 1", board.settled)
	}

	// leaving the round drops the pending settle
	if _, err := h.ctrl.Move(engine.Move{Index: 0}); err != nil {
		t.Fatal(err)
	}
	if err := h.ctrl.Back(); err != nil {
		t.Fatal(err)
	}
	h.sched.Advance(time.Second)
	if board.settled != 1 {
		t.Errorf("Settle() ran after Back(), count %d", board.settled)
	}
}

func TestMemoryMissCountsWhenCardsFlipBack(t *testing.T) {
	h := newHarness(t, lookup(t, "memory"), 30)
	h.start(t, engine.Hard, 30)

	unmatched := func() []int {
		board := h.ctrl.Snapshot().Board
		if board == nil {
			return nil
		}
		var idx []int
		for i, c := range board.Cells {
			if !c.Matched {
				idx = append(idx, i)
			}
		}
		return idx
	}

	for {
		open := unmatched()
		if len(open) < 2 {
			t.Fatal("board cleared without a mismatch")
		}
		if _, err := h.ctrl.Move(engine.Move{Index: open[0]}); err != nil {
			t.Fatal(err)
		}
		res, err := h.ctrl.Move(engine.Move{Index: open[1]})
		if err != nil {
			t.Fatal(err)
		}
		if res.Correct {
			h.cues.Drain()
			continue
		}

		if sounds, _ := h.cues.Drain(); slices.Contains(sounds, engine.SoundIncorrect) {
			t.Errorf("incorrect cue played while the pair is still face up: %v", sounds)
		}
		if got := h.ctrl.Snapshot().Board.Cells[open[1]].Revealed; !got {
			t.Error("second card should stay face up until it flips back")
		}

		h.sched.Advance(games.FlipBackDelay)
		sounds, _ := h.cues.Drain()
		if !slices.Contains(sounds, engine.SoundIncorrect) {
			t.Errorf("sounds after flip back = %v, want %v", sounds, engine.SoundIncorrect)
		}
		if got := h.ctrl.Snapshot().Emotion; got != engine.EmotionSad {
			t.Errorf("Emotion = %v, want %v", got, engine.EmotionSad)
		}
		if c := h.ctrl.Snapshot().Board.Cells[open[1]]; c.Revealed {
			t.Error("mismatched card should be face down after the flip back")
		}
		return
	}
}

func TestContinuousTimersStopOnBack(t *testing.T) {
	h := newHarness(t, lookup(t, "balloon_pop"), 1)
	h.start(t, engine.Easy, 1)

	h.sched.Advance(3 * time.Second)
	snap := h.ctrl.Snapshot()
	if snap.Field == nil || len(snap.Field.Entities) == 0 {
		t.Fatal("no balloons after 3s")
	}

	res, err := h.ctrl.Act(engine.Action{Kind: engine.ActionPop, ID: snap.Field.Entities[0].ID})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Correct || res.Score != 1 {
		t.Errorf("Act(pop) = %+v, want correct with score 1", res)
	}

	if err := h.ctrl.Back(); err != nil {
		t.Fatal(err)
	}
	h.sched.Advance(5 * time.Second)
	if n := h.sched.Pending(); n != 0 {
		t.Errorf("Pending() = %v after Back(), want 0", n)
	}
	if h.ctrl.Snapshot().Field != nil {
		t.Error("field should be dropped after Back()")
	}
}

// bombField catches one fruit per tap and one bomb per step
type bombField struct{}

func (bombField) Spawn() {}
func (bombField) Step() []engine.Outcome {
	return []engine.Outcome{engine.OutcomeIncorrect}
}
func (bombField) Act(engine.Action) []engine.Outcome {
	return []engine.Outcome{engine.OutcomeCorrect}
}
func (bombField) View() engine.FieldView { return engine.FieldView{} }

type bombGame struct{ games.FruitCatch }

func (bombGame) NewField(*rand.Rand, int, engine.Difficulty) engine.Field { return bombField{} }

func TestBombPenaltyClampsAtZero(t *testing.T) {
	h := newHarness(t, bombGame{}, 1)
	h.start(t, engine.Easy, 1)

	if res, _ := h.ctrl.Act(engine.Action{Kind: engine.ActionTap}); res.Score != 1 {
		t.Fatalf("Score = %v, want 1", res.Score)
	}
	h.sched.Advance(30 * time.Millisecond)
	if got := h.ctrl.Snapshot().Score; got != 0 {
		t.Errorf("Score = %v after one bomb, want 0", got)
	}
	h.sched.Advance(300 * time.Millisecond)
	if got := h.ctrl.Snapshot().Score; got != 0 {
		t.Errorf("Score = %v after many bombs, want 0", got)
	}
}

// lowestBomb returns the X of the bomb closest to the basket
func lowestBomb(snap engine.Snapshot) (float64, bool) {
	if snap.Field == nil {
		return 0, false
	}
	x, y, found := 0.0, -1e9, false
	for _, e := range snap.Field.Entities {
		if e.Kind == games.KindBomb && e.Y < 95 && e.Y > y {
			x, y, found = e.X, e.Y, true
		}
	}
	return x, found
}

func TestFruitCatchBombAtZeroStaysZero(t *testing.T) {
	h := newHarness(t, lookup(t, "fruit_catch"), 1)
	h.start(t, engine.Hard, 1)

	caught := false
	for i := 0; i < 4000 && !caught; i++ {
		snap := h.ctrl.Snapshot()
		if snap.State != engine.StateInRound {
			t.Fatalf("State = %v, round ended before a bomb was caught", snap.State)
		}
		if x, ok := lowestBomb(snap); ok {
			if _, err := h.ctrl.Act(engine.Action{Kind: engine.ActionSteer, X: x}); err != nil {
				t.Fatal(err)
			}
		}
		h.cues.Drain()

		before := h.ctrl.Snapshot().Score
		h.sched.Advance(30 * time.Millisecond)
		sounds, _ := h.cues.Drain()
		if before != 0 || slices.Contains(sounds, engine.SoundCorrect) || !slices.Contains(sounds, engine.SoundIncorrect) {
			continue
		}
		caught = true
		if got := h.ctrl.Snapshot().Score; got != 0 {
			t.Errorf("Score = %v after a bomb at zero, want 0", got)
		}
		if got := h.ctrl.Snapshot().Emotion; got != engine.EmotionSad {
			t.Errorf("Emotion = %v after a bomb, want %v", got, engine.EmotionSad)
		}
	}
	if !caught {
		t.Fatal("no bomb was caught at score 0")
	}
}

func presented(h *harness) []int {
	_, notes := h.cues.Drain()
	pads := make([]int, len(notes))
	for i, n := range notes {
		pads[i] = n.Pad
	}
	return pads
}

func TestSequenceRecall(t *testing.T) {
	game := lookup(t, "simon").(engine.SequenceGame)
	h := newHarness(t, game, 1)
	h.start(t, engine.Easy, 1)

	snap := h.ctrl.Snapshot()
	if snap.Phase != engine.PhasePresenting || snap.SequenceLength != 3 {
		t.Fatalf("Phase = %v, SequenceLength = %v; want presenting 3", snap.Phase, snap.SequenceLength)
	}
	if _, err := h.ctrl.Press(0); !errors.Is(err, engine.ErrInputDisabled) {
		t.Errorf("Press() while presenting error = %v, want %v", err, engine.ErrInputDisabled)
	}

	show := game.Tempo(engine.Easy)*3 + game.SettleDelay()
	h.sched.Advance(show)
	if got := h.ctrl.Snapshot().Phase; got != engine.PhaseRecalling {
		t.Fatalf("Phase = %v, want %v", got, engine.PhaseRecalling)
	}
	seq := presented(h)
	if len(seq) != 3 {
		t.Fatalf("presented %v, want 3 notes", seq)
	}

	t.Run("mismatch presents again", func(t *testing.T) {
		if _, err := h.ctrl.Press(seq[0]); err != nil {
			t.Fatal(err)
		}
		res, err := h.ctrl.Press((seq[1] + 1) % 4)
		if err != nil {
			t.Fatal(err)
		}
		if res.Correct {
			t.Error("wrong pad reported correct")
		}
		snap := h.ctrl.Snapshot()
		if snap.Phase != engine.PhasePresenting || snap.Recalled != 0 {
			t.Errorf("Phase = %v, Recalled = %v; want presenting with nothing recalled", snap.Phase, snap.Recalled)
		}
		if _, err := h.ctrl.Press(seq[0]); !errors.Is(err, engine.ErrInputDisabled) {
			t.Errorf("Press() error = %v, want %v", err, engine.ErrInputDisabled)
		}
		h.cues.Drain()

		h.sched.Advance(engine.RecallRetryDelay + show)
		if got := h.ctrl.Snapshot().Phase; got != engine.PhaseRecalling {
			t.Fatalf("Phase = %v, want %v", got, engine.PhaseRecalling)
		}
		if again := presented(h); !slices.Equal(again, seq) {
			t.Errorf("presented %v again, want %v", again, seq)
		}
	})

	t.Run("full recall completes", func(t *testing.T) {
		for _, pad := range seq {
			if _, err := h.ctrl.Press(pad); err != nil {
				t.Fatal(err)
			}
		}
		if got := h.ctrl.State(); got != engine.StateCompleted {
			t.Errorf("State() = %v, want %v", got, engine.StateCompleted)
		}
	})

	if _, err := h.ctrl.Press(9); !errors.Is(err, engine.ErrWrongState) {
		t.Errorf("Press() after completion error = %v, want %v", err, engine.ErrWrongState)
	}
}

type fixedTeller struct {
	story string
	ok    bool
	picks []string
}

func (f *fixedTeller) Tell(_ context.Context, picks []string) (string, bool) {
	f.picks = picks
	return f.story, f.ok
}

func TestStoryCompose(t *testing.T) {
	h := newHarness(t, lookup(t, "story"), 1)
	h.start(t, engine.Easy, 1)

	if err := h.ctrl.TogglePick("🍔"); !errors.Is(err, engine.ErrInvalidMove) {
		t.Errorf("TogglePick(not in palette) error = %v, want %v", err, engine.ErrInvalidMove)
	}
	if _, err := h.ctrl.Compose(context.Background(), &fixedTeller{}); !errors.Is(err, engine.ErrPicksIncomplete) {
		t.Errorf("Compose() error = %v, want %v", err, engine.ErrPicksIncomplete)
	}

	for _, p := range []string{"🦁", "🚀", "🏰"} {
		if err := h.ctrl.TogglePick(p); err != nil {
			t.Fatal(err)
		}
	}
	if got := h.ctrl.Snapshot().Picks; !slices.Equal(got, []string{"🦁", "🚀"}) {
		t.Errorf("Picks = %v, want the first two", got)
	}

	fallback := &fixedTeller{story: "try again", ok: false}
	story, err := h.ctrl.Compose(context.Background(), fallback)
	if err != nil || story != "try again" {
		t.Fatalf("Compose() = %q, %v", story, err)
	}
	if got := h.ctrl.State(); got != engine.StateInRound {
		t.Errorf("State() after a fallback = %v, want %v", got, engine.StateInRound)
	}

	teller := &fixedTeller{story: "Once upon a time", ok: true}
	if _, err := h.ctrl.Compose(context.Background(), teller); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(teller.picks, []string{"🦁", "🚀"}) {
		t.Errorf("teller got %v", teller.picks)
	}
	snap := h.ctrl.Snapshot()
	if snap.State != engine.StateCompleted || snap.Story != "Once upon a time" {
		t.Errorf("State = %v, Story = %q", snap.State, snap.Story)
	}
}

func TestDrawingFinish(t *testing.T) {
	h := newHarness(t, lookup(t, "drawing"), 1)
	h.start(t, engine.Medium, 1)

	if _, err := h.ctrl.Compose(context.Background(), &fixedTeller{ok: true}); !errors.Is(err, engine.ErrWrongGame) {
		t.Errorf("Compose() on drawing error = %v, want %v", err, engine.ErrWrongGame)
	}
	res, err := h.ctrl.Finish()
	if err != nil {
		t.Fatal(err)
	}
	if !res.Completed {
		t.Error("Finish() should complete the round")
	}
}

func TestCloseStopsEverything(t *testing.T) {
	h := newHarness(t, lookup(t, "fruit_catch"), 1)
	h.start(t, engine.Hard, 1)
	h.sched.Advance(2 * time.Second)

	h.ctrl.Close()
	if got := h.ctrl.State(); got != engine.StateExited {
		t.Errorf("State() = %v, want %v", got, engine.StateExited)
	}
	if n := h.sched.Pending(); n != 0 {
		t.Errorf("Pending() = %v after Close(), want 0", n)
	}
}
