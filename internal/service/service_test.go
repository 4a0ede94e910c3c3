package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"heroworld/internal/catalog"
	"heroworld/internal/database"
	"heroworld/internal/engine"
	"heroworld/internal/models"
	"heroworld/internal/progress"
	"heroworld/internal/repository"
	"heroworld/internal/story"
)

type stubGenerator struct {
	text  string
	err   error
	calls int
}

func (g *stubGenerator) GenerateText(context.Context, string) (string, error) {
	g.calls++
	return g.text, g.err
}

type fixture struct {
	db       *database.DB
	repo     *repository.ProgressRepository
	results  *repository.SessionResultRepository
	settings *repository.SettingsRepository
	progress *ProgressService
}

func setup(t *testing.T) *fixture {
	t.Helper()
	return setupWithStore(t, nil)
}

// setupWithStore keeps progress in store; nil means the SQL tables
func setupWithStore(t *testing.T, store progress.Store) *fixture {
	t.Helper()
	db, err := database.Initialize(filepath.Join(t.TempDir(), "service.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	f := &fixture{
		db:       db,
		repo:     repository.NewProgressRepository(db),
		results:  repository.NewSessionResultRepository(db),
		settings: repository.NewSettingsRepository(db),
	}
	if store == nil {
		store = progress.NewSQLStore(f.repo)
	}
	manager := progress.NewManager(store)
	f.progress = NewProgressService(manager, f.repo, f.settings, f.results, catalog.Default())
	return f
}

func (f *fixture) games(gen story.Generator) *GameService {
	return NewGameService(f.progress, f.results, gen, time.Minute)
}

func TestCreatePlayerStartsAtLevelOne(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	player, err := f.progress.CreatePlayer(ctx, "Sara")
	if err != nil {
		t.Fatalf("CreatePlayer() error = %v", err)
	}
	got, err := f.progress.GetPlayer(ctx, player.ID)
	if err != nil || got.Name != "Sara" {
		t.Fatalf("GetPlayer() = %+v, %v", got, err)
	}

	lobby := f.progress.Lobby(ctx, player.ID)
	if len(lobby) != len(f.progress.Catalog().Games) {
		t.Fatalf("Lobby() has %d entries, want %d", len(lobby), len(f.progress.Catalog().Games))
	}
	for _, e := range lobby {
		if e.UnlockedLevel != 1 || e.MaxLevel != engine.MaxLevel {
			t.Errorf("Lobby() entry %s = %+v, want level 1 of %d", e.Game.ID, e, engine.MaxLevel)
		}
	}

	if _, err := f.progress.GetPlayer(ctx, "nobody"); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("GetPlayer(nobody) error = %v, want %v", err, ErrPlayerNotFound)
	}
}

func TestHeroAndLanguage(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	if got := f.progress.Character(ctx, "p1"); got.ID != f.progress.Catalog().Characters[0].ID {
		t.Errorf("Character() = %v, want the first hero", got.ID)
	}
	if _, err := f.progress.SelectHero(ctx, "p1", "dragon"); !errors.Is(err, ErrUnknownCharacter) {
		t.Errorf("SelectHero(dragon) error = %v, want %v", err, ErrUnknownCharacter)
	}
	if _, err := f.progress.SelectHero(ctx, "p1", "misk"); err != nil {
		t.Fatalf("SelectHero() error = %v", err)
	}
	if got := f.progress.Character(ctx, "p1"); got.ID != "misk" {
		t.Errorf("Character() = %v, want misk", got.ID)
	}

	if _, err := f.progress.SetLanguage(ctx, "p1", "fr"); !errors.Is(err, ErrInvalidLanguage) {
		t.Errorf("SetLanguage(fr) error = %v, want %v", err, ErrInvalidLanguage)
	}
	if p := f.progress.ToggleLanguage(ctx, "p1"); p.Language != models.English {
		t.Errorf("ToggleLanguage() = %v, want %v", p.Language, models.English)
	}
	if p := f.progress.Progress(ctx, "p1"); p.Language != models.English || p.SelectedCharacterID != "misk" {
		t.Errorf("Progress() = %+v", p)
	}
}

func TestLevelGrid(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.progress.CompleteLevel(ctx, "p1", "math", 3)
	f.progress.CompleteLevel(ctx, "p1", "math", 2)

	cells, err := f.progress.LevelGrid(ctx, "p1", "math")
	if err != nil {
		t.Fatalf("LevelGrid() error = %v", err)
	}
	if len(cells) != engine.MaxLevel {
		t.Fatalf("LevelGrid() has %d cells, want %d", len(cells), engine.MaxLevel)
	}
	for _, c := range cells {
		if want := c.Level > 3; c.Locked != want {
			t.Errorf("level %d Locked = %v, want %v", c.Level, c.Locked, want)
		}
	}

	if _, err := f.progress.LevelGrid(ctx, "p1", "chess"); !errors.Is(err, engine.ErrUnknownGame) {
		t.Errorf("LevelGrid(chess) error = %v, want %v", err, engine.ErrUnknownGame)
	}
}

func TestResetNeedsParentPIN(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.progress.CompleteLevel(ctx, "p1", "memory", 5)

	if err := f.progress.Reset(ctx, "p1", "1234"); !errors.Is(err, ErrPINNotSet) {
		t.Fatalf("Reset() without PIN error = %v, want %v", err, ErrPINNotSet)
	}

	if err := f.progress.InitParentPIN(ctx, "1234"); err != nil {
		t.Fatalf("InitParentPIN() error = %v", err)
	}
	// a second init keeps the first PIN
	if err := f.progress.InitParentPIN(ctx, "9999"); err != nil {
		t.Fatalf("InitParentPIN() error = %v", err)
	}

	if err := f.progress.Reset(ctx, "p1", "9999"); !errors.Is(err, ErrWrongPIN) {
		t.Errorf("Reset() wrong PIN error = %v, want %v", err, ErrWrongPIN)
	}
	if got := f.progress.Progress(ctx, "p1").UnlockedLevel("memory"); got != 5 {
		t.Errorf("UnlockedLevel after refused reset = %d, want 5", got)
	}

	if err := f.progress.Reset(ctx, "p1", "1234"); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if got := f.progress.Progress(ctx, "p1").UnlockedLevel("memory"); got != 1 {
		t.Errorf("UnlockedLevel after reset = %d, want 1", got)
	}
}

func TestResetClearsHistoryOutsideSQL(t *testing.T) {
	f := setupWithStore(t, progress.NewMemoryStore())
	ctx := context.Background()

	player, err := f.progress.CreatePlayer(ctx, "Sara")
	if err != nil {
		t.Fatalf("CreatePlayer() error = %v", err)
	}
	f.progress.CompleteLevel(ctx, player.ID, "math", 2)
	if err := f.results.Record(ctx, &models.SessionResult{
		PlayerID: player.ID, GameID: "math", Level: 1, Difficulty: "easy",
		Score: 3, Target: 3, CompletedAt: time.Now(),
	}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := f.progress.InitParentPIN(ctx, "1234"); err != nil {
		t.Fatalf("InitParentPIN() error = %v", err)
	}

	if err := f.progress.Reset(ctx, player.ID, "1234"); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if got := f.progress.Progress(ctx, player.ID).UnlockedLevel("math"); got != 1 {
		t.Errorf("UnlockedLevel(math) after reset = %d, want 1", got)
	}
	history, err := f.progress.History(ctx, player.ID, 0)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 0 {
		t.Errorf("len(History()) after reset = %d, want 0", len(history))
	}
	if _, err := f.progress.GetPlayer(ctx, player.ID); err != nil {
		t.Errorf("GetPlayer() after reset error = %v", err)
	}
}

func startMath(t *testing.T, gs *GameService, playerID string) *Session {
	t.Helper()
	sess, err := gs.Create(context.Background(), playerID, "math")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	t.Cleanup(func() { gs.Close(playerID, sess.ID) })
	if err := sess.Controller.SelectDifficulty(engine.Easy); err != nil {
		t.Fatalf("SelectDifficulty() error = %v", err)
	}
	return sess
}

func TestSessionCompletionUnlocksAndRecords(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	gs := f.games(nil)

	sess := startMath(t, gs, "p1")
	if v := sess.View(); len(v.Levels) != engine.MaxLevel || v.Levels[1].Locked != true {
		t.Fatalf("View() levels = %v, want level 2 locked", v.Levels)
	}
	if err := sess.Controller.SelectLevel(1); err != nil {
		t.Fatalf("SelectLevel() error = %v", err)
	}

	for sess.Controller.State() == engine.StateInRound {
		round := sess.Controller.Snapshot().Round
		if _, err := sess.Controller.Answer(round.Target); err != nil {
			t.Fatalf("Answer() error = %v", err)
		}
	}

	v := sess.View()
	if v.Snapshot.State != engine.StateCompleted {
		t.Fatalf("State = %v, want %v", v.Snapshot.State, engine.StateCompleted)
	}
	if n := len(v.Cues); n == 0 || v.Cues[n-1] != engine.SoundWin {
		t.Errorf("Cues = %v, want to end with %v", v.Cues, engine.SoundWin)
	}
	if got := f.progress.Progress(ctx, "p1").UnlockedLevel("math"); got != 2 {
		t.Errorf("UnlockedLevel = %d, want 2", got)
	}

	history, err := f.progress.History(ctx, "p1", 10)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("History() has %d results, want 1", len(history))
	}
	if h := history[0]; h.GameID != "math" || h.Level != 1 || h.Score != h.Target || h.Difficulty != "easy" {
		t.Errorf("History()[0] = %+v", h)
	}
}

func TestSessionOwnership(t *testing.T) {
	f := setup(t)
	gs := f.games(nil)

	sess := startMath(t, gs, "p1")
	if _, err := gs.Get("p2", sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get() by another player error = %v, want %v", err, ErrSessionNotFound)
	}
	if _, err := gs.Get("p1", sess.ID); err != nil {
		t.Errorf("Get() error = %v", err)
	}
	if _, err := gs.Create(context.Background(), "p1", "chess"); !errors.Is(err, engine.ErrUnknownGame) {
		t.Errorf("Create(chess) error = %v, want %v", err, engine.ErrUnknownGame)
	}

	if err := gs.Close("p1", sess.ID); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	select {
	case <-sess.Done():
	case <-time.After(time.Second):
		t.Fatal("session clock still running after Close()")
	}
	if gs.Count() != 0 {
		t.Errorf("Count() = %d, want 0", gs.Count())
	}
}

func TestSweepClosesIdleAndExitedSessions(t *testing.T) {
	f := setup(t)
	gs := f.games(nil)

	now := time.Now()
	gs.now = func() time.Time { return now }

	idle := startMath(t, gs, "p1")
	exited := startMath(t, gs, "p2")
	busy := startMath(t, gs, "p3")

	// back twice leaves difficulty selection and the game
	exited.Controller.Back()
	exited.Controller.Back()

	now = now.Add(2 * time.Minute)
	if _, err := gs.Get("p3", busy.ID); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if n := gs.Sweep(); n != 2 {
		t.Errorf("Sweep() = %d, want 2", n)
	}
	if _, err := gs.Get("p1", idle.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("idle session still present: %v", err)
	}
	if _, err := gs.Get("p3", busy.ID); err != nil {
		t.Errorf("busy session was swept: %v", err)
	}
}

func TestComposeStory(t *testing.T) {
	tests := []struct {
		name      string
		gen       *stubGenerator
		wantState engine.State
	}{
		{"story completes", &stubGenerator{text: "Once upon a time."}, engine.StateCompleted},
		{"service failure keeps round", &stubGenerator{err: errors.New("offline")}, engine.StateInRound},
		{"empty reply keeps round", &stubGenerator{text: "  "}, engine.StateInRound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			gs := f.games(tt.gen)
			ctx := context.Background()

			sess, err := gs.Create(ctx, "p1", "story")
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			defer gs.Close("p1", sess.ID)
			if err := sess.Controller.SelectDifficulty(engine.Easy); err != nil {
				t.Fatal(err)
			}
			if err := sess.Controller.SelectLevel(1); err != nil {
				t.Fatal(err)
			}

			if _, err := gs.Compose(ctx, "p1", sess.ID); !errors.Is(err, engine.ErrPicksIncomplete) {
				t.Errorf("Compose() without picks error = %v, want %v", err, engine.ErrPicksIncomplete)
			}
			palette := sess.Controller.Snapshot().Palette
			for _, item := range palette[:2] {
				if err := sess.Controller.TogglePick(item); err != nil {
					t.Fatalf("TogglePick() error = %v", err)
				}
			}

			text, err := gs.Compose(ctx, "p1", sess.ID)
			if err != nil {
				t.Fatalf("Compose() error = %v", err)
			}
			if text == "" {
				t.Error("Compose() returned no text")
			}
			if got := sess.Controller.State(); got != tt.wantState {
				t.Errorf("State() = %v, want %v", got, tt.wantState)
			}
		})
	}
}

func TestPhrase(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	gs := f.games(&stubGenerator{text: "Great job!"})
	got, err := gs.Phrase(ctx, "p1", story.PhraseWin)
	if err != nil || got != "Great job!" {
		t.Errorf("Phrase() = %q, %v; want Great job!", got, err)
	}

	if _, err := gs.Phrase(ctx, "p1", "party"); !errors.Is(err, ErrInvalidPhrase) {
		t.Errorf("Phrase(party) error = %v, want %v", err, ErrInvalidPhrase)
	}

	offline := f.games(nil)
	if got, err := offline.Phrase(ctx, "p1", story.PhraseIntro); err != nil || got == "" {
		t.Errorf("Phrase() without generator = %q, %v; want fallback", got, err)
	}
}

func TestCreatePlayerWithoutNameGetsOne(t *testing.T) {
	f := setup(t)
	player, err := f.progress.CreatePlayer(context.Background(), "")
	if err != nil {
		t.Fatalf("CreatePlayer() error = %v", err)
	}
	if player.Name == "" {
		t.Error("CreatePlayer() with empty name should generate one")
	}
}
