package service

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"heroworld/internal/engine"
	"heroworld/internal/games"
	"heroworld/internal/models"
	"heroworld/internal/security"
	"heroworld/internal/story"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidPhrase   = errors.New("unknown phrase kind")
)

// DefaultTick is how often a session's clock advances in real time
const DefaultTick = 10 * time.Millisecond

// Session is one running game controller owned by a player
type Session struct {
	ID        string
	PlayerID  string
	Character models.Character
	Language  models.Language

	Controller *engine.Controller
	cues       *engine.CueRecorder

	mu         sync.Mutex
	lastActive time.Time
	cancel     context.CancelFunc
	done       chan struct{}
}

// SessionView is what the HTTP shell returns after every call
type SessionView struct {
	ID       string             `json:"id"`
	Snapshot engine.Snapshot    `json:"snapshot"`
	Levels   []engine.LevelCell `json:"levels,omitempty"`
	Cues     []engine.Sound     `json:"cues,omitempty"`
	Notes    []engine.Note      `json:"notes,omitempty"`
}

// View snapshots the controller and drains queued cues
func (s *Session) View() SessionView {
	snap := s.Controller.Snapshot()
	cues, notes := s.cues.Drain()
	v := SessionView{ID: s.ID, Snapshot: snap, Cues: cues, Notes: notes}
	if snap.State == engine.StateAwaitingLevel || snap.State == engine.StateCompleted {
		v.Levels = snap.Levels()
	}
	return v
}

// Done is closed once the session's clock has stopped
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastActive = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// GameService owns the live sessions of every player
type GameService struct {
	mu       sync.Mutex
	sessions map[string]*Session

	progress    *ProgressService
	results     ResultStore
	gen         story.Generator
	tick        time.Duration
	idleTimeout time.Duration
	now         func() time.Time
	newRand     func() *rand.Rand
}

// NewGameService creates a game service. gen may be nil when no text service is configured.
func NewGameService(progress *ProgressService, results ResultStore, gen story.Generator, idleTimeout time.Duration) *GameService {
	return &GameService{
		sessions:    make(map[string]*Session),
		progress:    progress,
		results:     results,
		gen:         gen,
		tick:        DefaultTick,
		idleTimeout: idleTimeout,
		now:         time.Now,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

// Create starts a session for gameID, waiting for a difficulty
func (s *GameService) Create(ctx context.Context, playerID, gameID string) (*Session, error) {
	game, err := games.Get(gameID)
	if err != nil {
		return nil, err
	}
	p := s.progress.Progress(ctx, playerID)

	sess := &Session{
		ID:         security.NewID(),
		PlayerID:   playerID,
		Character:  s.progress.Character(ctx, playerID),
		Language:   p.Language,
		cues:       engine.NewCueRecorder(),
		lastActive: s.now(),
		done:       make(chan struct{}),
	}
	sched := engine.NewScheduler()
	sess.Controller = engine.NewController(game, engine.Options{
		Scheduler:     sched,
		Sound:         sess.cues,
		Rand:          s.newRand(),
		UnlockedLevel: p.UnlockedLevel(gameID),
		OnComplete:    s.completion(sess),
	})

	runCtx, cancel := context.WithCancel(context.Background())
	sess.cancel = cancel
	go func() {
		defer close(sess.done)
		sched.Run(runCtx, s.tick, nil)
	}()

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	log.Printf("Session %s started: player=%s game=%s", sess.ID, playerID, gameID)
	return sess, nil
}

// completion unlocks the next level and records the finished session
func (s *GameService) completion(sess *Session) engine.CompletionFunc {
	return func(gameID string, nextLevel int) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.progress.CompleteLevel(ctx, sess.PlayerID, gameID, nextLevel)

		if s.results == nil {
			return
		}
		snap := sess.Controller.Snapshot()
		result := &models.SessionResult{
			PlayerID:    sess.PlayerID,
			GameID:      gameID,
			Level:       snap.Level,
			Difficulty:  string(snap.Difficulty),
			Score:       snap.Score,
			Target:      snap.Target,
			DurationMs:  snap.ElapsedMs,
			CompletedAt: s.now(),
		}
		if err := s.results.Record(ctx, result); err != nil {
			log.Printf("Failed to record session result: %v", err)
		}
	}
}

// Get returns a session owned by playerID
func (s *GameService) Get(playerID, sessionID string) (*Session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	s.mu.Unlock()

	if !ok || sess.PlayerID != playerID {
		return nil, ErrSessionNotFound
	}
	sess.touch(s.now())
	return sess, nil
}

// Close stops a session and forgets it
func (s *GameService) Close(playerID, sessionID string) error {
	sess, err := s.Get(playerID, sessionID)
	if err != nil {
		return err
	}
	s.remove(sess)
	return nil
}

func (s *GameService) remove(sess *Session) {
	s.mu.Lock()
	delete(s.sessions, sess.ID)
	s.mu.Unlock()

	sess.Controller.Close()
	sess.cancel()
}

// Count returns the number of live sessions
func (s *GameService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Compose asks the text service for a story from the session's stickers
func (s *GameService) Compose(ctx context.Context, playerID, sessionID string) (string, error) {
	sess, err := s.Get(playerID, sessionID)
	if err != nil {
		return "", err
	}
	teller := story.NewTeller(s.gen, sess.Character, sess.Language)
	return sess.Controller.Compose(ctx, teller)
}

// Phrase returns a motivational line naming the player's hero
func (s *GameService) Phrase(ctx context.Context, playerID string, kind story.PhraseKind) (string, error) {
	if !kind.Valid() {
		return "", ErrInvalidPhrase
	}
	p := s.progress.Progress(ctx, playerID)
	hero := s.progress.Character(ctx, playerID)
	return story.Phrase(ctx, s.gen, kind, hero.Name.In(p.Language)), nil
}

// Sweep closes sessions that exited or sat idle past the timeout
func (s *GameService) Sweep() int {
	cutoff := s.now().Add(-s.idleTimeout)

	s.mu.Lock()
	var stale []*Session
	for _, sess := range s.sessions {
		if sess.idleSince().Before(cutoff) || sess.Controller.State() == engine.StateExited {
			stale = append(stale, sess)
		}
	}
	s.mu.Unlock()

	for _, sess := range stale {
		s.remove(sess)
	}
	return len(stale)
}

// StartSweeper runs Sweep every interval until the returned scheduler is stopped
func (s *GameService) StartSweeper(interval time.Duration) (*gocron.Scheduler, error) {
	scheduler := gocron.NewScheduler(time.UTC)
	_, err := scheduler.Every(interval).Do(func() {
		if n := s.Sweep(); n > 0 {
			log.Printf("Swept %d idle sessions", n)
		}
	})
	if err != nil {
		return nil, err
	}
	scheduler.StartAsync()
	return scheduler, nil
}

// Shutdown closes every session
func (s *GameService) Shutdown() {
	s.mu.Lock()
	all := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		all = append(all, sess)
	}
	s.mu.Unlock()

	for _, sess := range all {
		s.remove(sess)
	}
}
