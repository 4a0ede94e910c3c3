// Package tui is the terminal shell: lobby, hero select, difficulty, level
// grid and play screens drawn with tcell.
package tui

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"heroworld/internal/engine"
	"heroworld/internal/models"
	"heroworld/internal/service"
)

const frameInterval = 33 * time.Millisecond

// Sounds plays cues and sequence notes on the local machine
type Sounds interface {
	engine.SoundProvider
	engine.NotePlayer
}

type mode int

const (
	modeLobby mode = iota
	modeHero
	modeDifficulty
	modeLevels
	modePlay
)

// App is the terminal game hub for one player
type App struct {
	screen   tcell.Screen
	progress *service.ProgressService
	games    *service.GameService
	sounds   Sounds
	playerID string
	ctx      context.Context

	mode   mode
	cursor int
	status string

	lobby []models.LobbyEntry
	hero  models.Character
	lang  models.Language

	session *service.Session
	view    service.SessionView
}

// New creates the app. sounds may be nil for a silent shell.
func New(screen tcell.Screen, progress *service.ProgressService, games *service.GameService, sounds Sounds, playerID string) *App {
	if sounds == nil {
		sounds = engine.NoSound{}
	}
	a := &App{
		screen:   screen,
		progress: progress,
		games:    games,
		sounds:   sounds,
		playerID: playerID,
		ctx:      context.Background(),
	}
	a.loadProfile()
	if progress.Progress(a.ctx, playerID).SelectedCharacterID == "" {
		a.mode = modeHero
	}
	return a
}

// Run draws frames and handles input until the player quits or ctx ends
func (a *App) Run(ctx context.Context) error {
	a.ctx = ctx
	defer a.closeSession()

	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	a.draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !a.HandleEvent(ev) {
				return nil
			}
			a.draw()
		case <-ticker.C:
			a.refresh()
			a.draw()
		}
	}
}

// HandleEvent applies one terminal event. It returns false when the player quits.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			return false
		}
		return a.handleKey(keyPress{key: ev.Key(), r: ev.Rune()})
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *App) loadProfile() {
	p := a.progress.Progress(a.ctx, a.playerID)
	a.lang = p.Language
	a.hero = a.progress.Character(a.ctx, a.playerID)
	a.lobby = a.progress.Lobby(a.ctx, a.playerID)
}

func (a *App) t(key string) string {
	return a.progress.Catalog().Translate(key, a.lang)
}

// refresh pulls a fresh view and plays whatever cues were queued
func (a *App) refresh() {
	if a.session == nil {
		return
	}
	a.view = a.session.View()
	for _, cue := range a.view.Cues {
		a.sounds.PlaySound(cue)
	}
	for _, n := range a.view.Notes {
		a.sounds.PlayNote(n.Pad, n.Freq)
	}
}

func (a *App) startGame(gameID string) {
	game, ok := a.progress.Catalog().Game(gameID)
	if !ok {
		return
	}
	sess, err := a.games.Create(a.ctx, a.playerID, game.ID)
	if err != nil {
		a.status = err.Error()
		return
	}
	a.session = sess
	a.mode = modeDifficulty
	a.cursor = 0
	a.refresh()
}

func (a *App) closeSession() {
	if a.session == nil {
		return
	}
	a.games.Close(a.playerID, a.session.ID)
	a.session = nil
	a.view = service.SessionView{}
}

// leaveGame returns to the lobby with fresh unlocked levels
func (a *App) leaveGame() {
	a.closeSession()
	a.loadProfile()
	a.mode = modeLobby
	a.cursor = 0
}

// syncMode follows the controller after a navigation call
func (a *App) syncMode() {
	a.refresh()
	switch a.view.Snapshot.State {
	case engine.StateAwaitingDifficulty:
		a.mode = modeDifficulty
	case engine.StateAwaitingLevel:
		if a.mode != modeLevels {
			a.cursor = a.view.Snapshot.UnlockedLevel - 1
		}
		a.mode = modeLevels
	case engine.StateInRound, engine.StateCompleted:
		if a.mode != modePlay {
			a.cursor = 0
		}
		a.mode = modePlay
	case engine.StateExited:
		a.leaveGame()
	}
}
