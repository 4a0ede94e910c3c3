package tui

import (
	"errors"
	"strconv"

	"github.com/gdamore/tcell/v2"

	"heroworld/internal/engine"
	"heroworld/internal/games"
)

const (
	levelColumns = 10
	steerStep    = 5
)

var rhythmKeys = map[rune]int{'a': 0, 's': 1, 'd': 2}

// keyPress is the part of a key event the screens look at
type keyPress struct {
	key tcell.Key
	r   rune
}

func (k keyPress) Key() tcell.Key { return k.key }
func (k keyPress) Rune() rune     { return k.r }

func (a *App) handleKey(ev keyPress) bool {
	a.status = ""
	switch a.mode {
	case modeLobby:
		return a.lobbyKey(ev)
	case modeHero:
		a.heroKey(ev)
	case modeDifficulty:
		a.difficultyKey(ev)
	case modeLevels:
		a.levelsKey(ev)
	case modePlay:
		a.playKey(ev)
	}
	return true
}

// moveCursor steps the cursor by delta inside [0, n)
func (a *App) moveCursor(delta, n int) {
	if n == 0 {
		return
	}
	a.cursor = min(max(a.cursor+delta, 0), n-1)
}

func (a *App) lobbyKey(ev keyPress) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		return false
	case tcell.KeyUp:
		a.moveCursor(-1, len(a.lobby))
	case tcell.KeyDown:
		a.moveCursor(1, len(a.lobby))
	case tcell.KeyEnter:
		if a.cursor >= len(a.lobby) {
			return true
		}
		id := a.lobby[a.cursor].Game.ID
		if g, err := games.Get(id); err == nil && g.Category() == engine.CategoryFreePlay {
			a.status = a.t("needs_web")
			return true
		}
		a.startGame(id)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 'h':
			a.mode = modeHero
			a.cursor = 0
		case 'l':
			a.progress.ToggleLanguage(a.ctx, a.playerID)
			a.loadProfile()
		}
	}
	return true
}

func (a *App) heroKey(ev keyPress) {
	heroes := a.progress.Catalog().Characters
	switch ev.Key() {
	case tcell.KeyEscape:
		a.mode = modeLobby
		a.cursor = 0
	case tcell.KeyUp, tcell.KeyLeft:
		a.moveCursor(-1, len(heroes))
	case tcell.KeyDown, tcell.KeyRight:
		a.moveCursor(1, len(heroes))
	case tcell.KeyEnter:
		if _, err := a.progress.SelectHero(a.ctx, a.playerID, heroes[a.cursor].ID); err != nil {
			a.status = err.Error()
			return
		}
		a.loadProfile()
		a.mode = modeLobby
		a.cursor = 0
	}
}

func (a *App) difficultyKey(ev keyPress) {
	ctrl := a.session.Controller
	switch ev.Key() {
	case tcell.KeyEscape:
		a.report(ctrl.Back())
	case tcell.KeyLeft, tcell.KeyUp:
		a.moveCursor(-1, len(engine.Difficulties))
	case tcell.KeyRight, tcell.KeyDown:
		a.moveCursor(1, len(engine.Difficulties))
	case tcell.KeyEnter:
		a.report(ctrl.SelectDifficulty(engine.Difficulties[a.cursor]))
	case tcell.KeyRune:
		if n := digit(ev.Rune()); n >= 1 && n <= len(engine.Difficulties) {
			a.report(ctrl.SelectDifficulty(engine.Difficulties[n-1]))
		}
	}
}

func (a *App) levelsKey(ev keyPress) {
	ctrl := a.session.Controller
	switch ev.Key() {
	case tcell.KeyEscape:
		a.report(ctrl.Back())
		a.cursor = 0
	case tcell.KeyLeft:
		a.moveCursor(-1, engine.MaxLevel)
	case tcell.KeyRight:
		a.moveCursor(1, engine.MaxLevel)
	case tcell.KeyUp:
		a.moveCursor(-levelColumns, engine.MaxLevel)
	case tcell.KeyDown:
		a.moveCursor(levelColumns, engine.MaxLevel)
	case tcell.KeyEnter:
		a.report(ctrl.SelectLevel(a.cursor + 1))
	}
}

func (a *App) playKey(ev keyPress) {
	ctrl := a.session.Controller
	snap := a.view.Snapshot

	if ev.Key() == tcell.KeyEscape {
		a.report(ctrl.Back())
		return
	}
	if snap.State == engine.StateCompleted {
		if ev.Key() == tcell.KeyEnter {
			a.report(ctrl.SelectLevel(nextLevel(snap)))
		}
		return
	}

	switch snap.Category {
	case engine.CategoryDiscrete:
		a.discreteKey(ev, snap)
	case engine.CategoryBoard:
		a.boardKey(ev, snap)
	case engine.CategoryContinuous:
		a.continuousKey(ev, snap)
	case engine.CategorySequence:
		if n := digit(ev.Rune()); ev.Key() == tcell.KeyRune && n >= 1 {
			_, err := ctrl.Press(n - 1)
			a.report(err)
		}
	}
}

func (a *App) discreteKey(ev keyPress, snap engine.Snapshot) {
	if snap.Round == nil {
		return
	}
	choices := snap.Round.Choices
	switch ev.Key() {
	case tcell.KeyUp, tcell.KeyLeft:
		a.moveCursor(-1, len(choices))
	case tcell.KeyDown, tcell.KeyRight:
		a.moveCursor(1, len(choices))
	case tcell.KeyEnter:
		a.answer(choices, a.cursor)
	case tcell.KeyRune:
		if n := digit(ev.Rune()); n >= 1 {
			a.answer(choices, n-1)
		}
	}
}

func (a *App) answer(choices []string, i int) {
	if i < 0 || i >= len(choices) {
		return
	}
	_, err := a.session.Controller.Answer(choices[i])
	a.report(err)
}

// boardKey moves a cursor over the cells. Enter plays the cell; a digit
// places that tray item, or the digit itself on boards without a tray.
func (a *App) boardKey(ev keyPress, snap engine.Snapshot) {
	if snap.Board == nil {
		return
	}
	cells, cols := len(snap.Board.Cells), max(snap.Board.Columns, 1)
	switch ev.Key() {
	case tcell.KeyLeft:
		a.moveCursor(-1, cells)
	case tcell.KeyRight:
		a.moveCursor(1, cells)
	case tcell.KeyUp:
		a.moveCursor(-cols, cells)
	case tcell.KeyDown:
		a.moveCursor(cols, cells)
	case tcell.KeyEnter:
		a.move(engine.Move{Index: a.cursor})
	case tcell.KeyRune:
		n := digit(ev.Rune())
		if n < 1 {
			return
		}
		m := engine.Move{Index: a.cursor, Value: strconv.Itoa(n)}
		if tray := snap.Board.Tray; len(tray) > 0 {
			if n > len(tray) {
				return
			}
			m.Value = tray[n-1]
		}
		a.move(m)
	}
}

func (a *App) move(m engine.Move) {
	_, err := a.session.Controller.Move(m)
	a.report(err)
}

func (a *App) continuousKey(ev keyPress, snap engine.Snapshot) {
	if snap.Field == nil {
		return
	}
	ctrl := a.session.Controller
	var act engine.Action
	switch {
	case ev.Key() == tcell.KeyLeft:
		act = engine.Action{Kind: engine.ActionSteer, X: snap.Field.Player - steerStep}
	case ev.Key() == tcell.KeyRight:
		act = engine.Action{Kind: engine.ActionSteer, X: snap.Field.Player + steerStep}
	case ev.Key() == tcell.KeyRune && ev.Rune() == ' ':
		target, ok := topBalloon(snap.Field.Entities)
		if !ok {
			return
		}
		act = engine.Action{Kind: engine.ActionPop, ID: target.ID}
	case ev.Key() == tcell.KeyRune:
		lane, ok := rhythmKeys[ev.Rune()]
		if !ok {
			return
		}
		act = engine.Action{Kind: engine.ActionTap, Lane: lane}
	default:
		return
	}
	_, err := ctrl.Act(act)
	a.report(err)
}

// topBalloon is the visible balloon closest to escaping
func topBalloon(entities []engine.Entity) (engine.Entity, bool) {
	var best engine.Entity
	found := false
	for _, e := range entities {
		if e.Y < 0 || e.Y > 100 {
			continue
		}
		if !found || e.Y < best.Y {
			best, found = e, true
		}
	}
	return best, found
}

// report shows navigation errors in the status line and follows the controller state
func (a *App) report(err error) {
	switch {
	case errors.Is(err, engine.ErrLevelLocked):
		a.status = a.t("locked")
	case errors.Is(err, engine.ErrInputDisabled):
	case err != nil:
		a.status = err.Error()
	}
	a.syncMode()
}

func nextLevel(snap engine.Snapshot) int {
	if next := engine.ClampLevel(snap.Level + 1); next <= snap.UnlockedLevel {
		return next
	}
	return snap.Level
}

func digit(r rune) int {
	if r >= '1' && r <= '9' {
		return int(r - '0')
	}
	return 0
}
