package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"heroworld/internal/engine"
)

var (
	styleDefault  = tcell.StyleDefault
	styleTitle    = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleSelected = tcell.StyleDefault.Reverse(true)
	styleLocked   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleHelp     = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleActive   = tcell.StyleDefault.Background(tcell.ColorGreen).Foreground(tcell.ColorBlack)
)

// drawText writes s at (x, y) and returns the column after it. Wide runes
// such as emoji take two cells.
func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) int {
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		s.SetContent(x, y, r, nil, style)
		x += w
	}
	return x
}

func drawCentered(s tcell.Screen, y int, style tcell.Style, text string) {
	width, _ := s.Size()
	drawText(s, max((width-runewidth.StringWidth(text))/2, 0), y, style, text)
}

func (a *App) draw() {
	s := a.screen
	s.Clear()
	_, height := s.Size()

	drawCentered(s, 0, styleTitle, a.t("title"))
	drawText(s, 1, 1, styleDefault, fmt.Sprintf("%s %s", a.hero.Emoji, a.hero.Name.In(a.lang)))

	switch a.mode {
	case modeLobby:
		a.drawLobby()
	case modeHero:
		a.drawHeroes()
	case modeDifficulty:
		a.drawDifficulty()
	case modeLevels:
		a.drawLevels()
	case modePlay:
		a.drawPlay()
	}

	if a.status != "" {
		drawText(s, 1, height-2, styleStatus, a.status)
	}
	drawText(s, 1, height-1, styleHelp, a.help())
	s.Show()
}

func (a *App) help() string {
	switch a.mode {
	case modeLobby:
		return "↑/↓ Enter · h " + a.t("change_char") + " · l " + a.t("lang_btn") + " · q"
	case modePlay:
		switch a.view.Snapshot.Category {
		case engine.CategoryContinuous:
			return "←/→ · space · a/s/d · Esc " + a.t("back")
		case engine.CategorySequence:
			return "1-9 · Esc " + a.t("back")
		}
		return "1-9 · arrows · Enter · Esc " + a.t("back")
	}
	return "arrows · Enter · Esc " + a.t("back")
}

func (a *App) drawLobby() {
	s := a.screen
	drawCentered(s, 3, styleTitle, a.t("games_title"))
	cat := a.progress.Catalog()
	for i, e := range a.lobby {
		style := styleDefault
		if i == a.cursor {
			style = styleSelected
		}
		title := e.Game.Title.In(a.lang)
		if g, ok := cat.Game(e.Game.ID); ok {
			title = g.Icon + " " + title
		}
		line := fmt.Sprintf("%s  %s %d %s %d", runewidth.FillRight(title, 28), a.t("unlocked_level"), e.UnlockedLevel, a.t("of"), e.MaxLevel)
		drawText(s, 3, 5+i, style, line)
	}
}

func (a *App) drawHeroes() {
	s := a.screen
	drawCentered(s, 3, styleTitle, a.t("select_char"))
	drawCentered(s, 4, styleDefault, a.t("select_char_sub"))
	for i, h := range a.progress.Catalog().Characters {
		style := styleDefault
		if i == a.cursor {
			style = styleSelected
		}
		line := fmt.Sprintf("%s %s  %s", h.Emoji, runewidth.FillRight(h.Name.In(a.lang), 12), h.Description.In(a.lang))
		drawText(s, 3, 6+i, style, line)
	}
}

func (a *App) gameTitle() string {
	if g, ok := a.progress.Catalog().Game(a.view.Snapshot.GameID); ok {
		return g.Icon + " " + g.Title.In(a.lang)
	}
	return a.view.Snapshot.GameID
}

func (a *App) drawDifficulty() {
	s := a.screen
	drawCentered(s, 3, styleTitle, a.gameTitle())
	drawCentered(s, 5, styleDefault, a.t("choose_difficulty"))
	x := 3
	for i, d := range engine.Difficulties {
		style := styleDefault
		if i == a.cursor {
			style = styleSelected
		}
		x = drawText(s, x, 7, style, fmt.Sprintf(" %d %s ", i+1, a.t(string(d)))) + 2
	}
}

func (a *App) drawLevels() {
	s := a.screen
	snap := a.view.Snapshot
	drawCentered(s, 3, styleTitle, a.gameTitle())
	drawCentered(s, 5, styleDefault, a.t("choose_stage"))
	for i, cell := range a.view.Levels {
		style := styleDefault
		label := fmt.Sprintf("%3d", cell.Level)
		if cell.Locked {
			style, label = styleLocked, " 🔒"
		}
		if i == a.cursor {
			style = style.Reverse(true)
		}
		drawText(s, 3+(i%levelColumns)*5, 7+(i/levelColumns)*2, style, label)
	}
	drawText(s, 3, 14, styleHelp, fmt.Sprintf("%s %d %s %d", a.t("unlocked_level"), snap.UnlockedLevel, a.t("of"), engine.MaxLevel))
}

func (a *App) drawPlay() {
	s := a.screen
	snap := a.view.Snapshot

	drawCentered(s, 3, styleTitle, a.gameTitle())
	header := fmt.Sprintf("%s %d · %s %d/%d · %s", a.t("level"), snap.Level, a.t("score"), snap.Score, snap.Target, emotionFace(snap.Emotion))
	drawCentered(s, 4, styleDefault, header)

	if snap.State == engine.StateCompleted {
		drawCentered(s, 7, styleTitle, a.t("victory"))
		drawCentered(s, 9, styleDefault, "Enter: "+a.t("next_level"))
		return
	}

	switch snap.Category {
	case engine.CategoryDiscrete:
		a.drawRound(snap)
	case engine.CategoryBoard:
		a.drawBoard(snap)
	case engine.CategoryContinuous:
		a.drawField(snap)
	case engine.CategorySequence:
		a.drawPads(snap)
	}
}

func emotionFace(e engine.Emotion) string {
	switch e {
	case engine.EmotionHappy:
		return "😄"
	case engine.EmotionSad:
		return "😢"
	}
	return "🙂"
}

func (a *App) drawRound(snap engine.Snapshot) {
	if snap.Round == nil {
		return
	}
	s := a.screen
	drawCentered(s, 6, styleTitle, strings.Join(snap.Round.Prompt, " "))
	for i, c := range snap.Round.Choices {
		style := styleDefault
		if i == a.cursor {
			style = styleSelected
		}
		x := drawText(s, 5, 8+i, style, fmt.Sprintf(" %d) ", i+1))
		if hex, ok := snap.Round.Swatches[c]; ok {
			x = drawText(s, x, 8+i, styleDefault.Background(tcell.GetColor(hex)), "  ")
			x++
		}
		drawText(s, x, 8+i, style, c+" ")
	}
}

func (a *App) drawBoard(snap engine.Snapshot) {
	if snap.Board == nil {
		return
	}
	s := a.screen
	cols := max(snap.Board.Columns, 1)
	for i, c := range snap.Board.Cells {
		label := "▢"
		if c.Revealed || c.Fixed || c.Matched || c.Wrong {
			label = c.Value
		}
		style := styleDefault
		switch {
		case c.Wrong:
			style = styleStatus
		case c.Matched:
			style = styleLocked
		}
		if i == a.cursor {
			style = style.Reverse(true)
		}
		drawText(s, 5+(i%cols)*4, 6+(i/cols)*2, style, runewidth.FillRight(label, 2))
	}
	if len(snap.Board.Tray) > 0 {
		rows := (len(snap.Board.Cells) + cols - 1) / cols
		x := 5
		for i, item := range snap.Board.Tray {
			x = drawText(s, x, 7+rows*2, styleDefault, strconv.Itoa(i+1)+":"+item) + 2
		}
	}
}

// fieldHeight is the vertical extent of a game's coordinates
func fieldHeight(gameID string) float64 {
	if gameID == "rhythm" {
		return 550
	}
	return 100
}

func (a *App) drawField(snap engine.Snapshot) {
	if snap.Field == nil {
		return
	}
	s := a.screen
	width, height := s.Size()
	top, rows := 6, max(height-9, 4)
	cols := max(width-6, 10)
	yMax := fieldHeight(snap.GameID)

	for _, e := range snap.Field.Entities {
		if e.Y < 0 || e.Y > yMax {
			continue
		}
		x := e.X
		if snap.GameID == "rhythm" {
			x = (float64(e.Lane) + 0.5) * 100 / 3
		}
		drawText(s, 3+int(x/100*float64(cols-2)), top+int(e.Y/yMax*float64(rows-1)), styleDefault, e.Icon)
	}

	switch snap.GameID {
	case "fruit_catch":
		drawText(s, 3+int(snap.Field.Player/100*float64(cols-2)), top+rows, styleDefault, "🧺")
	case "rhythm":
		zone := top + int(400/yMax*float64(rows-1))
		for lane, key := range []string{"a", "s", "d"} {
			x := 3 + int((float64(lane)+0.5)*100/3/100*float64(cols-2))
			drawText(s, x, zone, styleActive, key)
		}
	}
}

func (a *App) drawPads(snap engine.Snapshot) {
	s := a.screen
	phase := "…"
	if snap.Phase == engine.PhaseRecalling {
		phase = fmt.Sprintf("%d/%d", snap.Recalled, snap.SequenceLength)
	}
	drawCentered(s, 6, styleDefault, phase)
	for i := 0; i < snap.Pads; i++ {
		style := styleDefault
		if i == snap.ActivePad {
			style = styleActive
		}
		drawText(s, 5+(i%4)*6, 8+(i/4)*2, style, fmt.Sprintf(" %d ", i+1))
	}
}
