package service

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"
)

const (
	progressSheet = "Progress"
	sessionsSheet = "Sessions"
)

// WriteReport renders a spreadsheet with every player's unlocked levels and
// the session history
func (s *BackupService) WriteReport(ctx context.Context, w io.Writer) error {
	f, err := s.buildReport(ctx)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// SaveReport writes the spreadsheet to path
func (s *BackupService) SaveReport(ctx context.Context, path string) error {
	f, err := s.buildReport(ctx)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

func (s *BackupService) buildReport(ctx context.Context) (*excelize.File, error) {
	data, err := s.Collect(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	f.SetSheetName("Sheet1", progressSheet)
	f.NewSheet(sessionsSheet)

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	// One column per game that anyone has unlocked
	gameSet := make(map[string]bool)
	for _, p := range data.Players {
		for g := range p.UnlockedLevels {
			gameSet[g] = true
		}
	}
	gameIDs := make([]string, 0, len(gameSet))
	for g := range gameSet {
		gameIDs = append(gameIDs, g)
	}
	sort.Strings(gameIDs)

	progressHeader := append([]interface{}{"Player", "Name", "Hero", "Language"}, toCells(gameIDs)...)
	rows := [][]interface{}{progressHeader}
	for _, p := range data.Players {
		row := []interface{}{p.ID, p.Name, p.SelectedCharacterID, p.Language}
		for _, g := range gameIDs {
			level := p.UnlockedLevels[g]
			if level < 1 {
				level = 1
			}
			row = append(row, level)
		}
		rows = append(rows, row)
	}
	if err := writeRows(f, progressSheet, rows, header); err != nil {
		f.Close()
		return nil, err
	}

	rows = [][]interface{}{{"Player", "Game", "Level", "Difficulty", "Score", "Target", "Seconds", "Completed"}}
	for _, r := range data.Results {
		rows = append(rows, []interface{}{
			r.PlayerID, r.GameID, r.Level, r.Difficulty, r.Score, r.Target,
			float64(r.DurationMs) / 1000, r.CompletedAt.Format("2006-01-02 15:04:05"),
		})
	}
	if err := writeRows(f, sessionsSheet, rows, header); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
			}
		}
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, headerStyle)
}

func toCells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
