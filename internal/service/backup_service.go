package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"heroworld/internal/database"
	"heroworld/internal/models"
	"heroworld/internal/progress"
)

const backupVersion = "1.0"

// BackupData represents the complete database backup structure
type BackupData struct {
	Version      string                 `json:"version"`
	ExportedAt   time.Time              `json:"exported_at"`
	DatabaseType string                 `json:"database_type"`
	Players      []PlayerBackup         `json:"players"`
	Results      []models.SessionResult `json:"session_results"`
	Settings     []SettingBackup        `json:"settings"`
}

// PlayerBackup is a player together with its progress
type PlayerBackup struct {
	ID                  string         `json:"id" db:"id"`
	Name                string         `json:"name" db:"name"`
	SelectedCharacterID string         `json:"selected_character_id" db:"selected_character_id"`
	Language            string         `json:"language" db:"language"`
	CreatedAt           time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at" db:"updated_at"`
	UnlockedLevels      map[string]int `json:"unlocked_levels" db:"-"`
}

// SettingBackup is one settings row
type SettingBackup struct {
	Key   string `json:"key" db:"setting_key"`
	Value string `json:"value" db:"setting_value"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db       *database.DB
	progress progress.Store
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// WithProgressStore reads and writes levels, hero and language through store
// instead of the relational tables. Needed when progress is kept outside the
// database, e.g. in redis.
func (s *BackupService) WithProgressStore(store progress.Store) *BackupService {
	s.progress = store
	return s
}

// Collect reads everything worth backing up
func (s *BackupService) Collect(ctx context.Context) (*BackupData, error) {
	backup := &BackupData{
		Version:      backupVersion,
		ExportedAt:   time.Now().UTC(),
		DatabaseType: s.db.Dialect.DriverName(),
		Players:      []PlayerBackup{},
		Results:      []models.SessionResult{},
		Settings:     []SettingBackup{},
	}

	if err := s.exportPlayers(ctx, backup); err != nil {
		return nil, fmt.Errorf("failed to export players: %w", err)
	}
	if err := s.db.SelectContext(ctx, &backup.Results,
		"SELECT id, player_id, game_id, level, difficulty, score, target, duration_ms, completed_at FROM session_results ORDER BY id"); err != nil {
		return nil, fmt.Errorf("failed to export session results: %w", err)
	}
	if err := s.db.SelectContext(ctx, &backup.Settings,
		"SELECT setting_key, setting_value FROM settings ORDER BY setting_key"); err != nil {
		return nil, fmt.Errorf("failed to export settings: %w", err)
	}
	return backup, nil
}

// Export creates a complete backup of the database to a file
func (s *BackupService) Export(ctx context.Context, outputPath string) error {
	log.Println("Starting database export...")

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	backup, err := s.writeBackup(ctx, file)
	if err != nil {
		return err
	}

	log.Printf("Database exported successfully to %s", outputPath)
	log.Printf("Exported: %d players, %d session results, %d settings",
		len(backup.Players), len(backup.Results), len(backup.Settings))
	return nil
}

// ExportToWriter exports the database to an io.Writer
func (s *BackupService) ExportToWriter(ctx context.Context, w io.Writer) error {
	_, err := s.writeBackup(ctx, w)
	return err
}

func (s *BackupService) writeBackup(ctx context.Context, w io.Writer) (*BackupData, error) {
	backup, err := s.Collect(ctx)
	if err != nil {
		return nil, err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}
	return backup, nil
}

// Import restores a backup file
func (s *BackupService) Import(ctx context.Context, inputPath string) error {
	log.Printf("Starting database import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(ctx, file)
}

// ImportFromReader restores a backup in one transaction. Existing players
// keep their rows; unlocked levels are merged and never lowered. Results
// already present are skipped.
func (s *BackupService) ImportFromReader(ctx context.Context, reader io.Reader) error {
	var backup BackupData
	if err := json.NewDecoder(reader).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != backupVersion {
		return fmt.Errorf("unsupported backup version %q", backup.Version)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		if err := s.importPlayers(ctx, tx, backup.Players); err != nil {
			return fmt.Errorf("failed to import players: %w", err)
		}
		if err := s.importResults(ctx, tx, backup.Results); err != nil {
			return fmt.Errorf("failed to import session results: %w", err)
		}
		if err := s.importSettings(ctx, tx, backup.Settings); err != nil {
			return fmt.Errorf("failed to import settings: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if s.progress != nil {
		if err := s.importProgress(ctx, backup.Players); err != nil {
			return fmt.Errorf("failed to import progress: %w", err)
		}
	}

	log.Println("Database import completed successfully")
	return nil
}

func (s *BackupService) exportPlayers(ctx context.Context, backup *BackupData) error {
	query := "SELECT id, name, selected_character_id, language, created_at, updated_at FROM players ORDER BY created_at, id"
	if err := s.db.SelectContext(ctx, &backup.Players, query); err != nil {
		return err
	}

	if s.progress != nil {
		for i := range backup.Players {
			p, _, err := s.progress.Load(ctx, backup.Players[i].ID)
			if err != nil {
				return fmt.Errorf("failed to load progress for %s: %w", backup.Players[i].ID, err)
			}
			backup.Players[i].SelectedCharacterID = p.SelectedCharacterID
			backup.Players[i].Language = string(p.Language)
			backup.Players[i].UnlockedLevels = p.UnlockedLevels
			if backup.Players[i].UnlockedLevels == nil {
				backup.Players[i].UnlockedLevels = map[string]int{}
			}
		}
		return nil
	}

	var levels []struct {
		PlayerID string `db:"player_id"`
		GameID   string `db:"game_id"`
		Level    int    `db:"level"`
	}
	if err := s.db.SelectContext(ctx, &levels, "SELECT player_id, game_id, level FROM unlocked_levels"); err != nil {
		return err
	}

	byPlayer := make(map[string]map[string]int)
	for _, l := range levels {
		if byPlayer[l.PlayerID] == nil {
			byPlayer[l.PlayerID] = make(map[string]int)
		}
		byPlayer[l.PlayerID][l.GameID] = l.Level
	}
	for i := range backup.Players {
		backup.Players[i].UnlockedLevels = byPlayer[backup.Players[i].ID]
		if backup.Players[i].UnlockedLevels == nil {
			backup.Players[i].UnlockedLevels = map[string]int{}
		}
	}
	return nil
}

func (s *BackupService) importPlayers(ctx context.Context, tx *database.Tx, players []PlayerBackup) error {
	log.Printf("Importing %d players...", len(players))
	upsert := tx.GetDialect().UpsertUnlockedLevel()

	for _, p := range players {
		var count int
		if err := tx.GetContext(ctx, &count, "SELECT COUNT(*) FROM players WHERE id = ?", p.ID); err != nil {
			return err
		}
		if count == 0 {
			lang := models.Language(p.Language)
			if !lang.Valid() {
				lang = models.Arabic
			}
			query := "INSERT INTO players (id, name, selected_character_id, language, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)"
			if _, err := tx.ExecContext(ctx, query, p.ID, p.Name, p.SelectedCharacterID, string(lang), p.CreatedAt.UTC(), p.UpdatedAt.UTC()); err != nil {
				return fmt.Errorf("failed to import player %s: %w", p.ID, err)
			}
		}

		if s.progress != nil {
			continue
		}
		for gameID, level := range p.UnlockedLevels {
			if level < 1 {
				continue
			}
			if _, err := tx.ExecContext(ctx, upsert, p.ID, gameID, level); err != nil {
				return fmt.Errorf("failed to import level %s for player %s: %w", gameID, p.ID, err)
			}
		}
	}
	return nil
}

// importProgress merges each player's levels into the progress store. A
// player already in the store keeps their hero and language.
func (s *BackupService) importProgress(ctx context.Context, players []PlayerBackup) error {
	for _, p := range players {
		incoming := models.Progress{
			SelectedCharacterID: p.SelectedCharacterID,
			Language:            models.Language(p.Language),
			UnlockedLevels:      p.UnlockedLevels,
		}
		stored, found, err := s.progress.Load(ctx, p.ID)
		if err != nil {
			return fmt.Errorf("failed to load progress for %s: %w", p.ID, err)
		}
		merged := progress.Merge(models.Progress{}, incoming)
		if found {
			merged = progress.Merge(incoming, stored)
		}
		if err := s.progress.Save(ctx, p.ID, merged); err != nil {
			return fmt.Errorf("failed to save progress for %s: %w", p.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importResults(ctx context.Context, tx *database.Tx, results []models.SessionResult) error {
	log.Printf("Importing %d session results...", len(results))
	for _, r := range results {
		var count int
		check := "SELECT COUNT(*) FROM session_results WHERE player_id = ? AND game_id = ? AND level = ? AND completed_at = ?"
		if err := tx.GetContext(ctx, &count, check, r.PlayerID, r.GameID, r.Level, r.CompletedAt.UTC()); err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		query := `INSERT INTO session_results (player_id, game_id, level, difficulty, score, target, duration_ms, completed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
		if _, err := tx.ExecContext(ctx, query, r.PlayerID, r.GameID, r.Level, r.Difficulty, r.Score, r.Target, r.DurationMs, r.CompletedAt.UTC()); err != nil {
			return fmt.Errorf("failed to import session result %d: %w", r.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importSettings(ctx context.Context, tx *database.Tx, settings []SettingBackup) error {
	upsert := tx.GetDialect().UpsertSettings()
	for _, st := range settings {
		if _, err := tx.ExecContext(ctx, upsert, st.Key, st.Value); err != nil {
			return fmt.Errorf("failed to import setting %s: %w", st.Key, err)
		}
	}
	return nil
}
