package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"heroworld/internal/database"
	"heroworld/internal/models"
)

// ProgressRepository handles database operations for players and their unlocked levels
type ProgressRepository struct {
	db *database.DB
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db *database.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

type playerRow struct {
	models.Player
	SelectedCharacterID string `db:"selected_character_id"`
	Language            string `db:"language"`
}

type levelRow struct {
	GameID string `db:"game_id"`
	Level  int    `db:"level"`
}

// CreatePlayer inserts a new player with default progress
func (r *ProgressRepository) CreatePlayer(ctx context.Context, id, name string) (*models.Player, error) {
	query := "INSERT INTO players (id, name, language) VALUES (?, ?, ?)"
	if _, err := r.db.ExecContext(ctx, query, id, name, string(models.Arabic)); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	return r.GetPlayer(ctx, id)
}

// GetPlayer retrieves a player by ID. A missing player returns nil, nil.
func (r *ProgressRepository) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	var p models.Player
	query := "SELECT id, name, created_at, updated_at FROM players WHERE id = ?"
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return &p, nil
}

// ListPlayers returns every player, oldest first
func (r *ProgressRepository) ListPlayers(ctx context.Context) ([]models.Player, error) {
	players := []models.Player{}
	query := "SELECT id, name, created_at, updated_at FROM players ORDER BY created_at ASC, id ASC"
	if err := r.db.SelectContext(ctx, &players, query); err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return players, nil
}

// GetProgress assembles a player's progress. A missing player returns nil, nil.
func (r *ProgressRepository) GetProgress(ctx context.Context, playerID string) (*models.Progress, error) {
	var row playerRow
	query := "SELECT id, name, created_at, updated_at, selected_character_id, language FROM players WHERE id = ?"
	err := r.db.GetContext(ctx, &row, query, playerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}

	var levels []levelRow
	if err := r.db.SelectContext(ctx, &levels, "SELECT game_id, level FROM unlocked_levels WHERE player_id = ?", playerID); err != nil {
		return nil, fmt.Errorf("failed to get unlocked levels: %w", err)
	}

	p := &models.Progress{
		SelectedCharacterID: row.SelectedCharacterID,
		Language:            models.Language(row.Language),
		UnlockedLevels:      make(map[string]int, len(levels)),
	}
	for _, l := range levels {
		p.UnlockedLevels[l.GameID] = l.Level
	}
	return p, nil
}

// SaveProgress writes a progress snapshot, creating the player when needed.
// Stored levels are only ever raised.
func (r *ProgressRepository) SaveProgress(ctx context.Context, playerID string, p models.Progress) error {
	return r.db.WithTx(ctx, func(tx *database.Tx) error {
		var count int
		if err := tx.GetContext(ctx, &count, "SELECT COUNT(*) FROM players WHERE id = ?", playerID); err != nil {
			return fmt.Errorf("failed to check player: %w", err)
		}

		if count == 0 {
			query := "INSERT INTO players (id, selected_character_id, language) VALUES (?, ?, ?)"
			if _, err := tx.ExecContext(ctx, query, playerID, p.SelectedCharacterID, string(p.Language)); err != nil {
				return fmt.Errorf("failed to create player: %w", err)
			}
		} else {
			query := "UPDATE players SET selected_character_id = ?, language = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
			if _, err := tx.ExecContext(ctx, query, p.SelectedCharacterID, string(p.Language), playerID); err != nil {
				return fmt.Errorf("failed to update player: %w", err)
			}
		}

		upsert := tx.GetDialect().UpsertUnlockedLevel()
		for gameID, level := range p.UnlockedLevels {
			if _, err := tx.ExecContext(ctx, upsert, playerID, gameID, level); err != nil {
				return fmt.Errorf("failed to save level for %s: %w", gameID, err)
			}
		}
		return nil
	})
}

// DeleteProgress clears a player's levels, hero and language.
// The player row and name are kept.
func (r *ProgressRepository) DeleteProgress(ctx context.Context, playerID string) error {
	return r.db.WithTx(ctx, func(tx *database.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM unlocked_levels WHERE player_id = ?", playerID); err != nil {
			return fmt.Errorf("failed to delete progress: %w", err)
		}
		query := "UPDATE players SET selected_character_id = '', language = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
		if _, err := tx.ExecContext(ctx, query, string(models.Arabic), playerID); err != nil {
			return fmt.Errorf("failed to reset player: %w", err)
		}
		return nil
	})
}
