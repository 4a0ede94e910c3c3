package repository

import (
	"context"
	"fmt"

	"heroworld/internal/database"
	"heroworld/internal/models"
)

// SessionResultRepository stores completed game sessions
type SessionResultRepository struct {
	db *database.DB
}

// NewSessionResultRepository creates a new session result repository
func NewSessionResultRepository(db *database.DB) *SessionResultRepository {
	return &SessionResultRepository{db: db}
}

const sessionResultColumns = "id, player_id, game_id, level, difficulty, score, target, duration_ms, completed_at"

// Record inserts a result and fills in its ID
func (r *SessionResultRepository) Record(ctx context.Context, result *models.SessionResult) error {
	query := `INSERT INTO session_results (player_id, game_id, level, difficulty, score, target, duration_ms, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	id, err := r.db.ExecReturningID(ctx, query,
		result.PlayerID, result.GameID, result.Level, result.Difficulty,
		result.Score, result.Target, result.DurationMs, result.CompletedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to record session result: %w", err)
	}
	result.ID = id
	return nil
}

// ListByPlayer returns a player's results, newest first. A limit of zero returns all.
func (r *SessionResultRepository) ListByPlayer(ctx context.Context, playerID string, limit int) ([]models.SessionResult, error) {
	query := "SELECT " + sessionResultColumns + " FROM session_results WHERE player_id = ? ORDER BY completed_at DESC, id DESC"
	args := []interface{}{playerID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	results := []models.SessionResult{}
	if err := r.db.SelectContext(ctx, &results, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list session results: %w", err)
	}
	return results, nil
}

// DeleteByPlayer removes a player's whole history
func (r *SessionResultRepository) DeleteByPlayer(ctx context.Context, playerID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM session_results WHERE player_id = ?", playerID); err != nil {
		return fmt.Errorf("failed to delete session results: %w", err)
	}
	return nil
}

// ListAll returns every result in insertion order
func (r *SessionResultRepository) ListAll(ctx context.Context) ([]models.SessionResult, error) {
	results := []models.SessionResult{}
	query := "SELECT " + sessionResultColumns + " FROM session_results ORDER BY id ASC"
	if err := r.db.SelectContext(ctx, &results, query); err != nil {
		return nil, fmt.Errorf("failed to list session results: %w", err)
	}
	return results, nil
}
