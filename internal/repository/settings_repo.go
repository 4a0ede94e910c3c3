package repository

import (
	"context"
	"database/sql"
	"errors"

	"heroworld/internal/database"
)

// Setting keys
const (
	SettingParentPINHash = "parent_pin_hash"
	SettingSoundEnabled  = "sound_enabled"
)

type SettingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetSetting retrieves a setting value by key. A missing key returns "", false.
func (r *SettingsRepository) GetSetting(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.GetContext(ctx, &value, "SELECT setting_value FROM settings WHERE setting_key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetSetting updates or inserts a setting
func (r *SettingsRepository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, r.db.Dialect.UpsertSettings(), key, value)
	return err
}

// ParentPINHash returns the stored bcrypt hash of the parent PIN, if any
func (r *SettingsRepository) ParentPINHash(ctx context.Context) (string, bool, error) {
	return r.GetSetting(ctx, SettingParentPINHash)
}

// SetParentPINHash stores the bcrypt hash of the parent PIN
func (r *SettingsRepository) SetParentPINHash(ctx context.Context, hash string) error {
	return r.SetSetting(ctx, SettingParentPINHash, hash)
}

// IsSoundEnabled reports the stored sound preference, defaulting to on
func (r *SettingsRepository) IsSoundEnabled(ctx context.Context) bool {
	value, ok, err := r.GetSetting(ctx, SettingSoundEnabled)
	if err != nil || !ok {
		return true
	}
	return value == "true"
}

// SetSoundEnabled stores the sound preference
func (r *SettingsRepository) SetSoundEnabled(ctx context.Context, enabled bool) error {
	value := "false"
	if enabled {
		value = "true"
	}
	return r.SetSetting(ctx, SettingSoundEnabled, value)
}
