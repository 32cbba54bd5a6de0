package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lysyi3m/wire-comb/app/feed"
)

var _ SettingsRepository = (*SettingsRepositoryImpl)(nil)

// SettingsRepositoryImpl handles the single-row settings and wire state
type SettingsRepositoryImpl struct {
	db *DB
}

func NewSettingsRepository(db *DB) *SettingsRepositoryImpl {
	return &SettingsRepositoryImpl{db: db}
}

func (r *SettingsRepositoryImpl) GetSettings() (feed.Settings, error) {
	var s feed.Settings
	err := r.db.QueryRow(`
		SELECT hot_threshold, badge_mode, notifications_enabled, retention_hours
		FROM settings
		WHERE id = 1
	`).Scan(&s.HotThreshold, &s.BadgeMode, &s.NotificationsEnabled, &s.RetentionHours)

	if err != nil {
		return feed.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}

	return s, nil
}

func (r *SettingsRepositoryImpl) UpdateSettings(settings feed.Settings) error {
	_, err := r.db.Exec(`
		UPDATE settings
		SET hot_threshold = ?, badge_mode = ?, notifications_enabled = ?,
		    retention_hours = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = 1
	`, settings.HotThreshold, settings.BadgeMode, settings.NotificationsEnabled, settings.RetentionHours)

	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}

	return nil
}

// GetLastCycleAt returns the last successful ingestion cycle timestamp, or
// nil when no cycle has completed yet.
func (r *SettingsRepositoryImpl) GetLastCycleAt() (*time.Time, error) {
	var lastCycle sql.NullTime
	err := r.db.QueryRow(`SELECT last_cycle_at FROM wire_state WHERE id = 1`).Scan(&lastCycle)
	if err != nil {
		return nil, fmt.Errorf("failed to get wire state: %w", err)
	}

	if !lastCycle.Valid {
		return nil, nil
	}
	return &lastCycle.Time, nil
}
