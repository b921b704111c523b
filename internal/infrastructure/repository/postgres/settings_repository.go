package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SettingsRepository handles app settings persistence
type SettingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// GetAppSettings retrieves app settings from the database. Missing settings
// fall back to defaults.
func (r *SettingsRepository) GetAppSettings() (map[string]interface{}, error) {
	ctx := context.Background()

	var value json.RawMessage
	err := r.pool.QueryRow(ctx, "SELECT value FROM settings WHERE key = $1", "app").Scan(&value)
	if err != nil {
		return map[string]interface{}{
			"default_sleep_minutes": 30,
			"ambient_enabled":       true,
			"feed_sync_minutes":     10,
			"leagues": []map[string]string{
				{"sport": "soccer", "league": "esp.1"},
				{"sport": "soccer", "league": "eng.1"},
				{"sport": "basketball", "league": "nba"},
			},
		}, nil
	}

	var settings map[string]interface{}
	if err := json.Unmarshal(value, &settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	return settings, nil
}

// UpdateAppSettings persists app settings
func (r *SettingsRepository) UpdateAppSettings(settings map[string]interface{}) error {
	ctx := context.Background()

	valueJSON, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	query := `
		INSERT INTO settings (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	_, err = r.pool.Exec(ctx, query, "app", valueJSON)
	return err
}
