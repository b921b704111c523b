package application

import (
	"errors"
	"fmt"

	"github.com/arenatv/backend/internal/domain"
)

var ErrInvalidSettings = errors.New("invalid settings")

// Fallbacks when a setting is absent or the settings store is unreachable.
const (
	fallbackSleepMinutes    = 30
	fallbackFeedSyncMinutes = 10
)

// SettingsRepository persists app-level settings as a key/value document.
type SettingsRepository interface {
	GetAppSettings() (map[string]interface{}, error)
	UpdateAppSettings(settings map[string]interface{}) error
}

// SettingsService handles app settings business logic.
type SettingsService struct {
	repo SettingsRepository
}

// NewSettingsService creates a new settings service.
func NewSettingsService(repo SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// GetSettings retrieves the current app settings.
func (s *SettingsService) GetSettings() (map[string]interface{}, error) {
	return s.repo.GetAppSettings()
}

// UpdateSettings validates and persists new app settings. Unknown keys are
// rejected so a typo cannot silently shadow a real setting.
func (s *SettingsService) UpdateSettings(settings map[string]interface{}) error {
	for key := range settings {
		switch key {
		case "default_sleep_minutes", "ambient_enabled", "leagues", "feed_sync_minutes":
		default:
			return fmt.Errorf("%w: unknown key %q", ErrInvalidSettings, key)
		}
	}

	if v, ok := settings["default_sleep_minutes"]; ok {
		minutes, ok := toInt(v)
		if !ok || minutes < 1 || minutes > 480 {
			return fmt.Errorf("%w: default_sleep_minutes out of range", ErrInvalidSettings)
		}
	}
	if v, ok := settings["feed_sync_minutes"]; ok {
		minutes, ok := toInt(v)
		if !ok || minutes < 1 {
			return fmt.Errorf("%w: feed_sync_minutes out of range", ErrInvalidSettings)
		}
	}

	current, err := s.repo.GetAppSettings()
	if err != nil {
		return err
	}
	for k, v := range settings {
		current[k] = v
	}
	return s.repo.UpdateAppSettings(current)
}

// DefaultSleepMinutes returns the countdown length used when a sleep timer
// is started without an explicit duration.
func (s *SettingsService) DefaultSleepMinutes() int {
	if v, ok := s.lookup("default_sleep_minutes"); ok {
		if minutes, ok := toInt(v); ok && minutes > 0 {
			return minutes
		}
	}
	return fallbackSleepMinutes
}

// FeedSyncMinutes returns the cadence of the background feed sync.
func (s *SettingsService) FeedSyncMinutes() int {
	if v, ok := s.lookup("feed_sync_minutes"); ok {
		if minutes, ok := toInt(v); ok && minutes > 0 {
			return minutes
		}
	}
	return fallbackFeedSyncMinutes
}

// AmbientEnabled reports whether ambient color sampling is on. Defaults to
// enabled.
func (s *SettingsService) AmbientEnabled() bool {
	if v, ok := s.lookup("ambient_enabled"); ok {
		if enabled, ok := v.(bool); ok {
			return enabled
		}
	}
	return true
}

// Leagues returns the scoreboard feeds the background sync reconciles.
// Empty when unset; callers fall back to the static configuration.
func (s *SettingsService) Leagues() []domain.LeagueInfo {
	v, ok := s.lookup("leagues")
	if !ok {
		return nil
	}
	return parseLeagues(v)
}

func (s *SettingsService) lookup(key string) (interface{}, bool) {
	settings, err := s.repo.GetAppSettings()
	if err != nil {
		return nil, false
	}
	v, ok := settings[key]
	return v, ok
}

// parseLeagues accepts the shapes a leagues value takes after JSON decoding
// or from the repository defaults.
func parseLeagues(v interface{}) []domain.LeagueInfo {
	var out []domain.LeagueInfo
	switch list := v.(type) {
	case []domain.LeagueInfo:
		return list
	case []map[string]string:
		for _, m := range list {
			if m["sport"] != "" && m["league"] != "" {
				out = append(out, domain.LeagueInfo{Sport: m["sport"], League: m["league"]})
			}
		}
	case []interface{}:
		for _, item := range list {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			sport, _ := m["sport"].(string)
			league, _ := m["league"].(string)
			if sport != "" && league != "" {
				out = append(out, domain.LeagueInfo{Sport: sport, League: league})
			}
		}
	}
	return out
}

// toInt accepts the numeric types JSON decoding may produce.
func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
