// internal/app/store/entities/settings.go
package entitystore

import (
	"context"
	"fmt"

	"github.com/dalemusser/planboard/internal/domain/models"
)

// Settings returns the installation settings, or the defaults when none are stored.
func (s *Store) Settings(ctx context.Context) models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings(ctx)
}

func (s *Store) settings(ctx context.Context) models.Settings {
	settings := models.DefaultSettings()
	s.kv.Get(ctx, KeySettings, &settings)
	return settings
}

// SetSettings replaces the settings record.
func (s *Store) SetSettings(ctx context.Context, settings models.Settings) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Set(ctx, KeySettings, settings)
}

// UpdateSetting changes one setting, addressed by its JSON name.
func (s *Store) UpdateSetting(ctx context.Context, key string, value any) (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := s.settings(ctx)
	switch key {
	case "theme", "language", "timezone":
		v, ok := value.(string)
		if !ok {
			return settings, fmt.Errorf("setting %s wants a string, got %T", key, value)
		}
		switch key {
		case "theme":
			settings.Theme = v
		case "language":
			settings.Language = v
		default:
			settings.Timezone = v
		}
	case "notificationsEnabled", "emailNotifications":
		v, ok := value.(bool)
		if !ok {
			return settings, fmt.Errorf("setting %s wants a bool, got %T", key, value)
		}
		if key == "notificationsEnabled" {
			settings.NotificationsEnabled = v
		} else {
			settings.EmailNotifications = v
		}
	default:
		return settings, fmt.Errorf("%w: %q", ErrUnknownSetting, key)
	}

	if !s.kv.Set(ctx, KeySettings, settings) {
		return settings, ErrNotSaved
	}
	return settings, nil
}
