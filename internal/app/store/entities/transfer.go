// internal/app/store/entities/transfer.go
package entitystore

import (
	"context"

	"github.com/dalemusser/planboard/internal/domain/models"
	"go.uber.org/zap"
)

// ExportData snapshots the six exported collections.
func (s *Store) ExportData(ctx context.Context) models.Export {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := s.settings(ctx)
	return models.Export{
		Users:         s.users.All(ctx, s.kv),
		Projects:      s.projects.All(ctx, s.kv),
		Tasks:         s.tasks.All(ctx, s.kv),
		Teams:         s.teams.All(ctx, s.kv),
		Settings:      &settings,
		Notifications: s.notifications.All(ctx, s.kv),
		ExportedAt:    s.now(),
	}
}

// ImportData replaces every collection present in data and leaves absent
// ones untouched. Values are stored as given so an export imports back
// unchanged. All replaced collections are committed together.
func (s *Store) ImportData(ctx context.Context, data models.Import) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.begin()
	var replaced []string
	if data.Users != nil {
		s.users.SetAll(ctx, u.tx, *data.Users)
		replaced = append(replaced, KeyUsers)
	}
	if data.Projects != nil {
		s.projects.SetAll(ctx, u.tx, *data.Projects)
		replaced = append(replaced, KeyProjects)
	}
	if data.Tasks != nil {
		s.tasks.SetAll(ctx, u.tx, *data.Tasks)
		replaced = append(replaced, KeyTasks)
	}
	if data.Teams != nil {
		s.teams.SetAll(ctx, u.tx, *data.Teams)
		replaced = append(replaced, KeyTeams)
	}
	if data.Settings != nil {
		u.tx.Set(ctx, KeySettings, *data.Settings)
		replaced = append(replaced, KeySettings)
	}
	if data.Notifications != nil {
		list := *data.Notifications
		if len(list) > models.MaxNotifications {
			list = list[:models.MaxNotifications]
		}
		s.notifications.SetAll(ctx, u.tx, list)
		replaced = append(replaced, KeyNotifications)
	}
	if !s.commit(ctx, u) {
		return false
	}
	s.log.Info("data imported", zap.Strings("collections", replaced))
	return true
}

// ClearAllData removes every key the store owns, including the session
// pointer, invites, and deadline stamps, then writes first-start defaults.
func (s *Store) ClearAllData(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.kv.Begin()
	for _, key := range []string{
		KeyUsers, KeyCurrentUser, KeyProjects, KeyTasks, KeyTeams,
		KeySettings, KeyNotifications, KeyInvites,
	} {
		tx.Remove(ctx, key)
	}
	for _, key := range s.kv.Keys(ctx, StampPrefix) {
		tx.Remove(ctx, key)
	}
	if !tx.Commit(ctx) {
		return false
	}
	if f, ok := s.identity.(forgetter); ok {
		f.Forget()
	}
	s.log.Info("all data cleared")
	return s.initLocked(ctx)
}
