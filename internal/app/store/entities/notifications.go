// internal/app/store/entities/notifications.go
package entitystore

import (
	"context"
	"time"

	"github.com/dalemusser/planboard/internal/app/kv"
	"github.com/dalemusser/planboard/internal/domain/models"
)

// Deadline stamp kinds, used in last_notification_<kind>_<entityId> keys.
const (
	StampOverdueTask    = "overdue_task"
	StampUpcomingTask   = "upcoming_task"
	StampOverdueProject = "overdue_project"
)

// StampKey is the logical key remembering when entityID was last notified for kind.
func StampKey(kind, entityID string) string {
	return StampPrefix + kind + "_" + entityID
}

// StampSubject is the entity id used for userID's own stamp of entityID,
// so reminders to different users are throttled independently.
func StampSubject(entityID, userID string) string {
	return entityID + "_" + userID
}

// removeStamps drops the stamp of entityID for kind along with any
// per-recipient variants keyed by StampSubject.
func (s *Store) removeStamps(ctx context.Context, w kv.Writer, kind, entityID string) {
	key := StampKey(kind, entityID)
	w.Remove(ctx, key)
	for _, k := range s.kv.Keys(ctx, key+"_") {
		w.Remove(ctx, k)
	}
}

// Notifications returns the persisted log, newest first.
func (s *Store) Notifications(ctx context.Context) []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notifications.All(ctx, s.kv)
}

// SetNotifications replaces the log, keeping at most models.MaxNotifications entries.
func (s *Store) SetNotifications(ctx context.Context, list []models.Notification) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(list) > models.MaxNotifications {
		list = list[:models.MaxNotifications]
	}
	return s.notifications.SetAll(ctx, s.kv, list)
}

// AddNotification prepends n to the log, evicting the oldest entries past
// models.MaxNotifications. UserID defaults to the acting user and Type to info.
func (s *Store) AddNotification(ctx context.Context, n models.Notification) models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	n.ID = s.newID()
	if n.Type == "" {
		n.Type = models.NotifyInfo
	}
	if n.UserID == "" {
		if u, ok := s.actor(); ok {
			n.UserID = u.ID
		}
	}
	n.Read = false
	n.CreatedAt = s.now()

	list := append([]models.Notification{n}, s.notifications.All(ctx, s.kv)...)
	if len(list) > models.MaxNotifications {
		list = list[:models.MaxNotifications]
	}
	s.notifications.SetAll(ctx, s.kv, list)
	return n
}

// MarkNotificationRead flags the notification with id as read.
func (s *Store) MarkNotificationRead(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.notifications.Update(ctx, s.kv, id, s.now(), func(n *models.Notification) { n.Read = true })
	return ok
}

// MarkAllNotificationsRead flags every notification of userID as read and
// returns how many changed.
func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.notifications.All(ctx, s.kv)
	changed := 0
	for i := range list {
		if list[i].UserID == userID && !list[i].Read {
			list[i].Read = true
			changed++
		}
	}
	if changed > 0 {
		s.notifications.SetAll(ctx, s.kv, list)
	}
	return changed
}

// UserNotifications returns the log entries addressed to userID, newest first.
// It returns nothing while no user is authenticated.
func (s *Store) UserNotifications(ctx context.Context, userID string) []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.actor(); !ok || userID == "" {
		return []models.Notification{}
	}
	return s.notifications.Filter(ctx, s.kv, func(n models.Notification) bool { return n.UserID == userID })
}

// NotificationStamp returns when entityID was last notified for kind.
func (s *Store) NotificationStamp(ctx context.Context, kind, entityID string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var at time.Time
	if !s.kv.Get(ctx, StampKey(kind, entityID), &at) {
		return time.Time{}, false
	}
	return at, true
}

// SetNotificationStamp records that entityID was notified for kind at at.
func (s *Store) SetNotificationStamp(ctx context.Context, kind, entityID string, at time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Set(ctx, StampKey(kind, entityID), at.UTC())
}
