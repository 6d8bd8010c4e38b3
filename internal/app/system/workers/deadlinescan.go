// internal/app/system/workers/deadlinescan.go
package workers

import (
	"context"
	"fmt"
	"sync"
	"time"

	entitystore "github.com/dalemusser/planboard/internal/app/store/entities"
	"github.com/dalemusser/planboard/internal/app/system/timeouts"
	"github.com/dalemusser/planboard/internal/domain/models"
	"go.uber.org/zap"
)

const (
	// DefaultScanInterval is how often deadlines are checked.
	DefaultScanInterval = 30 * time.Minute
	// NotifyEvery is the minimum gap between two notifications for the same entity.
	NotifyEvery = 24 * time.Hour
	// SoonDays is how close an end date must be for an upcoming-task notification.
	SoonDays = 3
)

// DeadlineScan is a background worker that turns overdue and soon-due work
// into notifications for the signed-in user.
type DeadlineScan struct {
	store    *entitystore.Store
	log      *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewDeadlineScan creates a deadline scan worker. A non-positive interval
// means DefaultScanInterval.
func NewDeadlineScan(store *entitystore.Store, logger *zap.Logger, interval time.Duration) *DeadlineScan {
	if interval <= 0 {
		interval = DefaultScanInterval
	}
	return &DeadlineScan{
		store:    store,
		log:      logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start runs one scan immediately and then one per interval.
func (w *DeadlineScan) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("deadline scan worker started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish. Calling it
// again is a no-op.
func (w *DeadlineScan) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("deadline scan worker stopped")
	})
}

func (w *DeadlineScan) run() {
	defer w.wg.Done()

	w.tick()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.tick()
		}
	}
}

func (w *DeadlineScan) tick() {
	ctx, cancel := timeouts.WithScan(context.Background())
	defer cancel()

	if n := w.ScanOnce(ctx); n > 0 {
		w.log.Info("deadline notifications sent", zap.Int("count", n))
	}
}

// ScanOnce checks every deadline once and returns how many notifications it
// added. Nothing happens while nobody is signed in or notifications are
// turned off in settings.
func (w *DeadlineScan) ScanOnce(ctx context.Context) int {
	user, ok := w.store.CurrentUser()
	if !ok {
		return 0
	}
	if !w.store.Settings(ctx).NotificationsEnabled {
		return 0
	}

	today := w.store.Today(ctx)
	sent := 0

	for _, t := range w.store.GetUserOverdueTasks(ctx, user.ID) {
		msg := fmt.Sprintf("Task %q in project %q is past its deadline", t.Name, w.projectName(ctx, t.ProjectID))
		if w.notify(ctx, user.ID, entitystore.StampOverdueTask, t.ID, "Task overdue", msg, models.NotifyWarning) {
			sent++
		}
	}

	for _, t := range w.store.GetUserUpcomingTasks(ctx, user.ID) {
		days, ok := entitystore.DaysLeft(t, today)
		if !ok || days <= 0 || days > SoonDays {
			continue
		}
		msg := fmt.Sprintf("Task %q in project %q is due in %d day(s)", t.Name, w.projectName(ctx, t.ProjectID), days)
		if w.notify(ctx, user.ID, entitystore.StampUpcomingTask, t.ID, "Deadline approaching", msg, models.NotifyInfo) {
			sent++
		}
	}

	for _, p := range w.store.GetOverdueProjects(ctx, user.ID) {
		msg := fmt.Sprintf("Project %q is past its deadline", p.Name)
		if w.notify(ctx, user.ID, entitystore.StampOverdueProject, p.ID, "Project overdue", msg, models.NotifyWarning) {
			sent++
		}
	}
	return sent
}

// notify adds a notification unless userID was told about the entity for
// kind within NotifyEvery, and then stamps it. Stamps are kept per user so
// one user's reminder never holds back another's.
func (w *DeadlineScan) notify(ctx context.Context, userID, kind, entityID, title, message, typ string) bool {
	now := w.store.Now()
	subject := entitystore.StampSubject(entityID, userID)
	if last, ok := w.store.NotificationStamp(ctx, kind, subject); ok && now.Sub(last) <= NotifyEvery {
		return false
	}
	w.store.AddNotification(ctx, models.Notification{
		Title:   title,
		Message: message,
		Type:    typ,
		UserID:  userID,
	})
	if !w.store.SetNotificationStamp(ctx, kind, subject, now) {
		w.log.Warn("failed to record notification stamp",
			zap.String("kind", kind), zap.String("entity_id", entityID))
	}
	return true
}

func (w *DeadlineScan) projectName(ctx context.Context, projectID string) string {
	if p, ok := w.store.FindProjectByID(ctx, projectID); ok {
		return p.Name
	}
	return "deleted project"
}
