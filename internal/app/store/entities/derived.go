// internal/app/store/entities/derived.go
package entitystore

import (
	"context"
	"math"
	"time"

	"github.com/dalemusser/planboard/internal/app/kv"
	"github.com/dalemusser/planboard/internal/app/system/dates"
	"github.com/dalemusser/planboard/internal/domain/models"
)

// UpcomingWindow is how far ahead GetUpcomingTasks looks, in days.
const UpcomingWindow = 7

// Progress is round(100 × completed / total), or 0 for no tasks.
func Progress(tasks []models.Task) int {
	if len(tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.Completed() {
			done++
		}
	}
	return int(math.Round(100 * float64(done) / float64(len(tasks))))
}

// IsOverdue reports whether t is not completed and ended before today.
func IsOverdue(t models.Task, today time.Time) bool {
	if t.Completed() {
		return false
	}
	end, ok := dates.Parse(t.EndDate, today.Location())
	return ok && end.Before(today)
}

// IsUpcoming reports whether t is not completed and ends within
// [today, today+UpcomingWindow].
func IsUpcoming(t models.Task, today time.Time) bool {
	if t.Completed() {
		return false
	}
	end, ok := dates.Parse(t.EndDate, today.Location())
	if !ok {
		return false
	}
	days := dates.DaysBetween(today, end)
	return days >= 0 && days <= UpcomingWindow
}

// IsProjectOverdue reports whether p is unfinished and ended before today.
func IsProjectOverdue(p models.Project, today time.Time) bool {
	if p.Progress >= 100 {
		return false
	}
	end, ok := dates.Parse(p.EndDate, today.Location())
	return ok && end.Before(today)
}

// DaysLeft counts calendar days from today to the task's end date.
func DaysLeft(t models.Task, today time.Time) (int, bool) {
	end, ok := dates.Parse(t.EndDate, today.Location())
	if !ok {
		return 0, false
	}
	return dates.DaysBetween(today, end), true
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	return dates.StartOfDay(t, loc)
}

// location is the settings timezone, or the store's fallback zone.
func (s *Store) location(ctx context.Context, r kv.Reader) *time.Location {
	var settings models.Settings
	if !r.Get(ctx, KeySettings, &settings) {
		return s.loc
	}
	return dates.Location(settings.Timezone, s.loc)
}

// recomputeProgress writes the derived progress of projectID. The project's
// updatedAt is stamped only when the value changes.
func (s *Store) recomputeProgress(ctx context.Context, rw kv.ReadWriter, projectID string) (int, bool) {
	projects := s.projects.All(ctx, rw)
	i := -1
	for j := range projects {
		if projects[j].ID == projectID {
			i = j
			break
		}
	}
	if i < 0 {
		return 0, false
	}
	tasks := s.tasks.Filter(ctx, rw, func(t models.Task) bool { return t.ProjectID == projectID })
	progress := Progress(tasks)
	if projects[i].Progress != progress {
		projects[i].Progress = progress
		projects[i].UpdatedAt = s.now()
		s.projects.SetAll(ctx, rw, projects)
	}
	return progress, true
}

// UpdateProjectProgress recomputes and stores the progress of projectID.
func (s *Store) UpdateProjectProgress(ctx context.Context, projectID string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.begin()
	progress, ok := s.recomputeProgress(ctx, u.tx, projectID)
	if !ok {
		return 0, false
	}
	s.commit(ctx, u)
	return progress, true
}

// GetOverdueTasks returns every task that is not completed and whose end
// date is before today.
func (s *Store) GetOverdueTasks(ctx context.Context) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	today := s.today(ctx, s.kv)
	return s.tasks.Filter(ctx, s.kv, func(t models.Task) bool { return IsOverdue(t, today) })
}

// GetUpcomingTasks returns every task that is not completed and ends within
// the next UpcomingWindow days, today included.
func (s *Store) GetUpcomingTasks(ctx context.Context) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	today := s.today(ctx, s.kv)
	return s.tasks.Filter(ctx, s.kv, func(t models.Task) bool { return IsUpcoming(t, today) })
}

// GetUserOverdueTasks is GetOverdueTasks restricted to the tasks visible
// to userID through GetUserTasks.
func (s *Store) GetUserOverdueTasks(ctx context.Context, userID string) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	today := s.today(ctx, s.kv)
	out := []models.Task{}
	for _, t := range s.userTasks(ctx, userID) {
		if IsOverdue(t, today) {
			out = append(out, t)
		}
	}
	return out
}

// GetUserUpcomingTasks is GetUpcomingTasks restricted to userID's tasks.
func (s *Store) GetUserUpcomingTasks(ctx context.Context, userID string) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	today := s.today(ctx, s.kv)
	out := []models.Task{}
	for _, t := range s.userTasks(ctx, userID) {
		if IsUpcoming(t, today) {
			out = append(out, t)
		}
	}
	return out
}

// GetOverdueProjects returns the projects visible to userID that are past
// their end date with progress below 100.
func (s *Store) GetOverdueProjects(ctx context.Context, userID string) []models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	today := s.today(ctx, s.kv)
	out := []models.Project{}
	for _, p := range s.userProjects(ctx, userID) {
		if IsProjectOverdue(p, today) {
			out = append(out, p)
		}
	}
	return out
}
