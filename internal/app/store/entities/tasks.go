// internal/app/store/entities/tasks.go
package entitystore

import (
	"context"
	"slices"

	"github.com/dalemusser/planboard/internal/app/system/normalize"
	"github.com/dalemusser/planboard/internal/domain/models"
)

// Tasks returns every task.
func (s *Store) Tasks(ctx context.Context) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks.All(ctx, s.kv)
}

// SetTasks replaces the tasks collection and recomputes the progress of
// every project referenced before or after the replacement.
func (s *Store) SetTasks(ctx context.Context, tasks []models.Task) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.begin()
	for _, t := range s.tasks.All(ctx, u.tx) {
		u.invalidate(t.ProjectID)
	}
	for _, t := range tasks {
		u.invalidate(t.ProjectID)
	}
	s.tasks.SetAll(ctx, u.tx, tasks)
	return s.commit(ctx, u)
}

// AddTask creates t, created by the acting user and assigned to them unless
// AssignedTo is set. Status defaults to pending. The project's progress is
// recomputed in the same commit.
func (s *Store) AddTask(ctx context.Context, t models.Task) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	actor, ok := s.actor()
	if !ok {
		return models.Task{}, ErrNotAuthenticated
	}

	now := s.now()
	t.ID = s.newID()
	t.CreatedBy = actor.ID
	if t.AssignedTo == "" {
		t.AssignedTo = actor.ID
	}
	if t.Status == "" {
		t.Status = models.TaskPending
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	t.Dependencies = normalize.IDs(t.Dependencies)
	t.CreatedAt = now
	t.UpdatedAt = now

	u := s.begin()
	s.tasks.Add(ctx, u.tx, t)
	u.invalidate(t.ProjectID)
	if !s.commit(ctx, u) {
		return models.Task{}, ErrNotSaved
	}
	return t, nil
}

// FindTaskByID returns the task with id.
func (s *Store) FindTaskByID(ctx context.Context, id string) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks.FindByID(ctx, s.kv, id)
}

// GetProjectTasks returns the tasks of projectID.
func (s *Store) GetProjectTasks(ctx context.Context, projectID string) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks.Filter(ctx, s.kv, func(t models.Task) bool { return t.ProjectID == projectID })
}

// GetUserTasks returns the tasks assigned to or created by userID.
// It returns nothing while no user is authenticated.
func (s *Store) GetUserTasks(ctx context.Context, userID string) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userTasks(ctx, userID)
}

func (s *Store) userTasks(ctx context.Context, userID string) []models.Task {
	if _, ok := s.actor(); !ok || userID == "" {
		return []models.Task{}
	}
	return s.tasks.Filter(ctx, s.kv, func(t models.Task) bool {
		return t.AssignedTo == userID || t.CreatedBy == userID
	})
}

// UpdateTask merges upd into the task with id. When the task moves to
// another project both projects' progress is recomputed.
func (s *Store) UpdateTask(ctx context.Context, id string, upd models.TaskUpdate) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.begin()
	before, ok := s.tasks.FindByID(ctx, u.tx, id)
	if !ok {
		return models.Task{}, false
	}
	if upd.Dependencies != nil {
		upd.Dependencies = normalize.IDs(upd.Dependencies)
	}
	after, _ := s.tasks.Update(ctx, u.tx, id, s.now(), upd.Apply)
	u.invalidate(before.ProjectID, after.ProjectID)
	if !s.commit(ctx, u) {
		return models.Task{}, false
	}
	return after, true
}

// DeleteTask removes the task with id, drops it from other tasks'
// dependencies, and recomputes its project's progress.
func (s *Store) DeleteTask(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.begin()
	t, ok := s.tasks.FindByID(ctx, u.tx, id)
	if !ok {
		return false
	}
	tasks := s.tasks.All(ctx, u.tx)
	tasks = slices.DeleteFunc(tasks, func(x models.Task) bool { return x.ID == id })
	s.tasks.SetAll(ctx, u.tx, dropDependencies(tasks, []string{id}))
	s.removeStamps(ctx, u.tx, StampOverdueTask, id)
	s.removeStamps(ctx, u.tx, StampUpcomingTask, id)
	u.invalidate(t.ProjectID)
	return s.commit(ctx, u)
}

// dropDependencies removes the given task ids from every dependency list.
func dropDependencies(tasks []models.Task, ids []string) []models.Task {
	for i := range tasks {
		if len(tasks[i].Dependencies) == 0 {
			continue
		}
		tasks[i].Dependencies = slices.DeleteFunc(slices.Clone(tasks[i].Dependencies), func(d string) bool {
			return slices.Contains(ids, d)
		})
	}
	return tasks
}
