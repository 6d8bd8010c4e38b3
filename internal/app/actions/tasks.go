// internal/app/actions/tasks.go
package actions

import (
	"context"

	"github.com/dalemusser/planboard/internal/app/system/authz"
	"github.com/dalemusser/planboard/internal/app/system/htmlsanitize"
	"github.com/dalemusser/planboard/internal/app/system/inputval"
	"github.com/dalemusser/planboard/internal/app/system/normalize"
	"github.com/dalemusser/planboard/internal/domain/models"
	"go.uber.org/zap"
)

// TaskInput is the task form.
type TaskInput struct {
	ProjectID    string `validate:"required" label:"Project"`
	Name         string `validate:"required,min=3,max=100" label:"Task name"`
	Description  string `validate:"max=2000" label:"Description"`
	StartDate    string `validate:"required,date" label:"Start date"`
	EndDate      string `validate:"required,date" label:"End date"`
	Priority     string `validate:"oneof=low medium high" label:"Priority"`
	Status       string `validate:"oneof=pending in-progress completed" label:"Status"`
	AssignedTo   string
	Dependencies []string
}

// checkTask validates in against its project (when it exists) and the current
// dependency graph. taskID is empty for a new task.
func (s *Service) checkTask(ctx context.Context, taskID string, in TaskInput) (models.Project, *inputval.Result) {
	res := inputval.Validate(in)
	res.Merge(inputval.ValidateDateRange(in.StartDate, in.EndDate))

	p, ok := s.store.FindProjectByID(ctx, in.ProjectID)
	if in.ProjectID != "" && !ok {
		res.Add("ProjectID", "The selected project does not exist.")
	}
	if ok {
		res.Merge(inputval.ValidateWithinProject(in.StartDate, in.EndDate, p))
	}
	res.Merge(inputval.ValidateDependencies(taskID, normalize.IDs(in.Dependencies), s.store.Tasks(ctx)))
	return p, res
}

// SaveTask creates a task when id is empty and otherwise edits the task
// with id. Moving a task needs write access to the destination project.
func (s *Service) SaveTask(ctx context.Context, id string, in TaskInput) (models.Task, error) {
	u, err := s.signedIn(ctx)
	if err != nil {
		return models.Task{}, err
	}
	p, res := s.checkTask(ctx, id, in)
	if res.HasErrors() {
		return models.Task{}, res
	}
	members := s.store.Teams(ctx)

	name := htmlsanitize.Text(in.Name)
	desc := htmlsanitize.Sanitize(in.Description)
	priority := normalize.Status(in.Priority)
	status := normalize.Status(in.Status)
	deps := normalize.IDs(in.Dependencies)

	if id == "" {
		if !authz.ProjectAccess(u, p, members, authz.Write) {
			return models.Task{}, ErrForbidden
		}
		t, err := s.store.AddTask(ctx, models.Task{
			Name:         name,
			Description:  desc,
			ProjectID:    p.ID,
			StartDate:    in.StartDate,
			EndDate:      in.EndDate,
			Priority:     priority,
			Status:       status,
			AssignedTo:   in.AssignedTo,
			Dependencies: deps,
		})
		if err != nil {
			return models.Task{}, err
		}
		s.log.Info("task created", zap.String("task_id", t.ID), zap.String("project_id", p.ID))
		s.notify(ctx, "Task created", "Task \""+t.Name+"\" was added to \""+p.Name+"\"")
		return t, nil
	}

	cur, ok := s.store.FindTaskByID(ctx, id)
	if !ok {
		return models.Task{}, ErrNotFound
	}
	oldProject, _ := s.store.FindProjectByID(ctx, cur.ProjectID)
	if !authz.CanEditTask(u, cur, oldProject, members) {
		return models.Task{}, ErrForbidden
	}
	if p.ID != cur.ProjectID && !authz.ProjectAccess(u, p, members, authz.Write) {
		return models.Task{}, ErrForbidden
	}

	upd := models.TaskUpdate{
		Name:         &name,
		Description:  &desc,
		ProjectID:    &p.ID,
		StartDate:    &in.StartDate,
		EndDate:      &in.EndDate,
		Dependencies: deps,
	}
	if priority != "" {
		upd.Priority = &priority
	}
	if status != "" {
		upd.Status = &status
	}
	if in.AssignedTo != "" {
		upd.AssignedTo = &in.AssignedTo
	}
	t, ok := s.store.UpdateTask(ctx, id, upd)
	if !ok {
		return models.Task{}, ErrNotFound
	}
	s.notify(ctx, "Task updated", "Task \""+t.Name+"\" was updated")
	return t, nil
}

// ChangeTaskStatus moves a task to status.
func (s *Service) ChangeTaskStatus(ctx context.Context, id, status string) (models.Task, error) {
	u, err := s.signedIn(ctx)
	if err != nil {
		return models.Task{}, err
	}
	status = normalize.Status(status)
	switch status {
	case models.TaskPending, models.TaskInProgress, models.TaskCompleted:
	default:
		res := &inputval.Result{}
		res.Add("Status", "Status must be one of: pending, in-progress, completed.")
		return models.Task{}, res
	}

	cur, ok := s.store.FindTaskByID(ctx, id)
	if !ok {
		return models.Task{}, ErrNotFound
	}
	p, _ := s.store.FindProjectByID(ctx, cur.ProjectID)
	if !authz.CanEditTask(u, cur, p, s.store.Teams(ctx)) {
		return models.Task{}, ErrForbidden
	}
	t, ok := s.store.UpdateTask(ctx, id, models.TaskUpdate{Status: &status})
	if !ok {
		return models.Task{}, ErrNotFound
	}
	s.notify(ctx, "Task updated", "Task \""+t.Name+"\" is now "+status)
	return t, nil
}

// RemoveTask deletes a task.
func (s *Service) RemoveTask(ctx context.Context, id string) error {
	u, err := s.signedIn(ctx)
	if err != nil {
		return err
	}
	t, ok := s.store.FindTaskByID(ctx, id)
	if !ok {
		return ErrNotFound
	}
	p, _ := s.store.FindProjectByID(ctx, t.ProjectID)
	if !authz.CanDeleteTask(u, t, p, s.store.Teams(ctx)) {
		return ErrForbidden
	}
	if !s.store.DeleteTask(ctx, id) {
		return ErrNotFound
	}
	s.audit.TaskDeleted(ctx, u.ID, id, t.ProjectID)
	s.notify(ctx, "Task deleted", "Task \""+t.Name+"\" was deleted")
	return nil
}
