// internal/app/actions/projects.go
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

// ProjectInput is the project form.
type ProjectInput struct {
	Name        string `validate:"required,min=3,max=100" label:"Project name"`
	Description string `validate:"max=2000" label:"Description"`
	StartDate   string `validate:"required,date" label:"Start date"`
	EndDate     string `validate:"required,date" label:"End date"`
	Priority    string `validate:"oneof=low medium high" label:"Priority"`
	Status      string `validate:"max=30" label:"Status"`
	Color       string `validate:"max=20" label:"Color"`
	TeamMembers []string
}

func (in ProjectInput) check() *inputval.Result {
	res := inputval.Validate(in)
	res.Merge(inputval.ValidateDateRange(in.StartDate, in.EndDate))
	return res
}

// SaveProject creates a project when id is empty and otherwise edits the
// project with id. Creating only needs a write permission; editing needs
// edit access to the project.
func (s *Service) SaveProject(ctx context.Context, id string, in ProjectInput) (models.Project, error) {
	u, err := s.signedIn(ctx)
	if err != nil {
		return models.Project{}, err
	}
	if res := in.check(); res.HasErrors() {
		return models.Project{}, res
	}

	name := htmlsanitize.Text(in.Name)
	desc := htmlsanitize.Sanitize(in.Description)
	priority := normalize.Status(in.Priority)
	status := normalize.Status(in.Status)

	if id == "" {
		if !authz.HasPermission(u.Role, authz.Write) {
			return models.Project{}, ErrForbidden
		}
		p, err := s.store.AddProject(ctx, models.Project{
			Name:        name,
			Description: desc,
			StartDate:   in.StartDate,
			EndDate:     in.EndDate,
			Priority:    priority,
			Status:      status,
			Color:       in.Color,
			TeamMembers: normalize.IDs(in.TeamMembers),
		})
		if err != nil {
			return models.Project{}, err
		}
		s.log.Info("project created", zap.String("project_id", p.ID), zap.String("user_id", u.ID))
		s.notify(ctx, "Project created", "Project \""+p.Name+"\" was created")
		return p, nil
	}

	p, ok := s.store.FindProjectByID(ctx, id)
	if !ok {
		return models.Project{}, ErrNotFound
	}
	if !authz.CanEditProject(u, p, s.store.Teams(ctx)) {
		return models.Project{}, ErrForbidden
	}
	upd := models.ProjectUpdate{
		Name:        &name,
		Description: &desc,
		StartDate:   &in.StartDate,
		EndDate:     &in.EndDate,
	}
	if priority != "" {
		upd.Priority = &priority
	}
	if status != "" {
		upd.Status = &status
	}
	if in.Color != "" {
		upd.Color = &in.Color
	}
	if in.TeamMembers != nil {
		upd.TeamMembers = normalize.IDs(in.TeamMembers)
	}
	p, ok = s.store.UpdateProject(ctx, id, upd)
	if !ok {
		return models.Project{}, ErrNotFound
	}
	s.notify(ctx, "Project updated", "Project \""+p.Name+"\" was updated")
	return p, nil
}

// RemoveProject deletes a project with its tasks.
func (s *Service) RemoveProject(ctx context.Context, id string) error {
	u, err := s.signedIn(ctx)
	if err != nil {
		return err
	}
	p, ok := s.store.FindProjectByID(ctx, id)
	if !ok {
		return ErrNotFound
	}
	if !authz.CanDeleteProject(u, p, s.store.Teams(ctx)) {
		return ErrForbidden
	}
	if !s.store.DeleteProject(ctx, id) {
		return ErrNotFound
	}
	s.audit.ProjectDeleted(ctx, u.ID, id, p.Name)
	s.notify(ctx, "Project deleted", "Project \""+p.Name+"\" and its tasks were deleted")
	return nil
}
