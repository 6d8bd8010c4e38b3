// internal/app/store/entities/projects.go
package entitystore

import (
	"context"
	"slices"

	"github.com/dalemusser/planboard/internal/app/system/normalize"
	"github.com/dalemusser/planboard/internal/domain/models"
)

// Projects returns every project.
func (s *Store) Projects(ctx context.Context) []models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projects.All(ctx, s.kv)
}

// SetProjects replaces the projects collection. Owners are re-added to
// their team and progress is recomputed from the stored tasks.
func (s *Store) SetProjects(ctx context.Context, projects []models.Project) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.begin()
	projects = slices.Clone(projects)
	for i := range projects {
		projects[i].EnsureOwnerMember()
		u.invalidate(projects[i].ID)
	}
	s.projects.SetAll(ctx, u.tx, projects)
	return s.commit(ctx, u)
}

// AddProject creates p owned by the acting user. Status, priority, color,
// and timestamps are filled in; progress starts at 0.
func (s *Store) AddProject(ctx context.Context, p models.Project) (models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner, ok := s.actor()
	if !ok {
		return models.Project{}, ErrNotAuthenticated
	}

	now := s.now()
	p.ID = s.newID()
	p.OwnerID = owner.ID
	p.TeamMembers = normalize.IDs(p.TeamMembers)
	p.EnsureOwnerMember()
	p.Progress = 0
	if p.Status == "" {
		p.Status = models.ProjectStatusActive
	}
	if p.Priority == "" {
		p.Priority = models.PriorityMedium
	}
	if p.Color == "" {
		p.Color = models.ProjectColors[s.pickColor(len(models.ProjectColors))]
	}
	p.CreatedAt = now
	p.UpdatedAt = now

	if !s.projects.Add(ctx, s.kv, p) {
		return models.Project{}, ErrNotSaved
	}
	return p, nil
}

// FindProjectByID returns the project with id.
func (s *Store) FindProjectByID(ctx context.Context, id string) (models.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projects.FindByID(ctx, s.kv, id)
}

// UpdateProject merges upd into the project with id. Progress cannot be
// set this way.
func (s *Store) UpdateProject(ctx context.Context, id string, upd models.ProjectUpdate) (models.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if upd.TeamMembers != nil {
		upd.TeamMembers = normalize.IDs(upd.TeamMembers)
	}
	return s.projects.Update(ctx, s.kv, id, s.now(), func(p *models.Project) {
		upd.Apply(p)
		p.EnsureOwnerMember()
	})
}

// DeleteProject removes the project with id together with all of its
// tasks, its id on team members and pending invites, and the deadline
// stamps of everything removed. All collections are committed together.
func (s *Store) DeleteProject(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.begin()
	if !s.projects.Delete(ctx, u.tx, id) {
		return false
	}

	tasks := s.tasks.All(ctx, u.tx)
	var removed []string
	kept := tasks[:0:0]
	for _, t := range tasks {
		if t.ProjectID == id {
			removed = append(removed, t.ID)
			continue
		}
		kept = append(kept, t)
	}
	if len(removed) > 0 {
		kept = dropDependencies(kept, removed)
		s.tasks.SetAll(ctx, u.tx, kept)
	}

	now := s.now()
	teams := s.teams.All(ctx, u.tx)
	changed := false
	for i := range teams {
		if teams[i].OnProject(id) {
			teams[i].Projects = slices.DeleteFunc(teams[i].Projects, func(p string) bool { return p == id })
			teams[i].UpdatedAt = &now
			changed = true
		}
	}
	if changed {
		s.teams.SetAll(ctx, u.tx, teams)
	}

	invites := s.invites.All(ctx, u.tx)
	changed = false
	for i := range invites {
		if slices.Contains(invites[i].Projects, id) {
			invites[i].Projects = slices.DeleteFunc(invites[i].Projects, func(p string) bool { return p == id })
			changed = true
		}
	}
	if changed {
		s.invites.SetAll(ctx, u.tx, invites)
	}

	s.removeStamps(ctx, u.tx, StampOverdueProject, id)
	for _, taskID := range removed {
		s.removeStamps(ctx, u.tx, StampOverdueTask, taskID)
		s.removeStamps(ctx, u.tx, StampUpcomingTask, taskID)
	}
	return s.commit(ctx, u)
}

// GetUserProjects returns the projects userID owns or is a team member of.
// It returns nothing while no user is authenticated.
func (s *Store) GetUserProjects(ctx context.Context, userID string) []models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userProjects(ctx, userID)
}

func (s *Store) userProjects(ctx context.Context, userID string) []models.Project {
	if _, ok := s.actor(); !ok || userID == "" {
		return []models.Project{}
	}
	return s.projects.Filter(ctx, s.kv, func(p models.Project) bool { return p.HasMember(userID) })
}

// ProjectTeam lists the members of a project: the owner first, with the
// implicit owner role, followed by the stored team members invited to it.
func (s *Store) ProjectTeam(ctx context.Context, projectID string) ([]models.TeamMember, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects.FindByID(ctx, s.kv, projectID)
	if !ok {
		return nil, false
	}
	team := []models.TeamMember{{
		ID:        p.OwnerID,
		Role:      models.MemberOwner,
		Projects:  []string{p.ID},
		Status:    models.MemberActive,
		InvitedAt: p.CreatedAt,
	}}
	if owner, ok := s.users.FindByID(ctx, s.kv, p.OwnerID); ok {
		team[0].Email = owner.Email
	}
	team = append(team, s.teams.Filter(ctx, s.kv, func(m models.TeamMember) bool { return m.OnProject(projectID) })...)
	return team, true
}
