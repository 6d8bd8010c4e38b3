// internal/app/store/entities/teams.go
package entitystore

import (
	"context"
	"strings"

	"github.com/dalemusser/planboard/internal/app/system/normalize"
	"github.com/dalemusser/planboard/internal/domain/models"
)

// Teams returns every stored team member. Project owners are not included.
func (s *Store) Teams(ctx context.Context) []models.TeamMember {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.teams.All(ctx, s.kv)
}

// SetTeams replaces the team members collection.
func (s *Store) SetTeams(ctx context.Context, members []models.TeamMember) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.teams.SetAll(ctx, s.kv, members)
}

// AddTeamMember records an invitation sent by the acting user. The member
// starts pending with the viewer role unless a role is given.
func (s *Store) AddTeamMember(ctx context.Context, m models.TeamMember) (models.TeamMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inviter, ok := s.actor()
	if !ok {
		return models.TeamMember{}, ErrNotAuthenticated
	}

	m.ID = s.newID()
	m.Email = normalize.Email(m.Email)
	m.Role = normalize.Role(m.Role)
	if m.Role == "" {
		m.Role = models.MemberViewer
	}
	m.Projects = normalize.IDs(m.Projects)
	m.InvitedBy = inviter.ID
	m.InvitedAt = s.now()
	m.Status = models.MemberPending
	m.UpdatedAt = nil

	if !s.teams.Add(ctx, s.kv, m) {
		return models.TeamMember{}, ErrNotSaved
	}
	return m, nil
}

// FindTeamMemberByID returns the team member with id.
func (s *Store) FindTeamMemberByID(ctx context.Context, id string) (models.TeamMember, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.teams.FindByID(ctx, s.kv, id)
}

// FindTeamMemberByEmail returns the most recent invitation for email.
func (s *Store) FindTeamMemberByEmail(ctx context.Context, email string) (models.TeamMember, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memberByEmail(s.teams.All(ctx, s.kv), email)
}

func (s *Store) memberByEmail(members []models.TeamMember, email string) (models.TeamMember, bool) {
	email = normalize.Email(email)
	for i := len(members) - 1; i >= 0; i-- {
		if email != "" && strings.EqualFold(members[i].Email, email) {
			return members[i], true
		}
	}
	return models.TeamMember{}, false
}

// UpdateTeamMember merges upd into the member with id and stamps updatedAt.
func (s *Store) UpdateTeamMember(ctx context.Context, id string, upd models.TeamMemberUpdate) (models.TeamMember, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if upd.Projects != nil {
		upd.Projects = normalize.IDs(upd.Projects)
	}
	return s.teams.Update(ctx, s.kv, id, s.now(), upd.Apply)
}

// RemoveTeamMember deletes the member with id and reports whether it existed.
func (s *Store) RemoveTeamMember(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.teams.Delete(ctx, s.kv, id)
}
