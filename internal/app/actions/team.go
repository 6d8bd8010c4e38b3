// internal/app/actions/team.go
package actions

import (
	"context"
	"strings"

	"github.com/dalemusser/planboard/internal/app/system/authz"
	"github.com/dalemusser/planboard/internal/app/system/inputval"
	"github.com/dalemusser/planboard/internal/app/system/normalize"
	"github.com/dalemusser/planboard/internal/domain/models"
	"go.uber.org/zap"
)

// MemberInput is the invite and edit-member form.
type MemberInput struct {
	Email    string   `validate:"required,email" label:"Email address"`
	Role     string   `validate:"required" label:"Role"`
	Projects []string `validate:"required" label:"Project"`
}

func (in MemberInput) check() *inputval.Result {
	res := inputval.Validate(in)
	if strings.TrimSpace(in.Role) != "" && !inputval.IsValidMemberRole(in.Role) {
		res.Add("Role", "Role must be one of: admin, editor, viewer.")
	}
	return res
}

// canManage reports whether u may manage members on every project in ids.
// Unknown project ids are reported through the returned Result.
func (s *Service) canManage(ctx context.Context, u models.User, ids []string) (bool, *inputval.Result) {
	res := &inputval.Result{}
	if len(ids) == 0 {
		return authz.HasPermission(u.Role, authz.Admin), res
	}
	members := s.store.Teams(ctx)
	for _, id := range ids {
		p, ok := s.store.FindProjectByID(ctx, id)
		if !ok {
			res.Add("Projects", "Project "+id+" does not exist.")
			continue
		}
		if !authz.CanManageTeam(u, p, members) {
			return false, res
		}
	}
	return true, res
}

// InviteMember records a pending team member and the invitation link that
// lets them join.
func (s *Service) InviteMember(ctx context.Context, in MemberInput) (models.TeamMember, models.Invite, error) {
	u, err := s.signedIn(ctx)
	if err != nil {
		return models.TeamMember{}, models.Invite{}, err
	}
	res := in.check()
	if res.HasErrors() {
		return models.TeamMember{}, models.Invite{}, res
	}
	projects := normalize.IDs(in.Projects)
	ok, missing := s.canManage(ctx, u, projects)
	if missing.HasErrors() {
		return models.TeamMember{}, models.Invite{}, missing
	}
	if !ok {
		return models.TeamMember{}, models.Invite{}, ErrForbidden
	}

	m, err := s.store.AddTeamMember(ctx, models.TeamMember{Email: in.Email, Role: in.Role, Projects: projects})
	if err != nil {
		return models.TeamMember{}, models.Invite{}, err
	}
	inv, err := s.store.AddInvite(ctx, models.Invite{Email: in.Email, Role: in.Role, Projects: projects})
	if err != nil {
		s.store.RemoveTeamMember(ctx, m.ID)
		return models.TeamMember{}, models.Invite{}, err
	}
	s.log.Debug("invite created", zap.String("invite_id", inv.ID))
	s.audit.MemberInvited(ctx, u.ID, m.ID, m.Email, m.Role)
	s.notify(ctx, "Invitation created", "An invitation was created for "+m.Email)
	return m, inv, nil
}

// OpenInvite returns the invite with id when it can still be used.
func (s *Service) OpenInvite(ctx context.Context, id string) (models.Invite, error) {
	return s.store.CheckInvite(ctx, strings.TrimSpace(id))
}

// AcceptInvite consumes the invite and activates the invited member. The
// invitee does not need to be signed in.
func (s *Service) AcceptInvite(ctx context.Context, id, name string) (models.Invite, error) {
	if strings.TrimSpace(name) == "" {
		res := &inputval.Result{}
		res.Add("Name", "Your name is required.")
		return models.Invite{}, res
	}
	inv, err := s.store.ResolveInvite(ctx, strings.TrimSpace(id), name, true)
	if err != nil {
		return models.Invite{}, err
	}
	s.audit.InviteResolved(ctx, inv.ID, inv.Email, true)
	s.notify(ctx, "Welcome", "Welcome "+inv.AcceptedName+", you joined the team")
	return inv, nil
}

// DeclineInvite consumes the invite and marks the invited member declined.
func (s *Service) DeclineInvite(ctx context.Context, id string) (models.Invite, error) {
	inv, err := s.store.ResolveInvite(ctx, strings.TrimSpace(id), "", false)
	if err != nil {
		return models.Invite{}, err
	}
	s.audit.InviteResolved(ctx, inv.ID, inv.Email, false)
	return inv, nil
}

// UpdateMember changes a member's role and projects. The email is fixed
// once invited.
func (s *Service) UpdateMember(ctx context.Context, id string, in MemberInput) (models.TeamMember, error) {
	u, err := s.signedIn(ctx)
	if err != nil {
		return models.TeamMember{}, err
	}
	cur, ok := s.store.FindTeamMemberByID(ctx, id)
	if !ok {
		return models.TeamMember{}, ErrNotFound
	}
	in.Email = cur.Email
	if res := in.check(); res.HasErrors() {
		return models.TeamMember{}, res
	}

	projects := normalize.IDs(in.Projects)
	ok, missing := s.canManage(ctx, u, append(append([]string{}, cur.Projects...), projects...))
	if missing.HasErrors() {
		return models.TeamMember{}, missing
	}
	if !ok {
		return models.TeamMember{}, ErrForbidden
	}

	role := normalize.Role(in.Role)
	m, ok := s.store.UpdateTeamMember(ctx, id, models.TeamMemberUpdate{Role: &role, Projects: projects})
	if !ok {
		return models.TeamMember{}, ErrNotFound
	}
	s.notify(ctx, "Member updated", "Changes for "+m.Email+" were saved")
	return m, nil
}

// RemoveMember deletes a member or cancels a pending invitation.
func (s *Service) RemoveMember(ctx context.Context, id string) error {
	u, err := s.signedIn(ctx)
	if err != nil {
		return err
	}
	m, ok := s.store.FindTeamMemberByID(ctx, id)
	if !ok {
		return ErrNotFound
	}
	if ok, _ := s.canManage(ctx, u, m.Projects); !ok {
		return ErrForbidden
	}
	if !s.store.RemoveTeamMember(ctx, id) {
		return ErrNotFound
	}
	msg := "The member was removed"
	if m.Status == models.MemberPending {
		msg = "The invitation was cancelled"
	}
	s.audit.MemberRemoved(ctx, u.ID, id, m.Email)
	s.notify(ctx, "Member removed", msg)
	return nil
}
