// internal/app/system/authz/roles.go
package authz

import (
	"strings"

	"github.com/dalemusser/planboard/internal/domain/models"
)

// HasAnyRole reports whether role matches any of roles, ignoring case.
func HasAnyRole(role string, roles ...string) bool {
	cur := strings.ToLower(strings.TrimSpace(role))
	for _, want := range roles {
		if cur == strings.ToLower(strings.TrimSpace(want)) {
			return true
		}
	}
	return false
}

// ProjectAccess reports whether u holds perm on project p. The owner holds
// everything. Other users need either the account permission or an active
// team membership on p whose role grants it. Members are matched by email.
func ProjectAccess(u models.User, p models.Project, members []models.TeamMember, perm string) bool {
	if u.ID == "" {
		return false
	}
	if p.OwnerID == u.ID || HasPermission(u.Role, perm) {
		return true
	}
	for _, m := range members {
		if m.Status != models.MemberActive || !m.OnProject(p.ID) {
			continue
		}
		if strings.EqualFold(m.Email, u.Email) && MemberCan(m.Role, perm) {
			return true
		}
	}
	return false
}

// CanEditProject reports whether u may change project p.
func CanEditProject(u models.User, p models.Project, members []models.TeamMember) bool {
	return ProjectAccess(u, p, members, Edit)
}

// CanDeleteProject reports whether u may delete project p. Only the owner
// and holders of the admin permission may.
func CanDeleteProject(u models.User, p models.Project, members []models.TeamMember) bool {
	return ProjectAccess(u, p, members, Admin)
}

// CanEditTask reports whether u may change task t of project p. The task's
// creator and assignee may always edit it.
func CanEditTask(u models.User, t models.Task, p models.Project, members []models.TeamMember) bool {
	if u.ID != "" && (t.CreatedBy == u.ID || t.AssignedTo == u.ID) {
		return true
	}
	return ProjectAccess(u, p, members, Edit)
}

// CanDeleteTask reports whether u may delete task t of project p.
func CanDeleteTask(u models.User, t models.Task, p models.Project, members []models.TeamMember) bool {
	if u.ID != "" && t.CreatedBy == u.ID {
		return true
	}
	return ProjectAccess(u, p, members, Admin)
}

// CanManageTeam reports whether u may manage the team members of p.
func CanManageTeam(u models.User, p models.Project, members []models.TeamMember) bool {
	return ProjectAccess(u, p, members, Admin)
}
