// internal/domain/models/teammember.go
package models

import (
	"slices"
	"time"
)

// Team roles. MemberOwner is implicit: the project owner is never stored
// in the teams collection.
const (
	MemberOwner  = "owner"
	MemberAdmin  = "admin"
	MemberEditor = "editor"
	MemberViewer = "viewer"
)

// Team member statuses.
const (
	MemberPending  = "pending"
	MemberActive   = "active"
	MemberDeclined = "declined"
)

// TeamMember is an invited collaborator and the projects they were invited to.
type TeamMember struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Projects  []string   `json:"projects"`
	InvitedBy string     `json:"invitedBy"`
	InvitedAt time.Time  `json:"invitedAt"`
	Status    string     `json:"status"` // pending | active | declined
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// OnProject reports whether the member was invited to projectID.
func (m TeamMember) OnProject(projectID string) bool {
	return slices.Contains(m.Projects, projectID)
}

// TeamMemberUpdate holds the fields editable after an invitation.
type TeamMemberUpdate struct {
	Role     *string
	Projects []string
	Status   *string
}

// Apply merges the non-nil fields of upd into m.
func (upd TeamMemberUpdate) Apply(m *TeamMember) {
	if upd.Role != nil {
		m.Role = *upd.Role
	}
	if upd.Projects != nil {
		m.Projects = slices.Clone(upd.Projects)
	}
	if upd.Status != nil {
		m.Status = *upd.Status
	}
}
