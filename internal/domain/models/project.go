// internal/domain/models/project.go
package models

import (
	"slices"
	"time"
)

// Project priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// ProjectStatusActive is the status given to new projects.
const ProjectStatusActive = "active"

// ProjectColors is the palette new projects draw their color from.
var ProjectColors = []string{
	"#3b82f6", "#ef4444", "#10b981", "#f59e0b",
	"#8b5cf6", "#ec4899", "#06b6d4", "#84cc16",
}

// Project groups tasks under an owner and a set of team members.
//
// Progress is derived from the project's tasks and is only written by the
// entity store. OwnerID is always contained in TeamMembers.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartDate   string    `json:"startDate"` // YYYY-MM-DD
	EndDate     string    `json:"endDate"`   // YYYY-MM-DD
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	Progress    int       `json:"progress"` // 0..100
	OwnerID     string    `json:"ownerId"`
	TeamMembers []string  `json:"teamMembers"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Color       string    `json:"color"`
}

// HasMember reports whether userID owns the project or is one of its team members.
func (p Project) HasMember(userID string) bool {
	return p.OwnerID == userID || slices.Contains(p.TeamMembers, userID)
}

// EnsureOwnerMember re-establishes OwnerID ∈ TeamMembers.
func (p *Project) EnsureOwnerMember() {
	if p.OwnerID == "" || slices.Contains(p.TeamMembers, p.OwnerID) {
		return
	}
	p.TeamMembers = append([]string{p.OwnerID}, p.TeamMembers...)
}

// ProjectUpdate holds editable project fields. Progress is intentionally absent.
type ProjectUpdate struct {
	Name        *string
	Description *string
	StartDate   *string
	EndDate     *string
	Priority    *string
	Status      *string
	OwnerID     *string
	TeamMembers []string // nil leaves members untouched
	Color       *string
}

// Apply merges the non-nil fields of upd into p.
func (upd ProjectUpdate) Apply(p *Project) {
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.StartDate != nil {
		p.StartDate = *upd.StartDate
	}
	if upd.EndDate != nil {
		p.EndDate = *upd.EndDate
	}
	if upd.Priority != nil {
		p.Priority = *upd.Priority
	}
	if upd.Status != nil {
		p.Status = *upd.Status
	}
	if upd.OwnerID != nil {
		p.OwnerID = *upd.OwnerID
	}
	if upd.TeamMembers != nil {
		p.TeamMembers = slices.Clone(upd.TeamMembers)
	}
	if upd.Color != nil {
		p.Color = *upd.Color
	}
	p.EnsureOwnerMember()
}
