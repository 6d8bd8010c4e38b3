// internal/domain/models/task.go
package models

import (
	"slices"
	"time"
)

// Task statuses.
const (
	TaskPending    = "pending"
	TaskInProgress = "in-progress"
	TaskCompleted  = "completed"
)

// Task is a unit of work inside a project.
//
// Dependencies lists other task ids. They are advisory: the store records
// them but never blocks status changes on them.
type Task struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	ProjectID    string    `json:"projectId"`
	StartDate    string    `json:"startDate"` // YYYY-MM-DD
	EndDate      string    `json:"endDate"`   // YYYY-MM-DD
	Priority     string    `json:"priority"`
	Status       string    `json:"status"` // pending | in-progress | completed
	Progress     int       `json:"progress"`
	AssignedTo   string    `json:"assignedTo"`
	CreatedBy    string    `json:"createdBy"`
	Dependencies []string  `json:"dependencies"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Completed reports whether the task is done.
func (t Task) Completed() bool { return t.Status == TaskCompleted }

// TaskUpdate holds editable task fields. Nil fields are left untouched.
type TaskUpdate struct {
	Name         *string
	Description  *string
	ProjectID    *string
	StartDate    *string
	EndDate      *string
	Priority     *string
	Status       *string
	Progress     *int
	AssignedTo   *string
	Dependencies []string // nil leaves dependencies untouched
}

// Apply merges the non-nil fields of upd into t.
func (upd TaskUpdate) Apply(t *Task) {
	if upd.Name != nil {
		t.Name = *upd.Name
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	if upd.ProjectID != nil {
		t.ProjectID = *upd.ProjectID
	}
	if upd.StartDate != nil {
		t.StartDate = *upd.StartDate
	}
	if upd.EndDate != nil {
		t.EndDate = *upd.EndDate
	}
	if upd.Priority != nil {
		t.Priority = *upd.Priority
	}
	if upd.Status != nil {
		t.Status = *upd.Status
	}
	if upd.Progress != nil {
		t.Progress = *upd.Progress
	}
	if upd.AssignedTo != nil {
		t.AssignedTo = *upd.AssignedTo
	}
	if upd.Dependencies != nil {
		t.Dependencies = slices.Clone(upd.Dependencies)
	}
}
