// internal/app/system/inputval/validators.go
package inputval

import (
	"strings"

	"github.com/dalemusser/planboard/internal/app/system/dates"
	"github.com/dalemusser/planboard/internal/domain/models"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

// ValidatePassword checks length and that the password mixes a letter and a digit.
func ValidatePassword(password, confirm string) *Result {
	res := &Result{}
	if len(password) < MinPasswordLength {
		res.Add("Password", "Password must be at least 6 characters.")
	}
	if !strings.ContainsFunc(password, isLetter) {
		res.Add("Password", "Password must contain at least one letter.")
	}
	if !strings.ContainsAny(password, "0123456789") {
		res.Add("Password", "Password must contain at least one digit.")
	}
	if password != confirm {
		res.Add("ConfirmPassword", "Password and confirmation do not match.")
	}
	return res
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// ValidateDateRange checks that both days parse and start is not after end.
// Missing values are reported by the required rule, not here.
func ValidateDateRange(start, end string) *Result {
	res := &Result{}
	s, okS := dates.Parse(start, nil)
	e, okE := dates.Parse(end, nil)
	if okS && okE && s.After(e) {
		res.Add("EndDate", "End date must not be before the start date.")
	}
	return res
}

// ValidateWithinProject checks that a task's days fall inside its project's range.
func ValidateWithinProject(start, end string, p models.Project) *Result {
	res := &Result{}
	ts, ok1 := dates.Parse(start, nil)
	te, ok2 := dates.Parse(end, nil)
	ps, ok3 := dates.Parse(p.StartDate, nil)
	pe, ok4 := dates.Parse(p.EndDate, nil)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return res
	}
	if ts.Before(ps) || te.After(pe) {
		res.Add("StartDate", "Task dates must fall within the project's dates.")
	}
	return res
}

// ValidateDependencies checks a task's dependency list against the known
// tasks: every id must exist, a task cannot depend on itself, and the new
// edges must not close a cycle. taskID is empty for a task not yet created.
func ValidateDependencies(taskID string, deps []string, tasks []models.Task) *Result {
	res := &Result{}
	graph := make(map[string][]string, len(tasks))
	for _, t := range tasks {
		graph[t.ID] = t.Dependencies
	}

	for _, d := range deps {
		if d == taskID && taskID != "" {
			res.Add("Dependencies", "A task cannot depend on itself.")
			continue
		}
		if _, ok := graph[d]; !ok {
			res.Add("Dependencies", "Dependency "+d+" does not exist.")
		}
	}
	if res.HasErrors() || taskID == "" {
		return res
	}

	graph[taskID] = deps
	if reaches(graph, deps, taskID) {
		res.Add("Dependencies", "These dependencies would create a cycle.")
	}
	return res
}

// reaches reports whether target is reachable from any of start.
func reaches(graph map[string][]string, start []string, target string) bool {
	seen := map[string]bool{}
	stack := append([]string(nil), start...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == target {
			return true
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		stack = append(stack, graph[n]...)
	}
	return false
}

// IsValidUserRole reports whether role is an account role.
func IsValidUserRole(role string) bool {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case models.RoleAdmin, models.RoleEditor, models.RoleUser, models.RoleViewer:
		return true
	}
	return false
}

// IsValidMemberRole reports whether role can be given to an invited member.
// The owner role is implicit and cannot be assigned.
func IsValidMemberRole(role string) bool {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case models.MemberAdmin, models.MemberEditor, models.MemberViewer:
		return true
	}
	return false
}
