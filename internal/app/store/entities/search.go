// internal/app/store/entities/search.go
package entitystore

import (
	"context"
	"strings"

	"github.com/dalemusser/planboard/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
)

// SearchProjects returns the projects visible to userID whose name or
// description contains query, ignoring case and accents. An empty query
// matches every visible project.
func (s *Store) SearchProjects(ctx context.Context, userID, query string) []models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := text.Fold(strings.TrimSpace(query))
	out := []models.Project{}
	for _, p := range s.userProjects(ctx, userID) {
		if matches(q, p.Name, p.Description) {
			out = append(out, p)
		}
	}
	return out
}

// SearchTasks is SearchProjects for the tasks assigned to or created by userID.
func (s *Store) SearchTasks(ctx context.Context, userID, query string) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := text.Fold(strings.TrimSpace(query))
	out := []models.Task{}
	for _, t := range s.userTasks(ctx, userID) {
		if matches(q, t.Name, t.Description) {
			out = append(out, t)
		}
	}
	return out
}

func matches(folded string, fields ...string) bool {
	if folded == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(text.Fold(f), folded) {
			return true
		}
	}
	return false
}
