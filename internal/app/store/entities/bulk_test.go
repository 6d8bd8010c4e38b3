package entitystore_test

import (
	"context"
	"fmt"
	"slices"
	"testing"

	entitystore "github.com/dalemusser/planboard/internal/app/store/entities"
	"github.com/dalemusser/planboard/internal/domain/models"
	"github.com/dalemusser/planboard/internal/testutil"
)

func TestSetNotificationsTruncates(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"empty", 0, 0},
		{"under cap", 3, 3},
		{"at cap", models.MaxNotifications, models.MaxNotifications},
		{"over cap", models.MaxNotifications + 5, models.MaxNotifications},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := testutil.NewEnv(t)
			ctx := context.Background()

			list := make([]models.Notification, tt.in)
			for i := range list {
				list[i] = models.Notification{ID: fmt.Sprintf("n%d", i), Title: "t"}
			}
			if !env.Store.SetNotifications(ctx, list) {
				t.Fatal("SetNotifications failed")
			}
			got := env.Store.Notifications(ctx)
			if len(got) != tt.want {
				t.Fatalf("log size = %d, want %d", len(got), tt.want)
			}
			if tt.want > 0 && got[0].ID != "n0" {
				t.Errorf("the head of the list should be kept, got %q first", got[0].ID)
			}
		})
	}
}

func TestSetProjectsSideEffects(t *testing.T) {
	tests := []struct {
		name         string
		members      []string
		wantMembers  []string
		wantProgress int
	}{
		{"owner missing is re-added", []string{"u-2"}, []string{"owner", "u-2"}, 50},
		{"owner present is kept once", []string{"u-2", "owner"}, []string{"u-2", "owner"}, 50},
		{"no members", nil, []string{"owner"}, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := testutil.NewEnv(t)
			ctx := context.Background()
			env.SignedInUser(t)
			p := env.CreateProject(t, "P")
			env.CreateTask(t, p.ID, "a", models.TaskCompleted, 3)
			env.CreateTask(t, p.ID, "b", models.TaskPending, 3)

			stale := models.Project{
				ID:          p.ID,
				Name:        p.Name,
				OwnerID:     "owner",
				TeamMembers: tt.members,
				Progress:    7,
				StartDate:   p.StartDate,
				EndDate:     p.EndDate,
			}
			if !env.Store.SetProjects(ctx, []models.Project{stale}) {
				t.Fatal("SetProjects failed")
			}

			got, ok := env.Store.FindProjectByID(ctx, p.ID)
			if !ok {
				t.Fatal("project not found after SetProjects")
			}
			if !slices.Equal(got.TeamMembers, tt.wantMembers) {
				t.Errorf("TeamMembers = %v, want %v", got.TeamMembers, tt.wantMembers)
			}
			if got.Progress != tt.wantProgress {
				t.Errorf("Progress = %d, want %d (recomputed from tasks)", got.Progress, tt.wantProgress)
			}
		})
	}
}

func TestUserScopedDeadlines(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	bob := env.CreateUser(t, "Bob", "bob@example.com", models.RoleUser)
	alice := env.CreateUser(t, "Alice", "alice@example.com", models.RoleUser)

	env.SignIn(t, bob)
	p := env.CreateProject(t, "Bob private")
	late := env.CreateTask(t, p.ID, "late", models.TaskPending, -1)
	soon := env.CreateTask(t, p.ID, "soon", models.TaskPending, 2)

	if got := env.Store.GetUserOverdueTasks(ctx, bob.ID); len(got) != 1 || got[0].ID != late.ID {
		t.Errorf("bob overdue = %v, want [%s]", got, late.ID)
	}
	if got := env.Store.GetUserUpcomingTasks(ctx, bob.ID); len(got) != 1 || got[0].ID != soon.ID {
		t.Errorf("bob upcoming = %v, want [%s]", got, soon.ID)
	}
	if got := env.Store.GetUserOverdueTasks(ctx, alice.ID); len(got) != 0 {
		t.Errorf("alice should see no overdue tasks, got %v", got)
	}
	if got := env.Store.GetUserUpcomingTasks(ctx, alice.ID); len(got) != 0 {
		t.Errorf("alice should see no upcoming tasks, got %v", got)
	}
	if got := env.Store.GetOverdueTasks(ctx); len(got) != 1 {
		t.Errorf("unscoped overdue = %d tasks, want 1", len(got))
	}
}

func TestDeleteTaskRemovesRecipientStamps(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	me := env.SignedInUser(t)
	p := env.CreateProject(t, "P")
	task := env.CreateTask(t, p.ID, "T", models.TaskPending, -1)

	subject := entitystore.StampSubject(task.ID, me.ID)
	env.Store.SetNotificationStamp(ctx, entitystore.StampOverdueTask, subject, env.Clock.Now())

	if !env.Store.DeleteTask(ctx, task.ID) {
		t.Fatal("DeleteTask failed")
	}
	if _, ok := env.Store.NotificationStamp(ctx, entitystore.StampOverdueTask, subject); ok {
		t.Error("per-user stamp of a deleted task should be removed")
	}
}
