package entitystore_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/dalemusser/planboard/internal/domain/models"
	"github.com/dalemusser/planboard/internal/testutil"
)

func ids[T any](items []T, idOf func(T) string) map[string]bool {
	out := map[string]bool{}
	for _, it := range items {
		out[idOf(it)] = true
	}
	return out
}

func TestGetUserProjectsScoping(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	alice := env.CreateUser(t, "Alice", "alice@example.com", models.RoleEditor)
	bob := env.CreateUser(t, "Bob", "bob@example.com", models.RoleUser)
	carol := env.CreateUser(t, "Carol", "carol@example.com", models.RoleUser)

	env.SignIn(t, alice)
	own := env.CreateProject(t, "Alice's")
	shared, _ := env.Store.AddProject(ctx, models.Project{Name: "Shared", TeamMembers: []string{bob.ID}})
	env.SignIn(t, carol)
	other := env.CreateProject(t, "Carol's")

	got := ids(env.Store.GetUserProjects(ctx, bob.ID), func(p models.Project) string { return p.ID })
	if len(got) != 1 || !got[shared.ID] {
		t.Errorf("bob sees %v, want only %s", got, shared.ID)
	}

	got = ids(env.Store.GetUserProjects(ctx, alice.ID), func(p models.Project) string { return p.ID })
	if len(got) != 2 || !got[own.ID] || !got[shared.ID] || got[other.ID] {
		t.Errorf("alice sees %v", got)
	}
}

func TestScopedQueriesEmptyWhenAnonymous(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	u := env.SignedInUser(t)
	p := env.CreateProject(t, "P")
	env.CreateTask(t, p.ID, "T", models.TaskPending, 1)
	env.Store.AddNotification(ctx, models.Notification{Title: "hi"})

	env.Gate.Logout(ctx)

	if got := env.Store.GetUserProjects(ctx, u.ID); len(got) != 0 {
		t.Errorf("anonymous GetUserProjects = %d, want 0", len(got))
	}
	if got := env.Store.GetUserTasks(ctx, u.ID); len(got) != 0 {
		t.Errorf("anonymous GetUserTasks = %d, want 0", len(got))
	}
	if got := env.Store.UserNotifications(ctx, u.ID); len(got) != 0 {
		t.Errorf("anonymous UserNotifications = %d, want 0", len(got))
	}
	if got := env.Store.GetOverdueProjects(ctx, u.ID); len(got) != 0 {
		t.Errorf("anonymous GetOverdueProjects = %d, want 0", len(got))
	}
}

func TestGetUserTasksScopingAndIdempotence(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	me := env.SignedInUser(t)
	helper := env.CreateUser(t, "Helper", "helper@example.com", models.RoleUser)
	p := env.CreateProject(t, "P")

	mine := env.CreateTask(t, p.ID, "mine", models.TaskPending, 2)
	delegated, _ := env.Store.AddTask(ctx, models.Task{Name: "delegated", ProjectID: p.ID, AssignedTo: helper.ID})

	// A task neither created by nor assigned to helper.
	env.CreateTask(t, p.ID, "not helper's", models.TaskPending, 2)

	got := ids(env.Store.GetUserTasks(ctx, helper.ID), func(t models.Task) string { return t.ID })
	if len(got) != 1 || !got[delegated.ID] {
		t.Errorf("helper sees %v, want only %s", got, delegated.ID)
	}
	got = ids(env.Store.GetUserTasks(ctx, me.ID), func(t models.Task) string { return t.ID })
	if !got[mine.ID] || !got[delegated.ID] || len(got) != 3 {
		t.Errorf("creator sees %v", got)
	}

	first := env.Store.GetUserTasks(ctx, me.ID)
	second := env.Store.GetUserTasks(ctx, me.ID)
	if !reflect.DeepEqual(first, second) {
		t.Error("GetUserTasks is not idempotent")
	}
}

func TestOverdueClassification(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	env.SignedInUser(t)
	p := env.CreateProject(t, "P")

	late := env.CreateTask(t, p.ID, "late", models.TaskPending, -1)
	dueToday := env.CreateTask(t, p.ID, "today", models.TaskInProgress, 0)
	lateDone := env.CreateTask(t, p.ID, "late but done", models.TaskCompleted, -1)

	overdue := ids(env.Store.GetOverdueTasks(ctx), func(t models.Task) string { return t.ID })
	if !overdue[late.ID] {
		t.Error("task ending yesterday should be overdue")
	}
	if overdue[dueToday.ID] {
		t.Error("task ending today is not overdue")
	}
	if overdue[lateDone.ID] {
		t.Error("completed task is never overdue")
	}

	// Stored status is unchanged by the classification.
	if got, _ := env.Store.FindTaskByID(ctx, late.ID); got.Status != models.TaskPending {
		t.Errorf("stored status changed to %q", got.Status)
	}
}

func TestUpcomingWindow(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	env.SignedInUser(t)
	p := env.CreateProject(t, "P")

	tests := []struct {
		name   string
		offset int
		status string
		want   bool
	}{
		{"today", 0, models.TaskPending, true},
		{"in a week", 7, models.TaskPending, true},
		{"in eight days", 8, models.TaskPending, false},
		{"yesterday", -1, models.TaskPending, false},
		{"done tomorrow", 1, models.TaskCompleted, false},
	}
	made := map[string]string{}
	for _, tt := range tests {
		made[tt.name] = env.CreateTask(t, p.ID, tt.name, tt.status, tt.offset).ID
	}

	upcoming := ids(env.Store.GetUpcomingTasks(ctx), func(t models.Task) string { return t.ID })
	for _, tt := range tests {
		if upcoming[made[tt.name]] != tt.want {
			t.Errorf("%s: upcoming = %v, want %v", tt.name, !tt.want, tt.want)
		}
	}
}

func TestOverdueProjects(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	me := env.SignedInUser(t)

	late, _ := env.Store.AddProject(ctx, models.Project{Name: "late", StartDate: env.Day(-20), EndDate: env.Day(-2)})
	env.CreateTask(t, late.ID, "open", models.TaskPending, -3)

	finished, _ := env.Store.AddProject(ctx, models.Project{Name: "finished", StartDate: env.Day(-20), EndDate: env.Day(-2)})
	env.CreateTask(t, finished.ID, "done", models.TaskCompleted, -3)

	env.CreateProject(t, "on time")

	got := env.Store.GetOverdueProjects(ctx, me.ID)
	if len(got) != 1 || got[0].ID != late.ID {
		t.Errorf("GetOverdueProjects = %+v, want only %s", got, late.ID)
	}
}

func TestProjectTeam(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	owner := env.SignedInUser(t)
	p := env.CreateProject(t, "P")
	other := env.CreateProject(t, "Other")

	env.Store.AddTeamMember(ctx, models.TeamMember{Email: "ed@example.com", Role: models.MemberEditor, Projects: []string{p.ID}})
	env.Store.AddTeamMember(ctx, models.TeamMember{Email: "elsewhere@example.com", Projects: []string{other.ID}})

	team, ok := env.Store.ProjectTeam(ctx, p.ID)
	if !ok {
		t.Fatal("ProjectTeam reported not found")
	}
	if len(team) != 2 {
		t.Fatalf("team size = %d, want 2", len(team))
	}
	if team[0].ID != owner.ID || team[0].Role != models.MemberOwner || team[0].Email != owner.Email {
		t.Errorf("first entry should be the owner, got %+v", team[0])
	}
	if team[1].Email != "ed@example.com" || team[1].Status != models.MemberPending {
		t.Errorf("second entry = %+v", team[1])
	}

	for _, m := range env.Store.Teams(ctx) {
		if m.Role == models.MemberOwner {
			t.Error("owner must never be stored in teams")
		}
	}
}

func TestSearchProjectsAndTasks(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	u := env.SignedInUser(t)

	site, _ := env.Store.AddProject(ctx, models.Project{Name: "Website Redesign", Description: "new landing page"})
	env.CreateProject(t, "Payroll")
	env.CreateTask(t, site.ID, "Draft LANDING copy", models.TaskPending, 3)
	env.CreateTask(t, site.ID, "Pick fonts", models.TaskPending, 3)

	if got := env.Store.SearchProjects(ctx, u.ID, "  redesign "); len(got) != 1 || got[0].ID != site.ID {
		t.Errorf("SearchProjects by name = %+v", got)
	}
	if got := env.Store.SearchProjects(ctx, u.ID, "Landing"); len(got) != 1 {
		t.Errorf("SearchProjects by description = %d results, want 1", len(got))
	}
	if got := env.Store.SearchProjects(ctx, u.ID, ""); len(got) != 2 {
		t.Errorf("empty query = %d results, want 2", len(got))
	}
	if got := env.Store.SearchTasks(ctx, u.ID, "landing"); len(got) != 1 || got[0].Name != "Draft LANDING copy" {
		t.Errorf("SearchTasks = %+v", got)
	}
	if got := env.Store.SearchTasks(ctx, u.ID, "nothing"); len(got) != 0 {
		t.Errorf("unmatched query = %d results", len(got))
	}
}
