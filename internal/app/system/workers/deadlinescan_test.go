package workers_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/planboard/internal/app/system/workers"
	"github.com/dalemusser/planboard/internal/domain/models"
	"github.com/dalemusser/planboard/internal/testutil"
	"go.uber.org/zap"
)

// seedDeadlines creates one overdue task, one task due in two days, one due
// in five days, one completed overdue task and one overdue project.
func seedDeadlines(t *testing.T, env *testutil.Env) models.User {
	t.Helper()
	ctx := context.Background()
	u := env.SignedInUser(t)

	p := env.CreateProject(t, "Website")
	env.CreateTask(t, p.ID, "Write copy", models.TaskPending, -2)
	env.CreateTask(t, p.ID, "Review copy", models.TaskInProgress, 2)
	env.CreateTask(t, p.ID, "Launch", models.TaskPending, 5)
	env.CreateTask(t, p.ID, "Kickoff", models.TaskCompleted, -3)

	if _, err := env.Store.AddProject(ctx, models.Project{
		Name:      "Old migration",
		StartDate: env.Day(-40),
		EndDate:   env.Day(-1),
	}); err != nil {
		t.Fatalf("AddProject failed: %v", err)
	}
	return u
}

func TestDeadlineScan_ScanOnce(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	u := seedDeadlines(t, env)

	w := workers.NewDeadlineScan(env.Store, zap.NewNop(), time.Hour)
	if n := w.ScanOnce(ctx); n != 3 {
		t.Fatalf("first scan sent %d notifications, want 3", n)
	}

	list := env.Store.UserNotifications(ctx, u.ID)
	if len(list) != 3 {
		t.Fatalf("expected 3 notifications for user, got %d", len(list))
	}
	var titles []string
	for _, n := range list {
		titles = append(titles, n.Title)
	}
	joined := strings.Join(titles, "|")
	for _, want := range []string{"Task overdue", "Deadline approaching", "Project overdue"} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing notification %q in %q", want, joined)
		}
	}
	// Newest first: the project notification was added last.
	if list[0].Title != "Project overdue" || list[0].Type != models.NotifyWarning {
		t.Errorf("unexpected newest notification: %+v", list[0])
	}
}

func TestDeadlineScan_ThrottlesPerEntity(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	seedDeadlines(t, env)

	w := workers.NewDeadlineScan(env.Store, zap.NewNop(), time.Hour)
	w.ScanOnce(ctx)

	env.Clock.Advance(23 * time.Hour)
	if n := w.ScanOnce(ctx); n != 0 {
		t.Errorf("scan within 24h sent %d notifications, want 0", n)
	}

	env.Clock.Advance(2 * time.Hour)
	if n := w.ScanOnce(ctx); n != 3 {
		t.Errorf("scan after 24h sent %d notifications, want 3", n)
	}
}

func TestDeadlineScan_SkipsWhenSignedOut(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	seedDeadlines(t, env)
	env.Gate.Logout(ctx)

	w := workers.NewDeadlineScan(env.Store, zap.NewNop(), time.Hour)
	if n := w.ScanOnce(ctx); n != 0 {
		t.Errorf("anonymous scan sent %d notifications, want 0", n)
	}
}

func TestDeadlineScan_SkipsWhenDisabled(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	seedDeadlines(t, env)
	if _, err := env.Store.UpdateSetting(ctx, "notificationsEnabled", false); err != nil {
		t.Fatalf("UpdateSetting failed: %v", err)
	}

	w := workers.NewDeadlineScan(env.Store, zap.NewNop(), time.Hour)
	if n := w.ScanOnce(ctx); n != 0 {
		t.Errorf("disabled scan sent %d notifications, want 0", n)
	}
}

func TestDeadlineScan_StartRunsImmediately(t *testing.T) {
	env := testutil.NewEnv(t)
	u := seedDeadlines(t, env)

	w := workers.NewDeadlineScan(env.Store, zap.NewNop(), time.Hour)
	w.Start()
	w.Stop()

	if got := len(env.Store.UserNotifications(context.Background(), u.ID)); got != 3 {
		t.Errorf("expected the first scan to run on Start, got %d notifications", got)
	}
}

func TestDeadlineScan_OnlyNotifiesAboutOwnTasks(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	bob := env.CreateUser(t, "Bob", "bob@example.com", models.RoleUser)
	alice := env.CreateUser(t, "Alice", "alice@example.com", models.RoleUser)

	env.SignIn(t, bob)
	p := env.CreateProject(t, "Bob private")
	env.CreateTask(t, p.ID, "Bob secret", models.TaskPending, -1)
	if _, err := env.Store.AddTask(ctx, models.Task{
		Name:       "Shared review",
		ProjectID:  p.ID,
		AssignedTo: alice.ID,
		StartDate:  env.Day(-5),
		EndDate:    env.Day(-2),
	}); err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}

	w := workers.NewDeadlineScan(env.Store, zap.NewNop(), time.Hour)

	env.SignIn(t, alice)
	if n := w.ScanOnce(ctx); n != 1 {
		t.Fatalf("alice scan sent %d notifications, want 1", n)
	}
	for _, n := range env.Store.UserNotifications(ctx, alice.ID) {
		if strings.Contains(n.Message, "Bob secret") {
			t.Errorf("alice was told about a task outside her scope: %q", n.Message)
		}
	}

	env.SignIn(t, bob)
	if n := w.ScanOnce(ctx); n != 2 {
		t.Errorf("bob scan sent %d notifications, want 2 (his own and the shared task)", n)
	}
}

func TestDeadlineScan_StopTwice(t *testing.T) {
	env := testutil.NewEnv(t)
	w := workers.NewDeadlineScan(env.Store, zap.NewNop(), time.Hour)
	w.Start()
	w.Stop()
	w.Stop()
}
