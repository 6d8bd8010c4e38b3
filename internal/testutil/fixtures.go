// Package testutil builds in-memory stores and seed data for tests.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/dalemusser/planboard/internal/app/kv"
	entitystore "github.com/dalemusser/planboard/internal/app/store/entities"
	"github.com/dalemusser/planboard/internal/app/system/dates"
	"github.com/dalemusser/planboard/internal/app/system/session"
	"github.com/dalemusser/planboard/internal/domain/models"
	"go.uber.org/zap"
)

// Clock is a settable time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock stopped at now.
func NewClock(now time.Time) *Clock { return &Clock{now: now} }

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to now.
func (c *Clock) Set(now time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// DefaultNow is where test clocks start: mid-morning UTC, which is
// already the afternoon in the default settings timezone.
var DefaultNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

// Env is a fully wired store over an in-memory backend.
type Env struct {
	Mem   *kv.Memory
	KV    *kv.Adapter
	Gate  *session.Gate
	Store *entitystore.Store
	Clock *Clock
}

// NewEnv builds an initialized store with sequential ids (id-1, id-2, ...)
// and a fixed clock. Extra options are applied last.
func NewEnv(t *testing.T, opts ...entitystore.Option) *Env {
	t.Helper()

	mem := kv.NewMemory()
	adapter := kv.NewAdapter(mem, kv.DefaultPrefix, zap.NewNop())
	gate := session.New(adapter, zap.NewNop())
	clock := NewClock(DefaultNow)

	var mu sync.Mutex
	next := 0
	base := []entitystore.Option{
		entitystore.WithClock(clock.Now),
		entitystore.WithIDs(func() string {
			mu.Lock()
			defer mu.Unlock()
			next++
			return fmt.Sprintf("id-%d", next)
		}),
		entitystore.WithColorPicker(func(int) int { return 0 }),
	}
	store := entitystore.New(adapter, gate, zap.NewNop(), append(base, opts...)...)
	if !store.Init(context.Background()) {
		t.Fatalf("store Init failed")
	}
	return &Env{Mem: mem, KV: adapter, Gate: gate, Store: store, Clock: clock}
}

// Today is the current calendar day of the env's store.
func (e *Env) Today() time.Time {
	return e.Store.Today(context.Background())
}

// Day formats today shifted by offset days as YYYY-MM-DD.
func (e *Env) Day(offset int) string {
	return dates.Format(e.Today().AddDate(0, 0, offset))
}

// CreateUser registers a user with the given role.
func (e *Env) CreateUser(t *testing.T, name, email, role string) models.User {
	t.Helper()
	u, err := e.Store.AddUser(context.Background(), models.User{Name: name, Email: email, Role: role})
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// SignIn authenticates u on the env's gate.
func (e *Env) SignIn(t *testing.T, u models.User) {
	t.Helper()
	if !e.Gate.Login(context.Background(), u) {
		t.Fatalf("failed to sign in test user %s", u.ID)
	}
}

// SignedInUser creates a user and signs them in.
func (e *Env) SignedInUser(t *testing.T) models.User {
	t.Helper()
	u := e.CreateUser(t, "Test Owner", "owner@example.com", models.RoleAdmin)
	e.SignIn(t, u)
	return u
}

// CreateProject adds a project owned by the signed-in user.
func (e *Env) CreateProject(t *testing.T, name string) models.Project {
	t.Helper()
	p, err := e.Store.AddProject(context.Background(), models.Project{
		Name:      name,
		StartDate: e.Day(-10),
		EndDate:   e.Day(30),
	})
	if err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}
	return p
}

// CreateTask adds a task to projectID with the given status and end date offset.
func (e *Env) CreateTask(t *testing.T, projectID, name, status string, endOffset int) models.Task {
	t.Helper()
	task, err := e.Store.AddTask(context.Background(), models.Task{
		Name:      name,
		ProjectID: projectID,
		Status:    status,
		StartDate: e.Day(endOffset - 5),
		EndDate:   e.Day(endOffset),
	})
	if err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}
	return task
}
