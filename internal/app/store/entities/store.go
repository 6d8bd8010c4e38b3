// internal/app/store/entities/store.go
//
// Package entitystore owns every persisted collection of the planner:
// users, projects, tasks, team members, invites, notifications, and
// settings. It is the single writer of persisted state and keeps the
// derived fields (project progress, owner membership) consistent.
//
// Construct one Store at startup and pass it to every consumer.
package entitystore

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/dalemusser/planboard/internal/app/kv"
	"github.com/dalemusser/planboard/internal/app/store/collection"
	"github.com/dalemusser/planboard/internal/app/system/session"
	"github.com/dalemusser/planboard/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Logical keys.
const (
	KeyUsers         = "users"
	KeyCurrentUser   = session.Key
	KeyProjects      = "projects"
	KeyTasks         = "tasks"
	KeyTeams         = "teams"
	KeySettings      = "settings"
	KeyNotifications = "notifications"
	KeyInvites       = "team_invites"

	// StampPrefix begins every last_notification_<kind>_<entityId> key.
	StampPrefix = "last_notification_"
)

var (
	// ErrNotAuthenticated is returned by operations that need an acting user.
	ErrNotAuthenticated = errors.New("entitystore: no authenticated user")
	// ErrDuplicateEmail is returned when an email already belongs to another user.
	ErrDuplicateEmail = errors.New("entitystore: email already registered")
	// ErrNotSaved is returned when a change could not be persisted.
	ErrNotSaved = errors.New("entitystore: changes were not saved")

	ErrInviteNotFound = errors.New("entitystore: invite not found")
	ErrInviteUsed     = errors.New("entitystore: invite already used")
	ErrInviteExpired  = errors.New("entitystore: invite expired")

	// ErrUnknownSetting is returned by UpdateSetting for a key Settings does not have.
	ErrUnknownSetting = errors.New("entitystore: unknown setting")
)

// Identity reports the acting user. session.Gate implements it.
type Identity interface {
	Current() (models.User, bool)
}

// forgetter is implemented by identities that cache the persisted pointer
// and must drop it when the store is wiped.
type forgetter interface {
	Forget()
}

// Store is the entity store. All methods are safe for concurrent use; each
// call runs to completion before the next begins.
type Store struct {
	mu       sync.Mutex
	kv       *kv.Adapter
	identity Identity
	log      *zap.Logger

	now       func() time.Time
	loc       *time.Location
	newID     func() string
	pickColor func(n int) int

	users         collection.Collection[models.User]
	projects      collection.Collection[models.Project]
	tasks         collection.Collection[models.Task]
	teams         collection.Collection[models.TeamMember]
	invites       collection.Collection[models.Invite]
	notifications collection.Collection[models.Notification]
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLocation sets the zone used for calendar-day comparisons when the
// settings timezone is empty or unknown.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) { s.loc = loc }
}

// WithIDs sets the entity id generator.
func WithIDs(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithColorPicker sets how a new project's palette index is chosen.
func WithColorPicker(pick func(n int) int) Option {
	return func(s *Store) { s.pickColor = pick }
}

// New creates a store over adapter. identity scopes the "my X" queries and
// supplies the acting user for creates.
func New(adapter *kv.Adapter, identity Identity, logger *zap.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		kv:        adapter,
		identity:  identity,
		log:       logger,
		now:       func() time.Time { return time.Now().UTC() },
		loc:       time.UTC,
		newID:     uuid.NewString,
		pickColor: rand.IntN,

		users: collection.New(KeyUsers,
			func(u models.User) string { return u.ID },
			func(u *models.User, t time.Time) { u.UpdatedAt = t }),
		projects: collection.New(KeyProjects,
			func(p models.Project) string { return p.ID },
			func(p *models.Project, t time.Time) { p.UpdatedAt = t }),
		tasks: collection.New(KeyTasks,
			func(t models.Task) string { return t.ID },
			func(t *models.Task, at time.Time) { t.UpdatedAt = at }),
		teams: collection.New(KeyTeams,
			func(m models.TeamMember) string { return m.ID },
			func(m *models.TeamMember, t time.Time) { m.UpdatedAt = &t }),
		invites: collection.New(KeyInvites,
			func(i models.Invite) string { return i.ID }, nil),
		notifications: collection.New(KeyNotifications,
			func(n models.Notification) string { return n.ID }, nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init writes empty collections and default settings for any key that is
// missing, matching a first start.
func (s *Store) Init(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initLocked(ctx)
}

func (s *Store) initLocked(ctx context.Context) bool {
	tx := s.kv.Begin()
	var raw []any
	for _, key := range []string{KeyUsers, KeyProjects, KeyTasks, KeyTeams} {
		if !tx.Get(ctx, key, &raw) {
			tx.Set(ctx, key, []any{})
		}
	}
	var settings models.Settings
	if !tx.Get(ctx, KeySettings, &settings) {
		tx.Set(ctx, KeySettings, models.DefaultSettings())
	}
	return tx.Commit(ctx)
}

// actor returns the acting user.
func (s *Store) actor() (models.User, bool) {
	if s.identity == nil {
		return models.User{}, false
	}
	u, ok := s.identity.Current()
	if !ok || u.ID == "" {
		return models.User{}, false
	}
	return u, true
}

// CurrentUser returns the authenticated user, if any.
func (s *Store) CurrentUser() (models.User, bool) {
	return s.actor()
}

// unit is one mutation in progress. Writes are staged on tx; project ids
// whose progress may have changed are collected in stale and recomputed
// before the single commit.
type unit struct {
	tx    *kv.Tx
	stale map[string]struct{}
}

func (s *Store) begin() *unit {
	return &unit{tx: s.kv.Begin(), stale: map[string]struct{}{}}
}

// invalidate marks project progress for recomputation at commit.
func (u *unit) invalidate(projectIDs ...string) {
	for _, id := range projectIDs {
		if id != "" {
			u.stale[id] = struct{}{}
		}
	}
}

// commit recomputes every invalidated aggregate and persists all staged
// collections in one batch.
func (s *Store) commit(ctx context.Context, u *unit) bool {
	for id := range u.stale {
		s.recomputeProgress(ctx, u.tx, id)
	}
	if !u.tx.Commit(ctx) {
		s.log.Warn("entity store commit failed", zap.Int("stale_projects", len(u.stale)))
		return false
	}
	return true
}

// today is midnight of the current day in the settings timezone.
func (s *Store) today(ctx context.Context, r kv.Reader) time.Time {
	return startOfDay(s.now(), s.location(ctx, r))
}

// Today returns midnight of the current calendar day in the configured zone.
func (s *Store) Today(ctx context.Context) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.today(ctx, s.kv)
}

// Now returns the store clock.
func (s *Store) Now() time.Time { return s.now() }
