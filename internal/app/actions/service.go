// Package actions holds the user-facing flows of planboard: signing in,
// editing projects and tasks, and managing team invitations.
//
// Every action validates its input with inputval, cleans free text with
// htmlsanitize, checks authz against the signed-in user, and only then
// touches the entity store. Validation failures are returned as
// *inputval.Result so callers can show each message.
package actions

import (
	"context"
	"errors"

	entitystore "github.com/dalemusser/planboard/internal/app/store/entities"
	"github.com/dalemusser/planboard/internal/app/system/auditlog"
	"github.com/dalemusser/planboard/internal/app/system/auth"
	"github.com/dalemusser/planboard/internal/app/system/htmlsanitize"
	"github.com/dalemusser/planboard/internal/app/system/ratelimit"
	"github.com/dalemusser/planboard/internal/app/system/session"
	"github.com/dalemusser/planboard/internal/domain/models"
	"go.uber.org/zap"
)

var (
	// ErrForbidden is returned when the signed-in user lacks the permission.
	ErrForbidden = errors.New("actions: not allowed")

	// ErrAccountDisabled is returned when an inactive user tries to sign in.
	ErrAccountDisabled = errors.New("actions: account is disabled")

	// ErrNotFound is returned when the target record does not exist.
	ErrNotFound = errors.New("actions: not found")

	// ErrTooManyAttempts is returned when sign-in is throttled. The wrapped
	// message is suitable for display.
	ErrTooManyAttempts = errors.New("actions: too many attempts")
)

// Service runs actions against one store and gate.
type Service struct {
	store   *entitystore.Store
	gate    *session.Gate
	hasher  auth.Hasher
	log     *zap.Logger
	audit   *auditlog.Logger
	limiter *ratelimit.LoginLimiter
}

// Option configures a Service.
type Option func(*Service)

// WithAudit replaces the default audit logger, which logs every category.
func WithAudit(a *auditlog.Logger) Option {
	return func(s *Service) { s.audit = a }
}

// WithLoginLimiter replaces the default sign-in throttle.
func WithLoginLimiter(l *ratelimit.LoginLimiter) Option {
	return func(s *Service) { s.limiter = l }
}

// New wires a Service.
func New(store *entitystore.Store, gate *session.Gate, hasher auth.Hasher, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{store: store, gate: gate, hasher: hasher, log: logger}
	for _, opt := range opts {
		opt(s)
	}
	if s.audit == nil {
		s.audit = auditlog.New(logger, auditlog.Config{})
	}
	if s.limiter == nil {
		s.limiter = ratelimit.NewLoginLimiter()
	}
	return s
}

// signedIn returns the acting user with their current stored record.
func (s *Service) signedIn(ctx context.Context) (models.User, error) {
	cur, ok := s.gate.Current()
	if !ok {
		return models.User{}, entitystore.ErrNotAuthenticated
	}
	if u, ok := s.store.FindUserByID(ctx, cur.ID); ok {
		return u, nil
	}
	return cur, nil
}

// Notify appends a notification for the signed-in user. Title and message
// are reduced to plain text.
func (s *Service) Notify(ctx context.Context, title, message, typ string) (models.Notification, error) {
	u, ok := s.gate.Current()
	if !ok {
		return models.Notification{}, entitystore.ErrNotAuthenticated
	}
	switch typ {
	case models.NotifyInfo, models.NotifySuccess, models.NotifyWarning, models.NotifyError:
	default:
		typ = models.NotifyInfo
	}
	return s.store.AddNotification(ctx, models.Notification{
		Title:   htmlsanitize.Text(title),
		Message: htmlsanitize.Text(message),
		Type:    typ,
		UserID:  u.ID,
	}), nil
}

// notify is Notify for internal confirmations; a missing user is not an error.
func (s *Service) notify(ctx context.Context, title, message string) {
	if _, err := s.Notify(ctx, title, message, models.NotifySuccess); err != nil {
		s.log.Debug("notification skipped", zap.String("title", title), zap.Error(err))
	}
}

func strPtr(s string) *string { return &s }
