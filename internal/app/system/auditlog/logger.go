// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"

	"go.uber.org/zap"
)

// Categories.
const (
	CategoryAuth = "auth"
	CategoryWork = "work"
	CategoryTeam = "team"
	CategoryData = "data"
)

// Event types.
const (
	EventLoginSuccess   = "login_success"
	EventLoginFailed    = "login_failed"
	EventLogout         = "logout"
	EventUserRegistered = "user_registered"
	EventProjectDeleted = "project_deleted"
	EventTaskDeleted    = "task_deleted"
	EventMemberInvited  = "member_invited"
	EventInviteResolved = "invite_resolved"
	EventMemberRemoved  = "member_removed"
	EventDataImported   = "data_imported"
	EventDataCleared    = "data_cleared"
)

// Failure reasons for EventLoginFailed.
const (
	ReasonUnknownEmail  = "unknown_email"
	ReasonWrongPassword = "wrong_password"
	ReasonDisabled      = "account_disabled"
	ReasonRateLimited   = "rate_limited"
)

// Modes accepted per category.
const (
	ModeLog = "log"
	ModeOff = "off"
)

// Event is one audited occurrence.
type Event struct {
	Category      string
	EventType     string
	UserID        string
	ActorID       string
	Success       bool
	FailureReason string
	Details       map[string]string
}

// Config selects the mode per category. An empty value means ModeLog.
type Config struct {
	Auth string
	Work string
	Team string
	Data string
}

// Logger writes audit events as structured log lines.
// A nil *Logger is a no-op.
type Logger struct {
	zapLog *zap.Logger
	config Config
}

// New creates an audit Logger.
func New(zapLog *zap.Logger, config Config) *Logger {
	return &Logger{zapLog: zapLog, config: config}
}

func (l *Logger) mode(category string) string {
	var m string
	switch category {
	case CategoryAuth:
		m = l.config.Auth
	case CategoryWork:
		m = l.config.Work
	case CategoryTeam:
		m = l.config.Team
	case CategoryData:
		m = l.config.Data
	}
	if m == "" {
		return ModeLog
	}
	return m
}

// Log records event unless its category is off.
func (l *Logger) Log(_ context.Context, event Event) {
	if l == nil || l.mode(event.Category) == ModeOff {
		return
	}

	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
	}
	if event.UserID != "" {
		fields = append(fields, zap.String("user_id", event.UserID))
	}
	if event.ActorID != "" {
		fields = append(fields, zap.String("actor_id", event.ActorID))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// --- Authentication ---

// LoginSuccess logs a successful sign-in.
func (l *Logger) LoginSuccess(ctx context.Context, userID, email string) {
	l.Log(ctx, Event{
		Category:  CategoryAuth,
		EventType: EventLoginSuccess,
		UserID:    userID,
		Success:   true,
		Details:   map[string]string{"email": email},
	})
}

// LoginFailed logs a refused sign-in. userID is empty when the email is unknown.
func (l *Logger) LoginFailed(ctx context.Context, userID, email, reason string) {
	l.Log(ctx, Event{
		Category:      CategoryAuth,
		EventType:     EventLoginFailed,
		UserID:        userID,
		FailureReason: reason,
		Details:       map[string]string{"email": email},
	})
}

// Logout logs a sign-out.
func (l *Logger) Logout(ctx context.Context, userID string) {
	l.Log(ctx, Event{Category: CategoryAuth, EventType: EventLogout, UserID: userID, Success: true})
}

// UserRegistered logs a new account.
func (l *Logger) UserRegistered(ctx context.Context, userID, email string) {
	l.Log(ctx, Event{
		Category:  CategoryAuth,
		EventType: EventUserRegistered,
		UserID:    userID,
		Success:   true,
		Details:   map[string]string{"email": email},
	})
}

// --- Projects and tasks ---

// ProjectDeleted logs the removal of a project and its tasks.
func (l *Logger) ProjectDeleted(ctx context.Context, actorID, projectID, name string) {
	l.Log(ctx, Event{
		Category:  CategoryWork,
		EventType: EventProjectDeleted,
		ActorID:   actorID,
		Success:   true,
		Details:   map[string]string{"project_id": projectID, "name": name},
	})
}

// TaskDeleted logs the removal of a task.
func (l *Logger) TaskDeleted(ctx context.Context, actorID, taskID, projectID string) {
	l.Log(ctx, Event{
		Category:  CategoryWork,
		EventType: EventTaskDeleted,
		ActorID:   actorID,
		Success:   true,
		Details:   map[string]string{"task_id": taskID, "project_id": projectID},
	})
}

// --- Team ---

// MemberInvited logs a new invitation.
func (l *Logger) MemberInvited(ctx context.Context, actorID, memberID, email, role string) {
	l.Log(ctx, Event{
		Category:  CategoryTeam,
		EventType: EventMemberInvited,
		ActorID:   actorID,
		Success:   true,
		Details:   map[string]string{"member_id": memberID, "email": email, "role": role},
	})
}

// InviteResolved logs an accepted or declined invitation.
func (l *Logger) InviteResolved(ctx context.Context, inviteID, email string, accepted bool) {
	outcome := "declined"
	if accepted {
		outcome = "accepted"
	}
	l.Log(ctx, Event{
		Category:  CategoryTeam,
		EventType: EventInviteResolved,
		Success:   true,
		Details:   map[string]string{"invite_id": inviteID, "email": email, "outcome": outcome},
	})
}

// MemberRemoved logs a removed team member.
func (l *Logger) MemberRemoved(ctx context.Context, actorID, memberID, email string) {
	l.Log(ctx, Event{
		Category:  CategoryTeam,
		EventType: EventMemberRemoved,
		ActorID:   actorID,
		Success:   true,
		Details:   map[string]string{"member_id": memberID, "email": email},
	})
}

// --- Data ---

// DataImported logs a bulk import.
func (l *Logger) DataImported(ctx context.Context, source string) {
	l.Log(ctx, Event{
		Category:  CategoryData,
		EventType: EventDataImported,
		Success:   true,
		Details:   map[string]string{"source": source},
	})
}

// DataCleared logs a full reset.
func (l *Logger) DataCleared(ctx context.Context) {
	l.Log(ctx, Event{Category: CategoryData, EventType: EventDataCleared, Success: true})
}
