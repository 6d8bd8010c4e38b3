// internal/app/actions/account.go
package actions

import (
	"context"
	"errors"
	"fmt"

	entitystore "github.com/dalemusser/planboard/internal/app/store/entities"
	"github.com/dalemusser/planboard/internal/app/system/auditlog"
	"github.com/dalemusser/planboard/internal/app/system/auth"
	"github.com/dalemusser/planboard/internal/app/system/authz"
	"github.com/dalemusser/planboard/internal/app/system/htmlsanitize"
	"github.com/dalemusser/planboard/internal/app/system/inputval"
	"github.com/dalemusser/planboard/internal/app/system/normalize"
	"github.com/dalemusser/planboard/internal/domain/models"
	"go.uber.org/zap"
)

// RegisterInput is the sign-up form.
type RegisterInput struct {
	Name            string `validate:"required,min=2,max=100" label:"Name"`
	Email           string `validate:"required,email" label:"Email address"`
	Password        string
	ConfirmPassword string
}

// LoginInput is the sign-in form.
type LoginInput struct {
	Email    string `validate:"required,email" label:"Email address"`
	Password string `validate:"required" label:"Password"`
}

// ProfileInput holds the editable profile fields.
type ProfileInput struct {
	Name   string `validate:"required,min=2,max=100" label:"Name"`
	Email  string `validate:"required,email" label:"Email address"`
	Avatar string `validate:"max=500" label:"Avatar"`
}

// Register creates an account with the user role and signs it in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	res := inputval.Validate(in)
	res.Merge(inputval.ValidatePassword(in.Password, in.ConfirmPassword))
	if res.HasErrors() {
		return models.User{}, res
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return models.User{}, err
	}
	u, err := s.store.AddUser(ctx, models.User{
		Name:           htmlsanitize.Text(in.Name),
		Email:          in.Email,
		PasswordDigest: digest,
		Role:           models.RoleUser,
	})
	if errors.Is(err, entitystore.ErrDuplicateEmail) {
		res.Add("Email", "An account with this email address already exists.")
		return models.User{}, res
	}
	if err != nil {
		return models.User{}, err
	}

	if !s.gate.Login(ctx, u) {
		return models.User{}, entitystore.ErrNotSaved
	}
	s.audit.UserRegistered(ctx, u.ID, u.Email)
	s.notify(ctx, "Account created", "Welcome to planboard")
	return u, nil
}

// Login checks the credentials and signs the user in. Unknown emails and
// wrong passwords both yield auth.ErrBadCredentials. Repeated attempts are
// throttled with ErrTooManyAttempts.
func (s *Service) Login(ctx context.Context, in LoginInput) (models.User, error) {
	if res := inputval.Validate(in); res.HasErrors() {
		return models.User{}, res
	}

	if ok, reason := s.limiter.Check(in.Email); !ok {
		s.audit.LoginFailed(ctx, "", in.Email, auditlog.ReasonRateLimited)
		return models.User{}, fmt.Errorf("%w: %s", ErrTooManyAttempts, reason)
	}

	u, ok := s.store.FindUserByEmail(ctx, in.Email)
	if !ok {
		s.audit.LoginFailed(ctx, "", in.Email, auditlog.ReasonUnknownEmail)
		return models.User{}, auth.ErrBadCredentials
	}
	if err := s.hasher.Check(u.PasswordDigest, in.Password); err != nil {
		s.audit.LoginFailed(ctx, u.ID, in.Email, auditlog.ReasonWrongPassword)
		return models.User{}, err
	}
	if !u.IsActive {
		s.audit.LoginFailed(ctx, u.ID, in.Email, auditlog.ReasonDisabled)
		return models.User{}, ErrAccountDisabled
	}

	if !s.gate.Login(ctx, u) {
		return models.User{}, entitystore.ErrNotSaved
	}
	s.limiter.ResetEmail(in.Email)
	s.audit.LoginSuccess(ctx, u.ID, u.Email)
	s.notify(ctx, "Signed in", "Welcome back, "+u.Name)
	return u, nil
}

// Logout signs the current user out.
func (s *Service) Logout(ctx context.Context) {
	if u, ok := s.gate.Current(); ok {
		s.audit.Logout(ctx, u.ID)
	}
	s.gate.Logout(ctx)
}

// UpdateProfile changes the signed-in user's name, email and avatar.
func (s *Service) UpdateProfile(ctx context.Context, in ProfileInput) (models.User, error) {
	cur, err := s.signedIn(ctx)
	if err != nil {
		return models.User{}, err
	}
	res := inputval.Validate(in)
	if res.HasErrors() {
		return models.User{}, res
	}

	upd := models.UserUpdate{
		Name:  strPtr(htmlsanitize.Text(in.Name)),
		Email: strPtr(in.Email),
	}
	if in.Avatar != "" {
		upd.Avatar = strPtr(htmlsanitize.Text(in.Avatar))
	}
	u, ok, err := s.store.UpdateUser(ctx, cur.ID, upd)
	if errors.Is(err, entitystore.ErrDuplicateEmail) {
		res.Add("Email", "An account with this email address already exists.")
		return models.User{}, res
	}
	if err != nil {
		return models.User{}, err
	}
	if !ok {
		return models.User{}, ErrNotFound
	}
	s.gate.Refresh(ctx, u)
	s.log.Info("profile updated", zap.String("user_id", u.ID))
	s.notify(ctx, "Profile updated", "Your profile changes were saved")
	return u, nil
}

// SetUserRole changes the account role of user id. Only admins may do it.
func (s *Service) SetUserRole(ctx context.Context, id, role string) (models.User, error) {
	cur, err := s.signedIn(ctx)
	if err != nil {
		return models.User{}, err
	}
	if !authz.HasAnyRole(cur.Role, models.RoleAdmin) {
		return models.User{}, ErrForbidden
	}
	role = normalize.Role(role)
	if !inputval.IsValidUserRole(role) {
		res := &inputval.Result{}
		res.Add("Role", "Role must be one of: admin, editor, user, viewer.")
		return models.User{}, res
	}

	u, ok, err := s.store.UpdateUser(ctx, id, models.UserUpdate{Role: &role})
	if err != nil {
		return models.User{}, err
	}
	if !ok {
		return models.User{}, ErrNotFound
	}
	if u.ID == cur.ID {
		s.gate.Refresh(ctx, u)
	}
	s.log.Info("user role changed", zap.String("user_id", u.ID), zap.String("role", role), zap.String("actor_id", cur.ID))
	s.notify(ctx, "Role updated", u.Name+" is now "+role)
	return u, nil
}
