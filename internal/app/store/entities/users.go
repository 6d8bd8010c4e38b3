// internal/app/store/entities/users.go
package entitystore

import (
	"context"
	"strings"

	"github.com/dalemusser/planboard/internal/app/system/normalize"
	"github.com/dalemusser/planboard/internal/domain/models"
)

// Users returns every user.
func (s *Store) Users(ctx context.Context) []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users.All(ctx, s.kv)
}

// SetUsers replaces the users collection.
func (s *Store) SetUsers(ctx context.Context, users []models.User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users.SetAll(ctx, s.kv, users)
}

// AddUser registers u. The email is normalized and must not belong to
// another user. ID, timestamps, role, and active flag are filled in.
func (s *Store) AddUser(ctx context.Context, u models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u.Email = normalize.Email(u.Email)
	u.Name = normalize.Name(u.Name)
	if _, taken := s.userByEmail(ctx, u.Email); taken {
		return models.User{}, ErrDuplicateEmail
	}

	now := s.now()
	if u.ID == "" {
		u.ID = s.newID()
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	u.CreatedAt = now
	u.UpdatedAt = now
	u.IsActive = true

	if !s.users.Add(ctx, s.kv, u) {
		return models.User{}, ErrNotSaved
	}
	return u, nil
}

// FindUserByID returns the user with id.
func (s *Store) FindUserByID(ctx context.Context, id string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users.FindByID(ctx, s.kv, id)
}

// FindUserByEmail looks a user up by email, ignoring case and surrounding space.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userByEmail(ctx, email)
}

func (s *Store) userByEmail(ctx context.Context, email string) (models.User, bool) {
	email = normalize.Email(email)
	if email == "" {
		return models.User{}, false
	}
	for _, u := range s.users.All(ctx, s.kv) {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return models.User{}, false
}

// UpdateUser merges upd into the user with id and stamps updatedAt.
// It reports false when the user does not exist, and ErrDuplicateEmail
// when the new email belongs to someone else.
func (s *Store) UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (models.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if upd.Email != nil {
		email := normalize.Email(*upd.Email)
		upd.Email = &email
		if other, taken := s.userByEmail(ctx, email); taken && other.ID != id {
			return models.User{}, false, ErrDuplicateEmail
		}
	}
	if upd.Name != nil {
		name := normalize.Name(*upd.Name)
		upd.Name = &name
	}

	u, ok := s.users.Update(ctx, s.kv, id, s.now(), upd.Apply)
	return u, ok, nil
}
