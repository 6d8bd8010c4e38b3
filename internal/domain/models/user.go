// internal/domain/models/user.go
package models

import "time"

// User roles.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleUser   = "user"
	RoleViewer = "viewer"
)

// User is a registered account. Users are never hard-deleted.
//
// PasswordDigest holds a bcrypt digest; the plain password is never stored.
type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PasswordDigest string    `json:"passwordDigest"`
	Avatar         *string   `json:"avatar"`
	Role           string    `json:"role"` // admin | editor | user | viewer
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	IsActive       bool      `json:"isActive"`
}

// UserUpdate holds the profile fields that may change after registration.
// Nil fields are left untouched.
type UserUpdate struct {
	Name           *string
	Email          *string
	PasswordDigest *string
	Avatar         *string
	Role           *string
	IsActive       *bool
}

// Apply merges the non-nil fields of upd into u.
func (upd UserUpdate) Apply(u *User) {
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.PasswordDigest != nil {
		u.PasswordDigest = *upd.PasswordDigest
	}
	if upd.Avatar != nil {
		avatar := *upd.Avatar
		u.Avatar = &avatar
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.IsActive != nil {
		u.IsActive = *upd.IsActive
	}
}
