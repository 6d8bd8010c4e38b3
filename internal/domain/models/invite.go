package models

import "time"

// InviteTTL is how long an invitation link stays valid.
const InviteTTL = 7 * 24 * time.Hour

// Invite is a pending invitation link. It is consumed once.
type Invite struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	Projects     []string   `json:"projects"`
	InvitedBy    string     `json:"invitedBy"`
	CreatedAt    time.Time  `json:"createdAt"`
	ExpiresAt    time.Time  `json:"expiresAt"`
	Used         bool       `json:"used"`
	AcceptedAt   *time.Time `json:"acceptedAt,omitempty"`
	AcceptedName string     `json:"acceptedName,omitempty"`
}

// Expired reports whether the invite is past its expiry at now.
func (i Invite) Expired(now time.Time) bool {
	return i.ExpiresAt.Before(now)
}
