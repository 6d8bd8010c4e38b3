// internal/app/store/entities/invites.go
package entitystore

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/dalemusser/planboard/internal/app/system/normalize"
	"github.com/dalemusser/planboard/internal/domain/models"
)

// inviteIDBytes yields a 32 character hex invite id.
const inviteIDBytes = 16

func newInviteID() (string, error) {
	b := make([]byte, inviteIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate invite id: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Invites returns every stored invitation link.
func (s *Store) Invites(ctx context.Context) []models.Invite {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invites.All(ctx, s.kv)
}

// AddInvite stores a new invitation link from the acting user, valid for
// models.InviteTTL.
func (s *Store) AddInvite(ctx context.Context, inv models.Invite) (models.Invite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inviter, ok := s.actor()
	if !ok {
		return models.Invite{}, ErrNotAuthenticated
	}
	id, err := newInviteID()
	if err != nil {
		return models.Invite{}, err
	}

	now := s.now()
	inv.ID = id
	inv.Email = normalize.Email(inv.Email)
	inv.Role = normalize.Role(inv.Role)
	if inv.Role == "" {
		inv.Role = models.MemberViewer
	}
	inv.Projects = normalize.IDs(inv.Projects)
	inv.InvitedBy = inviter.ID
	inv.CreatedAt = now
	inv.ExpiresAt = now.Add(models.InviteTTL)
	inv.Used = false
	inv.AcceptedAt = nil
	inv.AcceptedName = ""

	if !s.invites.Add(ctx, s.kv, inv) {
		return models.Invite{}, ErrNotSaved
	}
	return inv, nil
}

// FindInvite returns the invite with id.
func (s *Store) FindInvite(ctx context.Context, id string) (models.Invite, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invites.FindByID(ctx, s.kv, id)
}

// UpdateInvite applies mutate to the invite with id.
func (s *Store) UpdateInvite(ctx context.Context, id string, mutate func(*models.Invite)) (models.Invite, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invites.Update(ctx, s.kv, id, s.now(), mutate)
}

// CheckInvite reports why the invite with id cannot be used, or returns it.
func (s *Store) CheckInvite(ctx context.Context, id string) (models.Invite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usableInvite(ctx, id)
}

func (s *Store) usableInvite(ctx context.Context, id string) (models.Invite, error) {
	inv, ok := s.invites.FindByID(ctx, s.kv, id)
	switch {
	case !ok:
		return models.Invite{}, ErrInviteNotFound
	case inv.Used:
		return inv, ErrInviteUsed
	case inv.Expired(s.now()):
		return inv, ErrInviteExpired
	}
	return inv, nil
}

// ResolveInvite consumes the invite with id. Accepting marks the matching
// pending team member active; declining marks it declined. Both the invite
// and the member are committed together.
func (s *Store) ResolveInvite(ctx context.Context, id, name string, accept bool) (models.Invite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, err := s.usableInvite(ctx, id)
	if err != nil {
		return models.Invite{}, err
	}

	now := s.now()
	u := s.begin()
	inv, _ = s.invites.Update(ctx, u.tx, id, now, func(i *models.Invite) {
		i.Used = true
		if accept {
			i.AcceptedAt = &now
			i.AcceptedName = normalize.Name(name)
		}
	})

	status := models.MemberDeclined
	if accept {
		status = models.MemberActive
	}
	if m, ok := s.memberByEmail(s.teams.All(ctx, u.tx), inv.Email); ok && m.Status == models.MemberPending {
		s.teams.Update(ctx, u.tx, m.ID, now, func(m *models.TeamMember) { m.Status = status })
	}

	if !s.commit(ctx, u) {
		return models.Invite{}, ErrNotSaved
	}
	return inv, nil
}
