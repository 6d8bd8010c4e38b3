// internal/app/system/session/gate.go
//
// Package session tracks who is signed in to this installation.
//
// The gate is either Anonymous or Authenticated(user). The authenticated
// user is persisted under the current_user key and restored on start
// without re-checking credentials. This is a local-trust model: anyone
// with access to the storage can edit the pointer, so it scopes queries
// but is not a security boundary.
package session

import (
	"context"
	"sync"

	"github.com/dalemusser/planboard/internal/app/kv"
	"github.com/dalemusser/planboard/internal/domain/models"
	"go.uber.org/zap"
)

// Key is the logical key of the persisted pointer.
const Key = "current_user"

// Gate holds the authenticated identity.
type Gate struct {
	mu   sync.RWMutex
	kv   kv.ReadWriter
	log  *zap.Logger
	user *models.User
}

// New returns an Anonymous gate persisting through rw.
func New(rw kv.ReadWriter, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{kv: rw, log: logger}
}

// Restore loads the persisted pointer. It reports whether the gate is now
// Authenticated.
func (g *Gate) Restore(ctx context.Context) bool {
	var u models.User
	ok := g.kv.Get(ctx, Key, &u) && u.ID != ""

	g.mu.Lock()
	defer g.mu.Unlock()
	if !ok {
		g.user = nil
		return false
	}
	g.user = &u
	g.log.Debug("session restored", zap.String("user_id", u.ID))
	return true
}

// Login moves the gate to Authenticated(u) and persists the pointer.
// The password digest is never written to the pointer.
func (g *Gate) Login(ctx context.Context, u models.User) bool {
	u.PasswordDigest = ""
	if !g.kv.Set(ctx, Key, u) {
		return false
	}
	g.mu.Lock()
	g.user = &u
	g.mu.Unlock()
	g.log.Info("user signed in", zap.String("user_id", u.ID))
	return true
}

// Refresh replaces the cached user after a profile change. It does nothing
// unless u is the authenticated user.
func (g *Gate) Refresh(ctx context.Context, u models.User) {
	g.mu.RLock()
	same := g.user != nil && g.user.ID == u.ID
	g.mu.RUnlock()
	if same {
		g.Login(ctx, u)
	}
}

// Logout moves the gate to Anonymous and removes the persisted pointer.
func (g *Gate) Logout(ctx context.Context) {
	g.kv.Remove(ctx, Key)
	g.mu.Lock()
	prev := g.user
	g.user = nil
	g.mu.Unlock()
	if prev != nil {
		g.log.Info("user signed out", zap.String("user_id", prev.ID))
	}
}

// Forget drops the cached identity without touching storage.
func (g *Gate) Forget() {
	g.mu.Lock()
	g.user = nil
	g.mu.Unlock()
}

// Current returns the authenticated user.
func (g *Gate) Current() (models.User, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.user == nil {
		return models.User{}, false
	}
	return *g.user, true
}

// Authenticated reports whether a user is signed in.
func (g *Gate) Authenticated() bool {
	_, ok := g.Current()
	return ok
}
