// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"sync"
	"time"

	"github.com/dalemusser/planboard/internal/app/system/normalize"
)

// Limiter counts events per key in fixed windows. It is safe for
// concurrent use. Expired windows are dropped lazily on access.
type Limiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int
	duration time.Duration
	now      func() time.Time
}

type window struct {
	count     int
	expiresAt time.Time
}

// New creates a limiter allowing limit events per duration.
func New(limit int, duration time.Duration) *Limiter {
	return NewWithClock(limit, duration, time.Now)
}

// NewWithClock is New with an injectable clock.
func NewWithClock(limit int, duration time.Duration, now func() time.Time) *Limiter {
	return &Limiter{
		windows:  make(map[string]*window),
		limit:    limit,
		duration: duration,
		now:      now,
	}
}

// Allow records an event for key and reports whether it is within the limit.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	w, ok := l.windows[key]
	if !ok {
		l.windows[key] = &window{count: 1, expiresAt: now.Add(l.duration)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// Reset clears the window for key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

func (l *Limiter) prune(now time.Time) {
	for k, w := range l.windows {
		if now.After(w.expiresAt) {
			delete(l.windows, k)
		}
	}
}

// Messages returned by LoginLimiter.Check.
const (
	MsgTooManyAttempts        = "Too many sign-in attempts. Please wait a minute before trying again."
	MsgTooManyAccountAttempts = "Too many sign-in attempts for this account. Please wait a few minutes."
)

const allKey = "*"

// LoginLimiter throttles sign-in attempts in two tiers: all attempts on
// this installation, and attempts against a single email address.
type LoginLimiter struct {
	overall *Limiter
	email   *Limiter
}

// NewLoginLimiter allows 20 attempts per minute overall and 5 attempts per
// email per 5 minutes.
func NewLoginLimiter() *LoginLimiter {
	return NewLoginLimiterWithConfig(20, time.Minute, 5, 5*time.Minute, time.Now)
}

// NewLoginLimiterWithConfig creates a login limiter with custom limits.
func NewLoginLimiterWithConfig(overallLimit int, overallWindow time.Duration, emailLimit int, emailWindow time.Duration, now func() time.Time) *LoginLimiter {
	return &LoginLimiter{
		overall: NewWithClock(overallLimit, overallWindow, now),
		email:   NewWithClock(emailLimit, emailWindow, now),
	}
}

// Check records an attempt for email. It returns false with a user-facing
// reason when the attempt should be refused.
func (ll *LoginLimiter) Check(email string) (bool, string) {
	if !ll.overall.Allow(allKey) {
		return false, MsgTooManyAttempts
	}
	if key := normalize.Email(email); key != "" {
		if !ll.email.Allow(key) {
			return false, MsgTooManyAccountAttempts
		}
	}
	return true, ""
}

// ResetEmail clears the per-account window after a successful sign-in.
func (ll *LoginLimiter) ResetEmail(email string) {
	if key := normalize.Email(email); key != "" {
		ll.email.Reset(key)
	}
}
