// Package timeouts holds the deadlines applied to blocking storage work.
//
// Values start at the defaults below and may be replaced once at startup
// with Configure. All getters are safe for concurrent use.
//
//   - Connect: opening and pinging the storage backend
//   - Scan: one deadline scan pass
//   - Transfer: a full export or import
package timeouts

import (
	"context"
	"sync"
	"time"
)

const (
	DefaultConnect  = 10 * time.Second
	DefaultScan     = 30 * time.Second
	DefaultTransfer = 60 * time.Second
)

var mu sync.RWMutex

var (
	connect  = DefaultConnect
	scan     = DefaultScan
	transfer = DefaultTransfer
)

// Config holds timeout overrides. Zero fields keep the current value.
type Config struct {
	Connect  time.Duration
	Scan     time.Duration
	Transfer time.Duration
}

// Connect returns the timeout for opening the storage backend.
func Connect() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return connect
}

// Scan returns the timeout for a single deadline scan.
func Scan() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return scan
}

// Transfer returns the timeout for export and import.
func Transfer() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return transfer
}

// Configure applies the positive fields of cfg.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Connect > 0 {
		connect = cfg.Connect
	}
	if cfg.Scan > 0 {
		scan = cfg.Scan
	}
	if cfg.Transfer > 0 {
		transfer = cfg.Transfer
	}
}

// Reset restores the defaults. Intended for tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	connect = DefaultConnect
	scan = DefaultScan
	transfer = DefaultTransfer
}

// Current returns the timeouts in effect.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Config{Connect: connect, Scan: scan, Transfer: transfer}
}

// WithScan derives a context bounded by Scan.
func WithScan(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, Scan())
}

// WithTransfer derives a context bounded by Transfer.
func WithTransfer(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, Transfer())
}
