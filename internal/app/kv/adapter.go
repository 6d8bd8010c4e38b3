package kv

import (
	"bytes"
	"context"
	"encoding/json"
	"reflect"
	"strings"

	"go.uber.org/zap"
)

// DefaultPrefix namespaces every logical key in the backend.
const DefaultPrefix = "pm_"

// Adapter is the failure-tolerant JSON layer over a Backend.
type Adapter struct {
	backend Backend
	prefix  string
	log     *zap.Logger
}

// NewAdapter wraps backend. An empty prefix stores keys as given.
func NewAdapter(backend Backend, prefix string, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{backend: backend, prefix: prefix, log: logger}
}

func (a *Adapter) physical(key string) string { return a.prefix + key }

// Get decodes the value stored under key into dst. It returns false, leaving
// dst untouched, when the key is absent, unreadable, or not valid JSON.
func (a *Adapter) Get(ctx context.Context, key string, dst any) bool {
	raw, ok, err := a.backend.Get(ctx, a.physical(key))
	if err != nil {
		a.log.Error("kv read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	return a.decode(key, raw, dst)
}

func (a *Adapter) decode(key string, raw []byte, dst any) bool {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return false
	}
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		a.log.Error("kv decode target must be a non-nil pointer", zap.String("key", key))
		return false
	}
	// Decode into a fresh value so a mismatched payload cannot leave dst half-written.
	fresh := reflect.New(rv.Elem().Type())
	if err := json.Unmarshal(raw, fresh.Interface()); err != nil {
		a.log.Warn("kv value is corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	rv.Elem().Set(fresh.Elem())
	return true
}

// Set stores value under key. It returns false if the value could not be
// serialized or written; the failure is logged.
func (a *Adapter) Set(ctx context.Context, key string, value any) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		a.log.Error("kv marshal failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := a.backend.Write(ctx, []Entry{{Key: a.physical(key), Value: raw}}); err != nil {
		a.log.Error("kv write failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Remove deletes key. Removing an absent key is a no-op.
func (a *Adapter) Remove(ctx context.Context, key string) {
	if err := a.backend.Write(ctx, []Entry{{Key: a.physical(key), Delete: true}}); err != nil {
		a.log.Error("kv remove failed", zap.String("key", key), zap.Error(err))
	}
}

// Keys lists logical keys beginning with prefix.
func (a *Adapter) Keys(ctx context.Context, prefix string) []string {
	keys, err := a.backend.Keys(ctx, a.physical(prefix))
	if err != nil {
		a.log.Error("kv keys failed", zap.String("prefix", prefix), zap.Error(err))
		return nil
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, strings.TrimPrefix(k, a.prefix))
	}
	return out
}

// Begin starts a unit of work whose writes become visible to other readers
// only on Commit.
func (a *Adapter) Begin() *Tx {
	return &Tx{adapter: a, staged: map[string]staged{}}
}

// Close closes the backend.
func (a *Adapter) Close() error {
	return a.backend.Close()
}
