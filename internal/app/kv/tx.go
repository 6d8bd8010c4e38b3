package kv

import (
	"context"
	"encoding/json"
	"sort"

	"go.uber.org/zap"
)

type staged struct {
	value   []byte
	deleted bool
}

// Tx stages writes and commits them in a single backend batch.
// Reads through a Tx see its own staged writes first.
//
// A Tx is not safe for concurrent use.
type Tx struct {
	adapter *Adapter
	staged  map[string]staged
	failed  bool
	done    bool
}

// Get reads key, preferring a value staged in this Tx.
func (tx *Tx) Get(ctx context.Context, key string, dst any) bool {
	if s, ok := tx.staged[key]; ok {
		if s.deleted {
			return false
		}
		return tx.adapter.decode(key, s.value, dst)
	}
	return tx.adapter.Get(ctx, key, dst)
}

// Set stages value under key. A value that cannot be serialized marks the
// Tx as failed; Commit will then write nothing.
func (tx *Tx) Set(_ context.Context, key string, value any) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		tx.adapter.log.Error("kv marshal failed", zap.String("key", key), zap.Error(err))
		tx.failed = true
		return false
	}
	tx.staged[key] = staged{value: raw}
	return true
}

// Remove stages a deletion of key.
func (tx *Tx) Remove(_ context.Context, key string) {
	tx.staged[key] = staged{deleted: true}
}

// Pending reports the number of staged keys.
func (tx *Tx) Pending() int { return len(tx.staged) }

// Commit writes every staged key in one batch. It returns false, and leaves
// the backend untouched where the backend is transactional, if any staged
// write failed or the batch could not be applied.
func (tx *Tx) Commit(ctx context.Context) bool {
	if tx.done {
		return !tx.failed
	}
	tx.done = true
	if tx.failed {
		tx.adapter.log.Warn("kv commit skipped after staging failure")
		return false
	}
	if len(tx.staged) == 0 {
		return true
	}

	keys := make([]string, 0, len(tx.staged))
	for k := range tx.staged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]Entry, 0, len(keys))
	for _, k := range keys {
		s := tx.staged[k]
		entries = append(entries, Entry{Key: tx.adapter.physical(k), Value: s.value, Delete: s.deleted})
	}
	if err := tx.adapter.backend.Write(ctx, entries); err != nil {
		tx.adapter.log.Error("kv commit failed", zap.Strings("keys", keys), zap.Error(err))
		tx.failed = true
		return false
	}
	return true
}

// Rollback discards staged writes.
func (tx *Tx) Rollback() {
	tx.done = true
	tx.staged = map[string]staged{}
}
