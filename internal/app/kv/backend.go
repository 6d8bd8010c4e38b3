// Package kv is the key-value persistence layer underneath the entity store.
//
// A Backend moves raw bytes. The Adapter on top of it serializes values as
// JSON and never fails loudly: serialization and storage errors are logged
// and reported as a false return, so callers degrade to their defaults.
package kv

import "context"

// Entry is a single write in a batch. Delete entries ignore Value.
type Entry struct {
	Key    string
	Value  []byte
	Delete bool
}

// Backend is raw key-value storage.
//
// Write applies every entry or none of them when the underlying storage
// supports it. Deleting an absent key is not an error.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Write(ctx context.Context, entries []Entry) error
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

// Reader reads JSON values by logical key.
type Reader interface {
	Get(ctx context.Context, key string, dst any) bool
}

// Writer writes JSON values by logical key.
type Writer interface {
	Set(ctx context.Context, key string, value any) bool
	Remove(ctx context.Context, key string)
}

// ReadWriter is implemented by both Adapter (autocommit) and Tx (staged).
type ReadWriter interface {
	Reader
	Writer
}
