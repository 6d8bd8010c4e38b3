// internal/app/store/collection/collection.go
//
// Package collection persists a slice of entities under one logical key and
// provides the by-id operations shared by every entity collection.
package collection

import (
	"context"
	"slices"
	"time"

	"github.com/dalemusser/planboard/internal/app/kv"
)

// Collection describes how entities of type T are keyed and stamped.
// It holds no state; every call reads through the given kv.Reader, so the
// same Collection works against the adapter or an open kv.Tx.
type Collection[T any] struct {
	key   string
	idOf  func(T) string
	touch func(*T, time.Time)
}

// New returns a collection stored under key. touch may be nil for
// entities without an updated-at stamp.
func New[T any](key string, idOf func(T) string, touch func(*T, time.Time)) Collection[T] {
	return Collection[T]{key: key, idOf: idOf, touch: touch}
}

// Key is the logical kv key.
func (c Collection[T]) Key() string { return c.key }

// All returns every stored entity, or an empty slice when the key is absent
// or unreadable.
func (c Collection[T]) All(ctx context.Context, r kv.Reader) []T {
	var items []T
	if !r.Get(ctx, c.key, &items) || items == nil {
		return []T{}
	}
	return items
}

// SetAll replaces the whole collection.
func (c Collection[T]) SetAll(ctx context.Context, w kv.Writer, items []T) bool {
	if items == nil {
		items = []T{}
	}
	return w.Set(ctx, c.key, items)
}

// FindByID returns the entity with id, or false.
func (c Collection[T]) FindByID(ctx context.Context, r kv.Reader, id string) (T, bool) {
	for _, item := range c.All(ctx, r) {
		if c.idOf(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Add appends item.
func (c Collection[T]) Add(ctx context.Context, rw kv.ReadWriter, item T) bool {
	items := append(c.All(ctx, rw), item)
	return c.SetAll(ctx, rw, items)
}

// Update applies mutate to the entity with id and stamps it with now.
// It returns the updated entity, or false when id is absent.
func (c Collection[T]) Update(ctx context.Context, rw kv.ReadWriter, id string, now time.Time, mutate func(*T)) (T, bool) {
	items := c.All(ctx, rw)
	i := slices.IndexFunc(items, func(item T) bool { return c.idOf(item) == id })
	if i < 0 {
		var zero T
		return zero, false
	}
	mutate(&items[i])
	if c.touch != nil {
		c.touch(&items[i], now)
	}
	c.SetAll(ctx, rw, items)
	return items[i], true
}

// Delete removes the entity with id and reports whether it existed.
func (c Collection[T]) Delete(ctx context.Context, rw kv.ReadWriter, id string) bool {
	items := c.All(ctx, rw)
	kept := slices.DeleteFunc(slices.Clone(items), func(item T) bool { return c.idOf(item) == id })
	if len(kept) == len(items) {
		return false
	}
	c.SetAll(ctx, rw, kept)
	return true
}

// Filter returns the entities for which keep reports true.
func (c Collection[T]) Filter(ctx context.Context, r kv.Reader, keep func(T) bool) []T {
	out := []T{}
	for _, item := range c.All(ctx, r) {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
