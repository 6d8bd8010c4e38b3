package kv

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-process Backend. It is used by tests and by the
// "memory" storage type.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
	// FailWrites makes every Write fail; tests use it to exercise the
	// adapter's failure handling.
	FailWrites error
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{data: map[string][]byte{}}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return bytes.Clone(v), true, nil
}

func (m *Memory) Write(ctx context.Context, entries []Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	for _, e := range entries {
		if e.Delete {
			delete(m.data, e.Key)
			continue
		}
		m.data[e.Key] = bytes.Clone(e.Value)
	}
	return nil
}

func (m *Memory) Keys(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Raw returns the stored bytes for a physical key.
func (m *Memory) Raw(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return bytes.Clone(v), ok
}

// PutRaw stores bytes directly, bypassing serialization.
func (m *Memory) PutRaw(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = bytes.Clone(value)
}

func (m *Memory) Close() error { return nil }
