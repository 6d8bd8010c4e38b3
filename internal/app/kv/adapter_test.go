package kv_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/dalemusser/planboard/internal/app/kv"
	"go.uber.org/zap"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newAdapter(t *testing.T) (*kv.Adapter, *kv.Memory) {
	t.Helper()
	mem := kv.NewMemory()
	return kv.NewAdapter(mem, kv.DefaultPrefix, zap.NewNop()), mem
}

func TestAdapter_SetGet(t *testing.T) {
	a, mem := newAdapter(t)
	ctx := context.Background()

	if !a.Set(ctx, "thing", record{Name: "a", Count: 2}) {
		t.Fatal("Set failed")
	}
	if _, ok := mem.Raw("pm_thing"); !ok {
		t.Fatal("expected value under prefixed key")
	}

	var got record
	if !a.Get(ctx, "thing", &got) {
		t.Fatal("Get returned false")
	}
	if got.Name != "a" || got.Count != 2 {
		t.Errorf("got %+v", got)
	}
}

func TestAdapter_GetMissingKeepsDefault(t *testing.T) {
	a, _ := newAdapter(t)

	got := []string{"default"}
	if a.Get(context.Background(), "missing", &got) {
		t.Fatal("expected false for missing key")
	}
	if len(got) != 1 || got[0] != "default" {
		t.Errorf("default overwritten: %v", got)
	}
}

func TestAdapter_GetCorrupt(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "{oops"},
		{"wrong type", `{"name": 12}`},
		{"null", "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, mem := newAdapter(t)
			mem.PutRaw("pm_bad", []byte(tt.raw))

			got := record{Name: "keep"}
			if a.Get(context.Background(), "bad", &got) {
				t.Fatal("expected false for corrupt value")
			}
			if got.Name != "keep" {
				t.Errorf("dst modified: %+v", got)
			}
		})
	}
}

func TestAdapter_SetUnserializable(t *testing.T) {
	a, mem := newAdapter(t)

	if a.Set(context.Background(), "nan", math.NaN()) {
		t.Fatal("expected Set to report failure")
	}
	if _, ok := mem.Raw("pm_nan"); ok {
		t.Error("nothing should have been written")
	}
}

func TestAdapter_SetBackendFailure(t *testing.T) {
	a, mem := newAdapter(t)
	mem.FailWrites = errors.New("quota exceeded")

	if a.Set(context.Background(), "k", 1) {
		t.Fatal("expected Set to report failure")
	}
	// Remove must not panic or propagate.
	a.Remove(context.Background(), "k")
}

func TestAdapter_RemoveIdempotent(t *testing.T) {
	a, _ := newAdapter(t)
	ctx := context.Background()

	a.Set(ctx, "k", 1)
	a.Remove(ctx, "k")
	a.Remove(ctx, "k")

	var n int
	if a.Get(ctx, "k", &n) {
		t.Error("expected key to be gone")
	}
}

func TestAdapter_Keys(t *testing.T) {
	a, _ := newAdapter(t)
	ctx := context.Background()

	a.Set(ctx, "last_notification_overdue_task_1", "x")
	a.Set(ctx, "last_notification_overdue_task_2", "x")
	a.Set(ctx, "tasks", []int{})

	keys := a.Keys(ctx, "last_notification_")
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %v", keys)
	}
	if keys[0] != "last_notification_overdue_task_1" {
		t.Errorf("prefix not stripped: %q", keys[0])
	}
}
