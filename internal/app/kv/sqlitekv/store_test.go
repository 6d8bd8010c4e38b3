package sqlitekv_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dalemusser/planboard/internal/app/kv"
	"github.com/dalemusser/planboard/internal/app/kv/sqlitekv"
)

func openTestStore(t *testing.T) (*sqlitekv.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "planboard.db")
	s, err := sqlitekv.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestStore_WriteGet(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	err := s.Write(ctx, []kv.Entry{
		{Key: "pm_tasks", Value: []byte(`[]`)},
		{Key: "pm_projects", Value: []byte(`[{"id":"p1"}]`)},
	})
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	v, ok, err := s.Get(ctx, "pm_projects")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(v) != `[{"id":"p1"}]` {
		t.Errorf("got %s", v)
	}
}

func TestStore_GetMissing(t *testing.T) {
	s, _ := openTestStore(t)

	_, ok, err := s.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("expected missing key")
	}
}

func TestStore_Overwrite(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	_ = s.Write(ctx, []kv.Entry{{Key: "k", Value: []byte("1")}})
	_ = s.Write(ctx, []kv.Entry{{Key: "k", Value: []byte("2")}})

	v, _, _ := s.Get(ctx, "k")
	if string(v) != "2" {
		t.Errorf("got %s, want 2", v)
	}
}

func TestStore_DeleteIdempotent(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	_ = s.Write(ctx, []kv.Entry{{Key: "k", Value: []byte("1")}})
	for i := 0; i < 2; i++ {
		if err := s.Write(ctx, []kv.Entry{{Key: "k", Delete: true}}); err != nil {
			t.Fatalf("delete %d failed: %v", i, err)
		}
	}
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Error("expected key deleted")
	}
}

func TestStore_BatchMixesPutAndDelete(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	_ = s.Write(ctx, []kv.Entry{{Key: "old", Value: []byte("1")}})
	err := s.Write(ctx, []kv.Entry{
		{Key: "old", Delete: true},
		{Key: "new", Value: []byte("2")},
	})
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "old"); ok {
		t.Error("old should be deleted")
	}
	if _, ok, _ := s.Get(ctx, "new"); !ok {
		t.Error("new should exist")
	}
}

func TestStore_Keys(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	_ = s.Write(ctx, []kv.Entry{
		{Key: "pm_last_notification_a", Value: []byte(`"x"`)},
		{Key: "pm_last_notification_b", Value: []byte(`"x"`)},
		{Key: "pm_tasks", Value: []byte(`[]`)},
	})

	keys, err := s.Keys(ctx, "pm_last_notification_")
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if len(keys) != 2 || keys[0] != "pm_last_notification_a" {
		t.Errorf("got %v", keys)
	}
}

func TestStore_KeysNonASCIIPrefix(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	_ = s.Write(ctx, []kv.Entry{
		{Key: "plän_tasks", Value: []byte(`[]`)},
		{Key: "plän_users", Value: []byte(`[]`)},
		{Key: "plänb_tasks", Value: []byte(`[]`)},
		{Key: "pm_tasks", Value: []byte(`[]`)},
	})

	tests := []struct {
		prefix string
		want   []string
	}{
		{"plän_", []string{"plän_tasks", "plän_users"}},
		{"plän", []string{"plän_tasks", "plän_users", "plänb_tasks"}},
		{"日本_", nil},
		{"", []string{"plän_tasks", "plän_users", "plänb_tasks", "pm_tasks"}},
	}
	for _, tt := range tests {
		keys, err := s.Keys(ctx, tt.prefix)
		if err != nil {
			t.Fatalf("Keys(%q) failed: %v", tt.prefix, err)
		}
		if strings.Join(keys, ",") != strings.Join(tt.want, ",") {
			t.Errorf("Keys(%q) = %v, want %v", tt.prefix, keys, tt.want)
		}
	}
}

func TestStore_ReopenKeepsData(t *testing.T) {
	s, path := openTestStore(t)
	ctx := context.Background()

	_ = s.Write(ctx, []kv.Entry{{Key: "k", Value: []byte("1")}})
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := sqlitekv.Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	v, ok, _ := reopened.Get(ctx, "k")
	if !ok || string(v) != "1" {
		t.Errorf("after reopen got %s ok=%v", v, ok)
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := sqlitekv.Open(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestStore_WorksUnderAdapter(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()
	a := kv.NewAdapter(s, kv.DefaultPrefix, nil)

	tx := a.Begin()
	tx.Set(ctx, "projects", []string{"p1"})
	tx.Set(ctx, "tasks", []string{"t1"})
	if !tx.Commit(ctx) {
		t.Fatal("Commit failed")
	}

	var tasks []string
	if !a.Get(ctx, "tasks", &tasks) || len(tasks) != 1 {
		t.Errorf("got %v", tasks)
	}
}

func TestStore_BatchIsAtomic(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()
	_ = s.Write(ctx, []kv.Entry{{Key: "pm_projects", Value: []byte(`["p1"]`)}})

	// A nil value violates NOT NULL and must roll back the whole batch.
	err := s.Write(ctx, []kv.Entry{
		{Key: "pm_projects", Value: []byte(`[]`)},
		{Key: "pm_tasks", Value: nil},
	})
	if err == nil {
		t.Fatal("expected batch to fail")
	}

	v, _, _ := s.Get(ctx, "pm_projects")
	if string(v) != `["p1"]` {
		t.Errorf("projects = %s, want the value from before the failed batch", v)
	}
	if _, ok, _ := s.Get(ctx, "pm_tasks"); ok {
		t.Error("tasks should not exist after a rolled back batch")
	}
}

func TestStore_CanceledContext(t *testing.T) {
	s, _ := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Write(ctx, []kv.Entry{{Key: "k", Value: []byte("1")}}); err == nil {
		t.Error("Write with canceled context should fail")
	}
}
