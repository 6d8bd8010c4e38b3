package kv_test

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestTx_ReadYourWrites(t *testing.T) {
	a, _ := newAdapter(t)
	ctx := context.Background()
	a.Set(ctx, "a", 1)

	tx := a.Begin()
	tx.Set(ctx, "a", 2)
	tx.Remove(ctx, "b")

	var n int
	if !tx.Get(ctx, "a", &n) || n != 2 {
		t.Fatalf("tx should see staged value, got %d", n)
	}
	if !a.Get(ctx, "a", &n) || n != 1 {
		t.Fatalf("adapter should still see committed value, got %d", n)
	}

	if !tx.Commit(ctx) {
		t.Fatal("Commit failed")
	}
	if !a.Get(ctx, "a", &n) || n != 2 {
		t.Errorf("after commit got %d, want 2", n)
	}
}

func TestTx_RemoveHidesValue(t *testing.T) {
	a, _ := newAdapter(t)
	ctx := context.Background()
	a.Set(ctx, "a", 1)

	tx := a.Begin()
	tx.Remove(ctx, "a")
	var n int
	if tx.Get(ctx, "a", &n) {
		t.Error("staged removal should hide value")
	}
	tx.Commit(ctx)
	if a.Get(ctx, "a", &n) {
		t.Error("value should be removed after commit")
	}
}

func TestTx_FailedStageWritesNothing(t *testing.T) {
	a, mem := newAdapter(t)
	ctx := context.Background()

	tx := a.Begin()
	tx.Set(ctx, "good", 1)
	tx.Set(ctx, "bad", math.Inf(1))

	if tx.Commit(ctx) {
		t.Fatal("expected Commit to fail")
	}
	if _, ok := mem.Raw("pm_good"); ok {
		t.Error("no key should be written after a staging failure")
	}
}

func TestTx_BackendFailure(t *testing.T) {
	a, mem := newAdapter(t)
	ctx := context.Background()
	mem.FailWrites = errors.New("disk full")

	tx := a.Begin()
	tx.Set(ctx, "a", 1)
	if tx.Commit(ctx) {
		t.Fatal("expected Commit to fail")
	}
}

func TestTx_Rollback(t *testing.T) {
	a, _ := newAdapter(t)
	ctx := context.Background()

	tx := a.Begin()
	tx.Set(ctx, "a", 1)
	tx.Rollback()
	if tx.Pending() != 0 {
		t.Errorf("Pending = %d after rollback", tx.Pending())
	}
	var n int
	if a.Get(ctx, "a", &n) {
		t.Error("rolled back value should not be visible")
	}
}
