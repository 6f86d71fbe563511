package registry_test

import (
	"context"
	"testing"
	"time"

	"hawker/internal/registry"
	"hawker/internal/testsupport"
)

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	return registry.New(store)
}

func TestLoadEmpty(t *testing.T) {
	reg := newRegistry(t)
	_, ok, err := reg.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Fatal("expected no handle in fresh registry")
	}
}

func TestRecordLoadPrune(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()
	startedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	if err := reg.Record(ctx, registry.Handle{PID: 1234, StartedAt: startedAt}); err != nil {
		t.Fatalf("record: %v", err)
	}

	handle, ok, err := reg.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok || handle.PID != 1234 {
		t.Fatalf("handle = %+v ok=%v", handle, ok)
	}
	if !handle.StartedAt.Equal(startedAt) {
		t.Fatalf("startedAt = %v, want %v", handle.StartedAt, startedAt)
	}

	if err := reg.Prune(ctx); err != nil {
		t.Fatalf("prune: %v", err)
	}
	if _, ok, _ := reg.Load(ctx); ok {
		t.Fatal("expected empty registry after prune")
	}

	// Pruning an empty registry is a no-op.
	if err := reg.Prune(ctx); err != nil {
		t.Fatalf("prune empty: %v", err)
	}
}

func TestRecordRejectsInvalidPID(t *testing.T) {
	reg := newRegistry(t)
	if err := reg.Record(context.Background(), registry.Handle{PID: 0}); err == nil {
		t.Fatal("expected error for pid 0")
	}
}

func TestCorruptEntryTreatedAsMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	reg := registry.New(store)
	ctx := context.Background()

	if err := store.Set(ctx, registry.PIDEntry, "not-a-pid"); err != nil {
		t.Fatalf("seed corrupt entry: %v", err)
	}
	_, ok, err := reg.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Fatal("corrupt entry should read as no handle")
	}
}
