// Package registry persists the daemon's last-known process id.
//
// The registry is a cache over the shared state store: discovery re-checks
// liveness on every call and treats the OS process table as the recovery path
// for missing or stale entries.
package registry

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"hawker/internal/statestore"
)

const (
	// PIDEntry is the state-store name holding the daemon pid.
	PIDEntry = "SELLER_PID"
	// StartedAtEntry is the state-store name holding the daemon start time.
	StartedAtEntry = "SELLER_STARTED_AT"
)

// Handle records one known daemon process. At most one handle is considered
// active at any time; uniqueness is enforced operationally, not by a lock.
type Handle struct {
	PID       int
	StartedAt time.Time
}

// Registry reads and writes the persisted daemon handle.
type Registry struct {
	store *statestore.Store
}

// New wraps the given state store.
func New(store *statestore.Store) *Registry {
	return &Registry{store: store}
}

// Load returns the recorded handle, or ok=false when none is recorded.
func (r *Registry) Load(ctx context.Context) (Handle, bool, error) {
	raw, err := r.store.Get(ctx, PIDEntry)
	if errors.Is(err, statestore.ErrNotFound) {
		return Handle{}, false, nil
	}
	if err != nil {
		return Handle{}, false, err
	}
	pid, err := strconv.Atoi(raw)
	if err != nil || pid <= 0 {
		// A corrupt entry is as good as none; discovery falls back to the
		// process-table scan.
		return Handle{}, false, nil
	}

	handle := Handle{PID: pid}
	if rawStarted, err := r.store.Get(ctx, StartedAtEntry); err == nil {
		if startedAt, parseErr := time.Parse(time.RFC3339, rawStarted); parseErr == nil {
			handle.StartedAt = startedAt
		}
	}
	return handle, true, nil
}

// Record persists the handle, replacing any previous one.
func (r *Registry) Record(ctx context.Context, handle Handle) error {
	if handle.PID <= 0 {
		return fmt.Errorf("record daemon handle: invalid pid %d", handle.PID)
	}
	if err := r.store.Set(ctx, PIDEntry, strconv.Itoa(handle.PID)); err != nil {
		return err
	}
	startedAt := handle.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}
	return r.store.Set(ctx, StartedAtEntry, startedAt.UTC().Format(time.RFC3339))
}

// Prune removes the recorded handle. Pruning an empty registry is a no-op.
func (r *Registry) Prune(ctx context.Context) error {
	if err := r.store.Remove(ctx, PIDEntry); err != nil {
		return err
	}
	return r.store.Remove(ctx, StartedAtEntry)
}
