// Package daemon coordinates the long-running hawker process.
//
// It wires the offering catalog and dispatcher into a single lifecycle with
// flock-based locking so a second daemon instance refuses to start even when
// the registry is stale. Individual offerings live in their own packages; the
// daemon focuses on startup, shutdown, and serving dispatch requests.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"hawker/internal/config"
	"hawker/internal/logging"
	"hawker/internal/offering"
)

// Daemon serves offering job requests and enforces single-instance execution.
type Daemon struct {
	cfg        *config.Config
	logger     *slog.Logger
	catalog    *offering.Catalog
	dispatcher *offering.Dispatcher

	lockPath string
	lock     *flock.Flock

	running   atomic.Bool
	startedAt time.Time
}

// Status represents daemon runtime information.
type Status struct {
	Running   bool
	PID       int
	StartedAt time.Time
	Offerings int
	LogPath   string
}

// OfferingInfo describes one catalog entry for status consumers.
type OfferingInfo struct {
	ID          string
	Description string
	Quote       string
}

// New constructs a daemon over the given catalog.
func New(cfg *config.Config, catalog *offering.Catalog, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || catalog == nil {
		return nil, errors.New("daemon requires config and catalog")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:        cfg,
		logger:     logger,
		catalog:    catalog,
		dispatcher: offering.NewDispatcher(catalog, logger),
		lockPath:   lockPath,
		lock:       flock.New(lockPath),
	}, nil
}

// Start acquires the single-instance lock and marks the daemon running.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another hawker daemon instance is already running")
	}

	d.startedAt = time.Now()
	d.running.Store(true)
	d.logger.Info("hawker daemon started",
		logging.Int("pid", os.Getpid()),
		logging.Int("offerings", d.catalog.Len()),
		logging.String("lock", d.lockPath))
	return nil
}

// Stop releases the lock and marks the daemon stopped.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("hawker daemon stopped")
}

// Status reports daemon runtime information.
func (d *Daemon) Status() Status {
	return Status{
		Running:   d.running.Load(),
		PID:       os.Getpid(),
		StartedAt: d.startedAt,
		Offerings: d.catalog.Len(),
		LogPath:   d.cfg.LogPath(),
	}
}

// OfferingInfos lists the catalog with an indicative quote per offering.
func (d *Daemon) OfferingInfos() []OfferingInfo {
	ids := d.catalog.IDs()
	infos := make([]OfferingInfo, 0, len(ids))
	for _, id := range ids {
		handler, ok := d.catalog.Resolve(id)
		if !ok {
			continue
		}
		infos = append(infos, OfferingInfo{
			ID:          id,
			Description: handler.Description(),
			Quote:       handler.QuotePrice(offering.Request{OfferingID: id}),
		})
	}
	return infos
}

// Dispatch runs one job request through the invocation protocol. Failures are
// data on the returned outcome; the daemon keeps serving other requests.
func (d *Daemon) Dispatch(ctx context.Context, req offering.Request) offering.Outcome {
	return d.dispatcher.Dispatch(ctx, req)
}

// Quote prices a job request without executing it.
func (d *Daemon) Quote(req offering.Request) offering.Outcome {
	return d.dispatcher.Quote(req)
}
