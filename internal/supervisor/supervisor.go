package supervisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"hawker/internal/config"
	"hawker/internal/logging"
	"hawker/internal/procs"
	"hawker/internal/registry"
)

// EntrypointMarker is the stable command-line substring identifying the
// daemon entrypoint during process-table scans.
const EntrypointMarker = "hawker serve"

// Clock abstracts sleeping so tests can simulate elapsed time.
type Clock interface {
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// Spawner launches the detached daemon process and returns its pid.
type Spawner interface {
	Spawn(logPath string) (int, error)
}

// StartState classifies start outcomes.
type StartState string

const (
	StartStateStarted        StartState = "started"
	StartStateAlreadyRunning StartState = "already_running"
)

// StartResult captures start orchestration state.
type StartResult struct {
	State StartState
	PID   int
}

// StopState classifies stop outcomes.
type StopState string

const (
	StopStateStopped    StopState = "stopped"
	StopStateNotRunning StopState = "not_running"
)

// StopResult captures stop orchestration state.
type StopResult struct {
	State StopState
	PID   int
}

// StatusReport is the read-only daemon status.
type StatusReport struct {
	Running   bool
	PID       int
	StartedAt time.Time
	LogPath   string
}

// StopTimeoutError reports a daemon that outlived the graceful stop window.
type StopTimeoutError struct {
	PID    int
	Window time.Duration
}

func (e *StopTimeoutError) Error() string {
	return fmt.Sprintf("daemon (pid %d) still running after %s; force with `kill -9 %d`", e.PID, e.Window, e.PID)
}

// Supervisor coordinates start/stop/status against the registry and the OS.
type Supervisor struct {
	cfg      *config.Config
	registry *registry.Registry
	lister   procs.Lister
	signaler procs.Signaler
	spawner  Spawner
	clock    Clock
	logger   *slog.Logger
	selfPID  int

	// Advisory runs before a spawn; failures are logged and swallowed,
	// never blocking startup.
	Advisory func(context.Context) error
}

// Option customizes supervisor construction.
type Option func(*Supervisor)

// WithLister overrides the process-table lister.
func WithLister(l procs.Lister) Option { return func(s *Supervisor) { s.lister = l } }

// WithSignaler overrides the signal collaborator.
func WithSignaler(sig procs.Signaler) Option { return func(s *Supervisor) { s.signaler = sig } }

// WithClock overrides the poll clock.
func WithClock(c Clock) Option { return func(s *Supervisor) { s.clock = c } }

// WithSpawner overrides the daemon spawner.
func WithSpawner(sp Spawner) Option { return func(s *Supervisor) { s.spawner = sp } }

// WithSelfPID overrides the pid excluded from process-table scans.
func WithSelfPID(pid int) Option { return func(s *Supervisor) { s.selfPID = pid } }

// New constructs a supervisor with OS-backed collaborators by default.
func New(cfg *config.Config, reg *registry.Registry, logger *slog.Logger, opts ...Option) (*Supervisor, error) {
	if cfg == nil || reg == nil {
		return nil, errors.New("supervisor requires config and registry")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Supervisor{
		cfg:      cfg,
		registry: reg,
		lister:   procs.SystemLister{},
		signaler: procs.SystemSignaler{},
		clock:    realClock{},
		logger:   logger,
		selfPID:  os.Getpid(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.spawner == nil {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("resolve executable: %w", err)
		}
		s.spawner = &DetachedSpawner{Executable: exe}
	}
	return s, nil
}

// ActivePID resolves the currently running daemon pid, if any. A recorded pid
// that is no longer alive is pruned before falling back to the process-table
// scan.
func (s *Supervisor) ActivePID(ctx context.Context) (int, bool, error) {
	handle, ok, err := s.registry.Load(ctx)
	if err != nil {
		return 0, false, err
	}
	if ok {
		if s.signaler.Alive(handle.PID) {
			return handle.PID, true, nil
		}
		if err := s.registry.Prune(ctx); err != nil {
			s.logger.Warn("prune stale registry entry", logging.Error(err))
		}
	}

	pid, err := procs.FindByEntrypoint(s.lister, EntrypointMarker, s.selfPID)
	if err != nil {
		return 0, false, err
	}
	if pid > 0 {
		return pid, true, nil
	}
	return 0, false, nil
}

// Start ensures one daemon is running. It is idempotent: an already-running
// daemon is reported as such and nothing is spawned.
func (s *Supervisor) Start(ctx context.Context) (StartResult, error) {
	if pid, running, err := s.ActivePID(ctx); err != nil {
		return StartResult{}, err
	} else if running {
		return StartResult{State: StartStateAlreadyRunning, PID: pid}, nil
	}

	if s.Advisory != nil {
		if err := s.Advisory(ctx); err != nil {
			s.logger.Warn("startup advisory check", logging.Error(err))
		}
	}

	if err := os.MkdirAll(s.cfg.Paths.LogDir, 0o755); err != nil {
		return StartResult{}, fmt.Errorf("ensure log directory: %w", err)
	}

	pid, err := s.spawner.Spawn(s.cfg.LogPath())
	if err != nil {
		return StartResult{}, err
	}
	if pid <= 0 {
		return StartResult{}, fmt.Errorf("spawn daemon: no process id obtained")
	}

	// The registry is a cache; a failed write is recoverable through the
	// process-table scan, so it must not fail a successful spawn.
	if err := s.registry.Record(ctx, registry.Handle{PID: pid, StartedAt: time.Now()}); err != nil {
		s.logger.Warn("record daemon handle", logging.Error(err), logging.Int("pid", pid))
	}

	s.logger.Info("daemon started", logging.Int("pid", pid))
	return StartResult{State: StartStateStarted, PID: pid}, nil
}

// Stop terminates the running daemon gracefully. A daemon that does not exit
// within the poll window yields a StopTimeoutError with the registry left
// untouched; there is no automatic escalation to a stronger signal.
func (s *Supervisor) Stop(ctx context.Context) (StopResult, error) {
	pid, running, err := s.ActivePID(ctx)
	if err != nil {
		return StopResult{}, err
	}
	if !running {
		return StopResult{State: StopStateNotRunning}, nil
	}

	if err := s.signaler.Terminate(pid); err != nil {
		return StopResult{}, fmt.Errorf("send stop signal: %w", err)
	}

	interval := time.Duration(s.cfg.Daemon.StopPollInterval) * time.Millisecond
	attempts := s.cfg.Daemon.StopPollAttempts
	for i := 0; i < attempts; i++ {
		s.clock.Sleep(interval)
		if !s.signaler.Alive(pid) {
			if err := s.registry.Prune(ctx); err != nil {
				s.logger.Warn("prune registry after stop", logging.Error(err))
			}
			s.logger.Info("daemon stopped", logging.Int("pid", pid))
			return StopResult{State: StopStateStopped, PID: pid}, nil
		}
	}

	return StopResult{}, &StopTimeoutError{PID: pid, Window: time.Duration(attempts) * interval}
}

// Status reports whether a daemon is running. Its only side effect is the
// opportunistic stale-entry prune performed by discovery.
func (s *Supervisor) Status(ctx context.Context) (StatusReport, error) {
	pid, running, err := s.ActivePID(ctx)
	if err != nil {
		return StatusReport{}, err
	}
	report := StatusReport{Running: running, PID: pid, LogPath: s.cfg.LogPath()}
	if running {
		if handle, ok, loadErr := s.registry.Load(ctx); loadErr == nil && ok && handle.PID == pid {
			report.StartedAt = handle.StartedAt
		}
	}
	return report, nil
}
