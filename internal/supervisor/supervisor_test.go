package supervisor_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hawker/internal/config"
	"hawker/internal/procs"
	"hawker/internal/registry"
	"hawker/internal/statestore"
	"hawker/internal/supervisor"
	"hawker/internal/testsupport"
)

type fakeLister struct {
	procs []procs.Process
	err   error
}

func (f *fakeLister) ListProcesses() ([]procs.Process, error) {
	return f.procs, f.err
}

type fakeSignaler struct {
	alive        map[int]bool
	terminated   []int
	terminateErr error

	// dieAfterPolls lets a terminated pid stay alive for N liveness probes
	// before reporting dead, simulating graceful shutdown latency.
	dieAfterPolls int
	polls         map[int]int
}

func newFakeSignaler(alivePIDs ...int) *fakeSignaler {
	alive := make(map[int]bool, len(alivePIDs))
	for _, pid := range alivePIDs {
		alive[pid] = true
	}
	return &fakeSignaler{alive: alive, polls: make(map[int]int)}
}

func (f *fakeSignaler) Terminate(pid int) error {
	if f.terminateErr != nil {
		return f.terminateErr
	}
	f.terminated = append(f.terminated, pid)
	return nil
}

func (f *fakeSignaler) Alive(pid int) bool {
	if len(f.terminated) > 0 && f.terminated[len(f.terminated)-1] == pid {
		f.polls[pid]++
		if f.polls[pid] > f.dieAfterPolls {
			f.alive[pid] = false
		}
	}
	return f.alive[pid]
}

type fakeSpawner struct {
	pid    int
	err    error
	spawns int
}

func (f *fakeSpawner) Spawn(logPath string) (int, error) {
	f.spawns++
	if f.err != nil {
		return 0, f.err
	}
	return f.pid, nil
}

type fakeClock struct{ slept []time.Duration }

func (f *fakeClock) Sleep(d time.Duration) { f.slept = append(f.slept, d) }

type fixture struct {
	sup      *supervisor.Supervisor
	store    *statestore.Store
	registry *registry.Registry
	lister   *fakeLister
	signaler *fakeSignaler
	spawner  *fakeSpawner
	clock    *fakeClock
	cfg      *config.Config
}

func newFixture(t *testing.T, signaler *fakeSignaler) *fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	reg := registry.New(store)
	lister := &fakeLister{}
	spawner := &fakeSpawner{pid: 4321}
	clock := &fakeClock{}

	sup, err := supervisor.New(cfg, reg, nil,
		supervisor.WithLister(lister),
		supervisor.WithSignaler(signaler),
		supervisor.WithSpawner(spawner),
		supervisor.WithClock(clock),
		supervisor.WithSelfPID(1),
	)
	if err != nil {
		t.Fatalf("new supervisor: %v", err)
	}
	return &fixture{
		sup:      sup,
		store:    store,
		registry: reg,
		lister:   lister,
		signaler: signaler,
		spawner:  spawner,
		clock:    clock,
		cfg:      cfg,
	}
}

func recordPID(t *testing.T, f *fixture, pid int) {
	t.Helper()
	if err := f.registry.Record(context.Background(), registry.Handle{PID: pid, StartedAt: time.Now()}); err != nil {
		t.Fatalf("record pid: %v", err)
	}
}

func registryHasEntry(t *testing.T, f *fixture) bool {
	t.Helper()
	_, ok, err := f.registry.Load(context.Background())
	if err != nil {
		t.Fatalf("load registry: %v", err)
	}
	return ok
}

func TestActivePIDNeverReturnsDeadProcess(t *testing.T) {
	f := newFixture(t, newFakeSignaler())
	recordPID(t, f, 999)

	pid, running, err := f.sup.ActivePID(context.Background())
	if err != nil {
		t.Fatalf("active pid: %v", err)
	}
	if running || pid != 0 {
		t.Fatalf("got pid=%d running=%v for dead process", pid, running)
	}
	if registryHasEntry(t, f) {
		t.Fatal("stale registry entry should have been pruned")
	}
}

func TestActivePIDScanFallback(t *testing.T) {
	f := newFixture(t, newFakeSignaler(777))
	f.lister.procs = []procs.Process{
		{PID: 10, CommandLine: "/sbin/init"},
		{PID: 777, CommandLine: "hawker serve"},
	}

	pid, running, err := f.sup.ActivePID(context.Background())
	if err != nil {
		t.Fatalf("active pid: %v", err)
	}
	if !running || pid != 777 {
		t.Fatalf("got pid=%d running=%v, want 777 via scan", pid, running)
	}
}

func TestStartSpawnsAndRecords(t *testing.T) {
	f := newFixture(t, newFakeSignaler())

	res, err := f.sup.Start(context.Background())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if res.State != supervisor.StartStateStarted || res.PID != 4321 {
		t.Fatalf("result = %+v", res)
	}
	if f.spawner.spawns != 1 {
		t.Fatalf("spawns = %d, want 1", f.spawner.spawns)
	}

	handle, ok, err := f.registry.Load(context.Background())
	if err != nil || !ok {
		t.Fatalf("registry after start: handle=%v ok=%v err=%v", handle, ok, err)
	}
	if handle.PID != 4321 {
		t.Fatalf("recorded pid = %d, want 4321", handle.PID)
	}
}

func TestStartIsIdempotent(t *testing.T) {
	f := newFixture(t, newFakeSignaler(4321))

	first, err := f.sup.Start(context.Background())
	if err != nil {
		t.Fatalf("first start: %v", err)
	}
	if first.State != supervisor.StartStateStarted {
		t.Fatalf("first start state = %s", first.State)
	}

	second, err := f.sup.Start(context.Background())
	if err != nil {
		t.Fatalf("second start: %v", err)
	}
	if second.State != supervisor.StartStateAlreadyRunning || second.PID != 4321 {
		t.Fatalf("second start = %+v, want already_running pid 4321", second)
	}
	if f.spawner.spawns != 1 {
		t.Fatalf("spawns = %d, want at most 1", f.spawner.spawns)
	}
}

func TestStartAdvisoryFailureDoesNotBlock(t *testing.T) {
	f := newFixture(t, newFakeSignaler())
	f.sup.Advisory = func(context.Context) error { return errors.New("catalog empty") }

	res, err := f.sup.Start(context.Background())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if res.State != supervisor.StartStateStarted {
		t.Fatalf("state = %s, want started despite advisory failure", res.State)
	}
}

func TestStartSpawnFailure(t *testing.T) {
	f := newFixture(t, newFakeSignaler())
	f.spawner.err = errors.New("exec format error")

	if _, err := f.sup.Start(context.Background()); err == nil {
		t.Fatal("expected spawn failure to surface")
	}
	if registryHasEntry(t, f) {
		t.Fatal("failed spawn must not record a pid")
	}
}

func TestStopNotRunningSendsNoSignal(t *testing.T) {
	f := newFixture(t, newFakeSignaler())

	res, err := f.sup.Stop(context.Background())
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if res.State != supervisor.StopStateNotRunning {
		t.Fatalf("state = %s, want not_running", res.State)
	}
	if len(f.signaler.terminated) != 0 {
		t.Fatalf("signals sent = %v, want none", f.signaler.terminated)
	}
}

func TestStopGracefulPrunesRegistry(t *testing.T) {
	signaler := newFakeSignaler(4321)
	signaler.dieAfterPolls = 2
	f := newFixture(t, signaler)
	recordPID(t, f, 4321)

	res, err := f.sup.Stop(context.Background())
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if res.State != supervisor.StopStateStopped || res.PID != 4321 {
		t.Fatalf("result = %+v", res)
	}
	if len(f.signaler.terminated) != 1 || f.signaler.terminated[0] != 4321 {
		t.Fatalf("terminated = %v, want [4321]", f.signaler.terminated)
	}
	if registryHasEntry(t, f) {
		t.Fatal("registry should be pruned after graceful stop")
	}
	if len(f.clock.slept) == 0 {
		t.Fatal("stop should poll through the injected clock")
	}
}

func TestStopTimeoutLeavesRegistry(t *testing.T) {
	signaler := newFakeSignaler(4321)
	signaler.dieAfterPolls = 1 << 30
	f := newFixture(t, signaler)
	recordPID(t, f, 4321)

	_, err := f.sup.Stop(context.Background())
	var timeoutErr *supervisor.StopTimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("err = %v, want StopTimeoutError", err)
	}
	if timeoutErr.PID != 4321 {
		t.Fatalf("timeout pid = %d, want 4321", timeoutErr.PID)
	}
	wantWindow := time.Duration(f.cfg.Daemon.StopPollAttempts) *
		time.Duration(f.cfg.Daemon.StopPollInterval) * time.Millisecond
	if timeoutErr.Window != wantWindow {
		t.Fatalf("window = %s, want %s", timeoutErr.Window, wantWindow)
	}
	if len(f.clock.slept) != f.cfg.Daemon.StopPollAttempts {
		t.Fatalf("polls = %d, want %d", len(f.clock.slept), f.cfg.Daemon.StopPollAttempts)
	}
	if !registryHasEntry(t, f) {
		t.Fatal("timeout must leave the registry untouched")
	}
}

func TestStopSignalFailureIsFatal(t *testing.T) {
	signaler := newFakeSignaler(4321)
	signaler.terminateErr = errors.New("operation not permitted")
	f := newFixture(t, signaler)
	recordPID(t, f, 4321)

	if _, err := f.sup.Stop(context.Background()); err == nil {
		t.Fatal("expected signal failure to surface")
	}
	if len(f.clock.slept) != 0 {
		t.Fatal("no polling should happen after a failed signal")
	}
	if !registryHasEntry(t, f) {
		t.Fatal("registry must be untouched after a failed signal")
	}
}

func TestStatusReportsRunningDaemon(t *testing.T) {
	startedAt := time.Date(2026, 8, 2, 9, 30, 0, 0, time.UTC)
	f := newFixture(t, newFakeSignaler(4321))
	if err := f.registry.Record(context.Background(), registry.Handle{PID: 4321, StartedAt: startedAt}); err != nil {
		t.Fatalf("record: %v", err)
	}

	report, err := f.sup.Status(context.Background())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !report.Running || report.PID != 4321 {
		t.Fatalf("report = %+v", report)
	}
	if !report.StartedAt.Equal(startedAt) {
		t.Fatalf("startedAt = %v, want %v", report.StartedAt, startedAt)
	}
	if report.LogPath != f.cfg.LogPath() {
		t.Fatalf("logPath = %q, want %q", report.LogPath, f.cfg.LogPath())
	}
}

func TestStatusNotRunning(t *testing.T) {
	f := newFixture(t, newFakeSignaler())

	report, err := f.sup.Status(context.Background())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if report.Running || report.PID != 0 {
		t.Fatalf("report = %+v, want not running", report)
	}
}
