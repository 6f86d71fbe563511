package daemon_test

import (
	"context"
	"strings"
	"testing"

	"hawker/internal/daemon"
	"hawker/internal/offering"
	"hawker/internal/testsupport"
)

type noopHandler struct{ id string }

func (h noopHandler) ID() string          { return h.id }
func (h noopHandler) Description() string { return "no-op offering" }

func (noopHandler) Validate(offering.Request) offering.ValidationResult { return offering.Accept() }
func (noopHandler) QuotePrice(offering.Request) string                  { return "free while testing" }

func (noopHandler) Execute(context.Context, offering.Request) offering.ExecutionResult {
	return offering.ExecutionResult{Deliverable: "ok"}
}

func newDaemon(t *testing.T) *daemon.Daemon {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	catalog := offering.NewCatalog()
	if err := catalog.Register(noopHandler{id: "noop"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	d, err := daemon.New(cfg, catalog, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	return d
}

func TestStartStop(t *testing.T) {
	d := newDaemon(t)
	ctx := context.Background()

	if d.Status().Running {
		t.Fatal("daemon should not report running before start")
	}
	if err := d.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	status := d.Status()
	if !status.Running || status.Offerings != 1 {
		t.Fatalf("status = %+v", status)
	}
	if status.StartedAt.IsZero() {
		t.Fatal("startedAt should be set")
	}

	d.Stop()
	if d.Status().Running {
		t.Fatal("daemon should not report running after stop")
	}
}

func TestSecondInstanceRefused(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	catalog := offering.NewCatalog()
	if err := catalog.Register(noopHandler{id: "noop"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	first, err := daemon.New(cfg, catalog, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	second, err := daemon.New(cfg, catalog, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}

	ctx := context.Background()
	if err := first.Start(ctx); err != nil {
		t.Fatalf("first start: %v", err)
	}
	defer first.Stop()

	err = second.Start(ctx)
	if err == nil {
		second.Stop()
		t.Fatal("second instance should be refused while the lock is held")
	}
	if !strings.Contains(err.Error(), "already running") {
		t.Fatalf("err = %v", err)
	}
}

func TestOfferingInfos(t *testing.T) {
	d := newDaemon(t)
	infos := d.OfferingInfos()
	if len(infos) != 1 {
		t.Fatalf("infos = %+v", infos)
	}
	if infos[0].ID != "noop" || infos[0].Quote != "free while testing" {
		t.Fatalf("info = %+v", infos[0])
	}
}

func TestDispatchThroughDaemon(t *testing.T) {
	d := newDaemon(t)
	outcome := d.Dispatch(context.Background(), offering.Request{OfferingID: "noop"})
	if outcome.State != offering.StateCompleted {
		t.Fatalf("state = %s", outcome.State)
	}
	outcome = d.Quote(offering.Request{OfferingID: "noop"})
	if outcome.State != offering.StatePriced {
		t.Fatalf("quote state = %s", outcome.State)
	}
}
