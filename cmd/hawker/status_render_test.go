package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"hawker/internal/supervisor"
)

// testContext builds a command context bound to a config file whose paths all
// live under a per-test temp directory.
func testContext(t *testing.T) *commandContext {
	t.Helper()
	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf("[paths]\ndata_dir = %q\nlog_dir = %q\n",
		filepath.Join(base, "data"), filepath.Join(base, "logs"))
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return newCommandContext(&configPath)
}

func TestRenderStatusLinePlain(t *testing.T) {
	line := renderStatusLine("Daemon", statusOK, "Running (pid 42)", false)
	if !strings.HasPrefix(line, statusIndent+"Daemon:") {
		t.Fatalf("line = %q", line)
	}
	if !strings.Contains(line, "[OK] Running (pid 42)") {
		t.Fatalf("line = %q", line)
	}
	if strings.Contains(line, "\x1b[") {
		t.Fatalf("plain line must not carry ANSI codes: %q", line)
	}
}

func TestRenderStatusLineColorized(t *testing.T) {
	line := renderStatusLine("Daemon", statusWarn, "Not running", true)
	if !strings.HasPrefix(line, ansiYellow) || !strings.HasSuffix(line, ansiReset) {
		t.Fatalf("line = %q", line)
	}
}

func TestRenderStatusLineNoMessage(t *testing.T) {
	line := renderStatusLine("Daemon", statusError, "", false)
	if !strings.Contains(line, "[ERROR]") {
		t.Fatalf("line = %q", line)
	}
	if strings.Contains(line, "[ERROR] ") {
		t.Fatalf("no trailing message expected: %q", line)
	}
}

func TestRenderSectionHeader(t *testing.T) {
	lines := renderSectionHeader("Seller Status", false)
	if len(lines) != 2 {
		t.Fatalf("lines = %v", lines)
	}
	if lines[0] != "== Seller Status ==" {
		t.Fatalf("header = %q", lines[0])
	}
	if len(lines[1]) != len(lines[0]) {
		t.Fatalf("rule length %d != header length %d", len(lines[1]), len(lines[0]))
	}
}

func TestStatusKindLabels(t *testing.T) {
	tests := []struct {
		kind statusKind
		want string
	}{
		{statusInfo, "INFO"},
		{statusOK, "OK"},
		{statusWarn, "WARN"},
		{statusError, "ERROR"},
	}
	for _, tt := range tests {
		if got := statusKindLabel(tt.kind); got != tt.want {
			t.Fatalf("label(%d) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestStatusDocument(t *testing.T) {
	startedAt := time.Date(2026, 8, 3, 10, 0, 0, 0, time.UTC)
	ctx := testContext(t)
	doc := statusDocument(ctx, supervisor.StatusReport{
		Running:   true,
		PID:       42,
		StartedAt: startedAt,
		LogPath:   "/var/log/hawker.log",
	})
	if !doc.Running || doc.PID != 42 {
		t.Fatalf("doc = %+v", doc)
	}
	if doc.StartedAt != "2026-08-03T10:00:00Z" {
		t.Fatalf("startedAt = %q", doc.StartedAt)
	}
	if doc.LogPath != "/var/log/hawker.log" {
		t.Fatalf("logPath = %q", doc.LogPath)
	}
	if doc.Offerings == 0 {
		t.Fatal("local catalog should report its offerings")
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(&strings.Builder{}) {
		t.Fatal("non-file writers never colorize")
	}
}
