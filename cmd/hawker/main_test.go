package main

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"hawker/internal/supervisor"
)

func TestExitCode(t *testing.T) {
	timeout := &supervisor.StopTimeoutError{PID: 42, Window: 2 * time.Second}
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "generic failure", err: errors.New("boom"), want: exitFailure},
		{name: "stop timeout", err: timeout, want: exitStopTimeout},
		{name: "wrapped stop timeout", err: fmt.Errorf("stop daemon: %w", timeout), want: exitStopTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Fatalf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
