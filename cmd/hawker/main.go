package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"hawker/internal/supervisor"
)

const (
	exitFailure     = 1
	exitStopTimeout = 2
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitCode(err))
	}
}

// exitCode maps a failed command to its process exit code. A stop timeout
// gets a distinct code: the daemon is still running and the operator must
// decide whether to escalate, which scripts can only do if they can tell this
// case apart from ordinary failures.
func exitCode(err error) int {
	var timeout *supervisor.StopTimeoutError
	if errors.As(err, &timeout) {
		return exitStopTimeout
	}
	return exitFailure
}
