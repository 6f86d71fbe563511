package procs

import (
	"errors"
	"fmt"
	"strings"

	gopsproc "github.com/shirou/gopsutil/v4/process"
	"golang.org/x/sys/unix"
)

// Process is one process-table record.
type Process struct {
	PID         int
	CommandLine string
}

// Lister enumerates the OS process table.
type Lister interface {
	ListProcesses() ([]Process, error)
}

// Signaler sends signals to processes and probes liveness.
type Signaler interface {
	Terminate(pid int) error
	Alive(pid int) bool
}

// SystemLister enumerates processes via gopsutil.
type SystemLister struct{}

// ListProcesses returns every visible process with its command line.
// Processes whose command line cannot be read (already exited, permission
// denied) are skipped rather than failing the whole scan.
func (SystemLister) ListProcesses() ([]Process, error) {
	procs, err := gopsproc.Processes()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}
	out := make([]Process, 0, len(procs))
	for _, p := range procs {
		cmdline, err := p.Cmdline()
		if err != nil || cmdline == "" {
			continue
		}
		out = append(out, Process{PID: int(p.Pid), CommandLine: cmdline})
	}
	return out, nil
}

// SystemSignaler signals processes via kill(2).
type SystemSignaler struct{}

// Terminate sends SIGTERM to pid.
func (SystemSignaler) Terminate(pid int) error {
	if err := unix.Kill(pid, unix.SIGTERM); err != nil {
		return fmt.Errorf("signal pid %d: %w", pid, err)
	}
	return nil
}

// Alive reports whether pid refers to a live process. Signal 0 performs the
// existence check; EPERM still means the process exists.
func (SystemSignaler) Alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := unix.Kill(pid, 0)
	if err == nil {
		return true
	}
	return errors.Is(err, unix.EPERM)
}

// MatchesEntrypoint reports whether the command line identifies the daemon
// entrypoint marker, ignoring the caller's own pid.
func MatchesEntrypoint(proc Process, marker string, selfPID int) bool {
	marker = strings.TrimSpace(marker)
	if marker == "" || proc.PID == selfPID {
		return false
	}
	return strings.Contains(proc.CommandLine, marker)
}

// FindByEntrypoint scans the process table for the first process matching the
// entrypoint marker, excluding selfPID. It returns 0 when none match.
func FindByEntrypoint(lister Lister, marker string, selfPID int) (int, error) {
	procs, err := lister.ListProcesses()
	if err != nil {
		return 0, err
	}
	for _, proc := range procs {
		if MatchesEntrypoint(proc, marker, selfPID) {
			return proc.PID, nil
		}
	}
	return 0, nil
}
