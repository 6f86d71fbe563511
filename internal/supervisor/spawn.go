package supervisor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
)

// DetachedSpawner launches the hidden `serve` subcommand in its own session
// with stdout and stderr appended to the daemon log file. The child must
// outlive the spawning command; control returns without waiting on it.
type DetachedSpawner struct {
	Executable string
	ConfigPath string
}

// Spawn starts the daemon process and returns its pid.
func (d *DetachedSpawner) Spawn(logPath string) (int, error) {
	if strings.TrimSpace(d.Executable) == "" {
		return 0, fmt.Errorf("resolve executable: executable path is empty")
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	args := []string{"serve"}
	if cfg := strings.TrimSpace(d.ConfigPath); cfg != "" {
		args = append(args, "--config", cfg)
	}

	proc := exec.Command(d.Executable, args...)
	proc.Stdout = logFile
	proc.Stderr = logFile
	proc.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := proc.Start(); err != nil {
		return 0, fmt.Errorf("launch daemon: %w", err)
	}

	pid := proc.Process.Pid
	_ = proc.Process.Release()
	return pid, nil
}
