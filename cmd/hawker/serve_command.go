package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hawker/internal/daemon"
	"hawker/internal/ipc"
	"hawker/internal/logging"
)

// newServeCommand runs the daemon process itself. The supervisor spawns it
// detached with stdout and stderr redirected into the log file; the command
// line it produces carries the entrypoint marker used for process-table
// discovery.
func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:          "serve",
		Short:        "Run the hawker daemon (internal)",
		Hidden:       true,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemonProcess(cmd, ctx)
		},
	}
}

func runDaemonProcess(cmd *cobra.Command, ctx *commandContext) error {
	signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Stdout is the log file here; the supervisor redirected it at spawn.
	logger, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	catalog, err := buildCatalog(cfg, logger)
	if err != nil {
		return fmt.Errorf("build offering catalog: %w", err)
	}

	d, err := daemon.New(cfg, catalog, logger)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	if err := d.Start(signalCtx); err != nil {
		return err
	}
	defer d.Stop()

	ipcServer, err := ipc.NewServer(signalCtx, cfg.SocketPath(), d, logger)
	if err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	<-signalCtx.Done()
	logger.Info("hawker daemon shutting down")
	return nil
}
