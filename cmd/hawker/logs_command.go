package main

import (
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"hawker/internal/logtail"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var follow bool
	var lines int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the daemon log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			stdout := cmd.OutOrStdout()
			logPath := cfg.LogPath()

			limit := lines
			if limit <= 0 {
				limit = cfg.Daemon.LogSnapshotLines
			}

			if !follow {
				snapshot, err := logtail.Snapshot(logPath, limit)
				switch {
				case errors.Is(err, logtail.ErrNoLogFile):
					fmt.Fprintln(stdout, "No log file found; start the daemon first")
					return nil
				case errors.Is(err, logtail.ErrEmptyLog):
					fmt.Fprintln(stdout, "Log is empty")
					return nil
				case err != nil:
					return err
				}
				fmt.Fprintln(stdout, strings.Join(snapshot, "\n"))
				return nil
			}

			// Follow blocks until interrupted; the tail resources are
			// released on both interrupt and stream error.
			followCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return logtail.Follow(followCtx, logPath, func(line string) error {
				_, err := fmt.Fprintln(stdout, line)
				return err
			})
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Stream appended log lines until interrupted")
	cmd.Flags().IntVar(&lines, "lines", 0, "Number of lines in snapshot mode (default from config)")
	return cmd
}
