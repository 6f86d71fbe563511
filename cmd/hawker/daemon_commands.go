package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"hawker/internal/supervisor"
)

func newDaemonCommands(ctx *commandContext) []*cobra.Command {
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start the hawker daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			logger := ctx.commandLogger()
			return ctx.withSupervisor(logger, func(sup *supervisor.Supervisor) error {
				sup.Advisory = func(advCtx context.Context) error {
					catalog, err := buildCatalog(ctx.configValue(), logger)
					if err != nil {
						return err
					}
					if catalog.Len() == 0 {
						return errors.New("no offerings registered")
					}
					return nil
				}

				result, err := sup.Start(cmd.Context())
				if err != nil {
					return err
				}
				switch result.State {
				case supervisor.StartStateAlreadyRunning:
					fmt.Fprintf(stdout, "Daemon already running (pid %d)\n", result.PID)
				case supervisor.StartStateStarted:
					fmt.Fprintf(stdout, "Daemon started (pid %d)\n", result.PID)
				}
				return nil
			})
		},
	}

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the hawker daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			return ctx.withSupervisor(ctx.commandLogger(), func(sup *supervisor.Supervisor) error {
				result, err := sup.Stop(cmd.Context())
				if err != nil {
					return err
				}
				switch result.State {
				case supervisor.StopStateNotRunning:
					fmt.Fprintln(stdout, "Daemon is not running")
				case supervisor.StopStateStopped:
					fmt.Fprintf(stdout, "Daemon stopped (pid %d)\n", result.PID)
				}
				return nil
			})
		},
	}

	var statusJSON bool
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSupervisor(ctx.commandLogger(), func(sup *supervisor.Supervisor) error {
				report, err := sup.Status(cmd.Context())
				if err != nil {
					return err
				}
				if statusJSON {
					return writeJSON(cmd, statusDocument(ctx, report))
				}
				renderStatus(cmd.OutOrStdout(), ctx, report)
				return nil
			})
		},
	}
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Emit status as JSON")

	return []*cobra.Command{startCmd, stopCmd, statusCmd}
}
