package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hawker/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Manage hawker configuration",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	initCmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ctx.configPath()
			if path == "" {
				def, err := config.DefaultConfigPath()
				if err != nil {
					return err
				}
				path = def
			}
			if err := config.WriteSample(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample config to %s\n", path)
			return nil
		},
	}

	pathCmd := &cobra.Command{
		Use:         "path",
		Short:       "Print the effective configuration file path",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, path, exists, err := config.Load(ctx.configPath())
			if err != nil {
				return err
			}
			suffix := " (not present, defaults in effect)"
			if exists {
				suffix = ""
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", path, suffix)
			return nil
		},
	}

	cmd.AddCommand(initCmd, pathCmd)
	return cmd
}
