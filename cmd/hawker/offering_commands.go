package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"hawker/internal/ipc"
	"hawker/internal/offering"
)

func newOfferingsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "offerings",
		Short: "List the sellable offerings",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := buildCatalog(ctx.configValue(), ctx.commandLogger())
			if err != nil {
				return err
			}

			entries := make([]catalogEntry, 0, catalog.Len())
			for _, id := range catalog.IDs() {
				handler, ok := catalog.Resolve(id)
				if !ok {
					continue
				}
				entries = append(entries, catalogEntry{
					ID:          id,
					Description: handler.Description(),
					Quote:       handler.QuotePrice(offering.Request{OfferingID: id}),
				})
			}

			if asJSON {
				return writeJSON(cmd, entries)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderCatalogTable(entries))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the catalog as JSON")
	return cmd
}

func newQuoteCommand(ctx *commandContext) *cobra.Command {
	var params []string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "quote <offering>",
		Short: "Price a job request without executing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parameters, err := parseParams(params)
			if err != nil {
				return err
			}

			catalog, err := buildCatalog(ctx.configValue(), ctx.commandLogger())
			if err != nil {
				return err
			}
			dispatcher := offering.NewDispatcher(catalog, ctx.commandLogger())
			outcome := dispatcher.Quote(offering.Request{
				OfferingID: args[0],
				Parameters: parameters,
			})

			if asJSON {
				return writeJSON(cmd, outcome)
			}
			stdout := cmd.OutOrStdout()
			if outcome.State == offering.StateRejected {
				fmt.Fprintf(stdout, "Request rejected: %s\n", outcome.Reason)
				return nil
			}
			fmt.Fprintln(stdout, outcome.Quote)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Request parameter as key=value (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the outcome as JSON")
	return cmd
}

func newInvokeCommand(ctx *commandContext) *cobra.Command {
	var params []string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "invoke <offering>",
		Short: "Dispatch a job request to the running daemon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parameters, err := parseParams(params)
			if err != nil {
				return err
			}

			client, err := ctx.dialClient()
			if err != nil {
				return err
			}
			defer client.Close()

			resp, err := client.Invoke(ipc.InvokeRequest{
				OfferingID: args[0],
				Parameters: parameters,
			})
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, resp.Outcome)
			}
			renderOutcome(cmd, resp.Outcome)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Request parameter as key=value (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the outcome as JSON")
	return cmd
}

func renderOutcome(cmd *cobra.Command, outcome offering.Outcome) {
	stdout := cmd.OutOrStdout()
	colorize := shouldColorize(stdout)

	switch outcome.State {
	case offering.StateRejected:
		fmt.Fprintln(stdout, renderStatusLine("Rejected", statusWarn, outcome.Reason, colorize))
		return
	case offering.StateFailed:
		fmt.Fprintln(stdout, renderStatusLine("Failed", statusError, outcome.Result.Error, colorize))
	case offering.StateCompleted:
		fmt.Fprintln(stdout, renderStatusLine("Completed", statusOK, outcome.Quote, colorize))
	}
	if outcome.Result == nil {
		return
	}
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, outcome.Result.Deliverable)
}

// parseParams converts repeated key=value flags into request parameters.
func parseParams(raw []string) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	params := make(map[string]any, len(raw))
	for _, pair := range raw {
		key, value, found := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, fmt.Errorf("invalid parameter %q: expected key=value", pair)
		}
		params[key] = value
	}
	return params, nil
}
