package main

import (
	"encoding/json"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

// catalogEntry is the presentation shape for one offering, shared by the
// table and --json renderings of the offerings command.
type catalogEntry struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Quote       string `json:"quote"`
}

// writeJSON emits v as indented JSON on the command's stdout. HTML escaping is
// off: deliverables and quote strings are prose shown to a buyer, and `<`, `>`
// or `&` in them must survive a round trip through --json untouched.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderCatalogTable renders the offerings listing. Descriptions and quotes
// are free-form prose, so both wrap instead of stretching the table across
// the terminal.
func renderCatalogTable(entries []catalogEntry) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Offering", "Description", "Price"})
	for _, entry := range entries {
		tw.AppendRow(table.Row{entry.ID, entry.Description, entry.Quote})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft, WidthMax: 48},
		{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignLeft, WidthMax: 40},
	})
	return tw.Render()
}
