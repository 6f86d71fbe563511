package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestWriteJSONPreservesProse(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	payload := map[string]string{"deliverable": "price <above> support & rising"}
	if err := writeJSON(cmd, payload); err != nil {
		t.Fatalf("write json: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "price <above> support & rising") {
		t.Fatalf("prose was escaped:\n%s", out)
	}
	if !strings.Contains(out, "\n  \"deliverable\"") {
		t.Fatalf("output should be indented:\n%s", out)
	}
}

func TestRenderCatalogTable(t *testing.T) {
	out := renderCatalogTable([]catalogEntry{
		{ID: "token-report", Description: "Market report for one token", Quote: "3.50 USD per request"},
		{ID: "market-pulse", Description: "Trending snapshot", Quote: "1.00 USD per request"},
	})
	for _, want := range []string{"Offering", "Description", "Price", "token-report", "market-pulse", "3.50 USD"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
}

func TestRenderCatalogTableEmpty(t *testing.T) {
	out := renderCatalogTable(nil)
	if !strings.Contains(out, "Offering") {
		t.Fatalf("empty catalog still renders the header:\n%s", out)
	}
}
