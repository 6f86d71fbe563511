package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"hawker/internal/supervisor"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 14
	statusIndent     = "  "
)

type statusReport struct {
	Running   bool   `json:"running"`
	PID       int    `json:"pid,omitempty"`
	StartedAt string `json:"started_at,omitempty"`
	LogPath   string `json:"log_path"`
	Offerings int    `json:"offerings"`
}

func statusDocument(ctx *commandContext, report supervisor.StatusReport) statusReport {
	doc := statusReport{
		Running: report.Running,
		PID:     report.PID,
		LogPath: report.LogPath,
	}
	if !report.StartedAt.IsZero() {
		doc.StartedAt = report.StartedAt.UTC().Format(time.RFC3339)
	}
	doc.Offerings = offeringCount(ctx)
	return doc
}

func renderStatus(out io.Writer, ctx *commandContext, report supervisor.StatusReport) {
	colorize := shouldColorize(out)
	for _, line := range renderSectionHeader("Seller Status", colorize) {
		fmt.Fprintln(out, line)
	}
	if report.Running {
		detail := fmt.Sprintf("Running (pid %d)", report.PID)
		if !report.StartedAt.IsZero() {
			detail += fmt.Sprintf(" since %s", report.StartedAt.Format("2006-01-02 15:04:05"))
		}
		fmt.Fprintln(out, renderStatusLine("Daemon", statusOK, detail, colorize))
	} else {
		fmt.Fprintln(out, renderStatusLine("Daemon", statusWarn, "Not running (run `hawker start`)", colorize))
	}
	fmt.Fprintln(out, renderStatusLine("Log file", statusInfo, report.LogPath, colorize))

	count := offeringCount(ctx)
	kind := statusOK
	if count == 0 {
		kind = statusWarn
	}
	fmt.Fprintln(out, renderStatusLine("Offerings", kind, fmt.Sprintf("%d registered", count), colorize))
}

// offeringCount builds the catalog locally; the count is advisory display
// data, so failures collapse to zero rather than failing the command.
func offeringCount(ctx *commandContext) int {
	cfg := ctx.configValue()
	if cfg == nil {
		return 0
	}
	catalog, err := buildCatalog(cfg, nil)
	if err != nil {
		return 0
	}
	return catalog.Len()
}

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := statusKindLabel(kind)
	if message != "" {
		statusText = fmt.Sprintf("[%s] %s", statusText, message)
	} else {
		statusText = fmt.Sprintf("[%s]", statusText)
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}
