package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"srtforge/internal/batch"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

// renderEventLine formats a batch event for terminal output, coloring the
// whole line by severity when the destination is a terminal.
func renderEventLine(event batch.Event, colorize bool) string {
	line := fmt.Sprintf("%s %s", event.Time.Format("15:04:05"), event.Message)
	if !colorize {
		return line
	}
	if color := severityColor(event.Severity); color != "" {
		return color + line + ansiReset
	}
	return line
}

func severityColor(severity batch.Severity) string {
	switch severity {
	case batch.SeveritySuccess:
		return ansiGreen
	case batch.SeverityWarning:
		return ansiYellow
	case batch.SeverityError:
		return ansiRed
	case batch.SeverityInfo:
		return ansiBlue
	default:
		return ""
	}
}

func renderStatusLine(label string, ok bool, detail string, colorize bool) string {
	status := "OK"
	color := ansiGreen
	if !ok {
		status = "MISSING"
		color = ansiRed
	}
	line := fmt.Sprintf("  %-14s [%s]", label+":", status)
	if detail != "" {
		line += " " + detail
	}
	if colorize {
		return color + line + ansiReset
	}
	return line
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
