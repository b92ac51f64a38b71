package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"sitekit/internal/deps"
	"sitekit/internal/smoke"
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
	statusLabelWidth = 20
	statusIndent     = "  "
)

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := fmt.Sprintf("[%s]", statusKindLabel(kind))
	if message != "" {
		statusText += " " + message
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
	default:
		return ansiBlue
	}
}

func renderSectionHeader(title string, colorize bool) string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	if colorize {
		return ansiBlue + line + ansiReset
	}
	return line
}

// dependencyLines renders a summary line followed by one line per binary.
// Missing optional binaries are warnings, missing required ones errors.
func dependencyLines(statuses []deps.Status, colorize bool) []string {
	missingRequired, missingOptional := 0, 0
	for _, s := range statuses {
		if s.Available {
			continue
		}
		if s.Optional {
			missingOptional++
		} else {
			missingRequired++
		}
	}

	lines := make([]string, 0, len(statuses)+1)
	switch {
	case missingRequired > 0:
		lines = append(lines, renderStatusLine("Summary", statusError, fmt.Sprintf("%d required missing", missingRequired), colorize))
	case missingOptional > 0:
		lines = append(lines, renderStatusLine("Summary", statusWarn, fmt.Sprintf("%d optional missing", missingOptional), colorize))
	default:
		lines = append(lines, renderStatusLine("Summary", statusOK, "all available", colorize))
	}

	for _, s := range statuses {
		switch {
		case s.Available:
			lines = append(lines, renderStatusLine(s.Name, statusOK, fmt.Sprintf("Ready (command: %s)", s.Command), colorize))
		case s.Optional:
			lines = append(lines, renderStatusLine(s.Name, statusWarn, dependencyDetail(s), colorize))
		default:
			lines = append(lines, renderStatusLine(s.Name, statusError, dependencyDetail(s), colorize))
		}
	}
	return lines
}

func dependencyDetail(s deps.Status) string {
	if detail := strings.TrimSpace(s.Detail); detail != "" {
		return detail
	}
	return "not available"
}

func smokeStatusKind(status smoke.Status) statusKind {
	switch status {
	case smoke.StatusPass:
		return statusOK
	case smoke.StatusFail:
		return statusError
	default:
		return statusWarn
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
