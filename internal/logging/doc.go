// Package logging assembles structured slog loggers and formatting helpers used
// across sitekit commands.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context helpers so a thumbnails run can tag every log
// line with its run ID. The package also provides a no-op logger for tests and
// wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every command emits
// log lines with the same shape.
package logging
