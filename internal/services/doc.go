// Package services defines shared utilities consumed by the sitekit commands
// and their external integrations.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that classify failures
//     as setup problems (exit 2) or run failures (exit 1).
//   - Thin clients for external systems (the Vimeo API) in subpackages.
//
// Use these helpers when wiring new integrations so error handling stays
// uniform across commands.
package services
