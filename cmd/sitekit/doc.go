// Package main hosts the sitekit CLI entrypoint and command graph.
//
// Each subcommand wraps one build-time utility: thumbnail override
// selection, CSV ingest, timer demo generation, and the pre-deploy smoke
// validator. Configuration resolution and logger construction live in the
// shared command context so subcommands only translate flags into calls on
// the internal packages.
package main
