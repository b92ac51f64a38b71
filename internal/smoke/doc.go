// Package smoke validates a generated site tree before deploy.
//
// Each check runs independently and records its own outcome, so a single run
// reports every missing page, broken manifest and dangling reference at once.
// The JavaScript syntax check needs a node binary and is skipped, not failed,
// when none is available.
package smoke
