package deps

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sitekit/internal/services"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}

	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("unexpected blank command status %#v", results[2])
	}
}

func TestCheckScriptSyntax(t *testing.T) {
	binDir := t.TempDir()
	node := filepath.Join(binDir, "node")
	// Stub rejects any file whose name contains "bad".
	script := []byte("#!/bin/sh\ncase \"$2\" in *bad*) echo 'SyntaxError: Unexpected token' >&2; exit 1;; esac\nexit 0\n")
	if err := os.WriteFile(node, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	if err := CheckScriptSyntax(context.Background(), node, "good.js"); err != nil {
		t.Fatalf("expected clean check, got %v", err)
	}
	err := CheckScriptSyntax(context.Background(), node, "bad.js")
	if err == nil || !strings.Contains(err.Error(), "SyntaxError") {
		t.Fatalf("expected syntax error output, got %v", err)
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
	if !Available(node) || Available("clearly-not-present-binary") {
		t.Fatal("Available disagrees with PATH lookup")
	}
}
