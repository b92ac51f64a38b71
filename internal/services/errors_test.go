package services_test

import (
	"errors"
	"strings"
	"testing"

	"sitekit/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "smoke", "node --check", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"smoke", "node --check", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestExitCodeMapping(t *testing.T) {
	setupErr := services.Wrap(services.ErrConfiguration, "thumbnails", "token", "missing", nil)
	if code := services.ExitCode(setupErr); code != services.ExitSetup {
		t.Fatalf("expected setup exit code for configuration error, got %d", code)
	}

	validationErr := services.Wrap(services.ErrValidation, "videoids", "parse", "unsupported", nil)
	if code := services.ExitCode(validationErr); code != services.ExitSetup {
		t.Fatalf("expected setup exit code for validation error, got %d", code)
	}

	transientErr := services.Wrap(services.ErrTransient, "vimeo", "list", "timeout", errors.New("io"))
	if code := services.ExitCode(transientErr); code != services.ExitFailure {
		t.Fatalf("expected failure exit code for transient error, got %d", code)
	}

	if code := services.ExitCode(nil); code != services.ExitOK {
		t.Fatalf("expected zero for nil error, got %d", code)
	}
}
