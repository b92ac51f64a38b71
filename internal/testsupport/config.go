package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"sitekit/internal/config"
)

// ConfigOption customizes the config returned by NewConfig. base is the temp
// directory holding every path of that config.
type ConfigOption func(t testing.TB, cfg *config.Config, base string)

// NewConfig returns defaults rooted in a fresh temp directory:
//
//	<base>/site, <base>/site/assets/data, <base>/cache, <base>/audit
//
// with a placeholder token, no request delay, and JSON logs.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.SiteDir = filepath.Join(base, "site")
	cfg.Paths.DataDir = filepath.Join(cfg.Paths.SiteDir, "assets", "data")
	cfg.Paths.CacheDir = filepath.Join(base, "cache")
	cfg.Vimeo.Token = "test"
	cfg.Vimeo.RequestDelayMS = 0
	cfg.Audit.Path = filepath.Join(base, "audit", "thumbnail_audit.db")
	cfg.Logging.Format = "json"

	for _, opt := range opts {
		opt(t, &cfg, base)
	}
	return &cfg
}

// BaseDir returns the temp directory behind a NewConfig result.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.CacheDir)
}

func WithToken(token string) ConfigOption {
	return func(_ testing.TB, cfg *config.Config, _ string) { cfg.Vimeo.Token = token }
}

// WithBaseURL points the Vimeo client at a test server.
func WithBaseURL(url string) ConfigOption {
	return func(_ testing.TB, cfg *config.Config, _ string) { cfg.Vimeo.BaseURL = url }
}

func WithAudit() ConfigOption {
	return func(_ testing.TB, cfg *config.Config, _ string) { cfg.Audit.Enabled = true }
}

// WithStubbedBinaries puts executables that exit 0 at the front of PATH,
// one per name (node when none are given). It uses t.Setenv, so the test
// must not run in parallel.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(t testing.TB, cfg *config.Config, base string) {
		t.Helper()
		if len(names) == 0 {
			names = []string{"node"}
		}
		binDir := filepath.Join(base, "bin")
		for _, name := range names {
			WriteFile(t, filepath.Join(binDir, name), []byte("#!/bin/sh\nexit 0\n"))
			if err := os.Chmod(filepath.Join(binDir, name), 0o755); err != nil {
				t.Fatalf("chmod stub %s: %v", name, err)
			}
		}
		t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}
