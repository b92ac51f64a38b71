package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sitekit/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckCacheDirectory_Missing(t *testing.T) {
	result := CheckCacheDirectory(filepath.Join(t.TempDir(), "a", "b", "cache"))
	if !result.Passed || !strings.Contains(result.Detail, "created on first run") {
		t.Fatalf("expected creatable cache dir to pass, got %+v", result)
	}
}

func TestCheckVimeo_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Vimeo.BaseURL = srv.URL
	cfg.Vimeo.Token = "good-token"
	if result := CheckVimeo(context.Background(), &cfg); !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}

	cfg.Vimeo.Token = "bad-token"
	result := CheckVimeo(context.Background(), &cfg)
	if result.Passed || result.Detail != "token rejected" {
		t.Fatalf("expected rejected token, got %+v", result)
	}
}

func TestCheckVimeoToken_Missing(t *testing.T) {
	cfg := config.Default()
	cfg.Vimeo.Token = ""
	if result := CheckVimeoToken(&cfg); result.Passed {
		t.Fatal("expected failure for missing token")
	}
}

func TestCheckFaceCascade(t *testing.T) {
	cfg := config.Default()
	if result := CheckFaceCascade(&cfg); !result.Passed {
		t.Fatalf("unconfigured cascade is not a failure, got %+v", result)
	}
	cfg.Thumbnails.FaceCascade = filepath.Join(t.TempDir(), "missing-facefinder")
	if result := CheckFaceCascade(&cfg); result.Passed {
		t.Fatal("expected failure for unreadable cascade")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	results := RunAll(context.Background(), nil, false)
	if results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_MinimalConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.SiteDir = t.TempDir()
	cfg.Paths.DataDir = t.TempDir()
	cfg.Paths.CacheDir = filepath.Join(t.TempDir(), "cache")
	cfg.Vimeo.Token = "configured"

	results := RunAll(context.Background(), &cfg, false)
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
}

func TestCheckSystemDeps_ReportsNode(t *testing.T) {
	cfg := config.Default()
	cfg.Smoke.NodeBinary = "clearly-not-present-node"
	statuses := CheckSystemDeps(&cfg)
	if len(statuses) != 1 || statuses[0].Available || !statuses[0].Optional {
		t.Fatalf("unexpected statuses %+v", statuses)
	}
}
