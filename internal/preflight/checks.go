package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"sitekit/internal/config"
	"sitekit/internal/deps"
	"sitekit/internal/services"
	"sitekit/internal/services/vimeo"
	"sitekit/internal/thumbnails"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCacheDirectory passes when the cache directory exists and is writable,
// or when it is missing but its nearest existing parent is writable.
func CheckCacheDirectory(path string) Result {
	const name = "Response cache"
	if _, err := os.Stat(path); err == nil {
		return CheckDirectoryAccess(name, path)
	}
	parent := filepath.Dir(path)
	for {
		if _, err := os.Stat(parent); err == nil {
			break
		}
		next := filepath.Dir(parent)
		if next == parent {
			break
		}
		parent = next
	}
	if err := unix.Access(parent, unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create under %s: %v)", path, parent, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (created on first run)", path)}
}

// CheckVimeoToken reports whether a token is configured without contacting the API.
func CheckVimeoToken(cfg *config.Config) Result {
	const name = "Vimeo token"
	if strings.TrimSpace(cfg.Vimeo.Token) == "" {
		return Result{Name: name, Detail: "missing (set VIMEO_TOKEN or vimeo.token)"}
	}
	return Result{Name: name, Passed: true, Detail: "configured"}
}

// CheckVimeo verifies that the API accepts the configured token.
// It uses a 10-second timeout and a single attempt.
func CheckVimeo(ctx context.Context, cfg *config.Config) Result {
	const name = "Vimeo API"
	client, err := vimeo.New(cfg.Vimeo.Token, cfg.Vimeo.BaseURL, vimeo.WithTimeout(10*time.Second))
	if err != nil {
		return Result{Name: name, Detail: "token missing"}
	}
	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Verify(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeVimeoError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "token accepted"}
}

// CheckFaceCascade reports whether the optional face stage can run.
func CheckFaceCascade(cfg *config.Config) Result {
	const name = "Face detection"
	if !cfg.Thumbnails.ImageAnalysis {
		return Result{Name: name, Passed: true, Detail: "disabled (image analysis off)"}
	}
	if strings.TrimSpace(cfg.Thumbnails.FaceCascade) == "" {
		return Result{Name: name, Passed: true, Detail: "disabled (no cascade configured)"}
	}
	if _, err := thumbnails.LoadPigoDetector(cfg.Thumbnails.FaceCascade, cfg.Thumbnails.FaceMinSize, cfg.Thumbnails.FaceMinQuality); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: "cascade loaded"}
}

// CheckSystemDeps evaluates the external binaries the smoke validator uses.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "Node.js",
			Command:     cfg.NodeBinary(),
			Description: "JavaScript syntax check in smoke runs",
			Optional:    true,
		},
	}
	return deps.CheckBinaries(requirements)
}

func summarizeVimeoError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "verify timed out (API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "verify timed out (API unreachable)"
	}
	if errors.Is(err, services.ErrConfiguration) {
		return "token rejected"
	}
	return err.Error()
}
