package preflight

import (
	"context"

	"sitekit/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// The Vimeo API is only contacted when verifyToken is set.
func RunAll(ctx context.Context, cfg *config.Config, verifyToken bool) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results, CheckDirectoryAccess("Site directory", cfg.Paths.SiteDir))
	results = append(results, CheckDirectoryAccess("Data directory", cfg.Paths.DataDir))
	results = append(results, CheckCacheDirectory(cfg.Paths.CacheDir))
	if verifyToken {
		results = append(results, CheckVimeo(ctx, cfg))
	} else {
		results = append(results, CheckVimeoToken(cfg))
	}
	results = append(results, CheckFaceCascade(cfg))
	return results
}
