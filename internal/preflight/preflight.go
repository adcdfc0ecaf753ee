package preflight

import (
	"context"

	"serdata/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Checks gated by a config toggle are skipped when the feature is disabled.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Source artifacts live under the data directory.
	results = append(results, CheckDirectoryAccess("Data directory", cfg.Paths.DataDir))
	results = append(results, CheckDirectoryAccess("Cache directory", cfg.Paths.CacheDir))
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}

	results = append(results, CheckDefinitions(cfg))
	results = append(results, CheckTools(cfg)...)

	if cfg.Catalog.Enabled {
		results = append(results, CheckFreeSpace("Cache free space", cfg.Paths.CacheDir, cfg.Catalog.MinFreeMiB))
		results = append(results, CheckCatalog(ctx, cfg))
	}

	return results
}
