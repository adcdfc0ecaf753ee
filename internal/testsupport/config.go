package testsupport

import (
	"path/filepath"
	"testing"

	"serdata/internal/config"
)

// ConfigOption mutates the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "corpora")
	cfg.Paths.CacheDir = filepath.Join(base, "cache")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Catalog.Enabled = true

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithDecoder sets the packed decoder command on the test config.
func WithDecoder(argv ...string) ConfigOption {
	return func(cfg *config.Config) { cfg.Ingest.Decoder = argv }
}

// WithCatalogDisabled turns off catalog persistence on the test config.
func WithCatalogDisabled() ConfigOption {
	return func(cfg *config.Config) { cfg.Catalog.Enabled = false }
}

// WithCatalogMinFree overrides the free-space floor for catalog writes.
func WithCatalogMinFree(mib int) ConfigOption {
	return func(cfg *config.Config) { cfg.Catalog.MinFreeMiB = mib }
}
