package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultDataDir           = "~/.local/share/serdata/corpora"
	defaultLogDir            = "~/.local/share/serdata/logs"
	defaultNormalize         = "speaker"
	defaultPadMultiple       = 0
	defaultCatalogMinFreeMiB = 256
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:  defaultDataDir,
			CacheDir: defaultCacheDir(),
			LogDir:   defaultLogDir,
		},
		Ingest: Ingest{
			Normalize:   defaultNormalize,
			Binarize:    false,
			PadMultiple: defaultPadMultiple,
			Progress:    true,
		},
		Catalog: Catalog{
			Enabled:    true,
			MinFreeMiB: defaultCatalogMinFreeMiB,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func defaultCacheDir() string {
	if base := strings.TrimSpace(os.Getenv("XDG_CACHE_HOME")); base != "" {
		return filepath.Join(base, "serdata")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/serdata"
	}
	return filepath.Join(home, ".cache", "serdata")
}
