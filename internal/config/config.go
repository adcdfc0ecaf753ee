package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir  string `toml:"data_dir"`
	CacheDir string `toml:"cache_dir"`
	LogDir   string `toml:"log_dir"`
}

// Ingest contains defaults for dataset construction.
type Ingest struct {
	Normalize   string   `toml:"normalize"`
	Binarize    bool     `toml:"binarize"`
	PadMultiple int      `toml:"pad_multiple"`
	Progress    bool     `toml:"progress"`
	Decoder     []string `toml:"decoder"`
}

// Corpora contains registry extension configuration.
type Corpora struct {
	DefinitionFiles []string `toml:"definition_files"`
}

// Catalog contains configuration for the ingest catalog database.
type Catalog struct {
	Enabled    bool `toml:"enabled"`
	MinFreeMiB int  `toml:"min_free_mib"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for serdata.
//
// Configuration sections by subsystem:
//   - Paths: corpus data root, cache directory, and log directory
//   - Ingest: normalization method, binary label views, sequence padding,
//     progress display, and the external packed-file decoder command
//   - Corpora: extra corpus definition files merged over the builtins
//   - Catalog: ingest catalog database settings
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Ingest  Ingest  `toml:"ingest"`
	Corpora Corpora `toml:"corpora"`
	Catalog Catalog `toml:"catalog"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/serdata/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	cfg := Default()
	if exists {
		raw, err := os.ReadFile(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(raw, &cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

// resolveConfigPath maps a requested path to the file Load should read. An
// explicit path wins even when absent; otherwise the user config location is
// tried before a serdata.toml in the working directory.
func resolveConfigPath(path string) (string, bool, error) {
	if strings.TrimSpace(path) != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		switch _, err := os.Stat(expanded); {
		case err == nil:
			return expanded, true, nil
		case errors.Is(err, fs.ErrNotExist):
			return expanded, false, nil
		default:
			return "", false, fmt.Errorf("stat %s: %w", expanded, err)
		}
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("serdata.toml")
	if err != nil {
		return "", false, err
	}

	for _, candidate := range []string{defaultPath, projectPath} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true, nil
		}
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the cache and log directories. The data
// directory is created on a best-effort basis so configuration still loads
// when corpus storage is temporarily unavailable.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.CacheDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if dir := strings.TrimSpace(c.Paths.DataDir); dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}
	return nil
}

// CatalogPath returns the catalog database location inside the cache directory.
func (c *Config) CatalogPath() string {
	return filepath.Join(c.Paths.CacheDir, "catalog.db")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return "", nil
	}
	if rest, ok := strings.CutPrefix(pathValue, "~"); ok {
		if rest == "" || rest[0] == '/' || rest[0] == '\\' {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("look up home directory: %w", err)
			}
			pathValue = filepath.Join(home, strings.TrimLeft(rest, `/\`))
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
