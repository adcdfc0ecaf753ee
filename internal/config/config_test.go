package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"serdata/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_CACHE_HOME", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if resolved == "" {
		t.Fatal("resolved path should not be empty")
	}
	if exists {
		t.Fatal("no config file should exist in a fresh HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "serdata", "corpora")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.CacheDir != filepath.Join(tempHome, ".cache", "serdata") {
		t.Fatalf("unexpected cache dir: %q", cfg.Paths.CacheDir)
	}
	if cfg.Ingest.Normalize != "speaker" {
		t.Fatalf("unexpected default normalize method: %q", cfg.Ingest.Normalize)
	}
	if cfg.Ingest.Binarize {
		t.Fatal("binarize should default to off")
	}
	if cfg.Ingest.PadMultiple != 0 {
		t.Fatalf("padding should default to off, got %d", cfg.Ingest.PadMultiple)
	}
	if !cfg.Catalog.Enabled {
		t.Fatal("catalog should default to on")
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %q/%q", cfg.Logging.Format, cfg.Logging.Level)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.CacheDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("stat %q: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("%q is not a directory", dir)
		}
	}
	if cfg.CatalogPath() != filepath.Join(cfg.Paths.CacheDir, "catalog.db") {
		t.Fatalf("unexpected catalog path: %q", cfg.CatalogPath())
	}
}

func TestLoadExplicitPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "serdata.toml")

	type overrides struct {
		Paths struct {
			DataDir string `toml:"data_dir"`
		} `toml:"paths"`
		Ingest struct {
			Normalize   string   `toml:"normalize"`
			Binarize    bool     `toml:"binarize"`
			PadMultiple int      `toml:"pad_multiple"`
			Decoder     []string `toml:"decoder"`
		} `toml:"ingest"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	var file overrides
	file.Paths.DataDir = filepath.Join(tempDir, "corpora")
	file.Ingest.Normalize = "ALL"
	file.Ingest.Binarize = true
	file.Ingest.PadMultiple = 64
	file.Ingest.Decoder = []string{"smileconvert", " --to-arff "}
	file.Logging.Format = "JSON"

	data, err := toml.Marshal(file)
	if err != nil {
		t.Fatalf("marshal overrides: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write overrides: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("Load should report the file as existing")
	}
	if resolved != configPath {
		t.Fatalf("resolved = %q, want %q", resolved, configPath)
	}
	if cfg.Paths.DataDir != file.Paths.DataDir {
		t.Fatalf("expected data dir from file, got %q", cfg.Paths.DataDir)
	}
	if cfg.Ingest.Normalize != "all" {
		t.Fatalf("expected normalize method lowercased, got %q", cfg.Ingest.Normalize)
	}
	if !cfg.Ingest.Binarize {
		t.Fatal("expected binarize from file")
	}
	if cfg.Ingest.PadMultiple != 64 {
		t.Fatalf("expected pad multiple 64, got %d", cfg.Ingest.PadMultiple)
	}
	if len(cfg.Ingest.Decoder) != 2 || cfg.Ingest.Decoder[1] != "--to-arff" {
		t.Fatalf("expected trimmed decoder argv, got %v", cfg.Ingest.Decoder)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected json log format, got %q", cfg.Logging.Format)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tempDir := t.TempDir()

	write := func(name, body string) string {
		path := filepath.Join(tempDir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		return path
	}

	badMethod := write("method.toml", "[ingest]\nnormalize = \"zscore\"\n")
	if _, _, _, err := config.Load(badMethod); err == nil {
		t.Fatal("expected error for unknown normalize method")
	}

	badPad := write("pad.toml", "[ingest]\npad_multiple = -1\n")
	if _, _, _, err := config.Load(badPad); err == nil {
		t.Fatal("expected error for negative pad multiple")
	}

	unknownKey := write("unknown.toml", "[ingest]\nnormalise = \"all\"\n")
	if _, _, _, err := config.Load(unknownKey); err != nil {
		// Unknown keys are tolerated; only values are validated.
		t.Fatalf("unexpected error for unknown key: %v", err)
	}
}

func TestSampleConfigRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "normalize = \"speaker\"") {
		t.Fatalf("sample config missing ingest defaults: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("sample does not decode: %v", err)
	}
	if !strings.Contains(cfg.Paths.DataDir, "serdata") {
		t.Fatalf("expected data dir to mention serdata, got %q", cfg.Paths.DataDir)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"unknown normalize method", func(c *config.Config) { c.Ingest.Normalize = "global" }},
		{"negative pad multiple", func(c *config.Config) { c.Ingest.PadMultiple = -4 }},
		{"empty data dir", func(c *config.Config) { c.Paths.DataDir = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
