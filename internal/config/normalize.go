package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeCorpora(); err != nil {
		return err
	}
	c.normalizeIngest()
	c.normalizeCatalog()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir()
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCorpora() error {
	if len(c.Corpora.DefinitionFiles) == 0 {
		return nil
	}
	files := make([]string, 0, len(c.Corpora.DefinitionFiles))
	for _, file := range c.Corpora.DefinitionFiles {
		trimmed := strings.TrimSpace(file)
		if trimmed == "" {
			continue
		}
		expanded, err := expandPath(trimmed)
		if err != nil {
			return fmt.Errorf("corpora.definition_files: %w", err)
		}
		files = append(files, expanded)
	}
	c.Corpora.DefinitionFiles = files
	return nil
}

func (c *Config) normalizeIngest() {
	c.Ingest.Normalize = strings.ToLower(strings.TrimSpace(c.Ingest.Normalize))
	if c.Ingest.Normalize == "" {
		c.Ingest.Normalize = defaultNormalize
	}
	if len(c.Ingest.Decoder) > 0 {
		argv := make([]string, 0, len(c.Ingest.Decoder))
		for _, arg := range c.Ingest.Decoder {
			if trimmed := strings.TrimSpace(arg); trimmed != "" {
				argv = append(argv, trimmed)
			}
		}
		c.Ingest.Decoder = argv
	}
}

func (c *Config) normalizeCatalog() {
	if c.Catalog.MinFreeMiB < 0 {
		c.Catalog.MinFreeMiB = 0
	}
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if format != "json" {
		// Anything unrecognized falls back to the console renderer.
		format = "console"
	}
	c.Logging.Format = format

	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level
}
