package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateIngest(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		return errors.New("paths.cache_dir must be set")
	}
	return nil
}

func (c *Config) validateIngest() error {
	switch c.Ingest.Normalize {
	case "all", "speaker", "none":
	default:
		return fmt.Errorf("ingest.normalize must be one of all, speaker, none (got %q)", c.Ingest.Normalize)
	}
	if c.Ingest.PadMultiple < 0 {
		return errors.New("ingest.pad_multiple must be >= 0 (0 disables padding)")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.MinFreeMiB < 0 {
		return errors.New("catalog.min_free_mib must be >= 0")
	}
	return nil
}
