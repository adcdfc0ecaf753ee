package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"serdata/internal/catalog"
	"serdata/internal/config"
	"serdata/internal/corpus"
)

// commandContext lazily loads the pieces shared across subcommands: the
// configuration and the corpus registry. Each loads at most once per
// invocation.
type commandContext struct {
	configFlag *string

	loadConfig   func() (*config.Config, error)
	loadRegistry func() (*corpus.Registry, error)
}

func newCommandContext(configFlag *string) *commandContext {
	c := &commandContext{configFlag: configFlag}
	c.loadConfig = sync.OnceValues(c.readConfig)
	c.loadRegistry = sync.OnceValues(c.buildRegistry)
	return c
}

func (c *commandContext) flagPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) readConfig() (*config.Config, error) {
	cfg, _, _, err := config.Load(c.flagPath())
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	return c.loadConfig()
}

// buildRegistry layers the configured definition files over the builtin
// corpora, later files overriding earlier ones.
func (c *commandContext) buildRegistry() (*corpus.Registry, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	reg := corpus.Builtin()
	for _, path := range cfg.Corpora.DefinitionFiles {
		if err := reg.LoadDefinitions(path); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func (c *commandContext) ensureRegistry() (*corpus.Registry, error) {
	return c.loadRegistry()
}

// withCatalog opens the catalog store for the duration of fn. The store holds
// an exclusive lock, so commands keep this window short.
func (c *commandContext) withCatalog(fn func(store *catalog.Store) error) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	store, err := catalog.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// shouldSkipConfig reports whether the command or one of its parents opts out
// of config loading through the skipConfigLoad annotation.
func shouldSkipConfig(cmd *cobra.Command) bool {
	for ; cmd != nil; cmd = cmd.Parent() {
		if cmd.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
