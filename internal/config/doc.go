// Package config supplies serdata's TOML configuration.
//
// Load resolves the file to read (an explicit path, the user config
// location, or a project-local serdata.toml), fills in repository defaults,
// expands tilde paths to absolute ones, and validates the result. Config
// covers the corpus data root, ingest defaults, extra corpus definition
// files, catalog settings, and log output.
//
// Downstream code should only see configs produced here, where every path is
// absolute and every enum value canonical.
package config
