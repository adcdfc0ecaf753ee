// Package main implements the serdata command line interface.
//
// Subcommands stay thin: they parse flags, resolve configuration once
// through a shared command context, and hand the real work to the internal
// packages. Output formatting for tables, JSON, and progress lives beside
// the commands; corpus rules, dataset building, and catalog persistence
// do not.
package main
