// Package logging builds the slog loggers serdata writes through.
//
// New constructs a logger from explicit options; NewFromConfig and
// NewCommandLogger derive those options from the configuration, pairing
// stdout with the log file under the configured log directory. The console
// handler prints one aligned line per record while the JSON handler keeps the
// compact key set the logs command expects. WithRunID and WithContext thread
// an ingest run identifier through as a structured field, and NewNop covers
// tests and wiring code that cannot fail.
//
// Use these constructors rather than assembling slog handlers directly so
// every component logs in the same shape.
package logging
