package logging

import (
	"context"
	"log/slog"
	"strings"
)

// Structured logging keys shared across packages. Using these constants keeps
// field names greppable across console and JSON output.
const (
	FieldComponent   = "component"
	FieldCorpus      = "corpus"
	FieldSource      = "source"
	FieldFormat      = "format"
	FieldGranularity = "granularity"
	FieldRunID       = "run_id"
)

type runIDKey struct{}

// WithRunID stores an ingest run identifier on the context.
func WithRunID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunIDFromContext retrieves the ingest run identifier, if any.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(runIDKey{}).(string)
	return id, ok && id != ""
}

// WithContext tags logger with fields carried on ctx, currently the ingest
// run identifier.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if id, ok := RunIDFromContext(ctx); ok {
		logger = logger.With(String(FieldRunID, id))
	}
	return logger
}
