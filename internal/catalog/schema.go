package catalog

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion gates the on-disk layout. A catalog written by a different
// version refuses to open; clearing the catalog or deleting the database
// rebuilds it.
const schemaVersion = 1

// ErrSchemaMismatch reports a catalog written by an incompatible version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

func (s *Store) initSchema(ctx context.Context) error {
	version, initialized, err := s.schemaState(ctx)
	if err != nil {
		return err
	}
	if !initialized {
		return s.createSchema(ctx)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (run 'serdata catalog clear' or delete the database)",
			ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}

// schemaState reports the stored schema version, or initialized=false for a
// fresh database.
func (s *Store) schemaState(ctx context.Context) (version int, initialized bool, err error) {
	var present bool
	err = s.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = 'schema_version')",
	).Scan(&present)
	if err != nil {
		return 0, false, fmt.Errorf("probe schema table: %w", err)
	}
	if !present {
		return 0, false, nil
	}
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return version, true, nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stamp := fmt.Sprintf("\nINSERT INTO schema_version (version) VALUES (%d);", schemaVersion)
	if _, err := tx.ExecContext(ctx, schemaSQL+stamp); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return tx.Commit()
}
