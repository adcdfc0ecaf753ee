package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// CheckHealth inspects the catalog database file, connection, schema, and
// integrity. Probes stop at the first failure; a missing database reports
// DatabaseExists false without an error.
func (s *Store) CheckHealth(ctx context.Context) (DatabaseHealth, error) {
	health := DatabaseHealth{DBPath: s.path}

	if s.path == "" {
		return health, errors.New("catalog database path is unknown")
	}
	switch info, err := os.Stat(s.path); {
	case errors.Is(err, os.ErrNotExist):
		return health, nil
	case err != nil:
		return health, fmt.Errorf("stat catalog database: %w", err)
	case info.IsDir():
		return health, fmt.Errorf("catalog database path %q is a directory", s.path)
	}
	health.DatabaseExists = true

	if s.db == nil {
		return health, errors.New("catalog database connection unavailable")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(probeCtx); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("ping catalog database: %w", err)
	}
	health.DatabaseReadable = true

	if err := s.db.QueryRowContext(probeCtx,
		"SELECT EXISTS (SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = 'datasets')",
	).Scan(&health.TableExists); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("probe datasets table: %w", err)
	}
	if health.TableExists {
		if err := s.db.QueryRowContext(probeCtx, "SELECT COUNT(*) FROM datasets").Scan(&health.TotalRecords); err != nil {
			health.Error = err.Error()
			return health, fmt.Errorf("count records: %w", err)
		}
	}

	var verdict string
	if err := s.db.QueryRowContext(probeCtx, "PRAGMA integrity_check").Scan(&verdict); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("integrity check: %w", err)
	}
	health.IntegrityCheck = strings.EqualFold(verdict, "ok")

	return health, nil
}
