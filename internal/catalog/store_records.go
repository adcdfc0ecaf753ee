package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Save inserts a catalog record plus its instance rows. Earlier ingests of
// the same source keep their record but lose their instance detail, so
// Instances always describes the most recent ingest of a source.
func (s *Store) Save(ctx context.Context, rec *Record, instances []Instance) (*Record, error) {
	if rec == nil {
		return nil, errors.New("record is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	rec.CreatedAt = time.Now().UTC()
	timestamp := rec.CreatedAt.Format(time.RFC3339Nano)

	var id int64
	err := retryBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin save tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		res, err := tx.ExecContext(
			ctx,
			`INSERT INTO datasets (
                corpus, source_path, format, granularity,
                instances, features, classes, speakers,
                normalize, binarize, pad_multiple, run_id, created_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.Corpus,
			rec.Source,
			rec.Format,
			rec.Granularity,
			rec.Instances,
			rec.Features,
			rec.Classes,
			rec.Speakers,
			nullableString(rec.Normalize),
			boolToInt(rec.Binarize),
			rec.PadMultiple,
			nullableString(rec.RunID),
			timestamp,
		)
		if err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}

		if _, err := tx.ExecContext(
			ctx,
			`DELETE FROM dataset_instances
             WHERE dataset_id IN (SELECT id FROM datasets WHERE source_path = ? AND id != ?)`,
			rec.Source,
			id,
		); err != nil {
			return fmt.Errorf("drop superseded instances: %w", err)
		}

		for pos, inst := range instances {
			if _, err := tx.ExecContext(
				ctx,
				`INSERT INTO dataset_instances (dataset_id, position, name, label, speaker)
                 VALUES (?, ?, ?, ?, ?)`,
				id,
				pos,
				inst.Name,
				inst.Label,
				inst.Speaker,
			); err != nil {
				return fmt.Errorf("insert instance %d: %w", pos, err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit save: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// GetByID fetches a catalog record by identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM datasets WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

// LatestBySource returns the most recent record for a source artifact.
func (s *Store) LatestBySource(ctx context.Context, source string) (*Record, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+recordColumns+` FROM datasets WHERE source_path = ? ORDER BY id DESC LIMIT 1`,
		source,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find by source: %w", err)
	}
	return rec, nil
}

// List returns records filtered by corpus set (or all records when no corpus
// is provided) in insertion order.
func (s *Store) List(ctx context.Context, corpora ...string) ([]*Record, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + recordColumns + ` FROM datasets`
	orderClause := ` ORDER BY id`

	if len(corpora) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(corpora))
		args := make([]any, len(corpora))
		for i, corpus := range corpora {
			args[i] = corpus
		}
		query := baseQuery + ` WHERE corpus IN (` + placeholders + `)` + orderClause
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Instances returns the catalogued instance rows for a record in dataset
// order. Records whose instance detail was superseded return an empty slice.
func (s *Store) Instances(ctx context.Context, id int64) ([]Instance, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT name, label, speaker FROM dataset_instances WHERE dataset_id = ? ORDER BY position`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("query instances: %w", err)
	}
	defer rows.Close()

	var instances []Instance
	for rows.Next() {
		var inst Instance
		if err := rows.Scan(&inst.Name, &inst.Label, &inst.Speaker); err != nil {
			return nil, err
		}
		instances = append(instances, inst)
	}
	return instances, rows.Err()
}

// Stats returns a count of records grouped by corpus.
func (s *Store) Stats(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT corpus, COUNT(1) FROM datasets GROUP BY corpus`)
	if err != nil {
		return nil, fmt.Errorf("catalog stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var corpus string
		var count int
		if err := rows.Scan(&corpus, &count); err != nil {
			return nil, err
		}
		stats[corpus] = count
	}
	return stats, rows.Err()
}

// Remove deletes a record and its instance rows by identifier.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	res, err := s.execRetry(ctx, `DELETE FROM datasets WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("count affected rows: %w", err)
	}
	return affected > 0, nil
}

// ClearCorpus removes all records for one corpus.
func (s *Store) ClearCorpus(ctx context.Context, corpus string) (int64, error) {
	res, err := s.execRetry(ctx, `DELETE FROM datasets WHERE corpus = ?`, corpus)
	if err != nil {
		return 0, fmt.Errorf("clear corpus: %w", err)
	}
	return res.RowsAffected()
}

// Clear removes all records from the catalog.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execRetry(ctx, `DELETE FROM datasets`)
	if err != nil {
		return 0, fmt.Errorf("clear catalog: %w", err)
	}
	return res.RowsAffected()
}
