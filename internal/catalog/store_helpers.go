package catalog

import (
	"database/sql"
	"strings"
	"time"
)

const recordColumns = "id, corpus, source_path, format, granularity, instances, features, classes, speakers, normalize, binarize, pad_multiple, run_id, created_at"

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*Record, error) {
	var (
		id          int64
		corpus      string
		source      string
		format      string
		granularity string
		instances   int
		features    int
		classes     int
		speakers    int
		normalize   sql.NullString
		binarize    sql.NullInt64
		padMultiple sql.NullInt64
		runID       sql.NullString
		createdRaw  sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&corpus,
		&source,
		&format,
		&granularity,
		&instances,
		&features,
		&classes,
		&speakers,
		&normalize,
		&binarize,
		&padMultiple,
		&runID,
		&createdRaw,
	); err != nil {
		return nil, err
	}

	rec := &Record{
		ID:          id,
		Corpus:      corpus,
		Source:      source,
		Format:      format,
		Granularity: granularity,
		Instances:   instances,
		Features:    features,
		Classes:     classes,
		Speakers:    speakers,
		Normalize:   normalize.String,
		RunID:       runID.String,
	}
	if binarize.Valid {
		rec.Binarize = binarize.Int64 != 0
	}
	if padMultiple.Valid {
		rec.PadMultiple = int(padMultiple.Int64)
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		rec.CreatedAt = created
	}
	return rec, nil
}

// nullableString maps empty strings to NULL so optional columns never store "".
func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

// parseTimeString accepts both timestamp layouts found in the database:
// records written here use RFC 3339, sqlite's CURRENT_TIMESTAMP does not.
func parseTimeString(value string) (time.Time, error) {
	var firstErr error
	for _, layout := range []string{time.RFC3339Nano, time.DateTime} {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", count), ",")
}
