package catalog_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"serdata/internal/catalog"
	"serdata/internal/dataset"
	"serdata/internal/testsupport"
)

func sampleRecord(corpus, source string) *catalog.Record {
	return &catalog.Record{
		Corpus:      corpus,
		Source:      source,
		Format:      "arff",
		Granularity: "utterances",
		Instances:   2,
		Features:    3,
		Classes:     2,
		Speakers:    1,
		Normalize:   "speaker",
		Binarize:    true,
		PadMultiple: 4,
		RunID:       "run-1",
	}
}

func sampleInstances() []catalog.Instance {
	return []catalog.Instance{
		{Name: "03a01Fa", Label: "happiness", Speaker: "03"},
		{Name: "03a01Nc", Label: "neutral", Speaker: "03"},
	}
}

func TestDescribe(t *testing.T) {
	ds := &dataset.Dataset{
		Corpus:         "emodb",
		Granularity:    dataset.Utterances,
		Classes:        []string{"anger", "neutral"},
		Names:          []string{"03a01Wa", "16b10Nb"},
		Attrs:          []string{"f1", "f2", "f3"},
		Y:              []int{0, 1},
		Speakers:       []string{"03", "16"},
		SpeakerIndices: []int{0, 1},
	}

	rec, instances := catalog.Describe(ds, "/data/emodb.arff", "arff")
	if rec.Corpus != "emodb" || rec.Source != "/data/emodb.arff" || rec.Format != "arff" {
		t.Fatalf("unexpected record identity: %#v", rec)
	}
	if rec.Granularity != "utterances" {
		t.Fatalf("expected utterances granularity, got %q", rec.Granularity)
	}
	if rec.Instances != 2 || rec.Features != 3 || rec.Classes != 2 || rec.Speakers != 2 {
		t.Fatalf("unexpected record counts: %#v", rec)
	}
	if len(instances) != 2 {
		t.Fatalf("expected 2 instances, got %d", len(instances))
	}
	if instances[0].Name != "03a01Wa" || instances[0].Label != "anger" || instances[0].Speaker != "03" {
		t.Fatalf("unexpected first instance: %#v", instances[0])
	}
	if instances[1].Name != "16b10Nb" || instances[1].Label != "neutral" || instances[1].Speaker != "16" {
		t.Fatalf("unexpected second instance: %#v", instances[1])
	}
}

func TestSaveAndGet(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)

	ctx := context.Background()
	saved, err := store.Save(ctx, sampleRecord("emodb", "/data/emodb.arff"), sampleInstances())
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if saved.ID == 0 {
		t.Fatal("expected record ID to be assigned")
	}
	if saved.CreatedAt.IsZero() {
		t.Fatal("expected created timestamp to be set")
	}

	fetched, err := store.GetByID(ctx, saved.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched == nil {
		t.Fatal("expected record, got nil")
	}
	if fetched.Corpus != "emodb" || fetched.Source != "/data/emodb.arff" {
		t.Fatalf("unexpected fetched record: %#v", fetched)
	}
	if fetched.Normalize != "speaker" || !fetched.Binarize || fetched.PadMultiple != 4 || fetched.RunID != "run-1" {
		t.Fatalf("expected ingest knobs persisted, got %#v", fetched)
	}
	if !fetched.CreatedAt.Equal(saved.CreatedAt) {
		t.Fatalf("expected created timestamp round-trip, saved %v fetched %v", saved.CreatedAt, fetched.CreatedAt)
	}

	missing, err := store.GetByID(ctx, saved.ID+100)
	if err != nil {
		t.Fatalf("GetByID missing failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing record, got %#v", missing)
	}

	instances, err := store.Instances(ctx, saved.ID)
	if err != nil {
		t.Fatalf("Instances failed: %v", err)
	}
	if len(instances) != 2 {
		t.Fatalf("expected 2 instance rows, got %d", len(instances))
	}
	if instances[0].Name != "03a01Fa" || instances[1].Name != "03a01Nc" {
		t.Fatalf("expected instance order preserved, got %#v", instances)
	}
	if instances[0].Label != "happiness" || instances[0].Speaker != "03" {
		t.Fatalf("unexpected instance detail: %#v", instances[0])
	}
}

func TestSaveSupersedesInstanceRows(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)

	ctx := context.Background()
	first, err := store.Save(ctx, sampleRecord("emodb", "/data/emodb.arff"), sampleInstances())
	if err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	second, err := store.Save(ctx, sampleRecord("emodb", "/data/emodb.arff"), sampleInstances())
	if err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	if second.ID == first.ID {
		t.Fatal("expected a fresh record per save")
	}

	stale, err := store.Instances(ctx, first.ID)
	if err != nil {
		t.Fatalf("Instances for first record failed: %v", err)
	}
	if len(stale) != 0 {
		t.Fatalf("expected superseded instance rows dropped, got %d", len(stale))
	}

	fresh, err := store.Instances(ctx, second.ID)
	if err != nil {
		t.Fatalf("Instances for second record failed: %v", err)
	}
	if len(fresh) != 2 {
		t.Fatalf("expected 2 fresh instance rows, got %d", len(fresh))
	}

	latest, err := store.LatestBySource(ctx, "/data/emodb.arff")
	if err != nil {
		t.Fatalf("LatestBySource failed: %v", err)
	}
	if latest == nil || latest.ID != second.ID {
		t.Fatalf("expected latest record %d, got %#v", second.ID, latest)
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected both records kept as history, got %d", len(records))
	}
}

func TestListFiltersByCorpus(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)

	ctx := context.Background()
	a, err := store.Save(ctx, sampleRecord("emodb", "/data/emodb.arff"), nil)
	if err != nil {
		t.Fatalf("Save emodb: %v", err)
	}
	b, err := store.Save(ctx, sampleRecord("ravdess", "/data/ravdess.nc"), nil)
	if err != nil {
		t.Fatalf("Save ravdess: %v", err)
	}
	c, err := store.Save(ctx, sampleRecord("emodb", "/data/emodb_frames.arff"), nil)
	if err != nil {
		t.Fatalf("Save emodb frames: %v", err)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}
	if all[0].ID != a.ID || all[1].ID != b.ID || all[2].ID != c.ID {
		t.Fatalf("expected insertion order, got IDs %d,%d,%d", all[0].ID, all[1].ID, all[2].ID)
	}

	filtered, err := store.List(ctx, "emodb")
	if err != nil {
		t.Fatalf("filtered List failed: %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("expected 2 emodb records, got %d", len(filtered))
	}
	if filtered[0].ID != a.ID || filtered[1].ID != c.ID {
		t.Fatalf("unexpected filtered order: got %d,%d", filtered[0].ID, filtered[1].ID)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats["emodb"] != 2 || stats["ravdess"] != 1 {
		t.Fatalf("unexpected stats: %#v", stats)
	}
}

func TestRemoveAndClear(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)

	ctx := context.Background()
	rec, err := store.Save(ctx, sampleRecord("emodb", "/data/emodb.arff"), sampleInstances())
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	removed, err := store.Remove(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if !removed {
		t.Fatal("expected record removed")
	}
	removed, err = store.Remove(ctx, rec.ID)
	if err != nil {
		t.Fatalf("second Remove failed: %v", err)
	}
	if removed {
		t.Fatal("expected second remove to be a no-op")
	}

	instances, err := store.Instances(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Instances after remove failed: %v", err)
	}
	if len(instances) != 0 {
		t.Fatalf("expected instance rows cascaded away, got %d", len(instances))
	}

	if _, err := store.Save(ctx, sampleRecord("emodb", "/data/a.arff"), nil); err != nil {
		t.Fatalf("Save a: %v", err)
	}
	if _, err := store.Save(ctx, sampleRecord("ravdess", "/data/b.nc"), nil); err != nil {
		t.Fatalf("Save b: %v", err)
	}

	count, err := store.ClearCorpus(ctx, "emodb")
	if err != nil {
		t.Fatalf("ClearCorpus failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 emodb record cleared, got %d", count)
	}

	count, err = store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 remaining record cleared, got %d", count)
	}
}

func TestOpenRejectsSecondProcess(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}

	if _, err := catalog.Open(cfg); err == nil {
		t.Fatal("expected second Open to fail while lock is held")
	}

	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("reopen after Close failed: %v", err)
	}
	if err := reopened.Close(); err != nil {
		t.Fatalf("Close reopened failed: %v", err)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	path := store.Path()
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("raw open failed: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version failed: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("raw close failed: %v", err)
	}

	if _, err := catalog.Open(cfg); !errors.Is(err, catalog.ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch error, got %v", err)
	}
}

func TestCheckHealth(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)

	ctx := context.Background()
	if _, err := store.Save(ctx, sampleRecord("emodb", "/data/emodb.arff"), nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	health, err := store.CheckHealth(ctx)
	if err != nil {
		t.Fatalf("CheckHealth failed: %v", err)
	}
	if !health.DatabaseExists || !health.DatabaseReadable || !health.TableExists {
		t.Fatalf("expected healthy database, got %#v", health)
	}
	if !health.IntegrityCheck {
		t.Fatal("expected integrity check to pass")
	}
	if health.TotalRecords != 1 {
		t.Fatalf("expected 1 record counted, got %d", health.TotalRecords)
	}
	if health.DBPath != store.Path() {
		t.Fatalf("expected path %q, got %q", store.Path(), health.DBPath)
	}
}
