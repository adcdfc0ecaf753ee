package catalog

import (
	"time"

	"serdata/internal/dataset"
)

// Record is one catalogued ingest: where the dataset came from, its shape,
// and the knobs that produced it.
type Record struct {
	ID          int64
	Corpus      string
	Source      string
	Format      string
	Granularity string
	Instances   int
	Features    int
	Classes     int
	Speakers    int
	Normalize   string
	Binarize    bool
	PadMultiple int
	RunID       string
	CreatedAt   time.Time
}

// Instance is one catalogued dataset row: resolved instance name, class
// label, and speaker. Only the most recent ingest of a source keeps its
// instance rows.
type Instance struct {
	Name    string
	Label   string
	Speaker string
}

// DatabaseHealth captures diagnostic information about the catalog database.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	TableExists      bool
	IntegrityCheck   bool
	TotalRecords     int
	Error            string
}

// Describe builds the catalog record and instance rows for an assembled
// dataset. The caller fills in the ingest knobs (normalize method, binarize,
// pad multiple, run id) before saving.
func Describe(ds *dataset.Dataset, source, format string) (*Record, []Instance) {
	rec := &Record{
		Corpus:      ds.Corpus,
		Source:      source,
		Format:      format,
		Granularity: string(ds.Granularity),
		Instances:   ds.NumInstances(),
		Features:    ds.NumFeatures(),
		Classes:     ds.NumClasses(),
		Speakers:    ds.NumSpeakers(),
	}

	instances := make([]Instance, ds.NumInstances())
	for i, name := range ds.Names {
		instances[i] = Instance{
			Name:    name,
			Label:   ds.Classes[ds.Y[i]],
			Speaker: ds.Speakers[ds.SpeakerIndices[i]],
		}
	}
	return rec, instances
}
