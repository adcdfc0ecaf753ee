package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"serdata/internal/arff"
	"serdata/internal/audiofiles"
	"serdata/internal/corpus"
	"serdata/internal/dataset"
	"serdata/internal/griddata"
	"serdata/internal/logging"
	"serdata/internal/normalize"
	"serdata/internal/sequence"
)

// Format identifies a source artifact encoding.
type Format string

const (
	// FormatAuto detects the format from the source file extension.
	FormatAuto Format = "auto"
	// FormatARFF reads text attribute files.
	FormatARFF Format = "arff"
	// FormatPacked reads packed feature files through the external decoder.
	FormatPacked Format = "packed"
	// FormatGridded reads gridded-array containers.
	FormatGridded Format = "gridded"
	// FormatAudio reads newline-delimited audio file lists.
	FormatAudio Format = "audio"
)

// ParseFormat validates a format name from configuration or flags.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatARFF:
		return FormatARFF, nil
	case FormatPacked:
		return FormatPacked, nil
	case FormatGridded:
		return FormatGridded, nil
	case FormatAudio:
		return FormatAudio, nil
	}
	return "", fmt.Errorf("unknown source format %q (have auto, arff, packed, gridded, audio)", s)
}

// DetectFormat maps a source file extension to its format.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".arff":
		return FormatARFF, nil
	case ".bin":
		return FormatPacked, nil
	case ".nc":
		return FormatGridded, nil
	case ".txt", ".lst":
		return FormatAudio, nil
	}
	return "", fmt.Errorf("cannot detect source format of %q (use an explicit format)", path)
}

// Options configure a single dataset build.
type Options struct {
	// Corpus names the registry entry. Empty falls back to the corpus id
	// carried by the source artifact (the ARFF relation name).
	Corpus string
	// Format of the source; FormatAuto detects it from the extension.
	Format Format
	// Annotations is the classification annotation file joined with gridded
	// containers. Empty probes labels.csv beside the source.
	Annotations string
	// Normalize selects the standardization method. Empty means
	// normalize.Speaker.
	Normalize normalize.Method
	// Binarize adds the auxiliary binary label views.
	Binarize bool
	// Frames treats matrix rows as frames and aggregates them into
	// per-utterance sequences after standardization.
	Frames bool
	// PadMultiple post-pads sequences with zero rows to the next multiple.
	// Zero disables padding.
	PadMultiple int
	// Decoder converts packed feature files. Required for FormatPacked.
	Decoder arff.Decoder
	// Progress, when set, receives audio decode progress.
	Progress func(done, total int)
}

// Result carries the built dataset and build metadata.
type Result struct {
	Dataset *dataset.Dataset
	Source  string
	Format  Format
	RunID   string
	Elapsed time.Duration
}

// File builds one dataset from the source artifact at path.
func File(ctx context.Context, path string, reg *corpus.Registry, opts Options, logger *slog.Logger) (*Result, error) {
	start := time.Now()
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("no source artifact given")
	}

	format := opts.Format
	if format == FormatAuto || format == "" {
		detected, err := DetectFormat(path)
		if err != nil {
			return nil, err
		}
		format = detected
	}

	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	log := logging.WithContext(ctx, logging.NewComponentLogger(logger, "ingest"))

	log.Info("reading source", logging.Args(
		logging.String(logging.FieldSource, path),
		logging.String(logging.FieldFormat, string(format)),
	)...)

	tbl, err := readTable(path, format, opts)
	if err != nil {
		return nil, err
	}

	corpusID := strings.TrimSpace(opts.Corpus)
	if corpusID == "" {
		corpusID = strings.TrimSpace(tbl.Corpus)
	}
	if corpusID == "" {
		return nil, fmt.Errorf("source %s does not name a corpus; pass one explicitly", path)
	}
	meta, err := reg.Resolve(corpusID)
	if err != nil {
		return nil, err
	}

	log.Info("assembling dataset", logging.Args(
		logging.String(logging.FieldCorpus, meta.ID),
		logging.Int("instances", tbl.Rows()),
	)...)

	ds, err := dataset.Assemble(tbl, meta, dataset.Options{Binarize: opts.Binarize})
	if err != nil {
		return nil, err
	}

	method := opts.Normalize
	if method == "" {
		method = normalize.Speaker
	}
	if ds.X != nil && method != normalize.None {
		scaled, err := normalize.Standardize(ds.X, ds.SpeakerIndices, ds.NumSpeakers(), method)
		if err != nil {
			return nil, fmt.Errorf("standardize %s: %w", meta.ID, err)
		}
		ds.X = scaled
		log.Debug("standardized features", logging.Args(logging.String("method", string(method)))...)
	} else if ds.Seqs != nil && method != normalize.None {
		// Raw sample sequences pass through unscaled.
		log.Debug("sequence payload skips standardization")
	}

	if opts.Frames {
		if ds.X == nil {
			return nil, fmt.Errorf("frame aggregation needs a row matrix, %s carries sequences", path)
		}
		seqs, names, starts, err := sequence.Group(ds.X, ds.Names)
		if err != nil {
			return nil, fmt.Errorf("aggregate %s: %w", meta.ID, err)
		}
		tokens := make([]string, len(starts))
		for i, s := range starts {
			tokens[i] = ds.Classes[ds.Y[s]]
		}
		seqTbl := dataset.Table{
			Corpus: tbl.Corpus,
			Names:  names,
			Attrs:  tbl.Attrs,
			Tokens: tokens,
			Seqs:   seqs,
		}
		ds, err = dataset.Assemble(seqTbl, meta, dataset.Options{Binarize: opts.Binarize})
		if err != nil {
			return nil, err
		}
		log.Info("aggregated frames", logging.Args(logging.Int("sequences", len(seqs)))...)
	}

	if opts.PadMultiple > 0 {
		if ds.Seqs == nil {
			return nil, fmt.Errorf("pad multiple %d set but the dataset has no sequences", opts.PadMultiple)
		}
		padded, err := sequence.Pad(ds.Seqs, opts.PadMultiple)
		if err != nil {
			return nil, fmt.Errorf("pad %s: %w", meta.ID, err)
		}
		ds.Seqs = padded
	}

	elapsed := time.Since(start)
	log.Info("dataset ready", logging.Args(
		logging.String(logging.FieldCorpus, ds.Corpus),
		logging.String(logging.FieldGranularity, string(ds.Granularity)),
		logging.Int("instances", ds.NumInstances()),
		logging.Int("features", ds.NumFeatures()),
		logging.Int("classes", ds.NumClasses()),
		logging.Int("speakers", ds.NumSpeakers()),
		logging.Duration("elapsed", elapsed),
	)...)

	return &Result{
		Dataset: ds,
		Source:  path,
		Format:  format,
		RunID:   runID,
		Elapsed: elapsed,
	}, nil
}

func readTable(path string, format Format, opts Options) (dataset.Table, error) {
	switch format {
	case FormatARFF:
		rel, err := arff.Load(path)
		if err != nil {
			return dataset.Table{}, err
		}
		return arff.Table(rel)
	case FormatPacked:
		rel, err := arff.LoadPacked(path, opts.Decoder)
		if err != nil {
			return dataset.Table{}, err
		}
		return arff.Table(rel)
	case FormatGridded:
		annotations := opts.Annotations
		if annotations == "" {
			annotations = filepath.Join(filepath.Dir(path), "labels.csv")
		}
		return griddata.ReadFile(path, annotations)
	case FormatAudio:
		return audiofiles.Read(path, audiofiles.Options{Progress: opts.Progress})
	}
	return dataset.Table{}, fmt.Errorf("unknown source format %q", format)
}
