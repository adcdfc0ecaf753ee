package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"serdata/internal/arff"
	"serdata/internal/catalog"
	"serdata/internal/config"
	"serdata/internal/dataset"
	"serdata/internal/ingest"
	"serdata/internal/logging"
	"serdata/internal/normalize"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var (
		corpusID      string
		formatName    string
		annotations   string
		normalizeName string
		binarize      bool
		frames        bool
		padMultiple   int
		save          bool
		jsonOut       bool
		noProgress    bool
	)

	cmd := &cobra.Command{
		Use:   "ingest <source>",
		Short: "Build a dataset from a feature artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			reg, err := ctx.ensureRegistry()
			if err != nil {
				return err
			}

			source, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}

			format, err := ingest.ParseFormat(formatName)
			if err != nil {
				return err
			}

			if strings.TrimSpace(normalizeName) == "" {
				normalizeName = cfg.Ingest.Normalize
			}
			method, err := normalize.ParseMethod(normalizeName)
			if err != nil {
				return err
			}

			// Flags override the config; unset flags fall back to it.
			flags := cmd.Flags()
			if !flags.Changed("binarize") {
				binarize = cfg.Ingest.Binarize
			}
			if !flags.Changed("pad") {
				padMultiple = cfg.Ingest.PadMultiple
			}

			logger, err := logging.NewCommandLogger(cfg)
			if err != nil {
				return err
			}

			opts := ingest.Options{
				Corpus:      corpusID,
				Format:      format,
				Annotations: annotations,
				Normalize:   method,
				Binarize:    binarize,
				Frames:      frames,
				PadMultiple: padMultiple,
			}
			if len(cfg.Ingest.Decoder) > 0 {
				decoder, err := arff.NewExecDecoder(cfg.Ingest.Decoder...)
				if err != nil {
					return err
				}
				opts.Decoder = decoder
			}

			// The bar is created lazily on the first progress callback, once
			// the decoder knows the total.
			var progress *mpb.Progress
			var bar *mpb.Bar
			if cfg.Ingest.Progress && !noProgress && !jsonOut && isTerminal(cmd.OutOrStdout()) {
				progress = mpb.New(mpb.WithWidth(64), mpb.WithOutput(cmd.ErrOrStderr()))
				opts.Progress = func(done, total int) {
					if bar == nil {
						bar = progress.AddBar(int64(total),
							mpb.PrependDecorators(
								decor.Name("Decoding: "),
								decor.CountersNoUnit("%d / %d"),
							),
							mpb.AppendDecorators(decor.Percentage()),
						)
					}
					bar.SetCurrent(int64(done))
				}
			}

			res, runErr := ingest.File(cmd.Context(), source, reg, opts, logger)
			if progress != nil {
				if bar != nil && runErr != nil {
					bar.Abort(true)
				}
				progress.Wait()
			}
			if runErr != nil {
				return runErr
			}

			var saved *catalog.Record
			if save {
				if !cfg.Catalog.Enabled {
					return errors.New("catalog is disabled in the configuration")
				}
				rec, instances := catalog.Describe(res.Dataset, res.Source, string(res.Format))
				rec.Normalize = string(method)
				rec.Binarize = binarize
				rec.PadMultiple = padMultiple
				rec.RunID = res.RunID
				if err := ctx.withCatalog(func(store *catalog.Store) error {
					var saveErr error
					saved, saveErr = store.Save(cmd.Context(), rec, instances)
					return saveErr
				}); err != nil {
					return err
				}
			}

			if jsonOut {
				return writeJSON(cmd, buildIngestSummary(res, method, binarize, padMultiple, saved))
			}

			ds := res.Dataset
			fields := [][2]string{
				{"Corpus", ds.Corpus},
				{"Source", res.Source},
				{"Format", string(res.Format)},
				{"Granularity", string(ds.Granularity)},
				{"Instances", strconv.Itoa(ds.NumInstances())},
				{"Features", strconv.Itoa(ds.NumFeatures())},
				{"Classes", displayLabels(ds.Classes)},
				{"Speakers", fmt.Sprintf("%d (%d present)", ds.NumSpeakers(), speakersPresent(ds))},
				{"Normalize", string(method)},
				{"Binarize", yesNo(binarize)},
			}
			if padMultiple > 0 {
				fields = append(fields, [2]string{"Pad multiple", strconv.Itoa(padMultiple)})
			}
			fields = append(fields, [2]string{"Elapsed", res.Elapsed.Round(time.Millisecond).String()})
			if saved != nil {
				fields = append(fields, [2]string{"Catalog record", strconv.FormatInt(saved.ID, 10)})
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, renderKV(fields))

			counts := ds.ClassCounts()
			rows := make([][]string, len(ds.Classes))
			for i, label := range ds.Classes {
				rows[i] = []string{displayLabel(label), strconv.Itoa(counts[i])}
			}
			fmt.Fprintln(out)
			fmt.Fprint(out, renderTable(
				[]string{"Label", "Instances"},
				rows,
				"lr",
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&corpusID, "corpus", "", "Corpus the source belongs to (default: named by the artifact)")
	cmd.Flags().StringVar(&formatName, "format", "auto", "Source format: auto, arff, packed, gridded, audio")
	cmd.Flags().StringVar(&annotations, "annotations", "", "Annotation file for gridded sources")
	cmd.Flags().StringVar(&normalizeName, "normalize", "", "Standardization method: speaker, all, none")
	cmd.Flags().BoolVar(&binarize, "binarize", false, "Add one-vs-rest and arousal/valence label views")
	cmd.Flags().BoolVar(&frames, "frames", false, "Aggregate matrix rows into per-utterance sequences")
	cmd.Flags().IntVar(&padMultiple, "pad", 0, "Pad sequences with zero rows to a length multiple")
	cmd.Flags().BoolVar(&save, "save", false, "Record the build in the catalog")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the build summary as JSON")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the decode progress bar")
	return cmd
}

// speakersPresent counts roster speakers with at least one instance.
func speakersPresent(ds *dataset.Dataset) int {
	present := 0
	for _, c := range ds.SpeakerCounts() {
		if c > 0 {
			present++
		}
	}
	return present
}

type ingestSummaryJSON struct {
	Corpus          string   `json:"corpus"`
	Source          string   `json:"source"`
	Format          string   `json:"format"`
	Granularity     string   `json:"granularity"`
	Instances       int      `json:"instances"`
	Features        int      `json:"features"`
	Classes         []string `json:"classes"`
	ClassCounts     []int    `json:"class_counts"`
	Speakers        int      `json:"speakers"`
	SpeakersPresent int      `json:"speakers_present"`
	Normalize       string   `json:"normalize"`
	Binarize        bool     `json:"binarize"`
	PadMultiple     int      `json:"pad_multiple,omitempty"`
	RunID           string   `json:"run_id"`
	ElapsedMS       int64    `json:"elapsed_ms"`
	CatalogID       int64    `json:"catalog_id,omitempty"`
}

func buildIngestSummary(res *ingest.Result, method normalize.Method, binarize bool, padMultiple int, saved *catalog.Record) ingestSummaryJSON {
	ds := res.Dataset
	summary := ingestSummaryJSON{
		Corpus:          ds.Corpus,
		Source:          res.Source,
		Format:          string(res.Format),
		Granularity:     string(ds.Granularity),
		Instances:       ds.NumInstances(),
		Features:        ds.NumFeatures(),
		Classes:         ds.Classes,
		ClassCounts:     ds.ClassCounts(),
		Speakers:        ds.NumSpeakers(),
		SpeakersPresent: speakersPresent(ds),
		Normalize:       string(method),
		Binarize:        binarize,
		PadMultiple:     padMultiple,
		RunID:           res.RunID,
		ElapsedMS:       res.Elapsed.Milliseconds(),
	}
	if saved != nil {
		summary.CatalogID = saved.ID
	}
	return summary
}
