package main

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"serdata/internal/catalog"
	"serdata/internal/config"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and manage the dataset catalog",
	}

	catalogCmd.AddCommand(newCatalogListCommand(ctx))
	catalogCmd.AddCommand(newCatalogShowCommand(ctx))
	catalogCmd.AddCommand(newCatalogStatsCommand(ctx))
	catalogCmd.AddCommand(newCatalogRemoveCommand(ctx))
	catalogCmd.AddCommand(newCatalogClearCommand(ctx))
	catalogCmd.AddCommand(newCatalogHealthCommand(ctx))

	return catalogCmd
}

func newCatalogListCommand(ctx *commandContext) *cobra.Command {
	var corpora []string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog records",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(func(store *catalog.Store) error {
				records, err := store.List(cmd.Context(), corpora...)
				if err != nil {
					return err
				}

				if jsonOut {
					views := make([]catalogRecordJSON, len(records))
					for i, rec := range records {
						views[i] = buildCatalogRecord(rec)
					}
					return writeJSON(cmd, views)
				}

				if len(records) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Catalog is empty")
					return nil
				}
				rows := make([][]string, len(records))
				for i, rec := range records {
					rows[i] = []string{
						strconv.FormatInt(rec.ID, 10),
						rec.Corpus,
						rec.Format,
						rec.Granularity,
						strconv.Itoa(rec.Instances),
						strconv.Itoa(rec.Features),
						rec.CreatedAt.Format(time.RFC3339),
					}
				}
				table := renderTable(
					[]string{"ID", "Corpus", "Format", "Granularity", "Instances", "Features", "Created"},
					rows,
					"rlllrrl",
				)
				fmt.Fprint(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&corpora, "corpus", nil, "Filter by corpus (repeatable)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit records as JSON")
	return cmd
}

func newCatalogShowCommand(ctx *commandContext) *cobra.Command {
	var withInstances bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <id|source>",
		Short: "Show one catalog record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(func(store *catalog.Store) error {
				rec, err := resolveCatalogRecord(cmd, store, args[0])
				if err != nil {
					return err
				}

				var instances []catalog.Instance
				if withInstances {
					instances, err = store.Instances(cmd.Context(), rec.ID)
					if err != nil {
						return err
					}
				}

				if jsonOut {
					view := struct {
						catalogRecordJSON
						Instances []catalogInstanceJSON `json:"instances,omitempty"`
					}{catalogRecordJSON: buildCatalogRecord(rec)}
					for _, inst := range instances {
						view.Instances = append(view.Instances, catalogInstanceJSON(inst))
					}
					return writeJSON(cmd, view)
				}

				out := cmd.OutOrStdout()
				fields := [][2]string{
					{"ID", strconv.FormatInt(rec.ID, 10)},
					{"Corpus", rec.Corpus},
					{"Source", rec.Source},
					{"Format", rec.Format},
					{"Granularity", rec.Granularity},
					{"Instances", strconv.Itoa(rec.Instances)},
					{"Features", strconv.Itoa(rec.Features)},
					{"Classes", strconv.Itoa(rec.Classes)},
					{"Speakers", strconv.Itoa(rec.Speakers)},
					{"Normalize", rec.Normalize},
					{"Binarize", yesNo(rec.Binarize)},
				}
				if rec.PadMultiple > 0 {
					fields = append(fields, [2]string{"Pad multiple", strconv.Itoa(rec.PadMultiple)})
				}
				if rec.RunID != "" {
					fields = append(fields, [2]string{"Run ID", rec.RunID})
				}
				fields = append(fields, [2]string{"Created", rec.CreatedAt.Format(time.RFC3339)})
				fmt.Fprint(out, renderKV(fields))

				if withInstances {
					if len(instances) == 0 {
						fmt.Fprintln(out)
						fmt.Fprintln(out, "No instance rows recorded")
						return nil
					}
					rows := make([][]string, len(instances))
					for i, inst := range instances {
						rows[i] = []string{inst.Name, displayLabel(inst.Label), inst.Speaker}
					}
					fmt.Fprintln(out)
					fmt.Fprint(out, renderTable(
						[]string{"Instance", "Label", "Speaker"},
						rows,
						"lll",
					))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&withInstances, "instances", false, "Include per-instance rows")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the record as JSON")
	return cmd
}

func newCatalogStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show record counts per corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(func(store *catalog.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				if len(stats) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Catalog is empty")
					return nil
				}

				corpora := make([]string, 0, len(stats))
				for corpusID := range stats {
					corpora = append(corpora, corpusID)
				}
				sort.Strings(corpora)

				rows := make([][]string, len(corpora))
				for i, corpusID := range corpora {
					rows[i] = []string{corpusID, strconv.Itoa(stats[corpusID])}
				}
				table := renderTable(
					[]string{"Corpus", "Records"},
					rows,
					"lr",
				)
				fmt.Fprint(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}
}

func newCatalogRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove one catalog record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid record id %q", args[0])
			}
			return ctx.withCatalog(func(store *catalog.Store) error {
				removed, err := store.Remove(cmd.Context(), id)
				if err != nil {
					return err
				}
				if !removed {
					fmt.Fprintf(cmd.OutOrStdout(), "Record %d not found\n", id)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed record %d\n", id)
				return nil
			})
		},
	}
}

func newCatalogClearCommand(ctx *commandContext) *cobra.Command {
	var corpusID string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove catalog records",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(func(store *catalog.Store) error {
				var removed int64
				var err error
				if corpusID != "" {
					removed, err = store.ClearCorpus(cmd.Context(), corpusID)
				} else {
					removed, err = store.Clear(cmd.Context())
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d catalog %s\n",
					removed, pluralize(int(removed), "record", "records"))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&corpusID, "corpus", "", "Remove only records for this corpus")
	return cmd
}

func newCatalogHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show catalog database health",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(func(store *catalog.Store) error {
				health, err := store.CheckHealth(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Database: %s\nReadable: %s\nSchema: %s\nIntegrity: %s\nRecords: %d\n",
					health.DBPath,
					yesNo(health.DatabaseReadable),
					yesNo(health.TableExists),
					yesNo(health.IntegrityCheck),
					health.TotalRecords,
				)
				if health.Error != "" {
					fmt.Fprintf(out, "Error: %s\n", health.Error)
				}
				return nil
			})
		},
	}
}

// resolveCatalogRecord accepts a numeric record ID or a source path. A path
// resolves to the most recent record for that source.
func resolveCatalogRecord(cmd *cobra.Command, store *catalog.Store, arg string) (*catalog.Record, error) {
	if id, parseErr := strconv.ParseInt(arg, 10, 64); parseErr == nil {
		rec, err := store.GetByID(cmd.Context(), id)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return nil, fmt.Errorf("no catalog record with ID %d", id)
		}
		return rec, nil
	}

	source, err := config.ExpandPath(arg)
	if err != nil {
		return nil, err
	}
	rec, err := store.LatestBySource(cmd.Context(), source)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("no catalog record for source %q", arg)
	}
	return rec, nil
}

type catalogRecordJSON struct {
	ID          int64  `json:"id"`
	Corpus      string `json:"corpus"`
	Source      string `json:"source"`
	Format      string `json:"format"`
	Granularity string `json:"granularity"`
	Instances   int    `json:"instances"`
	Features    int    `json:"features"`
	Classes     int    `json:"classes"`
	Speakers    int    `json:"speakers"`
	Normalize   string `json:"normalize,omitempty"`
	Binarize    bool   `json:"binarize"`
	PadMultiple int    `json:"pad_multiple,omitempty"`
	RunID       string `json:"run_id,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type catalogInstanceJSON struct {
	Name    string `json:"name"`
	Label   string `json:"label"`
	Speaker string `json:"speaker"`
}

func buildCatalogRecord(rec *catalog.Record) catalogRecordJSON {
	return catalogRecordJSON{
		ID:          rec.ID,
		Corpus:      rec.Corpus,
		Source:      rec.Source,
		Format:      rec.Format,
		Granularity: rec.Granularity,
		Instances:   rec.Instances,
		Features:    rec.Features,
		Classes:     rec.Classes,
		Speakers:    rec.Speakers,
		Normalize:   rec.Normalize,
		Binarize:    rec.Binarize,
		PadMultiple: rec.PadMultiple,
		RunID:       rec.RunID,
		CreatedAt:   rec.CreatedAt.Format(time.RFC3339),
	}
}
