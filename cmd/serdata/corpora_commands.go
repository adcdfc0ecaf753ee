package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"serdata/internal/corpus"
)

func newCorporaCommand(ctx *commandContext) *cobra.Command {
	corporaCmd := &cobra.Command{
		Use:   "corpora",
		Short: "List registered corpora",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := ctx.ensureRegistry()
			if err != nil {
				return err
			}

			rows := make([][]string, 0, reg.Len())
			for _, id := range reg.IDs() {
				meta, err := reg.Resolve(id)
				if err != nil {
					return err
				}
				rows = append(rows, []string{
					meta.ID,
					strconv.Itoa(len(meta.Classes())),
					strconv.Itoa(len(meta.Speakers)),
					yesNo(meta.HasGenders()),
					yesNo(hasBinaryViews(meta)),
				})
			}

			table := renderTable(
				[]string{"Corpus", "Classes", "Speakers", "Genders", "Binary"},
				rows,
				"lrrll",
			)
			fmt.Fprint(cmd.OutOrStdout(), table)
			return nil
		},
	}

	corporaCmd.AddCommand(newCorporaShowCommand(ctx))
	return corporaCmd
}

func newCorporaShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <corpus>",
		Short: "Show corpus metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := ctx.ensureRegistry()
			if err != nil {
				return err
			}
			meta, err := reg.Resolve(args[0])
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, buildCorpusDetail(meta))
			}

			out := cmd.OutOrStdout()
			fields := [][2]string{
				{"Corpus", meta.ID},
				{"Classes", displayLabels(meta.Classes())},
				{"Speakers", speakerSummary(meta)},
			}
			if groups := countSpeakerGroups(meta.SpeakerGroups); groups > 0 {
				fields = append(fields, [2]string{"Speaker groups", strconv.Itoa(groups)})
			}
			fields = append(fields,
				[2]string{"Binary views", yesNo(hasBinaryViews(meta))},
				[2]string{"Labels from", labelOrigin(meta)},
			)
			fmt.Fprint(out, renderKV(fields))

			if len(meta.Labels) > 0 {
				rows := make([][]string, 0, len(meta.Labels))
				for _, pair := range meta.Labels {
					rows = append(rows, []string{pair.Code, displayLabel(pair.Label)})
				}
				fmt.Fprintln(out)
				fmt.Fprint(out, renderTable(
					[]string{"Code", "Label"},
					rows,
					"ll",
				))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit corpus metadata as JSON")
	return cmd
}

func hasBinaryViews(meta corpus.Meta) bool {
	return meta.Arousal != nil && meta.Valence != nil
}

func speakerSummary(meta corpus.Meta) string {
	if meta.HasGenders() {
		return fmt.Sprintf("%d (%d male, %d female)",
			len(meta.Speakers), len(meta.MaleSpeakers), len(meta.FemaleSpeakers))
	}
	return strconv.Itoa(len(meta.Speakers))
}

func countSpeakerGroups(groups []int) int {
	if groups == nil {
		return 0
	}
	seen := make(map[int]struct{}, len(groups))
	for _, g := range groups {
		seen[g] = struct{}{}
	}
	return len(seen)
}

// labelOrigin names where instance labels come from during ingest.
func labelOrigin(meta corpus.Meta) string {
	if meta.LabelRule != nil {
		return "instance names"
	}
	return "artifact or annotations"
}

type corpusLabelJSON struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

type corpusDetailJSON struct {
	ID             string            `json:"id"`
	Classes        []string          `json:"classes"`
	Labels         []corpusLabelJSON `json:"labels,omitempty"`
	Speakers       []string          `json:"speakers"`
	MaleSpeakers   []string          `json:"male_speakers,omitempty"`
	FemaleSpeakers []string          `json:"female_speakers,omitempty"`
	SpeakerGroups  []int             `json:"speaker_groups,omitempty"`
	BinaryViews    bool              `json:"binary_views"`
}

func buildCorpusDetail(meta corpus.Meta) corpusDetailJSON {
	detail := corpusDetailJSON{
		ID:             meta.ID,
		Classes:        meta.Classes(),
		Speakers:       meta.Speakers,
		MaleSpeakers:   meta.MaleSpeakers,
		FemaleSpeakers: meta.FemaleSpeakers,
		SpeakerGroups:  meta.SpeakerGroups,
		BinaryViews:    hasBinaryViews(meta),
	}
	for _, pair := range meta.Labels {
		detail.Labels = append(detail.Labels, corpusLabelJSON{Code: pair.Code, Label: pair.Label})
	}
	return detail
}
