package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var titleCaser = cases.Title(language.Und)

// displayLabel renders a canonical label name for humans, e.g. "anger"
// becomes "Anger".
func displayLabel(label string) string {
	return titleCaser.String(label)
}

// displayLabels joins title-cased label names for a one-line listing.
func displayLabels(labels []string) string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = displayLabel(l)
	}
	return strings.Join(out, ", ")
}

func pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
