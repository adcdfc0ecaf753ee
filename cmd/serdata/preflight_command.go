package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"serdata/internal/preflight"
)

func newPreflightCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "preflight",
		Short: "Check directories, corpus definitions, and the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			printer := newStatusPrinter(cmd.OutOrStdout())
			printer.section("Preflight checks")

			results := preflight.RunAll(cmd.Context(), cfg)
			failed := 0
			for _, res := range results {
				if !res.Passed {
					failed++
				}
				printer.check(res.Name, res.Passed, res.Detail)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d checks failed", failed, len(results))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nAll %d checks passed\n", len(results))
			return nil
		},
	}
}
