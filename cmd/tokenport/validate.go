package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tokenport/tokenport/internal/validate"
)

func newValidateCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Validate references, cycles, and token shapes across files",
		Long: `Validate normalizes the given files and checks the combined batch:
missing references, circular reference chains, type compatibility of
aliases, and token naming. The whole batch is checked together, so
cross-file references resolve.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := expandPaths(args)
			if err != nil {
				return err
			}

			cols, _, fileErrs, err := ingestAll(paths)
			if err != nil {
				return err
			}
			for _, msg := range fileErrs {
				fmt.Printf("skipped: %s\n", msg)
			}

			report := validate.Batch(cols)
			if asJSON {
				if err := printJSON(report); err != nil {
					return err
				}
			} else {
				printReport(report)
			}

			if !report.Valid {
				return fmt.Errorf("validation failed: %d errors", len(report.Errors))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output machine-readable JSON")

	return cmd
}

func printReport(report *validate.Report) {
	fmt.Printf("tokens: %d, references: %d, max depth: %d\n",
		report.Stats.TotalTokens, report.Stats.TotalReferences, report.Stats.MaxReferenceDepth)

	for _, e := range report.Errors {
		fmt.Printf("error: %s: %s\n", e.Token, e.Message)
		if e.Suggestion != "" {
			fmt.Printf("  suggestion: %s\n", e.Suggestion)
		}
	}
	for _, w := range report.Warnings {
		fmt.Printf("warning: %s: %s\n", w.Token, w.Message)
	}

	if report.Valid {
		fmt.Println("valid")
	}
}
