package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tokenport/tokenport/internal/log"
	"github.com/tokenport/tokenport/internal/tokens"
)

func newConvertCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "convert <file>...",
		Short: "Convert design-token files to the canonical collection format",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := expandPaths(args)
			if err != nil {
				return err
			}

			cols, results, fileErrs, err := ingestAll(paths)
			if err != nil {
				return err
			}
			for _, msg := range fileErrs {
				log.Warn("skipped: %s", msg)
			}
			for _, result := range results {
				log.Debug("converted %s document: %d collections, %d transformations",
					result.Format, result.Stats.Collections, len(result.Transformations))
			}

			data, err := tokens.MarshalCanonical(cols)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				fmt.Println(string(data))
				return nil
			}
			if err := os.WriteFile(output, append(data, '\n'), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			log.Info("wrote %d collections to %s", len(cols), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")

	return cmd
}
