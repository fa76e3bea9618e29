package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tokenport/tokenport/internal/importer"
	"github.com/tokenport/tokenport/internal/store"
)

func newImportCommand() *cobra.Command {
	var asJSON bool
	var chunkSize int

	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Import design-token files into a variable store",
		Long: `Import normalizes the given files, validates the combined batch, and
creates collections, modes, and variables in dependency order. References
become aliases in a final resolution pass.

The current backend is an in-memory store, which makes this a full
dry-run of the import: the report shows exactly what a real backend
would receive.`,
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

			vs := store.NewMemoryStore()
			result, err := importer.ImportCollections(cmd.Context(), vs, cols, importer.Options{ChunkSize: chunkSize})
			if err != nil {
				return err
			}
			result.Errors = append(fileErrs, result.Errors...)

			if asJSON {
				if err := printJSON(result); err != nil {
					return err
				}
			} else {
				printImportResult(result)
			}

			if !result.Success {
				return fmt.Errorf("import failed: %d errors", len(result.Errors))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output machine-readable JSON")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "Tokens per processing chunk (default 50)")

	return cmd
}

func printImportResult(result *importer.Result) {
	fmt.Printf("collections: %d, variables: %d, references resolved: %d\n",
		result.CollectionsProcessed, result.VariablesCreated, result.ReferencesResolved)

	for _, path := range result.UnresolvedReferences {
		fmt.Printf("unresolved: %s\n", path)
	}
	for _, msg := range result.Errors {
		fmt.Printf("error: %s\n", msg)
	}
	for _, msg := range result.Warnings {
		fmt.Printf("warning: %s\n", msg)
	}

	if result.Success {
		fmt.Println("ok")
	}
}
