package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tokenport/tokenport/internal/format"
)

func newDetectCommand() *cobra.Command {
	var asJSON bool
	var all bool

	cmd := &cobra.Command{
		Use:   "detect <file>...",
		Short: "Detect the dialect of design-token files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := expandPaths(args)
			if err != nil {
				return err
			}
			return runDetect(paths, all, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output machine-readable JSON")
	cmd.Flags().BoolVar(&all, "all", false, "Show every adapter's confidence, not just the winner")

	return cmd
}

type detectOutput struct {
	File       string                   `json:"file"`
	Format     string                   `json:"format"`
	Confidence float64                  `json:"confidence"`
	Structure  format.StructureInfo     `json:"structureInfo"`
	Candidates []format.DetectionResult `json:"candidates,omitempty"`
}

func runDetect(paths []string, all, asJSON bool) error {
	var outputs []detectOutput

	for _, path := range paths {
		if strings.EqualFold(filepath.Ext(path), ".css") {
			outputs = append(outputs, detectOutput{File: path, Format: "css-stylesheet", Confidence: 1})
			continue
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		data, err := format.Parse(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		manager := format.NewManager()
		manager.ActivateAll()
		candidates := manager.Registry().DetectAll(data)

		out := detectOutput{File: path}
		for i, c := range candidates {
			if i == 0 || c.Confidence > out.Confidence {
				out.Format = c.Format
				out.Confidence = c.Confidence
				out.Structure = c.Structure
			}
		}
		if all {
			out.Candidates = candidates
		}
		outputs = append(outputs, out)
	}

	if asJSON {
		return printJSON(outputs)
	}
	for _, out := range outputs {
		fmt.Printf("%s: %s (confidence %.2f)\n", out.File, out.Format, out.Confidence)
		for _, c := range out.Candidates {
			fmt.Printf("  %-18s %.2f\n", c.Format, c.Confidence)
		}
	}
	return nil
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
