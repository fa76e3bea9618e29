package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tokenport/tokenport/internal/log"
	"github.com/tokenport/tokenport/internal/version"
)

func newRootCommand() *cobra.Command {
	var verbose bool
	var quiet bool

	cmd := &cobra.Command{
		Use:   "tokenport",
		Short: "Import design tokens from any dialect into a variable store",
		Long: `tokenport detects the dialect of a design-token file (W3C DTCG,
Tokens Studio, Style Dictionary, Material Theme Builder, CSS custom
properties, and plain CSS stylesheets), normalizes it into a canonical
collection/mode representation, validates its references, and imports it
into a variable store in dependency order.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			switch {
			case verbose:
				log.SetLevel(log.LevelDebug)
			case quiet:
				log.SetLevel(log.LevelError)
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only log errors")

	cmd.AddCommand(
		newDetectCommand(),
		newConvertCommand(),
		newValidateCommand(),
		newImportCommand(),
		newVersionCommand(),
	)

	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.GetFullVersion())
		},
	}
}
