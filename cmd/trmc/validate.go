package main

import (
	"os"

	"github.com/aretw0/trmc/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a program for errors without running it",
	Long: `Reports invalid characters, unreachable characters after a jump, invalid jump
targets, unused states, malformed states and paths that loop forever.
Exits with status 1 when anything is found.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if md, _ := cmd.Flags().GetBool("markdown"); md {
			format = cli.FormatMarkdown
		}
		return cli.Validate(cli.ValidateOptions{
			Path:   programPath(args),
			Format: format,
			Engine: engineOptions(),
			Logger: logger,
			Stdin:  os.Stdin,
			Stdout: cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().String("format", cli.FormatText, "Report format: text, markdown or json")
	validateCmd.Flags().Bool("markdown", false, "Shorthand for --format markdown")
}
