package main

import (
	"os"

	"github.com/aretw0/trmc/internal/cli"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph [file]",
	Short: "Export the state transition graph",
	Long: `Outputs a Mermaid diagram (graph TD) of the program's states and jumps.
With --input the program is run first and the state it halted in is highlighted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		input, _ := cmd.Flags().GetString("input")
		return cli.Graph(ctx, cli.GraphOptions{
			Path:     programPath(args),
			Input:    input,
			InputSet: cmd.Flags().Changed("input"),
			Engine:   engineOptions(),
			Logger:   logger,
			Stdin:    os.Stdin,
			Stdout:   cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("input", "i", "", "Run against this tape and highlight the halt state")
}
