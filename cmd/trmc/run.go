package main

import (
	"os"

	"github.com/aretw0/trmc/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a program against a tape",
	Long: `Runs a .trmc program (or stdin when the file is "-") against a tape given with
--input or typed at the "Input: " prompt.

Without --debug, an interactive terminal is asked whether to run in debug mode.
Debug mode prints the program, its validation report and one trace line per step.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		opts := cli.RunOptions{
			Path:        programPath(args),
			Interactive: cli.StdinIsTerminal(),
			Engine:      engineOptions(),
			Logger:      logger,
			Stdin:       os.Stdin,
			Stdout:      cmd.OutOrStdout(),
		}
		opts.Input, _ = cmd.Flags().GetString("input")
		opts.InputSet = cmd.Flags().Changed("input")
		opts.JSON, _ = cmd.Flags().GetBool("json")
		if cmd.Flags().Changed("debug") {
			debug, _ := cmd.Flags().GetBool("debug")
			opts.Debug = &debug
		} else if opts.JSON {
			opts.Debug = new(bool)
		}

		err := cli.Run(ctx, opts)
		if sig := ctx.Signal(); sig != nil {
			logger.Info("run interrupted", "signal", sig)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("input", "i", "", "Tape as a string of 0 and 1")
	runCmd.Flags().BoolP("debug", "d", false, "Print the program, its report and a step trace")
	runCmd.Flags().Bool("json", false, "Print the result as JSON")
}
