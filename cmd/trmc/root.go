package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/trmc/internal/cli"
	"github.com/aretw0/trmc/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfg    = config.Default()
	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "trmc",
	Short: "trmc runs transition-table programs on a bit tape",
	Long: `trmc is a tiny tape machine. Each line of a .trmc program is a state holding
one or two paths; a path moves the cursor, writes the current cell and jumps
to another state. The validator reports invalid characters, dead code,
invalid jumps and unused states before a program runs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(path, cmd.Flags().Changed("config"))
		if err != nil {
			return err
		}
		cfg = loaded

		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
		}
		if cmd.Flags().Changed("max-steps") {
			cfg.MaxSteps, _ = cmd.Flags().GetInt("max-steps")
		}
		if cmd.Flags().Changed("strict") {
			cfg.Strict, _ = cmd.Flags().GetBool("strict")
		}
		if cmd.Flags().Changed("literal-unused") {
			cfg.LiteralUnused, _ = cmd.Flags().GetBool("literal-unused")
		}

		logger, err = cli.CreateLogger(cfg.LogLevel)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Int("max-steps", 0, "Abort runs after this many iterations (0 = unbounded)")
	rootCmd.PersistentFlags().Bool("strict", false, "Refuse to run programs with invalid characters or jumps")
	rootCmd.PersistentFlags().Bool("literal-unused", false, "Count owning a path as use when reporting unused states")
}

func engineOptions() cli.EngineOptions {
	return cli.EngineOptionsFrom(cfg)
}

// programPath returns the program argument, "-" meaning stdin.
func programPath(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[0]
}
