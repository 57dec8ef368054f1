package main

import (
	"github.com/aretw0/trmc"
	"github.com/aretw0/trmc/internal/cli"
	"github.com/aretw0/trmc/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves run, validate and graph endpoints plus a program store over HTTP.
Programs are kept in --dir, or in Redis when --redis is set. A markdown
program library given with --library is mirrored into the store and watched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		opts := cli.ServeOptions{
			Port:            cfg.HTTP.Port,
			Library:         cfg.Library,
			Redis:           cfg.Redis,
			EncryptionKey:   cfg.EncryptionKey,
			ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
			Engine:          engineOptions(),
			Logger:          logger,
		}
		opts.Dir, _ = cmd.Flags().GetString("dir")
		if cmd.Flags().Changed("port") {
			opts.Port, _ = cmd.Flags().GetString("port")
		}
		if cmd.Flags().Changed("redis") {
			opts.Redis.Addr, _ = cmd.Flags().GetString("redis")
		}
		if cmd.Flags().Changed("library") {
			opts.Library, _ = cmd.Flags().GetString("library")
		}

		tui.PrintBanner(cmd.ErrOrStderr(), trmc.Version)
		return cli.Serve(ctx, opts)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("dir", "programs", "Directory of the file program store")
	serveCmd.Flags().String("redis", "", "Redis address; stores programs in Redis instead of --dir")
	serveCmd.Flags().String("library", "", "Markdown program library to mirror into the store")
}
