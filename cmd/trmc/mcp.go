package main

import (
	"github.com/aretw0/trmc/internal/cli"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts trmc as an MCP server exposing run_program, validate_program,
graph_program and list_programs as tools, and the program library as resources.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		opts := cli.MCPOptions{
			Library: cfg.Library,
			Engine:  engineOptions(),
			Logger:  logger,
		}
		opts.Transport, _ = cmd.Flags().GetString("transport")
		opts.Port, _ = cmd.Flags().GetInt("port")
		opts.Dir, _ = cmd.Flags().GetString("dir")
		if cmd.Flags().Changed("library") {
			opts.Library, _ = cmd.Flags().GetString("library")
		}
		return cli.ServeMCP(ctx, opts)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", cli.TransportStdio, "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
	mcpCmd.Flags().String("dir", "programs", "Directory of .trmc programs")
	mcpCmd.Flags().String("library", "", "Markdown program library (takes precedence over --dir)")
}
