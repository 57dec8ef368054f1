package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/trmc/pkg/adapters/file"
	loamAdapter "github.com/aretw0/trmc/pkg/adapters/loam"
	"github.com/aretw0/trmc/pkg/adapters/mcp"
	"github.com/aretw0/trmc/pkg/ports"
)

// Supported MCP transports.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// MCPOptions contains the configuration for the mcp command.
type MCPOptions struct {
	Transport string
	Port      int
	// Library is a markdown program library; Dir, a .trmc directory, is used when it is empty.
	Library string
	Dir     string
	Engine  EngineOptions
	Logger  *slog.Logger
}

func openLoader(opts MCPOptions) (ports.ProgramLoader, error) {
	if opts.Library != "" {
		return loamAdapter.Open(opts.Library)
	}
	return file.New(opts.Dir), nil
}

// ServeMCP exposes the engine as MCP tools over the chosen transport.
func ServeMCP(ctx context.Context, opts MCPOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	loader, err := openLoader(opts)
	if err != nil {
		return err
	}
	engine := createEngine(opts.Engine, logger)
	srv := mcp.NewServer(engine, loader, logger)

	switch opts.Transport {
	case "", TransportStdio:
		logger.Info("starting trmc MCP server (stdio)")
		return srv.ServeStdio()
	case TransportSSE:
		logger.Info("starting trmc MCP server (SSE)", "port", opts.Port)
		if err := srv.ServeSSE(ctx, opts.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		logger.Info("MCP server stopped gracefully")
		return nil
	default:
		return fmt.Errorf("unknown transport %q, supported: stdio, sse", opts.Transport)
	}
}
