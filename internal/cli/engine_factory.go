package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/trmc"
	"github.com/aretw0/trmc/internal/config"
	"github.com/aretw0/trmc/pkg/domain"
	"github.com/aretw0/trmc/pkg/observability"
)

// EngineOptions are the engine settings shared by every command.
type EngineOptions struct {
	MaxSteps      int
	Strict        bool
	LiteralUnused bool
	Hooks         []domain.LifecycleHooks
}

// EngineOptionsFrom seeds engine settings from the loaded configuration.
func EngineOptionsFrom(cfg *config.Config) EngineOptions {
	return EngineOptions{
		MaxSteps:      cfg.MaxSteps,
		Strict:        cfg.Strict,
		LiteralUnused: cfg.LiteralUnused,
	}
}

// createEngine initializes a trmc engine with standard CLI conventions.
func createEngine(opts EngineOptions, logger *slog.Logger) *trmc.Engine {
	engineOpts := []trmc.Option{
		trmc.WithLogger(logger),
		trmc.WithMaxSteps(opts.MaxSteps),
		trmc.WithStrict(opts.Strict),
		trmc.WithLiteralUnused(opts.LiteralUnused),
	}
	if len(opts.Hooks) > 0 {
		engineOpts = append(engineOpts, trmc.WithLifecycleHooks(observability.ChainHooks(opts.Hooks...)))
	}
	return trmc.New(engineOpts...)
}

// loadProgram reads a program from path, or from stdin when path is "-".
func loadProgram(engine *trmc.Engine, path string, stdin io.Reader) (*domain.Program, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read program from stdin: %w", err)
		}
		return engine.Parse("stdin", data)
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("program %s: %w", path, err)
	}
	return engine.Load(path)
}
