package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/trmc/pkg/domain"
)

// GraphOptions contains the configuration for the graph command.
type GraphOptions struct {
	Path string
	// Input, when set, runs the program first and highlights the state it halted in.
	Input    string
	InputSet bool
	Engine   EngineOptions
	Logger   *slog.Logger
	Stdin    io.Reader
	Stdout   io.Writer
}

// Graph prints the Mermaid flowchart of a program.
func Graph(ctx context.Context, opts GraphOptions) error {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	engine := createEngine(opts.Engine, opts.Logger)
	prog, err := loadProgram(engine, opts.Path, opts.Stdin)
	if err != nil {
		return err
	}

	var res *domain.Result
	if opts.InputSet {
		tape, err := domain.ParseTape(opts.Input)
		if err != nil {
			return err
		}
		// An aborted run still has a state worth highlighting.
		res, err = engine.Run(ctx, prog, tape)
		if err != nil {
			opts.Logger.Warn("run did not halt cleanly", "program", prog.Name, "error", err)
		}
	}

	fmt.Fprint(opts.Stdout, engine.Graph(prog, res))
	return nil
}
