package trmc

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/trmc/internal/compiler"
	"github.com/aretw0/trmc/internal/presentation/graph"
	"github.com/aretw0/trmc/internal/runtime"
	"github.com/aretw0/trmc/internal/validator"
	"github.com/aretw0/trmc/pkg/domain"
)

// Engine is the high-level entry point for the trmc library.
// It wraps the parser, the runtime and the validator behind one configured API.
// An Engine is safe for concurrent use.
type Engine struct {
	runtime    *runtime.Engine
	parser     *compiler.Parser
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	maxSteps   int
	strict     bool
	unusedMode validator.UnusedMode
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMaxSteps caps every run at n iterations. Zero keeps runs unbounded.
func WithMaxSteps(n int) Option {
	return func(e *Engine) {
		e.maxSteps = n
	}
}

// WithStrict refuses to run programs with invalid characters or invalid jump targets.
func WithStrict(strict bool) Option {
	return func(e *Engine) {
		e.strict = strict
	}
}

// WithLiteralUnused makes Validate count a state as used as soon as it owns a path.
func WithLiteralUnused(literal bool) Option {
	return func(e *Engine) {
		if literal {
			e.unusedMode = validator.UnusedLiteral
		} else {
			e.unusedMode = validator.UnusedReachability
		}
	}
}

// New initializes a new trmc Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{
		parser: compiler.NewParser(),
	}

	for _, opt := range opts {
		opt(eng)
	}

	// Ensure logger is initialized (so we don't pass nil to runtime, which would overwrite its default)
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	eng.runtime = runtime.NewEngine(
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithMaxSteps(eng.maxSteps),
	)

	return eng
}

// Parse builds a program from raw source text.
func (e *Engine) Parse(name string, src []byte) (*domain.Program, error) {
	return e.parser.Parse(name, src)
}

// Load reads and parses a program file. The program is named after the file.
func (e *Engine) Load(path string) (*domain.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return e.Parse(name, data)
}

// Validate statically checks the program and returns its findings.
func (e *Engine) Validate(prog *domain.Program) *domain.Report {
	report := validator.Validate(prog, validator.WithUnusedMode(e.unusedMode))
	e.logger.Debug("program validated", "program", prog.Name, "states", prog.Len(), "errors", report.Errors())
	return report
}

// Run executes the program against a copy of tape; the caller's tape is left untouched.
// In strict mode the program is validated first and rejected with a *RejectedError
// when it contains invalid characters or invalid jump targets.
func (e *Engine) Run(ctx context.Context, prog *domain.Program, tape domain.Tape) (*domain.Result, error) {
	if e.strict {
		report := e.Validate(prog)
		if blocking := report.Filter(domain.DiagInvalidCharacter, domain.DiagInvalidJump); len(blocking) > 0 {
			return nil, &RejectedError{Program: prog.Name, Diagnostics: blocking}
		}
	}
	return e.runtime.Run(ctx, prog, tape.Clone())
}

// RunLimited is Run with an extra per-call step cap. The tighter of maxSteps and the
// engine's own limit applies; maxSteps <= 0 adds no cap.
func (e *Engine) RunLimited(ctx context.Context, prog *domain.Program, tape domain.Tape, maxSteps int) (*domain.Result, error) {
	limit := e.maxSteps
	if maxSteps > 0 && (limit == 0 || maxSteps < limit) {
		limit = maxSteps
	}
	if limit == e.maxSteps {
		return e.Run(ctx, prog, tape)
	}

	limited := *e
	limited.maxSteps = limit
	limited.runtime = runtime.NewEngine(
		runtime.WithLogger(e.logger),
		runtime.WithLifecycleHooks(e.hooks),
		runtime.WithMaxSteps(limit),
	)
	return limited.Run(ctx, prog, tape)
}

// RunString parses the tape input and runs the program against it.
func (e *Engine) RunString(ctx context.Context, prog *domain.Program, input string) (*domain.Result, error) {
	tape, err := domain.ParseTape(input)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, prog, tape)
}

// Graph renders the program's transition graph as a Mermaid flowchart.
func (e *Engine) Graph(prog *domain.Program, result *domain.Result) string {
	var overlay *graph.Overlay
	if result != nil {
		overlay = &graph.Overlay{CurrentState: result.State}
	}
	return graph.GenerateMermaid(prog, overlay)
}
