package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/trmc/internal/compiler"
	"github.com/aretw0/trmc/pkg/domain"
)

// cancelCheckInterval is how many steps run between two context checks. Must be a power of two.
const cancelCheckInterval = 1024

// Engine is the core tape machine runner.
// It holds no per-run state and is safe for concurrent use.
type Engine struct {
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	maxSteps int
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger used for step tracing.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithMaxSteps caps the number of iterations of a run. Zero means unbounded.
func WithMaxSteps(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxSteps = n
		}
	}
}

// NewEngine creates a new engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes prog against tape, mutating the tape in place, until the machine
// reaches an END state or the cursor leaves the tape.
//
// A program that neither jumps to END nor drives the cursor off the tape never halts;
// callers that need bounded execution must set WithMaxSteps or cancel ctx.
// On error the partial result is returned along with it.
func (e *Engine) Run(ctx context.Context, prog *domain.Program, tape domain.Tape) (*domain.Result, error) {
	if err := validateProgram(prog); err != nil {
		return nil, err
	}

	plan := compile(prog)
	m := &machine{tape: tape, state: 1}
	traced := e.logger.Enabled(ctx, slog.LevelDebug)

	for {
		state := prog.States[m.state-1]
		if state.IsTerminal() {
			return e.halt(ctx, prog, m.result(domain.HaltEnd), nil)
		}
		if m.cursor < 0 {
			m.cursor = 0
			return e.halt(ctx, prog, m.result(domain.HaltLeftEdge), nil)
		}
		if m.cursor >= len(m.tape) {
			m.cursor = len(m.tape) - 1
			return e.halt(ctx, prog, m.result(domain.HaltRightEdge), nil)
		}

		if e.maxSteps > 0 && m.iterations >= e.maxSteps {
			return e.halt(ctx, prog, m.result(domain.HaltAborted),
				fmt.Errorf("%w: %d iterations", domain.ErrStepLimit, e.maxSteps))
		}
		if m.iterations&(cancelCheckInterval-1) == 0 {
			if err := ctx.Err(); err != nil {
				return e.halt(ctx, prog, m.result(domain.HaltAborted), err)
			}
		}

		m.iterations++
		cell := m.tape[m.cursor]
		branch := 0
		if cell && state.Kind == domain.StateConditional {
			branch = 1
		}
		path := state.Paths[branch]

		if traced {
			e.logger.Debug("step",
				"state", m.state,
				"cell", boolToInt(cell),
				"path", path,
				"cursor", m.cursor)
		}
		if e.hooks.OnStep != nil {
			e.hooks.OnStep(ctx, &domain.StepEvent{
				EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventStep, Program: prog.Name},
				Iteration: m.iterations,
				State:     m.state,
				Cell:      cell,
				Path:      path,
				Cursor:    m.cursor,
			})
		}

		dec := plan[m.state-1][branch]
		for _, op := range dec.Ops {
			m.apply(op)
		}
		if !dec.HasJump {
			continue
		}
		if !prog.Contains(dec.Jump) {
			return e.halt(ctx, prog, m.result(domain.HaltAborted), &JumpError{
				State:  m.state,
				Line:   state.Line,
				Path:   path,
				Target: dec.Jump,
				Count:  prog.Len(),
			})
		}
		m.state = dec.Jump
	}
}

func (e *Engine) halt(ctx context.Context, prog *domain.Program, res *domain.Result, err error) (*domain.Result, error) {
	if err != nil {
		e.logger.Debug("run aborted", "program", prog.Name, "state", res.State, "iterations", res.Iterations, "error", err)
	} else {
		e.logger.Debug("run halted", "program", prog.Name, "reason", res.Reason, "cursor", res.Cursor, "iterations", res.Iterations)
	}
	if e.hooks.OnHalt != nil {
		e.hooks.OnHalt(ctx, &domain.HaltEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventHalt, Program: prog.Name},
			Result:    res,
			Err:       err,
		})
	}
	return res, err
}

// compile decodes every path once so the hot loop never rescans strings.
func compile(prog *domain.Program) [][2]compiler.Decoded {
	plan := make([][2]compiler.Decoded, prog.Len())
	for i, s := range prog.States {
		for j, p := range s.Paths {
			if j > 1 {
				break
			}
			plan[i][j] = compiler.Effective(p)
		}
	}
	return plan
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
