package ports

import (
	"context"

	"github.com/aretw0/trmc/pkg/domain"
)

// Interpreter is the surface adapters (HTTP, MCP) drive.
// *trmc.Engine implements it.
type Interpreter interface {
	// Parse builds a program from source text.
	Parse(name string, src []byte) (*domain.Program, error)

	// Validate statically checks a program.
	Validate(prog *domain.Program) *domain.Report

	// Run executes a program against a copy of tape.
	Run(ctx context.Context, prog *domain.Program, tape domain.Tape) (*domain.Result, error)

	// RunLimited is Run with an additional per-call step cap (<= 0 means none).
	RunLimited(ctx context.Context, prog *domain.Program, tape domain.Tape, maxSteps int) (*domain.Result, error)

	// Graph renders the transition graph as Mermaid, highlighting the halting state of result if given.
	Graph(prog *domain.Program, result *domain.Result) string
}
