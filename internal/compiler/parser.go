package compiler

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/trmc/pkg/domain"
)

// Parser is responsible for converting raw source into a Program.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse normalizes the raw source and builds the program from the remaining lines.
// Only the END marker is interpreted here; everything else is left to the validator.
func (p *Parser) Parse(name string, data []byte) (*domain.Program, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("failed to parse program %q: source is not valid UTF-8", name)
	}
	return Build(name, Normalize(string(data))), nil
}

// Build turns normalized lines into states, one per line.
func Build(name string, lines []Line) *domain.Program {
	prog := &domain.Program{
		Name:   name,
		States: make([]domain.State, 0, len(lines)),
	}
	for i, line := range lines {
		prog.States = append(prog.States, buildState(i+1, line))
	}
	return prog
}

// BuildStrings is Build for callers that already hold normalized state texts.
func BuildStrings(name string, texts []string) *domain.Program {
	lines := make([]Line, 0, len(texts))
	for i, text := range texts {
		lines = append(lines, Line{Number: i + 1, Text: strings.TrimSpace(text)})
	}
	return Build(name, lines)
}

func buildState(ordinal int, line Line) domain.State {
	state := domain.State{Ordinal: ordinal, Line: line.Number}

	if line.Text == domain.EndMarker {
		state.Kind = domain.StateTerminal
		return state
	}

	tokens := strings.Fields(line.Text)
	switch len(tokens) {
	case 0:
		// Unreachable for normalized input; an empty path loops in place.
		state.Kind = domain.StateUnconditional
		state.Paths = []string{""}
	case 1:
		state.Kind = domain.StateUnconditional
		state.Paths = tokens
	default:
		state.Kind = domain.StateConditional
		state.Paths = tokens[:2]
		if len(tokens) > 2 {
			state.Extra = tokens[2:]
		}
	}
	return state
}
