package dsl

import (
	"strconv"
	"strings"

	"github.com/aretw0/trmc/internal/compiler"
	"github.com/aretw0/trmc/pkg/domain"
)

// Builder manages the program construction. States are numbered in the order they are added.
type Builder struct {
	name   string
	states []string
}

// New creates a new program builder.
func New(name string) *Builder {
	return &Builder{name: name}
}

// Next returns the ordinal the next added state will get, for forward jumps.
func (b *Builder) Next() int {
	return len(b.states) + 1
}

// Always adds a state that runs path whatever the cell holds.
func (b *Builder) Always(path *PathBuilder) *Builder {
	b.states = append(b.states, b.text(path))
	return b
}

// Branch adds a state that runs onZero when the cell is 0 and onOne when it is 1.
func (b *Builder) Branch(onZero, onOne *PathBuilder) *Builder {
	b.states = append(b.states, b.text(onZero)+" "+b.text(onOne))
	return b
}

// End adds a terminal state.
func (b *Builder) End() *Builder {
	b.states = append(b.states, domain.EndMarker)
	return b
}

func (b *Builder) text(path *PathBuilder) string {
	if path == nil || path.String() == "" {
		return strconv.Itoa(b.Next())
	}
	return path.String()
}

// Source renders the program as source text, one state per line.
func (b *Builder) Source() string {
	if len(b.states) == 0 {
		return ""
	}
	return strings.Join(b.states, "\n") + "\n"
}

// Build compiles the added states into a program.
func (b *Builder) Build() *domain.Program {
	return compiler.BuildStrings(b.name, b.states)
}
