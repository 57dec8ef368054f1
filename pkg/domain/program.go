package domain

import "strings"

// Program is the ordered list of states built from one source text.
// It is immutable once built and safe to share between concurrent runs.
type Program struct {
	// Name is a descriptive label (file name or store ID).
	Name   string  `json:"name,omitempty" yaml:"name,omitempty"`
	States []State `json:"states" yaml:"states"`
}

// Len returns the number of declared states.
func (p *Program) Len() int {
	return len(p.States)
}

// State returns the state with the given 1-based ordinal.
func (p *Program) State(ordinal int) (State, bool) {
	if ordinal < 1 || ordinal > len(p.States) {
		return State{}, false
	}
	return p.States[ordinal-1], true
}

// Contains reports whether ordinal addresses a declared state.
func (p *Program) Contains(ordinal int) bool {
	return ordinal >= 1 && ordinal <= len(p.States)
}

// Terminal returns the ordinal of the first END state, or 0 if there is none.
func (p *Program) Terminal() int {
	for _, s := range p.States {
		if s.IsTerminal() {
			return s.Ordinal
		}
	}
	return 0
}

// Source renders the program back into normalized source text, one state per line.
func (p *Program) Source() string {
	lines := make([]string, len(p.States))
	for i, s := range p.States {
		lines[i] = s.Text()
	}
	return strings.Join(lines, "\n")
}
