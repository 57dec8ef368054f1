package domain

import "strings"

// EndMarker is the literal text of a terminal state.
const EndMarker = "END"

// StateKind selects which variant a State holds.
type StateKind string

const (
	// StateUnconditional runs the same path whatever the current cell holds.
	StateUnconditional StateKind = "unconditional"
	// StateConditional runs Paths[0] when the cell is false and Paths[1] when it is true.
	StateConditional StateKind = "conditional"
	// StateTerminal halts the machine without evaluating any path.
	StateTerminal StateKind = "terminal"
)

// State is one addressable line of a program.
type State struct {
	// Ordinal is the 1-based position of the state in program order.
	Ordinal int `json:"ordinal" yaml:"ordinal"`

	// Line is the 1-based physical line of the state in its source text (0 if unknown).
	Line int `json:"line,omitempty" yaml:"line,omitempty"`

	Kind StateKind `json:"kind" yaml:"kind"`

	// Paths holds one entry for unconditional states and two for conditional ones.
	Paths []string `json:"paths,omitempty" yaml:"paths,omitempty"`

	// Extra keeps tokens beyond the second one. They are never executed.
	Extra []string `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// IsTerminal reports whether the state is an END state.
func (s State) IsTerminal() bool {
	return s.Kind == StateTerminal
}

// PathFor returns the path selected by the value of the cell under the cursor.
func (s State) PathFor(cell bool) string {
	switch s.Kind {
	case StateUnconditional:
		return s.Paths[0]
	case StateConditional:
		if cell {
			return s.Paths[1]
		}
		return s.Paths[0]
	}
	return ""
}

// Text renders the state back into its normalized source form.
func (s State) Text() string {
	if s.IsTerminal() {
		return EndMarker
	}
	tokens := append(append([]string{}, s.Paths...), s.Extra...)
	return strings.Join(tokens, " ")
}
