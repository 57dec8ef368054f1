package domain

import "fmt"

// DiagnosticKind classifies a validator finding.
type DiagnosticKind string

const (
	DiagInvalidCharacter DiagnosticKind = "invalid_character"
	DiagUnreachableCode  DiagnosticKind = "unreachable_code"
	DiagInvalidJump      DiagnosticKind = "invalid_jump"
	DiagUnusedState      DiagnosticKind = "unused_state"
	DiagMalformedState   DiagnosticKind = "malformed_state"
	DiagNonTerminating   DiagnosticKind = "non_terminating"
)

// Diagnostic is one advisory finding about a program.
type Diagnostic struct {
	Kind DiagnosticKind `json:"kind"`
	// State is the 1-based ordinal of the owning state.
	State int `json:"state"`
	// Line is the 1-based physical source line of the owning state (0 if unknown).
	Line int `json:"line,omitempty"`
	// Path is the path text the finding refers to, if any.
	Path string `json:"path,omitempty"`
	// Detail carries the offending fragment (character, suffix, target).
	Detail  string `json:"detail,omitempty"`
	Message string `json:"message"`
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("state %d (line %d): %s", d.State, d.Line, d.Message)
	}
	return fmt.Sprintf("state %d: %s", d.State, d.Message)
}

// Report aggregates the findings of one validation pass.
type Report struct {
	// States lists the declared ordinals, 1..N.
	States      []int        `json:"states"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Errors returns the running error count.
func (r *Report) Errors() int {
	return len(r.Diagnostics)
}

// OK reports whether the program produced no findings.
func (r *Report) OK() bool {
	return len(r.Diagnostics) == 0
}

// Count returns the number of findings of the given kind.
func (r *Report) Count(kind DiagnosticKind) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Filter returns the findings whose kind is one of kinds.
func (r *Report) Filter(kinds ...DiagnosticKind) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		for _, k := range kinds {
			if d.Kind == k {
				out = append(out, d)
				break
			}
		}
	}
	return out
}

// Lines renders every finding as a human-readable line.
func (r *Report) Lines() []string {
	lines := make([]string, len(r.Diagnostics))
	for i, d := range r.Diagnostics {
		lines[i] = d.String()
	}
	return lines
}
