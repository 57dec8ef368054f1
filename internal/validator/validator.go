package validator

import (
	"fmt"

	"github.com/aretw0/trmc/internal/compiler"
	"github.com/aretw0/trmc/pkg/domain"
)

// UnusedMode selects how unused states are detected.
type UnusedMode int

const (
	// UnusedReachability reports a non-terminal state whose ordinal is never a jump
	// target and is not the entry state.
	UnusedReachability UnusedMode = iota
	// UnusedLiteral marks a state as visited as soon as it owns a path.
	// It effectively never reports anything.
	UnusedLiteral
)

// EntryState is the ordinal every run starts from.
const EntryState = 1

type options struct {
	unused UnusedMode
}

// Option configures a validation pass.
type Option func(*options)

// WithUnusedMode selects the unused-state semantics.
func WithUnusedMode(mode UnusedMode) Option {
	return func(o *options) {
		o.unused = mode
	}
}

// Validate statically checks every path of prog without executing it.
// Findings are advisory; the program is never modified.
func Validate(prog *domain.Program, opts ...Option) *domain.Report {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	report := &domain.Report{
		States:      make([]int, 0, prog.Len()),
		Diagnostics: []domain.Diagnostic{},
	}

	targets := make(map[int]bool)
	owners := make(map[int]bool)
	// Each out-of-range target is reported once, at the first path that names it.
	invalid := make(map[int]bool)

	for _, s := range prog.States {
		report.States = append(report.States, s.Ordinal)
		if s.IsTerminal() {
			owners[s.Ordinal] = true
			continue
		}

		if len(s.Extra) > 0 {
			report.Diagnostics = append(report.Diagnostics, domain.Diagnostic{
				Kind:    domain.DiagMalformedState,
				State:   s.Ordinal,
				Line:    s.Line,
				Detail:  fmt.Sprint(s.Extra),
				Message: fmt.Sprintf("state holds %d paths, at most 2 are allowed; %q is never executed", len(s.Paths)+len(s.Extra), s.Extra),
			})
		}

		for branch, path := range s.Paths {
			owners[s.Ordinal] = true
			report.Diagnostics = append(report.Diagnostics, checkPath(s, branch, path)...)

			target, ok := compiler.JumpTarget(path)
			switch {
			case !ok:
			case prog.Contains(target):
				targets[target] = true
			case !invalid[target]:
				invalid[target] = true
				report.Diagnostics = append(report.Diagnostics, domain.Diagnostic{
					Kind:    domain.DiagInvalidJump,
					State:   s.Ordinal,
					Line:    s.Line,
					Path:    path,
					Detail:  fmt.Sprint(target),
					Message: fmt.Sprintf("invalid jump to uninitialized state %d in path %q, program declares 1..%d", target, path, prog.Len()),
				})
			}
		}
	}

	for _, s := range prog.States {
		if s.IsTerminal() || s.Ordinal == EntryState {
			continue
		}
		var used bool
		switch o.unused {
		case UnusedLiteral:
			used = owners[s.Ordinal]
		default:
			used = targets[s.Ordinal]
		}
		if !used {
			report.Diagnostics = append(report.Diagnostics, domain.Diagnostic{
				Kind:    domain.DiagUnusedState,
				State:   s.Ordinal,
				Line:    s.Line,
				Message: fmt.Sprintf("unused state %d: no path jumps to it", s.Ordinal),
			})
		}
	}

	return report
}

// checkPath runs the per-path checks: alphabet, dead suffix and progress.
func checkPath(s domain.State, branch int, path string) []domain.Diagnostic {
	var diags []domain.Diagnostic
	diag := func(kind domain.DiagnosticKind, detail, msg string) {
		diags = append(diags, domain.Diagnostic{
			Kind:    kind,
			State:   s.Ordinal,
			Line:    s.Line,
			Path:    path,
			Detail:  detail,
			Message: msg,
		})
	}

	for _, tok := range compiler.Tokens(path) {
		if tok.Class == compiler.ClassInvalid {
			diag(domain.DiagInvalidCharacter, string(tok.Char),
				fmt.Sprintf("invalid character %q at offset %d in path %q", tok.Char, tok.Offset, path))
		}
	}

	if prefix := compiler.EffectivePrefix(path); prefix != path {
		suffix := path[len(prefix):]
		diag(domain.DiagUnreachableCode, suffix,
			fmt.Sprintf("unreachable characters %q after jump in path %q, consider removing them", suffix, path))
	}

	if loopsForever(s, branch, path) {
		diag(domain.DiagNonTerminating, "",
			fmt.Sprintf("path %q never jumps nor moves the cursor, taking it loops forever", path))
	}

	return diags
}

// loopsForever reports whether taking path leaves the machine in the same state,
// on the same cell, with the same branch selected for the next step.
// On a conditional state a path that changes the cell hands over to the other branch.
func loopsForever(s domain.State, branch int, path string) bool {
	dec := compiler.Effective(path)
	if dec.HasJump {
		return false
	}

	cell := branch == 1
	for _, op := range dec.Ops {
		switch op {
		case domain.OpMoveLeft, domain.OpMoveRight:
			return false
		case domain.OpFirst, domain.OpLast:
			// The cell under the new position is unknown.
			if s.Kind == domain.StateConditional {
				return false
			}
		case domain.OpFlip:
			cell = !cell
		case domain.OpSet:
			cell = true
		case domain.OpClear:
			cell = false
		}
	}
	return s.Kind != domain.StateConditional || cell == (branch == 1)
}
