package runtime

import (
	"fmt"

	"github.com/aretw0/trmc/pkg/domain"
)

// validateProgram checks the preconditions the run loop relies on.
func validateProgram(prog *domain.Program) error {
	if prog == nil || prog.Len() == 0 {
		return domain.ErrEmptyProgram
	}

	for i, s := range prog.States {
		if s.Ordinal != i+1 {
			return fmt.Errorf("state at index %d has ordinal %d, want %d", i, s.Ordinal, i+1)
		}
		switch s.Kind {
		case domain.StateTerminal:
		case domain.StateUnconditional:
			if len(s.Paths) < 1 {
				return fmt.Errorf("state %d is unconditional but holds no path", s.Ordinal)
			}
		case domain.StateConditional:
			if len(s.Paths) < 2 {
				return fmt.Errorf("state %d is conditional but holds %d paths", s.Ordinal, len(s.Paths))
			}
		default:
			return fmt.Errorf("state %d has unknown kind %q", s.Ordinal, s.Kind)
		}
	}
	return nil
}
