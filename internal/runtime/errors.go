package runtime

import (
	"fmt"

	"github.com/aretw0/trmc/pkg/domain"
)

// JumpError is returned when a path jumps to a state the program does not declare.
type JumpError struct {
	State  int
	Line   int
	Path   string
	Target int
	// Count is the number of declared states.
	Count int
}

func (e *JumpError) Error() string {
	return fmt.Sprintf("%s: state %d path %q jumps to state %d, program declares 1..%d",
		domain.ErrInvalidJump, e.State, e.Path, e.Target, e.Count)
}

func (e *JumpError) Unwrap() error {
	return domain.ErrInvalidJump
}
