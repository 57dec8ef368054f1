package trmc

import (
	"fmt"
	"strings"

	"github.com/aretw0/trmc/pkg/domain"
)

// RejectedError is returned in strict mode when a program fails validation.
type RejectedError struct {
	Program     string
	Diagnostics []domain.Diagnostic
}

func (e *RejectedError) Error() string {
	if len(e.Diagnostics) == 1 {
		return fmt.Sprintf("program %q rejected: %s", e.Program, e.Diagnostics[0])
	}
	lines := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		lines[i] = d.String()
	}
	return fmt.Sprintf("program %q rejected with %d errors:\n- %s", e.Program, len(e.Diagnostics), strings.Join(lines, "\n- "))
}
