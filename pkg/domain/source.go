package domain

import (
	"fmt"
	"strings"
	"time"
)

// ProgramSource is a stored program: its raw text plus library metadata.
type ProgramSource struct {
	ID          string `json:"id"`
	Source      string `json:"source"`
	Description string `json:"description,omitempty"`
	// Input is an example tape for the program, e.g. "1011".
	Input     string    `json:"input,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns an independent copy of the source record.
func (p *ProgramSource) Clone() *ProgramSource {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

// ValidateProgramID accepts IDs made of letters, digits, '-', '_' and '.',
// optionally grouped with '/' (e.g. "math/increment"). Segments cannot be "." or "..".
func ValidateProgramID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty", ErrInvalidProgramID)
	}
	for _, segment := range strings.Split(id, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return fmt.Errorf("%w: %q", ErrInvalidProgramID, id)
		}
		for _, r := range segment {
			ok := r == '-' || r == '_' || r == '.' ||
				(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
			if !ok {
				return fmt.Errorf("%w: %q contains %q", ErrInvalidProgramID, id, r)
			}
		}
	}
	return nil
}
