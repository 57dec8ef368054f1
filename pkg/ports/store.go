package ports

import (
	"context"

	"github.com/aretw0/trmc/pkg/domain"
)

// ProgramStore defines the interface for persisting programs.
type ProgramStore interface {
	ProgramLoader

	// Save creates or replaces the program stored under src.ID.
	Save(ctx context.Context, src *domain.ProgramSource) error

	// Delete removes a program. Deleting a missing program is not an error.
	Delete(ctx context.Context, id string) error
}
