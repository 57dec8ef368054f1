package ports

import (
	"context"

	"github.com/aretw0/trmc/pkg/domain"
)

// ProgramLoader defines how programs are retrieved by ID.
type ProgramLoader interface {
	// Load retrieves a program by ID.
	// Returns domain.ErrProgramNotFound if it does not exist.
	Load(ctx context.Context, id string) (*domain.ProgramSource, error)

	// List returns the IDs of every available program, sorted.
	List(ctx context.Context) ([]string, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
type Watchable interface {
	// Watch returns a channel receiving the ID of each changed program.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan string, error)
}
