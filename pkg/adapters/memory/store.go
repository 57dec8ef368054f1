package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/trmc/pkg/domain"
)

// Store implements ports.ProgramStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.ProgramSource
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store, optionally seeded with programs.
func NewStore(seed ...*domain.ProgramSource) *Store {
	s := &Store{
		data: make(map[string]*domain.ProgramSource, len(seed)),
	}
	for _, src := range seed {
		s.data[src.ID] = src.Clone()
	}
	return s
}

// Save stores a copy of src.
func (s *Store) Save(ctx context.Context, src *domain.ProgramSource) error {
	if err := domain.ValidateProgramID(src.ID); err != nil {
		return err
	}

	stored := src.Clone()
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[src.ID] = stored
	return nil
}

// Load returns a copy so callers cannot mutate the store through the pointer.
func (s *Store) Load(ctx context.Context, id string) (*domain.ProgramSource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src, ok := s.data[id]
	if !ok {
		return nil, domain.ErrProgramNotFound
	}
	return src.Clone(), nil
}

// Delete removes the program.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns the stored program IDs in order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}
