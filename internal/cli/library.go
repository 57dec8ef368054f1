package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/trmc/pkg/domain"
	"github.com/aretw0/trmc/pkg/ports"
)

// SyncLibrary copies every program of loader into store and returns how many were copied.
func SyncLibrary(ctx context.Context, loader ports.ProgramLoader, store ports.ProgramStore) (int, error) {
	ids, err := loader.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list library: %w", err)
	}
	for _, id := range ids {
		if err := syncProgram(ctx, loader, store, id); err != nil {
			return 0, err
		}
	}
	return len(ids), nil
}

// syncProgram mirrors one library program into store, deleting it when it left the library.
func syncProgram(ctx context.Context, loader ports.ProgramLoader, store ports.ProgramStore, id string) error {
	src, err := loader.Load(ctx, id)
	if errors.Is(err, domain.ErrProgramNotFound) {
		return store.Delete(ctx, id)
	}
	if err != nil {
		return fmt.Errorf("failed to load library program %s: %w", id, err)
	}
	if err := store.Save(ctx, src); err != nil {
		return fmt.Errorf("failed to store library program %s: %w", id, err)
	}
	return nil
}

// WatchLibrary keeps store in sync with a watchable library until ctx is done.
func WatchLibrary(ctx context.Context, loader ports.ProgramLoader, store ports.ProgramStore, logger *slog.Logger) error {
	w, ok := loader.(ports.Watchable)
	if !ok {
		return nil
	}
	changes, err := w.Watch(ctx)
	if err != nil {
		return err
	}
	go func() {
		for id := range changes {
			if err := syncProgram(ctx, loader, store, id); err != nil {
				logger.Warn("library sync failed", "program", id, "error", err)
				continue
			}
			logger.Info("library program reloaded", "program", id)
		}
	}()
	return nil
}
