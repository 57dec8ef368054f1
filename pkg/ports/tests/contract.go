package tests

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/trmc/pkg/domain"
	"github.com/aretw0/trmc/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ProgramLoaderContractTest verifies that a loader serves exactly setupData (ID -> source).
func ProgramLoaderContractTest(t *testing.T, loader ports.ProgramLoader, setupData map[string]string) {
	t.Helper()
	ctx := context.Background()

	t.Run("Load_Success", func(t *testing.T) {
		for id, expected := range setupData {
			src, err := loader.Load(ctx, id)
			require.NoError(t, err, "loading %s", id)
			assert.Equal(t, id, src.ID)
			assert.Equal(t, expected, src.Source, "source mismatch for %s", id)
		}
	})

	t.Run("Load_NotFound", func(t *testing.T) {
		_, err := loader.Load(ctx, "non-existent-program")
		assert.ErrorIs(t, err, domain.ErrProgramNotFound)
	})

	t.Run("List", func(t *testing.T) {
		ids, err := loader.List(ctx)
		require.NoError(t, err)
		assert.Len(t, ids, len(setupData))
		assert.IsNonDecreasing(t, ids)
		for id := range setupData {
			assert.Contains(t, ids, id)
		}
	})
}

// ProgramStoreContractTest runs the suite every ProgramStore implementation must pass.
func ProgramStoreContractTest(t *testing.T, store ports.ProgramStore) {
	t.Helper()
	ctx := context.Background()
	id := "contract-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		src := &domain.ProgramSource{
			ID:          id,
			Source:      "}2\n\\3 /<2\nEND\n",
			Description: "binary increment",
			Input:       "1011",
		}
		require.NoError(t, store.Save(ctx, src))

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, src.ID, loaded.ID)
		assert.Equal(t, src.Source, loaded.Source)
		assert.Equal(t, src.Description, loaded.Description)
		assert.Equal(t, src.Input, loaded.Input)
	})

	t.Run("Save Replaces", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, &domain.ProgramSource{ID: id, Source: "END\n"}))
		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "END\n", loaded.Source)
	})

	t.Run("Save Rejects Invalid ID", func(t *testing.T) {
		err := store.Save(ctx, &domain.ProgramSource{ID: "../escape", Source: "END"})
		assert.ErrorIs(t, err, domain.ErrInvalidProgramID)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+id)
		assert.ErrorIs(t, err, domain.ErrProgramNotFound)
	})

	t.Run("List", func(t *testing.T) {
		id1, id2 := id+"-1", id+"-2"
		require.NoError(t, store.Save(ctx, &domain.ProgramSource{ID: id2, Source: "END"}))
		require.NoError(t, store.Save(ctx, &domain.ProgramSource{ID: id1, Source: "END"}))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
		assert.IsNonDecreasing(t, ids)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, id))
		_, err := store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrProgramNotFound)

		assert.NoError(t, store.Delete(ctx, id), "deleting twice is not an error")
	})
}
