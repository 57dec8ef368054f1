package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/trmc/pkg/adapters/memory"
	"github.com/aretw0/trmc/pkg/domain"
	"github.com/aretw0/trmc/pkg/ports"
	"github.com/aretw0/trmc/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.ProgramStore = (*memory.Store)(nil)

func TestMemoryStore_Contract(t *testing.T) {
	tests.ProgramStoreContractTest(t, memory.NewStore())
}

func TestMemoryStore_Seed(t *testing.T) {
	store := memory.NewStore(
		&domain.ProgramSource{ID: "flip", Source: "!>1"},
		&domain.ProgramSource{ID: "halt", Source: "END"},
	)
	tests.ProgramLoaderContractTest(t, store, map[string]string{
		"flip": "!>1",
		"halt": "END",
	})
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	src := &domain.ProgramSource{ID: "p", Source: "END"}
	require.NoError(t, store.Save(ctx, src))
	src.Source = "mutated"

	loaded, err := store.Load(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, "END", loaded.Source)

	loaded.Source = "mutated again"
	again, err := store.Load(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, "END", again.Source)
}
