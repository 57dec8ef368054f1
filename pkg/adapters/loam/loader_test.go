package loam

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"

	"github.com/aretw0/trmc/internal/testutils"
	"github.com/aretw0/trmc/pkg/domain"
	"github.com/aretw0/trmc/pkg/ports"
	"github.com/aretw0/trmc/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ ports.ProgramLoader = (*Loader)(nil)
	_ ports.Watchable     = (*Loader)(nil)
)

func TestLoader_Contract(t *testing.T) {
	_, repo := testutils.SetupTestRepo(t)
	ctx := context.Background()

	docs := []core.Document{
		{
			ID: "increment.md",
			Content: "---\n" +
				"id: increment\n" +
				"description: binary increment\n" +
				"input: \"1011\"\n" +
				"---\n" +
				"```trmc\n}2\n\\3 /<2\nEND\n```\n",
		},
		{
			ID:      "halt.md",
			Content: "---\ndescription: halts at once\n---\nEND\n",
		},
	}
	for _, doc := range docs {
		require.NoError(t, repo.Save(ctx, doc))
	}

	loader := New(loam.NewTypedRepository[ProgramMetadata](repo))

	tests.ProgramLoaderContractTest(t, loader, map[string]string{
		"increment": "}2\n\\3 /<2\nEND\n",
		"halt":      "END\n",
	})

	src, err := loader.Load(ctx, "increment")
	require.NoError(t, err)
	assert.Equal(t, "binary increment", src.Description)
	assert.Equal(t, "1011", src.Input)
}

func TestLoader_List_NormalizesIDs(t *testing.T) {
	tmpDir, repo := testutils.SetupTestRepo(t)

	testutils.WriteFiles(t, tmpDir, map[string]string{
		"flip.md":     "---\nid: flip.md\n---\n!>1\n",
		"implicit.md": "---\ndescription: ID is implied from filename\n---\nEND\n",
	})

	loader := New(loam.NewTypedRepository[ProgramMetadata](repo))
	ids, err := loader.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"flip", "implicit"}, ids)
}

func TestLoader_List_DetectsCollisions(t *testing.T) {
	tmpDir, repo := testutils.SetupTestRepo(t)

	testutils.WriteFiles(t, tmpDir, map[string]string{
		"foo.md": "---\nid: foo\n---\nEND\n",
		"bar.md": "---\nid: foo\n---\n>1\n",
	})

	loader := New(loam.NewTypedRepository[ProgramMetadata](repo))
	_, err := loader.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
	assert.Contains(t, err.Error(), "foo")
}

func TestLoader_Load_NotFound(t *testing.T) {
	_, repo := testutils.SetupTestRepo(t)
	loader := New(loam.NewTypedRepository[ProgramMetadata](repo))

	_, err := loader.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrProgramNotFound)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "halt.md"), []byte("---\nid: halt\n---\nEND\n"), 0644))

	loader, err := Open(dir)
	require.NoError(t, err)

	src, err := loader.Load(context.Background(), "halt")
	require.NoError(t, err)
	assert.Equal(t, "END\n", src.Source)
}

func TestExtractSource(t *testing.T) {
	assert.Equal(t, ">1\nEND\n", extractSource("Some prose.\n\n```\n>1\nEND\n```\nTrailing prose."))
	assert.Equal(t, "END\n", extractSource("\n  END  \n"))
	assert.Equal(t, "unterminated ```\n", extractSource("unterminated ```"))
}
