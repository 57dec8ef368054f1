package middleware_test

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/trmc/pkg/adapters/memory"
	"github.com/aretw0/trmc/pkg/domain"
	"github.com/aretw0/trmc/pkg/persistence/middleware"
	"github.com/aretw0/trmc/pkg/ports"
	"github.com/aretw0/trmc/pkg/ports/tests"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, 32)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func secure(t *testing.T, cfg middleware.EncryptionConfig, under ports.ProgramStore) ports.ProgramStore {
	t.Helper()
	mw, err := middleware.NewEncryptionMiddleware(cfg)
	require.NoError(t, err)
	return middleware.Chain(under, mw)
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	require.NoError(t, err)
	tests.ProgramStoreContractTest(t, mw(memory.NewStore()))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	ctx := context.Background()
	under := memory.NewStore()
	s := secure(t, middleware.EncryptionConfig{ActiveKey: generateKey(t)}, under)

	original := &domain.ProgramSource{ID: "secret", Source: "!>1\n", Description: "my-secret-sauce", Input: "0101"}
	require.NoError(t, s.Save(ctx, original))

	stored, err := under.Load(ctx, "secret")
	require.NoError(t, err)
	assert.Contains(t, stored.Source, middleware.EnvelopePrefix)
	assert.NotContains(t, stored.Source, "!>1")
	assert.Empty(t, stored.Description)
	assert.Empty(t, stored.Input)

	loaded, err := s.Load(ctx, "secret")
	require.NoError(t, err)
	assert.Equal(t, "!>1\n", loaded.Source)
	assert.Equal(t, "my-secret-sauce", loaded.Description)
	assert.Equal(t, "0101", loaded.Input)
	assert.Equal(t, stored.UpdatedAt, loaded.UpdatedAt)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	ctx := context.Background()
	under := memory.NewStore()
	oldKey, newKey := generateKey(t), generateKey(t)

	old := secure(t, middleware.EncryptionConfig{ActiveKey: oldKey}, under)
	require.NoError(t, old.Save(ctx, &domain.ProgramSource{ID: "p", Source: "END\n"}))

	rotated := secure(t, middleware.EncryptionConfig{ActiveKey: newKey, FallbackKeys: [][]byte{oldKey}}, under)
	loaded, err := rotated.Load(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, "END\n", loaded.Source)

	wrong := secure(t, middleware.EncryptionConfig{ActiveKey: generateKey(t)}, under)
	_, err = wrong.Load(ctx, "p")
	require.Error(t, err)
}

func TestEncryptionMiddleware_RejectsPlainPrograms(t *testing.T) {
	ctx := context.Background()
	under := memory.NewStore(&domain.ProgramSource{ID: "plain", Source: "END\n"})
	s := secure(t, middleware.EncryptionConfig{ActiveKey: generateKey(t)}, under)

	_, err := s.Load(ctx, "plain")
	require.ErrorIs(t, err, middleware.ErrNotEncrypted)

	_, err = s.Load(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrProgramNotFound)
}

func TestNewEncryptionMiddleware_KeyLength(t *testing.T) {
	_, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short")})
	require.Error(t, err)
}

func TestParseKey(t *testing.T) {
	key := generateKey(t)
	got, err := middleware.ParseKey(base64.StdEncoding.EncodeToString(key))
	require.NoError(t, err)
	assert.Equal(t, key, got)

	_, err = middleware.ParseKey("not base64!")
	require.Error(t, err)
	_, err = middleware.ParseKey(base64.StdEncoding.EncodeToString([]byte("short")))
	require.Error(t, err)
}
