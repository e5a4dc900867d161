package repository

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/entities"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/values"
)

const wasmPayload = "fake wasm content"

// sha256 of wasmPayload.
const wasmPayloadDigest = "b366619417f35d3ecd7f31295730521110c0753666703d8fa603de728798aef2"

func newTestType(version string) *entities.SignalType {
	ref := values.NewProviderReference("ghcr.io", "diffrakt-dev", "diffrakt-providers", "ebsd", version)
	digest, _ := values.NewDigest("sha256", wasmPayloadDigest)
	meta := values.MustNewTypeMetadata("EBSD", []string{"electron_backscatter_diffraction"}, 2, values.DTypeReal, false)
	return entities.NewSignalType(values.MustNewTypeName("ebsd"), ref, digest, meta)
}

func TestFSProviderRepository(t *testing.T) {
	tmpDir := t.TempDir()

	repo, err := NewFSProviderRepository(tmpDir)
	require.NoError(t, err)

	st := newTestType("1.0.0")
	wasmContent := []byte(wasmPayload)

	t.Run("Store", func(t *testing.T) {
		path, err := repo.Store(context.Background(), st, bytes.NewReader(wasmContent))
		require.NoError(t, err)

		assert.FileExists(t, path)
		assert.FileExists(t, filepath.Join(filepath.Dir(path), "descriptor.json"))
		assert.FileExists(t, filepath.Join(filepath.Dir(path), "digest.txt"))
	})

	t.Run("Store_Fail_DigestMismatch", func(t *testing.T) {
		tampered := newTestType("6.6.6")

		_, err := repo.Store(context.Background(), tampered, bytes.NewReader([]byte("not the pinned content")))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not match")

		_, _, err = repo.Find(context.Background(), tampered.Provider())
		require.Error(t, err)
	})

	t.Run("Find", func(t *testing.T) {
		got, path, err := repo.Find(context.Background(), st.Provider())
		require.NoError(t, err)

		assert.Equal(t, st.Provider().String(), got.Provider().String())
		assert.Equal(t, "EBSD", got.Metadata().SignalType())
		assert.Equal(t, 2, got.Metadata().Dimension())
		assert.True(t, got.Digest().Equals(st.Digest()))
		assert.FileExists(t, path)
	})

	t.Run("Find_NotFound", func(t *testing.T) {
		missing := values.NewProviderReference("ghcr.io", "diffrakt-dev", "diffrakt-providers", "missing", "1.0.0")
		_, _, err := repo.Find(context.Background(), missing)
		require.Error(t, err)
		assert.True(t, errors.Is(err, entities.ErrTypeNotFound))
	})

	t.Run("List", func(t *testing.T) {
		second := newTestType("1.1.0")
		_, err := repo.Store(context.Background(), second, bytes.NewReader(wasmContent))
		require.NoError(t, err)

		listed, err := repo.List(context.Background())
		require.NoError(t, err)
		assert.Len(t, listed, 2)
	})

	t.Run("Prune_KeepsNewest", func(t *testing.T) {
		third := newTestType("0.9.0")
		_, err := repo.Store(context.Background(), third, bytes.NewReader(wasmContent))
		require.NoError(t, err)

		require.NoError(t, repo.Prune(context.Background(), 1))

		listed, err := repo.List(context.Background())
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, "1.1.0", listed[0].Provider().Version())
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(context.Background(), newTestType("1.1.0").Provider()))

		listed, err := repo.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, listed)
	})
}

func TestFSProviderRepository_DefaultsRootUnderHome(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	repo, err := NewFSProviderRepository("")
	require.NoError(t, err)

	if _, err := os.Stat(repo.root); err != nil {
		t.Errorf("expected cache root to be created: %v", err)
	}
}
