package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/entities"
)

func TestFileLockfileRepository_RoundTrip(t *testing.T) {
	repo := NewFileLockfileRepository()
	path := filepath.Join(t.TempDir(), "diffrakt.lock")

	lock := entities.NewLockfile()
	require.NoError(t, lock.AddProvider("ecp", entities.ProviderLock{
		Requested: "^1.0",
		Resolved:  "1.2.3",
		Source:    "ghcr.io/diffrakt-dev/diffrakt-providers/ecp:1.2.3",
		Digest:    "sha256:feedbeef",
		Fetched:   time.Now().UTC().Truncate(time.Second),
	}))

	require.NoError(t, repo.Save(context.Background(), lock, path))

	exists, err := repo.Exists(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, exists)

	loaded, err := repo.Load(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	pinned := loaded.GetProvider("ecp")
	require.NotNil(t, pinned)
	assert.Equal(t, "1.2.3", pinned.Resolved)
	assert.Equal(t, "sha256:feedbeef", pinned.Digest)
}

func TestFileLockfileRepository_MissingFileIsNil(t *testing.T) {
	repo := NewFileLockfileRepository()

	lock, err := repo.Load(context.Background(), filepath.Join(t.TempDir(), "absent.lock"))
	require.NoError(t, err)
	assert.Nil(t, lock)

	lock, err = repo.Load(context.Background(), filepath.Join(t.TempDir(), "no-such-dir", "absent.lock"))
	require.NoError(t, err)
	assert.Nil(t, lock)
}

func TestFileLockfileRepository_RejectsInvalid(t *testing.T) {
	repo := NewFileLockfileRepository()
	path := filepath.Join(t.TempDir(), "diffrakt.lock")

	// Entry without a digest violates the lockfile invariant.
	raw := "lockfile_version: 1\ngenerated: 2026-01-01T00:00:00Z\nproviders:\n  ecp:\n    requested: \"^1.0\"\n    resolved: \"\"\n    source: x\n    digest: sha256:abc\n"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	_, err := repo.Load(context.Background(), path)
	assert.Error(t, err)
}
