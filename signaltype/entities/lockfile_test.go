package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Lockfile_AddProvider(t *testing.T) {
	lock := NewLockfile()

	err := lock.AddProvider("ebsd", ProviderLock{
		Requested: "^1.0",
		Resolved:  "1.0.2",
		Source:    "ghcr.io/diffrakt-dev/diffrakt-providers/ebsd:1.0.2",
		Digest:    "sha256:abc123",
		Fetched:   time.Now().UTC(),
	})
	require.NoError(t, err)

	got := lock.GetProvider("ebsd")
	require.NotNil(t, got)
	assert.Equal(t, "1.0.2", got.Resolved)

	assert.Nil(t, lock.GetProvider("unknown"))
}

func Test_Lockfile_AddProvider_RequiresDigest(t *testing.T) {
	lock := NewLockfile()

	err := lock.AddProvider("ebsd", ProviderLock{Resolved: "1.0.2"})
	assert.Error(t, err)
}

func Test_Lockfile_Validate(t *testing.T) {
	t.Run("empty lockfile is valid", func(t *testing.T) {
		assert.NoError(t, (&Lockfile{Version: 1}).Validate())
	})

	t.Run("entries require timestamp", func(t *testing.T) {
		lock := &Lockfile{
			Version: 1,
			Providers: map[string]ProviderLock{
				"ebsd": {Digest: "sha256:abc", Resolved: "1.0.0"},
			},
		}
		assert.Error(t, lock.Validate())

		lock.Generated = time.Now().UTC()
		assert.NoError(t, lock.Validate())
	})

	t.Run("entries require resolved version", func(t *testing.T) {
		lock := NewLockfile()
		lock.Providers["ebsd"] = ProviderLock{Digest: "sha256:abc"}
		assert.Error(t, lock.Validate())
	})
}
