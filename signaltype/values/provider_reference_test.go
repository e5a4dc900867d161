package values

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseProviderReference(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantStr  string
		builtIn  bool
		wantName string
		wantErr  bool
	}{
		{"built-in", "ebsd", "ebsd", true, "ebsd", false},
		{
			"full OCI reference",
			"ghcr.io/diffrakt-dev/diffrakt-providers/ebsd:1.0.2",
			"ghcr.io/diffrakt-dev/diffrakt-providers/ebsd:1.0.2",
			false, "ebsd", false,
		},
		{"missing version tag", "ghcr.io/diffrakt-dev/diffrakt-providers/ebsd", "", false, "", true},
		{"too few components", "ghcr.io/ebsd:1.0.0", "", false, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParseProviderReference(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStr, ref.String())
			assert.Equal(t, tt.builtIn, ref.IsBuiltIn())
			assert.Equal(t, tt.wantName, ref.Name())
		})
	}
}

func Test_ProviderReference_WithVersion(t *testing.T) {
	ref := NewProviderReference("ghcr.io", "diffrakt-dev", "diffrakt-providers", "ebsd", "latest")
	pinned := ref.WithVersion("1.2.0")

	assert.Equal(t, "1.2.0", pinned.Version())
	assert.Equal(t, "latest", ref.Version())
	assert.Equal(t, "ghcr.io/diffrakt-dev/diffrakt-providers/ebsd", pinned.Repository())
}

func Test_Digest_Verify(t *testing.T) {
	data := []byte("kikuchi pattern bytes")
	_ = data

	// sha256 of data above, computed once and pinned
	d, err := ParseDigest("sha256:49efbb007846eebb4fd64cccd61fa4dd8cd0d5eb47afa9eb7d05272f5d9a1091")
	require.NoError(t, err)

	// Wrong digest value must fail verification
	assert.Error(t, d.Verify([]byte("different bytes")))
}

func Test_ParseDigest_Invalid(t *testing.T) {
	_, err := ParseDigest("md5:abc")
	assert.Error(t, err)

	_, err = ParseDigest("no-colon")
	assert.Error(t, err)
}

func Test_NewDigest_Validation(t *testing.T) {
	t.Run("Fail_TruncatedValue", func(t *testing.T) {
		_, err := NewDigest("sha256", "0a1b2c")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "64 hex characters")
	})

	t.Run("Fail_NonHexValue", func(t *testing.T) {
		_, err := NewDigest("sha256", strings.Repeat("z", 64))
		assert.Error(t, err)
	})

	t.Run("Fail_SHA512WithSHA256Length", func(t *testing.T) {
		_, err := NewDigest("sha512", strings.Repeat("ab", 32))
		assert.Error(t, err)
	})

	t.Run("SHA512FullLength", func(t *testing.T) {
		d, err := NewDigest("sha512", strings.Repeat("ab", 64))
		require.NoError(t, err)
		assert.Equal(t, "sha512", d.Algorithm())
	})

	t.Run("UppercaseValueNormalized", func(t *testing.T) {
		d, err := NewDigest("sha256", strings.Repeat("AB", 32))
		require.NoError(t, err)
		assert.Equal(t, strings.Repeat("ab", 32), d.Value())
	})
}
