package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/entities"
	"github.com/diffrakt-dev/diffrakt-host-sdk/validation"
)

func specSet(t *testing.T, specs ...*entities.TypeSpec) *entities.TypeSpecSet {
	t.Helper()
	set := entities.NewTypeSpecSet()
	for _, s := range specs {
		require.NoError(t, set.Add(s))
	}
	return set
}

func TestRegistryValidator_Validate(t *testing.T) {
	validator := validation.NewRegistryValidator([]string{"builtin"})

	t.Run("Valid Manifest", func(t *testing.T) {
		set := specSet(t,
			&entities.TypeSpec{Name: "ebsd", SignalType: "EBSD", Aliases: []string{"electron_backscatter_diffraction"}, Dimension: 2, DType: "real", Provider: "builtin"},
			&entities.TypeSpec{Name: "ecp", SignalType: "ECP", Dimension: 2, DType: "real", Provider: "builtin"},
		)

		res, err := validator.Validate(set)
		require.NoError(t, err)
		assert.True(t, res.Valid)
		assert.Empty(t, res.Errors)
	})

	t.Run("Duplicate SignalType", func(t *testing.T) {
		set := specSet(t,
			&entities.TypeSpec{Name: "ebsd", SignalType: "EBSD", Dimension: 2, DType: "real", Provider: "builtin"},
			&entities.TypeSpec{Name: "ebsd2", SignalType: "EBSD", Dimension: 2, DType: "real", Provider: "builtin"},
		)

		res, err := validator.Validate(set)
		require.NoError(t, err)
		assert.False(t, res.Valid)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0], `signal_type "EBSD"`)
	})

	t.Run("SignalType Shadows Type Name", func(t *testing.T) {
		set := specSet(t,
			&entities.TypeSpec{Name: "ebsd", SignalType: "EBSD", Dimension: 2, DType: "real", Provider: "builtin"},
			&entities.TypeSpec{Name: "ecp", SignalType: "ebsd", Dimension: 2, DType: "real", Provider: "builtin"},
		)

		res, err := validator.Validate(set)
		require.NoError(t, err)
		assert.False(t, res.Valid)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0], `signal_type "ebsd"`)
	})

	t.Run("Ambiguous Alias", func(t *testing.T) {
		set := specSet(t,
			&entities.TypeSpec{Name: "ebsd", SignalType: "EBSD", Aliases: []string{"patterns"}, Dimension: 2, DType: "real", Provider: "builtin"},
			&entities.TypeSpec{Name: "ecp", SignalType: "ECP", Aliases: []string{"patterns"}, Dimension: 2, DType: "real", Provider: "builtin"},
		)

		res, err := validator.Validate(set)
		require.NoError(t, err)
		assert.False(t, res.Valid)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0], `alias "patterns"`)
	})

	t.Run("Alias Shadows Type Name", func(t *testing.T) {
		set := specSet(t,
			&entities.TypeSpec{Name: "ebsd", SignalType: "EBSD", Dimension: 2, DType: "real", Provider: "builtin"},
			&entities.TypeSpec{Name: "ecp", SignalType: "ECP", Aliases: []string{"ebsd"}, Dimension: 2, DType: "real", Provider: "builtin"},
		)

		res, err := validator.Validate(set)
		require.NoError(t, err)
		assert.False(t, res.Valid)
	})

	t.Run("Unknown Builtin", func(t *testing.T) {
		set := specSet(t,
			&entities.TypeSpec{Name: "tkd", SignalType: "TKD", Dimension: 2, DType: "real", Provider: "homegrown"},
		)

		res, err := validator.Validate(set)
		require.NoError(t, err)
		assert.False(t, res.Valid)
		assert.Contains(t, res.Errors[0], "not registered with the host")
	})

	t.Run("Remote Provider Reference", func(t *testing.T) {
		set := specSet(t,
			&entities.TypeSpec{
				Name: "lazy_ebsd", SignalType: "LazyEBSD", Dimension: 2, DType: "real", Lazy: true,
				Provider: "ghcr.io/diffrakt-dev/diffrakt-providers/ebsd:1.2.0",
				Digest:   "sha256:abababababababababababababababababababababababababababababababab",
			},
		)

		res, err := validator.Validate(set)
		require.NoError(t, err)
		assert.True(t, res.Valid)
	})

	t.Run("Invalid Remote Reference", func(t *testing.T) {
		set := specSet(t,
			&entities.TypeSpec{Name: "tkd", SignalType: "TKD", Dimension: 2, DType: "real", Provider: "ghcr.io/broken"},
		)

		res, err := validator.Validate(set)
		require.NoError(t, err)
		assert.False(t, res.Valid)
	})

	t.Run("Invalid DType", func(t *testing.T) {
		set := specSet(t,
			&entities.TypeSpec{Name: "ebsd", SignalType: "EBSD", Dimension: 2, DType: "float64", Provider: "builtin"},
		)

		res, err := validator.Validate(set)
		require.NoError(t, err)
		assert.False(t, res.Valid)
	})

	t.Run("Nil SpecSet", func(t *testing.T) {
		_, err := validator.Validate(nil)
		assert.Error(t, err)
	})
}
