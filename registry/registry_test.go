package registry_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diffrakt-dev/diffrakt-host-sdk/registry"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/entities"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/values"
)

func ebsdEntry() registry.Entry {
	return registry.Entry{
		Name:     "ebsd",
		Metadata: values.MustNewTypeMetadata("EBSD", []string{"electron_backscatter_diffraction"}, 2, values.DTypeReal, false),
		Provider: "builtin",
	}
}

func Test_Registry_Register(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r := registry.New()

		require.NoError(t, r.Register(ebsdEntry()))

		got, ok := r.Lookup("ebsd")
		require.True(t, ok)
		assert.Equal(t, "EBSD", got.Metadata.SignalType())
	})

	t.Run("Fail_DuplicateName", func(t *testing.T) {
		r := registry.New()

		require.NoError(t, r.Register(ebsdEntry()))

		err := r.Register(ebsdEntry())
		require.Error(t, err)
		assert.True(t, errors.Is(err, entities.ErrDuplicateType))
	})

	t.Run("Fail_DuplicateDisplayString", func(t *testing.T) {
		r := registry.New()

		require.NoError(t, r.Register(ebsdEntry()))

		other := registry.Entry{
			Name:     "ebsd2",
			Metadata: values.MustNewTypeMetadata("EBSD", nil, 2, values.DTypeReal, false),
			Provider: "builtin",
		}
		err := r.Register(other)
		require.Error(t, err)
		assert.True(t, errors.Is(err, entities.ErrDuplicateType))
	})

	t.Run("Fail_DisplayShadowsTypeName", func(t *testing.T) {
		r := registry.New()

		require.NoError(t, r.Register(ebsdEntry()))

		other := registry.Entry{
			Name:     "ecp",
			Metadata: values.MustNewTypeMetadata("ebsd", nil, 2, values.DTypeReal, false),
			Provider: "builtin",
		}
		err := r.Register(other)
		require.Error(t, err)
		assert.True(t, errors.Is(err, entities.ErrDuplicateType))

		got, ok := r.Lookup("ebsd")
		require.True(t, ok)
		assert.Equal(t, "ebsd", got.Name)
	})

	t.Run("Fail_AliasCollision", func(t *testing.T) {
		r := registry.New()

		require.NoError(t, r.Register(ebsdEntry()))

		other := registry.Entry{
			Name:     "ecp",
			Metadata: values.MustNewTypeMetadata("ECP", []string{"electron_backscatter_diffraction"}, 2, values.DTypeReal, false),
			Provider: "builtin",
		}
		err := r.Register(other)
		require.Error(t, err)

		var aliasErr *entities.AmbiguousAliasError
		require.True(t, errors.As(err, &aliasErr))
		assert.Equal(t, "electron_backscatter_diffraction", aliasErr.Alias)
	})

	t.Run("LenientMode_SkipsAliasCollision", func(t *testing.T) {
		r := registry.New(registry.WithStrictMode(false))

		require.NoError(t, r.Register(ebsdEntry()))

		other := registry.Entry{
			Name:     "ecp",
			Metadata: values.MustNewTypeMetadata("ECP", []string{"electron_backscatter_diffraction"}, 2, values.DTypeReal, false),
			Provider: "builtin",
		}
		require.NoError(t, r.Register(other))

		// First registration keeps the alias.
		got, ok := r.Lookup("electron_backscatter_diffraction")
		require.True(t, ok)
		assert.Equal(t, "ebsd", got.Name)
	})

	t.Run("Fail_InvalidName", func(t *testing.T) {
		r := registry.New()

		entry := ebsdEntry()
		entry.Name = "../escape"
		assert.Error(t, r.Register(entry))
	})
}

func Test_Registry_Lookup(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.Register(ebsdEntry()))

	t.Run("ByName", func(t *testing.T) {
		_, ok := r.Lookup("ebsd")
		assert.True(t, ok)
	})

	t.Run("ByAlias", func(t *testing.T) {
		got, ok := r.Lookup("electron_backscatter_diffraction")
		require.True(t, ok)
		assert.Equal(t, "ebsd", got.Name)
	})

	t.Run("ByDisplayString", func(t *testing.T) {
		got, ok := r.Lookup("EBSD")
		require.True(t, ok)
		assert.Equal(t, "ebsd", got.Name)
	})

	t.Run("Unknown", func(t *testing.T) {
		_, ok := r.Lookup("tkd")
		assert.False(t, ok)
	})
}

func Test_Registry_ListAndSelect(t *testing.T) {
	r := registry.New()

	require.NoError(t, r.Register(registry.Entry{
		Name:     "lazy_ebsd",
		Metadata: values.MustNewTypeMetadata("EBSD", nil, 2, values.DTypeReal, true),
		Provider: "builtin",
	}))
	require.NoError(t, r.Register(registry.Entry{
		Name:     "ecp",
		Metadata: values.MustNewTypeMetadata("ECP", nil, 2, values.DTypeReal, false),
		Provider: "builtin",
	}))
	require.NoError(t, r.Register(registry.Entry{
		Name:     "vbse",
		Metadata: values.MustNewTypeMetadata("VirtualBSEImage", nil, 0, values.DTypeReal, false),
		Provider: "builtin",
	}))

	t.Run("List_SortedByName", func(t *testing.T) {
		entries := r.List()
		require.Len(t, entries, 3)
		assert.Equal(t, "ecp", entries[0].Name)
		assert.Equal(t, "lazy_ebsd", entries[1].Name)
		assert.Equal(t, "vbse", entries[2].Name)
	})

	t.Run("Select_DimensionAndLaziness", func(t *testing.T) {
		lazy2d := r.Select(2, true)
		require.Len(t, lazy2d, 1)
		assert.Equal(t, "lazy_ebsd", lazy2d[0].Name)

		eager2d := r.Select(2, false)
		require.Len(t, eager2d, 1)
		assert.Equal(t, "ecp", eager2d[0].Name)
	})
}

func Test_Registry_Freeze(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.Register(ebsdEntry()))

	r.Freeze()

	err := r.Register(registry.Entry{
		Name:     "ecp",
		Metadata: values.MustNewTypeMetadata("ECP", nil, 2, values.DTypeReal, false),
		Provider: "builtin",
	})
	assert.Error(t, err)

	// Lookups still work after freezing.
	_, ok := r.Lookup("ebsd")
	assert.True(t, ok)
}

func Test_Registry_LoadSpecs(t *testing.T) {
	specs := entities.NewTypeSpecSet()
	require.NoError(t, specs.Add(&entities.TypeSpec{
		Name:       "ebsd",
		SignalType: "EBSD",
		Dimension:  2,
		DType:      "real",
		Provider:   "builtin",
	}))
	require.NoError(t, specs.Add(&entities.TypeSpec{
		Name:       "lazy_ebsd",
		SignalType: "LazyEBSD",
		Dimension:  2,
		DType:      "real",
		Lazy:       true,
		Provider:   "builtin",
	}))

	r := registry.New()
	require.NoError(t, r.LoadSpecs(specs))
	assert.Len(t, r.List(), 2)
}

func Test_Registry_Schema(t *testing.T) {
	schema, err := registry.New().Schema()
	require.NoError(t, err)
	assert.Contains(t, schema, "signal_dimension")
	assert.Contains(t, schema, "signal_type")
}
