// Package resolvers implements the provider resolution chain.
package resolvers

import (
	"context"

	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/entities"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/services"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/values"
)

// BuiltinResolver resolves providers that ship with the SDK.
// Built-in providers have no artifact and no digest; the catalog maps a
// provider name to the metadata of the signal type it implements.
type BuiltinResolver struct {
	services.BaseResolver
	catalog map[string]values.TypeMetadata
}

// NewBuiltinResolver creates a resolver over the given catalog.
func NewBuiltinResolver(catalog map[string]values.TypeMetadata) *BuiltinResolver {
	if catalog == nil {
		catalog = make(map[string]values.TypeMetadata)
	}
	return &BuiltinResolver{catalog: catalog}
}

// Resolve returns a built-in signal type, or delegates for remote
// references.
func (r *BuiltinResolver) Resolve(ctx context.Context, ref values.ProviderReference) (*entities.SignalType, error) {
	if !ref.IsBuiltIn() {
		return r.ResolveNext(ctx, ref)
	}

	meta, ok := r.catalog[ref.Name()]
	if !ok {
		return nil, &entities.TypeNotFoundError{Reference: ref}
	}

	name, err := values.NewTypeName(ref.Name())
	if err != nil {
		return nil, err
	}

	return entities.NewSignalType(name, ref, values.Digest{}, meta), nil
}

// Has reports whether a built-in provider with the given name exists.
func (r *BuiltinResolver) Has(name string) bool {
	_, ok := r.catalog[name]
	return ok
}
