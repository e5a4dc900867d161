package resolvers

import (
	"context"

	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/entities"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/ports"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/services"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/values"
)

// CachedProviderResolver checks the local artifact cache for providers.
type CachedProviderResolver struct {
	services.BaseResolver
	repository ports.ProviderRepository
}

// NewCachedProviderResolver creates a cache-backed resolver.
func NewCachedProviderResolver(repository ports.ProviderRepository) *CachedProviderResolver {
	return &CachedProviderResolver{
		repository: repository,
	}
}

// Resolve checks the cache, otherwise delegates to the next resolver.
func (r *CachedProviderResolver) Resolve(ctx context.Context, ref values.ProviderReference) (*entities.SignalType, error) {
	st, _, err := r.repository.Find(ctx, ref)
	if err == nil {
		return st, nil // Found in cache
	}

	return r.ResolveNext(ctx, ref)
}
