package resolvers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/entities"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/ports"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/services"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/values"
)

// RegistryProviderResolver pulls providers from OCI registries.
type RegistryProviderResolver struct {
	services.BaseResolver
	registry   ports.ProviderRegistry
	repository ports.ProviderRepository
	logger     *slog.Logger
}

// NewRegistryProviderResolver creates a registry resolver.
func NewRegistryProviderResolver(
	registry ports.ProviderRegistry,
	repository ports.ProviderRepository,
	logger *slog.Logger,
) *RegistryProviderResolver {
	return &RegistryProviderResolver{
		registry:   registry,
		repository: repository,
		logger:     logger,
	}
}

// Resolve pulls from the registry and stores the artifact in the cache.
func (r *RegistryProviderResolver) Resolve(ctx context.Context, ref values.ProviderReference) (*entities.SignalType, error) {
	r.logger.Info("pulling provider from registry", "ref", ref.String())

	artifact, err := r.registry.Pull(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("registry pull failed: %w", err)
	}
	defer func() {
		if cerr := artifact.Close(); cerr != nil {
			r.logger.Warn("failed to close artifact", "ref", ref.String(), "error", cerr)
		}
	}()

	_, err = r.repository.Store(ctx, artifact.SignalType, artifact.WASM)
	if err != nil {
		return nil, fmt.Errorf("cache storage failed: %w", err)
	}

	r.logger.Info("provider cached", "ref", ref.String())

	return artifact.SignalType, nil
}
