// Package signaltype implements management of signal-type providers:
// resolution, integrity verification, caching, and publishing.
package signaltype

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/dto"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/entities"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/ports"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/services"
)

// ProviderService orchestrates provider management use cases.
// Coordinates domain services and infrastructure adapters.
type ProviderService struct {
	resolver          services.ProviderResolutionStrategy
	repository        ports.ProviderRepository
	registry          ports.ProviderRegistry
	integrityVerifier ports.IntegrityVerifier
	integrityService  *services.IntegrityService
	logger            *slog.Logger
}

// ProviderServiceOption configures a ProviderService.
type ProviderServiceOption func(*ProviderService)

// NewProviderService creates a provider service with the given options.
// Repository and registry are required dependencies.
func NewProviderService(
	repository ports.ProviderRepository,
	registry ports.ProviderRegistry,
	opts ...ProviderServiceOption,
) *ProviderService {
	s := &ProviderService{
		repository:       repository,
		registry:         registry,
		logger:           slog.Default(),
		integrityService: services.NewIntegrityService(false),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithResolver sets the provider resolution strategy.
func WithResolver(r services.ProviderResolutionStrategy) ProviderServiceOption {
	return func(s *ProviderService) { s.resolver = r }
}

// WithIntegrityVerifier sets the integrity verifier.
func WithIntegrityVerifier(iv ports.IntegrityVerifier) ProviderServiceOption {
	return func(s *ProviderService) { s.integrityVerifier = iv }
}

// WithIntegrityService sets the integrity service.
func WithIntegrityService(is *services.IntegrityService) ProviderServiceOption {
	return func(s *ProviderService) { s.integrityService = is }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ProviderServiceOption {
	return func(s *ProviderService) { s.logger = l }
}

// LoadProvider is the main use case for loading a signal-type provider.
// Returns the resolved signal type and, for WASM providers, the file path
// to the binary (empty for built-ins).
func (s *ProviderService) LoadProvider(ctx context.Context, spec *dto.TypeSpecDTO) (*entities.SignalType, string, error) {
	ref, err := spec.ToProviderReference()
	if err != nil {
		return nil, "", fmt.Errorf("invalid provider reference: %w", err)
	}

	expectedDigest, err := spec.ToDigest()
	if err != nil {
		return nil, "", fmt.Errorf("invalid digest: %w", err)
	}

	// Resolve through the chain: built-in -> cache -> registry.
	st, err := s.resolver.Resolve(ctx, ref)
	if err != nil {
		return nil, "", fmt.Errorf("provider resolution failed: %w", err)
	}

	if ref.IsBuiltIn() {
		return st, "", nil
	}

	// Verify digest if pinned (lockfile enforcement).
	if expectedDigest.Value() != "" {
		if err := s.integrityService.VerifyDigest(st, expectedDigest); err != nil {
			return nil, "", fmt.Errorf("integrity verification failed: %w", err)
		}
	}

	// Verify signature if required by policy.
	if s.integrityService.ShouldVerifySignature() {
		result, err := s.integrityVerifier.VerifySignature(ctx, ref)
		if err != nil {
			return nil, "", fmt.Errorf("signature verification failed: %w", err)
		}
		s.logger.Info("provider signature verified",
			"provider", ref.String(),
			"signer", result.Signer,
			"signed_at", result.SignedAt)
	}

	_, wasmPath, err := s.repository.Find(ctx, ref)
	if err != nil {
		return nil, "", fmt.Errorf("failed to locate provider binary: %w", err)
	}

	return st, wasmPath, nil
}

// PublishProvider uploads a provider artifact to a registry.
func (s *ProviderService) PublishProvider(
	ctx context.Context,
	st *entities.SignalType,
	wasm io.Reader,
	shouldSign bool,
) error {
	artifact := dto.NewProviderArtifactDTO(st, io.NopCloser(wasm))
	defer func() {
		if err := artifact.Close(); err != nil {
			s.logger.Warn("failed to close artifact", "ref", st.Provider().String(), "error", err)
		}
	}()

	if err := s.registry.Push(ctx, artifact); err != nil {
		return fmt.Errorf("push failed: %w", err)
	}

	if shouldSign {
		if err := s.integrityVerifier.Sign(ctx, st.Provider()); err != nil {
			return fmt.Errorf("signing failed: %w", err)
		}
		s.logger.Info("provider signed", "ref", st.Provider().String())
	}

	return nil
}

// ListCachedProviders returns all providers in the local cache.
func (s *ProviderService) ListCachedProviders(ctx context.Context) ([]*entities.SignalType, error) {
	return s.repository.List(ctx)
}

// PruneCache removes old provider versions.
func (s *ProviderService) PruneCache(ctx context.Context, keepVersions int) error {
	return s.repository.Prune(ctx, keepVersions)
}
