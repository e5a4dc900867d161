package signaltype

import (
	"context"
	"fmt"
	"time"

	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/entities"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/ports"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/values"
)

// LockfileService orchestrates provider version resolution and locking.
type LockfileService struct {
	repo     ports.LockfileRepository
	registry ports.ProviderRegistry
	resolver ports.VersionResolver
}

// NewLockfileService creates a new LockfileService.
func NewLockfileService(
	repo ports.LockfileRepository,
	registry ports.ProviderRegistry,
	resolver ports.VersionResolver,
) *LockfileService {
	return &LockfileService{
		repo:     repo,
		registry: registry,
		resolver: resolver,
	}
}

// ResolveProviders pins each remote provider in the spec set to an exact
// version and digest, reusing the lockfile where the requested constraint
// has not changed. Built-in providers are skipped; they carry no artifact.
func (s *LockfileService) ResolveProviders(
	ctx context.Context,
	specs *entities.TypeSpecSet,
	lockfilePath string,
) (*entities.Lockfile, error) {
	lock, err := s.repo.Load(ctx, lockfilePath)
	if err != nil {
		return nil, fmt.Errorf("loading lockfile: %w", err)
	}
	if lock == nil {
		lock = entities.NewLockfile()
	}

	updated := false
	for _, spec := range specs.All() {
		if spec.IsBuiltIn() {
			continue
		}

		ref, err := values.ParseProviderReference(spec.Provider)
		if err != nil {
			return nil, fmt.Errorf("type %q: %w", spec.Name, err)
		}

		constraint := ref.Version()
		if locked := lock.GetProvider(spec.Name); locked != nil && locked.Requested == constraint {
			continue // Pin still satisfies the manifest
		}

		tags, err := s.registry.Tags(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("type %q: listing versions: %w", spec.Name, err)
		}

		resolved, err := s.resolver.Resolve(constraint, tags)
		if err != nil {
			return nil, fmt.Errorf("type %q: %w", spec.Name, err)
		}

		pinned := ref.WithVersion(resolved)
		digest, err := s.registry.Resolve(ctx, pinned)
		if err != nil {
			return nil, fmt.Errorf("type %q: resolving digest: %w", spec.Name, err)
		}

		entry := entities.ProviderLock{
			Requested: constraint,
			Resolved:  resolved,
			Source:    pinned.String(),
			Digest:    digest.String(),
			Fetched:   time.Now().UTC(),
		}
		if err := lock.AddProvider(spec.Name, entry); err != nil {
			return nil, err
		}
		updated = true
	}

	if updated {
		lock.Generated = time.Now().UTC()
		if err := s.repo.Save(ctx, lock, lockfilePath); err != nil {
			return nil, fmt.Errorf("saving lockfile: %w", err)
		}
	}

	return lock, nil
}
