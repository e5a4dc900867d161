// Package ports defines the interfaces between the signal-type domain and
// its infrastructure adapters.
package ports

import (
	"context"

	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/dto"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/values"
)

// ProviderRegistry provides access to remote OCI registries holding
// signal-type provider artifacts.
type ProviderRegistry interface {
	// Pull downloads a provider artifact from the registry.
	Pull(ctx context.Context, ref values.ProviderReference) (*dto.ProviderArtifactDTO, error)

	// Push uploads a provider artifact to the registry.
	Push(ctx context.Context, artifact *dto.ProviderArtifactDTO) error

	// Resolve resolves a reference to its content digest.
	Resolve(ctx context.Context, ref values.ProviderReference) (values.Digest, error)

	// Tags lists the available version tags for a provider.
	Tags(ctx context.Context, ref values.ProviderReference) ([]string, error)
}

// AuthProvider retrieves authentication credentials for registries.
type AuthProvider interface {
	// GetCredentials returns (username, password, error).
	GetCredentials(ctx context.Context, registry string) (string, string, error)
}
