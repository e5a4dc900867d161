package ports

import (
	"context"
	"io"

	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/entities"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/values"
)

// ProviderRepository manages persistent storage of cached providers.
type ProviderRepository interface {
	// Find retrieves a cached provider by reference. The second return
	// value is the path to the cached WASM binary.
	Find(ctx context.Context, ref values.ProviderReference) (*entities.SignalType, string, error)

	// Store persists a provider with its WASM binary.
	// Returns the path to the stored WASM file.
	Store(ctx context.Context, st *entities.SignalType, wasm io.Reader) (string, error)

	// List returns all cached providers.
	List(ctx context.Context) ([]*entities.SignalType, error)

	// Prune removes old versions, keeping only the specified number.
	Prune(ctx context.Context, keepVersions int) error

	// Delete removes a specific provider from cache.
	Delete(ctx context.Context, ref values.ProviderReference) error
}
