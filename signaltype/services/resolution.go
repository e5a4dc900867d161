// Package services contains domain services for the signal-type model.
package services

import (
	"context"

	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/entities"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/values"
)

// ProviderResolutionStrategy defines the interface for provider resolution.
// Implements Chain of Responsibility: built-in -> local cache -> registry.
type ProviderResolutionStrategy interface {
	// Resolve attempts to locate a provider matching the reference.
	Resolve(ctx context.Context, ref values.ProviderReference) (*entities.SignalType, error)

	// SetNext sets the next resolver in the chain.
	SetNext(next ProviderResolutionStrategy)
}

// BaseResolver provides common chain-of-responsibility logic.
type BaseResolver struct {
	next ProviderResolutionStrategy
}

// SetNext sets the next resolver in chain.
func (b *BaseResolver) SetNext(next ProviderResolutionStrategy) {
	b.next = next
}

// ResolveNext delegates to the next resolver in the chain.
func (b *BaseResolver) ResolveNext(ctx context.Context, ref values.ProviderReference) (*entities.SignalType, error) {
	if b.next == nil {
		return nil, &entities.TypeNotFoundError{Reference: ref}
	}
	return b.next.Resolve(ctx, ref)
}
