// Package entities contains domain entities for the signal-type model.
package entities

import (
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/values"
)

// SignalType is the aggregate root for the signal-type bounded context.
// It ties a registered type name to its metadata and the provider
// implementation resolved for it, with verified integrity.
type SignalType struct {
	name     values.TypeName
	provider values.ProviderReference
	digest   values.Digest
	metadata values.TypeMetadata
}

// NewSignalType creates a new signal type entity.
func NewSignalType(
	name values.TypeName,
	provider values.ProviderReference,
	digest values.Digest,
	metadata values.TypeMetadata,
) *SignalType {
	return &SignalType{
		name:     name,
		provider: provider,
		digest:   digest,
		metadata: metadata,
	}
}

// Name returns the registered type name.
func (s *SignalType) Name() values.TypeName {
	return s.name
}

// Provider returns the provider implementing this signal type.
func (s *SignalType) Provider() values.ProviderReference {
	return s.provider
}

// Digest returns the provider artifact's content hash.
// Zero for built-in providers.
func (s *SignalType) Digest() values.Digest {
	return s.digest
}

// Metadata returns the type's descriptive metadata.
func (s *SignalType) Metadata() values.TypeMetadata {
	return s.metadata
}

// VerifyIntegrity checks if the provider digest matches the expected value.
func (s *SignalType) VerifyIntegrity(expected values.Digest) error {
	if !s.digest.Equals(expected) {
		return &IntegrityError{
			Expected: expected,
			Actual:   s.digest,
		}
	}
	return nil
}
