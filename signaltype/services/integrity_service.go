package services

import (
	"fmt"

	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/entities"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/values"
)

// IntegrityService provides domain logic for provider integrity
// verification.
type IntegrityService struct {
	requireSigning bool
}

// NewIntegrityService creates an integrity service.
func NewIntegrityService(requireSigning bool) *IntegrityService {
	return &IntegrityService{
		requireSigning: requireSigning,
	}
}

// VerifyDigest checks if the provider digest matches the expected value.
func (s *IntegrityService) VerifyDigest(st *entities.SignalType, expected values.Digest) error {
	if err := st.VerifyIntegrity(expected); err != nil {
		return fmt.Errorf("provider %s: %w", st.Provider().String(), err)
	}
	return nil
}

// ShouldVerifySignature returns true if signature verification is required.
func (s *IntegrityService) ShouldVerifySignature() bool {
	return s.requireSigning
}
