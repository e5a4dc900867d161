package dto

import "github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/values"

// TypeSpecDTO carries a provider request from configuration into the
// service layer.
type TypeSpecDTO struct {
	Provider string
	Digest   string
}

func (s *TypeSpecDTO) ToProviderReference() (values.ProviderReference, error) {
	return values.ParseProviderReference(s.Provider)
}

func (s *TypeSpecDTO) ToDigest() (values.Digest, error) {
	if s.Digest == "" {
		return values.Digest{}, nil
	}
	return values.ParseDigest(s.Digest)
}
