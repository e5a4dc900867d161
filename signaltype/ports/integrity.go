package ports

import (
	"context"
	"time"

	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/values"
)

// IntegrityVerifier verifies cryptographic signatures on provider artifacts.
type IntegrityVerifier interface {
	// VerifySignature checks the signature of a provider in the registry.
	VerifySignature(ctx context.Context, ref values.ProviderReference) (*SignatureResult, error)

	// Sign signs a provider artifact (for publishing).
	Sign(ctx context.Context, ref values.ProviderReference) error
}

// SignatureResult contains signature verification details.
type SignatureResult struct {
	SignedAt        time.Time
	Signer          string
	TransparencyLog string
	Certificate     []byte
	Verified        bool
}
