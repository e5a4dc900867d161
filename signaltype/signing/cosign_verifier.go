// Package signing implements signature verification for provider
// artifacts.
package signing

import (
	"context"
	"crypto"
	"fmt"
	"os"
	"time"

	"github.com/google/go-containerregistry/pkg/name"
	"github.com/sigstore/cosign/v2/pkg/cosign"
	"github.com/sigstore/cosign/v2/pkg/oci"
	"github.com/sigstore/sigstore/pkg/cryptoutils"
	"github.com/sigstore/sigstore/pkg/fulcioroots"
	"github.com/sigstore/sigstore/pkg/signature"

	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/ports"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/values"
)

// CosignVerifier implements ports.IntegrityVerifier using Cosign. With
// public keys configured it verifies against those keys; otherwise it
// performs keyless verification against Fulcio certificates and the
// Rekor transparency log, constrained to the configured OIDC issuers.
type CosignVerifier struct {
	publicKeys  []string
	oidcIssuers []string
}

// NewCosignVerifier creates a Cosign-based verifier. publicKeys are
// paths to PEM-encoded public keys; when empty, keyless verification is
// used instead.
func NewCosignVerifier(publicKeys []string, oidcIssuers []string) *CosignVerifier {
	if len(oidcIssuers) == 0 {
		oidcIssuers = []string{
			"https://token.actions.githubusercontent.com",
			"https://gitlab.com",
		}
	}

	return &CosignVerifier{
		publicKeys:  publicKeys,
		oidcIssuers: oidcIssuers,
	}
}

// VerifySignature checks the provider artifact signature. It fails
// closed: a result with Verified set is returned only when cosign
// accepted at least one signature.
func (v *CosignVerifier) VerifySignature(ctx context.Context, ref values.ProviderReference) (*ports.SignatureResult, error) {
	if ref.IsBuiltIn() {
		return nil, fmt.Errorf("built-in provider %q has no registry signature", ref.String())
	}

	imgRef, err := name.ParseReference(ref.String())
	if err != nil {
		return nil, fmt.Errorf("invalid artifact reference %q: %w", ref.String(), err)
	}

	if len(v.publicKeys) > 0 {
		return v.verifyWithPublicKeys(ctx, imgRef)
	}

	return v.verifyKeyless(ctx, imgRef)
}

// Sign signs a provider artifact.
func (v *CosignVerifier) Sign(ctx context.Context, ref values.ProviderReference) error {
	// Signing happens in release tooling; the host only verifies.
	return fmt.Errorf("signing %s: not supported by the host verifier", ref.String())
}

// Helper methods

func (v *CosignVerifier) verifyWithPublicKeys(ctx context.Context, imgRef name.Reference) (*ports.SignatureResult, error) {
	var lastErr error
	for _, keyPath := range v.publicKeys {
		pemBytes, err := os.ReadFile(keyPath) // #nosec G304 -- operator-supplied key path
		if err != nil {
			return nil, fmt.Errorf("reading public key %s: %w", keyPath, err)
		}
		pub, err := cryptoutils.UnmarshalPEMToPublicKey(pemBytes)
		if err != nil {
			return nil, fmt.Errorf("parsing public key %s: %w", keyPath, err)
		}
		verifier, err := signature.LoadVerifier(pub, crypto.SHA256)
		if err != nil {
			return nil, fmt.Errorf("loading verifier for %s: %w", keyPath, err)
		}

		opts := &cosign.CheckOpts{
			SigVerifier: verifier,
			IgnoreTlog:  true,
			IgnoreSCT:   true,
		}

		// First key that verifies wins.
		sigs, bundleVerified, err := cosign.VerifyImageSignatures(ctx, imgRef, opts)
		if err != nil {
			lastErr = err
			continue
		}
		if len(sigs) > 0 {
			return resultFromSignature(sigs[0], bundleVerified), nil
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("no valid signatures found for %s: %w", imgRef.String(), lastErr)
	}
	return nil, fmt.Errorf("no valid signatures found for %s", imgRef.String())
}

func (v *CosignVerifier) verifyKeyless(ctx context.Context, imgRef name.Reference) (*ports.SignatureResult, error) {
	roots, err := fulcioroots.Get()
	if err != nil {
		return nil, fmt.Errorf("loading Fulcio root certificates: %w", err)
	}
	intermediates, err := fulcioroots.GetIntermediates()
	if err != nil {
		return nil, fmt.Errorf("loading Fulcio intermediate certificates: %w", err)
	}
	rekorPubs, err := cosign.GetRekorPubs(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading Rekor public keys: %w", err)
	}
	ctlogPubs, err := cosign.GetCTLogPubs(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading CT log public keys: %w", err)
	}

	identities := make([]cosign.Identity, 0, len(v.oidcIssuers))
	for _, issuer := range v.oidcIssuers {
		identities = append(identities, cosign.Identity{Issuer: issuer, SubjectRegExp: ".*"})
	}

	opts := &cosign.CheckOpts{
		RootCerts:         roots,
		IntermediateCerts: intermediates,
		RekorPubKeys:      rekorPubs,
		CTLogPubKeys:      ctlogPubs,
		Identities:        identities,
	}

	sigs, bundleVerified, err := cosign.VerifyImageSignatures(ctx, imgRef, opts)
	if err != nil {
		return nil, fmt.Errorf("keyless verification of %s: %w", imgRef.String(), err)
	}
	if len(sigs) == 0 {
		return nil, fmt.Errorf("no valid signatures found for %s", imgRef.String())
	}

	return resultFromSignature(sigs[0], bundleVerified), nil
}

// resultFromSignature maps a checked cosign signature onto the port's
// result type.
func resultFromSignature(sig oci.Signature, bundleVerified bool) *ports.SignatureResult {
	res := &ports.SignatureResult{Verified: true}

	if cert, err := sig.Cert(); err == nil && cert != nil {
		res.Certificate = cert.Raw
		if sans := cryptoutils.GetSubjectAlternateNames(cert); len(sans) > 0 {
			res.Signer = sans[0]
		}
	}

	if bundle, err := sig.Bundle(); err == nil && bundle != nil && bundleVerified {
		res.SignedAt = time.Unix(bundle.Payload.IntegratedTime, 0).UTC()
		res.TransparencyLog = fmt.Sprintf("%s#%d", bundle.Payload.LogID, bundle.Payload.LogIndex)
	}

	return res
}
