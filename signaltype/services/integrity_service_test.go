package services

import (
	"testing"

	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/entities"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/values"
)

func TestIntegrityService(t *testing.T) {
	ref := values.NewProviderReference("ghcr.io", "diffrakt-dev", "diffrakt-providers", "ebsd", "1.0.0")
	meta := values.MustNewTypeMetadata("EBSD", nil, 2, values.DTypeReal, false)
	digest, _ := values.NewDigest("sha256", "abababababababababababababababababababababababababababababababab")

	st := entities.NewSignalType(values.MustNewTypeName("ebsd"), ref, digest, meta)

	t.Run("VerifyDigest_Success", func(t *testing.T) {
		svc := NewIntegrityService(false)
		if err := svc.VerifyDigest(st, digest); err != nil {
			t.Errorf("VerifyDigest failed: %v", err)
		}
	})

	t.Run("VerifyDigest_Mismatch", func(t *testing.T) {
		svc := NewIntegrityService(false)
		other, _ := values.NewDigest("sha256", "cdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcd")

		if err := svc.VerifyDigest(st, other); err == nil {
			t.Error("VerifyDigest should fail on mismatch")
		}
	})

	t.Run("ShouldVerifySignature", func(t *testing.T) {
		if !NewIntegrityService(true).ShouldVerifySignature() {
			t.Error("Should return true")
		}
		if NewIntegrityService(false).ShouldVerifySignature() {
			t.Error("Should return false")
		}
	})
}
