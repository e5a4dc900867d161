package signaltype_test

import (
	"context"
	"errors"
	"testing"

	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/dto"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/entities"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/services"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/values"
)

func remoteSignalType(t *testing.T) *entities.SignalType {
	t.Helper()
	ref := values.NewProviderReference("ghcr.io", "diffrakt-dev", "diffrakt-providers", "ebsd", "1.0.0")
	meta := values.MustNewTypeMetadata("EBSD", nil, 2, values.DTypeReal, false)
	digest, _ := values.NewDigest("sha256", "abababababababababababababababababababababababababababababababab")
	return entities.NewSignalType(values.MustNewTypeName("ebsd"), ref, digest, meta)
}

func TestProviderService_LoadProvider(t *testing.T) {
	st := remoteSignalType(t)
	resolver := &signaltype.MockResolver{Found: st}

	t.Run("Success_NoVerification", func(t *testing.T) {
		repo := &signaltype.MockRepository{FindPath: "/cache/ebsd.wasm"}
		svc := signaltype.NewProviderService(
			repo,
			nil, // registry not needed for load
			signaltype.WithResolver(resolver),
		)

		spec := &dto.TypeSpecDTO{Provider: "ghcr.io/diffrakt-dev/diffrakt-providers/ebsd:1.0.0"}
		got, path, err := svc.LoadProvider(context.Background(), spec)
		if err != nil {
			t.Fatalf("LoadProvider failed: %v", err)
		}
		if got != st {
			t.Error("expected resolved signal type")
		}
		if path != "/cache/ebsd.wasm" {
			t.Errorf("expected path /cache/ebsd.wasm, got %s", path)
		}
	})

	t.Run("Success_WithDigestVerification", func(t *testing.T) {
		repo := &signaltype.MockRepository{FindPath: "/cache/ebsd.wasm"}
		svc := signaltype.NewProviderService(
			repo,
			nil,
			signaltype.WithResolver(resolver),
		)

		spec := &dto.TypeSpecDTO{
			Provider: "ghcr.io/diffrakt-dev/diffrakt-providers/ebsd:1.0.0",
			Digest:   "sha256:abababababababababababababababababababababababababababababababab",
		}
		_, _, err := svc.LoadProvider(context.Background(), spec)
		if err != nil {
			t.Errorf("LoadProvider failed: %v", err)
		}
	})

	t.Run("Fail_DigestMismatch", func(t *testing.T) {
		repo := &signaltype.MockRepository{FindPath: "/cache/ebsd.wasm"}
		svc := signaltype.NewProviderService(
			repo,
			nil,
			signaltype.WithResolver(resolver),
		)

		spec := &dto.TypeSpecDTO{
			Provider: "ghcr.io/diffrakt-dev/diffrakt-providers/ebsd:1.0.0",
			Digest:   "sha256:cdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcd",
		}
		_, _, err := svc.LoadProvider(context.Background(), spec)
		if err == nil {
			t.Error("LoadProvider should fail on digest mismatch")
		}
		if !errors.Is(err, entities.ErrIntegrityCheckFailed) {
			t.Errorf("expected integrity error, got %v", err)
		}
	})

	t.Run("Success_WithSignatureVerification", func(t *testing.T) {
		repo := &signaltype.MockRepository{FindPath: "/cache/ebsd.wasm"}
		verifier := &signaltype.MockVerifier{}
		svc := signaltype.NewProviderService(
			repo,
			nil,
			signaltype.WithResolver(resolver),
			signaltype.WithIntegrityVerifier(verifier),
			signaltype.WithIntegrityService(services.NewIntegrityService(true)),
			signaltype.WithLogger(signaltype.NewTestLogger()),
		)

		spec := &dto.TypeSpecDTO{Provider: "ghcr.io/diffrakt-dev/diffrakt-providers/ebsd:1.0.0"}
		_, _, err := svc.LoadProvider(context.Background(), spec)
		if err != nil {
			t.Errorf("LoadProvider failed: %v", err)
		}
	})

	t.Run("BuiltIn_SkipsRepository", func(t *testing.T) {
		builtinMeta := values.MustNewTypeMetadata("EBSD", nil, 2, values.DTypeReal, false)
		builtin := entities.NewSignalType(
			values.MustNewTypeName("ebsd"),
			values.NewProviderReference("", "", "", "ebsd", ""),
			values.Digest{},
			builtinMeta,
		)
		repo := &signaltype.MockRepository{FindErr: errors.New("should not be called")}
		svc := signaltype.NewProviderService(
			repo,
			nil,
			signaltype.WithResolver(&signaltype.MockResolver{Found: builtin}),
		)

		got, path, err := svc.LoadProvider(context.Background(), &dto.TypeSpecDTO{Provider: "ebsd"})
		if err != nil {
			t.Fatalf("LoadProvider failed: %v", err)
		}
		if got != builtin {
			t.Error("expected built-in signal type")
		}
		if path != "" {
			t.Errorf("built-in providers have no binary path, got %q", path)
		}
	})

	t.Run("Fail_ResolutionError", func(t *testing.T) {
		repo := &signaltype.MockRepository{}
		svc := signaltype.NewProviderService(
			repo,
			nil,
			signaltype.WithResolver(&signaltype.MockResolver{Err: errors.New("unreachable")}),
		)

		_, _, err := svc.LoadProvider(context.Background(), &dto.TypeSpecDTO{Provider: "ghcr.io/diffrakt-dev/diffrakt-providers/ebsd:1.0.0"})
		if err == nil {
			t.Error("expected resolution error")
		}
	})
}

func TestProviderService_PublishProvider(t *testing.T) {
	st := remoteSignalType(t)

	t.Run("PushSuccess", func(t *testing.T) {
		registry := &signaltype.MockRegistry{}
		svc := signaltype.NewProviderService(&signaltype.MockRepository{}, registry)

		err := svc.PublishProvider(context.Background(), st, nil, false)
		if err != nil {
			t.Errorf("PublishProvider failed: %v", err)
		}
	})

	t.Run("PushFailure", func(t *testing.T) {
		registry := &signaltype.MockRegistry{PushErr: errors.New("denied")}
		svc := signaltype.NewProviderService(&signaltype.MockRepository{}, registry)

		err := svc.PublishProvider(context.Background(), st, nil, false)
		if err == nil {
			t.Error("expected push error")
		}
	})

	t.Run("PushAndSign", func(t *testing.T) {
		registry := &signaltype.MockRegistry{}
		verifier := &signaltype.MockVerifier{}
		svc := signaltype.NewProviderService(
			&signaltype.MockRepository{},
			registry,
			signaltype.WithIntegrityVerifier(verifier),
			signaltype.WithLogger(signaltype.NewTestLogger()),
		)

		err := svc.PublishProvider(context.Background(), st, nil, true)
		if err != nil {
			t.Errorf("PublishProvider failed: %v", err)
		}
	})
}
