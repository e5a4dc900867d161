// Package oci implements OCI registry adapters for provider artifacts.
package oci

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/memory"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"

	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/dto"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/entities"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/ports"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/values"
)

const (
	// WASMLayerMediaType marks the provider binary layer in a manifest.
	WASMLayerMediaType = "application/vnd.diffrakt.provider.wasm.v1"

	// ConfigMediaType marks the signal-type descriptor config blob.
	ConfigMediaType = "application/vnd.diffrakt.provider.config.v1+json"
)

// RegistryAdapter implements ports.ProviderRegistry using oras-go.
type RegistryAdapter struct {
	auth ports.AuthProvider
}

// NewRegistryAdapter creates an OCI registry adapter.
func NewRegistryAdapter(auth ports.AuthProvider) *RegistryAdapter {
	return &RegistryAdapter{
		auth: auth,
	}
}

// Pull downloads a provider artifact from the registry.
func (a *RegistryAdapter) Pull(ctx context.Context, ref values.ProviderReference) (*dto.ProviderArtifactDTO, error) {
	repo, err := a.repository(ctx, ref)
	if err != nil {
		return nil, err
	}

	memoryStore := memory.New()
	manifestDesc, err := oras.Copy(ctx, repo, ref.Version(), memoryStore, ref.Version(), oras.CopyOptions{})
	if err != nil {
		return nil, fmt.Errorf("pull artifact: %w", err)
	}

	manifest, err := a.fetchManifest(ctx, memoryStore, manifestDesc)
	if err != nil {
		return nil, err
	}

	meta, err := a.fetchDescriptorConfig(ctx, memoryStore, manifest.Config)
	if err != nil {
		return nil, err
	}

	wasmDesc, err := findWASMLayer(manifest)
	if err != nil {
		return nil, err
	}

	wasmRC, err := memoryStore.Fetch(ctx, wasmDesc)
	if err != nil {
		return nil, fmt.Errorf("fetch wasm: %w", err)
	}
	defer func() {
		_ = wasmRC.Close()
	}()

	wasmBytes, err := io.ReadAll(wasmRC)
	if err != nil {
		return nil, fmt.Errorf("read wasm: %w", err)
	}

	digest, err := values.ParseDigest(string(wasmDesc.Digest))
	if err != nil {
		return nil, fmt.Errorf("invalid layer digest: %w", err)
	}

	name, err := values.NewTypeName(ref.Name())
	if err != nil {
		return nil, err
	}

	st := entities.NewSignalType(name, ref, digest, meta)

	return dto.NewProviderArtifactDTO(st, io.NopCloser(bytes.NewReader(wasmBytes))), nil
}

// Push uploads a provider artifact to the registry.
func (a *RegistryAdapter) Push(ctx context.Context, artifact *dto.ProviderArtifactDTO) error {
	st := artifact.SignalType
	ref := st.Provider()

	repo, err := a.repository(ctx, ref)
	if err != nil {
		return err
	}

	wasmBytes, err := io.ReadAll(artifact.WASM)
	if err != nil {
		return fmt.Errorf("read wasm: %w", err)
	}

	memoryStore := memory.New()

	configBytes, err := marshalDescriptorConfig(st.Metadata())
	if err != nil {
		return err
	}
	configDesc, err := oras.PushBytes(ctx, memoryStore, ConfigMediaType, configBytes)
	if err != nil {
		return fmt.Errorf("push config blob: %w", err)
	}

	wasmDesc, err := oras.PushBytes(ctx, memoryStore, WASMLayerMediaType, wasmBytes)
	if err != nil {
		return fmt.Errorf("push wasm blob: %w", err)
	}

	manifestDesc, err := oras.PackManifest(ctx, memoryStore, oras.PackManifestVersion1_1, ConfigMediaType,
		oras.PackManifestOptions{
			ConfigDescriptor: &configDesc,
			Layers:           []ocispec.Descriptor{wasmDesc},
		})
	if err != nil {
		return fmt.Errorf("pack manifest: %w", err)
	}

	if err := memoryStore.Tag(ctx, manifestDesc, ref.Version()); err != nil {
		return fmt.Errorf("tag manifest: %w", err)
	}

	if _, err := oras.Copy(ctx, memoryStore, ref.Version(), repo, ref.Version(), oras.CopyOptions{}); err != nil {
		return fmt.Errorf("push artifact: %w", err)
	}

	return nil
}

// Resolve resolves a reference to its content digest.
func (a *RegistryAdapter) Resolve(ctx context.Context, ref values.ProviderReference) (values.Digest, error) {
	repo, err := a.repository(ctx, ref)
	if err != nil {
		return values.Digest{}, err
	}

	desc, err := repo.Resolve(ctx, ref.Version())
	if err != nil {
		return values.Digest{}, fmt.Errorf("resolve %s: %w", ref.String(), err)
	}

	return values.ParseDigest(string(desc.Digest))
}

// Tags lists the available version tags for a provider.
func (a *RegistryAdapter) Tags(ctx context.Context, ref values.ProviderReference) ([]string, error) {
	repo, err := a.repository(ctx, ref)
	if err != nil {
		return nil, err
	}

	var out []string
	err = repo.Tags(ctx, "", func(tags []string) error {
		out = append(out, tags...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list tags for %s: %w", ref.Repository(), err)
	}

	return out, nil
}

// Helper methods

func (a *RegistryAdapter) repository(ctx context.Context, ref values.ProviderReference) (*remote.Repository, error) {
	repo, err := remote.NewRepository(ref.Repository())
	if err != nil {
		return nil, fmt.Errorf("create repository: %w", err)
	}

	username, password, err := a.auth.GetCredentials(ctx, ref.Registry())
	if err == nil && username != "" {
		repo.Client = &auth.Client{
			Credential: func(ctx context.Context, registry string) (auth.Credential, error) {
				return auth.Credential{
					Username: username,
					Password: password,
				}, nil
			},
		}
	}

	return repo, nil
}

func (a *RegistryAdapter) fetchManifest(ctx context.Context, store *memory.Store, desc ocispec.Descriptor) (*ocispec.Manifest, error) {
	rc, err := store.Fetch(ctx, desc)
	if err != nil {
		return nil, fmt.Errorf("fetch manifest: %w", err)
	}
	defer func() {
		_ = rc.Close()
	}()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var manifest ocispec.Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("invalid manifest JSON: %w", err)
	}
	return &manifest, nil
}

func (a *RegistryAdapter) fetchDescriptorConfig(ctx context.Context, store *memory.Store, desc ocispec.Descriptor) (values.TypeMetadata, error) {
	rc, err := store.Fetch(ctx, desc)
	if err != nil {
		return values.TypeMetadata{}, fmt.Errorf("fetch config: %w", err)
	}
	defer func() {
		_ = rc.Close()
	}()

	data, err := io.ReadAll(rc)
	if err != nil {
		return values.TypeMetadata{}, fmt.Errorf("read config: %w", err)
	}

	return unmarshalDescriptorConfig(data)
}

type descriptorConfig struct {
	SignalType string   `json:"signal_type"`
	Aliases    []string `json:"aliases,omitempty"`
	Dimension  int      `json:"signal_dimension"`
	DType      string   `json:"dtype"`
	Lazy       bool     `json:"lazy"`
}

func marshalDescriptorConfig(meta values.TypeMetadata) ([]byte, error) {
	cfg := descriptorConfig{
		SignalType: meta.SignalType(),
		Aliases:    meta.Aliases(),
		Dimension:  meta.Dimension(),
		DType:      string(meta.DType()),
		Lazy:       meta.Lazy(),
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal descriptor config: %w", err)
	}
	return data, nil
}

func unmarshalDescriptorConfig(data []byte) (values.TypeMetadata, error) {
	var cfg descriptorConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return values.TypeMetadata{}, fmt.Errorf("invalid config JSON: %w", err)
	}
	return values.NewTypeMetadata(cfg.SignalType, cfg.Aliases, cfg.Dimension, values.DType(cfg.DType), cfg.Lazy)
}

func findWASMLayer(manifest *ocispec.Manifest) (ocispec.Descriptor, error) {
	for _, layer := range manifest.Layers {
		if layer.MediaType == WASMLayerMediaType {
			return layer, nil
		}
	}
	return ocispec.Descriptor{}, fmt.Errorf("no WASM layer found")
}
