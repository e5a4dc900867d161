// Package repository implements provider artifact storage adapters.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/entities"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/ports"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/services"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/values"
)

const wasmFileName = "provider.wasm"

// FSProviderRepository implements ports.ProviderRepository on the local
// filesystem. Layout: <root>/<registry>/<org>/<repo>/<name>/<version>/.
type FSProviderRepository struct {
	root     string // ~/.diffrakt/providers
	digester ports.Digester
}

// FSOption configures the repository.
type FSOption func(*FSProviderRepository)

// WithDigester overrides the digester used to check stored artifacts.
func WithDigester(d ports.Digester) FSOption {
	return func(r *FSProviderRepository) {
		if d != nil {
			r.digester = d
		}
	}
}

// NewFSProviderRepository creates a filesystem-based repository.
func NewFSProviderRepository(root string, opts ...FSOption) (*FSProviderRepository, error) {
	if root == "" {
		home, _ := os.UserHomeDir()
		root = filepath.Join(home, ".diffrakt", "providers")
	}

	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	r := &FSProviderRepository{
		root:     root,
		digester: services.NewSHA256Digester(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Find retrieves a provider from cache.
func (r *FSProviderRepository) Find(ctx context.Context, ref values.ProviderReference) (*entities.SignalType, string, error) {
	path, err := r.providerPath(ref)
	if err != nil {
		return nil, "", err
	}

	wasmPath := filepath.Join(path, wasmFileName)
	if _, err := os.Stat(wasmPath); err != nil {
		return nil, "", &entities.TypeNotFoundError{Reference: ref}
	}

	desc, err := r.loadDescriptor(path)
	if err != nil {
		return nil, "", err
	}

	digest, err := r.loadDigest(path)
	if err != nil {
		return nil, "", err
	}

	name, err := values.NewTypeName(ref.Name())
	if err != nil {
		return nil, "", err
	}

	return entities.NewSignalType(name, ref, digest, desc), wasmPath, nil
}

// Store persists a provider with its WASM binary.
func (r *FSProviderRepository) Store(ctx context.Context, st *entities.SignalType, wasm io.Reader) (string, error) {
	path, err := r.providerPath(st.Provider())
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(path, 0o750); err != nil {
		return "", err
	}

	wasmPath := filepath.Join(path, wasmFileName)
	wasmFile, err := os.Create(filepath.Clean(wasmPath))
	if err != nil {
		return "", err
	}
	defer func() { _ = wasmFile.Close() }()

	if _, err := io.Copy(wasmFile, wasm); err != nil {
		return "", fmt.Errorf("write wasm: %w", err)
	}
	if err := wasmFile.Close(); err != nil {
		return "", fmt.Errorf("write wasm: %w", err)
	}

	// A pinned digest must match what actually landed on disk.
	if st.Digest().Value() != "" {
		computed, err := r.digester.DigestFile(ctx, wasmPath)
		if err != nil {
			return "", fmt.Errorf("digest stored artifact: %w", err)
		}
		if computed != st.Digest().String() {
			_ = os.Remove(wasmPath)
			return "", fmt.Errorf("stored artifact digest %s does not match pinned %s", computed, st.Digest().String())
		}
	}

	if err := r.saveDescriptor(path, st.Metadata()); err != nil {
		return "", err
	}

	if err := r.saveDigest(path, st.Digest()); err != nil {
		return "", err
	}

	return wasmPath, nil
}

// List returns all cached providers.
// Entries with unreadable descriptors are skipped.
func (r *FSProviderRepository) List(ctx context.Context) ([]*entities.SignalType, error) {
	matches, err := doublestar.FilepathGlob(filepath.Join(r.root, "**", wasmFileName))
	if err != nil {
		return nil, fmt.Errorf("scan cache: %w", err)
	}

	var out []*entities.SignalType
	for _, wasmPath := range matches {
		ref, err := r.parseRefFromPath(filepath.Dir(wasmPath))
		if err != nil {
			continue
		}
		st, _, err := r.Find(ctx, ref)
		if err == nil {
			out = append(out, st)
		}
	}

	return out, nil
}

// Prune removes old versions of each provider, keeping the newest
// keepVersions by semantic version order.
func (r *FSProviderRepository) Prune(ctx context.Context, keepVersions int) error {
	if keepVersions < 1 {
		keepVersions = 1
	}

	matches, err := doublestar.FilepathGlob(filepath.Join(r.root, "**", wasmFileName))
	if err != nil {
		return fmt.Errorf("scan cache: %w", err)
	}

	// Group version directories by provider directory.
	byProvider := make(map[string][]*semver.Version)
	for _, wasmPath := range matches {
		versionDir := filepath.Dir(wasmPath)
		providerDir := filepath.Dir(versionDir)
		v, err := semver.NewVersion(filepath.Base(versionDir))
		if err != nil {
			continue // Non-semver tags are never pruned
		}
		byProvider[providerDir] = append(byProvider[providerDir], v)
	}

	for providerDir, versions := range byProvider {
		if len(versions) <= keepVersions {
			continue
		}
		sort.Sort(sort.Reverse(semver.Collection(versions)))
		for _, v := range versions[keepVersions:] {
			if err := os.RemoveAll(filepath.Join(providerDir, v.Original())); err != nil {
				return fmt.Errorf("prune %s: %w", providerDir, err)
			}
		}
	}

	return nil
}

// Delete removes a provider from cache.
func (r *FSProviderRepository) Delete(ctx context.Context, ref values.ProviderReference) error {
	path, err := r.providerPath(ref)
	if err != nil {
		return err
	}
	return os.RemoveAll(path)
}

// Helper methods

func (r *FSProviderRepository) providerPath(ref values.ProviderReference) (string, error) {
	refPath := filepath.Join(ref.Registry(), refOrgRepoName(ref), ref.Version())

	if filepath.IsAbs(refPath) {
		return "", fmt.Errorf("absolute paths not allowed in provider reference %q", ref.String())
	}

	fullPath := filepath.Join(r.root, refPath)

	cleanRoot := filepath.Clean(r.root)
	cleanPath := filepath.Clean(fullPath)

	// Reject traversal out of the cache root via hostile references.
	if !strings.HasPrefix(cleanPath, cleanRoot+string(os.PathSeparator)) && cleanPath != cleanRoot {
		return "", fmt.Errorf("path traversal detected for provider reference %q", ref.String())
	}

	return cleanPath, nil
}

func refOrgRepoName(ref values.ProviderReference) string {
	repo := ref.Repository()
	if idx := strings.Index(repo, "/"); idx != -1 {
		repo = repo[idx+1:]
	}
	return repo
}

type descriptorFile struct {
	SignalType string   `json:"signal_type"`
	Aliases    []string `json:"aliases,omitempty"`
	Dimension  int      `json:"signal_dimension"`
	DType      string   `json:"dtype"`
	Lazy       bool     `json:"lazy"`
}

func (r *FSProviderRepository) loadDescriptor(path string) (values.TypeMetadata, error) {
	cleanPath := filepath.Clean(filepath.Join(path, "descriptor.json"))
	file, err := os.Open(cleanPath)
	if err != nil {
		return values.TypeMetadata{}, err
	}
	defer func() { _ = file.Close() }()

	var desc descriptorFile
	if err := json.NewDecoder(file).Decode(&desc); err != nil {
		return values.TypeMetadata{}, err
	}

	return values.NewTypeMetadata(desc.SignalType, desc.Aliases, desc.Dimension, values.DType(desc.DType), desc.Lazy)
}

func (r *FSProviderRepository) saveDescriptor(path string, meta values.TypeMetadata) error {
	cleanPath := filepath.Clean(filepath.Join(path, "descriptor.json"))
	file, err := os.Create(cleanPath)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	desc := descriptorFile{
		SignalType: meta.SignalType(),
		Aliases:    meta.Aliases(),
		Dimension:  meta.Dimension(),
		DType:      string(meta.DType()),
		Lazy:       meta.Lazy(),
	}

	return json.NewEncoder(file).Encode(desc)
}

func (r *FSProviderRepository) loadDigest(path string) (values.Digest, error) {
	cleanPath := filepath.Clean(filepath.Join(path, "digest.txt"))
	data, err := os.ReadFile(cleanPath) // Validated internal path
	if err != nil {
		return values.Digest{}, err
	}
	return values.ParseDigest(strings.TrimSpace(string(data)))
}

func (r *FSProviderRepository) saveDigest(path string, digest values.Digest) error {
	return os.WriteFile(filepath.Join(path, "digest.txt"), []byte(digest.String()), 0o600)
}

func (r *FSProviderRepository) parseRefFromPath(versionDir string) (values.ProviderReference, error) {
	relPath, err := filepath.Rel(r.root, versionDir)
	if err != nil {
		return values.ProviderReference{}, err
	}

	// <registry>/<org>/<repo>/<name>/<version>
	parts := strings.Split(filepath.ToSlash(relPath), "/")
	if len(parts) != 5 {
		return values.ProviderReference{}, fmt.Errorf("unexpected cache layout: %s", relPath)
	}

	return values.NewProviderReference(parts[0], parts[1], parts[2], parts[3], parts[4]), nil
}
