package values

import (
	"fmt"
	"strings"
)

// ProviderReference identifies a signal-type provider implementation.
// A provider is either built in (a plain name such as "ebsd") or an OCI
// artifact reference of the form registry.io/org/repo/name:version.
type ProviderReference struct {
	registry string // ghcr.io
	org      string // diffrakt-dev
	repo     string // diffrakt-providers
	name     string // ebsd
	version  string // 1.0.2
}

// NewProviderReference creates a reference from components.
func NewProviderReference(registry, org, repo, name, version string) ProviderReference {
	return ProviderReference{
		registry: registry,
		org:      org,
		repo:     repo,
		name:     name,
		version:  version,
	}
}

// ParseProviderReference parses a provider reference string.
// Examples:
//   - ebsd (built-in)
//   - ghcr.io/diffrakt-dev/diffrakt-providers/ebsd:1.0.2
func ParseProviderReference(ref string) (ProviderReference, error) {
	// Built-in provider (simple name)
	if !strings.Contains(ref, "/") && !strings.Contains(ref, ":") {
		return ProviderReference{name: ref}, nil
	}

	// OCI reference: registry.io/org/repo/name:version
	parts := strings.Split(ref, "/")
	if len(parts) < 4 {
		return ProviderReference{}, fmt.Errorf("invalid OCI provider reference: %s", ref)
	}

	nameVersion := strings.Split(parts[len(parts)-1], ":")
	if len(nameVersion) != 2 {
		return ProviderReference{}, fmt.Errorf("missing version tag: %s", ref)
	}

	return ProviderReference{
		registry: parts[0],
		org:      parts[1],
		repo:     parts[2],
		name:     nameVersion[0],
		version:  nameVersion[1],
	}, nil
}

// String returns the canonical reference string.
func (r ProviderReference) String() string {
	if r.IsBuiltIn() {
		return r.name
	}
	return fmt.Sprintf("%s/%s/%s/%s:%s",
		r.registry, r.org, r.repo, r.name, r.version)
}

// IsBuiltIn returns true if this provider ships with the SDK.
func (r ProviderReference) IsBuiltIn() bool {
	return r.registry == ""
}

// Registry returns the OCI registry host, empty for built-in providers.
func (r ProviderReference) Registry() string {
	return r.registry
}

// Name returns the provider name.
func (r ProviderReference) Name() string {
	return r.name
}

// Version returns the version tag.
func (r ProviderReference) Version() string {
	return r.version
}

// Repository returns the full repository path without the version tag.
func (r ProviderReference) Repository() string {
	if r.IsBuiltIn() {
		return r.name
	}
	return fmt.Sprintf("%s/%s/%s/%s", r.registry, r.org, r.repo, r.name)
}

// WithVersion returns a copy of the reference pinned to the given version.
func (r ProviderReference) WithVersion(version string) ProviderReference {
	r.version = version
	return r
}
