package entities

import (
	"fmt"
	"strings"
)

// TypeSpec is a declarative registry entry as parsed from a registry
// manifest. It maps a type name to the provider implementing it, plus the
// metadata the host framework needs before the provider is loaded.
type TypeSpec struct {
	// Name is the registry key (e.g. "ebsd", "lazy_ebsd").
	Name string

	// SignalType is the display string reported for loaded signals
	// (e.g. "EBSD").
	SignalType string

	// Aliases are alternative lookup names.
	Aliases []string

	// Dimension is the signal dimensionality (2 for pattern images).
	Dimension int

	// DType is the dtype category ("real", "complex", "bool").
	DType string

	// Lazy marks types whose data is deferred/chunked.
	Lazy bool

	// Provider is the implementation source: a built-in name or an OCI
	// reference (e.g. "ghcr.io/diffrakt-dev/diffrakt-providers/ebsd:1.0.0").
	Provider string

	// Digest is the optional content hash for pinning.
	Digest string

	// Verify indicates whether signature verification is required before
	// loading a remote provider.
	Verify bool
}

// IsBuiltIn returns true if this spec references a built-in provider.
func (ts *TypeSpec) IsBuiltIn() bool {
	return !strings.Contains(ts.Provider, "/") && !strings.Contains(ts.Provider, ":")
}

// Validate checks the structural invariants of a single entry.
func (ts *TypeSpec) Validate() error {
	if ts.Name == "" {
		return fmt.Errorf("type spec name cannot be empty")
	}
	if ts.SignalType == "" {
		return fmt.Errorf("type spec %q: signal_type cannot be empty", ts.Name)
	}
	if ts.Dimension < 0 {
		return fmt.Errorf("type spec %q: signal dimension cannot be negative", ts.Name)
	}
	if ts.Provider == "" {
		return fmt.Errorf("type spec %q: provider cannot be empty", ts.Name)
	}
	return nil
}

// TypeSpecSet is an ordered collection of parsed registry entries.
// Manifest order is preserved so validation errors are reported stably.
type TypeSpecSet struct {
	specs []*TypeSpec
	index map[string]*TypeSpec
}

// NewTypeSpecSet creates an empty spec set.
func NewTypeSpecSet() *TypeSpecSet {
	return &TypeSpecSet{
		index: make(map[string]*TypeSpec),
	}
}

// Add appends a spec, rejecting duplicate names.
func (s *TypeSpecSet) Add(spec *TypeSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	if _, exists := s.index[spec.Name]; exists {
		return &DuplicateTypeError{Name: spec.Name}
	}
	s.specs = append(s.specs, spec)
	s.index[spec.Name] = spec
	return nil
}

// Get looks up a spec by its registry key.
func (s *TypeSpecSet) Get(name string) (*TypeSpec, bool) {
	spec, ok := s.index[name]
	return spec, ok
}

// All returns the specs in manifest order.
func (s *TypeSpecSet) All() []*TypeSpec {
	out := make([]*TypeSpec, len(s.specs))
	copy(out, s.specs)
	return out
}

// Len returns the number of entries.
func (s *TypeSpecSet) Len() int {
	return len(s.specs)
}
