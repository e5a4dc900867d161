// Package registry implements the signal-type registry: a read-mostly
// mapping from type identifiers to signal-type descriptors, loaded once at
// startup from a registry manifest and frozen thereafter.
package registry

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/invopop/jsonschema"

	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/entities"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/values"
)

// Registry implements SignalTypeRegistry using in-memory storage.
type Registry struct {
	entries map[string]Entry  // type name -> entry
	aliases map[string]string // alias or display string -> type name
	mu      sync.RWMutex
	frozen  bool

	strictMode bool
	reflector  *jsonschema.Reflector
}

// Option configures the Registry.
type Option func(*Registry)

// WithStrictMode controls strict validation mode. When disabled, alias
// collisions are skipped instead of rejected (first registration wins).
func WithStrictMode(strict bool) Option {
	return func(r *Registry) {
		r.strictMode = strict
	}
}

// New creates a new signal-type registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		entries:    make(map[string]Entry),
		aliases:    make(map[string]string),
		reflector:  new(jsonschema.Reflector),
		strictMode: true,
	}

	r.reflector.ExpandedStruct = true

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds a descriptor under its type name.
func (r *Registry) Register(entry Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("registry is frozen: cannot register %q", entry.Name)
	}

	name, err := values.NewTypeName(entry.Name)
	if err != nil {
		return err
	}

	if _, exists := r.entries[name.String()]; exists {
		return &entities.DuplicateTypeError{Name: name.String()}
	}
	if owner, exists := r.aliases[name.String()]; exists {
		return &entities.AmbiguousAliasError{Alias: name.String(), First: owner, Other: name.String()}
	}

	// The display string is a lookup key like any other: it may not
	// collide with an existing type name or another entry's display.
	display := entry.Metadata.SignalType()
	if display != name.String() {
		if _, exists := r.entries[display]; exists {
			return &entities.DuplicateTypeError{Name: display}
		}
		if owner, exists := r.aliases[display]; exists {
			return &entities.DuplicateTypeError{Name: owner}
		}
	}

	// Aliases must not shadow existing names, display strings, or each
	// other across entries.
	for _, alias := range entry.Metadata.Aliases() {
		if _, exists := r.entries[alias]; exists {
			if r.strictMode {
				return &entities.AmbiguousAliasError{Alias: alias, First: alias, Other: name.String()}
			}
			continue
		}
		if owner, exists := r.aliases[alias]; exists && owner != name.String() {
			if r.strictMode {
				return &entities.AmbiguousAliasError{Alias: alias, First: owner, Other: name.String()}
			}
			continue
		}
	}

	r.entries[name.String()] = entry
	if display != name.String() {
		r.aliases[display] = name.String()
	}
	for _, alias := range entry.Metadata.Aliases() {
		if _, taken := r.aliases[alias]; taken {
			continue
		}
		if _, taken := r.entries[alias]; taken {
			continue
		}
		r.aliases[alias] = name.String()
	}

	return nil
}

// Lookup resolves a type name, alias, or signal_type display string.
func (r *Registry) Lookup(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.entries[name]; ok {
		return e, true
	}
	if target, ok := r.aliases[name]; ok {
		e, ok := r.entries[target]
		return e, ok
	}
	return Entry{}, false
}

// List returns all registered entries ordered by type name.
func (r *Registry) List() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Select returns entries matching the given dimensionality and laziness.
func (r *Registry) Select(dimension int, lazy bool) []Entry {
	var out []Entry
	for _, e := range r.List() {
		if e.Metadata.Dimension() == dimension && e.Metadata.Lazy() == lazy {
			out = append(out, e)
		}
	}
	return out
}

// Freeze makes the registry read-only. Lookups remain valid; subsequent
// registrations fail.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// LoadSpecs registers every entry of a parsed manifest, in manifest order.
func (r *Registry) LoadSpecs(specs *entities.TypeSpecSet) error {
	for _, spec := range specs.All() {
		meta, err := values.NewTypeMetadata(spec.SignalType, spec.Aliases, spec.Dimension, values.DType(spec.DType), spec.Lazy)
		if err != nil {
			return fmt.Errorf("type %q: %w", spec.Name, err)
		}
		if err := r.Register(Entry{
			Name:     spec.Name,
			Metadata: meta,
			Provider: spec.Provider,
		}); err != nil {
			return err
		}
	}
	return nil
}

// entrySchema is the JSON-facing shape of a registry entry, used for
// schema reflection.
type entrySchema struct {
	Name       string   `json:"name"`
	SignalType string   `json:"signal_type"`
	Aliases    []string `json:"aliases,omitempty"`
	Dimension  int      `json:"signal_dimension"`
	DType      string   `json:"dtype" jsonschema:"enum=real,enum=complex,enum=bool"`
	Lazy       bool     `json:"lazy"`
	Provider   string   `json:"provider"`
}

// Schema returns the JSON Schema describing a registry entry.
func (r *Registry) Schema() (string, error) {
	s := r.reflector.Reflect(&entrySchema{})
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal generated schema: %w", err)
	}
	return string(b), nil
}
