package registry

import "github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/values"

// SignalTypeRegistry manages the mapping from string identifiers to
// signal-type descriptors.
type SignalTypeRegistry interface {
	// Register adds a descriptor under its type name.
	// Fails on duplicate names, duplicate signal_type display strings,
	// and ambiguous aliases.
	Register(entry Entry) error

	// Lookup resolves a type name, alias, or signal_type display string
	// to its descriptor.
	Lookup(name string) (Entry, bool)

	// List returns all registered entries ordered by type name.
	List() []Entry

	// Select returns entries matching the given dimensionality and
	// laziness.
	Select(dimension int, lazy bool) []Entry

	// Freeze makes the registry read-only.
	Freeze()
}

// Entry is one registered signal type.
type Entry struct {
	// Name is the registry key.
	Name string

	// Metadata carries the signal_type display string, aliases,
	// dimensionality, dtype category and laziness.
	Metadata values.TypeMetadata

	// Provider identifies the implementation: a built-in name or an OCI
	// reference.
	Provider string
}
