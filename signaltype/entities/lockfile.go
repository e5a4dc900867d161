package entities

import (
	"fmt"
	"time"
)

// Lockfile is an aggregate root for reproducible provider resolution.
// It pins the provider versions and digests behind every registered signal
// type so a registry manifest resolves identically across machines.
//
// Invariants:
// - Each provider entry must have a digest
// - Generated timestamp must be set when entries exist
type Lockfile struct {
	Generated time.Time
	Providers map[string]ProviderLock
	Version   int
}

// ProviderLock is a value object pinning one provider version.
// Immutable after creation.
type ProviderLock struct {
	Fetched   time.Time
	Requested string // Constraint as written in the manifest (e.g. "^1.0")
	Resolved  string // Exact version fetched (e.g. "1.0.2")
	Source    string // Full provider reference
	Digest    string // Content hash (sha256:...)
}

// NewLockfile creates a new lockfile with the current version.
func NewLockfile() *Lockfile {
	return &Lockfile{
		Version:   1,
		Generated: time.Now().UTC(),
		Providers: make(map[string]ProviderLock),
	}
}

// AddProvider adds a provider lock entry.
// Returns an error if the digest is empty (invariant enforcement).
func (l *Lockfile) AddProvider(name string, lock ProviderLock) error {
	if lock.Digest == "" {
		return fmt.Errorf("provider %q: digest is required", name)
	}
	if l.Providers == nil {
		l.Providers = make(map[string]ProviderLock)
	}
	l.Providers[name] = lock
	return nil
}

// GetProvider retrieves a provider lock entry by name.
// Returns nil if not found.
func (l *Lockfile) GetProvider(name string) *ProviderLock {
	if l.Providers == nil {
		return nil
	}
	if lock, ok := l.Providers[name]; ok {
		return &lock
	}
	return nil
}

// ProviderCount returns the number of pinned providers.
func (l *Lockfile) ProviderCount() int {
	return len(l.Providers)
}

// Validate checks lockfile invariants.
func (l *Lockfile) Validate() error {
	if l.ProviderCount() > 0 && l.Generated.IsZero() {
		return fmt.Errorf("lockfile has entries but no generated timestamp")
	}
	for name, lock := range l.Providers {
		if lock.Digest == "" {
			return fmt.Errorf("provider %q: digest is required", name)
		}
		if lock.Resolved == "" {
			return fmt.Errorf("provider %q: resolved version is required", name)
		}
	}
	return nil
}
