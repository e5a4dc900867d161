package filesystem

import (
	"time"

	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/entities"
)

// Lockfile represents the YAML structure of a provider lockfile.
type Lockfile struct {
	Generated time.Time               `yaml:"generated"`
	Providers map[string]ProviderLock `yaml:"providers"`
	Version   int                     `yaml:"lockfile_version"`
}

// ProviderLock represents a pinned provider version in YAML.
type ProviderLock struct {
	Fetched   time.Time `yaml:"fetched,omitempty"`
	Requested string    `yaml:"requested"`
	Resolved  string    `yaml:"resolved"`
	Source    string    `yaml:"source"`
	Digest    string    `yaml:"digest"`
}

// ToEntity converts the lockfile to a domain entity.
func (l *Lockfile) ToEntity() *entities.Lockfile {
	entity := &entities.Lockfile{
		Generated: l.Generated,
		Version:   l.Version,
		Providers: make(map[string]entities.ProviderLock, len(l.Providers)),
	}

	for name, lock := range l.Providers {
		entity.Providers[name] = entities.ProviderLock{
			Fetched:   lock.Fetched,
			Requested: lock.Requested,
			Resolved:  lock.Resolved,
			Source:    lock.Source,
			Digest:    lock.Digest,
		}
	}

	return entity
}

// FromEntity converts a domain lockfile to its YAML representation.
func FromEntity(entity *entities.Lockfile) *Lockfile {
	if entity == nil {
		return nil
	}

	l := &Lockfile{
		Generated: entity.Generated,
		Version:   entity.Version,
		Providers: make(map[string]ProviderLock, len(entity.Providers)),
	}

	for name, lock := range entity.Providers {
		l.Providers[name] = ProviderLock{
			Fetched:   lock.Fetched,
			Requested: lock.Requested,
			Resolved:  lock.Resolved,
			Source:    lock.Source,
			Digest:    lock.Digest,
		}
	}

	return l
}
