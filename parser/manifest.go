package parser

import (
	"fmt"

	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/entities"
)

// supportedManifestVersion is the only registry manifest version the host
// currently accepts.
const supportedManifestVersion = 1

// manifest is the wire shape of a registry manifest, shared by the YAML
// and JSON parsers.
type manifest struct {
	RegistryVersion int            `yaml:"registry_version" json:"registry_version"`
	Types           []manifestType `yaml:"types" json:"types"`
}

type manifestType struct {
	Name       string   `yaml:"name" json:"name"`
	SignalType string   `yaml:"signal_type" json:"signal_type"`
	Aliases    []string `yaml:"aliases" json:"aliases,omitempty"`
	Dimension  int      `yaml:"signal_dimension" json:"signal_dimension"`
	DType      string   `yaml:"dtype" json:"dtype"`
	Lazy       bool     `yaml:"lazy" json:"lazy"`
	Provider   string   `yaml:"provider" json:"provider"`
	Digest     string   `yaml:"digest" json:"digest,omitempty"`
	Verify     bool     `yaml:"verify" json:"verify,omitempty"`
}

// toSpecSet converts a decoded manifest into the domain representation,
// enforcing version support and per-entry invariants.
func (m *manifest) toSpecSet() (*entities.TypeSpecSet, error) {
	if m.RegistryVersion != supportedManifestVersion {
		return nil, fmt.Errorf("unsupported registry manifest version %d (supported: %d)",
			m.RegistryVersion, supportedManifestVersion)
	}

	set := entities.NewTypeSpecSet()
	for _, t := range m.Types {
		spec := &entities.TypeSpec{
			Name:       t.Name,
			SignalType: t.SignalType,
			Aliases:    t.Aliases,
			Dimension:  t.Dimension,
			DType:      t.DType,
			Lazy:       t.Lazy,
			Provider:   t.Provider,
			Digest:     t.Digest,
			Verify:     t.Verify,
		}
		if err := set.Add(spec); err != nil {
			return nil, err
		}
	}
	return set, nil
}
