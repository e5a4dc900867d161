// Package parser provides functionality for parsing registry manifests.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/entities"
)

// YamlRegistryParser implements RegistryParser for YAML.
type YamlRegistryParser struct{}

// NewYamlRegistryParser creates a new YamlRegistryParser.
func NewYamlRegistryParser() RegistryParser {
	return &YamlRegistryParser{}
}

// Parse unmarshals YAML manifest bytes into a TypeSpecSet. Unknown
// fields are rejected; a typo in a manifest key must not silently drop
// the value.
func (p *YamlRegistryParser) Parse(data []byte) (*entities.TypeSpecSet, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m manifest
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decoding registry manifest YAML: empty document")
		}
		return nil, fmt.Errorf("decoding registry manifest YAML: %w", err)
	}
	return m.toSpecSet()
}
