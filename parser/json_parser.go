package parser

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/entities"
)

//go:embed registry_schema.json
var registrySchemaJSON string

// JSONRegistryParser implements RegistryParser for JSON. Input is checked
// against the registry manifest schema before decoding.
type JSONRegistryParser struct {
	schema *jsonschema.Schema
}

// NewJSONRegistryParser creates a new JSONRegistryParser.
func NewJSONRegistryParser() (RegistryParser, error) {
	schema, err := jsonschema.CompileString("registry.schema.json", registrySchemaJSON)
	if err != nil {
		return nil, fmt.Errorf("compiling registry manifest schema: %w", err)
	}
	return &JSONRegistryParser{schema: schema}, nil
}

// MustNewJSONRegistryParser creates a JSONRegistryParser or panics.
// The schema is embedded, so compilation only fails on a build defect.
func MustNewJSONRegistryParser() RegistryParser {
	p, err := NewJSONRegistryParser()
	if err != nil {
		panic(err)
	}
	return p
}

// Parse validates and unmarshals JSON manifest bytes into a TypeSpecSet.
func (p *JSONRegistryParser) Parse(data []byte) (*entities.TypeSpecSet, error) {
	var doc any
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding registry manifest JSON: %w", err)
	}

	if err := p.schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("registry manifest failed schema validation: %w", err)
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding registry manifest JSON: %w", err)
	}
	return m.toSpecSet()
}
