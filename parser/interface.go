package parser

import "github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/entities"

// RegistryParser parses raw registry manifest bytes into a TypeSpecSet.
type RegistryParser interface {
	// Parse unmarshals manifest bytes into an ordered set of type specs.
	Parse(data []byte) (*entities.TypeSpecSet, error)
}
