package validation

import "github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/entities"

// RegistryValidator validates a parsed registry manifest before it is
// loaded into the host.
type RegistryValidator interface {
	// Validate checks that every entry resolves and that identifiers are
	// unambiguous across the whole set.
	Validate(specs *entities.TypeSpecSet) (*ValidationResult, error)
}

// ValidationResult collects the problems found in a manifest.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// AddError records a problem and marks the result invalid.
func (r *ValidationResult) AddError(msg string) {
	r.Valid = false
	r.Errors = append(r.Errors, msg)
}
