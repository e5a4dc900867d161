// Package validation checks registry manifests against the host's
// consistency rules before they are loaded.
package validation

import (
	"fmt"

	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/entities"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/values"
)

// registryValidator implements RegistryValidator.
type registryValidator struct {
	builtins map[string]struct{}
}

// NewRegistryValidator creates a validator. builtins names the providers
// compiled into the host; entries referencing other plain names fail
// resolution.
func NewRegistryValidator(builtins []string) RegistryValidator {
	set := make(map[string]struct{}, len(builtins))
	for _, b := range builtins {
		set[b] = struct{}{}
	}
	return &registryValidator{builtins: set}
}

// Validate checks that every entry resolves and that identifiers are
// unambiguous across the whole set.
func (v *registryValidator) Validate(specs *entities.TypeSpecSet) (*ValidationResult, error) {
	if specs == nil {
		return nil, fmt.Errorf("spec set cannot be nil")
	}

	result := &ValidationResult{Valid: true}

	displaySeen := make(map[string]string) // signal_type -> first owner
	aliasSeen := make(map[string]string)   // alias -> first owner

	for _, spec := range specs.All() {
		if _, err := values.NewTypeName(spec.Name); err != nil {
			result.AddError(fmt.Sprintf("type %q: %v", spec.Name, err))
		}
		if _, err := values.ParseDType(spec.DType); err != nil {
			result.AddError(fmt.Sprintf("type %q: %v", spec.Name, err))
		}

		v.checkProvider(spec, result)

		if first, dup := displaySeen[spec.SignalType]; dup {
			result.AddError(fmt.Sprintf("signal_type %q is claimed by both %q and %q",
				spec.SignalType, first, spec.Name))
		} else {
			displaySeen[spec.SignalType] = spec.Name
		}

		for _, alias := range spec.Aliases {
			if first, dup := aliasSeen[alias]; dup {
				result.AddError(fmt.Sprintf("alias %q is claimed by both %q and %q",
					alias, first, spec.Name))
			} else {
				aliasSeen[alias] = spec.Name
			}
			if _, clash := specs.Get(alias); clash {
				result.AddError(fmt.Sprintf("alias %q of type %q shadows a registered type name",
					alias, spec.Name))
			}
		}
	}

	// A display string may not equal another entry's type name: names
	// win during lookup, leaving the display string unreachable.
	for display, owner := range displaySeen {
		if clash, ok := specs.Get(display); ok && clash.Name != owner {
			result.AddError(fmt.Sprintf("signal_type %q of type %q shadows a registered type name",
				display, owner))
		}
	}

	// Aliases may not collide with display strings either; both are
	// lookup keys.
	for alias, owner := range aliasSeen {
		if first, clash := displaySeen[alias]; clash && first != owner {
			result.AddError(fmt.Sprintf("alias %q of type %q shadows the signal_type of %q",
				alias, owner, first))
		}
	}

	return result, nil
}

func (v *registryValidator) checkProvider(spec *entities.TypeSpec, result *ValidationResult) {
	if spec.IsBuiltIn() {
		if _, ok := v.builtins[spec.Provider]; !ok {
			result.AddError(fmt.Sprintf("type %q: built-in provider %q is not registered with the host",
				spec.Name, spec.Provider))
		}
		return
	}

	if _, err := values.ParseProviderReference(spec.Provider); err != nil {
		result.AddError(fmt.Sprintf("type %q: %v", spec.Name, err))
	}
	if spec.Digest != "" {
		if _, err := values.ParseDigest(spec.Digest); err != nil {
			result.AddError(fmt.Sprintf("type %q: %v", spec.Name, err))
		}
	}
}
