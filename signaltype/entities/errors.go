package entities

import (
	"errors"
	"fmt"

	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/values"
)

// Sentinel errors for common error patterns.
// These allow both errors.Is() checks and errors.As() for detailed information.
var (
	// ErrTypeNotFound is returned when a signal type cannot be found in
	// the registry or any provider source.
	ErrTypeNotFound = errors.New("signal type not found")

	// ErrDuplicateType is returned when a registration would shadow an
	// existing type name or signal_type display string.
	ErrDuplicateType = errors.New("duplicate signal type")

	// ErrAmbiguousAlias is returned when an alias collides with a type
	// name or another alias, making lookup ambiguous.
	ErrAmbiguousAlias = errors.New("ambiguous signal type alias")

	// ErrIntegrityCheckFailed is returned when digest verification fails.
	ErrIntegrityCheckFailed = errors.New("integrity check failed")
)

// IntegrityError indicates a provider digest mismatch.
type IntegrityError struct {
	Expected values.Digest
	Actual   values.Digest
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf(
		"integrity check failed: expected %s, got %s",
		e.Expected.String(),
		e.Actual.String(),
	)
}

// Is implements error matching for errors.Is() checks.
func (e *IntegrityError) Is(target error) bool {
	return target == ErrIntegrityCheckFailed
}

// TypeNotFoundError indicates the signal type is not registered and no
// provider source could supply it.
type TypeNotFoundError struct {
	Reference values.ProviderReference
}

func (e *TypeNotFoundError) Error() string {
	return fmt.Sprintf("signal type not found: %s", e.Reference.String())
}

// Is implements error matching for errors.Is() checks.
func (e *TypeNotFoundError) Is(target error) bool {
	return target == ErrTypeNotFound
}

// DuplicateTypeError indicates a registry key collision.
type DuplicateTypeError struct {
	Name string
}

func (e *DuplicateTypeError) Error() string {
	return fmt.Sprintf("duplicate signal type: %q already registered", e.Name)
}

// Is implements error matching for errors.Is() checks.
func (e *DuplicateTypeError) Is(target error) bool {
	return target == ErrDuplicateType
}

// AmbiguousAliasError indicates an alias that cannot be resolved to a
// single signal type.
type AmbiguousAliasError struct {
	Alias string
	First string
	Other string
}

func (e *AmbiguousAliasError) Error() string {
	return fmt.Sprintf(
		"ambiguous alias %q: claimed by both %q and %q",
		e.Alias, e.First, e.Other,
	)
}

// Is implements error matching for errors.Is() checks.
func (e *AmbiguousAliasError) Is(target error) bool {
	return target == ErrAmbiguousAlias
}
