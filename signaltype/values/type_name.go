// Package values contains value objects for the signal-type domain model.
package values

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TypeName is a validated signal-type identifier, e.g. "ebsd" or
// "ebsd_master_pattern".
type TypeName struct {
	value string
}

// NewTypeName creates a TypeName with strict validation.
// A valid type name must:
// - Be non-empty after trimming
// - Contain only alphanumeric characters, underscores, and hyphens
// - Be at most 64 characters long
func NewTypeName(name string) (TypeName, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return TypeName{}, fmt.Errorf("signal type name cannot be empty")
	}

	if len(name) > 64 {
		return TypeName{}, fmt.Errorf("signal type name too long (max 64 chars)")
	}

	// Names end up as cache directory components, so path separators and
	// traversal sequences are rejected outright.
	if strings.ContainsAny(name, `/\`) {
		return TypeName{}, fmt.Errorf("signal type name cannot contain path separators")
	}
	if strings.Contains(name, "..") {
		return TypeName{}, fmt.Errorf("signal type name cannot contain parent directory references")
	}

	for _, ch := range name {
		if !isValidTypeNameChar(ch) {
			return TypeName{}, fmt.Errorf("invalid signal type name %q: must contain only alphanumeric characters, underscores, and hyphens", name)
		}
	}

	return TypeName{value: name}, nil
}

func isValidTypeNameChar(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') ||
		r == '_' ||
		r == '-'
}

// MustNewTypeName creates a TypeName or panics.
func MustNewTypeName(name string) TypeName {
	tn, err := NewTypeName(name)
	if err != nil {
		panic(err)
	}
	return tn
}

// String returns the string representation.
func (t TypeName) String() string {
	return t.value
}

// IsEmpty returns true if this is the zero value.
func (t TypeName) IsEmpty() bool {
	return t.value == ""
}

// Equals checks if two type names are equal.
func (t TypeName) Equals(other TypeName) bool {
	return t.value == other.value
}

// MarshalJSON implements json.Marshaler.
func (t TypeName) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *TypeName) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid signal type name JSON: %w", err)
	}

	name, err := NewTypeName(s)
	if err != nil {
		return err
	}
	*t = name
	return nil
}
