package values

import (
	"fmt"
	"strings"
)

// DType categorizes the element type of a signal's underlying data.
type DType string

const (
	DTypeReal    DType = "real"
	DTypeComplex DType = "complex"
	DTypeBool    DType = "bool"
)

// ParseDType validates and normalizes a dtype category string.
func ParseDType(s string) (DType, error) {
	switch DType(strings.ToLower(strings.TrimSpace(s))) {
	case DTypeReal:
		return DTypeReal, nil
	case DTypeComplex:
		return DTypeComplex, nil
	case DTypeBool:
		return DTypeBool, nil
	default:
		return "", fmt.Errorf("unknown dtype category: %q", s)
	}
}

// TypeMetadata describes a registered signal type: its display string,
// lookup aliases, signal dimensionality, dtype category, and whether the
// underlying data is lazily loaded.
type TypeMetadata struct {
	signalType string
	aliases    []string
	dimension  int
	dtype      DType
	lazy       bool
}

// NewTypeMetadata creates signal-type metadata.
// The display string must be non-empty and the dimension non-negative.
func NewTypeMetadata(signalType string, aliases []string, dimension int, dtype DType, lazy bool) (TypeMetadata, error) {
	signalType = strings.TrimSpace(signalType)
	if signalType == "" {
		return TypeMetadata{}, fmt.Errorf("signal_type display string cannot be empty")
	}
	if dimension < 0 {
		return TypeMetadata{}, fmt.Errorf("signal dimension cannot be negative: %d", dimension)
	}
	if _, err := ParseDType(string(dtype)); err != nil {
		return TypeMetadata{}, err
	}

	cleaned := make([]string, 0, len(aliases))
	seen := make(map[string]struct{}, len(aliases))
	for _, a := range aliases {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if _, dup := seen[a]; dup {
			return TypeMetadata{}, fmt.Errorf("duplicate alias %q for signal type %q", a, signalType)
		}
		seen[a] = struct{}{}
		cleaned = append(cleaned, a)
	}

	return TypeMetadata{
		signalType: signalType,
		aliases:    cleaned,
		dimension:  dimension,
		dtype:      dtype,
		lazy:       lazy,
	}, nil
}

// MustNewTypeMetadata creates metadata or panics.
func MustNewTypeMetadata(signalType string, aliases []string, dimension int, dtype DType, lazy bool) TypeMetadata {
	m, err := NewTypeMetadata(signalType, aliases, dimension, dtype, lazy)
	if err != nil {
		panic(err)
	}
	return m
}

// SignalType returns the display signal_type string.
func (m TypeMetadata) SignalType() string {
	return m.signalType
}

// Aliases returns the lookup aliases.
func (m TypeMetadata) Aliases() []string {
	out := make([]string, len(m.aliases))
	copy(out, m.aliases)
	return out
}

// Dimension returns the signal dimensionality.
func (m TypeMetadata) Dimension() int {
	return m.dimension
}

// DType returns the dtype category.
func (m TypeMetadata) DType() DType {
	return m.dtype
}

// Lazy reports whether the signal's data is deferred/chunked.
func (m TypeMetadata) Lazy() bool {
	return m.lazy
}
