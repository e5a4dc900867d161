// Package indexing provides similarity metrics for comparing gray-tone
// diffraction patterns and dictionary matching of experimental patterns
// against simulated ones.
package indexing

import "fmt"

// MetricScope describes the cardinality of a metric's inputs: how many
// experimental patterns are compared against how many simulated ones per
// call.
type MetricScope string

const (
	ManyToMany MetricScope = "many_to_many"
	OneToMany  MetricScope = "one_to_many"
	ManyToOne  MetricScope = "many_to_one"
	OneToOne   MetricScope = "one_to_one"
)

// lowerScopes maps a scope to the scopes it subsumes when lower-scope
// compatibility is enabled.
var lowerScopes = map[MetricScope][]MetricScope{
	ManyToMany: {ManyToOne, OneToMany, OneToOne},
	OneToMany:  {OneToMany, OneToOne},
	ManyToOne:  {ManyToOne, OneToOne},
	OneToOne:   {},
}

// InferScope derives the scope implied by the input sizes: a single
// pattern on a side infers the "one" cardinality.
func InferScope(nExperimental, nSimulated int) (MetricScope, error) {
	if nExperimental <= 0 || nSimulated <= 0 {
		return "", fmt.Errorf("pattern counts must be positive: %d experimental, %d simulated",
			nExperimental, nSimulated)
	}
	switch {
	case nExperimental == 1 && nSimulated == 1:
		return OneToOne, nil
	case nExperimental == 1:
		return OneToMany, nil
	case nSimulated == 1:
		return ManyToOne, nil
	default:
		return ManyToMany, nil
	}
}

// Subsumes reports whether other is a lower scope of s.
func (s MetricScope) Subsumes(other MetricScope) bool {
	for _, l := range lowerScopes[s] {
		if l == other {
			return true
		}
	}
	return false
}

func (s MetricScope) String() string { return string(s) }
