package resolvers

import (
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"
)

// SemverResolver implements ports.VersionResolver using Masterminds/semver.
type SemverResolver struct{}

// NewSemverResolver creates a new SemverResolver.
func NewSemverResolver() *SemverResolver {
	return &SemverResolver{}
}

// Resolve converts a version constraint to an exact version from the
// available tags, returning the highest version that satisfies it.
// The keyword "latest" means the highest available version.
func (r *SemverResolver) Resolve(constraint string, available []string) (string, error) {
	var c *semver.Constraints
	var err error

	if constraint == "" || constraint == "latest" {
		c, err = semver.NewConstraint(">= 0")
	} else {
		c, err = semver.NewConstraint(constraint)
	}
	if err != nil {
		return "", fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}

	var valid []*semver.Version
	for _, vStr := range available {
		v, err := semver.NewVersion(vStr)
		if err != nil {
			continue // Skip tags that are not semantic versions
		}
		if c.Check(v) {
			valid = append(valid, v)
		}
	}

	if len(valid) == 0 {
		return "", fmt.Errorf("no version satisfies constraint %q from available tags", constraint)
	}

	sort.Sort(semver.Collection(valid))

	// Collection sorts ascending, so the last element is the highest.
	return valid[len(valid)-1].Original(), nil
}
