// Package gatekeeper handles consent for fetching remote signal-type
// providers: loads stored grants, diffs against what a registry manifest
// requires, prompts for the rest, persists decisions.
package gatekeeper

import (
	"sort"

	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/values"
)

// FetchRequest describes one remote provider the host wants to fetch.
type FetchRequest struct {
	Provider values.ProviderReference

	// Signed is true when the artifact carries a verifiable signature.
	Signed bool

	// Pinned is true when the manifest pins a content digest.
	Pinned bool
}

// Description returns a human-readable summary for prompts and errors.
func (r FetchRequest) Description() string {
	desc := r.Provider.Repository()
	switch {
	case !r.Signed && !r.Pinned:
		return desc + " (unsigned, unpinned)"
	case !r.Signed:
		return desc + " (unsigned)"
	case !r.Pinned:
		return desc + " (unpinned)"
	default:
		return desc
	}
}

// GrantSet is the set of provider repositories the user has approved for
// fetching.
type GrantSet struct {
	Repositories []string `yaml:"repositories"`
}

// Allows reports whether the repository is covered by the set.
func (g *GrantSet) Allows(repository string) bool {
	for _, r := range g.Repositories {
		if r == repository {
			return true
		}
	}
	return false
}

// Add records a repository, keeping the set deduplicated and sorted.
func (g *GrantSet) Add(repository string) {
	if g.Allows(repository) {
		return
	}
	g.Repositories = append(g.Repositories, repository)
	sort.Strings(g.Repositories)
}

// IsEmpty reports whether no repository is approved.
func (g *GrantSet) IsEmpty() bool {
	return len(g.Repositories) == 0
}

// Clone returns a deep copy.
func (g *GrantSet) Clone() *GrantSet {
	return &GrantSet{Repositories: append([]string(nil), g.Repositories...)}
}

// GrantStore persists and retrieves fetch grants.
type GrantStore interface {
	Load() (*GrantSet, error)
	Save(grants *GrantSet) error
	ConfigPath() string
}

// Prompter handles interactive fetch authorization.
type Prompter interface {
	IsInteractive() bool
	PromptForFetch(req FetchRequest, risk RiskReport) (granted bool, always bool, err error)
	FormatNonInteractiveError(missing []FetchRequest) error
}
