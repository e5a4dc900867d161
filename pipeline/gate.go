package pipeline

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DeployGate restricts artifact publication to tagged commits built by
// one designated job. Both conditions must hold; every other job only
// tests.
type DeployGate struct {
	// TagPattern is a glob the commit tag must match (e.g. "v*").
	TagPattern string `yaml:"tag_pattern"`

	// Job is the designated deploy job.
	Job Job `yaml:"job"`

	// CredentialEnv names the environment variable holding the package
	// index credential. The value itself never appears in config.
	CredentialEnv string `yaml:"credential_env"`
}

// Validate checks the gate's declaration.
func (g *DeployGate) Validate() error {
	if g.TagPattern == "" {
		return fmt.Errorf("deploy gate: tag pattern cannot be empty")
	}
	if !doublestar.ValidatePattern(g.TagPattern) {
		return fmt.Errorf("deploy gate: invalid tag pattern %q", g.TagPattern)
	}
	if g.Job.OS == "" || g.Job.Version == "" || g.Job.PackageManager == "" {
		return fmt.Errorf("deploy gate: designated job must be fully specified, got %q", g.Job.Key())
	}
	if g.CredentialEnv == "" {
		return fmt.Errorf("deploy gate: credential environment variable name cannot be empty")
	}
	// A name containing '=' or whitespace is a value smuggled inline.
	if strings.ContainsAny(g.CredentialEnv, "= \t") {
		return fmt.Errorf("deploy gate: %q is not an environment variable name; store the credential in the CI secret store", g.CredentialEnv)
	}
	return nil
}

// ShouldDeploy reports whether the given job on the given commit tag may
// publish artifacts. An empty tag means an untagged commit and never
// deploys.
func (g *DeployGate) ShouldDeploy(job Job, tag string) (bool, error) {
	if tag == "" {
		return false, nil
	}
	matched, err := doublestar.Match(g.TagPattern, tag)
	if err != nil {
		return false, fmt.Errorf("matching tag %q against %q: %w", tag, g.TagPattern, err)
	}
	return matched && job.Key() == g.Job.Key(), nil
}
