package policy

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/diffrakt-dev/diffrakt-host-sdk/netutil"
)

// sourcePolicy implements Policy with glob-based host allowlists.
type sourcePolicy struct {
	manifestHosts []string
	registries    []string
	denialHandler DenialHandler
}

// Option configures a Policy.
type Option func(*sourcePolicy)

// WithManifestHosts sets the glob patterns of hosts allowed to serve
// registry manifests (e.g. "*.diffrakt.dev"). Empty means allow all.
func WithManifestHosts(patterns ...string) Option {
	return func(p *sourcePolicy) {
		p.manifestHosts = patterns
	}
}

// WithRegistries sets the glob patterns of OCI registries allowed to
// serve provider artifacts (e.g. "ghcr.io"). Empty means allow all.
func WithRegistries(patterns ...string) Option {
	return func(p *sourcePolicy) {
		p.registries = patterns
	}
}

// WithDenialHandler sets the handler invoked on denials.
func WithDenialHandler(h DenialHandler) Option {
	return func(p *sourcePolicy) {
		if h != nil {
			p.denialHandler = h
		}
	}
}

// NewPolicy creates a source policy.
func NewPolicy(opts ...Option) Policy {
	p := &sourcePolicy{
		denialHandler: &StderrDenialHandler{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CheckManifestURL reports whether the manifest URL may be fetched,
// logging a denial otherwise.
func (p *sourcePolicy) CheckManifestURL(rawURL string) bool {
	if p.EvaluateManifestURL(rawURL) {
		return true
	}
	p.denialHandler.OnDenial("manifest", netutil.StripCredentials(rawURL), "host not in manifest allowlist")
	return false
}

// CheckRegistry reports whether the OCI registry may be contacted,
// logging a denial otherwise.
func (p *sourcePolicy) CheckRegistry(registry string) bool {
	if p.EvaluateRegistry(registry) {
		return true
	}
	p.denialHandler.OnDenial("registry", registry, "registry not in allowlist")
	return false
}

// EvaluateManifestURL returns the decision without side effects.
func (p *sourcePolicy) EvaluateManifestURL(rawURL string) bool {
	if netutil.ValidateManifestURL(rawURL) != nil {
		return false
	}
	host := hostnameOf(netutil.ExtractHost(rawURL))
	return matchAny(p.manifestHosts, host)
}

// EvaluateRegistry returns the decision without side effects.
func (p *sourcePolicy) EvaluateRegistry(registry string) bool {
	if registry == "" {
		return false
	}
	return matchAny(p.registries, hostnameOf(registry))
}

// matchAny reports whether host matches any pattern. An empty pattern
// list allows everything.
func matchAny(patterns []string, host string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(strings.ToLower(pattern), strings.ToLower(host)); err == nil && ok {
			return true
		}
	}
	return false
}

// hostnameOf strips an optional port.
func hostnameOf(hostport string) string {
	if i := strings.LastIndex(hostport, ":"); i >= 0 && !strings.Contains(hostport[i+1:], "]") {
		return hostport[:i]
	}
	return hostport
}
