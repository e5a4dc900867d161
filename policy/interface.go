// Package policy enforces the host's source allowlist: which hosts may
// serve registry manifests and which OCI registries may serve provider
// artifacts.
package policy

// Policy decides whether a remote source may be contacted.
type Policy interface {
	// Check methods log denials through the configured DenialHandler.
	CheckManifestURL(rawURL string) bool
	CheckRegistry(registry string) bool

	// Evaluate methods return the decision without side effects.
	EvaluateManifestURL(rawURL string) bool
	EvaluateRegistry(registry string) bool
}

// DenialHandler is called when a policy check denies a source.
type DenialHandler interface {
	// OnDenial is called when a source is denied.
	OnDenial(kind string, source string, reason string)
}
