package oci

import (
	"context"
	"os"
)

// EnvAuthProvider retrieves registry credentials from the environment,
// the same variables deployment jobs receive as encrypted secrets.
type EnvAuthProvider struct{}

// NewEnvAuthProvider creates a new environment-based auth provider.
func NewEnvAuthProvider() *EnvAuthProvider {
	return &EnvAuthProvider{}
}

// GetCredentials returns username and password for a registry.
func (p *EnvAuthProvider) GetCredentials(ctx context.Context, registry string) (username, password string, err error) {
	username = os.Getenv("DIFFRAKT_REGISTRY_USERNAME")
	password = os.Getenv("DIFFRAKT_REGISTRY_TOKEN")
	return username, password, nil
}
