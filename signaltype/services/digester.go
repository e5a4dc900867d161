package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/ports"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/values"
)

// SHA256Digester implements ports.Digester with the canonical sha256
// artifact digest.
type SHA256Digester struct{}

var _ ports.Digester = SHA256Digester{}

// NewSHA256Digester creates the default digester.
func NewSHA256Digester() SHA256Digester {
	return SHA256Digester{}
}

// DigestBytes returns the canonical digest string of data.
func (SHA256Digester) DigestBytes(data []byte) string {
	d, _ := values.ComputeDigestSHA256(bytes.NewReader(data))
	return d.String()
}

// DigestFile returns the canonical digest string of the file at path.
func (SHA256Digester) DigestFile(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	d, err := values.ComputeDigestSHA256(f)
	if err != nil {
		return "", fmt.Errorf("digest %s: %w", path, err)
	}
	return d.String(), nil
}
