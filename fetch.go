// Package hostsdk is the Diffrakt host SDK: it loads declarative
// signal-type registries, resolves and executes the providers backing
// them, and fetches remote registry manifests.
package hostsdk

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/diffrakt-dev/diffrakt-host-sdk/netutil"
	"github.com/diffrakt-dev/diffrakt-host-sdk/policy"
)

// FetchOption is a functional option for configuring manifest fetching.
type FetchOption func(*fetchConfig)

type fetchConfig struct {
	timeout         time.Duration
	maxManifestSize int64
	maxRetries      int
	allowPrivate    bool
	ssrfProtection  bool
	policy          policy.Policy
	client          *http.Client
}

func defaultFetchConfig() fetchConfig {
	return fetchConfig{
		timeout:         30 * time.Second,
		maxManifestSize: 1 * 1024 * 1024, // manifests are small; 1MB is generous
		maxRetries:      3,
		ssrfProtection:  true,
	}
}

// WithFetchTimeout sets the overall fetch timeout.
func WithFetchTimeout(d time.Duration) FetchOption {
	return func(c *fetchConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxManifestSize sets the maximum manifest size in bytes.
func WithMaxManifestSize(size int64) FetchOption {
	return func(c *fetchConfig) {
		if size > 0 {
			c.maxManifestSize = size
		}
	}
}

// WithFetchRetries sets the maximum number of retry attempts.
func WithFetchRetries(n int) FetchOption {
	return func(c *fetchConfig) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithPrivateNetworkAccess allows manifest hosts resolving to private or
// reserved addresses. Off by default: a manifest URL should never point
// into the local network.
func WithPrivateNetworkAccess(allow bool) FetchOption {
	return func(c *fetchConfig) {
		c.allowPrivate = allow
	}
}

// WithFetchPolicy sets the source policy consulted before fetching.
func WithFetchPolicy(p policy.Policy) FetchOption {
	return func(c *fetchConfig) {
		c.policy = p
	}
}

// WithFetchClient overrides the HTTP client, bypassing the built-in
// transport stack. Intended for tests.
func WithFetchClient(client *http.Client) FetchOption {
	return func(c *fetchConfig) {
		c.client = client
	}
}

// FetchManifest retrieves a remote registry manifest over HTTPS with
// retries, a response size cap, and SSRF protection.
func FetchManifest(ctx context.Context, rawURL string, opts ...FetchOption) ([]byte, error) {
	cfg := defaultFetchConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.client == nil {
		if err := netutil.ValidateManifestURL(rawURL); err != nil {
			return nil, err
		}
	}
	if cfg.policy != nil && !cfg.policy.CheckManifestURL(rawURL) {
		return nil, fmt.Errorf("manifest URL denied by source policy: %s", netutil.StripCredentials(rawURL))
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building manifest request: %w", err)
	}

	client := cfg.client
	if client == nil {
		client = newFetchClient(cfg)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching manifest from %s: %w", netutil.StripCredentials(rawURL), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching manifest from %s: unexpected status %d", netutil.StripCredentials(rawURL), resp.StatusCode)
	}

	body, err := io.ReadAll(netutil.NewCappedReader(resp.Body, cfg.maxManifestSize))
	if err != nil {
		if netutil.IsBodyTooLarge(err) {
			return nil, fmt.Errorf("manifest exceeds size limit of %s", netutil.FormatSize(cfg.maxManifestSize))
		}
		return nil, fmt.Errorf("reading manifest body: %w", err)
	}

	return body, nil
}

// newFetchClient builds the transport stack: TLS config, SSRF-guarding
// dialer, retry with backoff.
func newFetchClient(cfg fetchConfig) *http.Client {
	transport := &http.Transport{
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig:       netutil.TLSConfig(),
	}
	if cfg.ssrfProtection {
		dialer := &netutil.SecureDialer{
			AllowPrivateNetwork: cfg.allowPrivate,
			Timeout:             cfg.timeout,
		}
		transport.DialContext = dialer.DialContext
	}

	return &http.Client{
		Timeout: cfg.timeout,
		Transport: &netutil.RetryTransport{
			Base:       transport,
			MaxRetries: cfg.maxRetries,
		},
	}
}
