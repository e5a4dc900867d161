package netutil_test

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diffrakt-dev/diffrakt-host-sdk/netutil"
)

func Test_SecureDialer_DialContext(t *testing.T) {
	t.Run("Fail_LoopbackBlocked", func(t *testing.T) {
		d := &netutil.SecureDialer{}

		_, err := d.DialContext(context.Background(), "tcp", "127.0.0.1:443")
		require.Error(t, err)
		assert.True(t, netutil.IsBlockedAddress(err))
		assert.Contains(t, err.Error(), "loopback")
	})

	t.Run("Fail_PrivateRangeBlocked", func(t *testing.T) {
		d := &netutil.SecureDialer{}

		for _, addr := range []string{"10.0.0.5:443", "192.168.1.1:443", "172.16.0.9:443"} {
			_, err := d.DialContext(context.Background(), "tcp", addr)
			require.Error(t, err, addr)
			assert.True(t, netutil.IsBlockedAddress(err), addr)
		}
	})

	t.Run("Fail_LinkLocalBlocked", func(t *testing.T) {
		d := &netutil.SecureDialer{}

		_, err := d.DialContext(context.Background(), "tcp", "169.254.169.254:80")
		require.Error(t, err)
		assert.True(t, netutil.IsBlockedAddress(err))
		assert.Contains(t, err.Error(), "link-local")
	})

	t.Run("Fail_UnspecifiedBlocked", func(t *testing.T) {
		d := &netutil.SecureDialer{}

		_, err := d.DialContext(context.Background(), "tcp", "0.0.0.0:443")
		require.Error(t, err)
		assert.True(t, netutil.IsBlockedAddress(err))
	})

	t.Run("AllowPrivateNetwork", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		defer func() { _ = ln.Close() }()

		d := &netutil.SecureDialer{AllowPrivateNetwork: true}

		conn, err := d.DialContext(context.Background(), "tcp", ln.Addr().String())
		require.NoError(t, err)
		_ = conn.Close()
	})

	t.Run("AllowPrivateNetwork_StillBlocksLinkLocal", func(t *testing.T) {
		d := &netutil.SecureDialer{AllowPrivateNetwork: true}

		_, err := d.DialContext(context.Background(), "tcp", "169.254.169.254:80")
		require.Error(t, err)
		assert.True(t, netutil.IsBlockedAddress(err))
	})

	t.Run("Fail_MissingPort", func(t *testing.T) {
		d := &netutil.SecureDialer{}

		_, err := d.DialContext(context.Background(), "tcp", "registry.diffrakt.dev")
		require.Error(t, err)
		assert.False(t, netutil.IsBlockedAddress(err))
	})
}
