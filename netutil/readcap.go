package netutil

import (
	"errors"
	"fmt"
	"io"
)

// BodyTooLargeError reports a response body that grew past the cap set
// for manifest or artifact downloads.
type BodyTooLargeError struct {
	Limit int64
}

func (e *BodyTooLargeError) Error() string {
	return fmt.Sprintf("response body exceeds the %s cap", FormatSize(e.Limit))
}

// IsBodyTooLarge reports whether err is a BodyTooLargeError.
func IsBodyTooLarge(err error) bool {
	var tooLarge *BodyTooLargeError
	return errors.As(err, &tooLarge)
}

// CappedReader reads at most limit bytes from the wrapped reader. A body
// of exactly limit bytes is accepted; the first byte past the cap turns
// into a BodyTooLargeError. Registry manifests and provider artifacts
// are read through this so a misbehaving server cannot exhaust memory.
type CappedReader struct {
	r         io.Reader
	remaining int64
	limit     int64
}

// NewCappedReader wraps r with a byte cap.
func NewCappedReader(r io.Reader, limit int64) *CappedReader {
	return &CappedReader{r: r, remaining: limit, limit: limit}
}

// Read implements io.Reader.
func (c *CappedReader) Read(p []byte) (int, error) {
	if c.remaining == 0 {
		// The cap is spent; any further byte means the body is over
		// the limit.
		var probe [1]byte
		n, err := c.r.Read(probe[:])
		if n > 0 {
			return 0, &BodyTooLargeError{Limit: c.limit}
		}
		if err != nil {
			return 0, err
		}
		return 0, nil
	}

	if int64(len(p)) > c.remaining {
		p = p[:c.remaining]
	}
	n, err := c.r.Read(p)
	c.remaining -= int64(n)
	return n, err
}

// FormatSize renders a byte count for error messages and logs.
func FormatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d bytes", n)
	}
	value := float64(n)
	for _, suffix := range []string{"KB", "MB", "GB", "TB"} {
		value /= unit
		if value < unit {
			return fmt.Sprintf("%.1f %s", value, suffix)
		}
	}
	return fmt.Sprintf("%.1f PB", value/unit)
}
