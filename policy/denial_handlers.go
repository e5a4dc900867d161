package policy

import (
	"fmt"
	"os"
)

// Ensure implementations satisfy the interface.
var (
	_ DenialHandler = (*StderrDenialHandler)(nil)
	_ DenialHandler = (*NopDenialHandler)(nil)
)

// StderrDenialHandler logs denials to stderr.
type StderrDenialHandler struct{}

func (h *StderrDenialHandler) OnDenial(kind string, source string, reason string) {
	fmt.Fprintf(os.Stderr, "Source Denied [%s]: %s (Reason: %s)\n", kind, source, reason)
}

// NopDenialHandler does nothing.
type NopDenialHandler struct{}

func (h *NopDenialHandler) OnDenial(kind string, source string, reason string) {}
