package host

import (
	"log/slog"

	"github.com/tetratelabs/wazero"
)

// Option defines a functional option for configuring the Executor.
type Option func(*Executor)

// WithLogger routes provider log messages through the given logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithCompilationCache configures the executor with a compilation cache.
func WithCompilationCache(cache wazero.CompilationCache) Option {
	return func(e *Executor) {
		e.cache = cache
	}
}
