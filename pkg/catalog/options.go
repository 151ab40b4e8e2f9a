package catalog

import (
	"log/slog"

	"github.com/tesshy/catalyzer/pkg/core"
)

// options holds the internal configuration for the Store.
type options struct {
	provider core.PartitionProvider
	logger   *slog.Logger
	watch    bool
	eventBuf int
}

// Option defines a functional option for configuring the Store.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		eventBuf: 64,
	}
}

// WithLogger sets the logger for the store. The store is silent when no
// logger is provided.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithProvider injects a custom partition provider (e.g. a mock or a
// non-filesystem backend). If provided, the default filesystem provider
// is skipped.
func WithProvider(p core.PartitionProvider) Option {
	return func(o *options) {
		o.provider = p
	}
}

// WithWatch enables the filesystem watch worker: external changes to
// partition directories trigger an idempotent index rebuild and are
// reported on Events(). Only meaningful with the filesystem provider.
func WithWatch(watch bool) Option {
	return func(o *options) {
		o.watch = watch
	}
}

// WithEventBuffer sets the Events() channel capacity.
func WithEventBuffer(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.eventBuf = n
		}
	}
}
