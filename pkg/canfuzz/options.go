package canfuzz

import (
	"github.com/bft-labs/canfuzz/internal/ports"
	"github.com/bft-labs/canfuzz/pkg/log"
)

// Re-export types from sub-packages for convenient access.
// Users can also import sub-packages directly for selective import.
type (
	// Logger is the Logger interface from pkg/log.
	Logger = log.Logger

	// Field is the structured log field type from pkg/log.
	Field = log.Field

	// Transport delivers directives to the bus. Implement it to fuzz
	// something other than a SocketCAN interface.
	Transport = ports.Transport

	// Session is a per-directive transport session.
	Session = ports.Session

	// Response is a frame observed on the bus inside a directive's
	// observation window.
	Response = ports.Response

	// ResponseFunc consumes observed responses. Implementations of
	// Session invoke it once per observed frame.
	ResponseFunc = ports.ResponseFunc
)

// Option configures optional behavior of Canfuzz.
type Option func(*options)

// options holds the optional configuration for a Canfuzz instance.
type options struct {
	logger       log.Logger
	eventHandler EventHandler
	plugins      []Plugin
	transport    ports.Transport
}

// defaultOptions returns options with sensible defaults.
func defaultOptions() options {
	return options{
		logger:       log.NewNoopLogger(),
		eventHandler: nil,
		plugins:      nil,
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithEventHandler sets a handler for fuzzing run events.
// Events are called synchronously from the dispatch goroutine.
// If not provided, no events are emitted.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithTransport sets a custom transport for dispatching directives.
// If not provided, a SocketCAN transport on the configured interface
// is used, or an in-process loopback when Config.DryRun is set.
func WithTransport(transport Transport) Option {
	return func(o *options) {
		o.transport = transport
	}
}

// WithPlugin registers a plugin to be initialized when Canfuzz starts.
// Plugins are initialized in registration order and shutdown in reverse order.
func WithPlugin(plugin Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, plugin)
	}
}
