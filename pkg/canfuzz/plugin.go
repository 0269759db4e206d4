package canfuzz

import (
	"context"

	"github.com/bft-labs/canfuzz/pkg/log"
)

// Plugin extends a Canfuzz instance with optional functionality.
// Plugins are initialized in registration order when Start is called
// and shut down in reverse order when Stop is called.
type Plugin interface {
	// Name returns the plugin identifier used in log output.
	Name() string

	// Initialize sets up the plugin. The context is cancelled when the
	// run stops; long-running work should watch it.
	Initialize(ctx context.Context, cfg PluginConfig) error

	// Shutdown stops the plugin and releases its resources.
	Shutdown(ctx context.Context) error
}

// PluginConfig carries run configuration into plugins.
type PluginConfig struct {
	RunID         string
	Algorithm     string
	Interface     string
	CorpusFile    string
	CheckpointDir string
	Logger        log.Logger
}

// BasePlugin provides no-op implementations of the Plugin methods.
// Embed it to implement only the hooks you care about.
type BasePlugin struct{}

func (BasePlugin) Name() string                                   { return "base" }
func (BasePlugin) Initialize(context.Context, PluginConfig) error { return nil }
func (BasePlugin) Shutdown(context.Context) error                 { return nil }
