package canfuzz

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/bft-labs/canfuzz/internal/adapters/fs"
	"github.com/bft-labs/canfuzz/internal/adapters/loopback"
	"github.com/bft-labs/canfuzz/internal/adapters/socketcan"
	"github.com/bft-labs/canfuzz/internal/app"
	"github.com/bft-labs/canfuzz/internal/domain"
	"github.com/bft-labs/canfuzz/internal/ports"
	"github.com/bft-labs/canfuzz/internal/strategy"
	"github.com/bft-labs/canfuzz/pkg/log"
)

// Canfuzz is a CAN bus fuzzing engine that can be embedded in other
// applications. Use New() to create an instance, then Start() to begin
// dispatching directives.
type Canfuzz struct {
	config      Config
	opts        options
	lifecycle   *app.Lifecycle
	runner      *app.Runner
	gen         ports.Generator
	transport   ports.Transport
	corpus      ports.CorpusSink
	checkpoints ports.CheckpointStore
	logger      log.Logger
	runID       string

	// Plugin support
	plugins []Plugin

	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	runErr    error
	closeOnce sync.Once
}

// New creates a new Canfuzz instance with the given configuration.
// The instance is created in StateStopped; call Start() to begin fuzzing.
// Returns an error if configuration is invalid.
func New(cfg Config, opts ...Option) (*Canfuzz, error) {
	// Set defaults
	cfg.SetDefaults()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Apply options
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger

	// Create event emitter wrapper
	var emitter eventEmitterWrapper
	if o.eventHandler != nil {
		emitter = eventEmitterWrapper{handler: o.eventHandler}
	}

	// Create lifecycle manager
	lifecycle := app.NewLifecycle(logger, &emitter)

	// Create checkpoint store when progress should be persisted
	var checkpoints ports.CheckpointStore
	if cfg.CheckpointDir != "" {
		checkpoints = fs.NewCheckpointFileStore(cfg.CheckpointDir)
	}

	runID := uuid.NewString()
	var startIteration uint64

	stratCfg, err := cfg.strategyConfig()
	if err != nil {
		return nil, err
	}

	// Resume from the last checkpoint when requested. The generator
	// continues after the last dispatched directive instead of
	// re-sending it.
	if cfg.Resume {
		cp, err := checkpoints.Load(context.Background())
		if err != nil {
			return nil, fmt.Errorf("load checkpoint: %w", err)
		}
		switch {
		case cp.IsEmpty():
			logger.Warn("no checkpoint to resume, starting fresh",
				log.String("dir", cfg.CheckpointDir))
		case cp.Algorithm != cfg.Algorithm:
			return nil, fmt.Errorf("%w: checkpoint was written by algorithm %q, not %q",
				domain.ErrInvalidConfig, cp.Algorithm, cfg.Algorithm)
		default:
			stratCfg.Resume = true
			stratCfg.ResumeID = cp.LastID
			stratCfg.ResumePayload = cp.LastPayload
			stratCfg.SkipLines = cp.Iterations
			startIteration = cp.Iterations
			if cp.RunID != "" {
				runID = cp.RunID
			}
			logger.Info("resuming run",
				log.String("run_id", runID),
				log.Uint64("iterations", cp.Iterations),
				log.String("last", cp.LastID+"#"+cp.LastPayload))
		}
	}

	// Create the directive generator
	gen, err := strategy.New(stratCfg)
	if err != nil {
		return nil, err
	}

	// Create the corpus sink when dispatched directives should be kept
	var corpus ports.CorpusSink
	if cfg.CorpusFile != "" {
		w, err := fs.NewCorpusWriter(cfg.CorpusFile)
		if err != nil {
			_ = gen.Close()
			return nil, fmt.Errorf("open corpus: %w", err)
		}
		corpus = w
	}

	// Create the transport: injected, loopback for dry runs, SocketCAN
	// otherwise
	transport := o.transport
	if transport == nil {
		if cfg.DryRun {
			transport = loopback.New()
		} else {
			sc, err := socketcan.New(context.Background(), cfg.Interface, cfg.Window)
			if err != nil {
				_ = gen.Close()
				if corpus != nil {
					_ = corpus.Close()
				}
				return nil, fmt.Errorf("open can interface %s: %w", cfg.Interface, err)
			}
			transport = sc
		}
	}

	// Create runner config
	runnerCfg := app.RunnerConfig{
		RunID:           runID,
		Algorithm:       cfg.Algorithm,
		Count:           cfg.Count,
		Gap:             cfg.Gap,
		LogDepth:        cfg.LogDepth,
		CheckpointEvery: cfg.CheckpointEvery,
		StartIteration:  startIteration,
	}

	// Create the dispatch runner
	runner := app.NewRunner(runnerCfg, gen, transport, corpus, checkpoints, logger, &emitter)

	return &Canfuzz{
		config:      cfg,
		opts:        o,
		lifecycle:   lifecycle,
		runner:      runner,
		gen:         gen,
		transport:   transport,
		corpus:      corpus,
		checkpoints: checkpoints,
		logger:      logger,
		runID:       runID,
		plugins:     o.plugins,
	}, nil
}

// Start begins dispatching directives in the background.
// Returns immediately after starting the dispatch goroutine.
// Returns an error if already running or if startup fails.
// The provided context is used for the lifetime of the fuzzing run.
func (c *Canfuzz) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.lifecycle.CanStart() {
		return domain.ErrAlreadyRunning
	}

	// Transition to starting
	if err := c.lifecycle.TransitionTo(app.StateStarting, "Start() called"); err != nil {
		return err
	}

	// Create cancellable context
	runCtx, cancel := context.WithCancel(ctx)
	c.ctx = runCtx
	c.cancel = cancel
	c.lifecycle.SetCancel(cancel)

	// Initialize plugins
	pluginCfg := PluginConfig{
		RunID:         c.runID,
		Algorithm:     c.config.Algorithm,
		Interface:     c.config.Interface,
		CorpusFile:    c.config.CorpusFile,
		CheckpointDir: c.config.CheckpointDir,
		Logger:        c.logger,
	}
	for _, p := range c.plugins {
		if err := p.Initialize(runCtx, pluginCfg); err != nil {
			c.logger.Error("plugin initialization failed",
				log.String("plugin", p.Name()),
				log.Err(err))
			cancel()
			_ = c.lifecycle.TransitionTo(app.StateCrashed, "plugin init failed: "+p.Name())
			return err
		}
		c.logger.Info("plugin initialized", log.String("plugin", p.Name()))
	}

	// Start the dispatch loop in a goroutine
	c.lifecycle.AddWorker()
	go func() {
		defer c.lifecycle.WorkerDone()

		// Transition to running
		if err := c.lifecycle.TransitionTo(app.StateRunning, "dispatch starting"); err != nil {
			c.logger.Error("failed to transition to running", log.Err(err))
			return
		}

		// Run the dispatch loop
		err := c.runner.Run(runCtx)

		// Handle completion
		switch {
		case err == nil:
			// Generator exhausted or count reached
			_ = c.lifecycle.TransitionTo(app.StateStopping, "run complete")
			_ = c.lifecycle.TransitionTo(app.StateStopped, "run complete")
			c.close()
		case errors.Is(err, context.Canceled):
			// Stop() drives the state transitions
		default:
			c.logger.Error("dispatch error", log.Err(err))
			c.setErr(err)
			_ = c.lifecycle.TransitionTo(app.StateCrashed, err.Error())
			c.close()
		}
	}()

	return nil
}

// Stop gracefully shuts down the fuzzing run.
// Flushes the corpus sink and persists the final checkpoint.
// Waits up to 30 seconds before forcing shutdown.
// Returns nil on graceful shutdown, ErrShutdownTimeout if forced.
func (c *Canfuzz) Stop() error {
	c.mu.Lock()

	if !c.lifecycle.CanStop() {
		c.mu.Unlock()
		return domain.ErrNotRunning
	}

	// Transition to stopping
	if err := c.lifecycle.TransitionTo(app.StateStopping, "Stop() called"); err != nil {
		c.mu.Unlock()
		return err
	}

	// Cancel the context
	if c.cancel != nil {
		c.cancel()
	}

	c.mu.Unlock()

	// Wait for workers with timeout
	err := c.lifecycle.WaitWithTimeout(app.ShutdownTimeout)

	// Shutdown plugins and release the generator, corpus and transport
	c.close()

	// Transition to stopped
	if err != nil {
		_ = c.lifecycle.TransitionTo(app.StateCrashed, "shutdown timeout")
	} else {
		_ = c.lifecycle.TransitionTo(app.StateStopped, "graceful shutdown")
	}

	return err
}

// Status returns the current lifecycle state.
// Safe to call concurrently from any goroutine.
func (c *Canfuzz) Status() State {
	return convertState(c.lifecycle.State())
}

// Iterations returns how many directives have been dispatched,
// including iterations restored from a checkpoint.
func (c *Canfuzz) Iterations() uint64 {
	return c.runner.Iterations()
}

// Recent returns the most recently dispatched directives, oldest
// first, bounded by Config.LogDepth.
func (c *Canfuzz) Recent() []string {
	return c.runner.Recent()
}

// RunID returns the identifier of this run. Resumed runs keep the id
// of the run that wrote the checkpoint.
func (c *Canfuzz) RunID() string {
	return c.runID
}

// Err returns the error that crashed the run, if any.
func (c *Canfuzz) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.runErr
}

func (c *Canfuzz) setErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.runErr = err
}

// close shuts down plugins and releases the generator, corpus sink and
// transport. Runs at most once; both Stop() and run completion call it.
func (c *Canfuzz) close() {
	c.closeOnce.Do(func() {
		// Shutdown plugins (in reverse order)
		shutdownCtx := context.Background()
		for i := len(c.plugins) - 1; i >= 0; i-- {
			p := c.plugins[i]
			if err := p.Shutdown(shutdownCtx); err != nil {
				c.logger.Error("plugin shutdown failed",
					log.String("plugin", p.Name()),
					log.Err(err))
			} else {
				c.logger.Info("plugin shutdown complete", log.String("plugin", p.Name()))
			}
		}

		if err := c.gen.Close(); err != nil {
			c.logger.Error("close generator", log.Err(err))
		}
		if c.corpus != nil {
			if err := c.corpus.Close(); err != nil {
				c.logger.Error("close corpus", log.Err(err))
			}
		}
		if err := c.transport.Close(); err != nil {
			c.logger.Error("close transport", log.Err(err))
		}
	})
}

// eventEmitterWrapper adapts EventHandler to the internal emitter interfaces.
type eventEmitterWrapper struct {
	handler EventHandler
}

func (e *eventEmitterWrapper) OnStateChange(previous, current app.State, reason string) {
	if e.handler == nil {
		return
	}
	e.handler.OnStateChange(StateChangeEvent{
		Previous: convertState(previous),
		Current:  convertState(current),
		Reason:   reason,
	})
}

func (e *eventEmitterWrapper) OnDirective(d domain.Directive, iteration uint64) {
	if e.handler == nil {
		return
	}
	e.handler.OnDirective(DirectiveEvent{
		Directive: d.String(),
		Iteration: iteration,
	})
}

func (e *eventEmitterWrapper) OnResponse(d domain.Directive, r ports.Response) {
	if e.handler == nil {
		return
	}
	e.handler.OnResponse(ResponseEvent{
		Directive: d.String(),
		ID:        r.ID,
		Data:      r.Data,
	})
}

func convertState(s app.State) State {
	switch s {
	case app.StateStopped:
		return StateStopped
	case app.StateStarting:
		return StateStarting
	case app.StateRunning:
		return StateRunning
	case app.StateStopping:
		return StateStopping
	case app.StateCrashed:
		return StateCrashed
	default:
		return StateStopped
	}
}
