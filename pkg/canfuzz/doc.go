// Package canfuzz provides an embeddable fuzzing engine for CAN buses.
//
// Canfuzz generates arbitration id and payload combinations with one of
// four algorithms, dispatches them to a SocketCAN interface and records
// responses that arrive inside a short observation window. It can be
// used as a standalone CLI application or embedded as a library in
// other Go programs.
//
// # Basic Usage
//
// To embed canfuzz in your application:
//
//	cfg := canfuzz.Config{
//	    Algorithm: "ring_bf",
//	    ID:        "7E0",
//	    Payload:   "0000000000000000",
//	    Interface: "can0",
//	}
//
//	engine, err := canfuzz.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	if err := engine.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	// ... run until shutdown signal ...
//
//	if err := engine.Stop(); err != nil {
//	    log.Printf("shutdown error: %v", err)
//	}
//
// # Configuration
//
// Create a [Config] with at minimum the algorithm and its required
// inputs: a corpus file for linear, a base id for ring_bf. All other
// fields have sensible defaults set via [Config.SetDefaults]. Set
// Config.DryRun to dispatch to an in-process loopback instead of a
// real interface.
//
// # Event Handling
//
// To receive notifications about dispatched directives and bus
// responses, implement [EventHandler] and pass it via
// [WithEventHandler]:
//
//	handler := &myEventHandler{}
//	engine, err := canfuzz.New(cfg, canfuzz.WithEventHandler(handler))
//
// Events are called synchronously from the dispatch goroutine.
// Implementations should return quickly to avoid slowing dispatch.
//
// # Dependency Injection
//
// For testing, you can inject custom implementations of external
// dependencies:
//
//	engine, err := canfuzz.New(cfg,
//	    canfuzz.WithTransport(mockTransport),
//	    canfuzz.WithLogger(customLogger),
//	)
//
// # Lifecycle States
//
// A Canfuzz instance can be in one of five states: [StateStopped],
// [StateStarting], [StateRunning], [StateStopping], or [StateCrashed].
// Use [Canfuzz.Status] to query the current state.
//
// # Checkpoints
//
// Set Config.CheckpointDir to persist run progress. A later run with
// the same configuration and Config.Resume picks up where the previous
// one stopped: ring_bf re-seeds its enumeration rings, linear skips the
// corpus lines already dispatched.
//
// # Plugins
//
// Canfuzz supports optional plugins for extended functionality:
//
//	import "github.com/bft-labs/canfuzz/plugins/corpuswatch"
//
//	engine, err := canfuzz.New(cfg,
//	    corpuswatch.WithCorpusWatch(corpuswatch.DefaultConfig()),
//	)
package canfuzz
