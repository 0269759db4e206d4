// Package canfuzz provides a directive-based fuzzing engine for CAN buses.
//
// Example usage:
//
//	cfg := canfuzz.DefaultConfig()
//	cfg.Algorithm = "ring_bf"
//	cfg.ID = "7E0"
//	if err := canfuzz.Run(context.Background(), cfg); err != nil {
//	    log.Fatal(err)
//	}
package canfuzz

import (
	"context"
	"time"

	fuzz "github.com/bft-labs/canfuzz/pkg/canfuzz"
)

// Config holds the configuration for a fuzzing run.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config = fuzz.Config

// Run executes a fuzzing run with the given configuration.
// It blocks until the run completes, crashes or the context is
// cancelled. Cancellation stops the run gracefully and returns nil.
func Run(ctx context.Context, cfg Config) error {
	engine, err := fuzz.New(cfg)
	if err != nil {
		return err
	}

	if err := engine.Start(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			switch engine.Status() {
			case fuzz.StateStopped:
				return nil
			case fuzz.StateCrashed:
				return engine.Err()
			}
			return engine.Stop()
		case <-ticker.C:
			switch engine.Status() {
			case fuzz.StateStopped:
				return nil
			case fuzz.StateCrashed:
				return engine.Err()
			}
		}
	}
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	var cfg Config
	cfg.SetDefaults()
	return cfg
}

// GenerateCorpus writes count directives from the configured algorithm
// to a corpus file at path, one per line, replayable with the linear
// algorithm.
func GenerateCorpus(ctx context.Context, cfg Config, path string, count uint64) error {
	return fuzz.GenerateCorpus(ctx, cfg, path, count)
}
