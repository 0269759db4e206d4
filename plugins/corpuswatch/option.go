package corpuswatch

import "github.com/bft-labs/canfuzz/pkg/canfuzz"

// WithCorpusWatch returns a canfuzz Option that enables corpus file
// watching. When enabled, the plugin monitors the corpus the run
// appends to, logs its growth, and warns about lines a later replay
// would reject.
//
// Usage:
//
//	engine, err := canfuzz.New(cfg,
//	    corpuswatch.WithCorpusWatch(corpuswatch.Config{
//	        RescanInterval: 30 * time.Second,
//	        DebounceDelay:  100 * time.Millisecond,
//	    }),
//	)
func WithCorpusWatch(cfg Config) canfuzz.Option {
	plugin := New(cfg)
	return canfuzz.WithPlugin(plugin)
}

// WithDefaultCorpusWatch returns a canfuzz Option that enables corpus
// watching with default settings (rescan every 30s, debounce 100ms).
//
// Usage:
//
//	engine, err := canfuzz.New(cfg, corpuswatch.WithDefaultCorpusWatch())
func WithDefaultCorpusWatch() canfuzz.Option {
	return WithCorpusWatch(DefaultConfig())
}
