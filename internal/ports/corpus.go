package ports

import "github.com/bft-labs/canfuzz/internal/domain"

// CorpusSink records dispatched directives for later replay. The corpus
// is append-only: lines already present are never rewritten, so a sink
// can be pointed at an existing corpus to extend it.
type CorpusSink interface {
	// Write appends one directive to the corpus.
	Write(d domain.Directive) error

	// Flush pushes buffered lines to storage without closing the sink.
	Flush() error

	// Close flushes buffered lines and releases the sink.
	Close() error
}
