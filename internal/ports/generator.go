package ports

import (
	"context"

	"github.com/bft-labs/canfuzz/internal/domain"
)

// Generator produces the directive stream for a run. Implementations
// are the fuzzing strategies: random, replay, brute-force, mutation.
type Generator interface {
	// Next returns the next directive to dispatch. Unbounded strategies
	// produce forever; bounded ones return domain.ErrExhausted once
	// their space has been enumerated, which the caller treats as
	// normal completion.
	Next(ctx context.Context) (domain.Directive, error)

	// Close releases resources held by the generator, such as an open
	// corpus file.
	Close() error
}
