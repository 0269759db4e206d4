package ports

import (
	"context"

	"github.com/bft-labs/canfuzz/internal/domain"
)

// CheckpointStore handles resume-cursor persistence.
// Implementations persist checkpoints to disk (or other storage) atomically.
type CheckpointStore interface {
	// Load retrieves the last saved checkpoint.
	// Returns an empty checkpoint and nil error if none exists.
	// Returns an error only for actual read failures.
	Load(ctx context.Context) (domain.Checkpoint, error)

	// Save persists the checkpoint atomically.
	// The implementation should use atomic writes (e.g., write to temp file, then rename)
	// to prevent corruption on crash.
	Save(ctx context.Context, cp domain.Checkpoint) error
}
