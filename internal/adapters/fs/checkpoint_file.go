package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/bft-labs/canfuzz/internal/domain"
)

const checkpointFileName = "checkpoint.json"

// CheckpointFileStore implements ports.CheckpointStore using a JSON file.
type CheckpointFileStore struct {
	dir string
}

// NewCheckpointFileStore creates a new CheckpointFileStore for the given directory.
func NewCheckpointFileStore(dir string) *CheckpointFileStore {
	return &CheckpointFileStore{dir: dir}
}

// Load retrieves the last saved checkpoint from disk.
// Returns an empty checkpoint and nil error if no checkpoint file exists.
func (s *CheckpointFileStore) Load(ctx context.Context) (domain.Checkpoint, error) {
	path := filepath.Join(s.dir, checkpointFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Checkpoint{}, nil
		}
		return domain.Checkpoint{}, err
	}

	var cp domain.Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return domain.Checkpoint{}, err
	}

	return cp, nil
}

// Save persists the checkpoint atomically.
// Uses atomic write (write to temp file, then rename) to prevent corruption.
func (s *CheckpointFileStore) Save(ctx context.Context, cp domain.Checkpoint) error {
	// Ensure directory exists
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}

	path := filepath.Join(s.dir, checkpointFileName)
	tmp := path + ".tmp"

	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return err
	}

	// Write to temp file
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}

	// Atomic rename
	return os.Rename(tmp, path)
}

// Path returns the full path to the checkpoint file.
func (s *CheckpointFileStore) Path() string {
	return filepath.Join(s.dir, checkpointFileName)
}
