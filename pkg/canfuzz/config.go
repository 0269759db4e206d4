package canfuzz

import (
	"fmt"
	"time"

	"github.com/bft-labs/canfuzz/internal/domain"
	"github.com/bft-labs/canfuzz/internal/strategy"
)

// Defaults applied by Config.SetDefaults.
const (
	// DefaultInterface is the CAN interface used when none is configured.
	DefaultInterface = "can0"

	// DefaultWindow is how long each dispatch listens for responses.
	DefaultWindow = 100 * time.Microsecond

	// DefaultLogDepth is how many recent directives are retained.
	DefaultLogDepth = 16

	// DefaultCheckpointEvery is the checkpoint interval in directives.
	DefaultCheckpointEvery = 100
)

// Config holds the configuration for a fuzzing run.
// Use SetDefaults() to fill in unset fields before Validate().
type Config struct {
	// Algorithm selects the generator: random, linear, ring_bf or mutate.
	Algorithm string

	// ID pins, seeds or bases the arbitration id, depending on the
	// algorithm. Three hex digits, leading digit 0-7.
	ID string

	// Payload pins, seeds or bases the payload hex digits.
	Payload string

	// IDBitmap marks id digit positions free to vary, as a comma
	// separated list of True/False entries.
	IDBitmap string

	// PayloadBitmap marks payload digit positions free to vary.
	PayloadBitmap string

	// PayloadBytes is the payload length for generated payloads, 1-8.
	PayloadBytes int

	// File is the corpus file replayed by the linear algorithm.
	File string

	// CorpusFile, when set, appends every dispatched directive to a
	// corpus file for later replay.
	CorpusFile string

	// LogDepth bounds the recent directive log. Zero picks
	// DefaultLogDepth; negative disables the log.
	LogDepth int

	// Count stops the run after this many directives. Zero means
	// unbounded.
	Count uint64

	// Seed fixes the random source for reproducible runs. Zero draws a
	// time-based seed.
	Seed int64

	// Window is how long each dispatch listens for bus responses.
	Window time.Duration

	// Gap is an optional pause between directives.
	Gap time.Duration

	// Interface is the CAN interface to fuzz.
	Interface string

	// DryRun swaps the CAN transport for an in-process loopback.
	DryRun bool

	// CheckpointDir, when set, persists run progress for --resume.
	CheckpointDir string

	// CheckpointEvery is the checkpoint interval in directives. Zero
	// picks DefaultCheckpointEvery.
	CheckpointEvery uint64

	// Resume continues the run recorded in CheckpointDir. The rest of
	// the configuration must match the run that wrote the checkpoint.
	Resume bool
}

// SetDefaults fills in default values for unset fields.
func (c *Config) SetDefaults() {
	if c.Algorithm == "" {
		c.Algorithm = strategy.AlgRandom
	}
	if c.PayloadBytes == 0 {
		c.PayloadBytes = strategy.DefaultPayloadBytes
	}
	if c.LogDepth == 0 {
		c.LogDepth = DefaultLogDepth
	}
	if c.Window <= 0 {
		c.Window = DefaultWindow
	}
	if c.Interface == "" {
		c.Interface = DefaultInterface
	}
	if c.CheckpointEvery == 0 {
		c.CheckpointEvery = DefaultCheckpointEvery
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch c.Algorithm {
	case strategy.AlgRandom, strategy.AlgLinear, strategy.AlgRingBF, strategy.AlgMutate:
	default:
		return fmt.Errorf("%w: unknown algorithm %q", domain.ErrInvalidConfig, c.Algorithm)
	}

	if c.PayloadBytes < 1 || c.PayloadBytes > domain.MaxPayloadDigits/2 {
		return fmt.Errorf("%w: payload length %d bytes outside 1-%d",
			domain.ErrInvalidConfig, c.PayloadBytes, domain.MaxPayloadDigits/2)
	}

	if c.Algorithm == strategy.AlgLinear && c.File == "" {
		return fmt.Errorf("%w: the linear algorithm needs a corpus file", domain.ErrMissingArgument)
	}
	if c.Algorithm == strategy.AlgLinear && c.CorpusFile == c.File && c.CorpusFile != "" {
		return fmt.Errorf("%w: corpus sink %q is the file being replayed", domain.ErrInvalidConfig, c.CorpusFile)
	}
	if c.Algorithm == strategy.AlgRingBF && c.ID == "" {
		return fmt.Errorf("%w: the ring_bf algorithm needs a base id", domain.ErrMissingArgument)
	}

	if _, err := domain.ParseBitmap(c.IDBitmap); err != nil {
		return fmt.Errorf("id bitmap: %w", err)
	}
	if _, err := domain.ParseBitmap(c.PayloadBitmap); err != nil {
		return fmt.Errorf("payload bitmap: %w", err)
	}

	if c.Gap < 0 {
		return fmt.Errorf("%w: gap must not be negative", domain.ErrInvalidConfig)
	}

	if c.Resume && c.CheckpointDir == "" {
		return fmt.Errorf("%w: resume needs a checkpoint directory", domain.ErrMissingArgument)
	}

	return nil
}

// strategyConfig maps the public configuration onto the generator
// configuration. Validate must have accepted c first.
func (c *Config) strategyConfig() (strategy.Config, error) {
	idBitmap, err := domain.ParseBitmap(c.IDBitmap)
	if err != nil {
		return strategy.Config{}, fmt.Errorf("id bitmap: %w", err)
	}
	payloadBitmap, err := domain.ParseBitmap(c.PayloadBitmap)
	if err != nil {
		return strategy.Config{}, fmt.Errorf("payload bitmap: %w", err)
	}

	return strategy.Config{
		Algorithm:     c.Algorithm,
		ID:            c.ID,
		Payload:       c.Payload,
		IDBitmap:      idBitmap,
		PayloadBitmap: payloadBitmap,
		PayloadBytes:  c.PayloadBytes,
		File:          c.File,
		Seed:          c.Seed,
	}, nil
}
