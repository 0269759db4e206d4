package cliconfig

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bft-labs/canfuzz/internal/domain"
)

// DefaultInterface is the CAN interface used when none is configured.
const DefaultInterface = "can0"

// Config holds CLI configuration for canfuzz.
type Config struct {
	Algorithm string
	ID        string
	Payload   string

	IDBitmap      string
	PayloadBitmap string
	PayloadBytes  int

	File string

	Gen      bool
	GenCount uint64

	CorpusFile string
	LogDepth   int

	Count uint64
	Seed  int64

	Window time.Duration
	Gap    time.Duration

	Interface string
	DryRun    bool

	CheckpointDir string
	Resume        bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Algorithm:    "random",
		PayloadBytes: 8,
		GenCount:     100,
		LogDepth:     16,
		Window:       100 * time.Microsecond,
		Interface:    DefaultInterface,
	}
}

// Validate checks the configuration for errors and sets derived defaults.
// Failures wrap domain.ErrInvalidConfig or domain.ErrMissingArgument so
// the CLI can tell argument mistakes from internal failures.
func (c *Config) Validate() error {
	switch c.Algorithm {
	case "random", "linear", "ring_bf", "mutate":
	default:
		return fmt.Errorf("%w: unknown algorithm %q (want random, linear, ring_bf or mutate)",
			domain.ErrInvalidConfig, c.Algorithm)
	}

	if c.PayloadBytes < 1 || c.PayloadBytes > 8 {
		return fmt.Errorf("%w: payload-bytes must be between 1 and 8", domain.ErrInvalidConfig)
	}

	if c.Algorithm == "linear" && c.File == "" {
		return fmt.Errorf("%w: file is required for the linear algorithm", domain.ErrMissingArgument)
	}
	if c.Algorithm == "linear" && c.CorpusFile == c.File && c.CorpusFile != "" {
		return fmt.Errorf("%w: corpus must not be the file being replayed", domain.ErrInvalidConfig)
	}
	if c.Algorithm == "ring_bf" && c.ID == "" {
		return fmt.Errorf("%w: id is required for the ring_bf algorithm", domain.ErrMissingArgument)
	}

	if c.Gen && c.Algorithm != "linear" {
		return fmt.Errorf("%w: gen pre-populates the replay corpus and needs the linear algorithm", domain.ErrInvalidConfig)
	}
	if c.Gen && c.GenCount == 0 {
		return fmt.Errorf("%w: gen-count must be positive when generating a corpus", domain.ErrInvalidConfig)
	}
	if c.Gen && c.Resume {
		return fmt.Errorf("%w: gen overwrites the replay corpus and cannot be combined with resume", domain.ErrInvalidConfig)
	}

	if c.Interface == "" {
		c.Interface = DefaultInterface
	}

	if c.LogDepth < 0 {
		return fmt.Errorf("%w: log-depth must not be negative (0 disables the log)", domain.ErrInvalidConfig)
	}

	if c.Window <= 0 {
		return fmt.Errorf("%w: window must be positive", domain.ErrInvalidConfig)
	}
	if c.Gap < 0 {
		return fmt.Errorf("%w: gap must not be negative", domain.ErrInvalidConfig)
	}

	if c.Resume && c.CheckpointDir == "" {
		return fmt.Errorf("%w: checkpoint directory is required to resume", domain.ErrMissingArgument)
	}

	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setUint64 sets a uint64 value if positive and flag not changed.
func (s *configSetter) setUint64(flag string, value uint64, dst *uint64) {
	if value == 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt64 sets an int64 value if nonzero and flag not changed.
func (s *configSetter) setInt64(flag string, value int64, dst *int64) {
	if value == 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setUint64FromString parses a string to uint64 and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setUint64FromString(flag, value string, dst *uint64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	u, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if u == 0 {
		return nil
	}
	*dst = u
	return nil
}

// setInt64FromString parses a string to int64 and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setInt64FromString(flag, value string, dst *int64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i == 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
