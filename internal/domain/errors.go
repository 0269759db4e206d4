package domain

import "errors"

// Domain errors represent error conditions in the canfuzz domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrInvalidDirective is returned for a malformed corpus line or an
	// out-of-range arbitration id or payload.
	ErrInvalidDirective = errors.New("canfuzz: invalid directive")

	// ErrExhausted signals that a bounded strategy has enumerated its
	// entire space. It is a normal termination condition, not a fault.
	ErrExhausted = errors.New("canfuzz: search space exhausted")

	// ErrMaskMismatch is returned by Bitmap.Merge when the masked
	// subsequence does not cover the bitmap's free positions exactly.
	ErrMaskMismatch = errors.New("canfuzz: masked subsequence length mismatch")

	// ErrMissingArgument is returned when a strategy lacks a required
	// configuration value (replay file, brute-force base id).
	ErrMissingArgument = errors.New("canfuzz: missing required argument")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("canfuzz: invalid configuration")

	// ErrAlreadyRunning is returned when Start() is called on a running instance.
	ErrAlreadyRunning = errors.New("canfuzz: already running")

	// ErrNotRunning is returned when Stop() is called on a stopped instance.
	ErrNotRunning = errors.New("canfuzz: not running")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("canfuzz: shutdown timeout")
)
