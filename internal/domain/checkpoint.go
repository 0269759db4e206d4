package domain

import "time"

// Checkpoint is the persisted resume cursor for a run. It is saved after
// graceful shutdown and periodically during long sweeps, and read back
// by a later run started with --resume.
type Checkpoint struct {
	// RunID identifies the run that wrote the checkpoint.
	RunID string `json:"run_id"`

	// Algorithm is the strategy name the cursor belongs to. A checkpoint
	// recorded by a different algorithm must not seed a resume.
	Algorithm string `json:"algorithm"`

	// Iterations is the number of directives dispatched so far.
	Iterations uint64 `json:"iterations"`

	// LastID holds the digits of the last sent arbitration id.
	LastID string `json:"last_id"`

	// LastPayload holds the digits of the last sent payload.
	LastPayload string `json:"last_payload"`

	// SavedAt is the time the checkpoint was written.
	SavedAt time.Time `json:"saved_at"`
}

// IsEmpty reports whether the checkpoint has never been written.
func (c Checkpoint) IsEmpty() bool {
	return c.Algorithm == ""
}

// Update records the most recently dispatched directive.
func (c *Checkpoint) Update(algorithm string, iterations uint64, d Directive) {
	c.Algorithm = algorithm
	c.Iterations = iterations
	c.LastID = d.ID
	c.LastPayload = d.Payload
	c.SavedAt = time.Now()
}
