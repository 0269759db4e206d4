package strategy

import (
	"context"
	"math/rand"

	"github.com/bft-labs/canfuzz/internal/domain"
	"github.com/bft-labs/canfuzz/internal/ports"
)

// randomGen draws a fresh directive on every call. A configured static
// id or payload is held constant across calls; the other field is
// redrawn each time.
type randomGen struct {
	rng          *rand.Rand
	id           string
	payload      string
	payloadBytes int
}

func newRandom(cfg Config) (ports.Generator, error) {
	g := &randomGen{
		rng:          newRand(cfg.Seed),
		id:           cfg.ID,
		payload:      cfg.Payload,
		payloadBytes: cfg.PayloadBytes,
	}
	if g.id != "" || g.payload != "" {
		static := domain.Directive{ID: g.id, Payload: g.payload}
		if g.id == "" {
			static.ID = DefaultBaseID
		}
		if err := static.Validate(); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Next never exhausts; the caller cancels via ctx.
func (g *randomGen) Next(ctx context.Context) (domain.Directive, error) {
	if err := ctx.Err(); err != nil {
		return domain.Directive{}, err
	}
	d := domain.Directive{ID: g.id, Payload: g.payload}
	if d.ID == "" {
		d.ID = randomID(g.rng)
	}
	if d.Payload == "" {
		d.Payload = randomPayload(g.rng, g.payloadBytes)
	}
	return d, nil
}

func (g *randomGen) Close() error { return nil }
