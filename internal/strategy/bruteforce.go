package strategy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bft-labs/canfuzz/internal/domain"
	"github.com/bft-labs/canfuzz/internal/ports"
)

// ringBF enumerates the payload space with the ring-carry enumerator,
// optionally nesting an id enumeration around it: when the payload ring
// exhausts, the id ring advances one step and the payload ring rewinds.
// The run is complete when the outermost ring exhausts.
//
// When a bitmap is supplied for a field, the ring runs over the masked
// subsequence only and the result is merged back over the base digits,
// so fixed positions keep their configured value.
type ringBF struct {
	base          domain.Directive
	payloadBitmap domain.Bitmap
	idBitmap      domain.Bitmap
	payloadRing   *domain.Ring
	idRing        *domain.Ring
	started       bool
}

func newRingBF(cfg Config) (ports.Generator, error) {
	if cfg.ID == "" {
		return nil, fmt.Errorf("%w: ring brute force requires a base id", domain.ErrMissingArgument)
	}
	base := domain.Directive{
		ID:      padID(strings.ToUpper(cfg.ID)),
		Payload: strings.ToUpper(cfg.Payload),
	}
	if base.Payload == "" {
		base.Payload = strings.Repeat("0", 2*cfg.PayloadBytes)
	}
	if err := base.Validate(); err != nil {
		return nil, err
	}

	g := &ringBF{
		base:          base,
		payloadBitmap: cfg.PayloadBitmap.Truncate(len(base.Payload)),
		idBitmap:      cfg.IDBitmap.Truncate(len(base.ID)),
	}

	// No payload bitmap means the whole payload is under enumeration.
	payloadSeed := base.Payload
	if g.payloadBitmap != nil {
		payloadSeed = g.payloadBitmap.Mask(base.Payload)
	}
	ring, err := domain.NewRing(payloadSeed, domain.HexAlphabet)
	if err != nil {
		return nil, err
	}
	g.payloadRing = ring

	// The id is enumerated only when its bitmap frees at least one
	// position. The leading digit cannot be freed: its ring would leave
	// the 11-bit identifier space.
	if g.idBitmap.FreeCount(len(base.ID)) > 0 {
		if g.idBitmap.Free(0) {
			return nil, fmt.Errorf("%w: ring enumeration cannot free the id's leading digit",
				domain.ErrInvalidConfig)
		}
		ring, err := domain.NewRing(g.idBitmap.Mask(base.ID), domain.HexAlphabet)
		if err != nil {
			return nil, err
		}
		g.idRing = ring
	}

	if cfg.Resume {
		if err := g.resume(cfg); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// resume positions the rings at the last dispatched directive. Reset
// targets are untouched, so payload sweeps under later ids still start
// from the configured base.
func (g *ringBF) resume(cfg Config) error {
	g.started = true
	payload := strings.ToUpper(cfg.ResumePayload)
	if g.payloadBitmap != nil {
		payload = g.payloadBitmap.Mask(payload)
	}
	if err := g.payloadRing.Seek(payload); err != nil {
		return err
	}
	if g.idRing != nil {
		if err := g.idRing.Seek(g.idBitmap.Mask(padID(strings.ToUpper(cfg.ResumeID)))); err != nil {
			return err
		}
	}
	return nil
}

// Next emits the seed directive first, then one enumeration step per
// call until the space is complete.
func (g *ringBF) Next(ctx context.Context) (domain.Directive, error) {
	if err := ctx.Err(); err != nil {
		return domain.Directive{}, err
	}
	if !g.started {
		g.started = true
		return g.emit()
	}

	if _, err := g.payloadRing.Advance(); err != nil {
		if !errors.Is(err, domain.ErrExhausted) {
			return domain.Directive{}, err
		}
		if g.idRing == nil {
			return domain.Directive{}, domain.ErrExhausted
		}
		if _, err := g.idRing.Advance(); err != nil {
			return domain.Directive{}, err
		}
		g.payloadRing.Reset()
	}
	return g.emit()
}

// emit recombines the ring positions with the fixed base digits.
func (g *ringBF) emit() (domain.Directive, error) {
	d := domain.Directive{ID: g.base.ID, Payload: g.payloadRing.Current()}
	if g.payloadBitmap != nil {
		merged, err := g.payloadBitmap.Merge(g.payloadRing.Current(), g.base.Payload)
		if err != nil {
			return domain.Directive{}, err
		}
		d.Payload = merged
	}
	if g.idRing != nil {
		merged, err := g.idBitmap.Merge(g.idRing.Current(), g.base.ID)
		if err != nil {
			return domain.Directive{}, err
		}
		d.ID = merged
	}
	return d, nil
}

func (g *ringBF) Close() error { return nil }
