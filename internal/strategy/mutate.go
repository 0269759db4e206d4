package strategy

import (
	"context"
	"math/rand"
	"strings"

	"github.com/bft-labs/canfuzz/internal/domain"
	"github.com/bft-labs/canfuzz/internal/ports"
)

// mutateGen redraws the digit positions the bitmaps mark free on every
// call; fixed positions are copied from the base directive. With no
// free positions it repeats the base forever. Never exhausts.
type mutateGen struct {
	rng           *rand.Rand
	base          domain.Directive
	idBitmap      domain.Bitmap
	payloadBitmap domain.Bitmap
}

func newMutate(cfg Config) (ports.Generator, error) {
	base := domain.Directive{
		ID:      strings.ToUpper(cfg.ID),
		Payload: strings.ToUpper(cfg.Payload),
	}
	if base.ID == "" {
		base.ID = DefaultBaseID
	}
	base.ID = padID(base.ID)
	if base.Payload == "" {
		base.Payload = DefaultBasePayload
	}
	if err := base.Validate(); err != nil {
		return nil, err
	}
	return &mutateGen{
		rng:           newRand(cfg.Seed),
		base:          base,
		idBitmap:      cfg.IDBitmap.Truncate(len(base.ID)),
		payloadBitmap: cfg.PayloadBitmap.Truncate(len(base.Payload)),
	}, nil
}

func (g *mutateGen) Next(ctx context.Context) (domain.Directive, error) {
	if err := ctx.Err(); err != nil {
		return domain.Directive{}, err
	}
	id, err := g.mutate(g.base.ID, g.idBitmap, true)
	if err != nil {
		return domain.Directive{}, err
	}
	payload, err := g.mutate(g.base.Payload, g.payloadBitmap, false)
	if err != nil {
		return domain.Directive{}, err
	}
	return domain.Directive{ID: id, Payload: payload}, nil
}

// mutate draws one fresh symbol per free position and merges the result
// over the base digits. The id's leading position draws from the
// 8-symbol lead alphabet so mutated ids stay inside the 11-bit space.
func (g *mutateGen) mutate(digits string, bm domain.Bitmap, isID bool) (string, error) {
	if bm.FreeCount(len(digits)) == 0 {
		return digits, nil
	}
	var sub strings.Builder
	for i := 0; i < len(digits); i++ {
		if !bm.Free(i) {
			continue
		}
		alphabet := domain.HexAlphabet
		if isID && i == 0 {
			alphabet = domain.LeadIDAlphabet
		}
		sub.WriteByte(drawSymbol(g.rng, alphabet))
	}
	return bm.Merge(sub.String(), digits)
}

func (g *mutateGen) Close() error { return nil }
