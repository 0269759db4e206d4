package strategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/canfuzz/internal/domain"
)

func TestMutateFixedPositionsHoldBase(t *testing.T) {
	g, err := New(Config{
		Algorithm:     AlgMutate,
		ID:            "133",
		Payload:       "DEADBEEF",
		IDBitmap:      domain.Bitmap{false, true, false},
		PayloadBitmap: domain.Bitmap{false, true, true, false},
		Seed:          7,
	})
	require.NoError(t, err)
	defer g.Close()

	for i := 0; i < 500; i++ {
		d, err := g.Next(context.Background())
		require.NoError(t, err)
		require.NoError(t, d.Validate())

		assert.Equal(t, byte('1'), d.ID[0])
		assert.Equal(t, byte('3'), d.ID[2])
		assert.Equal(t, byte('D'), d.Payload[0])
		assert.Equal(t, byte('D'), d.Payload[3])
		// Positions beyond the bitmap stay fixed.
		assert.Equal(t, "BEEF", d.Payload[4:])
	}
}

func TestMutateFreePositionsCoverAlphabet(t *testing.T) {
	g, err := New(Config{
		Algorithm:     AlgMutate,
		ID:            "133",
		Payload:       "00",
		IDBitmap:      domain.Bitmap{true, false, false},
		PayloadBitmap: domain.Bitmap{false, true},
		Seed:          7,
	})
	require.NoError(t, err)
	defer g.Close()

	leadSeen := map[byte]bool{}
	payloadSeen := map[byte]bool{}
	for i := 0; i < 2000; i++ {
		d, err := g.Next(context.Background())
		require.NoError(t, err)

		require.LessOrEqual(t, d.ID[0], byte('7'), "mutated lead digit must stay in the 11-bit space")
		leadSeen[d.ID[0]] = true
		payloadSeen[d.Payload[1]] = true
	}
	assert.Len(t, leadSeen, len(domain.LeadIDAlphabet), "lead position should eventually see its whole alphabet")
	assert.Len(t, payloadSeen, len(domain.HexAlphabet), "free payload position should eventually see all 16 symbols")
}

func TestMutateDefaults(t *testing.T) {
	// No bases, no bitmaps: the defaults repeat forever.
	g, err := New(Config{Algorithm: AlgMutate, Seed: 7})
	require.NoError(t, err)
	defer g.Close()

	for i := 0; i < 10; i++ {
		d, err := g.Next(context.Background())
		require.NoError(t, err)
		assert.Equal(t, domain.Directive{ID: DefaultBaseID, Payload: DefaultBasePayload}, d)
	}
}

func TestMutateShortIDPadded(t *testing.T) {
	g, err := New(Config{
		Algorithm: AlgMutate,
		ID:        "5",
		IDBitmap:  domain.Bitmap{false, true, false},
		Seed:      7,
	})
	require.NoError(t, err)
	defer g.Close()

	d, err := g.Next(context.Background())
	require.NoError(t, err)
	assert.Len(t, d.ID, domain.MaxIDDigits)
	assert.Equal(t, byte('0'), d.ID[0])
	assert.Equal(t, byte('5'), d.ID[2])
}

func TestMutateDeterministicWithSeed(t *testing.T) {
	mk := func() *mutateGen {
		g, err := New(Config{
			Algorithm:     AlgMutate,
			Payload:       "0000",
			PayloadBitmap: domain.Bitmap{true, true, true, true},
			Seed:          99,
		})
		require.NoError(t, err)
		return g.(*mutateGen)
	}

	a, b := mk(), mk()
	for i := 0; i < 20; i++ {
		da, err := a.Next(context.Background())
		require.NoError(t, err)
		db, err := b.Next(context.Background())
		require.NoError(t, err)
		assert.Equal(t, da, db)
	}
}
