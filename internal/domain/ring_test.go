package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingAdvance(t *testing.T) {
	tests := []struct {
		name string
		seed string
		want string
	}{
		{
			name: "lowest digit increments",
			seed: strings.Repeat("0", 16),
			want: strings.Repeat("0", 15) + "1",
		},
		{
			name: "carry into next digit",
			seed: strings.Repeat("0", 15) + "F",
			want: strings.Repeat("0", 14) + "10",
		},
		{
			name: "carry chain resets lower digits",
			seed: "0FFF",
			want: "1000",
		},
		{
			name: "mid value",
			seed: "00A9",
			want: "00AA",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRing(tt.seed, HexAlphabet)
			require.NoError(t, err)

			got, err := r.Advance()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, r.Current())
			assert.Equal(t, len(tt.seed), r.Width())
		})
	}
}

func TestRingExhausted(t *testing.T) {
	r, err := NewRing(strings.Repeat("F", 16), HexAlphabet)
	require.NoError(t, err)

	_, err = r.Advance()
	require.ErrorIs(t, err, ErrExhausted)

	// Exhaustion is sticky.
	_, err = r.Advance()
	require.ErrorIs(t, err, ErrExhausted)
}

func TestRingFullCycle(t *testing.T) {
	// Two hex digits: 256 combinations, each visited exactly once.
	r, err := NewRing("00", HexAlphabet)
	require.NoError(t, err)

	seen := map[string]bool{"00": true}
	count := 1
	for {
		s, err := r.Advance()
		if errors.Is(err, ErrExhausted) {
			break
		}
		require.NoError(t, err)
		require.False(t, seen[s], "combination %q visited twice", s)
		seen[s] = true
		count++
	}
	assert.Equal(t, 256, count)
	assert.Equal(t, "FF", r.Current())
}

func TestRingResumesFromSeed(t *testing.T) {
	r, err := NewRing("FE", HexAlphabet)
	require.NoError(t, err)

	got, err := r.Advance()
	require.NoError(t, err)
	assert.Equal(t, "FF", got)

	_, err = r.Advance()
	require.ErrorIs(t, err, ErrExhausted)
}

func TestRingLeadAlphabet(t *testing.T) {
	r, err := NewRing("6", LeadIDAlphabet)
	require.NoError(t, err)

	got, err := r.Advance()
	require.NoError(t, err)
	assert.Equal(t, "7", got)

	_, err = r.Advance()
	require.ErrorIs(t, err, ErrExhausted)
}

func TestRingReset(t *testing.T) {
	r, err := NewRing("0A", HexAlphabet)
	require.NoError(t, err)

	_, err = r.Advance()
	require.NoError(t, err)
	require.NotEqual(t, "0A", r.Current())

	r.Reset()
	assert.Equal(t, "0A", r.Current())
}

func TestRingZeroWidth(t *testing.T) {
	r, err := NewRing("", HexAlphabet)
	require.NoError(t, err)
	assert.Equal(t, "", r.Current())

	_, err = r.Advance()
	require.ErrorIs(t, err, ErrExhausted)
}

func TestNewRingRejectsForeignSeed(t *testing.T) {
	_, err := NewRing("0G", HexAlphabet)
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewRing("8", LeadIDAlphabet)
	require.ErrorIs(t, err, ErrInvalidConfig)
}
