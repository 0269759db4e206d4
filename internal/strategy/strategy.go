package strategy

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/bft-labs/canfuzz/internal/domain"
	"github.com/bft-labs/canfuzz/internal/ports"
)

// Algorithm names accepted by New.
const (
	AlgRandom = "random"
	AlgLinear = "linear"
	AlgRingBF = "ring_bf"
	AlgMutate = "mutate"
)

// Defaults applied when a strategy needs a base value and none is
// configured.
const (
	// DefaultBaseID is the fallback base arbitration id.
	DefaultBaseID = "001"

	// DefaultBasePayload is the fallback base payload.
	DefaultBasePayload = "FFFFFFFF"

	// DefaultPayloadBytes is the random payload length in bytes.
	DefaultPayloadBytes = 8
)

// Config carries everything a generator needs. Unused fields are
// ignored by algorithms that do not consume them.
type Config struct {
	// Algorithm selects the generator: random, linear, ring_bf, mutate.
	Algorithm string

	// ID pins (random), seeds (ring_bf) or bases (mutate) the
	// arbitration id. Empty means not configured.
	ID string

	// Payload pins, seeds or bases the payload digits. Empty means not
	// configured.
	Payload string

	// IDBitmap marks which id digit positions are free to vary.
	IDBitmap domain.Bitmap

	// PayloadBitmap marks which payload digit positions are free to vary.
	PayloadBitmap domain.Bitmap

	// PayloadBytes is the generated payload length for the random
	// algorithm. Zero means DefaultPayloadBytes.
	PayloadBytes int

	// File is the corpus path replayed by the linear algorithm.
	File string

	// Seed fixes the random source for reproducible runs. Zero draws a
	// time-based seed.
	Seed int64

	// Resume marks the run as continuing from a checkpoint. The base
	// configuration must match the run that wrote it.
	Resume bool

	// ResumeID and ResumePayload hold the last dispatched directive
	// when Resume is set. Enumeration continues after it; the directive
	// itself is not re-sent.
	ResumeID      string
	ResumePayload string

	// SkipLines fast-forwards the linear algorithm past corpus lines a
	// previous run already dispatched.
	SkipLines uint64
}

// New builds the generator for cfg.Algorithm.
func New(cfg Config) (ports.Generator, error) {
	if cfg.PayloadBytes == 0 {
		cfg.PayloadBytes = DefaultPayloadBytes
	}
	if cfg.PayloadBytes < 0 || cfg.PayloadBytes > domain.MaxPayloadDigits/2 {
		return nil, fmt.Errorf("%w: payload length %d bytes outside 1-%d",
			domain.ErrInvalidConfig, cfg.PayloadBytes, domain.MaxPayloadDigits/2)
	}

	switch cfg.Algorithm {
	case AlgRandom:
		return newRandom(cfg)
	case AlgLinear:
		return newReplay(cfg)
	case AlgRingBF:
		return newRingBF(cfg)
	case AlgMutate:
		return newMutate(cfg)
	default:
		return nil, fmt.Errorf("%w: unknown algorithm %q", domain.ErrInvalidConfig, cfg.Algorithm)
	}
}

// newRand builds the strategy's random source.
func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// drawSymbol picks one symbol uniformly from the alphabet.
func drawSymbol(r *rand.Rand, a domain.Alphabet) byte {
	return a[r.Intn(len(a))]
}

// randomID draws a full-width arbitration id: the leading digit from
// the 8-symbol lead alphabet, the rest from the hex alphabet.
func randomID(r *rand.Rand) string {
	var b strings.Builder
	b.Grow(domain.MaxIDDigits)
	b.WriteByte(drawSymbol(r, domain.LeadIDAlphabet))
	for i := 1; i < domain.MaxIDDigits; i++ {
		b.WriteByte(drawSymbol(r, domain.HexAlphabet))
	}
	return b.String()
}

// randomPayload draws a payload of the given byte length.
func randomPayload(r *rand.Rand, payloadBytes int) string {
	var b strings.Builder
	b.Grow(2 * payloadBytes)
	for i := 0; i < 2*payloadBytes; i++ {
		b.WriteByte(drawSymbol(r, domain.HexAlphabet))
	}
	return b.String()
}

// padID left-pads an arbitration id with zeros to the full field width
// so bitmap positions always index the same digits.
func padID(id string) string {
	if len(id) >= domain.MaxIDDigits {
		return id
	}
	return strings.Repeat("0", domain.MaxIDDigits-len(id)) + id
}
