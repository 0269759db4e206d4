package domain

import "fmt"

// Ring enumerates a fixed-width digit string over an ordered alphabet,
// one unit at a time, carrying overflow into the next higher-order
// digit. Starting from the all-minimum seed it visits every one of the
// len(alphabet)^width combinations exactly once, in ascending order,
// then reports ErrExhausted.
//
// The digits are held least-significant first so carry propagation
// always scans from index 0. State is replaced on each advance, never
// aliased by callers.
type Ring struct {
	rev      []byte
	seed     []byte
	alphabet Alphabet
}

// NewRing creates an enumerator seeded at the given digit string. Every
// seed digit must be a member of the alphabet. A zero-width ring is
// valid and exhausts on the first advance (its single combination is
// the empty string itself).
func NewRing(seed string, alphabet Alphabet) (*Ring, error) {
	if len(alphabet) < 2 {
		return nil, fmt.Errorf("%w: ring alphabet needs at least two symbols", ErrInvalidConfig)
	}
	if !alphabet.ContainsAll(seed) {
		return nil, fmt.Errorf("%w: ring seed %q contains symbols outside %q", ErrInvalidConfig, seed, alphabet)
	}
	r := &Ring{
		rev:      reverse(seed),
		seed:     reverse(seed),
		alphabet: alphabet,
	}
	return r, nil
}

// Current returns the digit string in display order (most-significant
// first).
func (r *Ring) Current() string {
	out := make([]byte, len(r.rev))
	for i, c := range r.rev {
		out[len(out)-1-i] = c
	}
	return string(out)
}

// Width returns the number of digits under enumeration.
func (r *Ring) Width() int { return len(r.rev) }

// Advance steps to the next combination and returns it. The scan finds
// the lowest-order digit below the alphabet maximum, raises it one
// symbol, and resets every lower-order digit to the minimum. When every
// digit already holds the maximum symbol the space has been enumerated
// exactly once and Advance reports ErrExhausted; callers branch on it
// as ordinary control flow.
func (r *Ring) Advance() (string, error) {
	ring := 0
	for ring < len(r.rev) && r.rev[ring] == r.alphabet.Max() {
		ring++
	}
	if ring == len(r.rev) {
		return "", ErrExhausted
	}
	r.rev[ring] = r.alphabet[r.alphabet.Index(r.rev[ring])+1]
	for i := 0; i < ring; i++ {
		r.rev[i] = r.alphabet.Min()
	}
	return r.Current(), nil
}

// Seek moves the enumerator to the given position. The seed is
// unchanged, so Reset still rewinds to the start of the space.
func (r *Ring) Seek(digits string) error {
	if len(digits) != len(r.rev) {
		return fmt.Errorf("%w: seek position %q has width %d, ring has %d",
			ErrInvalidConfig, digits, len(digits), len(r.rev))
	}
	if !r.alphabet.ContainsAll(digits) {
		return fmt.Errorf("%w: seek position %q contains symbols outside %q",
			ErrInvalidConfig, digits, r.alphabet)
	}
	r.rev = reverse(digits)
	return nil
}

// Reset rewinds the enumerator to its seed.
func (r *Ring) Reset() {
	copy(r.rev, r.seed)
}

func reverse(s string) []byte {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		out[len(s)-1-i] = s[i]
	}
	return out
}
