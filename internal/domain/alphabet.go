package domain

import "strings"

// Alphabet is an ordered, immutable symbol set for digit strings.
// The ordering is load-bearing: the ring enumerator derives carry
// behavior from symbol positions, so symbols must appear in ascending
// numeric order.
type Alphabet string

const (
	// HexAlphabet covers a single payload or arbitration id digit.
	HexAlphabet Alphabet = "0123456789ABCDEF"

	// LeadIDAlphabet covers the leading digit of a full-width
	// arbitration id. The 11-bit identifier space caps it at 7.
	LeadIDAlphabet Alphabet = "01234567"
)

// Min returns the lowest-order symbol.
func (a Alphabet) Min() byte { return a[0] }

// Max returns the highest-order symbol.
func (a Alphabet) Max() byte { return a[len(a)-1] }

// Index returns the position of c in the alphabet, or -1 when c is not
// a member.
func (a Alphabet) Index(c byte) int { return strings.IndexByte(string(a), c) }

// Contains reports whether c is a member of the alphabet.
func (a Alphabet) Contains(c byte) bool { return a.Index(c) >= 0 }

// ContainsAll reports whether every byte of s is a member of the alphabet.
func (a Alphabet) ContainsAll(s string) bool {
	for i := 0; i < len(s); i++ {
		if !a.Contains(s[i]) {
			return false
		}
	}
	return true
}
