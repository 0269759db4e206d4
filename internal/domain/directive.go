package domain

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

const (
	// MaxIDDigits is the width of the arbitration id field. Generated
	// directives always carry the full width; parsed ones may be shorter.
	MaxIDDigits = 3

	// MaxPayloadDigits bounds the payload at 8 bytes (one digit pair per
	// byte).
	MaxPayloadDigits = 16

	// maxLeadDigit caps the leading digit of a full-width id so the
	// value stays inside the 11-bit identifier space.
	maxLeadDigit = '7'
)

// Directive is a single (arbitration id, payload) pair to be transmitted
// on the bus. A directive is created by a generator strategy, sent once,
// logged, and discarded; it is never mutated after construction.
type Directive struct {
	// ID is the arbitration id as 1-3 uppercase hex digits.
	ID string

	// Payload is the data field as 0-16 uppercase hex digits, always an
	// even count (each digit pair encodes one byte).
	Payload string
}

// ParseDirective parses a corpus line of the form "<id>#<payload>".
// A trailing newline (or CRLF) is accepted and stripped; lowercase hex
// is accepted and canonicalized to uppercase. The returned directive
// satisfies Validate.
func ParseDirective(line string) (Directive, error) {
	s := strings.TrimRight(line, "\r\n")
	sep := strings.IndexByte(s, '#')
	if sep < 0 {
		return Directive{}, fmt.Errorf("%w: missing '#' separator in %q", ErrInvalidDirective, s)
	}
	d := Directive{
		ID:      strings.ToUpper(s[:sep]),
		Payload: strings.ToUpper(s[sep+1:]),
	}
	if err := d.Validate(); err != nil {
		return Directive{}, err
	}
	return d, nil
}

// Validate checks the field invariants: id 1-3 hex digits with a
// full-width id leading in [0-7], payload an even count of at most 16
// hex digits.
func (d Directive) Validate() error {
	if len(d.ID) == 0 || len(d.ID) > MaxIDDigits {
		return fmt.Errorf("%w: id %q must be 1-%d hex digits", ErrInvalidDirective, d.ID, MaxIDDigits)
	}
	if !HexAlphabet.ContainsAll(d.ID) {
		return fmt.Errorf("%w: id %q is not hexadecimal", ErrInvalidDirective, d.ID)
	}
	if len(d.ID) == MaxIDDigits && d.ID[0] > maxLeadDigit {
		return fmt.Errorf("%w: id %q exceeds the 11-bit identifier space", ErrInvalidDirective, d.ID)
	}
	if len(d.Payload) > MaxPayloadDigits {
		return fmt.Errorf("%w: payload %q exceeds %d digits", ErrInvalidDirective, d.Payload, MaxPayloadDigits)
	}
	if len(d.Payload)%2 != 0 {
		return fmt.Errorf("%w: payload %q has odd digit count", ErrInvalidDirective, d.Payload)
	}
	if !HexAlphabet.ContainsAll(d.Payload) {
		return fmt.Errorf("%w: payload %q is not hexadecimal", ErrInvalidDirective, d.Payload)
	}
	return nil
}

// String renders the directive in cansend notation without a line
// terminator, e.g. "123#DEADBEEF".
func (d Directive) String() string {
	return d.ID + "#" + d.Payload
}

// Line renders the corpus file form of the directive. The round-trip law
// Line(ParseDirective(l)) == l holds for every well-formed line this
// codec produced.
func (d Directive) Line() string {
	return d.ID + "#" + d.Payload + "\n"
}

// IDValue returns the arbitration id as a bus identifier.
func (d Directive) IDValue() (uint32, error) {
	v, err := strconv.ParseUint(d.ID, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: id %q: %v", ErrInvalidDirective, d.ID, err)
	}
	return uint32(v), nil
}

// PayloadBytes decodes the payload digit pairs into raw frame data.
func (d Directive) PayloadBytes() ([]byte, error) {
	b, err := hex.DecodeString(d.Payload)
	if err != nil {
		return nil, fmt.Errorf("%w: payload %q: %v", ErrInvalidDirective, d.Payload, err)
	}
	return b, nil
}
