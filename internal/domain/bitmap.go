package domain

import (
	"fmt"
	"strings"
)

// Bitmap marks which digit positions of a fixed-width field are free to
// vary. Position i set to true means "digit i may be replaced"; false
// positions are copied from the configured base value. Positions beyond
// the bitmap's length are implicitly fixed. A bitmap is supplied once
// per run and never mutated.
type Bitmap []bool

// ParseBitmap reads the textual command-line form: a comma-separated
// list of True/False values (case-insensitive; 1/0 also accepted), e.g.
// "True,False,True".
func ParseBitmap(s string) (Bitmap, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	b := make(Bitmap, len(parts))
	for i, p := range parts {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "true", "1":
			b[i] = true
		case "false", "0":
			b[i] = false
		default:
			return nil, fmt.Errorf("%w: bitmap element %q is not True/False", ErrInvalidConfig, p)
		}
	}
	return b, nil
}

// String renders the canonical textual form of the bitmap.
func (b Bitmap) String() string {
	parts := make([]string, len(b))
	for i, set := range b {
		if set {
			parts[i] = "True"
		} else {
			parts[i] = "False"
		}
	}
	return strings.Join(parts, ",")
}

// Free reports whether position i is free to vary. Positions beyond the
// bitmap's length are fixed.
func (b Bitmap) Free(i int) bool {
	return i < len(b) && b[i]
}

// FreeCount returns the number of free positions within the first width
// digits.
func (b Bitmap) FreeCount(width int) int {
	n := 0
	for i := 0; i < width; i++ {
		if b.Free(i) {
			n++
		}
	}
	return n
}

// Truncate clamps the bitmap to width positions. A bitmap longer than
// the field it masks carries no extra information; callers truncate at
// validation time so downstream arithmetic sees consistent widths.
func (b Bitmap) Truncate(width int) Bitmap {
	if len(b) <= width {
		return b
	}
	return b[:width]
}

// Mask extracts the digits at free positions, preserving their relative
// order. The result is the substring the ring enumerator or mutation
// operates on.
func (b Bitmap) Mask(digits string) string {
	var out strings.Builder
	for i := 0; i < len(digits); i++ {
		if b.Free(i) {
			out.WriteByte(digits[i])
		}
	}
	return out.String()
}

// Merge writes the masked subsequence sub back over the free positions
// of digits, copying fixed positions unchanged. sub must contain exactly
// one character per free position; anything else is a caller bug and
// reported as ErrMaskMismatch.
//
// Merge(Mask(digits), digits) == digits for every bitmap and digit
// string, which is the identity law the strategies rely on.
func (b Bitmap) Merge(sub, digits string) (string, error) {
	if len(sub) != b.FreeCount(len(digits)) {
		return "", fmt.Errorf("%w: %d masked digits for %d free positions",
			ErrMaskMismatch, len(sub), b.FreeCount(len(digits)))
	}
	var out strings.Builder
	out.Grow(len(digits))
	next := 0
	for i := 0; i < len(digits); i++ {
		if b.Free(i) {
			out.WriteByte(sub[next])
			next++
		} else {
			out.WriteByte(digits[i])
		}
	}
	return out.String(), nil
}
