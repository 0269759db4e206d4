package domain

import (
	"testing"

	gofuzzheaders "github.com/AdaLogics/go-fuzz-headers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBitmap(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Bitmap
		wantErr bool
	}{
		{name: "mixed", in: "True,False,True", want: Bitmap{true, false, true}},
		{name: "lowercase", in: "true,false", want: Bitmap{true, false}},
		{name: "numeric", in: "1,0,1", want: Bitmap{true, false, true}},
		{name: "surrounding spaces", in: " True , False ", want: Bitmap{true, false}},
		{name: "empty means unconstrained", in: "", want: nil},
		{name: "blank means unconstrained", in: "   ", want: nil},
		{name: "unknown token", in: "True,maybe", wantErr: true},
		{name: "trailing comma", in: "True,", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBitmap(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBitmapMask(t *testing.T) {
	tests := []struct {
		name   string
		bitmap Bitmap
		digits string
		want   string
	}{
		{name: "alternating", bitmap: Bitmap{true, false, true, false}, digits: "DEAD", want: "DA"},
		{name: "all free", bitmap: Bitmap{true, true, true}, digits: "123", want: "123"},
		{name: "all fixed", bitmap: Bitmap{false, false, false}, digits: "123", want: ""},
		{name: "nil bitmap fixes everything", bitmap: nil, digits: "123", want: ""},
		{name: "short bitmap fixes the tail", bitmap: Bitmap{true}, digits: "BEEF", want: "B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.bitmap.Mask(tt.digits))
		})
	}
}

func TestBitmapMerge(t *testing.T) {
	bm := Bitmap{true, false, true, false}

	got, err := bm.Merge("01", "DEAD")
	require.NoError(t, err)
	assert.Equal(t, "0E1D", got)
}

func TestBitmapMergeIdentity(t *testing.T) {
	digits := []string{
		"",
		"DEAD",
		"0000000000000000",
		"FFFFFFFFFFFFFFFF",
		"0123456789ABCDEF",
	}
	bitmaps := []Bitmap{
		nil,
		{},
		{true},
		{false, true, false, true},
		{true, true, true, true, true, true, true, true, true, true, true, true, true, true, true, true},
	}

	for _, d := range digits {
		for _, bm := range bitmaps {
			sub := bm.Mask(d)
			got, err := bm.Merge(sub, d)
			require.NoError(t, err, "bitmap %v digits %q", bm, d)
			assert.Equal(t, d, got, "bitmap %v", bm)
		}
	}
}

func TestBitmapMergeLengthMismatch(t *testing.T) {
	bm := Bitmap{true, false, true}

	_, err := bm.Merge("A", "123")
	require.ErrorIs(t, err, ErrMaskMismatch)

	_, err = bm.Merge("ABC", "123")
	require.ErrorIs(t, err, ErrMaskMismatch)
}

func TestBitmapFreeBeyondLength(t *testing.T) {
	bm := Bitmap{true}

	assert.True(t, bm.Free(0))
	assert.False(t, bm.Free(1))
	assert.Equal(t, 1, bm.FreeCount(8))
}

func TestBitmapTruncate(t *testing.T) {
	bm := Bitmap{true, false, true, true, false}

	assert.Equal(t, Bitmap{true, false, true}, bm.Truncate(3))
	assert.Equal(t, bm, bm.Truncate(5))
	assert.Equal(t, bm, bm.Truncate(9))
}

func TestBitmapString(t *testing.T) {
	bm, err := ParseBitmap("True,False,True")
	require.NoError(t, err)
	assert.Equal(t, "True,False,True", bm.String())
}

func FuzzBitmapMergeIdentity(f *testing.F) {
	f.Add([]byte{0x04, 0x01, 0x02, 0x03, 0x04})
	f.Add([]byte{0x10, 0xFF, 0x00, 0xFF, 0x00, 0xFF, 0x00, 0xFF, 0x00})

	f.Fuzz(func(t *testing.T, data []byte) {
		c := gofuzzheaders.NewConsumer(data)
		wb, err := c.GetByte()
		if err != nil {
			return
		}
		width := int(wb) % (MaxPayloadDigits + 1)
		bm := make(Bitmap, width)
		digits := make([]byte, width)
		for i := 0; i < width; i++ {
			b, err := c.GetByte()
			if err != nil {
				return
			}
			bm[i] = b&1 == 1
			digits[i] = HexAlphabet[int(b>>1)%len(HexAlphabet)]
		}

		s := string(digits)
		merged, err := bm.Merge(bm.Mask(s), s)
		if err != nil {
			t.Fatalf("merge after mask failed for %q (bitmap %v): %v", s, bm, err)
		}
		if merged != s {
			t.Errorf("mask/merge changed digits: %q -> %q (bitmap %v)", s, merged, bm)
		}
	})
}
