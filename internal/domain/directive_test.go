package domain

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestParseDirective(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Directive
		wantErr error
	}{
		{
			name: "plain",
			line: "123#FFFFFFFF",
			want: Directive{ID: "123", Payload: "FFFFFFFF"},
		},
		{
			name: "trailing newline",
			line: "123#FFFFFFFF\n",
			want: Directive{ID: "123", Payload: "FFFFFFFF"},
		},
		{
			name: "crlf line ending",
			line: "123#FFFFFFFF\r\n",
			want: Directive{ID: "123", Payload: "FFFFFFFF"},
		},
		{
			name: "lowercase canonicalized",
			line: "7ab#deadbeef",
			want: Directive{ID: "7AB", Payload: "DEADBEEF"},
		},
		{
			name: "short id",
			line: "1#00",
			want: Directive{ID: "1", Payload: "00"},
		},
		{
			name: "empty payload",
			line: "123#",
			want: Directive{ID: "123", Payload: ""},
		},
		{
			name: "full width payload",
			line: "000#0123456789ABCDEF",
			want: Directive{ID: "000", Payload: "0123456789ABCDEF"},
		},
		{
			name:    "missing separator",
			line:    "123FFFFFFFF",
			wantErr: ErrInvalidDirective,
		},
		{
			name:    "empty id",
			line:    "#FF",
			wantErr: ErrInvalidDirective,
		},
		{
			name:    "id too wide",
			line:    "1234#FF",
			wantErr: ErrInvalidDirective,
		},
		{
			name:    "lead digit outside 11-bit space",
			line:    "823#FF",
			wantErr: ErrInvalidDirective,
		},
		{
			name:    "odd payload digits",
			line:    "123#FFF",
			wantErr: ErrInvalidDirective,
		},
		{
			name:    "payload too wide",
			line:    "123#" + strings.Repeat("A", 18),
			wantErr: ErrInvalidDirective,
		},
		{
			name:    "non-hex id",
			line:    "12G#FF",
			wantErr: ErrInvalidDirective,
		},
		{
			name:    "non-hex payload",
			line:    "123#ZZ",
			wantErr: ErrInvalidDirective,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDirective(tt.line)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseDirective(%q) error = %v, want %v", tt.line, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDirective(%q) returned error: %v", tt.line, err)
			}
			if got != tt.want {
				t.Errorf("ParseDirective(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestDirectiveLineRoundTrip(t *testing.T) {
	const line = "123#FFFFFFFF\n"

	d, err := ParseDirective(line)
	if err != nil {
		t.Fatalf("ParseDirective returned error: %v", err)
	}
	if d.Line() != line {
		t.Errorf("Line() = %q, want %q", d.Line(), line)
	}
	if d.String() != "123#FFFFFFFF" {
		t.Errorf("String() = %q, want 123#FFFFFFFF", d.String())
	}
}

func TestDirectiveIDValue(t *testing.T) {
	tests := []struct {
		id   string
		want uint32
	}{
		{id: "0", want: 0x000},
		{id: "001", want: 0x001},
		{id: "7FF", want: 0x7FF},
		{id: "1A", want: 0x01A},
	}

	for _, tt := range tests {
		d := Directive{ID: tt.id}
		got, err := d.IDValue()
		if err != nil {
			t.Fatalf("IDValue(%q) returned error: %v", tt.id, err)
		}
		if got != tt.want {
			t.Errorf("IDValue(%q) = %#x, want %#x", tt.id, got, tt.want)
		}
	}
}

func TestDirectivePayloadBytes(t *testing.T) {
	d := Directive{ID: "123", Payload: "DEADBEEF"}
	got, err := d.PayloadBytes()
	if err != nil {
		t.Fatalf("PayloadBytes returned error: %v", err)
	}
	want := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	if !bytes.Equal(got, want) {
		t.Errorf("PayloadBytes() = %x, want %x", got, want)
	}

	empty := Directive{ID: "123"}
	got, err = empty.PayloadBytes()
	if err != nil {
		t.Fatalf("PayloadBytes on empty payload returned error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("PayloadBytes() on empty payload = %x, want empty", got)
	}
}

func FuzzParseDirective(f *testing.F) {
	f.Add("123#FFFFFFFF\n")
	f.Add("7FF#DEADBEEF")
	f.Add("0#")
	f.Add("#")
	f.Add("1ab#0c")
	f.Add("FFFF#00")

	f.Fuzz(func(t *testing.T, line string) {
		d, err := ParseDirective(line)
		if err != nil {
			if !errors.Is(err, ErrInvalidDirective) {
				t.Errorf("ParseDirective(%q) error %v is not an invalid-directive error", line, err)
			}
			return
		}
		// Every accepted directive must survive its own corpus form.
		again, err := ParseDirective(d.Line())
		if err != nil {
			t.Fatalf("reparse of %q failed: %v", d.Line(), err)
		}
		if again != d {
			t.Errorf("round trip changed directive: %+v -> %+v", d, again)
		}
	})
}
