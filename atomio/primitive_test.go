package atomio

import (
	"errors"
	"testing"
)

func TestTwosComplementRoundTrip(t *testing.T) {
	cases := []struct {
		in   uint8
		want int8
	}{
		{0x00, 0},
		{0x01, 1},
		{0x7F, 127},
		{0x80, -128},
		{0xFF, -1},
		{0xFE, -2},
	}
	for _, c := range cases {
		s := NewMemStream(nil)
		if err := WriteI8(s, twosComplement8(c.in)); err != nil {
			t.Fatal(err)
		}
		if twosComplement8(c.in) != c.want {
			t.Errorf("twosComplement8(%#x) = %d, want %d", c.in, twosComplement8(c.in), c.want)
		}
		s.SeekAbsolute(0)
		got, err := ReadI8(s)
		if err != nil {
			t.Fatal(err)
		}
		if got != c.want || s.Bytes()[0] != c.in {
			t.Errorf("ReadI8 after WriteI8 = %d (byte %#x), want %d (byte %#x)", got, s.Bytes()[0], c.want, c.in)
		}
	}
}

func TestTwosComplement16(t *testing.T) {
	cases := []struct {
		in   uint16
		want int16
	}{
		{0x0000, 0},
		{0x7FFF, 32767},
		{0x8000, -32768},
		{0xFFFF, -1},
	}
	for _, c := range cases {
		if got := twosComplement16(c.in); got != c.want {
			t.Errorf("twosComplement16(%#x) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestTwosComplement32(t *testing.T) {
	cases := []struct {
		in   uint32
		want int32
	}{
		{0x00000000, 0},
		{0x7FFFFFFF, 2147483647},
		{0x80000000, -2147483648},
		{0xFFFFFFFF, -1},
	}
	for _, c := range cases {
		if got := twosComplement32(c.in); got != c.want {
			t.Errorf("twosComplement32(%#x) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestU32RoundTrip(t *testing.T) {
	s := NewMemStream(nil)
	if err := WriteU32(s, 0xDEADBEEF); err != nil {
		t.Fatal(err)
	}
	s.SeekAbsolute(0)
	got, err := ReadU32(s)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0xDEADBEEF {
		t.Errorf("got %#x, want %#x", got, 0xDEADBEEF)
	}
}

func TestU24RoundTrip(t *testing.T) {
	s := NewMemStream(nil)
	if err := WriteU24(s, 0x123456); err != nil {
		t.Fatal(err)
	}
	if len(s.Bytes()) != 3 {
		t.Fatalf("wrote %d bytes, want 3", len(s.Bytes()))
	}
	s.SeekAbsolute(0)
	got, err := ReadU24(s)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0x123456 {
		t.Errorf("got %#x, want %#x", got, 0x123456)
	}
}

func TestFixedQ8_8Float64(t *testing.T) {
	f := FixedQ8_8{Int: 1, Frac: 128}
	if got := f.Float64(); got != 1.5 {
		t.Errorf("got %v, want 1.5", got)
	}
}

func TestFixedQ16_16Float64(t *testing.T) {
	f := FixedQ16_16{Int: 2, Frac: 0x8000}
	if got := f.Float64(); got != 2.5 {
		t.Errorf("got %v, want 2.5", got)
	}
}

func TestShortReadReturnsErrEOF(t *testing.T) {
	s := NewMemStream([]byte{1, 2, 3})
	if _, err := s.Read(4); !errors.Is(err, ErrEOF) {
		t.Fatalf("got %v, want ErrEOF on short read", err)
	}
}
