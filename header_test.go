package qtff

import (
	"testing"

	"ktkr.us/pkg/qtff/atomio"
)

func TestHeaderShortRoundTrip(t *testing.T) {
	s := atomio.NewMemStream(nil)
	if err := writeHeader(s, 16, typeFree); err != nil {
		t.Fatal(err)
	}
	if got := len(s.Bytes()); got != 8 {
		t.Fatalf("wrote %d header bytes, want 8", got)
	}
	s.SeekAbsolute(0)
	size, typ, err := readHeader(s)
	if err != nil {
		t.Fatal(err)
	}
	if size != 16 || typ != typeFree {
		t.Errorf("got (%d, %s), want (16, free)", size, typ)
	}
}

func TestHeaderExtendedRoundTrip(t *testing.T) {
	const big = uint64(1) << 33
	s := atomio.NewMemStream(nil)
	if err := writeHeader(s, big, typeMdat); err != nil {
		t.Fatal(err)
	}
	if got := len(s.Bytes()); got != 16 {
		t.Fatalf("wrote %d header bytes, want 16", got)
	}
	s.SeekAbsolute(0)
	size, typ, err := readHeader(s)
	if err != nil {
		t.Fatal(err)
	}
	if size != big || typ != typeMdat {
		t.Errorf("got (%d, %s), want (%d, mdat)", size, typ, big)
	}
}

func TestHeaderZeroSizeRejected(t *testing.T) {
	s := atomio.NewMemStream(nil)
	atomio.WriteU32(s, 0)
	s.Write([]byte("mdat"))
	s.SeekAbsolute(0)
	_, _, err := readHeader(s)
	if err == nil {
		t.Fatal("expected size-0 to be rejected")
	}
	e, ok := AsError(err)
	if !ok || e.Kind != BadFormat {
		t.Fatalf("got %v, want a BadFormat *Error", err)
	}
}

func TestHeaderZeroSizeLenient(t *testing.T) {
	s := atomio.NewMemStream(nil)
	atomio.WriteU32(s, 0)
	s.Write([]byte("mdat"))
	s.Write([]byte{1, 2, 3, 4, 5})
	s.SeekAbsolute(0)
	size, typ, err := readHeaderLenient(s)
	if err != nil {
		t.Fatal(err)
	}
	if typ != typeMdat {
		t.Errorf("got type %s, want mdat", typ)
	}
	if want := uint64(8 + 5); size != want {
		t.Errorf("got size %d, want %d", size, want)
	}
}

func TestPeekHeaderRestoresPosition(t *testing.T) {
	s := atomio.NewMemStream(nil)
	writeHeader(s, 8, typeFree)
	s.SeekAbsolute(0)
	if _, _, err := peekHeader(s); err != nil {
		t.Fatal(err)
	}
	pos, _ := s.Tell()
	if pos != 0 {
		t.Errorf("peekHeader left position at %d, want 0", pos)
	}
}

func TestHeaderShortTooSmall(t *testing.T) {
	s := atomio.NewMemStream(nil)
	atomio.WriteU32(s, 4)
	s.Write([]byte("free"))
	s.SeekAbsolute(0)
	if _, _, err := readHeader(s); err == nil {
		t.Fatal("expected rejection of size smaller than short header")
	}
}
