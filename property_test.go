package qtff

import (
	"testing"
	"testing/quick"

	"ktkr.us/pkg/qtff/atomio"
)

// P4: every integer width round-trips through big-endian encode/decode
// regardless of host byte order, since the codec never depends on host
// representation — it always shifts/masks explicitly.
func TestPropertyEndiannessU32(t *testing.T) {
	f := func(v uint32) bool {
		s := atomio.NewMemStream(nil)
		if err := atomio.WriteU32(s, v); err != nil {
			return false
		}
		s.SeekAbsolute(0)
		got, err := atomio.ReadU32(s)
		return err == nil && got == v
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestPropertyEndiannessU24(t *testing.T) {
	f := func(v24 uint32) bool {
		v := v24 & 0xFFFFFF
		s := atomio.NewMemStream(nil)
		if err := atomio.WriteU24(s, v); err != nil {
			return false
		}
		s.SeekAbsolute(0)
		got, err := atomio.ReadU24(s)
		return err == nil && got == v
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestPropertyEndiannessU16(t *testing.T) {
	f := func(v uint16) bool {
		s := atomio.NewMemStream(nil)
		if err := atomio.WriteU16(s, v); err != nil {
			return false
		}
		s.SeekAbsolute(0)
		got, err := atomio.ReadU16(s)
		return err == nil && got == v
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

// P5: signed fields round-trip via explicit two's-complement, independent
// of host negative-integer representation.
func TestPropertySignedI32(t *testing.T) {
	f := func(v int32) bool {
		s := atomio.NewMemStream(nil)
		if err := atomio.WriteI32(s, v); err != nil {
			return false
		}
		s.SeekAbsolute(0)
		got, err := atomio.ReadI32(s)
		return err == nil && got == v
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestPropertySignedI16(t *testing.T) {
	f := func(v int16) bool {
		s := atomio.NewMemStream(nil)
		if err := atomio.WriteI16(s, v); err != nil {
			return false
		}
		s.SeekAbsolute(0)
		got, err := atomio.ReadI16(s)
		return err == nil && got == v
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestPropertySignedI8(t *testing.T) {
	f := func(v int8) bool {
		s := atomio.NewMemStream(nil)
		if err := atomio.WriteI8(s, v); err != nil {
			return false
		}
		s.SeekAbsolute(0)
		got, err := atomio.ReadI8(s)
		return err == nil && got == v
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

// P2: size_of(a) == length(write(a)) for a representative spread of leaf
// and container atoms.
func TestPropertySizeAgreement(t *testing.T) {
	check := func(name string, want uint64, write func(s atomio.Stream) error) {
		t.Helper()
		s := atomio.NewMemStream(nil)
		if err := write(s); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if got := uint64(len(s.Bytes())); got != want {
			t.Errorf("%s: size() reported %d, write produced %d bytes", name, want, got)
		}
	}

	mh := MovieHeader{Matrix: IdentityMatrix, NextTrackID: 1}
	check("mvhd", mh.size(), func(s atomio.Stream) error { return writeMovieHeader(s, mh) })

	th := TrackHeader{TrackID: 1, Matrix: IdentityMatrix}
	check("tkhd", th.size(), func(s atomio.Stream) error { return writeTrackHeader(s, th) })

	el := EditList{Entries: []EditListEntry{{TrackDuration: 1, MediaTime: 0, MediaRate: atomio.FixedQ16_16{Int: 1}}}}
	check("elst", el.size(), func(s atomio.Stream) error { return writeEditList(s, el) })

	ct := ColorTable{Entries: []ColorTableEntry{{Red: 1}, {Green: 1}}}
	check("ctab", ct.size(), func(s atomio.Stream) error { return writeColorTable(s, ct) })

	stc := SampleToChunk{Entries: []SampleToChunkEntry{{FirstChunk: 1, SamplesPerChunk: 1, SampleDescriptionID: 1}}}
	check("stsc", stc.size(), func(s atomio.Stream) error { return writeSampleToChunk(s, stc) })

	sz := SampleSize{Entries: []uint32{10, 20, 30}}
	check("stsz", sz.size(), func(s atomio.Stream) error { return writeSampleSize(s, sz) })
}

// P3: size_of(container) == header size + sum of children's size_of.
func TestPropertySizeAccountingContainers(t *testing.T) {
	tapt := TrackApertureModeDimensions{
		CleanAperture: &ApertureDimensions{Width: atomio.FixedQ16_16{Int: 640}, Height: atomio.FixedQ16_16{Int: 480}},
	}
	var sum uint64
	if tapt.CleanAperture != nil {
		sum += tapt.CleanAperture.size()
	}
	if tapt.ProductionAperture != nil {
		sum += tapt.ProductionAperture.size()
	}
	if tapt.EncodedPixels != nil {
		sum += tapt.EncodedPixels.size()
	}
	if want := sizeOfHeader(sum); want != tapt.size() {
		t.Errorf("tapt.size() = %d, want header(%d)+children = %d", tapt.size(), sum, want)
	}

	s := atomio.NewMemStream(nil)
	if err := writeTapt(s, tapt); err != nil {
		t.Fatal(err)
	}
	if got := uint64(len(s.Bytes())); got != tapt.size() {
		t.Errorf("tapt wrote %d bytes, size() reported %d", got, tapt.size())
	}
}

// P8: a declared count exceeding its capacity bound yields OutOfMemory
// without attempting to allocate the oversize structure.
func TestPropertyBoundsEnforcement(t *testing.T) {
	s := atomio.NewMemStream(nil)
	atomio.WriteU8(s, 0)
	atomio.WriteU24(s, 0)
	atomio.WriteU32(s, maxTableEntries+1)
	s.SeekAbsolute(0)

	_, err := readSampleToChunk(s, 8+uint64(maxTableEntries+1)*sampleToChunkEntrySize, 0)
	if err == nil {
		t.Fatal("expected OutOfMemory for an over-limit declared count")
	}
	e, ok := AsError(err)
	if !ok || e.Kind != OutOfMemory {
		t.Fatalf("got %v, want OutOfMemory", err)
	}
}

// P9: an unrecognized child inside a container is skipped/preserved and
// the parent's declared size is still fully accounted for.
func TestPropertySkipSemantics(t *testing.T) {
	mf := minimalMovieFile()
	mf.Movie.Tracks[0].Unknown = []UnknownChild{
		{Type: fourCC("jnk1"), Body: []byte{1, 2, 3, 4}},
	}

	s := atomio.NewMemStream(nil)
	if err := WriteFile(s, mf); err != nil {
		t.Fatal(err)
	}
	s.SeekAbsolute(0)
	got, err := ReadFile(s)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Movie.Tracks[0].Unknown) != 1 {
		t.Fatalf("expected 1 preserved unknown child, got %d", len(got.Movie.Tracks[0].Unknown))
	}
	if string(got.Movie.Tracks[0].Unknown[0].Body) != "\x01\x02\x03\x04" {
		t.Errorf("unknown child body mismatch: %v", got.Movie.Tracks[0].Unknown[0].Body)
	}
}

// P10: after a successful ReadFile, the stream position equals the total
// length of the input.
func TestPropertyPositionOnSuccess(t *testing.T) {
	mf := minimalMovieFile()
	s := atomio.NewMemStream(nil)
	if err := WriteFile(s, mf); err != nil {
		t.Fatal(err)
	}
	total := len(s.Bytes())

	s.SeekAbsolute(0)
	if _, err := ReadFile(s); err != nil {
		t.Fatal(err)
	}
	pos, err := s.Tell()
	if err != nil {
		t.Fatal(err)
	}
	if pos != int64(total) {
		t.Errorf("stream position after ReadFile = %d, want %d (file length)", pos, total)
	}
}
