package qtff

import (
	"reflect"
	"testing"

	"ktkr.us/pkg/qtff/atomio"
)

func readBack(t *testing.T, s *atomio.MemStream) (uint64, FourCC) {
	t.Helper()
	s.SeekAbsolute(0)
	size, typ, err := readHeader(s)
	if err != nil {
		t.Fatal(err)
	}
	return size, typ
}

func TestMovieHeaderRoundTrip(t *testing.T) {
	h := MovieHeader{
		VersionFlags:     VersionFlags{Version: 0, Flags: 0},
		CreationTime:     1000,
		ModificationTime: 2000,
		TimeScale:        600,
		Duration:         12000,
		PreferredRate:    atomio.FixedQ16_16{Int: 1, Frac: 0},
		PreferredVolume:  atomio.FixedQ8_8{Int: 1, Frac: 0},
		Matrix:           IdentityMatrix,
		NextTrackID:      3,
	}
	s := atomio.NewMemStream(nil)
	if err := writeMovieHeader(s, h); err != nil {
		t.Fatal(err)
	}
	size, typ := readBack(t, s)
	if typ != typeMvhd {
		t.Fatalf("got type %s, want mvhd", typ)
	}
	got, err := readMovieHeader(s, size-headerSize(size), 0)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, h) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, h)
	}
}

func TestTrackHeaderRoundTrip(t *testing.T) {
	h := TrackHeader{
		VersionFlags: VersionFlags{Version: 0, Flags: 1},
		TrackID:      1,
		Duration:     500,
		Layer:        0,
		Volume:       atomio.FixedQ8_8{Int: 1, Frac: 0},
		Matrix:       IdentityMatrix,
		TrackWidth:   atomio.FixedQ16_16{Int: 640, Frac: 0},
		TrackHeight:  atomio.FixedQ16_16{Int: 480, Frac: 0},
	}
	s := atomio.NewMemStream(nil)
	if err := writeTrackHeader(s, h); err != nil {
		t.Fatal(err)
	}
	size, typ := readBack(t, s)
	if typ != typeTkhd {
		t.Fatalf("got type %s, want tkhd", typ)
	}
	got, err := readTrackHeader(s, size-headerSize(size), 0)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, h) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, h)
	}
}

func TestEditListRoundTrip(t *testing.T) {
	el := EditList{
		Entries: []EditListEntry{
			{TrackDuration: 100, MediaTime: 0, MediaRate: atomio.FixedQ16_16{Int: 1}},
			{TrackDuration: 200, MediaTime: 50, MediaRate: atomio.FixedQ16_16{Int: 1}},
		},
	}
	s := atomio.NewMemStream(nil)
	if err := writeEditList(s, el); err != nil {
		t.Fatal(err)
	}
	size, typ := readBack(t, s)
	if typ != typeElst {
		t.Fatalf("got type %s, want elst", typ)
	}
	got, err := readEditList(s, size-headerSize(size), 0)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, el) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, el)
	}
}

func TestEditListSizeAccountingRejectsTruncation(t *testing.T) {
	s := atomio.NewMemStream(nil)
	if err := atomio.WriteU8(s, 0); err != nil {
		t.Fatal(err)
	}
	if err := atomio.WriteU24(s, 0); err != nil {
		t.Fatal(err)
	}
	if err := atomio.WriteU32(s, 2); err != nil { // claims 2 entries
		t.Fatal(err)
	}
	s.SeekAbsolute(0)
	// body size only covers one entry's worth past the fixed prefix
	if _, err := readEditList(s, 8+editListEntrySize, 0); err == nil {
		t.Fatal("expected size mismatch to be rejected")
	}
}

func TestColorTableRoundTrip(t *testing.T) {
	ct := ColorTable{
		Seed:  0,
		Flags: 0x8000,
		Entries: []ColorTableEntry{
			{Alpha: 0, Red: 0xFFFF, Green: 0, Blue: 0},
			{Alpha: 0, Red: 0, Green: 0xFFFF, Blue: 0},
		},
	}
	s := atomio.NewMemStream(nil)
	if err := writeColorTable(s, ct); err != nil {
		t.Fatal(err)
	}
	size, typ := readBack(t, s)
	if typ != typeCtab {
		t.Fatalf("got type %s, want ctab", typ)
	}
	got, err := readColorTable(s, size-headerSize(size), 0)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, ct) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, ct)
	}
}

func TestSampleToChunkRoundTrip(t *testing.T) {
	stc := SampleToChunk{
		Entries: []SampleToChunkEntry{
			{FirstChunk: 1, SamplesPerChunk: 10, SampleDescriptionID: 1},
			{FirstChunk: 5, SamplesPerChunk: 20, SampleDescriptionID: 1},
		},
	}
	s := atomio.NewMemStream(nil)
	if err := writeSampleToChunk(s, stc); err != nil {
		t.Fatal(err)
	}
	size, typ := readBack(t, s)
	if typ != typeStsc {
		t.Fatalf("got type %s, want stsc", typ)
	}
	got, err := readSampleToChunk(s, size-headerSize(size), 0)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, stc) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, stc)
	}
}

func TestSampleSizeConstantRejectsTable(t *testing.T) {
	sz := SampleSize{SampleSize: 1024, NumberOfEntries: 5}
	s := atomio.NewMemStream(nil)
	if err := writeSampleSize(s, sz); err != nil {
		t.Fatal(err)
	}
	size, typ := readBack(t, s)
	if typ != typeStsz {
		t.Fatalf("got type %s, want stsz", typ)
	}
	got, err := readSampleSize(s, size-headerSize(size), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Entries) != 0 {
		t.Errorf("expected no per-sample entries when sample_size is set, got %d", len(got.Entries))
	}
	if got.SampleSize != 1024 {
		t.Errorf("got sample size %d, want 1024", got.SampleSize)
	}
}
