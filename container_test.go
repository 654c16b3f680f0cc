package qtff

import (
	"testing"

	"github.com/matryer/is"
	"ktkr.us/pkg/qtff/atomio"
)

func minimalMovieFile() *MovieFile {
	sampleTable := SampleTable{
		SampleDescription: SampleDescription{
			Entries: []SampleDescriptionEntry{{Raw: []byte("\x00\x00\x00\x10text\x00\x00\x00\x00\x00\x00\x00\x00")}},
		},
		TimeToSample: TimeToSample{
			Entries: []TimeToSampleEntry{{SampleCount: 10, SampleDuration: 100}},
		},
	}
	media := Media{
		MediaHeader: MediaHeader{TimeScale: 600, Duration: 1000},
		HandlerReference: &HandlerReference{
			ComponentType:    fourCC("mhlr"),
			ComponentSubtype: fourCC("text"),
			ComponentName:    []byte("Generic Handler"),
		},
		MediaInformation: &MediaInformation{
			Base: &BaseMediaInformation{
				Header: BaseMediaHeader{
					Generic: BaseMediaInfo{GraphicsMode: 0x40},
				},
				DataInformation: &DataInformation{
					DataReference: &DataReference{
						Entries: []DataReferenceEntry{{Type: fourCC("alis")}},
					},
				},
				SampleTable: sampleTable,
			},
		},
	}
	return &MovieFile{
		FileType: &FileType{
			MajorBrand:       fourCC("qt  "),
			MinorVersion:     0,
			CompatibleBrands: []FourCC{fourCC("qt  ")},
		},
		Movie: Movie{
			MovieHeader: MovieHeader{
				TimeScale:   600,
				Duration:    1000,
				NextTrackID: 2,
			},
			Tracks: []Track{
				{
					TrackHeader: TrackHeader{TrackID: 1, Duration: 1000},
					Media:       media,
				},
			},
		},
	}
}

func TestFileRoundTrip(t *testing.T) {
	is := is.New(t)
	mf := minimalMovieFile()

	s := atomio.NewMemStream(nil)
	is.NoErr(WriteFile(s, mf))

	s.SeekAbsolute(0)
	got, err := ReadFile(s)
	is.NoErr(err)

	is.Equal(got.FileType.MajorBrand, mf.FileType.MajorBrand)
	is.Equal(len(got.Movie.Tracks), 1)
	is.Equal(got.Movie.MovieHeader.NextTrackID, uint32(2))

	tr := got.Movie.Tracks[0]
	is.Equal(tr.TrackHeader.TrackID, uint32(1))
	is.True(tr.Media.MediaInformation.Base != nil)
	is.Equal(tr.Media.MediaInformation.Base.SampleTable.TimeToSample.Entries[0].SampleCount, uint32(10))
	is.Equal(tr.Media.HandlerReference.ComponentSubtype, fourCC("text"))
}

func TestFileMissingMoovRejected(t *testing.T) {
	is := is.New(t)
	s := atomio.NewMemStream(nil)
	ft := FileType{MajorBrand: fourCC("qt  "), CompatibleBrands: []FourCC{fourCC("qt  ")}}
	is.NoErr(writeFileType(s, ft))

	s.SeekAbsolute(0)
	_, err := ReadFile(s)
	is.True(err != nil)
	e, ok := AsError(err)
	is.True(ok)
	is.Equal(e.Kind, BadFormat)
}

func TestTrakMissingMdiaRejected(t *testing.T) {
	is := is.New(t)
	tkhd := atomio.NewMemStream(nil)
	is.NoErr(writeTrackHeader(tkhd, TrackHeader{TrackID: 1}))

	s := atomio.NewMemStream(nil)
	is.NoErr(writeHeader(s, sizeOfHeader(uint64(len(tkhd.Bytes()))), typeTrak))
	is.NoErr(s.Write(tkhd.Bytes()))

	s.SeekAbsolute(0)
	size, _, err := peekHeader(s)
	is.NoErr(err)
	_, err = readTrak(s, size)
	is.True(err != nil)
}

func TestMdiaHdlrBeforeMinfRequired(t *testing.T) {
	is := is.New(t)
	children := atomio.NewMemStream(nil)
	is.NoErr(writeMediaHeader(children, MediaHeader{TimeScale: 600}))
	is.NoErr(writeMediaInformation(children, MediaInformation{Base: &BaseMediaInformation{
		Header: BaseMediaHeader{Generic: BaseMediaInfo{}},
		DataInformation: &DataInformation{
			DataReference: &DataReference{Entries: []DataReferenceEntry{{Type: fourCC("alis")}}},
		},
		SampleTable: SampleTable{
			SampleDescription: SampleDescription{Entries: []SampleDescriptionEntry{{Raw: []byte("\x00\x00\x00\x08raw ")}}},
			TimeToSample:      TimeToSample{Entries: []TimeToSampleEntry{{SampleCount: 1, SampleDuration: 1}}},
		},
	}}))
	is.NoErr(writeHandlerReference(children, HandlerReference{ComponentSubtype: fourCC("text")}))

	s := atomio.NewMemStream(nil)
	is.NoErr(writeHeader(s, sizeOfHeader(uint64(len(children.Bytes()))), typeMdia))
	is.NoErr(s.Write(children.Bytes()))

	s.SeekAbsolute(0)
	size, _, err := peekHeader(s)
	is.NoErr(err)
	_, err = readMdia(s, size)
	is.True(err != nil)
	e, ok := AsError(err)
	is.True(ok)
	is.Equal(e.Kind, BadFormat)
}

func TestUnknownChildRoundTrip(t *testing.T) {
	is := is.New(t)
	mf := minimalMovieFile()
	mf.Movie.Unknown = []UnknownChild{
		{Type: fourCC("xxxx"), Body: []byte("hello world")},
	}

	s := atomio.NewMemStream(nil)
	is.NoErr(WriteFile(s, mf))

	s.SeekAbsolute(0)
	got, err := ReadFile(s)
	is.NoErr(err)

	is.Equal(len(got.Movie.Unknown), 1)
	is.Equal(got.Movie.Unknown[0].Type, fourCC("xxxx"))
	is.Equal(string(got.Movie.Unknown[0].Body), "hello world")
}

func TestLenientZeroSizeTopLevelMdat(t *testing.T) {
	is := is.New(t)
	mf := minimalMovieFile()

	s := atomio.NewMemStream(nil)
	is.NoErr(WriteFile(s, mf))

	// Append a size-0 mdat with a few trailing bytes, simulating a writer
	// that leaves the final atom's size unspecified.
	is.NoErr(atomio.WriteU32(s, 0))
	is.NoErr(s.Write([]byte("mdat")))
	is.NoErr(s.Write([]byte{0xAA, 0xBB, 0xCC}))

	s.SeekAbsolute(0)
	_, err := ReadFile(s)
	is.True(err != nil) // rejected without the option

	s.SeekAbsolute(0)
	got, err := ReadFile(s, WithLenientZeroSize())
	is.NoErr(err)
	is.True(len(got.MovieData) >= 1)
	last := got.MovieData[len(got.MovieData)-1]
	is.Equal(last.Data, []byte{0xAA, 0xBB, 0xCC})
}
