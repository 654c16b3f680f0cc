package qtff

import "ktkr.us/pkg/qtff/atomio"

// UnknownChild preserves an unrecognized atom verbatim — type plus full
// body bytes — so that a tree built from input containing tags outside
// the registry (spec §4.D) can still round-trip losslessly, per the Open
// Question decision recorded in SPEC_FULL.md.
type UnknownChild struct {
	Type FourCC
	Body []byte
}

func (u UnknownChild) size() uint64 {
	return sizeOfHeader(uint64(len(u.Body)))
}

// MovieFile is the root of the in-memory tree: the result of read_file and
// the input to write_file (spec §3, §4.G).
type MovieFile struct {
	FileType  *FileType
	Movie     Movie
	MovieData []MovieData
	Free      []Free
	Skip      []Skip
	Wide      []Wide
	Preview   *Preview
	Unknown   []UnknownChild
}

// FileType is the `ftyp` atom: major brand, minor version, and a list of
// compatible brands.
type FileType struct {
	MajorBrand       FourCC
	MinorVersion     uint32
	CompatibleBrands []FourCC
}

// MovieData is an `mdat` atom. Its payload is opaque sample data, passed
// through untouched (spec §1, Non-goals).
type MovieData struct {
	Data []byte
}

// Free is a `free` padding atom; its body bytes are preserved verbatim.
type Free struct{ Data []byte }

// Skip is a `skip` padding atom; its body bytes are preserved verbatim.
type Skip struct{ Data []byte }

// Wide is a `wide` padding atom; its body bytes are preserved verbatim.
type Wide struct{ Data []byte }

// Preview is the `pnot` atom: a pointer at a "poster frame" atom elsewhere
// in the file, used by old QuickTime players to show a thumbnail.
type Preview struct {
	ModificationTime uint32
	Version          uint16
	AtomType         FourCC
	AtomIndex        uint16
}

const previewBodySize = 4 + 2 + 4 + 2

// Movie is the `moov` atom.
type Movie struct {
	MovieHeader MovieHeader
	Tracks      []Track
	Clipping    *Clipping
	ColorTable  *ColorTable
	UserData    *UserData
	Unknown     []UnknownChild
}

// MovieHeader is the `mvhd` atom (spec §4.E). Body size is fixed at 100.
type MovieHeader struct {
	VersionFlags
	CreationTime     uint32
	ModificationTime uint32
	TimeScale        uint32
	Duration         uint32
	PreferredRate    atomio.FixedQ16_16
	PreferredVolume  atomio.FixedQ8_8
	Matrix           Matrix3x3

	PreviewTime       uint32
	PreviewDuration   uint32
	PosterTime        uint32
	SelectionTime     uint32
	SelectionDuration uint32
	CurrentTime       uint32
	NextTrackID       uint32
}

const movieHeaderBodySize = 100

// Track is the `trak` atom.
type Track struct {
	TrackHeader                   TrackHeader
	Media                         Media
	TrackApertureModeDimensions   *TrackApertureModeDimensions
	Clipping                      *Clipping
	TrackMatte                    *TrackMatte
	Edit                          *Edit
	TrackReference                *TrackReference
	TrackExcludeFromAutoselection *TrackExcludeFromAutoselection
	TrackLoadSettings             *TrackLoadSettings
	TrackInputMap                 *TrackInputMap
	UserData                      *UserData
	Unknown                       []UnknownChild
}

// TrackHeader is the `tkhd` atom (spec §4.E). Body size is fixed at 84.
type TrackHeader struct {
	VersionFlags
	CreationTime     uint32
	ModificationTime uint32
	TrackID          uint32
	Duration         uint32
	Layer            uint16
	AlternateGroup   uint16
	Volume           atomio.FixedQ8_8
	Matrix           Matrix3x3
	TrackWidth       atomio.FixedQ16_16
	TrackHeight      atomio.FixedQ16_16
}

const trackHeaderBodySize = 84

// ApertureDimensions is the shared layout of the `clef`, `prof`, and `enof`
// atoms under `tapt`: a version/flags full-box header followed by a
// Q16.16 width and height.
type ApertureDimensions struct {
	VersionFlags
	Width  atomio.FixedQ16_16
	Height atomio.FixedQ16_16
}

const apertureDimensionsBodySize = 4 + 4 + 4

// TrackApertureModeDimensions is the `tapt` atom.
type TrackApertureModeDimensions struct {
	CleanAperture      *ApertureDimensions // clef
	ProductionAperture *ApertureDimensions // prof
	EncodedPixels      *ApertureDimensions // enof
}

// Clipping is the `clip` atom: a container for a single clipping region.
type Clipping struct {
	Region *ClippingRegion // crgn
}

// ClippingRegion is the `crgn` atom: a single QuickDraw region.
type ClippingRegion struct {
	Region Region
}

// TrackMatte is the `matt` atom: a container for a single compressed
// matte.
type TrackMatte struct {
	CompressedMatte *CompressedMatte // kmat
}

// CompressedMatte is the `kmat` atom. The matte's sample description and
// image data are opaque, following the core's treatment of sample data in
// general (spec §1).
type CompressedMatte struct {
	VersionFlags
	Data []byte
}

// Edit is the `edts` atom: a container for a single edit list.
type Edit struct {
	EditList *EditList // elst
}

// EditListEntry is one 12-byte record in an `elst` atom (spec §4.E).
type EditListEntry struct {
	TrackDuration uint32
	MediaTime     uint32
	MediaRate     atomio.FixedQ16_16
}

const editListEntrySize = 12

// EditList is the `elst` atom.
type EditList struct {
	VersionFlags
	Entries []EditListEntry
}

// TrackReferenceEntry is one typed reference list inside a `tref` atom —
// a 4CC naming the reference kind (`chap`, `hint`, `cdsc`, ...) and the
// track IDs it refers to.
type TrackReferenceEntry struct {
	Type     FourCC
	TrackIDs []uint32
}

func (e TrackReferenceEntry) bodySize() uint64 {
	return uint64(4 * len(e.TrackIDs))
}

func (e TrackReferenceEntry) size() uint64 {
	return sizeOfHeader(e.bodySize())
}

// TrackReference is the `tref` atom.
type TrackReference struct {
	References []TrackReferenceEntry
}

// TrackExcludeFromAutoselection is the `txas` marker atom: its presence
// means the track should not be auto-selected. It carries no interpreted
// fields; any body bytes present are preserved verbatim.
type TrackExcludeFromAutoselection struct {
	Data []byte
}

// TrackLoadSettings is the `load` atom, not a full-box.
type TrackLoadSettings struct {
	PreloadStartTime uint32
	PreloadDuration  uint32
	PreloadFlags     uint32
	DefaultHints     uint32
}

const trackLoadSettingsBodySize = 16

// InputMapEntry is one `\0\0in` entry inside a `imap` atom: an input type
// (from its `\0\0ty` child) and an object ID (from its `obid` child).
type InputMapEntry struct {
	Type     FourCC
	ObjectID uint32
}

// TrackInputMap is the `imap` atom.
type TrackInputMap struct {
	Entries []InputMapEntry
}

// UserDataItem is one entry inside a `udta` atom. Unlike the rest of the
// tree, `udta` items are not restricted to one-per-type: the same 4CC may
// legitimately repeat (e.g. multiple `©cmt` comments), so items are kept
// as an ordered list rather than a map.
type UserDataItem struct {
	Type FourCC
	Data []byte
}

func (u UserDataItem) size() uint64 {
	return sizeOfHeader(uint64(len(u.Data)))
}

// UserData is the `udta` atom.
type UserData struct {
	Items []UserDataItem
}

// ColorTableEntry is one RGB(A) quadruple in a `ctab` atom.
type ColorTableEntry struct {
	Alpha, Red, Green, Blue uint16
}

const colorTableEntrySize = 8

// ColorTable is the `ctab` atom (spec §4.E).
type ColorTable struct {
	Seed    uint32
	Flags   uint16
	Entries []ColorTableEntry
}
