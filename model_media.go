package qtff

import "ktkr.us/pkg/qtff/atomio"

// Media is the `mdia` atom.
type Media struct {
	MediaHeader         MediaHeader
	ExtendedLanguageTag *ExtendedLanguageTag
	HandlerReference    *HandlerReference
	UserData            *UserData
	MediaInformation    *MediaInformation
	Unknown             []UnknownChild
}

// MediaHeader is the `mdhd` atom.
type MediaHeader struct {
	VersionFlags
	CreationTime     uint32
	ModificationTime uint32
	TimeScale        uint32
	Duration         uint32
	Language         uint16 // packed ISO-639-2/T, not decoded by the core
	Quality          uint16
}

const mediaHeaderBodySize = 4 + 4 + 4 + 4 + 4 + 2 + 2

// ExtendedLanguageTag is the `elng` atom: a null-terminated ASCII tag
// filling the remainder of the atom (spec §4.E).
type ExtendedLanguageTag struct {
	VersionFlags
	Tag string
}

// HandlerReference is the `hdlr` atom. ComponentSubtype selects the
// MediaInformation variant (spec §3).
type HandlerReference struct {
	VersionFlags
	ComponentType         FourCC
	ComponentSubtype      FourCC
	ComponentManufacturer FourCC
	ComponentFlags        uint32
	ComponentFlagsMask    uint32
	ComponentName         []byte
}

const handlerReferenceFixedSize = 4 + 4 + 4 + 4 + 4 + 4

// MediaInformation is the `minf` atom: a tagged union over exactly one of
// Video, Sound, or Base, chosen by the enclosing Media's HandlerReference
// component-subtype (spec §3, §9: "Union-by-tag atoms").
type MediaInformation struct {
	Video *VideoMediaInformation
	Sound *SoundMediaInformation
	Base  *BaseMediaInformation
}

// VideoMediaInformation is `minf` when the handler's component-subtype is
// `vide`.
type VideoMediaInformation struct {
	Header          VideoMediaHeader // vmhd
	DataInformation *DataInformation // dinf
	SampleTable     SampleTable      // stbl
	UserData        *UserData
	Unknown         []UnknownChild
}

// VideoMediaHeader is the `vmhd` atom.
type VideoMediaHeader struct {
	VersionFlags
	GraphicsMode uint16
	OpColor      [3]uint16
}

const videoMediaHeaderBodySize = 4 + 2 + 6

// SoundMediaInformation is `minf` when the handler's component-subtype is
// `soun`.
type SoundMediaInformation struct {
	Header          SoundMediaHeader // smhd
	DataInformation *DataInformation // dinf
	SampleTable     SampleTable      // stbl
	UserData        *UserData
	Unknown         []UnknownChild
}

// SoundMediaHeader is the `smhd` atom.
type SoundMediaHeader struct {
	VersionFlags
	Balance  atomio.FixedQ8_8
	Reserved uint16
}

const soundMediaHeaderBodySize = 4 + 2 + 2

// BaseMediaInformation is `minf` for any other (base) handler subtype.
type BaseMediaInformation struct {
	Header          BaseMediaHeader // gmhd (gmin [+ text])
	DataInformation *DataInformation
	SampleTable     SampleTable
	UserData        *UserData
	Unknown         []UnknownChild
}

// BaseMediaHeader is the `gmhd` atom: a container for `gmin` and an
// optional `text` atom.
type BaseMediaHeader struct {
	Generic BaseMediaInfo // gmin
	Text    *BaseTextMediaInfo
}

// BaseMediaInfo is the `gmin` atom.
type BaseMediaInfo struct {
	VersionFlags
	GraphicsMode uint16
	OpColor      [3]uint16
	Balance      int16
	Reserved     uint16
}

const baseMediaInfoBodySize = 4 + 2 + 6 + 2 + 2

// BaseTextMediaInfo is the `text` atom found in a base `gmhd`: the 3x3
// display matrix for text tracks.
type BaseTextMediaInfo struct {
	Matrix Matrix3x3
}

const baseTextMediaInfoBodySize = matrixSize

// DataInformation is the `dinf` atom.
type DataInformation struct {
	DataReference *DataReference // dref
}

// DataReferenceEntry is one entry in a `dref` atom — an opaque,
// self-describing reference record (`url `, `urn `, `alis`, ...); the core
// does not interpret its payload.
type DataReferenceEntry struct {
	Type FourCC
	VersionFlags
	Data []byte
}

func (e DataReferenceEntry) bodySize() uint64 {
	return 4 + uint64(len(e.Data))
}

func (e DataReferenceEntry) size() uint64 {
	return sizeOfHeader(e.bodySize())
}

// DataReference is the `dref` atom.
type DataReference struct {
	VersionFlags
	Entries []DataReferenceEntry
}

// SampleTable is the `stbl` atom (spec §3).
type SampleTable struct {
	SampleDescription             SampleDescription
	TimeToSample                  TimeToSample
	CompositionOffset             *CompositionOffset
	CompositionShiftLeastGreatest *CompositionShiftLeastGreatest
	SyncSample                    *SyncSample
	PartialSyncSample             *PartialSyncSample
	SampleToChunk                 *SampleToChunk
	SampleSize                    *SampleSize
	ChunkOffset                   *ChunkOffset
	SampleDependencyFlags         *SampleDependencyFlags
	Unknown                       []UnknownChild
}

// SampleDescriptionEntry is one opaque sample description table entry in
// an `stsd` atom, preserved as its full raw atom bytes (header + body):
// decoding codec-specific configuration is out of the core's scope
// (spec §1).
type SampleDescriptionEntry struct {
	Raw []byte
}

// SampleDescription is the `stsd` atom.
type SampleDescription struct {
	VersionFlags
	Entries []SampleDescriptionEntry
}

// TimeToSampleEntry is one record in an `stts` atom.
type TimeToSampleEntry struct {
	SampleCount    uint32
	SampleDuration uint32
}

const timeToSampleEntrySize = 8

// TimeToSample is the `stts` atom.
type TimeToSample struct {
	VersionFlags
	Entries []TimeToSampleEntry
}

// CompositionOffsetEntry is one record in a `ctts` atom.
type CompositionOffsetEntry struct {
	SampleCount       uint32
	CompositionOffset int32
}

const compositionOffsetEntrySize = 8

// CompositionOffset is the `ctts` atom.
type CompositionOffset struct {
	VersionFlags
	Entries []CompositionOffsetEntry
}

// CompositionShiftLeastGreatest is the `cslg` atom.
type CompositionShiftLeastGreatest struct {
	VersionFlags
	CompositionOffsetToDTSShift  int32
	LeastDecodeToDisplayDelta    int32
	GreatestDecodeToDisplayDelta int32
	CompositionStartTime         int32
	CompositionEndTime           int32
}

const compositionShiftLeastGreatestBodySize = 4 + 4*5

// SyncSample is the `stss` atom: sample numbers of key frames.
type SyncSample struct {
	VersionFlags
	SampleNumbers []uint32
}

// PartialSyncSample is the `stps` atom: sample numbers of partial sync
// samples.
type PartialSyncSample struct {
	VersionFlags
	SampleNumbers []uint32
}

// SampleToChunkEntry is one record in an `stsc` atom.
type SampleToChunkEntry struct {
	FirstChunk          uint32
	SamplesPerChunk     uint32
	SampleDescriptionID uint32
}

const sampleToChunkEntrySize = 12

// SampleToChunk is the `stsc` atom.
type SampleToChunk struct {
	VersionFlags
	Entries []SampleToChunkEntry
}

// SampleSize is the `stsz` atom. When SampleSize is nonzero every sample
// shares that size and Entries is empty (spec §4.E).
type SampleSize struct {
	VersionFlags
	SampleSize      uint32
	NumberOfEntries uint32
	Entries         []uint32
}

// ChunkOffset is the `stco` atom.
type ChunkOffset struct {
	VersionFlags
	Entries []uint32
}

// SampleDependencyFlags is the `sdtp` atom: one flags byte per sample.
type SampleDependencyFlags struct {
	VersionFlags
	Entries []byte
}
