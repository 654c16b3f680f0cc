package qtff

import (
	"ktkr.us/pkg/qtff/atomio"
)

func readMediaHeader(s atomio.Stream, bodySize uint64, offset int64) (MediaHeader, error) {
	if bodySize != mediaHeaderBodySize {
		return MediaHeader{}, badFormat(typeMdhd, offset, "mdhd body size %d, want %d", bodySize, mediaHeaderBodySize)
	}
	var h MediaHeader
	var err error
	if h.VersionFlags, err = readVersionFlags(s); err != nil {
		return MediaHeader{}, err
	}
	if h.CreationTime, err = atomio.ReadU32(s); err != nil {
		return MediaHeader{}, err
	}
	if h.ModificationTime, err = atomio.ReadU32(s); err != nil {
		return MediaHeader{}, err
	}
	if h.TimeScale, err = atomio.ReadU32(s); err != nil {
		return MediaHeader{}, err
	}
	if h.Duration, err = atomio.ReadU32(s); err != nil {
		return MediaHeader{}, err
	}
	if h.Language, err = atomio.ReadU16(s); err != nil {
		return MediaHeader{}, err
	}
	if h.Quality, err = atomio.ReadU16(s); err != nil {
		return MediaHeader{}, err
	}
	return h, nil
}

func readExtendedLanguageTag(s atomio.Stream, bodySize uint64, offset int64) (ExtendedLanguageTag, error) {
	if bodySize < 4 {
		return ExtendedLanguageTag{}, badFormat(typeElng, offset, "elng body size %d smaller than version/flags", bodySize)
	}
	vf, err := readVersionFlags(s)
	if err != nil {
		return ExtendedLanguageTag{}, err
	}
	raw, err := readBodyBytes(s, bodySize-4)
	if err != nil {
		return ExtendedLanguageTag{}, err
	}
	tag := raw
	for i, b := range raw {
		if b == 0 {
			tag = raw[:i]
			break
		}
	}
	return ExtendedLanguageTag{VersionFlags: vf, Tag: string(tag)}, nil
}

func readHandlerReference(s atomio.Stream, bodySize uint64, offset int64) (HandlerReference, error) {
	if bodySize < handlerReferenceFixedSize {
		return HandlerReference{}, badFormat(typeHdlr, offset, "hdlr body size %d smaller than fixed prefix", bodySize)
	}
	var h HandlerReference
	var err error
	if h.VersionFlags, err = readVersionFlags(s); err != nil {
		return HandlerReference{}, err
	}
	for _, cc := range []*FourCC{&h.ComponentType, &h.ComponentSubtype, &h.ComponentManufacturer} {
		b, err := s.Read(4)
		if err != nil {
			return HandlerReference{}, err
		}
		copy(cc[:], b)
	}
	if h.ComponentFlags, err = atomio.ReadU32(s); err != nil {
		return HandlerReference{}, err
	}
	if h.ComponentFlagsMask, err = atomio.ReadU32(s); err != nil {
		return HandlerReference{}, err
	}
	h.ComponentName, err = readBodyBytes(s, bodySize-handlerReferenceFixedSize)
	if err != nil {
		return HandlerReference{}, err
	}
	return h, nil
}

func readVideoMediaHeader(s atomio.Stream, bodySize uint64, offset int64) (VideoMediaHeader, error) {
	if bodySize != videoMediaHeaderBodySize {
		return VideoMediaHeader{}, badFormat(typeVmhd, offset, "vmhd body size %d, want %d", bodySize, videoMediaHeaderBodySize)
	}
	var h VideoMediaHeader
	var err error
	if h.VersionFlags, err = readVersionFlags(s); err != nil {
		return VideoMediaHeader{}, err
	}
	if h.GraphicsMode, err = atomio.ReadU16(s); err != nil {
		return VideoMediaHeader{}, err
	}
	for i := range h.OpColor {
		if h.OpColor[i], err = atomio.ReadU16(s); err != nil {
			return VideoMediaHeader{}, err
		}
	}
	return h, nil
}

func readSoundMediaHeader(s atomio.Stream, bodySize uint64, offset int64) (SoundMediaHeader, error) {
	if bodySize != soundMediaHeaderBodySize {
		return SoundMediaHeader{}, badFormat(typeSmhd, offset, "smhd body size %d, want %d", bodySize, soundMediaHeaderBodySize)
	}
	var h SoundMediaHeader
	var err error
	if h.VersionFlags, err = readVersionFlags(s); err != nil {
		return SoundMediaHeader{}, err
	}
	if h.Balance, err = atomio.ReadQ8_8(s); err != nil {
		return SoundMediaHeader{}, err
	}
	if h.Reserved, err = atomio.ReadU16(s); err != nil {
		return SoundMediaHeader{}, err
	}
	return h, nil
}

func readBaseMediaInfo(s atomio.Stream, bodySize uint64, offset int64) (BaseMediaInfo, error) {
	if bodySize != baseMediaInfoBodySize {
		return BaseMediaInfo{}, badFormat(typeGmin, offset, "gmin body size %d, want %d", bodySize, baseMediaInfoBodySize)
	}
	var g BaseMediaInfo
	var err error
	if g.VersionFlags, err = readVersionFlags(s); err != nil {
		return BaseMediaInfo{}, err
	}
	if g.GraphicsMode, err = atomio.ReadU16(s); err != nil {
		return BaseMediaInfo{}, err
	}
	for i := range g.OpColor {
		if g.OpColor[i], err = atomio.ReadU16(s); err != nil {
			return BaseMediaInfo{}, err
		}
	}
	bal, err := atomio.ReadI16(s)
	if err != nil {
		return BaseMediaInfo{}, err
	}
	g.Balance = bal
	if g.Reserved, err = atomio.ReadU16(s); err != nil {
		return BaseMediaInfo{}, err
	}
	return g, nil
}

func readBaseTextMediaInfo(s atomio.Stream, bodySize uint64, offset int64) (BaseTextMediaInfo, error) {
	if bodySize != baseTextMediaInfoBodySize {
		return BaseTextMediaInfo{}, badFormat(typeText, offset, "text body size %d, want %d", bodySize, baseTextMediaInfoBodySize)
	}
	m, err := readMatrix(s)
	if err != nil {
		return BaseTextMediaInfo{}, err
	}
	return BaseTextMediaInfo{Matrix: m}, nil
}

func readDataReferenceEntry(s atomio.Stream) (DataReferenceEntry, int64, error) {
	offset, _ := s.Tell()
	size, typ, err := readHeader(s)
	if err != nil {
		return DataReferenceEntry{}, offset, err
	}
	bodySize := size - headerSize(size)
	if bodySize < 4 {
		return DataReferenceEntry{}, offset, badFormat(typ, offset, "data reference entry body %d smaller than version/flags", bodySize)
	}
	vf, err := readVersionFlags(s)
	if err != nil {
		return DataReferenceEntry{}, offset, err
	}
	data, err := readBodyBytes(s, bodySize-4)
	if err != nil {
		return DataReferenceEntry{}, offset, err
	}
	return DataReferenceEntry{Type: typ, VersionFlags: vf, Data: data}, offset, nil
}

func readDataReference(s atomio.Stream, bodySize uint64, offset int64) (DataReference, error) {
	if bodySize < 8 {
		return DataReference{}, badFormat(typeDref, offset, "dref body size %d smaller than fixed prefix", bodySize)
	}
	vf, err := readVersionFlags(s)
	if err != nil {
		return DataReference{}, err
	}
	count, err := atomio.ReadU32(s)
	if err != nil {
		return DataReference{}, err
	}
	if count > maxDataRefEntries {
		return DataReference{}, outOfMemory(typeDref, offset, "%d dref entries exceeds limit %d", count, maxDataRefEntries)
	}
	consumed := uint64(8)
	entries := make([]DataReferenceEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		e, entryOffset, err := readDataReferenceEntry(s)
		if err != nil {
			return DataReference{}, err
		}
		consumed += e.size()
		if consumed > bodySize {
			return DataReference{}, badFormat(typeDref, entryOffset, "dref entries overrun declared body size %d", bodySize)
		}
		entries = append(entries, e)
	}
	if consumed != bodySize {
		return DataReference{}, badFormat(typeDref, offset, "dref body size %d inconsistent with %d entries", bodySize, count)
	}
	return DataReference{VersionFlags: vf, Entries: entries}, nil
}

func readSampleDescription(s atomio.Stream, bodySize uint64, offset int64) (SampleDescription, error) {
	if bodySize < 8 {
		return SampleDescription{}, badFormat(typeStsd, offset, "stsd body size %d smaller than fixed prefix", bodySize)
	}
	vf, err := readVersionFlags(s)
	if err != nil {
		return SampleDescription{}, err
	}
	count, err := atomio.ReadU32(s)
	if err != nil {
		return SampleDescription{}, err
	}
	if count > maxSampleDescEntries {
		return SampleDescription{}, outOfMemory(typeStsd, offset, "%d stsd entries exceeds limit %d", count, maxSampleDescEntries)
	}
	consumed := uint64(8)
	entries := make([]SampleDescriptionEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		entryOffset, _ := s.Tell()
		size, _, err := peekHeader(s)
		if err != nil {
			return SampleDescription{}, err
		}
		raw, err := s.Read(int(size))
		if err != nil {
			return SampleDescription{}, err
		}
		consumed += size
		if consumed > bodySize {
			return SampleDescription{}, badFormat(typeStsd, entryOffset, "stsd entries overrun declared body size %d", bodySize)
		}
		entries = append(entries, SampleDescriptionEntry{Raw: raw})
	}
	if consumed != bodySize {
		return SampleDescription{}, badFormat(typeStsd, offset, "stsd body size %d inconsistent with %d entries", bodySize, count)
	}
	return SampleDescription{VersionFlags: vf, Entries: entries}, nil
}

// readVersionedTable reads the version/flags + 32-bit entry count prefix
// shared by stts, ctts, stsc, stss, stps, stco, and sdtp, and validates
// that bodySize is exactly the fixed prefix plus count*stride (I3).
func readVersionedTable(s atomio.Stream, typ FourCC, offset int64, bodySize, stride uint64) (VersionFlags, uint32, error) {
	if bodySize < 8 {
		return VersionFlags{}, 0, badFormat(typ, offset, "%s body size %d smaller than fixed prefix", typ, bodySize)
	}
	vf, err := readVersionFlags(s)
	if err != nil {
		return VersionFlags{}, 0, err
	}
	count, err := atomio.ReadU32(s)
	if err != nil {
		return VersionFlags{}, 0, err
	}
	if want := 8 + uint64(count)*stride; want != bodySize {
		return VersionFlags{}, 0, badFormat(typ, offset, "%s body size %d inconsistent with %d entries", typ, bodySize, count)
	}
	if uint64(count) > maxTableEntries {
		return VersionFlags{}, 0, outOfMemory(typ, offset, "%d %s entries exceeds limit %d", count, typ, maxTableEntries)
	}
	return vf, count, nil
}

func readTimeToSample(s atomio.Stream, bodySize uint64, offset int64) (TimeToSample, error) {
	vf, count, err := readVersionedTable(s, typeStts, offset, bodySize, timeToSampleEntrySize)
	if err != nil {
		return TimeToSample{}, err
	}
	entries := make([]TimeToSampleEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		var e TimeToSampleEntry
		if e.SampleCount, err = atomio.ReadU32(s); err != nil {
			return TimeToSample{}, err
		}
		if e.SampleDuration, err = atomio.ReadU32(s); err != nil {
			return TimeToSample{}, err
		}
		entries = append(entries, e)
	}
	return TimeToSample{VersionFlags: vf, Entries: entries}, nil
}

func readCompositionOffset(s atomio.Stream, bodySize uint64, offset int64) (CompositionOffset, error) {
	vf, count, err := readVersionedTable(s, typeCtts, offset, bodySize, compositionOffsetEntrySize)
	if err != nil {
		return CompositionOffset{}, err
	}
	entries := make([]CompositionOffsetEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		var e CompositionOffsetEntry
		if e.SampleCount, err = atomio.ReadU32(s); err != nil {
			return CompositionOffset{}, err
		}
		if e.CompositionOffset, err = atomio.ReadI32(s); err != nil {
			return CompositionOffset{}, err
		}
		entries = append(entries, e)
	}
	return CompositionOffset{VersionFlags: vf, Entries: entries}, nil
}

func readCompositionShiftLeastGreatest(s atomio.Stream, bodySize uint64, offset int64) (CompositionShiftLeastGreatest, error) {
	if bodySize != compositionShiftLeastGreatestBodySize {
		return CompositionShiftLeastGreatest{}, badFormat(typeCslg, offset, "cslg body size %d, want %d", bodySize, compositionShiftLeastGreatestBodySize)
	}
	var c CompositionShiftLeastGreatest
	var err error
	if c.VersionFlags, err = readVersionFlags(s); err != nil {
		return CompositionShiftLeastGreatest{}, err
	}
	for _, p := range []*int32{
		&c.CompositionOffsetToDTSShift, &c.LeastDecodeToDisplayDelta,
		&c.GreatestDecodeToDisplayDelta, &c.CompositionStartTime, &c.CompositionEndTime,
	} {
		if *p, err = atomio.ReadI32(s); err != nil {
			return CompositionShiftLeastGreatest{}, err
		}
	}
	return c, nil
}

func readSampleNumberTable(s atomio.Stream, typ FourCC, bodySize uint64, offset int64) (VersionFlags, []uint32, error) {
	vf, count, err := readVersionedTable(s, typ, offset, bodySize, 4)
	if err != nil {
		return VersionFlags{}, nil, err
	}
	nums := make([]uint32, 0, count)
	for i := uint32(0); i < count; i++ {
		n, err := atomio.ReadU32(s)
		if err != nil {
			return VersionFlags{}, nil, err
		}
		nums = append(nums, n)
	}
	return vf, nums, nil
}

func readSyncSample(s atomio.Stream, bodySize uint64, offset int64) (SyncSample, error) {
	vf, nums, err := readSampleNumberTable(s, typeStss, bodySize, offset)
	if err != nil {
		return SyncSample{}, err
	}
	return SyncSample{VersionFlags: vf, SampleNumbers: nums}, nil
}

func readPartialSyncSample(s atomio.Stream, bodySize uint64, offset int64) (PartialSyncSample, error) {
	vf, nums, err := readSampleNumberTable(s, typeStps, bodySize, offset)
	if err != nil {
		return PartialSyncSample{}, err
	}
	return PartialSyncSample{VersionFlags: vf, SampleNumbers: nums}, nil
}

func readSampleToChunk(s atomio.Stream, bodySize uint64, offset int64) (SampleToChunk, error) {
	vf, count, err := readVersionedTable(s, typeStsc, offset, bodySize, sampleToChunkEntrySize)
	if err != nil {
		return SampleToChunk{}, err
	}
	entries := make([]SampleToChunkEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		var e SampleToChunkEntry
		if e.FirstChunk, err = atomio.ReadU32(s); err != nil {
			return SampleToChunk{}, err
		}
		if e.SamplesPerChunk, err = atomio.ReadU32(s); err != nil {
			return SampleToChunk{}, err
		}
		if e.SampleDescriptionID, err = atomio.ReadU32(s); err != nil {
			return SampleToChunk{}, err
		}
		entries = append(entries, e)
	}
	return SampleToChunk{VersionFlags: vf, Entries: entries}, nil
}

func readSampleSize(s atomio.Stream, bodySize uint64, offset int64) (SampleSize, error) {
	if bodySize < 12 {
		return SampleSize{}, badFormat(typeStsz, offset, "stsz body size %d smaller than fixed prefix", bodySize)
	}
	var sz SampleSize
	var err error
	if sz.VersionFlags, err = readVersionFlags(s); err != nil {
		return SampleSize{}, err
	}
	if sz.SampleSize, err = atomio.ReadU32(s); err != nil {
		return SampleSize{}, err
	}
	if sz.NumberOfEntries, err = atomio.ReadU32(s); err != nil {
		return SampleSize{}, err
	}
	if sz.SampleSize != 0 {
		if bodySize != 12 {
			return SampleSize{}, badFormat(typeStsz, offset, "stsz body size %d, want 12 when sample_size is set", bodySize)
		}
		return sz, nil
	}
	if want := uint64(12) + uint64(sz.NumberOfEntries)*4; want != bodySize {
		return SampleSize{}, badFormat(typeStsz, offset, "stsz body size %d inconsistent with %d entries", bodySize, sz.NumberOfEntries)
	}
	if uint64(sz.NumberOfEntries) > maxTableEntries {
		return SampleSize{}, outOfMemory(typeStsz, offset, "%d stsz entries exceeds limit %d", sz.NumberOfEntries, maxTableEntries)
	}
	sz.Entries = make([]uint32, 0, sz.NumberOfEntries)
	for i := uint32(0); i < sz.NumberOfEntries; i++ {
		v, err := atomio.ReadU32(s)
		if err != nil {
			return SampleSize{}, err
		}
		sz.Entries = append(sz.Entries, v)
	}
	return sz, nil
}

func readChunkOffset(s atomio.Stream, bodySize uint64, offset int64) (ChunkOffset, error) {
	vf, count, err := readVersionedTable(s, typeStco, offset, bodySize, 4)
	if err != nil {
		return ChunkOffset{}, err
	}
	entries := make([]uint32, 0, count)
	for i := uint32(0); i < count; i++ {
		v, err := atomio.ReadU32(s)
		if err != nil {
			return ChunkOffset{}, err
		}
		entries = append(entries, v)
	}
	return ChunkOffset{VersionFlags: vf, Entries: entries}, nil
}

func readSampleDependencyFlags(s atomio.Stream, bodySize uint64, offset int64) (SampleDependencyFlags, error) {
	vf, count, err := readVersionedTable(s, typeSdtp, offset, bodySize, 1)
	if err != nil {
		return SampleDependencyFlags{}, err
	}
	data, err := readBodyBytes(s, uint64(count))
	if err != nil {
		return SampleDependencyFlags{}, err
	}
	return SampleDependencyFlags{VersionFlags: vf, Entries: data}, nil
}
