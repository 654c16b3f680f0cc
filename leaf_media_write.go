package qtff

import (
	"ktkr.us/pkg/qtff/atomio"
)

func (h MediaHeader) size() uint64 { return sizeOfHeader(mediaHeaderBodySize) }

func writeMediaHeader(s atomio.Stream, h MediaHeader) error {
	if err := writeHeader(s, h.size(), typeMdhd); err != nil {
		return err
	}
	if err := writeVersionFlags(s, h.VersionFlags); err != nil {
		return err
	}
	if err := atomio.WriteU32(s, h.CreationTime); err != nil {
		return err
	}
	if err := atomio.WriteU32(s, h.ModificationTime); err != nil {
		return err
	}
	if err := atomio.WriteU32(s, h.TimeScale); err != nil {
		return err
	}
	if err := atomio.WriteU32(s, h.Duration); err != nil {
		return err
	}
	if err := atomio.WriteU16(s, h.Language); err != nil {
		return err
	}
	return atomio.WriteU16(s, h.Quality)
}

func (e ExtendedLanguageTag) bodySize() uint64 { return 4 + uint64(len(e.Tag)) + 1 }
func (e ExtendedLanguageTag) size() uint64     { return sizeOfHeader(e.bodySize()) }

func writeExtendedLanguageTag(s atomio.Stream, e ExtendedLanguageTag) error {
	if err := writeHeader(s, e.size(), typeElng); err != nil {
		return err
	}
	if err := writeVersionFlags(s, e.VersionFlags); err != nil {
		return err
	}
	if err := s.Write([]byte(e.Tag)); err != nil {
		return err
	}
	return s.Write([]byte{0})
}

func (h HandlerReference) bodySize() uint64 {
	return handlerReferenceFixedSize + uint64(len(h.ComponentName))
}
func (h HandlerReference) size() uint64 { return sizeOfHeader(h.bodySize()) }

func writeHandlerReference(s atomio.Stream, h HandlerReference) error {
	if err := writeHeader(s, h.size(), typeHdlr); err != nil {
		return err
	}
	if err := writeVersionFlags(s, h.VersionFlags); err != nil {
		return err
	}
	for _, cc := range []FourCC{h.ComponentType, h.ComponentSubtype, h.ComponentManufacturer} {
		if err := s.Write(cc[:]); err != nil {
			return err
		}
	}
	if err := atomio.WriteU32(s, h.ComponentFlags); err != nil {
		return err
	}
	if err := atomio.WriteU32(s, h.ComponentFlagsMask); err != nil {
		return err
	}
	return s.Write(h.ComponentName)
}

func (h VideoMediaHeader) size() uint64 { return sizeOfHeader(videoMediaHeaderBodySize) }

func writeVideoMediaHeader(s atomio.Stream, h VideoMediaHeader) error {
	if err := writeHeader(s, h.size(), typeVmhd); err != nil {
		return err
	}
	if err := writeVersionFlags(s, h.VersionFlags); err != nil {
		return err
	}
	if err := atomio.WriteU16(s, h.GraphicsMode); err != nil {
		return err
	}
	for _, v := range h.OpColor {
		if err := atomio.WriteU16(s, v); err != nil {
			return err
		}
	}
	return nil
}

func (h SoundMediaHeader) size() uint64 { return sizeOfHeader(soundMediaHeaderBodySize) }

func writeSoundMediaHeader(s atomio.Stream, h SoundMediaHeader) error {
	if err := writeHeader(s, h.size(), typeSmhd); err != nil {
		return err
	}
	if err := writeVersionFlags(s, h.VersionFlags); err != nil {
		return err
	}
	if err := atomio.WriteQ8_8(s, h.Balance); err != nil {
		return err
	}
	return atomio.WriteU16(s, h.Reserved)
}

func (g BaseMediaInfo) size() uint64 { return sizeOfHeader(baseMediaInfoBodySize) }

func writeBaseMediaInfo(s atomio.Stream, g BaseMediaInfo) error {
	if err := writeHeader(s, g.size(), typeGmin); err != nil {
		return err
	}
	if err := writeVersionFlags(s, g.VersionFlags); err != nil {
		return err
	}
	if err := atomio.WriteU16(s, g.GraphicsMode); err != nil {
		return err
	}
	for _, v := range g.OpColor {
		if err := atomio.WriteU16(s, v); err != nil {
			return err
		}
	}
	if err := atomio.WriteI16(s, g.Balance); err != nil {
		return err
	}
	return atomio.WriteU16(s, g.Reserved)
}

func (t BaseTextMediaInfo) size() uint64 { return sizeOfHeader(baseTextMediaInfoBodySize) }

func writeBaseTextMediaInfo(s atomio.Stream, t BaseTextMediaInfo) error {
	if err := writeHeader(s, t.size(), typeText); err != nil {
		return err
	}
	return writeMatrix(s, t.Matrix)
}

func writeDataReferenceEntry(s atomio.Stream, e DataReferenceEntry) error {
	if err := writeHeader(s, e.size(), e.Type); err != nil {
		return err
	}
	if err := writeVersionFlags(s, e.VersionFlags); err != nil {
		return err
	}
	return s.Write(e.Data)
}

func (d DataReference) bodySize() uint64 {
	var total uint64 = 8
	for _, e := range d.Entries {
		total += e.size()
	}
	return total
}
func (d DataReference) size() uint64 { return sizeOfHeader(d.bodySize()) }

func writeDataReference(s atomio.Stream, d DataReference) error {
	if err := writeHeader(s, d.size(), typeDref); err != nil {
		return err
	}
	if err := writeVersionFlags(s, d.VersionFlags); err != nil {
		return err
	}
	if err := atomio.WriteU32(s, uint32(len(d.Entries))); err != nil {
		return err
	}
	for _, e := range d.Entries {
		if err := writeDataReferenceEntry(s, e); err != nil {
			return err
		}
	}
	return nil
}

func (e SampleDescriptionEntry) size() uint64 { return uint64(len(e.Raw)) }

func (sd SampleDescription) bodySize() uint64 {
	var total uint64 = 8
	for _, e := range sd.Entries {
		total += e.size()
	}
	return total
}
func (sd SampleDescription) size() uint64 { return sizeOfHeader(sd.bodySize()) }

func writeSampleDescription(s atomio.Stream, sd SampleDescription) error {
	if err := writeHeader(s, sd.size(), typeStsd); err != nil {
		return err
	}
	if err := writeVersionFlags(s, sd.VersionFlags); err != nil {
		return err
	}
	if err := atomio.WriteU32(s, uint32(len(sd.Entries))); err != nil {
		return err
	}
	for _, e := range sd.Entries {
		if err := s.Write(e.Raw); err != nil {
			return err
		}
	}
	return nil
}

func (t TimeToSample) bodySize() uint64 { return 8 + uint64(len(t.Entries))*timeToSampleEntrySize }
func (t TimeToSample) size() uint64     { return sizeOfHeader(t.bodySize()) }

func writeTimeToSample(s atomio.Stream, t TimeToSample) error {
	if err := writeHeader(s, t.size(), typeStts); err != nil {
		return err
	}
	if err := writeVersionFlags(s, t.VersionFlags); err != nil {
		return err
	}
	if err := atomio.WriteU32(s, uint32(len(t.Entries))); err != nil {
		return err
	}
	for _, e := range t.Entries {
		if err := atomio.WriteU32(s, e.SampleCount); err != nil {
			return err
		}
		if err := atomio.WriteU32(s, e.SampleDuration); err != nil {
			return err
		}
	}
	return nil
}

func (c CompositionOffset) bodySize() uint64 {
	return 8 + uint64(len(c.Entries))*compositionOffsetEntrySize
}
func (c CompositionOffset) size() uint64 { return sizeOfHeader(c.bodySize()) }

func writeCompositionOffset(s atomio.Stream, c CompositionOffset) error {
	if err := writeHeader(s, c.size(), typeCtts); err != nil {
		return err
	}
	if err := writeVersionFlags(s, c.VersionFlags); err != nil {
		return err
	}
	if err := atomio.WriteU32(s, uint32(len(c.Entries))); err != nil {
		return err
	}
	for _, e := range c.Entries {
		if err := atomio.WriteU32(s, e.SampleCount); err != nil {
			return err
		}
		if err := atomio.WriteI32(s, e.CompositionOffset); err != nil {
			return err
		}
	}
	return nil
}

func (c CompositionShiftLeastGreatest) size() uint64 {
	return sizeOfHeader(compositionShiftLeastGreatestBodySize)
}

func writeCompositionShiftLeastGreatest(s atomio.Stream, c CompositionShiftLeastGreatest) error {
	if err := writeHeader(s, c.size(), typeCslg); err != nil {
		return err
	}
	if err := writeVersionFlags(s, c.VersionFlags); err != nil {
		return err
	}
	for _, v := range []int32{
		c.CompositionOffsetToDTSShift, c.LeastDecodeToDisplayDelta,
		c.GreatestDecodeToDisplayDelta, c.CompositionStartTime, c.CompositionEndTime,
	} {
		if err := atomio.WriteI32(s, v); err != nil {
			return err
		}
	}
	return nil
}

func writeSampleNumberTable(s atomio.Stream, typ FourCC, vf VersionFlags, nums []uint32) error {
	bodySize := 8 + uint64(len(nums))*4
	if err := writeHeader(s, sizeOfHeader(bodySize), typ); err != nil {
		return err
	}
	if err := writeVersionFlags(s, vf); err != nil {
		return err
	}
	if err := atomio.WriteU32(s, uint32(len(nums))); err != nil {
		return err
	}
	for _, n := range nums {
		if err := atomio.WriteU32(s, n); err != nil {
			return err
		}
	}
	return nil
}

func (s SyncSample) bodySize() uint64 { return 8 + uint64(len(s.SampleNumbers))*4 }
func (s SyncSample) size() uint64     { return sizeOfHeader(s.bodySize()) }

func writeSyncSample(s atomio.Stream, v SyncSample) error {
	return writeSampleNumberTable(s, typeStss, v.VersionFlags, v.SampleNumbers)
}

func (p PartialSyncSample) bodySize() uint64 { return 8 + uint64(len(p.SampleNumbers))*4 }
func (p PartialSyncSample) size() uint64     { return sizeOfHeader(p.bodySize()) }

func writePartialSyncSample(s atomio.Stream, v PartialSyncSample) error {
	return writeSampleNumberTable(s, typeStps, v.VersionFlags, v.SampleNumbers)
}

func (t SampleToChunk) bodySize() uint64 { return 8 + uint64(len(t.Entries))*sampleToChunkEntrySize }
func (t SampleToChunk) size() uint64     { return sizeOfHeader(t.bodySize()) }

func writeSampleToChunk(s atomio.Stream, t SampleToChunk) error {
	if err := writeHeader(s, t.size(), typeStsc); err != nil {
		return err
	}
	if err := writeVersionFlags(s, t.VersionFlags); err != nil {
		return err
	}
	if err := atomio.WriteU32(s, uint32(len(t.Entries))); err != nil {
		return err
	}
	for _, e := range t.Entries {
		if err := atomio.WriteU32(s, e.FirstChunk); err != nil {
			return err
		}
		if err := atomio.WriteU32(s, e.SamplesPerChunk); err != nil {
			return err
		}
		if err := atomio.WriteU32(s, e.SampleDescriptionID); err != nil {
			return err
		}
	}
	return nil
}

func (sz SampleSize) bodySize() uint64 {
	if sz.SampleSize != 0 {
		return 12
	}
	return 12 + uint64(len(sz.Entries))*4
}
func (sz SampleSize) size() uint64 { return sizeOfHeader(sz.bodySize()) }

func writeSampleSize(s atomio.Stream, sz SampleSize) error {
	if err := writeHeader(s, sz.size(), typeStsz); err != nil {
		return err
	}
	if err := writeVersionFlags(s, sz.VersionFlags); err != nil {
		return err
	}
	if err := atomio.WriteU32(s, sz.SampleSize); err != nil {
		return err
	}
	if sz.SampleSize != 0 {
		return atomio.WriteU32(s, sz.NumberOfEntries)
	}
	if err := atomio.WriteU32(s, uint32(len(sz.Entries))); err != nil {
		return err
	}
	for _, v := range sz.Entries {
		if err := atomio.WriteU32(s, v); err != nil {
			return err
		}
	}
	return nil
}

func (c ChunkOffset) bodySize() uint64 { return 8 + uint64(len(c.Entries))*4 }
func (c ChunkOffset) size() uint64     { return sizeOfHeader(c.bodySize()) }

func writeChunkOffset(s atomio.Stream, c ChunkOffset) error {
	if err := writeHeader(s, c.size(), typeStco); err != nil {
		return err
	}
	if err := writeVersionFlags(s, c.VersionFlags); err != nil {
		return err
	}
	if err := atomio.WriteU32(s, uint32(len(c.Entries))); err != nil {
		return err
	}
	for _, v := range c.Entries {
		if err := atomio.WriteU32(s, v); err != nil {
			return err
		}
	}
	return nil
}

func (d SampleDependencyFlags) bodySize() uint64 { return 8 + uint64(len(d.Entries)) }
func (d SampleDependencyFlags) size() uint64     { return sizeOfHeader(d.bodySize()) }

func writeSampleDependencyFlags(s atomio.Stream, d SampleDependencyFlags) error {
	if err := writeHeader(s, d.size(), typeSdtp); err != nil {
		return err
	}
	if err := writeVersionFlags(s, d.VersionFlags); err != nil {
		return err
	}
	if err := atomio.WriteU32(s, uint32(len(d.Entries))); err != nil {
		return err
	}
	return s.Write(d.Entries)
}
