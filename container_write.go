package qtff

import (
	"ktkr.us/pkg/qtff/atomio"
)

// Container atom size calculators and writers (spec §4.F, §4.H). Each
// bodySize sums its children's sizes (including UnknownChild, to keep
// round-tripped unrecognized atoms in the total); size() adds the
// container's own header width on top.

func unknownTotal(list []UnknownChild) uint64 {
	var total uint64
	for _, u := range list {
		total += u.size()
	}
	return total
}

func writeUnknownChildren(s atomio.Stream, list []UnknownChild) error {
	for _, u := range list {
		if err := writeUnknownChild(s, u); err != nil {
			return err
		}
	}
	return nil
}

func (t TrackApertureModeDimensions) bodySize() uint64 {
	var total uint64
	if t.CleanAperture != nil {
		total += t.CleanAperture.size()
	}
	if t.ProductionAperture != nil {
		total += t.ProductionAperture.size()
	}
	if t.EncodedPixels != nil {
		total += t.EncodedPixels.size()
	}
	return total
}
func (t TrackApertureModeDimensions) size() uint64 { return sizeOfHeader(t.bodySize()) }

func writeTapt(s atomio.Stream, t TrackApertureModeDimensions) error {
	if err := writeHeader(s, t.size(), typeTapt); err != nil {
		return err
	}
	if t.CleanAperture != nil {
		if err := writeApertureDimensions(s, typeClef, *t.CleanAperture); err != nil {
			return err
		}
	}
	if t.ProductionAperture != nil {
		if err := writeApertureDimensions(s, typeProf, *t.ProductionAperture); err != nil {
			return err
		}
	}
	if t.EncodedPixels != nil {
		if err := writeApertureDimensions(s, typeEnof, *t.EncodedPixels); err != nil {
			return err
		}
	}
	return nil
}

func (c Clipping) bodySize() uint64 {
	if c.Region == nil {
		return 0
	}
	return c.Region.size()
}
func (c Clipping) size() uint64 { return sizeOfHeader(c.bodySize()) }

func writeClip(s atomio.Stream, c Clipping) error {
	if err := writeHeader(s, c.size(), typeClip); err != nil {
		return err
	}
	if c.Region != nil {
		return writeClippingRegion(s, *c.Region)
	}
	return nil
}

func (m TrackMatte) bodySize() uint64 {
	if m.CompressedMatte == nil {
		return 0
	}
	return m.CompressedMatte.size()
}
func (m TrackMatte) size() uint64 { return sizeOfHeader(m.bodySize()) }

func writeMatt(s atomio.Stream, m TrackMatte) error {
	if err := writeHeader(s, m.size(), typeMatt); err != nil {
		return err
	}
	if m.CompressedMatte != nil {
		return writeCompressedMatte(s, *m.CompressedMatte)
	}
	return nil
}

func (e Edit) bodySize() uint64 {
	if e.EditList == nil {
		return 0
	}
	return e.EditList.size()
}
func (e Edit) size() uint64 { return sizeOfHeader(e.bodySize()) }

func writeEdts(s atomio.Stream, e Edit) error {
	if err := writeHeader(s, e.size(), typeEdts); err != nil {
		return err
	}
	if e.EditList != nil {
		return writeEditList(s, *e.EditList)
	}
	return nil
}

func writeTrackReferenceEntry(s atomio.Stream, e TrackReferenceEntry) error {
	if err := writeHeader(s, e.size(), e.Type); err != nil {
		return err
	}
	for _, id := range e.TrackIDs {
		if err := atomio.WriteU32(s, id); err != nil {
			return err
		}
	}
	return nil
}

func (t TrackReference) bodySize() uint64 {
	var total uint64
	for _, e := range t.References {
		total += e.size()
	}
	return total
}
func (t TrackReference) size() uint64 { return sizeOfHeader(t.bodySize()) }

func writeTref(s atomio.Stream, t TrackReference) error {
	if err := writeHeader(s, t.size(), typeTref); err != nil {
		return err
	}
	for _, e := range t.References {
		if err := writeTrackReferenceEntry(s, e); err != nil {
			return err
		}
	}
	return nil
}

func (e InputMapEntry) bodySize() uint64 {
	return sizeOfHeader(4) + sizeOfHeader(4) // \0\0ty + obid
}
func (e InputMapEntry) size() uint64 { return sizeOfHeader(e.bodySize()) }

func writeInputMapEntry(s atomio.Stream, e InputMapEntry) error {
	if err := writeHeader(s, e.size(), typeImapIn); err != nil {
		return err
	}
	if err := writeHeader(s, sizeOfHeader(4), typeImapTy); err != nil {
		return err
	}
	if err := s.Write(e.Type[:]); err != nil {
		return err
	}
	if err := writeHeader(s, sizeOfHeader(4), typeObid); err != nil {
		return err
	}
	return atomio.WriteU32(s, e.ObjectID)
}

func (m TrackInputMap) bodySize() uint64 {
	var total uint64
	for _, e := range m.Entries {
		total += e.size()
	}
	return total
}
func (m TrackInputMap) size() uint64 { return sizeOfHeader(m.bodySize()) }

func writeImap(s atomio.Stream, m TrackInputMap) error {
	if err := writeHeader(s, m.size(), typeImap); err != nil {
		return err
	}
	for _, e := range m.Entries {
		if err := writeInputMapEntry(s, e); err != nil {
			return err
		}
	}
	return nil
}

func (u UserData) bodySize() uint64 {
	var total uint64
	for _, item := range u.Items {
		total += item.size()
	}
	return total
}
func (u UserData) size() uint64 { return sizeOfHeader(u.bodySize()) }

func writeUdta(s atomio.Stream, u UserData) error {
	if err := writeHeader(s, u.size(), typeUdta); err != nil {
		return err
	}
	for _, item := range u.Items {
		if err := writeHeader(s, item.size(), item.Type); err != nil {
			return err
		}
		if err := s.Write(item.Data); err != nil {
			return err
		}
	}
	return nil
}

func (d DataInformation) bodySize() uint64 {
	if d.DataReference == nil {
		return 0
	}
	return d.DataReference.size()
}
func (d DataInformation) size() uint64 { return sizeOfHeader(d.bodySize()) }

func writeDinf(s atomio.Stream, d DataInformation) error {
	if err := writeHeader(s, d.size(), typeDinf); err != nil {
		return err
	}
	if d.DataReference != nil {
		return writeDataReference(s, *d.DataReference)
	}
	return nil
}

func (t SampleTable) bodySize() uint64 {
	total := t.SampleDescription.size() + t.TimeToSample.size()
	if t.CompositionOffset != nil {
		total += t.CompositionOffset.size()
	}
	if t.CompositionShiftLeastGreatest != nil {
		total += t.CompositionShiftLeastGreatest.size()
	}
	if t.SyncSample != nil {
		total += t.SyncSample.size()
	}
	if t.PartialSyncSample != nil {
		total += t.PartialSyncSample.size()
	}
	if t.SampleToChunk != nil {
		total += t.SampleToChunk.size()
	}
	if t.SampleSize != nil {
		total += t.SampleSize.size()
	}
	if t.ChunkOffset != nil {
		total += t.ChunkOffset.size()
	}
	if t.SampleDependencyFlags != nil {
		total += t.SampleDependencyFlags.size()
	}
	total += unknownTotal(t.Unknown)
	return total
}
func (t SampleTable) size() uint64 { return sizeOfHeader(t.bodySize()) }

func writeStbl(s atomio.Stream, t SampleTable) error {
	if err := writeHeader(s, t.size(), typeStbl); err != nil {
		return err
	}
	if err := writeSampleDescription(s, t.SampleDescription); err != nil {
		return err
	}
	if err := writeTimeToSample(s, t.TimeToSample); err != nil {
		return err
	}
	if t.CompositionOffset != nil {
		if err := writeCompositionOffset(s, *t.CompositionOffset); err != nil {
			return err
		}
	}
	if t.CompositionShiftLeastGreatest != nil {
		if err := writeCompositionShiftLeastGreatest(s, *t.CompositionShiftLeastGreatest); err != nil {
			return err
		}
	}
	if t.SyncSample != nil {
		if err := writeSyncSample(s, *t.SyncSample); err != nil {
			return err
		}
	}
	if t.PartialSyncSample != nil {
		if err := writePartialSyncSample(s, *t.PartialSyncSample); err != nil {
			return err
		}
	}
	if t.SampleToChunk != nil {
		if err := writeSampleToChunk(s, *t.SampleToChunk); err != nil {
			return err
		}
	}
	if t.SampleSize != nil {
		if err := writeSampleSize(s, *t.SampleSize); err != nil {
			return err
		}
	}
	if t.ChunkOffset != nil {
		if err := writeChunkOffset(s, *t.ChunkOffset); err != nil {
			return err
		}
	}
	if t.SampleDependencyFlags != nil {
		if err := writeSampleDependencyFlags(s, *t.SampleDependencyFlags); err != nil {
			return err
		}
	}
	return writeUnknownChildren(s, t.Unknown)
}

func (h BaseMediaHeader) bodySize() uint64 {
	total := h.Generic.size()
	if h.Text != nil {
		total += h.Text.size()
	}
	return total
}
func (h BaseMediaHeader) size() uint64 { return sizeOfHeader(h.bodySize()) }

func writeGmhd(s atomio.Stream, h BaseMediaHeader) error {
	if err := writeHeader(s, h.size(), typeGmhd); err != nil {
		return err
	}
	if err := writeBaseMediaInfo(s, h.Generic); err != nil {
		return err
	}
	if h.Text != nil {
		return writeBaseTextMediaInfo(s, *h.Text)
	}
	return nil
}

func (v VideoMediaInformation) bodySize() uint64 {
	total := v.Header.size()
	if v.DataInformation != nil {
		total += v.DataInformation.size()
	}
	total += v.SampleTable.size()
	if v.UserData != nil {
		total += v.UserData.size()
	}
	return total + unknownTotal(v.Unknown)
}
func (v VideoMediaInformation) size() uint64 { return sizeOfHeader(v.bodySize()) }

func (v SoundMediaInformation) bodySize() uint64 {
	total := v.Header.size()
	if v.DataInformation != nil {
		total += v.DataInformation.size()
	}
	total += v.SampleTable.size()
	if v.UserData != nil {
		total += v.UserData.size()
	}
	return total + unknownTotal(v.Unknown)
}
func (v SoundMediaInformation) size() uint64 { return sizeOfHeader(v.bodySize()) }

func (v BaseMediaInformation) bodySize() uint64 {
	total := v.Header.size()
	if v.DataInformation != nil {
		total += v.DataInformation.size()
	}
	total += v.SampleTable.size()
	if v.UserData != nil {
		total += v.UserData.size()
	}
	return total + unknownTotal(v.Unknown)
}
func (v BaseMediaInformation) size() uint64 { return sizeOfHeader(v.bodySize()) }

func (mi MediaInformation) bodySize() uint64 {
	switch {
	case mi.Video != nil:
		return mi.Video.bodySize()
	case mi.Sound != nil:
		return mi.Sound.bodySize()
	case mi.Base != nil:
		return mi.Base.bodySize()
	default:
		return 0
	}
}
func (mi MediaInformation) size() uint64 { return sizeOfHeader(mi.bodySize()) }

func writeMediaInformation(s atomio.Stream, mi MediaInformation) error {
	switch {
	case mi.Video != nil:
		if err := writeHeader(s, mi.Video.size(), typeMinf); err != nil {
			return err
		}
		if err := writeVideoMediaHeader(s, mi.Video.Header); err != nil {
			return err
		}
		if mi.Video.DataInformation != nil {
			if err := writeDinf(s, *mi.Video.DataInformation); err != nil {
				return err
			}
		}
		if err := writeStbl(s, mi.Video.SampleTable); err != nil {
			return err
		}
		if mi.Video.UserData != nil {
			if err := writeUdta(s, *mi.Video.UserData); err != nil {
				return err
			}
		}
		return writeUnknownChildren(s, mi.Video.Unknown)
	case mi.Sound != nil:
		if err := writeHeader(s, mi.Sound.size(), typeMinf); err != nil {
			return err
		}
		if err := writeSoundMediaHeader(s, mi.Sound.Header); err != nil {
			return err
		}
		if mi.Sound.DataInformation != nil {
			if err := writeDinf(s, *mi.Sound.DataInformation); err != nil {
				return err
			}
		}
		if err := writeStbl(s, mi.Sound.SampleTable); err != nil {
			return err
		}
		if mi.Sound.UserData != nil {
			if err := writeUdta(s, *mi.Sound.UserData); err != nil {
				return err
			}
		}
		return writeUnknownChildren(s, mi.Sound.Unknown)
	case mi.Base != nil:
		if err := writeHeader(s, mi.Base.size(), typeMinf); err != nil {
			return err
		}
		if err := writeGmhd(s, mi.Base.Header); err != nil {
			return err
		}
		if mi.Base.DataInformation != nil {
			if err := writeDinf(s, *mi.Base.DataInformation); err != nil {
				return err
			}
		}
		if err := writeStbl(s, mi.Base.SampleTable); err != nil {
			return err
		}
		if mi.Base.UserData != nil {
			if err := writeUdta(s, *mi.Base.UserData); err != nil {
				return err
			}
		}
		return writeUnknownChildren(s, mi.Base.Unknown)
	default:
		return badFormat(typeMinf, -1, "media information has no variant set")
	}
}

func (m Media) bodySize() uint64 {
	total := m.MediaHeader.size()
	if m.ExtendedLanguageTag != nil {
		total += m.ExtendedLanguageTag.size()
	}
	if m.HandlerReference != nil {
		total += m.HandlerReference.size()
	}
	if m.MediaInformation != nil {
		total += m.MediaInformation.size()
	}
	if m.UserData != nil {
		total += m.UserData.size()
	}
	return total + unknownTotal(m.Unknown)
}
func (m Media) size() uint64 { return sizeOfHeader(m.bodySize()) }

func writeMdia(s atomio.Stream, m Media) error {
	if err := writeHeader(s, m.size(), typeMdia); err != nil {
		return err
	}
	if err := writeMediaHeader(s, m.MediaHeader); err != nil {
		return err
	}
	if m.ExtendedLanguageTag != nil {
		if err := writeExtendedLanguageTag(s, *m.ExtendedLanguageTag); err != nil {
			return err
		}
	}
	if m.HandlerReference != nil {
		if err := writeHandlerReference(s, *m.HandlerReference); err != nil {
			return err
		}
	}
	if m.MediaInformation != nil {
		if err := writeMediaInformation(s, *m.MediaInformation); err != nil {
			return err
		}
	}
	if m.UserData != nil {
		if err := writeUdta(s, *m.UserData); err != nil {
			return err
		}
	}
	return writeUnknownChildren(s, m.Unknown)
}

func (t Track) bodySize() uint64 {
	total := t.TrackHeader.size() + t.Media.size()
	if t.TrackApertureModeDimensions != nil {
		total += t.TrackApertureModeDimensions.size()
	}
	if t.Clipping != nil {
		total += t.Clipping.size()
	}
	if t.TrackMatte != nil {
		total += t.TrackMatte.size()
	}
	if t.Edit != nil {
		total += t.Edit.size()
	}
	if t.TrackReference != nil {
		total += t.TrackReference.size()
	}
	if t.TrackExcludeFromAutoselection != nil {
		total += t.TrackExcludeFromAutoselection.size()
	}
	if t.TrackLoadSettings != nil {
		total += t.TrackLoadSettings.size()
	}
	if t.TrackInputMap != nil {
		total += t.TrackInputMap.size()
	}
	if t.UserData != nil {
		total += t.UserData.size()
	}
	return total + unknownTotal(t.Unknown)
}
func (t Track) size() uint64 { return sizeOfHeader(t.bodySize()) }

func writeTrak(s atomio.Stream, t Track) error {
	if err := writeHeader(s, t.size(), typeTrak); err != nil {
		return err
	}
	if err := writeTrackHeader(s, t.TrackHeader); err != nil {
		return err
	}
	if t.TrackApertureModeDimensions != nil {
		if err := writeTapt(s, *t.TrackApertureModeDimensions); err != nil {
			return err
		}
	}
	if t.Clipping != nil {
		if err := writeClip(s, *t.Clipping); err != nil {
			return err
		}
	}
	if t.TrackMatte != nil {
		if err := writeMatt(s, *t.TrackMatte); err != nil {
			return err
		}
	}
	if t.Edit != nil {
		if err := writeEdts(s, *t.Edit); err != nil {
			return err
		}
	}
	if t.TrackReference != nil {
		if err := writeTref(s, *t.TrackReference); err != nil {
			return err
		}
	}
	if t.TrackExcludeFromAutoselection != nil {
		if err := writeTrackExcludeFromAutoselection(s, *t.TrackExcludeFromAutoselection); err != nil {
			return err
		}
	}
	if t.TrackLoadSettings != nil {
		if err := writeTrackLoadSettings(s, *t.TrackLoadSettings); err != nil {
			return err
		}
	}
	if t.TrackInputMap != nil {
		if err := writeImap(s, *t.TrackInputMap); err != nil {
			return err
		}
	}
	if err := writeMdia(s, t.Media); err != nil {
		return err
	}
	if t.UserData != nil {
		if err := writeUdta(s, *t.UserData); err != nil {
			return err
		}
	}
	return writeUnknownChildren(s, t.Unknown)
}

func (m Movie) bodySize() uint64 {
	total := m.MovieHeader.size()
	for _, t := range m.Tracks {
		total += t.size()
	}
	if m.Clipping != nil {
		total += m.Clipping.size()
	}
	if m.ColorTable != nil {
		total += m.ColorTable.size()
	}
	if m.UserData != nil {
		total += m.UserData.size()
	}
	return total + unknownTotal(m.Unknown)
}
func (m Movie) size() uint64 { return sizeOfHeader(m.bodySize()) }

func writeMoov(s atomio.Stream, m Movie) error {
	if err := writeHeader(s, m.size(), typeMoov); err != nil {
		return err
	}
	if err := writeMovieHeader(s, m.MovieHeader); err != nil {
		return err
	}
	for _, t := range m.Tracks {
		if err := writeTrak(s, t); err != nil {
			return err
		}
	}
	if m.Clipping != nil {
		if err := writeClip(s, *m.Clipping); err != nil {
			return err
		}
	}
	if m.ColorTable != nil {
		if err := writeColorTable(s, *m.ColorTable); err != nil {
			return err
		}
	}
	if m.UserData != nil {
		if err := writeUdta(s, *m.UserData); err != nil {
			return err
		}
	}
	return writeUnknownChildren(s, m.Unknown)
}
