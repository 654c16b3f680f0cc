package qtff

import (
	"ktkr.us/pkg/qtff/atomio"
)

// Leaf atom size calculators and writers (spec §4.E, §4.H). Every size
// function agrees exactly with what its writer emits, which is what the
// round-trip and size-accounting property tests check (spec §8, P2/P3).

func (ft FileType) bodySize() uint64 {
	return 8 + uint64(4*len(ft.CompatibleBrands))
}

func (ft FileType) size() uint64 { return sizeOfHeader(ft.bodySize()) }

func writeFileType(s atomio.Stream, ft FileType) error {
	if err := writeHeader(s, ft.size(), typeFtyp); err != nil {
		return err
	}
	if err := s.Write(ft.MajorBrand[:]); err != nil {
		return err
	}
	if err := atomio.WriteU32(s, ft.MinorVersion); err != nil {
		return err
	}
	for _, b := range ft.CompatibleBrands {
		if err := s.Write(b[:]); err != nil {
			return err
		}
	}
	return nil
}

func (p Preview) size() uint64 { return sizeOfHeader(previewBodySize) }

func writePreview(s atomio.Stream, p Preview) error {
	if err := writeHeader(s, p.size(), typePnot); err != nil {
		return err
	}
	if err := atomio.WriteU32(s, p.ModificationTime); err != nil {
		return err
	}
	if err := atomio.WriteU16(s, p.Version); err != nil {
		return err
	}
	if err := s.Write(p.AtomType[:]); err != nil {
		return err
	}
	return atomio.WriteU16(s, p.AtomIndex)
}

func (h MovieHeader) size() uint64 { return sizeOfHeader(movieHeaderBodySize) }

func writeMovieHeader(s atomio.Stream, h MovieHeader) error {
	if err := writeHeader(s, h.size(), typeMvhd); err != nil {
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
	if err := atomio.WriteQ16_16(s, h.PreferredRate); err != nil {
		return err
	}
	if err := atomio.WriteQ8_8(s, h.PreferredVolume); err != nil {
		return err
	}
	if err := s.Write(make([]byte, 10)); err != nil { // reserved
		return err
	}
	if err := writeMatrix(s, h.Matrix); err != nil {
		return err
	}
	for _, v := range []uint32{
		h.PreviewTime, h.PreviewDuration, h.PosterTime,
		h.SelectionTime, h.SelectionDuration, h.CurrentTime, h.NextTrackID,
	} {
		if err := atomio.WriteU32(s, v); err != nil {
			return err
		}
	}
	return nil
}

func (h TrackHeader) size() uint64 { return sizeOfHeader(trackHeaderBodySize) }

func writeTrackHeader(s atomio.Stream, h TrackHeader) error {
	if err := writeHeader(s, h.size(), typeTkhd); err != nil {
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
	if err := atomio.WriteU32(s, h.TrackID); err != nil {
		return err
	}
	if err := s.Write(make([]byte, 4)); err != nil { // reserved
		return err
	}
	if err := atomio.WriteU32(s, h.Duration); err != nil {
		return err
	}
	if err := s.Write(make([]byte, 8)); err != nil { // reserved
		return err
	}
	if err := atomio.WriteU16(s, h.Layer); err != nil {
		return err
	}
	if err := atomio.WriteU16(s, h.AlternateGroup); err != nil {
		return err
	}
	if err := atomio.WriteQ8_8(s, h.Volume); err != nil {
		return err
	}
	if err := s.Write(make([]byte, 2)); err != nil { // reserved
		return err
	}
	if err := writeMatrix(s, h.Matrix); err != nil {
		return err
	}
	if err := atomio.WriteQ16_16(s, h.TrackWidth); err != nil {
		return err
	}
	return atomio.WriteQ16_16(s, h.TrackHeight)
}

func (a ApertureDimensions) size() uint64 { return sizeOfHeader(apertureDimensionsBodySize) }

func writeApertureDimensions(s atomio.Stream, typ FourCC, a ApertureDimensions) error {
	if err := writeHeader(s, a.size(), typ); err != nil {
		return err
	}
	if err := writeVersionFlags(s, a.VersionFlags); err != nil {
		return err
	}
	if err := atomio.WriteQ16_16(s, a.Width); err != nil {
		return err
	}
	return atomio.WriteQ16_16(s, a.Height)
}

func (c ClippingRegion) size() uint64 { return sizeOfHeader(c.Region.size()) }

func writeClippingRegion(s atomio.Stream, c ClippingRegion) error {
	if err := writeHeader(s, c.size(), typeCrgn); err != nil {
		return err
	}
	return writeRegion(s, c.Region)
}

func (m CompressedMatte) size() uint64 { return sizeOfHeader(4 + uint64(len(m.Data))) }

func writeCompressedMatte(s atomio.Stream, m CompressedMatte) error {
	if err := writeHeader(s, m.size(), typeKmat); err != nil {
		return err
	}
	if err := writeVersionFlags(s, m.VersionFlags); err != nil {
		return err
	}
	return s.Write(m.Data)
}

func (e EditList) bodySize() uint64 { return 8 + uint64(len(e.Entries))*editListEntrySize }
func (e EditList) size() uint64     { return sizeOfHeader(e.bodySize()) }

func writeEditList(s atomio.Stream, e EditList) error {
	if err := writeHeader(s, e.size(), typeElst); err != nil {
		return err
	}
	if err := writeVersionFlags(s, e.VersionFlags); err != nil {
		return err
	}
	if err := atomio.WriteU32(s, uint32(len(e.Entries))); err != nil {
		return err
	}
	for _, en := range e.Entries {
		if err := atomio.WriteU32(s, en.TrackDuration); err != nil {
			return err
		}
		if err := atomio.WriteU32(s, en.MediaTime); err != nil {
			return err
		}
		if err := atomio.WriteQ16_16(s, en.MediaRate); err != nil {
			return err
		}
	}
	return nil
}

func (t TrackExcludeFromAutoselection) size() uint64 { return sizeOfHeader(uint64(len(t.Data))) }

func writeTrackExcludeFromAutoselection(s atomio.Stream, t TrackExcludeFromAutoselection) error {
	if err := writeHeader(s, t.size(), typeTxas); err != nil {
		return err
	}
	return s.Write(t.Data)
}

func (l TrackLoadSettings) size() uint64 { return sizeOfHeader(trackLoadSettingsBodySize) }

func writeTrackLoadSettings(s atomio.Stream, l TrackLoadSettings) error {
	if err := writeHeader(s, l.size(), typeLoad); err != nil {
		return err
	}
	for _, v := range []uint32{l.PreloadStartTime, l.PreloadDuration, l.PreloadFlags, l.DefaultHints} {
		if err := atomio.WriteU32(s, v); err != nil {
			return err
		}
	}
	return nil
}

func (ct ColorTable) bodySize() uint64 { return 8 + uint64(len(ct.Entries))*colorTableEntrySize }
func (ct ColorTable) size() uint64     { return sizeOfHeader(ct.bodySize()) }

func writeColorTable(s atomio.Stream, ct ColorTable) error {
	if err := writeHeader(s, ct.size(), typeCtab); err != nil {
		return err
	}
	if err := atomio.WriteU32(s, ct.Seed); err != nil {
		return err
	}
	if err := atomio.WriteU16(s, ct.Flags); err != nil {
		return err
	}
	if len(ct.Entries) == 0 {
		return atomio.WriteU16(s, 0xFFFF)
	}
	if err := atomio.WriteU16(s, uint16(len(ct.Entries)-1)); err != nil {
		return err
	}
	for _, e := range ct.Entries {
		for _, v := range []uint16{e.Alpha, e.Red, e.Green, e.Blue} {
			if err := atomio.WriteU16(s, v); err != nil {
				return err
			}
		}
	}
	return nil
}
