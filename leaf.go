package qtff

import (
	"ktkr.us/pkg/qtff/atomio"
)

// Leaf atom codecs (spec §4.E). Each read function assumes the caller has
// already consumed the atom's header via readHeader/peekHeader+skip, has
// checked the type tag, and passes in the body size declared by that
// header so table-bearing atoms can validate size accounting (I3).

// readBodyBytes reads exactly n bytes of an atom body as an opaque blob —
// used for padding atoms and anything the core intentionally does not
// interpret.
func readBodyBytes(s atomio.Stream, n uint64) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	return s.Read(int(n))
}

func readFileType(s atomio.Stream, bodySize uint64, offset int64) (FileType, error) {
	if bodySize < 8 {
		return FileType{}, badFormat(typeFtyp, offset, "ftyp body size %d smaller than fixed prefix", bodySize)
	}
	var ft FileType
	major, err := s.Read(4)
	if err != nil {
		return FileType{}, err
	}
	copy(ft.MajorBrand[:], major)
	if ft.MinorVersion, err = atomio.ReadU32(s); err != nil {
		return FileType{}, err
	}
	remaining := bodySize - 8
	if remaining%4 != 0 {
		return FileType{}, badFormat(typeFtyp, offset, "compatible-brands region %d not a multiple of 4", remaining)
	}
	n := remaining / 4
	if n > maxCompatibleBrands {
		return FileType{}, outOfMemory(typeFtyp, offset, "%d compatible brands exceeds limit %d", n, maxCompatibleBrands)
	}
	ft.CompatibleBrands = make([]FourCC, 0, n)
	for i := uint64(0); i < n; i++ {
		b, err := s.Read(4)
		if err != nil {
			return FileType{}, err
		}
		var cc FourCC
		copy(cc[:], b)
		ft.CompatibleBrands = append(ft.CompatibleBrands, cc)
	}
	return ft, nil
}

func readPreview(s atomio.Stream, bodySize uint64, offset int64) (Preview, error) {
	if bodySize != previewBodySize {
		return Preview{}, badFormat(typePnot, offset, "pnot body size %d, want %d", bodySize, previewBodySize)
	}
	var p Preview
	var err error
	if p.ModificationTime, err = atomio.ReadU32(s); err != nil {
		return Preview{}, err
	}
	if p.Version, err = atomio.ReadU16(s); err != nil {
		return Preview{}, err
	}
	b, err := s.Read(4)
	if err != nil {
		return Preview{}, err
	}
	copy(p.AtomType[:], b)
	if p.AtomIndex, err = atomio.ReadU16(s); err != nil {
		return Preview{}, err
	}
	return p, nil
}

func readMovieHeader(s atomio.Stream, bodySize uint64, offset int64) (MovieHeader, error) {
	if bodySize != movieHeaderBodySize {
		return MovieHeader{}, badFormat(typeMvhd, offset, "mvhd body size %d, want %d", bodySize, movieHeaderBodySize)
	}
	var h MovieHeader
	var err error
	if h.VersionFlags, err = readVersionFlags(s); err != nil {
		return MovieHeader{}, err
	}
	if h.CreationTime, err = atomio.ReadU32(s); err != nil {
		return MovieHeader{}, err
	}
	if h.ModificationTime, err = atomio.ReadU32(s); err != nil {
		return MovieHeader{}, err
	}
	if h.TimeScale, err = atomio.ReadU32(s); err != nil {
		return MovieHeader{}, err
	}
	if h.Duration, err = atomio.ReadU32(s); err != nil {
		return MovieHeader{}, err
	}
	if h.PreferredRate, err = atomio.ReadQ16_16(s); err != nil {
		return MovieHeader{}, err
	}
	if h.PreferredVolume, err = atomio.ReadQ8_8(s); err != nil {
		return MovieHeader{}, err
	}
	if _, err = s.Read(10); err != nil { // reserved
		return MovieHeader{}, err
	}
	if h.Matrix, err = readMatrix(s); err != nil {
		return MovieHeader{}, err
	}
	for _, p := range []*uint32{
		&h.PreviewTime, &h.PreviewDuration, &h.PosterTime,
		&h.SelectionTime, &h.SelectionDuration, &h.CurrentTime, &h.NextTrackID,
	} {
		if *p, err = atomio.ReadU32(s); err != nil {
			return MovieHeader{}, err
		}
	}
	return h, nil
}

func readTrackHeader(s atomio.Stream, bodySize uint64, offset int64) (TrackHeader, error) {
	if bodySize != trackHeaderBodySize {
		return TrackHeader{}, badFormat(typeTkhd, offset, "tkhd body size %d, want %d", bodySize, trackHeaderBodySize)
	}
	var h TrackHeader
	var err error
	if h.VersionFlags, err = readVersionFlags(s); err != nil {
		return TrackHeader{}, err
	}
	if h.CreationTime, err = atomio.ReadU32(s); err != nil {
		return TrackHeader{}, err
	}
	if h.ModificationTime, err = atomio.ReadU32(s); err != nil {
		return TrackHeader{}, err
	}
	if h.TrackID, err = atomio.ReadU32(s); err != nil {
		return TrackHeader{}, err
	}
	if _, err = s.Read(4); err != nil { // reserved
		return TrackHeader{}, err
	}
	if h.Duration, err = atomio.ReadU32(s); err != nil {
		return TrackHeader{}, err
	}
	if _, err = s.Read(8); err != nil { // reserved
		return TrackHeader{}, err
	}
	if h.Layer, err = atomio.ReadU16(s); err != nil {
		return TrackHeader{}, err
	}
	if h.AlternateGroup, err = atomio.ReadU16(s); err != nil {
		return TrackHeader{}, err
	}
	if h.Volume, err = atomio.ReadQ8_8(s); err != nil {
		return TrackHeader{}, err
	}
	if _, err = s.Read(2); err != nil { // reserved
		return TrackHeader{}, err
	}
	if h.Matrix, err = readMatrix(s); err != nil {
		return TrackHeader{}, err
	}
	if h.TrackWidth, err = atomio.ReadQ16_16(s); err != nil {
		return TrackHeader{}, err
	}
	if h.TrackHeight, err = atomio.ReadQ16_16(s); err != nil {
		return TrackHeader{}, err
	}
	return h, nil
}

func readApertureDimensions(s atomio.Stream, typ FourCC, bodySize uint64, offset int64) (ApertureDimensions, error) {
	if bodySize != apertureDimensionsBodySize {
		return ApertureDimensions{}, badFormat(typ, offset, "body size %d, want %d", bodySize, apertureDimensionsBodySize)
	}
	var a ApertureDimensions
	var err error
	if a.VersionFlags, err = readVersionFlags(s); err != nil {
		return ApertureDimensions{}, err
	}
	if a.Width, err = atomio.ReadQ16_16(s); err != nil {
		return ApertureDimensions{}, err
	}
	if a.Height, err = atomio.ReadQ16_16(s); err != nil {
		return ApertureDimensions{}, err
	}
	return a, nil
}

func readClippingRegion(s atomio.Stream, bodySize uint64, offset int64) (ClippingRegion, error) {
	start, _ := s.Tell()
	r, err := readRegion(s)
	if err != nil {
		return ClippingRegion{}, err
	}
	end, _ := s.Tell()
	if uint64(end-start) != bodySize {
		return ClippingRegion{}, badFormat(typeCrgn, offset, "crgn body size %d, region claims %d", bodySize, end-start)
	}
	return ClippingRegion{Region: r}, nil
}

func readCompressedMatte(s atomio.Stream, bodySize uint64, offset int64) (CompressedMatte, error) {
	if bodySize < 4 {
		return CompressedMatte{}, badFormat(typeKmat, offset, "kmat body size %d smaller than version/flags", bodySize)
	}
	vf, err := readVersionFlags(s)
	if err != nil {
		return CompressedMatte{}, err
	}
	data, err := readBodyBytes(s, bodySize-4)
	if err != nil {
		return CompressedMatte{}, err
	}
	return CompressedMatte{VersionFlags: vf, Data: data}, nil
}

func readEditList(s atomio.Stream, bodySize uint64, offset int64) (EditList, error) {
	if bodySize < 8 {
		return EditList{}, badFormat(typeElst, offset, "elst body size %d smaller than fixed prefix", bodySize)
	}
	vf, err := readVersionFlags(s)
	if err != nil {
		return EditList{}, err
	}
	count, err := atomio.ReadU32(s)
	if err != nil {
		return EditList{}, err
	}
	if want := 8 + uint64(count)*editListEntrySize; want != bodySize {
		return EditList{}, badFormat(typeElst, offset, "elst body size %d inconsistent with %d entries", bodySize, count)
	}
	if count > maxTableEntries {
		return EditList{}, outOfMemory(typeElst, offset, "%d elst entries exceeds limit %d", count, maxTableEntries)
	}
	entries := make([]EditListEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		var e EditListEntry
		if e.TrackDuration, err = atomio.ReadU32(s); err != nil {
			return EditList{}, err
		}
		if e.MediaTime, err = atomio.ReadU32(s); err != nil {
			return EditList{}, err
		}
		if e.MediaRate, err = atomio.ReadQ16_16(s); err != nil {
			return EditList{}, err
		}
		entries = append(entries, e)
	}
	return EditList{VersionFlags: vf, Entries: entries}, nil
}

func readTrackExcludeFromAutoselection(s atomio.Stream, bodySize uint64) (TrackExcludeFromAutoselection, error) {
	data, err := readBodyBytes(s, bodySize)
	if err != nil {
		return TrackExcludeFromAutoselection{}, err
	}
	return TrackExcludeFromAutoselection{Data: data}, nil
}

func readTrackLoadSettings(s atomio.Stream, bodySize uint64, offset int64) (TrackLoadSettings, error) {
	if bodySize != trackLoadSettingsBodySize {
		return TrackLoadSettings{}, badFormat(typeLoad, offset, "load body size %d, want %d", bodySize, trackLoadSettingsBodySize)
	}
	var l TrackLoadSettings
	var err error
	if l.PreloadStartTime, err = atomio.ReadU32(s); err != nil {
		return TrackLoadSettings{}, err
	}
	if l.PreloadDuration, err = atomio.ReadU32(s); err != nil {
		return TrackLoadSettings{}, err
	}
	if l.PreloadFlags, err = atomio.ReadU32(s); err != nil {
		return TrackLoadSettings{}, err
	}
	if l.DefaultHints, err = atomio.ReadU32(s); err != nil {
		return TrackLoadSettings{}, err
	}
	return l, nil
}

func readColorTable(s atomio.Stream, bodySize uint64, offset int64) (ColorTable, error) {
	if bodySize < 8 {
		return ColorTable{}, badFormat(typeCtab, offset, "ctab body size %d smaller than fixed prefix", bodySize)
	}
	var ct ColorTable
	var err error
	if ct.Seed, err = atomio.ReadU32(s); err != nil {
		return ColorTable{}, err
	}
	if ct.Flags, err = atomio.ReadU16(s); err != nil {
		return ColorTable{}, err
	}
	size, err := atomio.ReadU16(s)
	if err != nil {
		return ColorTable{}, err
	}
	count := uint64(size) + 1
	if want := uint64(8) + count*colorTableEntrySize; want != bodySize {
		return ColorTable{}, badFormat(typeCtab, offset, "ctab body size %d inconsistent with %d entries", bodySize, count)
	}
	if count > maxColorTableEntries {
		return ColorTable{}, outOfMemory(typeCtab, offset, "%d ctab entries exceeds limit %d", count, maxColorTableEntries)
	}
	ct.Entries = make([]ColorTableEntry, 0, count)
	for i := uint64(0); i < count; i++ {
		var e ColorTableEntry
		if e.Alpha, err = atomio.ReadU16(s); err != nil {
			return ColorTable{}, err
		}
		if e.Red, err = atomio.ReadU16(s); err != nil {
			return ColorTable{}, err
		}
		if e.Green, err = atomio.ReadU16(s); err != nil {
			return ColorTable{}, err
		}
		if e.Blue, err = atomio.ReadU16(s); err != nil {
			return ColorTable{}, err
		}
		ct.Entries = append(ct.Entries, e)
	}
	return ct, nil
}
