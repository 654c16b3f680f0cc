package qtff

import (
	"ktkr.us/pkg/qtff/atomio"
)

// Container atom codecs (spec §4.F). The shared algorithm: read the
// header, track presence of singleton/optional children, loop over
// children by peeking each one's header, dispatch by tag, and verify
// required children were all seen once the declared size is exhausted.

// walkChildren drives the read-loop shared by every container atom: it
// peeks each child's header, checks it against the parent's declared
// size (I7), invokes dispatch with the already-peeked header so dispatch
// can choose to read it fully or skip it, and accumulates bytes consumed
// until they equal declaredBodySize exactly.
func walkChildren(s atomio.Stream, parentType FourCC, declaredBodySize uint64, dispatch func(childSize uint64, childType FourCC, childOffset int64) error) error {
	var consumed uint64
	for consumed < declaredBodySize {
		childOffset, err := s.Tell()
		if err != nil {
			return err
		}
		size, typ, err := peekHeader(s)
		if err != nil {
			return err
		}
		if consumed+size > declaredBodySize {
			return badFormat(parentType, childOffset, "child %s size %d overruns declared size %d (consumed %d)", typ, size, declaredBodySize, consumed)
		}
		if err := dispatch(size, typ, childOffset); err != nil {
			return err
		}
		consumed += size
	}
	if consumed != declaredBodySize {
		return badFormat(parentType, -1, "children consumed %d bytes, parent declared %d", consumed, declaredBodySize)
	}
	return nil
}

// skipChild advances the stream past an unrecognized child whose header
// has already been peeked (spec §4.F: "If unrecognized: advance the
// stream by child_size").
func skipChild(s atomio.Stream, size uint64) error {
	return s.SeekRelative(int64(size))
}

// readUnknownChild reads an unrecognized child's full body into an
// UnknownChild, for lossless preservation (see SPEC_FULL.md's Open
// Question decision). The header has already been peeked.
func readUnknownChild(s atomio.Stream, size uint64) (UnknownChild, error) {
	_, typ, err := readHeader(s)
	if err != nil {
		return UnknownChild{}, err
	}
	body, err := readBodyBytes(s, size-headerSize(size))
	if err != nil {
		return UnknownChild{}, err
	}
	return UnknownChild{Type: typ, Body: body}, nil
}

func appendUnknown(list []UnknownChild, s atomio.Stream, size uint64, limit int) ([]UnknownChild, error) {
	if len(list) >= limit {
		return nil, outOfMemory(FourCC{}, -1, "unknown child count exceeds limit %d", limit)
	}
	u, err := readUnknownChild(s, size)
	if err != nil {
		return nil, err
	}
	return append(list, u), nil
}

// readBody consumes the container's own header (the caller has only
// peeked it) and returns the body size implied by declaredSize along with
// the stream offset at the start of the body.
func readBody(s atomio.Stream, declaredSize uint64) (bodySize uint64, offset int64, err error) {
	if _, _, err = readHeader(s); err != nil {
		return 0, 0, err
	}
	offset, err = s.Tell()
	if err != nil {
		return 0, 0, err
	}
	return declaredSize - headerSize(declaredSize), offset, nil
}

// readTapt reads the `tapt` (TrackApertureModeDimensions) container.
func readTapt(s atomio.Stream, declaredSize uint64) (TrackApertureModeDimensions, error) {
	bodySize, _, err := readBody(s, declaredSize)
	if err != nil {
		return TrackApertureModeDimensions{}, err
	}
	var t TrackApertureModeDimensions
	err = walkChildren(s, typeTapt, bodySize, func(size uint64, typ FourCC, offset int64) error {
		switch typ {
		case typeClef:
			if t.CleanAperture != nil {
				return badFormat(typ, offset, "duplicate clef")
			}
			if _, _, err := readHeader(s); err != nil {
				return err
			}
			a, err := readApertureDimensions(s, typeClef, size-headerSize(size), offset)
			if err != nil {
				return err
			}
			t.CleanAperture = &a
			return nil
		case typeProf:
			if t.ProductionAperture != nil {
				return badFormat(typ, offset, "duplicate prof")
			}
			if _, _, err := readHeader(s); err != nil {
				return err
			}
			a, err := readApertureDimensions(s, typeProf, size-headerSize(size), offset)
			if err != nil {
				return err
			}
			t.ProductionAperture = &a
			return nil
		case typeEnof:
			if t.EncodedPixels != nil {
				return badFormat(typ, offset, "duplicate enof")
			}
			if _, _, err := readHeader(s); err != nil {
				return err
			}
			a, err := readApertureDimensions(s, typeEnof, size-headerSize(size), offset)
			if err != nil {
				return err
			}
			t.EncodedPixels = &a
			return nil
		default:
			return skipChild(s, size)
		}
	})
	return t, err
}

// readClip reads the `clip` (Clipping) container.
func readClip(s atomio.Stream, declaredSize uint64) (Clipping, error) {
	bodySize, _, err := readBody(s, declaredSize)
	if err != nil {
		return Clipping{}, err
	}
	var c Clipping
	err = walkChildren(s, typeClip, bodySize, func(size uint64, typ FourCC, offset int64) error {
		if typ != typeCrgn {
			return skipChild(s, size)
		}
		if c.Region != nil {
			return badFormat(typ, offset, "duplicate crgn")
		}
		if _, _, err := readHeader(s); err != nil {
			return err
		}
		r, err := readClippingRegion(s, size-headerSize(size), offset)
		if err != nil {
			return err
		}
		c.Region = &r
		return nil
	})
	return c, err
}

// readMatt reads the `matt` (TrackMatte) container.
func readMatt(s atomio.Stream, declaredSize uint64) (TrackMatte, error) {
	bodySize, _, err := readBody(s, declaredSize)
	if err != nil {
		return TrackMatte{}, err
	}
	var m TrackMatte
	err = walkChildren(s, typeMatt, bodySize, func(size uint64, typ FourCC, offset int64) error {
		if typ != typeKmat {
			return skipChild(s, size)
		}
		if m.CompressedMatte != nil {
			return badFormat(typ, offset, "duplicate kmat")
		}
		if _, _, err := readHeader(s); err != nil {
			return err
		}
		k, err := readCompressedMatte(s, size-headerSize(size), offset)
		if err != nil {
			return err
		}
		m.CompressedMatte = &k
		return nil
	})
	return m, err
}

// readEdts reads the `edts` (Edit) container.
func readEdts(s atomio.Stream, declaredSize uint64) (Edit, error) {
	bodySize, _, err := readBody(s, declaredSize)
	if err != nil {
		return Edit{}, err
	}
	var e Edit
	err = walkChildren(s, typeEdts, bodySize, func(size uint64, typ FourCC, offset int64) error {
		if typ != typeElst {
			return skipChild(s, size)
		}
		if e.EditList != nil {
			return badFormat(typ, offset, "duplicate elst")
		}
		if _, _, err := readHeader(s); err != nil {
			return err
		}
		el, err := readEditList(s, size-headerSize(size), offset)
		if err != nil {
			return err
		}
		e.EditList = &el
		return nil
	})
	return e, err
}

// readTref reads the `tref` (TrackReference) container: each child is an
// arbitrary-4CC list of track IDs.
func readTref(s atomio.Stream, declaredSize uint64) (TrackReference, error) {
	bodySize, _, err := readBody(s, declaredSize)
	if err != nil {
		return TrackReference{}, err
	}
	var t TrackReference
	err = walkChildren(s, typeTref, bodySize, func(size uint64, typ FourCC, offset int64) error {
		if len(t.References) >= maxTrackRefEntries {
			return outOfMemory(typeTref, offset, "tref entry count exceeds limit %d", maxTrackRefEntries)
		}
		if _, _, err := readHeader(s); err != nil {
			return err
		}
		body := size - headerSize(size)
		if body%4 != 0 {
			return badFormat(typ, offset, "track reference body %d not a multiple of 4", body)
		}
		n := body / 4
		if n > maxTrackRefTracks {
			return outOfMemory(typ, offset, "%d track IDs exceeds limit %d", n, maxTrackRefTracks)
		}
		ids := make([]uint32, 0, n)
		for i := uint64(0); i < n; i++ {
			id, err := atomio.ReadU32(s)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		t.References = append(t.References, TrackReferenceEntry{Type: typ, TrackIDs: ids})
		return nil
	})
	return t, err
}

// readImap reads the `imap` (TrackInputMap) container: each child is a
// `\0\0in` entry, itself a container of exactly one `\0\0ty` and one
// `obid` leaf.
func readImap(s atomio.Stream, declaredSize uint64) (TrackInputMap, error) {
	bodySize, _, err := readBody(s, declaredSize)
	if err != nil {
		return TrackInputMap{}, err
	}
	var m TrackInputMap
	err = walkChildren(s, typeImap, bodySize, func(size uint64, typ FourCC, offset int64) error {
		if typ != typeImapIn {
			return skipChild(s, size)
		}
		if len(m.Entries) >= maxInputMapEntries {
			return outOfMemory(typ, offset, "imap entry count exceeds limit %d", maxInputMapEntries)
		}
		if _, _, err := readHeader(s); err != nil {
			return err
		}
		entryBody := size - headerSize(size)
		entry, err := readInputMapEntry(s, entryBody, offset)
		if err != nil {
			return err
		}
		m.Entries = append(m.Entries, entry)
		return nil
	})
	return m, err
}

func readInputMapEntry(s atomio.Stream, bodySize uint64, offset int64) (InputMapEntry, error) {
	var entry InputMapEntry
	var sawTy, sawObid bool
	err := walkChildren(s, typeImapIn, bodySize, func(size uint64, typ FourCC, childOffset int64) error {
		switch typ {
		case typeImapTy:
			if sawTy {
				return badFormat(typ, childOffset, "duplicate \\0\\0ty")
			}
			if _, _, err := readHeader(s); err != nil {
				return err
			}
			b, err := s.Read(4)
			if err != nil {
				return err
			}
			copy(entry.Type[:], b)
			sawTy = true
			return nil
		case typeObid:
			if sawObid {
				return badFormat(typ, childOffset, "duplicate obid")
			}
			if _, _, err := readHeader(s); err != nil {
				return err
			}
			v, err := atomio.ReadU32(s)
			if err != nil {
				return err
			}
			entry.ObjectID = v
			sawObid = true
			return nil
		default:
			return skipChild(s, size)
		}
	})
	if err != nil {
		return InputMapEntry{}, err
	}
	if !sawTy {
		return InputMapEntry{}, badFormat(typeImapIn, offset, "\\0\\0in missing required \\0\\0ty")
	}
	if !sawObid {
		return InputMapEntry{}, badFormat(typeImapIn, offset, "\\0\\0in missing required obid")
	}
	return entry, nil
}

// readUdta reads the `udta` (UserData) container: an ordered list of
// typed items, with no per-type singleton restriction (spec §3; see
// UserDataItem).
func readUdta(s atomio.Stream, declaredSize uint64) (UserData, error) {
	bodySize, _, err := readBody(s, declaredSize)
	if err != nil {
		return UserData{}, err
	}
	return readUdtaBody(s, bodySize)
}

// readDinf reads the `dinf` (DataInformation) container.
func readDinf(s atomio.Stream, declaredSize uint64) (DataInformation, error) {
	bodySize, _, err := readBody(s, declaredSize)
	if err != nil {
		return DataInformation{}, err
	}
	var d DataInformation
	err = walkChildren(s, typeDinf, bodySize, func(size uint64, typ FourCC, offset int64) error {
		if typ != typeDref {
			return skipChild(s, size)
		}
		if d.DataReference != nil {
			return badFormat(typ, offset, "duplicate dref")
		}
		if _, _, err := readHeader(s); err != nil {
			return err
		}
		dr, err := readDataReference(s, size-headerSize(size), offset)
		if err != nil {
			return err
		}
		d.DataReference = &dr
		return nil
	})
	if err != nil {
		return DataInformation{}, err
	}
	if d.DataReference == nil {
		return DataInformation{}, badFormat(typeDinf, -1, "dinf missing required dref")
	}
	return d, nil
}

// readStbl reads the `stbl` (SampleTable) container.
func readStbl(s atomio.Stream, declaredSize uint64) (SampleTable, error) {
	bodySize, _, err := readBody(s, declaredSize)
	if err != nil {
		return SampleTable{}, err
	}
	var t SampleTable
	var sawStsd, sawStts bool
	err = walkChildren(s, typeStbl, bodySize, func(size uint64, typ FourCC, offset int64) error {
		body := size - headerSize(size)
		switch typ {
		case typeStsd:
			if sawStsd {
				return badFormat(typ, offset, "duplicate stsd")
			}
			if _, _, err := readHeader(s); err != nil {
				return err
			}
			v, err := readSampleDescription(s, body, offset)
			if err != nil {
				return err
			}
			t.SampleDescription = v
			sawStsd = true
		case typeStts:
			if sawStts {
				return badFormat(typ, offset, "duplicate stts")
			}
			if _, _, err := readHeader(s); err != nil {
				return err
			}
			v, err := readTimeToSample(s, body, offset)
			if err != nil {
				return err
			}
			t.TimeToSample = v
			sawStts = true
		case typeCtts:
			if t.CompositionOffset != nil {
				return badFormat(typ, offset, "duplicate ctts")
			}
			if _, _, err := readHeader(s); err != nil {
				return err
			}
			v, err := readCompositionOffset(s, body, offset)
			if err != nil {
				return err
			}
			t.CompositionOffset = &v
		case typeCslg:
			if t.CompositionShiftLeastGreatest != nil {
				return badFormat(typ, offset, "duplicate cslg")
			}
			if _, _, err := readHeader(s); err != nil {
				return err
			}
			v, err := readCompositionShiftLeastGreatest(s, body, offset)
			if err != nil {
				return err
			}
			t.CompositionShiftLeastGreatest = &v
		case typeStss:
			if t.SyncSample != nil {
				return badFormat(typ, offset, "duplicate stss")
			}
			if _, _, err := readHeader(s); err != nil {
				return err
			}
			v, err := readSyncSample(s, body, offset)
			if err != nil {
				return err
			}
			t.SyncSample = &v
		case typeStps:
			if t.PartialSyncSample != nil {
				return badFormat(typ, offset, "duplicate stps")
			}
			if _, _, err := readHeader(s); err != nil {
				return err
			}
			v, err := readPartialSyncSample(s, body, offset)
			if err != nil {
				return err
			}
			t.PartialSyncSample = &v
		case typeStsc:
			if t.SampleToChunk != nil {
				return badFormat(typ, offset, "duplicate stsc")
			}
			if _, _, err := readHeader(s); err != nil {
				return err
			}
			v, err := readSampleToChunk(s, body, offset)
			if err != nil {
				return err
			}
			t.SampleToChunk = &v
		case typeStsz:
			if t.SampleSize != nil {
				return badFormat(typ, offset, "duplicate stsz")
			}
			if _, _, err := readHeader(s); err != nil {
				return err
			}
			v, err := readSampleSize(s, body, offset)
			if err != nil {
				return err
			}
			t.SampleSize = &v
		case typeStco:
			if t.ChunkOffset != nil {
				return badFormat(typ, offset, "duplicate stco")
			}
			if _, _, err := readHeader(s); err != nil {
				return err
			}
			v, err := readChunkOffset(s, body, offset)
			if err != nil {
				return err
			}
			t.ChunkOffset = &v
		case typeSdtp:
			if t.SampleDependencyFlags != nil {
				return badFormat(typ, offset, "duplicate sdtp")
			}
			if _, _, err := readHeader(s); err != nil {
				return err
			}
			v, err := readSampleDependencyFlags(s, body, offset)
			if err != nil {
				return err
			}
			t.SampleDependencyFlags = &v
		default:
			var uerr error
			t.Unknown, uerr = appendUnknown(t.Unknown, s, size, maxUserDataItems)
			return uerr
		}
		return nil
	})
	if err != nil {
		return SampleTable{}, err
	}
	if !sawStsd {
		return SampleTable{}, badFormat(typeStbl, -1, "stbl missing required stsd")
	}
	if !sawStts {
		return SampleTable{}, badFormat(typeStbl, -1, "stbl missing required stts")
	}
	return t, nil
}
