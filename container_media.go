package qtff

import (
	"ktkr.us/pkg/qtff/atomio"
)

// readMdia reads the `mdia` container. A `hdlr` child must precede `minf`
// so its component-subtype can select the MediaInformation variant; a
// `minf` with no preceding `hdlr` is BadFormat (SPEC_FULL.md Open
// Question decision).
func readMdia(s atomio.Stream, declaredSize uint64) (Media, error) {
	bodySize, _, err := readBody(s, declaredSize)
	if err != nil {
		return Media{}, err
	}
	var m Media
	var sawMdhd, sawHdlr bool
	var hdlrSubtype FourCC
	err = walkChildren(s, typeMdia, bodySize, func(size uint64, typ FourCC, offset int64) error {
		body := size - headerSize(size)
		switch typ {
		case typeMdhd:
			if sawMdhd {
				return badFormat(typ, offset, "duplicate mdhd")
			}
			if _, _, err := readHeader(s); err != nil {
				return err
			}
			h, err := readMediaHeader(s, body, offset)
			if err != nil {
				return err
			}
			m.MediaHeader = h
			sawMdhd = true
		case typeElng:
			if m.ExtendedLanguageTag != nil {
				return badFormat(typ, offset, "duplicate elng")
			}
			if _, _, err := readHeader(s); err != nil {
				return err
			}
			e, err := readExtendedLanguageTag(s, body, offset)
			if err != nil {
				return err
			}
			m.ExtendedLanguageTag = &e
		case typeHdlr:
			if sawHdlr {
				return badFormat(typ, offset, "duplicate hdlr")
			}
			if _, _, err := readHeader(s); err != nil {
				return err
			}
			h, err := readHandlerReference(s, body, offset)
			if err != nil {
				return err
			}
			m.HandlerReference = &h
			hdlrSubtype = h.ComponentSubtype
			sawHdlr = true
		case typeMinf:
			if !sawHdlr {
				return badFormat(typ, offset, "minf encountered before hdlr")
			}
			if m.MediaInformation != nil {
				return badFormat(typ, offset, "duplicate minf")
			}
			if _, _, err := readHeader(s); err != nil {
				return err
			}
			mi, err := readMediaInformation(s, body, offset, hdlrSubtype)
			if err != nil {
				return err
			}
			m.MediaInformation = &mi
		case typeUdta:
			if m.UserData != nil {
				return badFormat(typ, offset, "duplicate udta")
			}
			if _, _, err := readHeader(s); err != nil {
				return err
			}
			u, err := readUdtaBody(s, body)
			if err != nil {
				return err
			}
			m.UserData = &u
		default:
			var uerr error
			m.Unknown, uerr = appendUnknown(m.Unknown, s, size, maxUserDataItems)
			return uerr
		}
		return nil
	})
	if err != nil {
		return Media{}, err
	}
	if !sawMdhd {
		return Media{}, badFormat(typeMdia, -1, "mdia missing required mdhd")
	}
	if !sawHdlr {
		return Media{}, badFormat(typeMdia, -1, "mdia missing required hdlr")
	}
	if m.MediaInformation == nil {
		return Media{}, badFormat(typeMdia, -1, "mdia missing required minf")
	}
	return m, nil
}

func readMediaInformation(s atomio.Stream, bodySize uint64, offset int64, subtype FourCC) (MediaInformation, error) {
	switch subtype {
	case subtypeVideo:
		v, err := readVideoMediaInformation(s, bodySize)
		if err != nil {
			return MediaInformation{}, err
		}
		return MediaInformation{Video: &v}, nil
	case subtypeSound:
		v, err := readSoundMediaInformation(s, bodySize)
		if err != nil {
			return MediaInformation{}, err
		}
		return MediaInformation{Sound: &v}, nil
	default:
		v, err := readBaseMediaInformation(s, bodySize, offset)
		if err != nil {
			return MediaInformation{}, err
		}
		return MediaInformation{Base: &v}, nil
	}
}

func readVideoMediaInformation(s atomio.Stream, bodySize uint64) (VideoMediaInformation, error) {
	var v VideoMediaInformation
	var sawVmhd, sawStbl bool
	err := walkChildren(s, typeMinf, bodySize, func(size uint64, typ FourCC, offset int64) error {
		body := size - headerSize(size)
		switch typ {
		case typeVmhd:
			if sawVmhd {
				return badFormat(typ, offset, "duplicate vmhd")
			}
			if _, _, err := readHeader(s); err != nil {
				return err
			}
			h, err := readVideoMediaHeader(s, body, offset)
			if err != nil {
				return err
			}
			v.Header = h
			sawVmhd = true
		case typeDinf:
			if v.DataInformation != nil {
				return badFormat(typ, offset, "duplicate dinf")
			}
			d, err := readDinf(s, size)
			if err != nil {
				return err
			}
			v.DataInformation = &d
		case typeStbl:
			if sawStbl {
				return badFormat(typ, offset, "duplicate stbl")
			}
			t, err := readStbl(s, size)
			if err != nil {
				return err
			}
			v.SampleTable = t
			sawStbl = true
		case typeUdta:
			if v.UserData != nil {
				return badFormat(typ, offset, "duplicate udta")
			}
			if _, _, err := readHeader(s); err != nil {
				return err
			}
			u, err := readUdtaBody(s, body)
			if err != nil {
				return err
			}
			v.UserData = &u
		default:
			var uerr error
			v.Unknown, uerr = appendUnknown(v.Unknown, s, size, maxUserDataItems)
			return uerr
		}
		return nil
	})
	if err != nil {
		return VideoMediaInformation{}, err
	}
	if !sawVmhd {
		return VideoMediaInformation{}, badFormat(typeMinf, -1, "video minf missing required vmhd")
	}
	if v.DataInformation == nil {
		return VideoMediaInformation{}, badFormat(typeMinf, -1, "video minf missing required dinf")
	}
	if !sawStbl {
		return VideoMediaInformation{}, badFormat(typeMinf, -1, "video minf missing required stbl")
	}
	return v, nil
}

func readSoundMediaInformation(s atomio.Stream, bodySize uint64) (SoundMediaInformation, error) {
	var v SoundMediaInformation
	var sawSmhd, sawStbl bool
	err := walkChildren(s, typeMinf, bodySize, func(size uint64, typ FourCC, offset int64) error {
		body := size - headerSize(size)
		switch typ {
		case typeSmhd:
			if sawSmhd {
				return badFormat(typ, offset, "duplicate smhd")
			}
			if _, _, err := readHeader(s); err != nil {
				return err
			}
			h, err := readSoundMediaHeader(s, body, offset)
			if err != nil {
				return err
			}
			v.Header = h
			sawSmhd = true
		case typeDinf:
			if v.DataInformation != nil {
				return badFormat(typ, offset, "duplicate dinf")
			}
			d, err := readDinf(s, size)
			if err != nil {
				return err
			}
			v.DataInformation = &d
		case typeStbl:
			if sawStbl {
				return badFormat(typ, offset, "duplicate stbl")
			}
			t, err := readStbl(s, size)
			if err != nil {
				return err
			}
			v.SampleTable = t
			sawStbl = true
		case typeUdta:
			if v.UserData != nil {
				return badFormat(typ, offset, "duplicate udta")
			}
			if _, _, err := readHeader(s); err != nil {
				return err
			}
			u, err := readUdtaBody(s, body)
			if err != nil {
				return err
			}
			v.UserData = &u
		default:
			var uerr error
			v.Unknown, uerr = appendUnknown(v.Unknown, s, size, maxUserDataItems)
			return uerr
		}
		return nil
	})
	if err != nil {
		return SoundMediaInformation{}, err
	}
	if !sawSmhd {
		return SoundMediaInformation{}, badFormat(typeMinf, -1, "sound minf missing required smhd")
	}
	if v.DataInformation == nil {
		return SoundMediaInformation{}, badFormat(typeMinf, -1, "sound minf missing required dinf")
	}
	if !sawStbl {
		return SoundMediaInformation{}, badFormat(typeMinf, -1, "sound minf missing required stbl")
	}
	return v, nil
}

func readBaseMediaInformation(s atomio.Stream, bodySize uint64, offset int64) (BaseMediaInformation, error) {
	var v BaseMediaInformation
	var sawGmhd, sawStbl bool
	err := walkChildren(s, typeMinf, bodySize, func(size uint64, typ FourCC, childOffset int64) error {
		body := size - headerSize(size)
		switch typ {
		case typeGmhd:
			if sawGmhd {
				return badFormat(typ, childOffset, "duplicate gmhd")
			}
			h, err := readGmhd(s, size)
			if err != nil {
				return err
			}
			v.Header = h
			sawGmhd = true
		case typeDinf:
			if v.DataInformation != nil {
				return badFormat(typ, childOffset, "duplicate dinf")
			}
			d, err := readDinf(s, size)
			if err != nil {
				return err
			}
			v.DataInformation = &d
		case typeStbl:
			if sawStbl {
				return badFormat(typ, childOffset, "duplicate stbl")
			}
			t, err := readStbl(s, size)
			if err != nil {
				return err
			}
			v.SampleTable = t
			sawStbl = true
		case typeUdta:
			if v.UserData != nil {
				return badFormat(typ, childOffset, "duplicate udta")
			}
			if _, _, err := readHeader(s); err != nil {
				return err
			}
			u, err := readUdtaBody(s, body)
			if err != nil {
				return err
			}
			v.UserData = &u
		default:
			var uerr error
			v.Unknown, uerr = appendUnknown(v.Unknown, s, size, maxUserDataItems)
			return uerr
		}
		return nil
	})
	if err != nil {
		return BaseMediaInformation{}, err
	}
	if !sawGmhd {
		return BaseMediaInformation{}, badFormat(typeMinf, offset, "base minf missing required gmhd")
	}
	if v.DataInformation == nil {
		return BaseMediaInformation{}, badFormat(typeMinf, offset, "base minf missing required dinf")
	}
	if !sawStbl {
		return BaseMediaInformation{}, badFormat(typeMinf, offset, "base minf missing required stbl")
	}
	return v, nil
}

// readGmhd reads the `gmhd` container: a required `gmin` and an optional
// `text` display matrix.
func readGmhd(s atomio.Stream, declaredSize uint64) (BaseMediaHeader, error) {
	bodySize, offset, err := readBody(s, declaredSize)
	if err != nil {
		return BaseMediaHeader{}, err
	}
	var h BaseMediaHeader
	var sawGmin bool
	err = walkChildren(s, typeGmhd, bodySize, func(size uint64, typ FourCC, childOffset int64) error {
		body := size - headerSize(size)
		switch typ {
		case typeGmin:
			if sawGmin {
				return badFormat(typ, childOffset, "duplicate gmin")
			}
			if _, _, err := readHeader(s); err != nil {
				return err
			}
			g, err := readBaseMediaInfo(s, body, childOffset)
			if err != nil {
				return err
			}
			h.Generic = g
			sawGmin = true
		case typeText:
			if h.Text != nil {
				return badFormat(typ, childOffset, "duplicate text")
			}
			if _, _, err := readHeader(s); err != nil {
				return err
			}
			t, err := readBaseTextMediaInfo(s, body, childOffset)
			if err != nil {
				return err
			}
			h.Text = &t
		default:
			return skipChild(s, size)
		}
		return nil
	})
	if err != nil {
		return BaseMediaHeader{}, err
	}
	if !sawGmin {
		return BaseMediaHeader{}, badFormat(typeGmhd, offset, "gmhd missing required gmin")
	}
	return h, nil
}

// readUdtaBody reads a `udta` atom's children given its header has already
// been consumed and bodySize is the remaining byte count.
func readUdtaBody(s atomio.Stream, bodySize uint64) (UserData, error) {
	var u UserData
	err := walkChildren(s, typeUdta, bodySize, func(size uint64, typ FourCC, offset int64) error {
		if len(u.Items) >= maxUserDataItems {
			return outOfMemory(typ, offset, "udta item count exceeds limit %d", maxUserDataItems)
		}
		_, readTyp, err := readHeader(s)
		if err != nil {
			return err
		}
		data, err := readBodyBytes(s, size-headerSize(size))
		if err != nil {
			return err
		}
		u.Items = append(u.Items, UserDataItem{Type: readTyp, Data: data})
		return nil
	})
	return u, err
}
