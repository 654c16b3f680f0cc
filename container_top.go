package qtff

import (
	"ktkr.us/pkg/qtff/atomio"
)

// readTrak reads the `trak` container.
func readTrak(s atomio.Stream, declaredSize uint64) (Track, error) {
	bodySize, _, err := readBody(s, declaredSize)
	if err != nil {
		return Track{}, err
	}
	var t Track
	var sawTkhd, sawMdia bool
	err = walkChildren(s, typeTrak, bodySize, func(size uint64, typ FourCC, offset int64) error {
		body := size - headerSize(size)
		switch typ {
		case typeTkhd:
			if sawTkhd {
				return badFormat(typ, offset, "duplicate tkhd")
			}
			if _, _, err := readHeader(s); err != nil {
				return err
			}
			h, err := readTrackHeader(s, body, offset)
			if err != nil {
				return err
			}
			t.TrackHeader = h
			sawTkhd = true
		case typeTapt:
			if t.TrackApertureModeDimensions != nil {
				return badFormat(typ, offset, "duplicate tapt")
			}
			a, err := readTapt(s, size)
			if err != nil {
				return err
			}
			t.TrackApertureModeDimensions = &a
		case typeClip:
			if t.Clipping != nil {
				return badFormat(typ, offset, "duplicate clip")
			}
			c, err := readClip(s, size)
			if err != nil {
				return err
			}
			t.Clipping = &c
		case typeMatt:
			if t.TrackMatte != nil {
				return badFormat(typ, offset, "duplicate matt")
			}
			m, err := readMatt(s, size)
			if err != nil {
				return err
			}
			t.TrackMatte = &m
		case typeEdts:
			if t.Edit != nil {
				return badFormat(typ, offset, "duplicate edts")
			}
			e, err := readEdts(s, size)
			if err != nil {
				return err
			}
			t.Edit = &e
		case typeTref:
			if t.TrackReference != nil {
				return badFormat(typ, offset, "duplicate tref")
			}
			r, err := readTref(s, size)
			if err != nil {
				return err
			}
			t.TrackReference = &r
		case typeTxas:
			if t.TrackExcludeFromAutoselection != nil {
				return badFormat(typ, offset, "duplicate txas")
			}
			if _, _, err := readHeader(s); err != nil {
				return err
			}
			x, err := readTrackExcludeFromAutoselection(s, body)
			if err != nil {
				return err
			}
			t.TrackExcludeFromAutoselection = &x
		case typeLoad:
			if t.TrackLoadSettings != nil {
				return badFormat(typ, offset, "duplicate load")
			}
			if _, _, err := readHeader(s); err != nil {
				return err
			}
			l, err := readTrackLoadSettings(s, body, offset)
			if err != nil {
				return err
			}
			t.TrackLoadSettings = &l
		case typeImap:
			if t.TrackInputMap != nil {
				return badFormat(typ, offset, "duplicate imap")
			}
			im, err := readImap(s, size)
			if err != nil {
				return err
			}
			t.TrackInputMap = &im
		case typeMdia:
			if sawMdia {
				return badFormat(typ, offset, "duplicate mdia")
			}
			m, err := readMdia(s, size)
			if err != nil {
				return err
			}
			t.Media = m
			sawMdia = true
		case typeUdta:
			if t.UserData != nil {
				return badFormat(typ, offset, "duplicate udta")
			}
			if _, _, err := readHeader(s); err != nil {
				return err
			}
			u, err := readUdtaBody(s, body)
			if err != nil {
				return err
			}
			t.UserData = &u
		default:
			var uerr error
			t.Unknown, uerr = appendUnknown(t.Unknown, s, size, maxUserDataItems)
			return uerr
		}
		return nil
	})
	if err != nil {
		return Track{}, err
	}
	if !sawTkhd {
		return Track{}, badFormat(typeTrak, -1, "trak missing required tkhd")
	}
	if !sawMdia {
		return Track{}, badFormat(typeTrak, -1, "trak missing required mdia")
	}
	return t, nil
}

// readMoov reads the `moov` container.
func readMoov(s atomio.Stream, declaredSize uint64) (Movie, error) {
	bodySize, _, err := readBody(s, declaredSize)
	if err != nil {
		return Movie{}, err
	}
	var m Movie
	var sawMvhd bool
	err = walkChildren(s, typeMoov, bodySize, func(size uint64, typ FourCC, offset int64) error {
		body := size - headerSize(size)
		switch typ {
		case typeMvhd:
			if sawMvhd {
				return badFormat(typ, offset, "duplicate mvhd")
			}
			if _, _, err := readHeader(s); err != nil {
				return err
			}
			h, err := readMovieHeader(s, body, offset)
			if err != nil {
				return err
			}
			m.MovieHeader = h
			sawMvhd = true
		case typeTrak:
			if len(m.Tracks) >= maxTracks {
				return outOfMemory(typ, offset, "track count exceeds limit %d", maxTracks)
			}
			t, err := readTrak(s, size)
			if err != nil {
				return err
			}
			m.Tracks = append(m.Tracks, t)
		case typeClip:
			if m.Clipping != nil {
				return badFormat(typ, offset, "duplicate clip")
			}
			c, err := readClip(s, size)
			if err != nil {
				return err
			}
			m.Clipping = &c
		case typeCtab:
			if m.ColorTable != nil {
				return badFormat(typ, offset, "duplicate ctab")
			}
			if _, _, err := readHeader(s); err != nil {
				return err
			}
			ct, err := readColorTable(s, body, offset)
			if err != nil {
				return err
			}
			m.ColorTable = &ct
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
		return Movie{}, err
	}
	if !sawMvhd {
		return Movie{}, badFormat(typeMoov, -1, "moov missing required mvhd")
	}
	return m, nil
}
