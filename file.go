package qtff

import (
	stderrors "errors"
	"io"

	"ktkr.us/pkg/qtff/atomio"
)

// Option configures optional, non-default behavior of ReadFile (spec §4.G,
// §9 Open Questions).
type Option func(*config)

type config struct {
	lenientZeroSize bool
}

// WithLenientZeroSize allows a top-level atom's short size field to read 0,
// meaning "extends to the end of the stream", matching how some real-world
// QuickTime writers emit a final `mdat`. Without this option such an atom
// is rejected as BadFormat (the decoder has no other way to bound it).
func WithLenientZeroSize() Option {
	return func(c *config) { c.lenientZeroSize = true }
}

// ReadFile reads a complete movie file from s: a sequence of top-level
// atoms from the current position to the stream's end, holding at most one
// `ftyp` (optional, accepted in any position) and exactly one `moov`
// (spec §4.G). Unrecognized top-level atoms are preserved in
// MovieFile.Unknown.
func ReadFile(s atomio.Stream, opts ...Option) (*MovieFile, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	var mf MovieFile
	var sawFtyp, sawMoov bool
	for {
		offset, err := s.Tell()
		if err != nil {
			return nil, err
		}

		var size uint64
		var typ FourCC
		if cfg.lenientZeroSize {
			size, typ, err = peekHeaderLenient(s)
		} else {
			size, typ, err = peekHeader(s)
		}
		if err != nil {
			if stderrors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}

		switch typ {
		case typeFtyp:
			if sawFtyp {
				return nil, badFormat(typ, offset, "duplicate ftyp")
			}
			if _, _, err := consumeHeader(s, cfg, size); err != nil {
				return nil, err
			}
			ft, err := readFileType(s, size-headerSize(size), offset)
			if err != nil {
				return nil, err
			}
			mf.FileType = &ft
			sawFtyp = true
		case typeMoov:
			if sawMoov {
				return nil, badFormat(typ, offset, "duplicate moov")
			}
			mv, err := readMoov(s, size)
			if err != nil {
				return nil, err
			}
			mf.Movie = mv
			sawMoov = true
		case typeMdat:
			if len(mf.MovieData) >= maxMovieDataAtoms {
				return nil, outOfMemory(typ, offset, "mdat count exceeds limit %d", maxMovieDataAtoms)
			}
			if _, _, err := consumeHeader(s, cfg, size); err != nil {
				return nil, err
			}
			data, err := readBodyBytes(s, size-headerSize(size))
			if err != nil {
				return nil, err
			}
			mf.MovieData = append(mf.MovieData, MovieData{Data: data})
		case typeFree:
			if len(mf.Free) >= maxFreeAtoms {
				return nil, outOfMemory(typ, offset, "free count exceeds limit %d", maxFreeAtoms)
			}
			if _, _, err := consumeHeader(s, cfg, size); err != nil {
				return nil, err
			}
			data, err := readBodyBytes(s, size-headerSize(size))
			if err != nil {
				return nil, err
			}
			mf.Free = append(mf.Free, Free{Data: data})
		case typeSkip:
			if len(mf.Skip) >= maxSkipAtoms {
				return nil, outOfMemory(typ, offset, "skip count exceeds limit %d", maxSkipAtoms)
			}
			if _, _, err := consumeHeader(s, cfg, size); err != nil {
				return nil, err
			}
			data, err := readBodyBytes(s, size-headerSize(size))
			if err != nil {
				return nil, err
			}
			mf.Skip = append(mf.Skip, Skip{Data: data})
		case typeWide:
			if len(mf.Wide) >= maxWideAtoms {
				return nil, outOfMemory(typ, offset, "wide count exceeds limit %d", maxWideAtoms)
			}
			if _, _, err := consumeHeader(s, cfg, size); err != nil {
				return nil, err
			}
			data, err := readBodyBytes(s, size-headerSize(size))
			if err != nil {
				return nil, err
			}
			mf.Wide = append(mf.Wide, Wide{Data: data})
		case typePnot:
			if mf.Preview != nil {
				return nil, badFormat(typ, offset, "duplicate pnot")
			}
			if _, _, err := consumeHeader(s, cfg, size); err != nil {
				return nil, err
			}
			p, err := readPreview(s, size-headerSize(size), offset)
			if err != nil {
				return nil, err
			}
			mf.Preview = &p
		default:
			var uerr error
			mf.Unknown, uerr = appendUnknown(mf.Unknown, s, size, maxMovieDataAtoms)
			if uerr != nil {
				return nil, uerr
			}
		}
	}

	if !sawMoov {
		return nil, badFormat(typeMoov, -1, "file missing required moov")
	}
	return &mf, nil
}

// consumeHeader advances past a header already inspected via peekHeader or
// peekHeaderLenient, re-reading it with the same leniency so a lenient
// size-0 atom is consumed consistently.
func consumeHeader(s atomio.Stream, cfg config, peekedSize uint64) (uint64, FourCC, error) {
	if cfg.lenientZeroSize {
		return readHeaderLenient(s)
	}
	return readHeader(s)
}

// WriteFile serializes mf to s as a sequence of top-level atoms in spec
// §4.G's mandated deterministic order: ftyp, moov, each movie-data atom,
// then free/skip/wide padding, then the optional preview (spec §4.G writes
// back whatever MovieFile.Unknown preserved, appended at the end).
func WriteFile(s atomio.Stream, mf *MovieFile) error {
	if mf.FileType != nil {
		if err := writeFileType(s, *mf.FileType); err != nil {
			return err
		}
	}
	if err := writeMoov(s, mf.Movie); err != nil {
		return err
	}
	for _, md := range mf.MovieData {
		if err := writeHeader(s, sizeOfHeader(uint64(len(md.Data))), typeMdat); err != nil {
			return err
		}
		if err := s.Write(md.Data); err != nil {
			return err
		}
	}
	for _, f := range mf.Free {
		if err := writeHeader(s, sizeOfHeader(uint64(len(f.Data))), typeFree); err != nil {
			return err
		}
		if err := s.Write(f.Data); err != nil {
			return err
		}
	}
	for _, sk := range mf.Skip {
		if err := writeHeader(s, sizeOfHeader(uint64(len(sk.Data))), typeSkip); err != nil {
			return err
		}
		if err := s.Write(sk.Data); err != nil {
			return err
		}
	}
	for _, w := range mf.Wide {
		if err := writeHeader(s, sizeOfHeader(uint64(len(w.Data))), typeWide); err != nil {
			return err
		}
		if err := s.Write(w.Data); err != nil {
			return err
		}
	}
	if mf.Preview != nil {
		if err := writePreview(s, *mf.Preview); err != nil {
			return err
		}
	}
	for _, u := range mf.Unknown {
		if err := writeUnknownChild(s, u); err != nil {
			return err
		}
	}
	return nil
}

func writeUnknownChild(s atomio.Stream, u UnknownChild) error {
	if err := writeHeader(s, u.size(), u.Type); err != nil {
		return err
	}
	return s.Write(u.Body)
}
