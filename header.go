package qtff

import (
	"ktkr.us/pkg/qtff/atomio"
)

const (
	shortHeaderSize    = 8
	extendedHeaderSize = 16
	maxShortSize       = 1<<32 - 1
)

// readHeader consumes the 8- or 16-byte atom prelude at the stream's current
// position: a 32-bit size, a 4CC type, and (when the short size field reads
// 1) a 64-bit extended size. It validates that the declared size is large
// enough to contain the header it came from (spec §4.C).
func readHeader(s atomio.Stream) (size uint64, typ FourCC, err error) {
	offset, _ := s.Tell()

	szBytes, err := atomio.ReadU32(s)
	if err != nil {
		return 0, FourCC{}, err
	}

	var t FourCC
	tb, err := s.Read(4)
	if err != nil {
		return 0, FourCC{}, err
	}
	copy(t[:], tb)

	size = uint64(szBytes)
	if size == 1 {
		ext, err := atomio.ReadU64(s)
		if err != nil {
			return 0, FourCC{}, err
		}
		if ext < extendedHeaderSize {
			return 0, FourCC{}, badFormat(t, offset, "extended size %d smaller than extended header (%d)", ext, extendedHeaderSize)
		}
		return ext, t, nil
	}

	if size == 0 {
		return 0, FourCC{}, badFormat(t, offset, "size 0 (\"rest of file\") is rejected; see WithLenientZeroSize")
	}
	if size < shortHeaderSize {
		return 0, FourCC{}, badFormat(t, offset, "size %d smaller than short header (%d)", size, shortHeaderSize)
	}
	return size, t, nil
}

// readHeaderLenient behaves like readHeader except that a short size field
// of 0 is accepted as "extends to the end of the stream" rather than
// rejected, per WithLenientZeroSize. It is only meaningful for an atom
// whose end is the end of the whole stream, so only the top-level file
// loop uses it; a size-0 child nested inside a container is still
// BadFormat, since its true extent is genuinely ambiguous against the
// parent's declared size.
func readHeaderLenient(s atomio.Stream) (size uint64, typ FourCC, err error) {
	offset, err := s.Tell()
	if err != nil {
		return 0, FourCC{}, err
	}
	szBytes, err := atomio.ReadU32(s)
	if err != nil {
		return 0, FourCC{}, err
	}
	var t FourCC
	tb, err := s.Read(4)
	if err != nil {
		return 0, FourCC{}, err
	}
	copy(t[:], tb)

	if szBytes != 0 {
		if err := s.SeekAbsolute(offset); err != nil {
			return 0, FourCC{}, err
		}
		return readHeader(s)
	}

	total, err := s.Len()
	if err != nil {
		return 0, FourCC{}, err
	}
	return uint64(total - offset), t, nil
}

// peekHeader behaves like readHeader but restores the stream's position
// afterward, so callers can inspect the next atom's tag and size without
// committing to reading its body.
func peekHeader(s atomio.Stream) (size uint64, typ FourCC, err error) {
	start, err := s.Tell()
	if err != nil {
		return 0, FourCC{}, err
	}
	size, typ, err = readHeader(s)
	if seekErr := s.SeekAbsolute(start); seekErr != nil && err == nil {
		return 0, FourCC{}, seekErr
	}
	return size, typ, err
}

// peekHeaderLenient behaves like peekHeader but using readHeaderLenient,
// for the top-level file loop under WithLenientZeroSize.
func peekHeaderLenient(s atomio.Stream) (size uint64, typ FourCC, err error) {
	start, err := s.Tell()
	if err != nil {
		return 0, FourCC{}, err
	}
	size, typ, err = readHeaderLenient(s)
	if seekErr := s.SeekAbsolute(start); seekErr != nil && err == nil {
		return 0, FourCC{}, seekErr
	}
	return size, typ, err
}

// writeHeader emits the atom prelude for a body that (including the header
// itself) serializes to size bytes total, choosing the short 8-byte form
// when it fits in 32 bits and the extended 16-byte form otherwise.
func writeHeader(s atomio.Stream, size uint64, typ FourCC) error {
	if size <= maxShortSize {
		if err := atomio.WriteU32(s, uint32(size)); err != nil {
			return err
		}
		return s.Write(typ[:])
	}
	if err := atomio.WriteU32(s, 1); err != nil {
		return err
	}
	if err := s.Write(typ[:]); err != nil {
		return err
	}
	return atomio.WriteU64(s, size)
}

// headerSize returns the number of header bytes writeHeader will emit for
// a total atom size of size bytes.
func headerSize(size uint64) uint64 {
	if size <= maxShortSize {
		return shortHeaderSize
	}
	return extendedHeaderSize
}

// sizeOfHeader returns the total on-disk atom size for a body of the given
// size, choosing the header width the same way writeHeader does (spec
// §4.H: size_of_header).
func sizeOfHeader(bodySize uint64) uint64 {
	if bodySize+shortHeaderSize <= maxShortSize {
		return bodySize + shortHeaderSize
	}
	return bodySize + extendedHeaderSize
}
