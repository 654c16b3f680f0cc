// Package qtff reads and writes QuickTime File Format (QTFF) movie files —
// the container format that is a superset of the ISO Base Media File Format
// used by MP4. It is a bidirectional codec between a flat byte stream (see
// ktkr.us/pkg/qtff/atomio) and a strongly-typed in-memory tree of atoms.
//
// The package does not decode audio or video sample data; sample bytes are
// passed through as opaque ranges. It does not repair malformed files:
// structural violations are reported as a *qtff.Error.
package qtff

import (
	"ktkr.us/pkg/qtff/atomio"
)

// FourCC is a four-character atom type code. Equality is byte-wise; the
// bytes are kept in the order they appear on the wire.
type FourCC [4]byte

func (t FourCC) String() string {
	return string(t[:])
}

// fourCC builds a FourCC from a string literal, panicking if s is not
// exactly four bytes. Used only for the package's own constant table.
func fourCC(s string) FourCC {
	if len(s) != 4 {
		panic("qtff: four-character code must be 4 bytes: " + s)
	}
	var t FourCC
	copy(t[:], s)
	return t
}

// VersionFlags is the one-byte version followed by 24-bit flags field that
// prefixes every "full box" leaf atom, always written big-endian.
type VersionFlags struct {
	Version uint8
	Flags   uint32 // low 24 bits significant
}

func readVersionFlags(s atomio.Stream) (VersionFlags, error) {
	v, err := atomio.ReadU8(s)
	if err != nil {
		return VersionFlags{}, err
	}
	f, err := atomio.ReadU24(s)
	if err != nil {
		return VersionFlags{}, err
	}
	return VersionFlags{Version: v, Flags: f}, nil
}

func writeVersionFlags(s atomio.Stream, vf VersionFlags) error {
	if err := atomio.WriteU8(s, vf.Version); err != nil {
		return err
	}
	return atomio.WriteU24(s, vf.Flags)
}

// Rect is four 16-bit unsigned coordinates: top, left, bottom, right.
type Rect struct {
	Top, Left, Bottom, Right uint16
}

func readRect(s atomio.Stream) (Rect, error) {
	var r Rect
	var err error
	if r.Top, err = atomio.ReadU16(s); err != nil {
		return Rect{}, err
	}
	if r.Left, err = atomio.ReadU16(s); err != nil {
		return Rect{}, err
	}
	if r.Bottom, err = atomio.ReadU16(s); err != nil {
		return Rect{}, err
	}
	if r.Right, err = atomio.ReadU16(s); err != nil {
		return Rect{}, err
	}
	return r, nil
}

func writeRect(s atomio.Stream, r Rect) error {
	for _, v := range []uint16{r.Top, r.Left, r.Bottom, r.Right} {
		if err := atomio.WriteU16(s, v); err != nil {
			return err
		}
	}
	return nil
}

const rectSize = 8

// Region is a QuickDraw region: a 16-bit size, a Rect, then size-10 opaque
// bytes whose structure this core does not interpret.
type Region struct {
	Rect Rect
	Data []byte
}

// size returns the on-disk size of the region, including its own 2-byte
// size field.
func (r Region) size() uint64 {
	return 2 + rectSize + uint64(len(r.Data))
}

func readRegion(s atomio.Stream) (Region, error) {
	size, err := atomio.ReadU16(s)
	if err != nil {
		return Region{}, err
	}
	if int(size) < 2+rectSize {
		return Region{}, badFormat(FourCC{}, -1, "region size %d smaller than fixed prefix", size)
	}
	rect, err := readRect(s)
	if err != nil {
		return Region{}, err
	}
	data, err := s.Read(int(size) - 2 - rectSize)
	if err != nil {
		return Region{}, err
	}
	return Region{Rect: rect, Data: data}, nil
}

func writeRegion(s atomio.Stream, r Region) error {
	if err := atomio.WriteU16(s, uint16(r.size())); err != nil {
		return err
	}
	if err := writeRect(s, r.Rect); err != nil {
		return err
	}
	return s.Write(r.Data)
}

// Matrix3x3 is nine 32-bit values in row-major order — the QuickTime
// transformation matrix used by movie and track headers.
type Matrix3x3 [9]uint32

// IdentityMatrix is the canonical untransformed matrix
// { 1,0,0, 0,1,0, 0,0,0x40000000 } in 16.16 fixed point (unity, with the
// last column shifted to Q2.30).
var IdentityMatrix = Matrix3x3{
	0x00010000, 0, 0,
	0, 0x00010000, 0,
	0, 0, 0x40000000,
}

func readMatrix(s atomio.Stream) (Matrix3x3, error) {
	var m Matrix3x3
	for i := range m {
		v, err := atomio.ReadU32(s)
		if err != nil {
			return Matrix3x3{}, err
		}
		m[i] = v
	}
	return m, nil
}

func writeMatrix(s atomio.Stream, m Matrix3x3) error {
	for _, v := range m {
		if err := atomio.WriteU32(s, v); err != nil {
			return err
		}
	}
	return nil
}

const matrixSize = 36
