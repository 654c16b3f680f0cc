// Package atomio implements the positioned byte-stream abstraction and the
// width-aware big-endian primitive codec that the QTFF atom grammar is built
// on top of. It knows nothing about atoms, 4CCs, or container structure;
// it only reads and writes fixed-width integers and fixed-point rationals
// at an absolute or relative stream position.
package atomio

import (
	"io"

	"github.com/pkg/errors"
)

// ErrEOF is returned when a read could not be satisfied because the stream
// ended before the requested number of bytes were available. It wraps
// io.EOF so callers using errors.Is(err, io.EOF) keep working.
var ErrEOF = errors.Wrap(io.EOF, "atomio: short read")

// Stream is the one external collaborator the codec requires: a positioned
// byte stream over a file, an in-memory buffer, or any other medium.
//
// Implementations need not be safe for concurrent use; the codec drives a
// single Stream synchronously from one goroutine (see spec §5).
type Stream interface {
	// Read returns exactly n bytes from the current position and advances
	// it by n. It returns ErrEOF if fewer than n bytes remain.
	Read(n int) ([]byte, error)
	// Write appends p at the current position and advances it by len(p).
	Write(p []byte) error
	// Tell returns the current absolute position.
	Tell() (int64, error)
	// SeekAbsolute moves the current position to pos.
	SeekAbsolute(pos int64) error
	// SeekRelative moves the current position by delta, which may be
	// negative.
	SeekRelative(delta int64) error
	// Len returns the total length of the underlying medium, independent of
	// the current position. Used by the lenient "rest of stream" size-0
	// handling (see WithLenientZeroSize).
	Len() (int64, error)
}

// ReadWriteSeeker is the subset of an os.File-like medium that MemStream and
// FileStream both adapt to the Stream interface.
type ReadWriteSeeker interface {
	io.Reader
	io.Writer
	io.Seeker
}

// FileStream adapts any io.ReadWriteSeeker (an *os.File, for instance) to
// Stream.
type FileStream struct {
	rws ReadWriteSeeker
}

// NewFileStream wraps rws as a Stream.
func NewFileStream(rws ReadWriteSeeker) *FileStream {
	return &FileStream{rws: rws}
}

func (s *FileStream) Read(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	read, err := io.ReadFull(s.rws, buf)
	if err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return nil, errors.Wrapf(ErrEOF, "wanted %d bytes, got %d", n, read)
		}
		return nil, errors.Wrap(err, "atomio: read")
	}
	return buf, nil
}

func (s *FileStream) Write(p []byte) error {
	_, err := s.rws.Write(p)
	if err != nil {
		return errors.Wrap(err, "atomio: write")
	}
	return nil
}

func (s *FileStream) Tell() (int64, error) {
	pos, err := s.rws.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, errors.Wrap(err, "atomio: tell")
	}
	return pos, nil
}

func (s *FileStream) SeekAbsolute(pos int64) error {
	_, err := s.rws.Seek(pos, io.SeekStart)
	if err != nil {
		return errors.Wrap(err, "atomio: seek absolute")
	}
	return nil
}

func (s *FileStream) SeekRelative(delta int64) error {
	_, err := s.rws.Seek(delta, io.SeekCurrent)
	if err != nil {
		return errors.Wrap(err, "atomio: seek relative")
	}
	return nil
}

func (s *FileStream) Len() (int64, error) {
	cur, err := s.rws.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, errors.Wrap(err, "atomio: len")
	}
	end, err := s.rws.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, errors.Wrap(err, "atomio: len")
	}
	if _, err := s.rws.Seek(cur, io.SeekStart); err != nil {
		return 0, errors.Wrap(err, "atomio: len")
	}
	return end, nil
}

// MemStream is a Stream backed by an in-memory byte slice, used by tests
// and by callers decoding an already fully-buffered file.
type MemStream struct {
	buf []byte
	pos int64
}

// NewMemStream creates a Stream over buf. Reads and seeks operate within
// buf; writes append to and overwrite buf as needed.
func NewMemStream(buf []byte) *MemStream {
	return &MemStream{buf: buf}
}

// Bytes returns the current contents of the buffer.
func (s *MemStream) Bytes() []byte {
	return s.buf
}

func (s *MemStream) Read(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	if s.pos < 0 || s.pos+int64(n) > int64(len(s.buf)) {
		return nil, errors.Wrapf(ErrEOF, "wanted %d bytes at %d, have %d", n, s.pos, len(s.buf))
	}
	out := make([]byte, n)
	copy(out, s.buf[s.pos:s.pos+int64(n)])
	s.pos += int64(n)
	return out, nil
}

func (s *MemStream) Write(p []byte) error {
	end := s.pos + int64(len(p))
	if end > int64(len(s.buf)) {
		grown := make([]byte, end)
		copy(grown, s.buf)
		s.buf = grown
	}
	copy(s.buf[s.pos:end], p)
	s.pos = end
	return nil
}

func (s *MemStream) Tell() (int64, error) {
	return s.pos, nil
}

func (s *MemStream) SeekAbsolute(pos int64) error {
	if pos < 0 {
		return errors.Errorf("atomio: negative seek position %d", pos)
	}
	s.pos = pos
	return nil
}

func (s *MemStream) SeekRelative(delta int64) error {
	return s.SeekAbsolute(s.pos + delta)
}

func (s *MemStream) Len() (int64, error) {
	return int64(len(s.buf)), nil
}
