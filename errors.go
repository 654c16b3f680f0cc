package qtff

import (
	stderrors "errors"
	"fmt"

	"github.com/pkg/errors"
)

// Kind is the closed enumeration of structural error categories a reader or
// writer can fail with (spec §7).
type Kind int

const (
	// EndOfStream means the stream ended before the structural read that
	// was in progress could complete.
	EndOfStream Kind = iota
	// IoError means the underlying stream reported a device or position
	// error.
	IoError
	// BadFormat means a structural violation: wrong tag, inconsistent size
	// accounting, a missing required child, a duplicate singleton, a zero
	// or negative effective size, or a conflicting component-subtype.
	BadFormat
	// OutOfMemory means a declared count exceeds its capacity bound.
	OutOfMemory
)

func (k Kind) String() string {
	switch k {
	case EndOfStream:
		return "end of stream"
	case IoError:
		return "io error"
	case BadFormat:
		return "bad format"
	case OutOfMemory:
		return "out of memory"
	default:
		return "unknown error"
	}
}

// Error is the structured value the core's own structural checks fail with
// (BadFormat and OutOfMemory). It carries enough context — the 4CC being
// processed and the stream offset at the point of failure — to diagnose
// malformed input without the core doing any logging of its own (spec §7).
// A failure of the underlying stream (a short read, a seek or write error)
// is returned as the stream's own error, not as an *Error, so the core
// never builds an Error of kind EndOfStream or IoError; a short read can be
// recognized with errors.Is(err, io.EOF).
type Error struct {
	Kind   Kind
	Type   FourCC
	Offset int64
	msg    string
}

func (e *Error) Error() string {
	if e.Type == (FourCC{}) {
		return fmt.Sprintf("qtff: %s at offset %d: %s", e.Kind, e.Offset, e.msg)
	}
	return fmt.Sprintf("qtff: %s: atom %q at offset %d: %s", e.Kind, e.Type, e.Offset, e.msg)
}

// newErr constructs an *Error and immediately wraps it with a stack trace
// via github.com/pkg/errors, matching the teacher's convention of
// constructing sentinel-shaped errors through the errors package rather
// than the stdlib errors package.
func newErr(kind Kind, typ FourCC, offset int64, format string, args ...interface{}) error {
	return errors.WithStack(&Error{
		Kind:   kind,
		Type:   typ,
		Offset: offset,
		msg:    fmt.Sprintf(format, args...),
	})
}

func badFormat(typ FourCC, offset int64, format string, args ...interface{}) error {
	return newErr(BadFormat, typ, offset, format, args...)
}

func outOfMemory(typ FourCC, offset int64, format string, args ...interface{}) error {
	return newErr(OutOfMemory, typ, offset, format, args...)
}

// AsError unwraps err (which may have been wrapped by errors.Wrap along a
// call chain) down to the *Error the core produced, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}
