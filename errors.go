// Copyright 2024 welog authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package welog

import (
	"errors"
	"fmt"
)

// Error taxonomy (spec §7). Primitive codecs and envelope walkers return or
// wrap one of these sentinels; callers use errors.Is to branch on kind.
var (
	// ErrEOF marks a clean end of stream during an expected-optional read.
	// Loops that iterate until exhaustion terminate on ErrEOF without
	// treating it as failure.
	ErrEOF = errors.New("welog: clean end of stream")

	// ErrTruncated marks a short read inside a declared-length region: the
	// stream ended before a record/segment/field that claimed to extend
	// further. Never recovered automatically.
	ErrTruncated = errors.New("welog: truncated record")

	// ErrIO marks a failure of the underlying stream's read/seek.
	ErrIO = errors.New("welog: stream I/O error")

	// ErrInconsistent marks bit-valid content that violates the standard's
	// own constraints (e.g. a non-"V1.00" SUL version). Usually logged and
	// recovered at MINOR/MAJOR severity rather than propagated.
	ErrInconsistent = errors.New("welog: inconsistent with format")

	// ErrUnexpectedValue marks an enum/tag byte outside its defined range.
	ErrUnexpectedValue = errors.New("welog: unexpected value")

	// ErrBadSize marks a computed length that exceeds its container, e.g.
	// claimed pad bytes larger than the segment body.
	ErrBadSize = errors.New("welog: computed size exceeds container")

	// ErrNotImplemented marks a feature recognized but intentionally not
	// handled by the core (e.g. decrypting an encrypted record).
	ErrNotImplemented = errors.New("welog: not implemented")

	// ErrNotFound marks an exhausted search (SUL/VRL signature hunting).
	ErrNotFound = errors.New("welog: not found")

	// ErrInvalidArgs marks a caller-supplied argument outside its valid
	// domain (e.g. seeking to a negative offset).
	ErrInvalidArgs = errors.New("welog: invalid argument")
)

// ParseError decorates a sentinel with the byte offset and context at which
// it occurred, so a diagnostic or log line can point at the exact spot in
// the file without every call site hand-building its own message.
type ParseError struct {
	Op     string // what the parser was doing, e.g. "dlis: read LRSH"
	Offset int64  // logical tell at which the error was detected, -1 if n/a
	Err    error  // one of the sentinels above, or a wrapped stdlib error
}

func (e *ParseError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset %d: %v", e.Op, e.Offset, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// wrapErr builds a *ParseError rooted at the given sentinel.
func wrapErr(op string, offset int64, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Op: op, Offset: offset, Err: err}
}
