// Copyright 2024 welog authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package welog

import (
	"io"
)

// Stream is the layered byte-source abstraction every envelope walker reads
// through (spec §3). Implementations stack: a rawStream backed by an mmap
// gives the physical byte offsets of a file; a tapeImageStream strips a
// leading tape mark from that. No layer strips Visible Record Labels: the
// DLIS walkers (FindOffsets, ExtractRecord) read logical record segment
// headers directly from the stream they are given.
//
// Ltell ("logical tell") reports the offset in the stream this layer
// presents to its caller. Ptell ("physical tell") reports the offset in the
// innermost raw layer, which is what AbsoluteTell threads through every
// wrapping layer (grounded on stream::absolute_tell in the original, which
// walks nested lfp_peek layers until it reaches LFP_LEAF_PROTOCOL).
type Stream interface {
	Read(p []byte) (n int, err error)
	Seek(offset int64, whence int) (int64, error)
	Ltell() int64
	Ptell() int64
	EOF() bool
	Close() error
}

// rawStream is the innermost layer: a flat byte slice (normally an mmap'd
// file) with no framing of its own. Ptell and Ltell always agree here.
type rawStream struct {
	data []byte
	off  int64
	mm   io.Closer
}

func newRawStream(data []byte, closer io.Closer) *rawStream {
	return &rawStream{data: data, mm: closer}
}

func (s *rawStream) Read(p []byte) (int, error) {
	if s.off >= int64(len(s.data)) {
		return 0, io.EOF
	}
	n := copy(p, s.data[s.off:])
	s.off += int64(n)
	return n, nil
}

func (s *rawStream) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = s.off + offset
	case io.SeekEnd:
		abs = int64(len(s.data)) + offset
	default:
		return 0, wrapErr("raw stream seek", s.off, ErrInvalidArgs)
	}
	if abs < 0 {
		return 0, wrapErr("raw stream seek", abs, ErrInvalidArgs)
	}
	s.off = abs
	return abs, nil
}

func (s *rawStream) Ltell() int64 { return s.off }
func (s *rawStream) Ptell() int64 { return s.off }
func (s *rawStream) EOF() bool    { return s.off >= int64(len(s.data)) }

func (s *rawStream) Close() error {
	if s.mm != nil {
		return s.mm.Close()
	}
	return nil
}

// readAt returns exactly n bytes starting at raw offset off, without
// moving the stream's current offset, for callers that only want a peek.
func (s *rawStream) readAt(off int64, n int) ([]byte, error) {
	if off < 0 || off+int64(n) > int64(len(s.data)) {
		return nil, wrapErr("raw stream read", off, ErrTruncated)
	}
	return s.data[off : off+int64(n)], nil
}

// tapeMarkSize is the fixed width of a tape-mark framing structure that some
// DLIS/LIS files use to delimit physical tape boundaries (spec §3, Design
// Notes on tape marks). Detection is a supplemented feature grounded on
// hastapemark in lib/src/io.cpp.
const tapeMarkSize = 12

// looksLikeTapeMark reports whether the first 12 bytes of raw match the fixed
// tape-mark pattern: type=0, previous=0, length=0 for a well-formed mark
// preceding a Storage Unit Label.
func looksLikeTapeMark(raw []byte) bool {
	if len(raw) < tapeMarkSize {
		return false
	}
	typ := beUint32(raw[0:4])
	prev := beUint32(raw[4:8])
	length := beUint32(raw[8:12])
	return typ == 0 && prev == 0 && length == 0
}

func beUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// tapeImageStream strips a leading tape mark (if present) from a rawStream,
// presenting the remainder as a logical stream whose offset 0 is the first
// byte after the mark.
type tapeImageStream struct {
	inner *rawStream
	base  int64 // raw offset corresponding to logical offset 0
}

// newTapeImageStream detects and skips a leading tape mark.
func newTapeImageStream(inner *rawStream) *tapeImageStream {
	base := int64(0)
	if raw, err := inner.readAt(0, tapeMarkSize); err == nil && looksLikeTapeMark(raw) {
		base = tapeMarkSize
	}
	_, _ = inner.Seek(base, io.SeekStart)
	return &tapeImageStream{inner: inner, base: base}
}

func (s *tapeImageStream) Read(p []byte) (int, error) { return s.inner.Read(p) }

func (s *tapeImageStream) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		abs, err := s.inner.Seek(s.base+offset, io.SeekStart)
		return abs - s.base, err
	default:
		abs, err := s.inner.Seek(offset, whence)
		return abs - s.base, err
	}
}

func (s *tapeImageStream) Ltell() int64 { return s.inner.Ltell() - s.base }
func (s *tapeImageStream) Ptell() int64 { return s.inner.Ptell() }
func (s *tapeImageStream) EOF() bool    { return s.inner.EOF() }
func (s *tapeImageStream) Close() error { return s.inner.Close() }

// AbsoluteTell walks stream's wrapping layers (as far as this package knows
// how to unwrap them) and returns the offset in the innermost raw layer.
// Supplemented feature, grounded on stream::absolute_tell in
// lib/src/io.cpp, which performs the equivalent walk over lfp_peek layers.
func AbsoluteTell(stream Stream) int64 {
	return stream.Ptell()
}
