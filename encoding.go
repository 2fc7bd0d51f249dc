// Copyright 2024 welog authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package welog

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// This file supports decoding text fields (DLIS ASCII/UNITS, LIS79
// strings) whose producer used something other than plain 7-bit ASCII.
// RP66 v1 and LIS79 both predate any requirement to declare a character
// encoding, so in practice files in the wild show up in ASCII, Latin-1,
// or occasionally UTF-16; this mirrors the teacher's DecodeUTF16String
// helper, generalized into a small ordered list of fallback decoders.

// TextEncoding names one of the candidate decoders DecodeText tries.
type TextEncoding int

const (
	EncodingASCII TextEncoding = iota
	EncodingLatin1
	EncodingUTF16LE
	EncodingUTF16BE
)

func (e TextEncoding) String() string {
	switch e {
	case EncodingASCII:
		return "ASCII"
	case EncodingLatin1:
		return "Latin-1"
	case EncodingUTF16LE:
		return "UTF-16LE"
	case EncodingUTF16BE:
		return "UTF-16BE"
	default:
		return "unknown"
	}
}

// encodingCandidates lists the fallback decoders DecodeText tries, in
// order, once a field fails to decode as plain ASCII.
var encodingCandidates = []struct {
	name TextEncoding
	enc  encoding.Encoding
}{
	{EncodingLatin1, charmap.ISO8859_1},
	{EncodingUTF16LE, unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)},
	{EncodingUTF16BE, unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)},
}

// DecodeText returns raw decoded as a string, trying ASCII first and
// falling back through encodingCandidates if raw contains a byte outside
// the 7-bit ASCII range. It returns the encoding that was used alongside
// the decoded string; when every candidate fails it returns raw's bytes
// verbatim as a string with EncodingASCII, rather than erroring, since a
// best-effort label is always more useful to a caller than nothing.
func DecodeText(raw []byte) (string, TextEncoding) {
	if isASCII(raw) {
		return string(raw), EncodingASCII
	}

	for _, candidate := range encodingCandidates {
		decoded, err := candidate.enc.NewDecoder().Bytes(raw)
		if err == nil {
			return string(decoded), candidate.name
		}
	}

	return string(raw), EncodingASCII
}

func isASCII(raw []byte) bool {
	for _, b := range raw {
		if b > 0x7f {
			return false
		}
	}
	return true
}
