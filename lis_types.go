// Copyright 2024 welog authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package welog

// LISRepCode identifies one of LIS79's primitive representation codes
// (numbered per the standard's own reprc byte values, lib/include/
// dlisio/lis/types.h), so a reprc byte read off a spec block can be cast
// directly to this type.
type LISRepCode int

// LIS79 representation codes.
const (
	LISRepI8     LISRepCode = 56 // one-byte signed integer
	LISRepI16    LISRepCode = 79 // two-byte signed integer
	LISRepI32    LISRepCode = 73 // four-byte signed integer
	LISRepF16    LISRepCode = 49 // two-byte low-resolution float
	LISRepF32Low LISRepCode = 50 // four-byte floating point, 16-bit exponent layout
	LISRepF32    LISRepCode = 68 // four-byte IEEE-754-like float (128 bias, 23-bit mantissa)
	LISRepF32Fix LISRepCode = 70 // four-byte 2's-complement fixed point, binary point in the middle
	LISRepString LISRepCode = 65 // fixed-length raw string, size is record-defined
	LISRepByte   LISRepCode = 66 // one-byte unsigned mask/byte
	LISRepMask   LISRepCode = 77 // variable-length bit mask
)

// lisRepSizes mirrors the original's lis::sizeof_type: the fixed on-disk
// size of every representation code that has one.
var lisRepSizes = map[LISRepCode]int{
	LISRepI8:     1,
	LISRepI16:    2,
	LISRepI32:    4,
	LISRepF16:    2,
	LISRepF32Low: 4,
	LISRepF32:    4,
	LISRepF32Fix: 4,
	LISRepByte:   1,
}

// SizeOf returns the fixed on-disk size of rc, or DiskVariable for codes
// whose size depends on context (LISRepString's size is carried by the
// spec block that declares it; LISRepMask's is carried by the entry block).
func (rc LISRepCode) SizeOf() int {
	if sz, ok := lisRepSizes[rc]; ok {
		return sz
	}
	return DiskVariable
}

func (rc LISRepCode) String() string {
	switch rc {
	case LISRepI8:
		return "i8"
	case LISRepI16:
		return "i16"
	case LISRepI32:
		return "i32"
	case LISRepF16:
		return "f16"
	case LISRepF32Low:
		return "f32low"
	case LISRepF32:
		return "f32"
	case LISRepF32Fix:
		return "f32fix"
	case LISRepString:
		return "string"
	case LISRepByte:
		return "byte"
	case LISRepMask:
		return "mask"
	default:
		return "undef"
	}
}

// formatChar is the single-character code this representation code occupies
// in a derived DFSR format string, per LIS79 Appendix B's format-string
// table (spec §4.G).
func (rc LISRepCode) formatChar() byte {
	switch rc {
	case LISRepI8:
		return 's'
	case LISRepI16:
		return 'i'
	case LISRepI32:
		return 'l'
	case LISRepF16:
		return 'e'
	case LISRepF32Low:
		return 'r'
	case LISRepF32:
		return 'f'
	case LISRepF32Fix:
		return 'p'
	case LISRepString:
		return 'a'
	case LISRepByte:
		return 'b'
	case LISRepMask:
		return 'm'
	default:
		return '\x00'
	}
}

// Valid reports whether rc is one of the ten defined representation codes.
func (rc LISRepCode) Valid() bool {
	switch rc {
	case LISRepI8, LISRepI16, LISRepI32, LISRepF16, LISRepF32Low, LISRepF32,
		LISRepF32Fix, LISRepString, LISRepByte, LISRepMask:
		return true
	default:
		return false
	}
}

// LISEntryType tags the value carried by a DFSR entry block (entry_type in
// the original, lib/include/dlisio/lis/protocol.hpp).
type LISEntryType int

// Entry block types, grounded on entry_type in
// lib/include/dlisio/lis/protocol.hpp.
const (
	LISTerminator        LISEntryType = 0
	LISDataRecType       LISEntryType = 1
	LISSpecBlockType     LISEntryType = 2
	LISFrameSize         LISEntryType = 3
	LISUpDownFlag        LISEntryType = 4
	LISDepthScaleUnits   LISEntryType = 5
	LISRefPoint          LISEntryType = 6
	LISRefPointUnits     LISEntryType = 7
	LISSpacing           LISEntryType = 8
	LISSpacingUnits      LISEntryType = 9
	LISEntryUndefined    LISEntryType = 10
	LISMaxFramesPrRec    LISEntryType = 11
	LISAbsentValue       LISEntryType = 12
	LISDepthRecMode      LISEntryType = 13
	LISUnitsOfDepth      LISEntryType = 14
	LISReprcOutputDepth  LISEntryType = 15
	LISSpecBlockSubtype  LISEntryType = 16
)

// Valid reports whether t falls within the 0-16 range the standard defines.
func (t LISEntryType) Valid() bool {
	return t >= LISTerminator && t <= LISSpecBlockSubtype
}
