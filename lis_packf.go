// Copyright 2024 welog authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package welog

import "fmt"

// This file implements batch decoding over a LIS format string: a sequence
// of (representation code, size) pairs derived from a DFSR's spec
// blocks (spec §4.G/§4.H). Unlike DLIS's packf, LIS has no self-describing
// length-prefixed types, so every field's width must already be known from
// the spec block that declared it.

// LISFormatField is one decoded field slot in a derived format string: the
// representation code and the on-disk width to read it at (the spec
// block's reserved_size, which may exceed the code's natural width — LIS
// string/mask fields always carry their width this way).
type LISFormatField struct {
	Code LISRepCode
	Size int
}

// DecodeLISValue decodes one value per f, returning a boxed Go value.
func DecodeLISValue(f LISFormatField, c cursor) (DLISValue, cursor, error) {
	switch f.Code {
	case LISRepI8:
		return decodeBox(c, DecodeLISI8)
	case LISRepI16:
		return decodeBox(c, DecodeLISI16)
	case LISRepI32:
		return decodeBox(c, DecodeLISI32)
	case LISRepF16:
		return decodeBox(c, DecodeLISF16)
	case LISRepF32Low:
		return decodeBox(c, DecodeLISF32Low)
	case LISRepF32:
		return decodeBox(c, DecodeLISF32)
	case LISRepF32Fix:
		return decodeBox(c, DecodeLISF32Fix)
	case LISRepByte:
		return decodeBox(c, DecodeLISByte)
	case LISRepString:
		return DecodeLISString(c, f.Size)
	case LISRepMask:
		return DecodeLISMask(c, f.Size)
	default:
		return nil, c, wrapErr("lis: decode value", int64(c.tell()),
			fmt.Errorf("representation code %d: %w", f.Code, ErrUnexpectedValue))
	}
}

// DecodeLISFormat decodes one row's worth of fields, advancing a single
// cursor across all of them. This is the core of IFLR frame decoding: a
// DFSR supplies the field sequence once and every subsequent frame reuses
// it (spec §4.H).
func DecodeLISFormat(fields []LISFormatField, c cursor) ([]DLISValue, cursor, error) {
	out := make([]DLISValue, 0, len(fields))
	cur := c
	for i, f := range fields {
		v, next, err := DecodeLISValue(f, cur)
		if err != nil {
			return out, c, wrapErr(fmt.Sprintf("lis: decode format field %d", i), int64(cur.tell()), err)
		}
		out = append(out, v)
		cur = next
	}
	return out, cur, nil
}

// LISFormatString renders fields as an Appendix-B-style format string, one
// character per field, for display/diagnostic purposes.
func LISFormatString(fields []LISFormatField) string {
	out := make([]byte, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.Code.formatChar())
	}
	return string(out)
}

// packedSize reports the byte width of field f.
func (f LISFormatField) packedSize() int { return f.Size }

// LISRowSize sums the declared sizes of every field.
func LISRowSize(fields []LISFormatField) int {
	total := 0
	for _, f := range fields {
		total += f.packedSize()
	}
	return total
}
