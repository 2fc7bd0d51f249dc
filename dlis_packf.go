// Copyright 2024 welog authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package welog

import "fmt"

// This file implements RP66's batch decoding over a fixed sequence of
// representation codes (spec §4.A "packf"-style format-descriptor
// language), used by the frame-packing decoder (dlis_iflr.go) to turn one
// row of FDATA bytes into a slice of Go values without hand-unrolling a
// switch at every call site.

// DLISValue is a decoded DLIS primitive, boxed as whichever concrete Go
// type DecodeValue produced.
type DLISValue = interface{}

// DecodeValue decodes one value of representation code rc starting at c
// and returns the boxed value and the advanced cursor. FSING1/FSING2 and
// FDOUB1/FDOUB2 are boxed as one [2] or [3] float array (value followed by
// its companions), and CSINGL/CDOUBL as one complex number, rather than a
// single scalar.
func DecodeValue(rc DLISRepCode, c cursor) (DLISValue, cursor, error) {
	switch rc {
	case RepFSHORT:
		return decodeBox(c, DecodeFSHORT)
	case RepFSINGL:
		return decodeBox(c, DecodeFSINGL)
	case RepFDOUBL:
		return decodeBox(c, DecodeFDOUBL)
	case RepISINGL:
		return decodeBox(c, DecodeISINGL)
	case RepVSINGL:
		return decodeBox(c, DecodeVSINGL)
	case RepSSHORT:
		return decodeBox(c, DecodeSSHORT)
	case RepSNORM:
		return decodeBox(c, DecodeSNORM)
	case RepSLONG:
		return decodeBox(c, DecodeSLONG)
	case RepUSHORT:
		return decodeBox(c, DecodeUSHORT)
	case RepUNORM:
		return decodeBox(c, DecodeUNORM)
	case RepULONG:
		return decodeBox(c, DecodeULONG)
	case RepUVARI:
		return decodeBox(c, DecodeUVARI)
	case RepIDENT:
		return decodeBox(c, DecodeIDENT)
	case RepASCII:
		return decodeBox(c, DecodeASCII)
	case RepUNITS:
		return decodeBox(c, DecodeUNITS)
	case RepSTATUS:
		return decodeBox(c, DecodeSTATUS)
	case RepDTIME:
		return decodeBox(c, DecodeDTIME)
	case RepORIGIN:
		return decodeBox(c, DecodeORIGIN)
	case RepOBNAME:
		return decodeBox(c, DecodeOBNAME)
	case RepOBJREF:
		return decodeBox(c, DecodeOBJREF)
	case RepATTREF:
		return decodeBox(c, DecodeATTREF)

	case RepFSING1:
		v, a, next, err := DecodeFSING1(c)
		return [2]float32{v, a}, next, err
	case RepFSING2:
		v, a, b, next, err := DecodeFSING2(c)
		return [3]float32{v, a, b}, next, err
	case RepCSINGL:
		r, i, next, err := DecodeCSINGL(c)
		return complex(r, i), next, err
	case RepFDOUB1:
		v, a, next, err := DecodeFDOUB1(c)
		return [2]float64{v, a}, next, err
	case RepFDOUB2:
		v, a, b, next, err := DecodeFDOUB2(c)
		return [3]float64{v, a, b}, next, err
	case RepCDOUBL:
		r, i, next, err := DecodeCDOUBL(c)
		return complex(r, i), next, err

	default:
		return nil, c, wrapErr("dlis: decode value", int64(c.tell()),
			fmt.Errorf("representation code %d: %w", rc, ErrUnexpectedValue))
	}
}

// decodeBox adapts a two-return-value decoder (value, cursor, error) into
// DecodeValue's boxed-interface signature.
func decodeBox[T any](c cursor, fn func(cursor) (T, cursor, error)) (DLISValue, cursor, error) {
	v, next, err := fn(c)
	return v, next, err
}

// DecodeFormat decodes len(codes) consecutive values, each of the matching
// representation code, advancing a single cursor across all of them. The
// frame decoder in dlis_iflr.go does not call it: it decodes each channel
// sample with DecodeValue.
func DecodeFormat(codes []DLISRepCode, c cursor) ([]DLISValue, cursor, error) {
	out := make([]DLISValue, 0, len(codes))
	cur := c
	for i, rc := range codes {
		v, next, err := DecodeValue(rc, cur)
		if err != nil {
			return out, c, wrapErr(fmt.Sprintf("dlis: decode format field %d", i), int64(cur.tell()), err)
		}
		out = append(out, v)
		cur = next
	}
	return out, cur, nil
}

// PackedSize reports the total byte width of one row made of codes, or
// DiskVariable if any code in the sequence lacks a fixed width (variable-
// length fields can only be sized by actually decoding them).
func PackedSize(codes []DLISRepCode) int {
	total := 0
	for _, rc := range codes {
		sz := rc.SizeOf()
		if sz == DiskVariable {
			return DiskVariable
		}
		total += sz
	}
	return total
}
