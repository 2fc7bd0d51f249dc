// Copyright 2024 welog authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package welog

import (
	"encoding/binary"
	"math"
)

// This file implements LIS79's primitive codecs (spec §4.G/§4.H), grounded
// on lib/src/lis/types.cpp of the original. LIS has no variable-width
// integer: every numeric code is fixed size, and the two string-like codes
// (LISRepString, LISRepMask) take their length from context supplied by the
// caller (a spec block's declared width or an entry block's size field)
// rather than carrying their own length prefix.

// DecodeLISI8 reads an 8-bit two's-complement signed integer.
func DecodeLISI8(c cursor) (int8, cursor, error) {
	b, next, err := c.take(1)
	if err != nil {
		return 0, c, wrapErr("lis: i8", int64(c.tell()), err)
	}
	return int8(b[0]), next, nil
}

// DecodeLISI16 reads a 16-bit big-endian two's-complement signed integer.
func DecodeLISI16(c cursor) (int16, cursor, error) {
	b, next, err := c.take(2)
	if err != nil {
		return 0, c, wrapErr("lis: i16", int64(c.tell()), err)
	}
	return int16(binary.BigEndian.Uint16(b)), next, nil
}

// DecodeLISI32 reads a 32-bit big-endian two's-complement signed integer.
func DecodeLISI32(c cursor) (int32, cursor, error) {
	b, next, err := c.take(4)
	if err != nil {
		return 0, c, wrapErr("lis: i32", int64(c.tell()), err)
	}
	return int32(binary.BigEndian.Uint32(b)), next, nil
}

// DecodeLISF16 reads LIS79's 16-bit low-resolution float: sign bit, 4-bit
// exponent in the low nibble, 12-bit fraction in the high bits, two's
// complement fraction when negative. Bit-identical layout to DLIS's FSHORT.
func DecodeLISF16(c cursor) (float32, cursor, error) {
	v, next, err := DecodeLISI16(c)
	if err != nil {
		return 0, c, wrapErr("lis: f16", int64(c.tell()), err)
	}
	uv := uint16(v)

	signBit := uv & 0x8000
	expBits := uv & 0x000F
	fracBits := (uv & 0xFFF0) >> 4
	if signBit != 0 {
		fracBits = (^fracBits & 0x0FFF) + 1
	}

	sign := float32(1.0)
	if signBit != 0 {
		sign = -1.0
	}
	exponent := float32(expBits)
	fractional := float32(fracBits) / float32(0x0800)

	return sign * fractional * float32(math.Pow(2.0, float64(exponent))), next, nil
}

// DecodeLISF32 reads LIS79's 32-bit float: value = frac * 2^(exp-128-23)
// for positive sign, value = frac * 2^(127-exp-23) for negative sign, where
// frac is the 23-bit fraction reinterpreted as a signed two's-complement
// integer (excess bits forced to the sign) and scaled by ldexp rather than
// assembled as IEEE754 bit patterns.
func DecodeLISF32(c cursor) (float32, cursor, error) {
	b, next, err := c.take(4)
	if err != nil {
		return 0, c, wrapErr("lis: f32", int64(c.tell()), err)
	}
	u := binary.BigEndian.Uint32(b)

	const precision = 23

	signBit := u & 0x80000000
	fracBits := u & 0x007FFFFF
	expBits := uint8((u & 0x7F800000) >> 23)

	var exponent int32
	if signBit != 0 {
		exponent = int32(127) - int32(expBits)
	} else {
		exponent = int32(expBits) - 128
	}
	exponent -= precision

	var fraction int32
	if signBit != 0 {
		fraction = int32(uint32(0xFF800000) | fracBits)
	} else {
		fraction = int32(fracBits)
	}

	return float32(math.Ldexp(float64(fraction), int(exponent))), next, nil
}

// DecodeLISF32Low reads LIS79's 32-bit low-resolution float: a 16-bit
// two's-complement fraction in the low half and a 16-bit exponent in the
// high half, value = fraction * 2^(exponent-15).
func DecodeLISF32Low(c cursor) (float32, cursor, error) {
	b, next, err := c.take(4)
	if err != nil {
		return 0, c, wrapErr("lis: f32low", int64(c.tell()), err)
	}
	u := binary.BigEndian.Uint32(b)

	const precision = 15

	fraction := int16(u & 0x0000FFFF)
	expBits := uint16((u & 0xFFFF0000) >> 16)

	return float32(math.Ldexp(float64(fraction), int(expBits)-precision)), next, nil
}

// DecodeLISF32Fix reads LIS79's 32-bit fixed-point float: a 32-bit two's
// complement integer whose binary point sits in the middle (Q16.16),
// value = raw / 2^16. The original left this representation code
// unimplemented (LIS79 Appendix B.5 describes it but no sample file in the
// reference corpus exercises it); it is implemented here per the appendix
// rather than surfaced as ErrNotImplemented.
func DecodeLISF32Fix(c cursor) (float32, cursor, error) {
	raw, next, err := DecodeLISI32(c)
	if err != nil {
		return 0, c, wrapErr("lis: f32fix", int64(c.tell()), err)
	}
	return float32(float64(raw) / 65536.0), next, nil
}

// DecodeLISString reads n raw bytes with no length prefix; n must come from
// the caller's context (a spec block's declared sample size, typically).
func DecodeLISString(c cursor, n int) (string, cursor, error) {
	b, next, err := c.take(n)
	if err != nil {
		return "", c, wrapErr("lis: string", int64(c.tell()), err)
	}
	return string(b), next, nil
}

// DecodeLISByte reads a single unsigned byte.
func DecodeLISByte(c cursor) (uint8, cursor, error) {
	b, next, err := c.take(1)
	if err != nil {
		return 0, c, wrapErr("lis: byte", int64(c.tell()), err)
	}
	return b[0], next, nil
}

// DecodeLISMask reads n raw mask bytes with no length prefix; n must come
// from the caller's context (an entry block's declared size).
func DecodeLISMask(c cursor, n int) ([]byte, cursor, error) {
	b, next, err := c.take(n)
	if err != nil {
		return nil, c, wrapErr("lis: mask", int64(c.tell()), err)
	}
	out := make([]byte, n)
	copy(out, b)
	return out, next, nil
}

// EncodeLISI8 appends an 8-bit two's-complement signed integer.
func EncodeLISI8(dst []byte, x int8) []byte { return append(dst, byte(x)) }

// EncodeLISI16 appends a 16-bit two's-complement signed integer.
func EncodeLISI16(dst []byte, x int16) []byte {
	return binary.BigEndian.AppendUint16(dst, uint16(x))
}

// EncodeLISI32 appends a 32-bit two's-complement signed integer.
func EncodeLISI32(dst []byte, x int32) []byte {
	return binary.BigEndian.AppendUint32(dst, uint32(x))
}

// EncodeLISByte appends a single unsigned byte.
func EncodeLISByte(dst []byte, x uint8) []byte { return append(dst, x) }

// EncodeLISString appends the raw bytes of s with no length prefix.
func EncodeLISString(dst []byte, s string) []byte { return append(dst, s...) }
