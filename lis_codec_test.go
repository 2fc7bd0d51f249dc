// Copyright 2024 welog authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package welog

import "testing"

func TestDecodeLISI8Negative(t *testing.T) {
	v, _, err := DecodeLISI8(newCursor([]byte{0xFB})) // -5
	if err != nil {
		t.Fatalf("DecodeLISI8 failed: %v", err)
	}
	if v != -5 {
		t.Errorf("v = %d, want -5", v)
	}
}

func TestDecodeLISI16RoundTrip(t *testing.T) {
	buf := EncodeLISI16(nil, 1200)
	v, _, err := DecodeLISI16(newCursor(buf))
	if err != nil {
		t.Fatalf("DecodeLISI16 failed: %v", err)
	}
	if v != 1200 {
		t.Errorf("v = %d, want 1200", v)
	}
}

func TestDecodeLISI32RoundTrip(t *testing.T) {
	buf := EncodeLISI32(nil, -70000)
	v, _, err := DecodeLISI32(newCursor(buf))
	if err != nil {
		t.Fatalf("DecodeLISI32 failed: %v", err)
	}
	if v != -70000 {
		t.Errorf("v = %d, want -70000", v)
	}
}

func TestDecodeLISF16(t *testing.T) {
	// sign=0, exponent bits=0, fraction bits=0x080 -> 0.0625*2^0.
	v, _, err := DecodeLISF16(newCursor([]byte{0x08, 0x00}))
	if err != nil {
		t.Fatalf("DecodeLISF16 failed: %v", err)
	}
	if v != 0.0625 {
		t.Errorf("v = %v, want 0.0625", v)
	}
}

func TestDecodeLISF32(t *testing.T) {
	// sign=0, exponent bits=128, fraction bits=0x400000 -> 0.5.
	v, _, err := DecodeLISF32(newCursor([]byte{0x40, 0x40, 0x00, 0x00}))
	if err != nil {
		t.Fatalf("DecodeLISF32 failed: %v", err)
	}
	if v != 0.5 {
		t.Errorf("v = %v, want 0.5", v)
	}
}

func TestDecodeLISF32Low(t *testing.T) {
	// exponent bits=15, fraction=1 -> 1*2^(15-15) = 1.0.
	v, _, err := DecodeLISF32Low(newCursor([]byte{0x00, 0x0F, 0x00, 0x01}))
	if err != nil {
		t.Fatalf("DecodeLISF32Low failed: %v", err)
	}
	if v != 1.0 {
		t.Errorf("v = %v, want 1.0", v)
	}
}

func TestDecodeLISF32Fix(t *testing.T) {
	buf := EncodeLISI32(nil, 65536) // Q16.16 for 1.0
	v, _, err := DecodeLISF32Fix(newCursor(buf))
	if err != nil {
		t.Fatalf("DecodeLISF32Fix failed: %v", err)
	}
	if v != 1.0 {
		t.Errorf("v = %v, want 1.0", v)
	}
}

func TestDecodeLISStringAndByte(t *testing.T) {
	buf := EncodeLISString(nil, "DEPT")
	s, _, err := DecodeLISString(newCursor(buf), 4)
	if err != nil {
		t.Fatalf("DecodeLISString failed: %v", err)
	}
	if s != "DEPT" {
		t.Errorf("s = %q, want %q", s, "DEPT")
	}

	b, _, err := DecodeLISByte(newCursor(EncodeLISByte(nil, 0xAB)))
	if err != nil {
		t.Fatalf("DecodeLISByte failed: %v", err)
	}
	if b != 0xAB {
		t.Errorf("b = %x, want ab", b)
	}
}

func TestDecodeLISMask(t *testing.T) {
	m, _, err := DecodeLISMask(newCursor([]byte{0x01, 0x02, 0x03}), 3)
	if err != nil {
		t.Fatalf("DecodeLISMask failed: %v", err)
	}
	if len(m) != 3 || m[1] != 0x02 {
		t.Errorf("m = %v, want [1 2 3]", m)
	}
}

func TestDecodeLISI8Truncated(t *testing.T) {
	if _, _, err := DecodeLISI8(newCursor(nil)); err == nil {
		t.Errorf("DecodeLISI8 should fail on an empty cursor")
	}
}
