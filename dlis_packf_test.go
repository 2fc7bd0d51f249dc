// Copyright 2024 welog authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package welog

import "testing"

func TestDecodeValueDispatchScalar(t *testing.T) {
	v, _, err := DecodeValue(RepFSINGL, newCursor(EncodeFSINGL(nil, 1.5)))
	if err != nil {
		t.Fatalf("DecodeValue failed: %v", err)
	}
	if v.(float32) != 1.5 {
		t.Errorf("v = %v, want 1.5", v)
	}
}

func TestDecodeValueDispatchCompound(t *testing.T) {
	var data []byte
	data = EncodeFSINGL(data, 1.0)
	data = EncodeFSINGL(data, 2.0)

	v, _, err := DecodeValue(RepFSING1, newCursor(data))
	if err != nil {
		t.Fatalf("DecodeValue failed: %v", err)
	}
	pair := v.([2]float32)
	if pair[0] != 1.0 || pair[1] != 2.0 {
		t.Errorf("v = %v, want [1 2]", pair)
	}
}

func TestDecodeValueUnknownCode(t *testing.T) {
	_, _, err := DecodeValue(DLISRepCode(0), newCursor(nil))
	if err == nil {
		t.Errorf("DecodeValue should reject an undefined representation code")
	}
}

func TestDecodeFormat(t *testing.T) {
	codes := []DLISRepCode{RepUSHORT, RepFSINGL}
	var data []byte
	data = EncodeUSHORT(data, 7)
	data = EncodeFSINGL(data, 2.5)

	values, next, err := DecodeFormat(codes, newCursor(data))
	if err != nil {
		t.Fatalf("DecodeFormat failed: %v", err)
	}
	if values[0].(uint8) != 7 || values[1].(float32) != 2.5 {
		t.Errorf("values = %v, want [7 2.5]", values)
	}
	if !next.eof() {
		t.Errorf("cursor should be fully consumed")
	}
}

func TestDecodeFormatTruncatedRewindsCursor(t *testing.T) {
	codes := []DLISRepCode{RepFDOUBL}
	c := newCursor([]byte{0x00})

	_, next, err := DecodeFormat(codes, c)
	if err == nil {
		t.Fatalf("DecodeFormat should fail on a truncated field")
	}
	if next.tell() != c.tell() {
		t.Errorf("on error the cursor should be unadvanced")
	}
}

func TestPackedSize(t *testing.T) {
	if got := PackedSize([]DLISRepCode{RepUSHORT, RepFSINGL}); got != 5 {
		t.Errorf("PackedSize = %d, want 5", got)
	}
	if got := PackedSize([]DLISRepCode{RepUSHORT, RepIDENT}); got != DiskVariable {
		t.Errorf("PackedSize with a variable-width code = %d, want DiskVariable", got)
	}
}
