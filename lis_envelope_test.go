// Copyright 2024 welog authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package welog

import "testing"

func TestParseLISPRH(t *testing.T) {
	buf := []byte{0x00, 0x0a, 0x00, 0x03}
	prh, err := ParseLISPRH(buf)
	if err != nil {
		t.Fatalf("ParseLISPRH failed: %v", err)
	}
	if prh.Length != 10 {
		t.Errorf("Length = %d, want 10", prh.Length)
	}
	if !prh.HasSuccessor() {
		t.Errorf("HasSuccessor() = false, want true")
	}
	if !prh.HasPredecessor() {
		t.Errorf("HasPredecessor() = false, want true")
	}
}

func TestParseLISLRH(t *testing.T) {
	lrh, err := ParseLISLRH([]byte{0x80, 0x00})
	if err != nil {
		t.Fatalf("ParseLISLRH failed: %v", err)
	}
	if lrh.Type != LISFileHeader {
		t.Errorf("Type = %v, want %v", lrh.Type, LISFileHeader)
	}
}

func TestIsLISPadByte(t *testing.T) {
	if !IsLISPadByte(0x00) || !IsLISPadByte(0x20) {
		t.Errorf("0x00 and 0x20 must both be pad bytes")
	}
	if IsLISPadByte(0x41) {
		t.Errorf("0x41 must not be a pad byte")
	}
}

func TestIsLISPadding(t *testing.T) {
	if !IsLISPadding([]byte{0x20, 0x20, 0x20}) {
		t.Errorf("all-0x20 buffer should be padding")
	}
	if IsLISPadding([]byte{0x20, 0x00}) {
		t.Errorf("mixed pad bytes should not count as padding")
	}
	if IsLISPadding(nil) {
		t.Errorf("empty buffer should not count as padding")
	}
}

// singlePRLogicalRecord builds one physical record holding a complete
// logical record: PRH + LRH + body, with no continuation.
func singlePRLogicalRecord(recType LISRecordType, body []byte) []byte {
	var buf []byte
	length := prhSize + lrhSize + len(body)
	buf = append(buf, byte(length>>8), byte(length))
	buf = append(buf, 0x00, 0x00) // attributes: no predecessor/successor
	buf = append(buf, byte(recType), 0x00)
	buf = append(buf, body...)
	return buf
}

func TestExtractLISRecordSinglePhysicalRecord(t *testing.T) {
	data := singlePRLogicalRecord(LISFileHeader, []byte("TEST"))
	stream := newRawStream(data, nil)

	rec, err := ExtractLISRecord(stream, 0, nil)
	if err != nil {
		t.Fatalf("ExtractLISRecord failed: %v", err)
	}
	if rec.Info.LRH.Type != LISFileHeader {
		t.Errorf("Type = %v, want %v", rec.Info.LRH.Type, LISFileHeader)
	}
	if string(rec.Data) != "TEST" {
		t.Errorf("Data = %q, want %q", rec.Data, "TEST")
	}
}

func TestExtractLISRecordMultiPhysicalRecord(t *testing.T) {
	var data []byte

	// First physical record: PRH(length=8, successor set) + LRH + "AB".
	data = append(data, 0x00, 0x08, 0x00, byte(prhSuccses))
	data = append(data, byte(LISNormalData), 0x00)
	data = append(data, "AB"...)

	// Second (continuation) physical record: PRH(length=6, predecessor
	// set) + "CD", no LRH.
	data = append(data, 0x00, 0x06, 0x00, byte(prhPredces))
	data = append(data, "CD"...)

	stream := newRawStream(data, nil)
	rec, err := ExtractLISRecord(stream, 0, nil)
	if err != nil {
		t.Fatalf("ExtractLISRecord failed: %v", err)
	}
	if string(rec.Data) != "ABCD" {
		t.Errorf("Data = %q, want %q", rec.Data, "ABCD")
	}
}

func TestExtractLISRecordSkipsPadBetweenPhysicalRecords(t *testing.T) {
	var data []byte

	data = append(data, 0x00, 0x08, 0x00, byte(prhSuccses))
	data = append(data, byte(LISNormalData), 0x00)
	data = append(data, "AB"...)

	// Two tape pad bytes between the physical records.
	data = append(data, 0x00, 0x00)

	data = append(data, 0x00, 0x06, 0x00, byte(prhPredces))
	data = append(data, "CD"...)

	stream := newRawStream(data, nil)
	rec, err := ExtractLISRecord(stream, 0, nil)
	if err != nil {
		t.Fatalf("ExtractLISRecord failed: %v", err)
	}
	if string(rec.Data) != "ABCD" {
		t.Errorf("Data = %q, want %q", rec.Data, "ABCD")
	}
}

func TestIndexLISRecords(t *testing.T) {
	var data []byte
	data = append(data, singlePRLogicalRecord(LISFileHeader, []byte("TEST"))...)
	data = append(data, singlePRLogicalRecord(LISFileTrailer, []byte("X"))...)

	stream := newRawStream(data, nil)
	offsets := IndexLISRecords(stream, nil)

	if len(offsets.Tells) != 2 {
		t.Fatalf("got %d records, want 2", len(offsets.Tells))
	}
	if offsets.Tells[0] != 0 {
		t.Errorf("first tell = %d, want 0", offsets.Tells[0])
	}
	if offsets.Types[0] != LISFileHeader {
		t.Errorf("first type = %v, want %v", offsets.Types[0], LISFileHeader)
	}
	wantSecondTell := int64(prhSize + lrhSize + len("TEST"))
	if offsets.Tells[1] != wantSecondTell {
		t.Errorf("second tell = %d, want %d", offsets.Tells[1], wantSecondTell)
	}
	if offsets.Types[1] != LISFileTrailer {
		t.Errorf("second type = %v, want %v", offsets.Types[1], LISFileTrailer)
	}
}
