// Copyright 2024 welog authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package welog

import "testing"

func TestTrimField(t *testing.T) {
	if got := trimField([]byte("AB  ")); got != "AB" {
		t.Errorf("trimField(%q) = %q, want %q", "AB  ", got, "AB")
	}
	if got := trimField([]byte("AB\x00\x00")); got != "AB" {
		t.Errorf("trimField with NUL padding = %q, want %q", got, "AB")
	}
}

// buildComponentBlock assembles one fixed-layout component block: a
// 1-byte signed integer value named "MNEM" in unit "UNIT".
func buildComponentBlock() []byte {
	var b []byte
	b = append(b, 0x00)              // TypeNb = 0
	b = append(b, byte(LISRepI8))    // Reprc
	b = append(b, 0x01)              // Size
	b = append(b, 0x00)              // Category
	b = append(b, "MNEM"...)
	b = append(b, "UNIT"...)
	b = append(b, 0x05) // value = 5
	return b
}

func TestReadLISComponentBlock(t *testing.T) {
	comp, next, err := readLISComponentBlock(buildComponentBlock(), 0)
	if err != nil {
		t.Fatalf("readLISComponentBlock failed: %v", err)
	}
	if comp.Mnemonic != "MNEM" {
		t.Errorf("Mnemonic = %q, want %q", comp.Mnemonic, "MNEM")
	}
	if comp.Units != "UNIT" {
		t.Errorf("Units = %q, want %q", comp.Units, "UNIT")
	}
	if comp.Component != int8(5) {
		t.Errorf("Component = %v, want int8(5)", comp.Component)
	}
	if next != len(buildComponentBlock()) {
		t.Errorf("next offset = %d, want %d", next, len(buildComponentBlock()))
	}
}

func TestParseInformationRecord(t *testing.T) {
	data := append(buildComponentBlock(), buildComponentBlock()...)
	rec, err := ParseInformationRecord(data)
	if err != nil {
		t.Fatalf("ParseInformationRecord failed: %v", err)
	}
	if len(rec.Components) != 2 {
		t.Fatalf("got %d components, want 2", len(rec.Components))
	}
}

func TestParseTextRecord(t *testing.T) {
	rec, err := ParseTextRecord(LISFlicComment, []byte("hello operator"))
	if err != nil {
		t.Fatalf("ParseTextRecord failed: %v", err)
	}
	if rec.Message != "hello operator" {
		t.Errorf("Message = %q, want %q", rec.Message, "hello operator")
	}

	if _, err := ParseTextRecord(LISFileHeader, []byte("nope")); err == nil {
		t.Errorf("ParseTextRecord should reject a non-text record type")
	}
}

func buildFileHeaderBytes() []byte {
	b := make([]byte, FileHeaderSize)
	copy(b[0:10], "WELL001   ")
	copy(b[12:18], "SVC001")
	copy(b[18:26], "VER00001")
	copy(b[26:34], "20260731")
	copy(b[35:40], "12000")
	copy(b[42:44], "LF")
	copy(b[46:56], "PREVFILE01")
	return b
}

func TestParseFileHeader(t *testing.T) {
	fh, err := ParseFileHeader(buildFileHeaderBytes())
	if err != nil {
		t.Fatalf("ParseFileHeader failed: %v", err)
	}
	if fh.FileName != "WELL001" {
		t.Errorf("FileName = %q, want %q", fh.FileName, "WELL001")
	}
	if fh.ServiceSublvlName != "SVC001" {
		t.Errorf("ServiceSublvlName = %q, want %q", fh.ServiceSublvlName, "SVC001")
	}
	if fh.DateOfGeneration != "20260731" {
		t.Errorf("DateOfGeneration = %q, want %q", fh.DateOfGeneration, "20260731")
	}
	if fh.PrevFileName != "PREVFILE01" {
		t.Errorf("PrevFileName = %q, want %q", fh.PrevFileName, "PREVFILE01")
	}
}

func TestParseFileTrailer(t *testing.T) {
	tr, err := ParseFileTrailer(buildFileHeaderBytes())
	if err != nil {
		t.Fatalf("ParseFileTrailer failed: %v", err)
	}
	if tr.NextFileName != "PREVFILE01" {
		t.Errorf("NextFileName = %q, want %q", tr.NextFileName, "PREVFILE01")
	}
}

func TestParseReelTapeRecord(t *testing.T) {
	b := make([]byte, ReelTapeRecordSize)
	copy(b[0:6], "SVC001")
	copy(b[12:20], "20260731")
	copy(b[22:26], "ORIG")
	copy(b[28:36], "REELNAME")
	copy(b[38:40], "01")
	copy(b[42:50], "NEXTREEL")

	r, err := ParseReelTapeRecord(b)
	if err != nil {
		t.Fatalf("ParseReelTapeRecord failed: %v", err)
	}
	if r.ServiceName != "SVC001" {
		t.Errorf("ServiceName = %q, want %q", r.ServiceName, "SVC001")
	}
	if r.Name != "REELNAME" {
		t.Errorf("Name = %q, want %q", r.Name, "REELNAME")
	}
	if r.LinkedName != "NEXTREEL" {
		t.Errorf("LinkedName = %q, want %q", r.LinkedName, "NEXTREEL")
	}
}
