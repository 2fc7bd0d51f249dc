// Copyright 2024 welog authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package welog

import "testing"

func TestOpenBytesParsesDLIS(t *testing.T) {
	var data []byte
	data = append(data, buildSUL("V1.00", "RECORD", "DEFAULT SET")...)
	data = append(data, buildSingleSegmentRecord(SegAttrExplicitFormat, 0, buildCHANNELSet())...)

	file, err := OpenBytes(data, nil)
	if err != nil {
		t.Fatalf("OpenBytes failed: %v", err)
	}
	defer file.Close()

	if err := file.Parse(); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if file.Format != FormatDLIS {
		t.Fatalf("Format = %v, want FormatDLIS", file.Format)
	}
	if file.DLIS.SUL.StructureName != "RECORD" {
		t.Errorf("SUL.StructureName = %q, want %q", file.DLIS.SUL.StructureName, "RECORD")
	}
	if len(file.DLIS.Offsets.Explicits) != 1 {
		t.Fatalf("got %d explicit offsets, want 1", len(file.DLIS.Offsets.Explicits))
	}

	objs, err := file.DLIS.Pool.GetByType("CHANNEL", nil)
	if err != nil {
		t.Fatalf("GetByType failed: %v", err)
	}
	if len(objs) != 1 || objs[0].ObjectName.Identifier != "C1" {
		t.Fatalf("got %v, want one object named C1", objs)
	}
}

func TestOpenBytesParsesLIS79(t *testing.T) {
	data := singlePRLogicalRecord(LISFileHeader, buildFileHeaderBytes())

	file, err := OpenBytes(data, nil)
	if err != nil {
		t.Fatalf("OpenBytes failed: %v", err)
	}
	defer file.Close()

	if err := file.Parse(); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if file.Format != FormatLIS79 {
		t.Fatalf("Format = %v, want FormatLIS79", file.Format)
	}
	if len(file.LIS.Offsets.Tells) != 1 {
		t.Fatalf("got %d record tells, want 1", len(file.LIS.Offsets.Tells))
	}
	if file.LIS.Offsets.Types[0] != LISFileHeader {
		t.Errorf("Types[0] = %v, want LISFileHeader", file.LIS.Offsets.Types[0])
	}
}

func TestOpenBytesUnrecognizedFormat(t *testing.T) {
	file, err := OpenBytes([]byte{0x01, 0x02, 0x03, 0x04}, nil)
	if err != nil {
		t.Fatalf("OpenBytes failed: %v", err)
	}
	defer file.Close()

	if err := file.Parse(); err == nil {
		t.Fatalf("Parse should fail on content matching neither format")
	}
}

func TestOpenBytesStripsLeadingTapeMark(t *testing.T) {
	var data []byte
	data = append(data, make([]byte, tapeMarkSize)...) // all-zero tape mark
	data = append(data, buildSUL("V1.00", "RECORD", "DEFAULT SET")...)
	data = append(data, buildSingleSegmentRecord(SegAttrExplicitFormat, 0, buildCHANNELSet())...)

	file, err := OpenBytes(data, nil)
	if err != nil {
		t.Fatalf("OpenBytes failed: %v", err)
	}
	defer file.Close()

	if err := file.Parse(); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if file.Format != FormatDLIS {
		t.Fatalf("Format = %v, want FormatDLIS", file.Format)
	}
}
