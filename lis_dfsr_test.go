// Copyright 2024 welog authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package welog

import "testing"

// buildDFSR assembles a minimal subtype-0 DFSR: a single terminator entry
// block followed by one 40-byte spec block describing a 4-byte float
// channel named "DEPT".
func buildDFSR() []byte {
	var buf []byte
	buf = append(buf, byte(LISTerminator), 0x00, byte(LISRepByte))

	spec := make([]byte, specBlockSize)
	copy(spec[0:4], "DEPT")
	copy(spec[4:10], "SVC001")
	copy(spec[10:18], "ORDER001")
	copy(spec[18:22], "FEET")
	spec[26], spec[27] = 0x00, 0x01 // FileNr = 1
	spec[28], spec[29] = 0x00, 0x04 // SampleSize = 4
	spec[32] = 0                    // ProcessLevel
	spec[33] = 1                    // Samples
	spec[34] = byte(LISRepF32)
	buf = append(buf, spec...)
	return buf
}

func TestParseDataFormatSpec(t *testing.T) {
	dfs, err := ParseDataFormatSpec(buildDFSR())
	if err != nil {
		t.Fatalf("ParseDataFormatSpec failed: %v", err)
	}
	if len(dfs.Entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(dfs.Entries))
	}
	if dfs.Entries[0].Type != LISTerminator {
		t.Errorf("entry type = %v, want LISTerminator", dfs.Entries[0].Type)
	}
	if len(dfs.Specs) != 1 {
		t.Fatalf("got %d specs, want 1", len(dfs.Specs))
	}
	spec := dfs.Specs[0]
	if spec.Mnemonic != "DEPT" {
		t.Errorf("Mnemonic = %q, want %q", spec.Mnemonic, "DEPT")
	}
	if spec.ServiceID != "SVC001" {
		t.Errorf("ServiceID = %q, want %q", spec.ServiceID, "SVC001")
	}
	if spec.Units != "FEET" {
		t.Errorf("Units = %q, want %q", spec.Units, "FEET")
	}
	if spec.Samples != 1 {
		t.Errorf("Samples = %d, want 1", spec.Samples)
	}
	if spec.Reprc != LISRepF32 {
		t.Errorf("Reprc = %v, want %v", spec.Reprc, LISRepF32)
	}
	if spec.FileNr != 1 {
		t.Errorf("FileNr = %d, want 1", spec.FileNr)
	}
}

func TestDataFormatSpecFrameFieldsAndFormatString(t *testing.T) {
	dfs, err := ParseDataFormatSpec(buildDFSR())
	if err != nil {
		t.Fatalf("ParseDataFormatSpec failed: %v", err)
	}
	fields := dfs.FrameFields()
	if len(fields) != 1 {
		t.Fatalf("got %d fields, want 1", len(fields))
	}
	if fields[0].Code != LISRepF32 || fields[0].Size != 4 {
		t.Errorf("field = %+v, want {Code: LISRepF32, Size: 4}", fields[0])
	}
	if got := dfs.FormatString(); got != "f" {
		t.Errorf("FormatString() = %q, want %q", got, "f")
	}
}

func TestParseDataFormatSpecSubtype1ProcessIndicators(t *testing.T) {
	var buf []byte
	// SpecBlockSubtype entry with value 1 selects DSB1 spec blocks.
	buf = append(buf, byte(LISSpecBlockSubtype), 0x01, byte(LISRepI8), 0x01)
	buf = append(buf, byte(LISTerminator), 0x00, byte(LISRepByte))

	spec := make([]byte, specBlockSize)
	copy(spec[0:4], "DEPT")
	spec[34] = byte(LISRepF32)
	// process indicator mask: depth-corrected + mudcake; computed stays clear.
	spec[35] = 1 << 5
	spec[36] = 1 << 5
	buf = append(buf, spec...)

	dfs, err := ParseDataFormatSpec(buf)
	if err != nil {
		t.Fatalf("ParseDataFormatSpec failed: %v", err)
	}
	if len(dfs.Specs) != 1 {
		t.Fatalf("got %d specs, want 1", len(dfs.Specs))
	}
	pi := dfs.Specs[0].ProcessIndicators
	if !pi.TrueVerticalDepthCorrection {
		t.Errorf("TrueVerticalDepthCorrection = false, want true")
	}
	if !pi.MudcakeCorrection {
		t.Errorf("MudcakeCorrection = false, want true")
	}
	if pi.Computed {
		t.Errorf("Computed = true, want false")
	}
}

func TestDecodeProcessIndicatorsLoggingDirection(t *testing.T) {
	pi := decodeProcessIndicators([]byte{1 << 6, 0, 0, 0, 0})
	if pi.OriginalLoggingDirection != 1 {
		t.Errorf("OriginalLoggingDirection = %d, want 1", pi.OriginalLoggingDirection)
	}
}
