// Copyright 2024 welog authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package welog

import "testing"

func TestFuzzValidDLIS(t *testing.T) {
	var data []byte
	data = append(data, buildSUL("V1.00", "RECORD", "DEFAULT SET")...)
	data = append(data, buildSingleSegmentRecord(SegAttrExplicitFormat, 0, buildCHANNELSet())...)

	if got := Fuzz(data); got != 1 {
		t.Errorf("Fuzz(valid DLIS) = %d, want 1", got)
	}
}

func TestFuzzGarbageInput(t *testing.T) {
	if got := Fuzz([]byte{0x01, 0x02, 0x03}); got != 0 {
		t.Errorf("Fuzz(garbage) = %d, want 0", got)
	}
}
