// Copyright 2024 welog authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package welog

import "testing"

func TestDecodeLISFrameRow(t *testing.T) {
	fields := []LISFormatField{{Code: LISRepI16, Size: 2}, {Code: LISRepI8, Size: 1}}
	var data []byte
	data = EncodeLISI16(data, 1200)
	data = EncodeLISI8(data, -5)

	row, err := DecodeLISFrameRow(fields, data)
	if err != nil {
		t.Fatalf("DecodeLISFrameRow failed: %v", err)
	}
	if len(row.Values) != 2 {
		t.Fatalf("got %d values, want 2", len(row.Values))
	}
	if row.Values[0] != int16(1200) {
		t.Errorf("Values[0] = %v, want int16(1200)", row.Values[0])
	}
	if row.Values[1] != int8(-5) {
		t.Errorf("Values[1] = %v, want int8(-5)", row.Values[1])
	}
}

func buildSingleI16DFSR() DataFormatSpec {
	spec := LISSpecBlock{Mnemonic: "DEPT", Reprc: LISRepI16, Samples: 1}
	return DataFormatSpec{Specs: []LISSpecBlock{spec}}
}

func TestDecodeLISFrameRows(t *testing.T) {
	dfs := buildSingleI16DFSR()

	rowData1 := EncodeLISI16(nil, 100)
	rowData2 := EncodeLISI16(nil, 200)

	var data []byte
	data = append(data, singlePRLogicalRecord(LISNormalData, rowData1)...)
	data = append(data, singlePRLogicalRecord(LISAlternateData, rowData2)...)

	stream := newRawStream(data, nil)
	tells := []int64{0, int64(prhSize + lrhSize + len(rowData1))}

	rows, err := DecodeLISFrameRows(stream, dfs, tells, nil)
	if err != nil {
		t.Fatalf("DecodeLISFrameRows failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Values[0] != int16(100) {
		t.Errorf("row 0 value = %v, want int16(100)", rows[0].Values[0])
	}
	if rows[1].Values[0] != int16(200) {
		t.Errorf("row 1 value = %v, want int16(200)", rows[1].Values[0])
	}
}

func TestIndexLISFrames(t *testing.T) {
	offsets := LISStreamOffsets{
		Tells: []int64{0, 10, 20, 30, 40, 50},
		Types: []LISRecordType{
			LISDataFormatSpec,
			LISNormalData,
			LISNormalData,
			LISFileTrailer,
			LISDataFormatSpec,
			LISAlternateData,
		},
	}
	runs := IndexLISFrames(offsets)

	if got := runs[0]; len(got) != 2 || got[0] != 10 || got[1] != 20 {
		t.Errorf("runs[0] = %v, want [10 20]", got)
	}
	if got := runs[40]; len(got) != 1 || got[0] != 50 {
		t.Errorf("runs[40] = %v, want [50]", got)
	}
}
