// Copyright 2024 welog authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package welog

// This file decodes LIS79 Normal/Alternate Data records (IFLRs) against a
// DataFormatSpec's derived field list (spec §5.F), the LIS79 counterpart
// to dlis_iflr.go's FRAME/CHANNEL driven decode.

// LISFrameRow is one decoded Normal/Alternate Data row: the channel
// values in spec-block declaration order.
type LISFrameRow struct {
	Values []DLISValue
}

// DecodeLISFrameRow decodes one Normal/Alternate Data record's bytes
// against the field list derived from its governing DFSR.
func DecodeLISFrameRow(fields []LISFormatField, data []byte) (LISFrameRow, error) {
	c := newCursor(data)
	values, _, err := DecodeLISFormat(fields, c)
	if err != nil {
		return LISFrameRow{}, wrapErr("lis: decode frame row", 0, err)
	}
	return LISFrameRow{Values: values}, nil
}

// DecodeLISFrameRows decodes every Normal/Alternate Data record at the
// given tells against dfs's derived field list.
func DecodeLISFrameRows(stream Stream, dfs DataFormatSpec, tells []int64, handler ErrorHandler) ([]LISFrameRow, error) {
	if handler == nil {
		handler = NewCollectingHandler()
	}

	fields := dfs.FrameFields()
	rows := make([]LISFrameRow, 0, len(tells))
	for _, tell := range tells {
		rec, err := ExtractLISRecord(stream, tell, handler)
		if err != nil {
			handler.Log(Diagnostic{
				Severity: SeverityCritical,
				Context:  "decode lis frame rows",
				Problem:  err.Error(),
				Action:   "row is skipped",
				Offset:   tell,
			})
			continue
		}
		if rec.Info.LRH.Type != LISNormalData && rec.Info.LRH.Type != LISAlternateData {
			continue
		}
		row, err := DecodeLISFrameRow(fields, rec.Data)
		if err != nil {
			handler.Log(Diagnostic{
				Severity: SeverityCritical,
				Context:  "decode lis frame rows",
				Problem:  err.Error(),
				Action:   "row is skipped",
				Offset:   tell,
			})
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// IndexLISFrames splits a stream's logical record offsets into the DFSRs
// that describe a frame and the implicit (Normal/Alternate Data) tells
// that follow each one, until the next DFSR or non-data record breaks the
// run (grounded on the original's DFSR-to-implicit-records association
// documented alongside lis::dfsr).
func IndexLISFrames(offsets LISStreamOffsets) map[int64][]int64 {
	runs := make(map[int64][]int64)

	var current int64 = -1
	haveCurrent := false
	for i, t := range offsets.Types {
		tell := offsets.Tells[i]
		switch t {
		case LISDataFormatSpec:
			current = tell
			haveCurrent = true
			runs[current] = nil
		case LISNormalData, LISAlternateData:
			if haveCurrent {
				runs[current] = append(runs[current], tell)
			}
		default:
			haveCurrent = false
		}
	}
	return runs
}
