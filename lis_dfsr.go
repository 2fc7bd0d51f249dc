// Copyright 2024 welog authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package welog

import "strings"

// This file implements the LIS79 Data Format Specification Record (spec
// §5.D): the entry blocks and data specification blocks that together
// describe how to decode the Normal/Alternate Data records that follow a
// DFSR, grounded on entry_block/spec_block0/spec_block1/parse_dfsr/
// process_indicators in lib/include/dlisio/lis/protocol.hpp and
// lib/src/lis/protocol.cpp.

const entryBlockFixedSize = 3

// LISEntryBlock is one general-information attribute of a frame: a type
// (one of LISEntryType's values), an on-disk size, a representation code,
// and the decoded value itself (LIS79 ch 4.1.6).
type LISEntryBlock struct {
	Type  LISEntryType
	Size  uint8
	Reprc LISRepCode
	Value DLISValue
}

// entryNumericValue reports the numeric value of v, regardless of which
// concrete LIS representation produced it, matching contains_numeric's
// cross-type comparison.
func entryNumericValue(v DLISValue) (float64, bool) {
	switch n := v.(type) {
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case float32:
		return float64(n), true
	case uint8:
		return float64(n), true
	default:
		return 0, false
	}
}

// readLISEntryBlock decodes one entry block at the given offset within
// data, returning the new offset.
func readLISEntryBlock(data []byte, offset int) (LISEntryBlock, int, error) {
	if offset+entryBlockFixedSize > len(data) {
		return LISEntryBlock{}, offset, wrapErr("lis: entry block", int64(offset), ErrTruncated)
	}

	entry := LISEntryBlock{
		Type:  LISEntryType(data[offset]),
		Size:  data[offset+1],
		Reprc: LISRepCode(data[offset+2]),
	}
	offset += entryBlockFixedSize

	if !entry.Reprc.Valid() {
		return entry, offset, wrapErr("lis: entry block representation code", int64(offset), ErrUnexpectedValue)
	}

	if entry.Size == 0 {
		return entry, offset, nil
	}
	if offset+int(entry.Size) > len(data) {
		return entry, offset, wrapErr("lis: entry block value", int64(offset), ErrTruncated)
	}

	f := LISFormatField{Code: entry.Reprc, Size: int(entry.Size)}
	val, _, err := DecodeLISValue(f, newCursor(data[offset:offset+int(entry.Size)]))
	if err != nil {
		return entry, offset, err
	}
	entry.Value = val
	offset += int(entry.Size)

	return entry, offset, nil
}

// specBlockSize is the fixed byte width of one spec block, DSB0 or DSB1
// alike.
const specBlockSize = 40

// LISSpecBlock is one channel's entry in a Data Format Specification
// Record: its mnemonic/service identity, units, and the representation
// code and sample count needed to decode its column of the following
// frame rows (LIS79 ch 4.1.7).
type LISSpecBlock struct {
	Mnemonic       string
	ServiceID      string
	ServiceOrderNr string
	Units          string
	APILogType     uint8
	APICurveType   uint8
	APICurveClass  uint8
	APIModifier    uint8
	FileNr         int16
	SampleSize     int16
	Samples        uint8
	Reprc          LISRepCode

	// ProcessLevel is populated from DSB0 only.
	ProcessLevel uint8
	// ProcessIndicators is populated from DSB1 only.
	ProcessIndicators ProcessIndicators
	Subtype           int
}

// readLISSpecBlock decodes one 40-byte data specification block, as
// subtype 0 or 1 depending on subtype.
func readLISSpecBlock(data []byte, offset, subtype int) (LISSpecBlock, error) {
	if offset+specBlockSize > len(data) {
		return LISSpecBlock{}, wrapErr("lis: spec block", int64(offset), ErrTruncated)
	}
	b := data[offset : offset+specBlockSize]

	spec := LISSpecBlock{
		Mnemonic:       strings.TrimRight(string(b[0:4]), " \x00"),
		ServiceID:      strings.TrimRight(string(b[4:10]), " \x00"),
		ServiceOrderNr: strings.TrimRight(string(b[10:18]), " \x00"),
		Units:          strings.TrimRight(string(b[18:22]), " \x00"),
		FileNr:         int16(beUint16(b[26:28])),
		SampleSize:     int16(beUint16(b[28:30])),
		Samples:        b[33],
		Reprc:          LISRepCode(b[34]),
		Subtype:        subtype,
	}

	switch subtype {
	case 0:
		spec.APILogType = b[22]
		spec.APICurveType = b[23]
		spec.APICurveClass = b[24]
		spec.APIModifier = b[25]
		spec.ProcessLevel = b[32]
	default:
		spec.APILogType = b[22]
		spec.APICurveType = b[23]
		spec.APICurveClass = b[24]
		spec.APIModifier = b[25]
		spec.ProcessIndicators = decodeProcessIndicators(b[35:40])
	}

	return spec, nil
}

// ProcessIndicators decodes DSB1's 5-byte process indicator mask (LIS79
// ch 4.1.7, process_indicators bit table).
type ProcessIndicators struct {
	OriginalLoggingDirection int

	TrueVerticalDepthCorrection bool
	DataChannelNotOnDepth       bool
	DataChannelIsFiltered       bool
	DataChannelIsCalibrated     bool
	Computed                    bool
	Derived                     bool

	ToolDefinedCorrectionNb2 bool
	ToolDefinedCorrectionNb1 bool
	MudcakeCorrection        bool
	LithologyCorrection      bool
	InclinometryCorrection  bool
	PressureCorrection       bool
	HoleSizeCorrection       bool
	TemperatureCorrection    bool

	AuxiliaryDataFlag      bool
	SchlumbergerProprietary bool
}

// decodeProcessIndicators unpacks a 5-byte mask per process_indicators's
// constructor.
func decodeProcessIndicators(mask []byte) ProcessIndicators {
	var p ProcessIndicators
	p.TrueVerticalDepthCorrection = mask[0]&(1<<5) != 0
	p.DataChannelNotOnDepth = mask[0]&(1<<4) != 0
	p.DataChannelIsFiltered = mask[0]&(1<<3) != 0
	p.DataChannelIsCalibrated = mask[0]&(1<<2) != 0
	p.Computed = mask[0]&(1<<1) != 0
	p.Derived = mask[0]&(1<<0) != 0
	p.ToolDefinedCorrectionNb2 = mask[1]&(1<<7) != 0
	p.ToolDefinedCorrectionNb1 = mask[1]&(1<<6) != 0
	p.MudcakeCorrection = mask[1]&(1<<5) != 0
	p.LithologyCorrection = mask[1]&(1<<4) != 0
	p.InclinometryCorrection = mask[1]&(1<<3) != 0
	p.PressureCorrection = mask[1]&(1<<2) != 0
	p.HoleSizeCorrection = mask[1]&(1<<1) != 0
	p.TemperatureCorrection = mask[1]&(1<<0) != 0
	p.AuxiliaryDataFlag = mask[2]&(1<<1) != 0
	p.SchlumbergerProprietary = mask[2]&(1<<0) != 0
	p.OriginalLoggingDirection = int(mask[0]&(1<<7|1<<6)) >> 6
	return p
}

// DataFormatSpec is a fully decoded DFSR: the frame-level entry blocks and
// the per-channel spec blocks that follow them (grounded on lis::dfsr).
type DataFormatSpec struct {
	Entries []LISEntryBlock
	Specs   []LISSpecBlock
}

// ParseDataFormatSpec decodes a DFSR logical record's bytes, per
// parse_dfsr: entry blocks run until a terminator entry, then spec blocks
// (subtype 0 or 1, chosen by whether a SpecBlockSubtype entry's value
// equals 1) fill the remainder of the record.
func ParseDataFormatSpec(data []byte) (DataFormatSpec, error) {
	var dfs DataFormatSpec

	subtype := 0
	offset := 0
	for {
		entry, next, err := readLISEntryBlock(data, offset)
		if err != nil {
			return dfs, wrapErr("lis: parse dfsr entries", int64(offset), err)
		}
		offset = next

		if entry.Type == LISSpecBlockSubtype {
			if f, ok := entryNumericValue(entry.Value); ok && f == 1 {
				subtype = 1
			}
		}
		dfs.Entries = append(dfs.Entries, entry)

		if entry.Type == LISTerminator {
			break
		}
	}

	for offset < len(data) {
		spec, err := readLISSpecBlock(data, offset, subtype)
		if err != nil {
			return dfs, wrapErr("lis: parse dfsr specs", int64(offset), err)
		}
		dfs.Specs = append(dfs.Specs, spec)
		offset += specBlockSize
	}

	return dfs, nil
}

// FormatString renders the Appendix-B format-string describing how to
// decode a frame row under this DFSR, grounded on the declared (if
// unimplemented in the original) dfs_fmtstr.
func (dfs DataFormatSpec) FormatString() string {
	fields := dfs.FrameFields()
	return LISFormatString(fields)
}

// FrameFields converts the DFSR's spec blocks into the ordered
// LISFormatField list DecodeLISFormat expects for one frame row: a
// fixed-size channel field repeated Samples times for multi-sample
// channels.
func (dfs DataFormatSpec) FrameFields() []LISFormatField {
	var fields []LISFormatField
	for _, spec := range dfs.Specs {
		samples := int(spec.Samples)
		if samples < 1 {
			samples = 1
		}
		size := spec.Reprc.SizeOf()
		if size == DiskVariable {
			size = int(spec.SampleSize)
		}
		for i := 0; i < samples; i++ {
			fields = append(fields, LISFormatField{Code: spec.Reprc, Size: size})
		}
	}
	return fields
}
