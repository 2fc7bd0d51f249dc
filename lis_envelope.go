// Copyright 2024 welog authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package welog

import "io"

// This file implements the LIS79 physical/logical record framing (spec
// §5.C), grounded on lrheader/prheader/record_type/padbytes in
// lib/include/dlisio/lis/protocol.hpp and lib/src/lis/protocol.cpp.

const (
	lrhSize = 2
	prhSize = 4
)

// LISRecordType enumerates LIS79's logical record types (LIS79 ch 2.2.1.1).
type LISRecordType uint8

const (
	LISNormalData        LISRecordType = 0
	LISAlternateData     LISRecordType = 1
	LISJobIdentification LISRecordType = 32
	LISWellsiteData      LISRecordType = 34
	LISToolStringInfo    LISRecordType = 39
	LISEncTableDump      LISRecordType = 42
	LISTableDump         LISRecordType = 47
	LISDataFormatSpec    LISRecordType = 64
	LISDataDescriptor    LISRecordType = 65
	LISTU10SoftwareBoot  LISRecordType = 95
	LISBootstrapLoader   LISRecordType = 96
	LISCPKernelLoader    LISRecordType = 97
	LISProgFileHeader    LISRecordType = 100
	LISProgOverlayHeader LISRecordType = 101
	LISProgOverlayLoad   LISRecordType = 102
	LISFileHeader        LISRecordType = 128
	LISFileTrailer       LISRecordType = 129
	LISTapeHeader        LISRecordType = 130
	LISTapeTrailer       LISRecordType = 131
	LISReelHeader        LISRecordType = 132
	LISReelTrailer       LISRecordType = 133
	LISLogicalEOF        LISRecordType = 137
	LISLogicalBOT        LISRecordType = 138
	LISLogicalEOT        LISRecordType = 139
	LISLogicalEOM        LISRecordType = 141
	LISOpCommandInputs   LISRecordType = 224
	LISOpResponseInputs  LISRecordType = 225
	LISSystemOutputs     LISRecordType = 227
	LISFlicComment       LISRecordType = 232
	LISBlankRecord       LISRecordType = 234
	LISPicture           LISRecordType = 85
	LISImage             LISRecordType = 86
)

// Valid reports whether t is a LIS79-defined record type.
func (t LISRecordType) Valid() bool {
	switch t {
	case LISNormalData, LISAlternateData, LISJobIdentification, LISWellsiteData,
		LISToolStringInfo, LISEncTableDump, LISTableDump, LISDataFormatSpec,
		LISDataDescriptor, LISTU10SoftwareBoot, LISBootstrapLoader, LISCPKernelLoader,
		LISProgFileHeader, LISProgOverlayHeader, LISProgOverlayLoad, LISFileHeader,
		LISFileTrailer, LISTapeHeader, LISTapeTrailer, LISReelHeader, LISReelTrailer,
		LISLogicalEOF, LISLogicalBOT, LISLogicalEOT, LISLogicalEOM, LISOpCommandInputs,
		LISOpResponseInputs, LISSystemOutputs, LISFlicComment, LISBlankRecord,
		LISPicture, LISImage:
		return true
	default:
		return false
	}
}

// String names t, matching record_type_str.
func (t LISRecordType) String() string {
	switch t {
	case LISNormalData:
		return "Normal Data"
	case LISAlternateData:
		return "Alternate Data"
	case LISJobIdentification:
		return "Job Identification"
	case LISWellsiteData:
		return "Wellsite Data"
	case LISToolStringInfo:
		return "Tool String Info"
	case LISEncTableDump:
		return "Encrypted Table Dump"
	case LISTableDump:
		return "Table Dump"
	case LISDataFormatSpec:
		return "Data Format Specification"
	case LISDataDescriptor:
		return "Data Descriptor"
	case LISFileHeader:
		return "File Header"
	case LISFileTrailer:
		return "File Trailer"
	case LISTapeHeader:
		return "Tape Header"
	case LISTapeTrailer:
		return "Tape Trailer"
	case LISReelHeader:
		return "Reel Header"
	case LISReelTrailer:
		return "Reel Trailer"
	case LISLogicalEOF:
		return "Logical EOF"
	case LISLogicalBOT:
		return "Logical BOT"
	case LISLogicalEOT:
		return "Logical EOT"
	case LISLogicalEOM:
		return "Logical EOM"
	case LISOpCommandInputs:
		return "Operator Command Inputs"
	case LISOpResponseInputs:
		return "Operator Response Inputs"
	case LISSystemOutputs:
		return "System Outputs to Operator"
	case LISFlicComment:
		return "FLIC Comment"
	case LISBlankRecord:
		return "Blank Record/CSU Comment"
	case LISPicture:
		return "Picture"
	case LISImage:
		return "Image"
	default:
		return "Invalid LIS79 Record Type"
	}
}

// LISLogicalRecordHeader is LIS79's 2-byte per-logical-record header,
// recorded once at the start of the first physical record (LIS79 ch
// 2.2.1.1).
type LISLogicalRecordHeader struct {
	Type       LISRecordType
	Attributes uint8
}

// ParseLISLRH decodes a 2-byte Logical Record Header.
func ParseLISLRH(buf []byte) (LISLogicalRecordHeader, error) {
	if len(buf) < lrhSize {
		return LISLogicalRecordHeader{}, wrapErr("lis: parse lrh", 0, ErrTruncated)
	}
	return LISLogicalRecordHeader{Type: LISRecordType(buf[0]), Attributes: buf[1]}, nil
}

// Physical Record Header attribute bits (LIS79 ch 2.3.1.1).
const (
	prhRecType  = 1 << 14
	prhChcksum  = 1<<13 | 1<<12
	prhFilenum  = 1 << 10
	prhReconum  = 1 << 9
	prhParierr  = 1 << 6
	prhChckerr  = 1 << 5
	prhPredces  = 1 << 1
	prhSuccses  = 1 << 0
)

// LISPhysicalRecordHeader glues the physical tape/disk layout to the
// logical record layer: a length (inclusive of header and trailer) and an
// attribute bitmask, whose successor/predecessor bits say whether this
// physical record's content continues the previous/next one's logical
// record (LIS79 ch 2.3.1.1).
type LISPhysicalRecordHeader struct {
	Length     uint16
	Attributes uint16
}

// ParseLISPRH decodes a 4-byte Physical Record Header.
func ParseLISPRH(buf []byte) (LISPhysicalRecordHeader, error) {
	if len(buf) < prhSize {
		return LISPhysicalRecordHeader{}, wrapErr("lis: parse prh", 0, ErrTruncated)
	}
	return LISPhysicalRecordHeader{
		Length:     beUint16(buf[0:2]),
		Attributes: beUint16(buf[2:4]),
	}, nil
}

// HasPredecessor reports whether this physical record's data continues a
// logical record begun by an earlier physical record.
func (h LISPhysicalRecordHeader) HasPredecessor() bool { return h.Attributes&prhPredces != 0 }

// HasSuccessor reports whether this physical record's logical record
// continues into a following physical record.
func (h LISPhysicalRecordHeader) HasSuccessor() bool { return h.Attributes&prhSuccses != 0 }

func beUint16(b []byte) uint16 { return uint16(b[0])<<8 | uint16(b[1]) }

// IsLISPadByte reports whether b is one of LIS79's two defined pad byte
// values (grounded on is_padbytes).
func IsLISPadByte(b byte) bool { return b == 0x00 || b == 0x20 }

// IsLISPadding reports whether every byte of buf is the same pad byte
// value (0x00 or 0x20). An empty buf is not padding (grounded on
// is_padbytes's explicit size==0 special case).
func IsLISPadding(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}
	pad := buf[0]
	if !IsLISPadByte(pad) {
		return false
	}
	for _, b := range buf[1:] {
		if b != pad {
			return false
		}
	}
	return true
}

// LISRecordInfo is everything needed to locate and extract the bytes of
// one Logical Record: the tell of its first Physical Record, its LRH, and
// that first PRH (grounded on lis::record_info).
type LISRecordInfo struct {
	Tell int64
	LRH  LISLogicalRecordHeader
	PRH  LISPhysicalRecordHeader
}

// LISRecord is a fully stitched Logical Record: its info plus the
// concatenated data payload of every Physical Record segment it spans
// (trailers stripped), mirroring lis::record.
type LISRecord struct {
	Info LISRecordInfo
	Data []byte
}

func readExact(stream Stream, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(stream, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ExtractLISRecord reads and stitches together the Logical Record whose
// first Physical Record begins at tell, consuming successive physical
// records while HasSuccessor is set (grounded on the PR/LR relationship
// documented by lis::record).
func ExtractLISRecord(stream Stream, tell int64, handler ErrorHandler) (LISRecord, error) {
	if handler == nil {
		handler = NewCollectingHandler()
	}

	pos := tell
	if _, err := stream.Seek(pos, io.SeekStart); err != nil {
		return LISRecord{}, wrapErr("lis: extract record seek", pos, err)
	}

	prhBuf, err := readExact(stream, prhSize)
	if err != nil {
		return LISRecord{}, wrapErr("lis: extract record prh", pos, err)
	}
	prh, err := ParseLISPRH(prhBuf)
	if err != nil {
		return LISRecord{}, err
	}

	lrhBuf, err := readExact(stream, lrhSize)
	if err != nil {
		return LISRecord{}, wrapErr("lis: extract record lrh", pos+prhSize, err)
	}
	lrh, err := ParseLISLRH(lrhBuf)
	if err != nil {
		return LISRecord{}, err
	}

	info := LISRecordInfo{Tell: tell, LRH: lrh, PRH: prh}
	rec := LISRecord{Info: info}

	bodyLen := int(prh.Length) - prhSize - lrhSize
	if bodyLen > 0 {
		body, err := readExact(stream, bodyLen)
		if err != nil {
			return rec, wrapErr("lis: extract record body", pos+prhSize+lrhSize, err)
		}
		rec.Data = append(rec.Data, body...)
	}

	for prh.HasSuccessor() {
		// Skip pad bytes one at a time while the next two bytes are both pad
		// values: a lone 0x00 may be the high byte of the next PRH's length.
		pair := make([]byte, 2)
		for {
			at := stream.Ltell()
			n, _ := io.ReadFull(stream, pair)
			skip := n == 2 && IsLISPadByte(pair[0]) && IsLISPadByte(pair[1])
			if skip {
				at++
			}
			if _, err := stream.Seek(at, io.SeekStart); err != nil {
				return rec, wrapErr("lis: extract record pad skip", at, err)
			}
			if !skip {
				break
			}
		}

		prhBuf, err := readExact(stream, prhSize)
		if err != nil {
			handler.Log(Diagnostic{
				Severity: SeverityMajor,
				Context:  "extract lis record",
				Problem:  "expected continuation physical record header, found none",
				Action:   "record is truncated at this point",
				Offset:   stream.Ptell(),
			})
			break
		}
		prh, err = ParseLISPRH(prhBuf)
		if err != nil {
			return rec, err
		}

		bodyLen := int(prh.Length) - prhSize
		if bodyLen > 0 {
			body, err := readExact(stream, bodyLen)
			if err != nil {
				return rec, wrapErr("lis: extract record continuation body", stream.Ptell(), err)
			}
			rec.Data = append(rec.Data, body...)
		}
	}

	return rec, nil
}

// LISStreamOffsets is the tell-table built by IndexLISRecords: the
// starting offset of every Logical Record encountered, keyed by nothing
// more than encounter order (LIS79 files are a flat sequence of records,
// unlike DLIS's explicit/implicit split).
type LISStreamOffsets struct {
	Tells []int64
	Types []LISRecordType
}

// IndexLISRecords walks stream from its current position to EOF, recording
// the tell and type of every Logical Record's first Physical Record
// header. Pad bytes are skipped only between the physical records of one
// logical record (inside ExtractLISRecord); pad bytes after a logical
// record's last physical record are not skipped and are read as the start
// of the next record.
func IndexLISRecords(stream Stream, handler ErrorHandler) LISStreamOffsets {
	if handler == nil {
		handler = NewCollectingHandler()
	}

	var offsets LISStreamOffsets
	for !stream.EOF() {
		tell := stream.Ptell()
		rec, err := ExtractLISRecord(stream, tell, handler)
		if err != nil {
			handler.Log(Diagnostic{
				Severity: SeverityCritical,
				Context:  "index lis records",
				Problem:  err.Error(),
				Action:   "indexing stops at this offset",
				Offset:   tell,
			})
			break
		}
		if !rec.Info.LRH.Type.Valid() {
			handler.Log(Diagnostic{
				Severity: SeverityMinor,
				Context:  "index lis records",
				Problem:  "unrecognized logical record type",
				Action:   "record is kept with its raw type value",
				Offset:   tell,
			})
		}
		offsets.Tells = append(offsets.Tells, tell)
		offsets.Types = append(offsets.Types, rec.Info.LRH.Type)
	}
	return offsets
}
