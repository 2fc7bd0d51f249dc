// Copyright 2024 welog authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package welog

import "strings"

// This file implements LIS79's information records and the fixed-layout
// reel/tape/file header and trailer records (spec §5.E), grounded on
// component_block/information_record/parse_file_record/
// parse_reel_tape_record/parse_text_record in
// lib/src/lis/protocol.cpp.

const componentBlockFixedSize = 12

// LISComponentBlock is one attribute of an information record (job-id,
// wellsite-data, tool-string): a typed, named, unit-carrying value
// (LIS79 ch 4.1.8).
type LISComponentBlock struct {
	TypeNb    uint8
	Reprc     LISRepCode
	Size      uint8
	Category  uint8
	Mnemonic  string
	Units     string
	Component DLISValue
}

func readLISComponentBlock(data []byte, offset int) (LISComponentBlock, int, error) {
	if offset+componentBlockFixedSize > len(data) {
		return LISComponentBlock{}, offset, wrapErr("lis: component block", int64(offset), ErrTruncated)
	}
	b := data[offset : offset+componentBlockFixedSize]

	comp := LISComponentBlock{
		TypeNb:   b[0],
		Reprc:    LISRepCode(b[1]),
		Size:     b[2],
		Category: b[3],
		Mnemonic: trimField(b[4:8]),
		Units:    trimField(b[8:12]),
	}
	offset += componentBlockFixedSize

	switch comp.TypeNb {
	case 0, 69, 73:
	default:
		return comp, offset, wrapErr("lis: component block type", int64(offset), ErrUnexpectedValue)
	}
	if comp.Mnemonic != "" && !IsPrintable(comp.Mnemonic) {
		return comp, offset, wrapErr("lis: component block mnemonic", int64(offset), ErrUnexpectedValue)
	}
	if !comp.Reprc.Valid() {
		return comp, offset, wrapErr("lis: component block representation code", int64(offset), ErrUnexpectedValue)
	}

	if comp.Size == 0 {
		return comp, offset, nil
	}
	if offset+int(comp.Size) > len(data) {
		return comp, offset, wrapErr("lis: component block value", int64(offset), ErrTruncated)
	}

	f := LISFormatField{Code: comp.Reprc, Size: int(comp.Size)}
	val, _, err := DecodeLISValue(f, newCursor(data[offset:offset+int(comp.Size)]))
	if err != nil {
		return comp, offset, err
	}
	comp.Component = val
	offset += int(comp.Size)

	return comp, offset, nil
}

// InformationRecord is a job-id/wellsite-data/tool-string record: a flat
// list of component blocks (grounded on lis::information_record).
type InformationRecord struct {
	Components []LISComponentBlock
}

// ParseInformationRecord decodes every component block packed into data.
func ParseInformationRecord(data []byte) (InformationRecord, error) {
	var rec InformationRecord
	offset := 0
	for offset < len(data) {
		comp, next, err := readLISComponentBlock(data, offset)
		if err != nil {
			return rec, wrapErr("lis: parse information record", int64(offset), err)
		}
		rec.Components = append(rec.Components, comp)
		offset = next
	}
	return rec, nil
}

// TextRecord is an operator-command/response/system-output/FLIC-comment
// record: raw free-text with no further structure (grounded on
// lis::text_record/parse_text_record).
type TextRecord struct {
	Type    LISRecordType
	Message string
}

// ParseTextRecord decodes a text record, rejecting any type other than
// the four the original accepts.
func ParseTextRecord(recType LISRecordType, data []byte) (TextRecord, error) {
	switch recType {
	case LISOpCommandInputs, LISOpResponseInputs, LISSystemOutputs, LISFlicComment:
	default:
		return TextRecord{}, wrapErr("lis: parse text record", 0, ErrUnexpectedValue)
	}
	return TextRecord{Type: recType, Message: string(data)}, nil
}

// trimField decodes a fixed-width text field, tolerating non-ASCII
// producers (see encoding.go's DecodeText), and trims the space/NUL
// padding LIS79 uses to fill out fixed-width fields.
func trimField(b []byte) string {
	s, _ := DecodeText(b)
	return strings.TrimRight(s, " \x00")
}

// FileHeader is LIS79's File Header record: fixed-width identity fields
// for the file plus a link to the previous file on the reel/tape
// (grounded on lis::file_header/parse_file_record, LIS79 ch 4.1.2).
type FileHeader struct {
	FileName          string
	ServiceSublvlName string
	VersionNumber     string
	DateOfGeneration  string
	MaxPRLength       string
	FileType          string
	PrevFileName      string
}

// FileHeaderSize is the fixed byte width of a File Header/Trailer record.
const FileHeaderSize = 10 + 2 + 6 + 8 + 8 + 1 + 5 + 2 + 2 + 2 + 10

// ParseFileHeader decodes a File Header record.
func ParseFileHeader(data []byte) (FileHeader, error) {
	if len(data) < FileHeaderSize {
		return FileHeader{}, wrapErr("lis: parse file header", 0, ErrTruncated)
	}
	off := 0
	fh := FileHeader{}
	fh.FileName = trimField(data[off : off+10])
	off += 10 + 2
	fh.ServiceSublvlName = trimField(data[off : off+6])
	off += 6
	fh.VersionNumber = trimField(data[off : off+8])
	off += 8
	fh.DateOfGeneration = trimField(data[off : off+8])
	off += 8 + 1
	fh.MaxPRLength = trimField(data[off : off+5])
	off += 5 + 2
	fh.FileType = trimField(data[off : off+2])
	off += 2 + 2
	fh.PrevFileName = trimField(data[off : off+10])
	return fh, nil
}

// FileTrailer is LIS79's File Trailer record: the same shape as
// FileHeader but linking forward to the next file.
type FileTrailer struct {
	FileName          string
	ServiceSublvlName string
	VersionNumber     string
	DateOfGeneration  string
	MaxPRLength       string
	FileType          string
	NextFileName      string
}

// ParseFileTrailer decodes a File Trailer record.
func ParseFileTrailer(data []byte) (FileTrailer, error) {
	fh, err := ParseFileHeader(data)
	if err != nil {
		return FileTrailer{}, err
	}
	return FileTrailer{
		FileName:          fh.FileName,
		ServiceSublvlName: fh.ServiceSublvlName,
		VersionNumber:     fh.VersionNumber,
		DateOfGeneration:  fh.DateOfGeneration,
		MaxPRLength:       fh.MaxPRLength,
		FileType:          fh.FileType,
		NextFileName:      fh.PrevFileName,
	}, nil
}

// ReelTapeRecord is the shared layout of LIS79's reel/tape header and
// trailer records (grounded on parse_reel_tape_record, LIS79 ch
// 4.1.3/4.1.4).
type ReelTapeRecord struct {
	ServiceName      string
	Date             string
	OriginOfData     string
	Name             string
	ContinuationNr   string
	LinkedName       string
	Comment          string
}

// ReelTapeRecordSize is the fixed byte width of a reel/tape header or
// trailer record.
const ReelTapeRecordSize = 6 + 6 + 8 + 2 + 4 + 2 + 8 + 2 + 2 + 2 + 8 + 2 + 74

// ParseReelTapeRecord decodes a reel/tape header or trailer record. The
// linked-name field means "previous" for a header and "next" for a
// trailer; callers distinguish by which record type they parsed.
func ParseReelTapeRecord(data []byte) (ReelTapeRecord, error) {
	if len(data) < ReelTapeRecordSize {
		return ReelTapeRecord{}, wrapErr("lis: parse reel/tape record", 0, ErrTruncated)
	}
	off := 0
	r := ReelTapeRecord{}
	r.ServiceName = trimField(data[off : off+6])
	off += 6 + 6
	r.Date = trimField(data[off : off+8])
	off += 8 + 2
	r.OriginOfData = trimField(data[off : off+4])
	off += 4 + 2
	r.Name = trimField(data[off : off+8])
	off += 8 + 2
	r.ContinuationNr = trimField(data[off : off+2])
	off += 2 + 2
	r.LinkedName = trimField(data[off : off+8])
	off += 8 + 2
	r.Comment = trimField(data[off : off+74])
	return r, nil
}
