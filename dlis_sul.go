// Copyright 2024 welog authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package welog

import (
	"encoding/binary"
	"strconv"
	"strings"
)

// This file implements the Storage Unit Label and the signature searches
// that locate it, grounded on findsul/findvrl/hastapemark in
// lib/src/io.cpp and the SULv1 layout exercised by lib/test/sul.cpp.

const sulSize = 80

// StorageUnitLabel is RP66 v1's fixed 80-byte file preamble (spec §4.C).
type StorageUnitLabel struct {
	SequenceNumber  int
	Revision        string
	StructureName   string
	MaxRecordLength int
	SetIdentifier   string
}

// ParseSUL decodes an 80-byte Storage Unit Label. A revision other than
// "V1.00" or a structure name other than "RECORD" is reported via the
// returned error (wrapping ErrInconsistent) but the label is still fully
// populated and returned: callers that only care about locating the first
// visible record can ignore the error and proceed, matching the original's
// INCONSISTENT pathway rather than hard-failing on an otherwise legible
// label.
func ParseSUL(buf []byte) (StorageUnitLabel, error) {
	if len(buf) < sulSize {
		return StorageUnitLabel{}, wrapErr("dlis: parse sul", 0, ErrTruncated)
	}

	seq, err := strconv.Atoi(strings.TrimSpace(string(buf[0:4])))
	if err != nil {
		return StorageUnitLabel{}, wrapErr("dlis: parse sul sequence number", 0, ErrUnexpectedValue)
	}

	revision := string(buf[4:9])
	structure := strings.TrimSpace(string(buf[9:15]))

	maxlen, err := strconv.Atoi(strings.TrimSpace(string(buf[15:20])))
	if err != nil {
		return StorageUnitLabel{}, wrapErr("dlis: parse sul max record length", 0, ErrUnexpectedValue)
	}

	id := string(buf[20:80])

	sul := StorageUnitLabel{
		SequenceNumber:  seq,
		Revision:        revision,
		StructureName:   structure,
		MaxRecordLength: maxlen,
		SetIdentifier:   id,
	}

	if revision != "V1.00" || structure != "RECORD" {
		return sul, wrapErr("dlis: parse sul", 0, ErrInconsistent)
	}
	return sul, nil
}

// sulSearchWindow bounds how much of the file FindSUL scans before giving
// up, matching findsul's 200-byte probe.
const sulSearchWindow = 200

// FindSUL scans the first sulSearchWindow bytes of data for a well-formed
// SUL's "V1.00" revision signature at the position it would occupy (offset
// 4 within the label) and returns the label's starting offset.
func FindSUL(data []byte) (int64, error) {
	limit := len(data)
	if limit > sulSearchWindow {
		limit = sulSearchWindow
	}

	for i := 0; i+9 <= limit; i++ {
		if string(data[i+4:i+9]) == "V1.00" {
			return int64(i), nil
		}
	}
	return 0, wrapErr("dlis: find sul", 0, ErrNotFound)
}

// vrlSearchWindow bounds how much of the file FindVRL scans from a given
// starting point, matching findvrl's 200-byte probe.
const vrlSearchWindow = 200

// FindVRL scans from bytes starting at logical offset from for the visible
// record envelope pattern: a 2-byte big-endian length followed by 0xFF 0x01
// (RP66 v1's format version marker). It returns the absolute offset of the
// length field.
func FindVRL(data []byte, from int64) (int64, error) {
	if from < 0 || from > int64(len(data)) {
		return 0, wrapErr("dlis: find vrl", from, ErrInvalidArgs)
	}

	window := data[from:]
	limit := len(window)
	if limit > vrlSearchWindow {
		limit = vrlSearchWindow
	}

	for i := 0; i+4 <= limit; i++ {
		if window[i+2] == 0xFF && window[i+3] == 0x01 {
			length := binary.BigEndian.Uint16(window[i : i+2])
			if length < 4 {
				return 0, wrapErr("dlis: find vrl", from+int64(i), ErrInconsistent)
			}
			return from + int64(i), nil
		}
	}
	return 0, wrapErr("dlis: find vrl", from, ErrNotFound)
}

// HasTapeMark reports whether data begins with a well-formed tape mark,
// grounded on hastapemark in lib/src/io.cpp.
func HasTapeMark(data []byte) bool {
	if len(data) < tapeMarkSize {
		return false
	}
	return looksLikeTapeMark(data[:tapeMarkSize])
}
