// Copyright 2024 welog authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package welog

import "fmt"

// This file implements RP66 v1 frame data decoding (spec §4.E): turning an
// Implicit FLR's raw bytes into one row of channel values, driven by a
// FRAME object's channel list pulled from the EFLR pool. The wire layout
// is OBNAME (identifying which frame this row belongs to) + FRAMENO
// (encoded UVARI) + one packed value (or Dimension-many values) per
// channel in declaration order.

// ChannelSpec is the decoded shape of one CHANNEL object as it bears on
// frame decoding: its representation code and the dimensions of its
// value, taken from the CHANNEL object's REPRESENTATION-CODE and
// DIMENSION attributes.
type ChannelSpec struct {
	Name      Obname
	Reprc     DLISRepCode
	Dimension []int32
}

// elementCount is the product of a channel's dimensions (1 for a scalar
// channel with no declared DIMENSION).
func (c ChannelSpec) elementCount() int32 {
	if len(c.Dimension) == 0 {
		return 1
	}
	n := int32(1)
	for _, d := range c.Dimension {
		n *= d
	}
	return n
}

// FrameSpec is the decoded shape of one FRAME object: its name and the
// ordered list of channels that make up each row.
type FrameSpec struct {
	Name     Obname
	Channels []ChannelSpec
}

// RowSize reports the fixed byte width of one frame row, or DiskVariable
// if any channel has a variable-width representation code.
func (f FrameSpec) RowSize() int {
	total := 0
	for _, ch := range f.Channels {
		sz := ch.Reprc.SizeOf()
		if sz == DiskVariable {
			return DiskVariable
		}
		total += sz * int(ch.elementCount())
	}
	return total
}

// ChannelSpecFromObject builds a ChannelSpec from a CHANNEL pool object,
// defaulting Reprc to RepFSINGL and Dimension to a single element of 1 if
// the attributes are absent (RP66 v1 §5.2.1's documented defaults).
func ChannelSpecFromObject(obj DLISObject) ChannelSpec {
	spec := ChannelSpec{Name: obj.ObjectName, Reprc: RepFSINGL, Dimension: []int32{1}}

	if attr, ok := obj.At("REPRESENTATION-CODE"); ok && len(attr.Value) > 0 {
		if rc, ok := attr.Value[0].(uint8); ok {
			spec.Reprc = DLISRepCode(rc)
		}
	}
	if attr, ok := obj.At("DIMENSION"); ok && len(attr.Value) > 0 {
		dims := make([]int32, 0, len(attr.Value))
		for _, v := range attr.Value {
			if n, ok := v.(int32); ok {
				dims = append(dims, n)
			}
		}
		if len(dims) > 0 {
			spec.Dimension = dims
		}
	}
	return spec
}

// FrameSpecFromObject builds a FrameSpec from a FRAME pool object, looking
// up each referenced CHANNEL object's spec via lookup (typically
// Pool.Get("CHANNEL", name, ...) on the same pool the FRAME came from).
func FrameSpecFromObject(obj DLISObject, lookup func(name Obname) (DLISObject, bool)) FrameSpec {
	spec := FrameSpec{Name: obj.ObjectName}

	attr, ok := obj.At("CHANNELS")
	if !ok {
		return spec
	}
	for _, v := range attr.Value {
		objref, ok := v.(Objref)
		if !ok {
			continue
		}
		if chObj, found := lookup(objref.Name); found {
			spec.Channels = append(spec.Channels, ChannelSpecFromObject(chObj))
		}
	}
	return spec
}

// FrameRow is one decoded Implicit FLR belonging to a frame: which frame
// object it names, its frame number, and its channel values in channel
// declaration order (each a []DLISValue of length elementCount()).
type FrameRow struct {
	Frame     Obname
	FrameNo   int32
	Channels  [][]DLISValue
}

// DecodeFrameRow decodes one FDATA record's bytes against spec. The wire
// layout is: OBNAME (frame identity) + FRAMENO (UVARI) + one
// elementCount()-length run of Reprc-typed values per channel, in order.
func DecodeFrameRow(spec FrameSpec, data []byte) (FrameRow, error) {
	c := newCursor(data)

	name, next, err := DecodeOBNAME(c)
	if err != nil {
		return FrameRow{}, wrapErr("dlis: frame row obname", int64(c.tell()), err)
	}
	c = next

	frameNo, next, err := DecodeUVARI(c)
	if err != nil {
		return FrameRow{}, wrapErr("dlis: frame row frameno", int64(c.tell()), err)
	}
	c = next

	row := FrameRow{Frame: name, FrameNo: frameNo, Channels: make([][]DLISValue, len(spec.Channels))}
	for i, ch := range spec.Channels {
		n := ch.elementCount()
		vals := make([]DLISValue, 0, n)
		for j := int32(0); j < n; j++ {
			v, next, err := DecodeValue(ch.Reprc, c)
			if err != nil {
				return row, wrapErr(fmt.Sprintf("dlis: frame row channel %d element %d", i, j), int64(c.tell()), err)
			}
			vals = append(vals, v)
			c = next
		}
		row.Channels[i] = vals
	}
	return row, nil
}

// DecodeFrameRows decodes every tell in tells (normally the result of
// FindFrameData for this frame's Fingerprint) as a FrameRow.
func DecodeFrameRows(stream Stream, spec FrameSpec, tells []int64, handler ErrorHandler) ([]FrameRow, error) {
	if handler == nil {
		handler = NewCollectingHandler()
	}

	rows := make([]FrameRow, 0, len(tells))
	for _, tell := range tells {
		rec, err := ExtractRecord(stream, tell, 1<<31, handler)
		if err != nil {
			handler.Log(Diagnostic{
				Severity: SeverityCritical,
				Context:  "decode frame rows",
				Problem:  err.Error(),
				Action:   "row is skipped",
				Offset:   tell,
			})
			continue
		}
		if rec.IsEncrypted() {
			continue
		}
		row, err := DecodeFrameRow(spec, rec.Data)
		if err != nil {
			handler.Log(Diagnostic{
				Severity: SeverityCritical,
				Context:  "decode frame rows",
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
