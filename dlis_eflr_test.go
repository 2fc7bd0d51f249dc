// Copyright 2024 welog authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package welog

import "testing"

// buildCHANNELSet hand-assembles a minimal EFLR: a CHANNEL set with an
// empty set name, one template attribute ("VAL", FSINGL, value 1.5), and
// one object ("C1") that inherits the template's value unchanged.
func buildCHANNELSet() []byte {
	var buf []byte
	buf = append(buf, 0xF8)                              // SET descriptor: role=SET, type+name set
	buf = append(buf, 0x07, 'C', 'H', 'A', 'N', 'N', 'E', 'L') // type = "CHANNEL"
	buf = append(buf, 0x00)                              // name = ""

	buf = append(buf, 0x35)      // ATTRIB descriptor: label+reprc+value
	buf = append(buf, 0x03, 'V', 'A', 'L')
	buf = append(buf, byte(RepFSINGL))
	buf = EncodeFSINGL(buf, 1.5)

	buf = append(buf, 0x70) // OBJECT descriptor: role=OBJECT, name set
	buf = append(buf, 0x00) // origin uvari = 0
	buf = append(buf, 0x00) // copy = 0
	buf = append(buf, 0x02, 'C', '1')
	return buf
}

func TestObjectSetParsesTemplateAndObject(t *testing.T) {
	rec := LogicalRecord{Data: buildCHANNELSet()}
	set := NewObjectSet(rec)

	objs, err := set.Objects()
	if err != nil {
		t.Fatalf("Objects() failed: %v", err)
	}
	if set.Type != "CHANNEL" {
		t.Errorf("set.Type = %q, want %q", set.Type, "CHANNEL")
	}
	if len(objs) != 1 {
		t.Fatalf("got %d objects, want 1", len(objs))
	}

	obj := objs[0]
	if obj.ObjectName.Identifier != "C1" {
		t.Errorf("object identifier = %q, want %q", obj.ObjectName.Identifier, "C1")
	}
	attr, ok := obj.At("VAL")
	if !ok {
		t.Fatalf("object missing VAL attribute")
	}
	if len(attr.Value) != 1 || attr.Value[0].(float32) != 1.5 {
		t.Errorf("VAL value = %v, want [1.5]", attr.Value)
	}

	if diags := set.Diagnostics(); len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
}

func TestObjectSetMemoizesParse(t *testing.T) {
	rec := LogicalRecord{Data: buildCHANNELSet()}
	set := NewObjectSet(rec)

	first, err := set.Objects()
	if err != nil {
		t.Fatalf("Objects() failed: %v", err)
	}
	second, err := set.Objects()
	if err != nil {
		t.Fatalf("Objects() failed on second call: %v", err)
	}
	if len(first) != len(second) {
		t.Errorf("second Objects() call returned a different object count: %d vs %d", len(second), len(first))
	}
}

func TestPoolGetByType(t *testing.T) {
	rec := LogicalRecord{Data: buildCHANNELSet()}
	pool := NewPool([]*ObjectSet{NewObjectSet(rec)}, nil)

	objs, err := pool.GetByType("CHANNEL", nil)
	if err != nil {
		t.Fatalf("GetByType failed: %v", err)
	}
	if len(objs) != 1 {
		t.Fatalf("got %d objects, want 1", len(objs))
	}

	none, err := pool.GetByType("FRAME", nil)
	if err != nil {
		t.Fatalf("GetByType failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("GetByType(\"FRAME\") = %d objects, want 0", len(none))
	}
}
