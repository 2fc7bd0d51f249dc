// Copyright 2024 welog authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package welog

import "fmt"

// This file implements the EFLR component-descriptor state machine: Set
// component, Template, and Objects, grounded bit-for-bit on
// parse_set_component/parse_template/parse_objects in
// lib/src/records.cpp and the component-descriptor bit layout documented
// in lib/include/dlisio/dlisio.hpp.

const descriptorSize = 1

// setDescriptorFlags is the decoded characteristic-presence bits of a
// SET/RSET/RDSET component descriptor: bit 0x10 marks an explicit Type,
// bit 0x08 marks an explicit Name.
type setDescriptorFlags struct {
	role DLISComponentRole
	typ  bool
	name bool
}

func parseSetDescriptor(b byte) (setDescriptorFlags, error) {
	role := componentRole(b)
	switch role {
	case RoleSET, RoleRSET, RoleRDSET:
	default:
		return setDescriptorFlags{}, fmt.Errorf("dlis: expected SET, RSET or RDSET, got role %v: %w", role, ErrUnexpectedValue)
	}
	return setDescriptorFlags{
		role: role,
		typ:  b&0x10 != 0,
		name: b&0x08 != 0,
	}, nil
}

// attributeDescriptorFlags is the decoded characteristic-presence bits of
// an ATTRIB/INVATR component descriptor, or the object/absent tag of an
// ABSATR/OBJECT descriptor seen through the same byte.
type attributeDescriptorFlags struct {
	label, count, reprc, units, value bool
	object, absent, invariant         bool
}

func parseAttributeDescriptor(b byte) (attributeDescriptorFlags, error) {
	role := componentRole(b)

	var flags attributeDescriptorFlags
	switch role {
	case RoleABSATR:
		flags.absent = true
		return flags, nil
	case RoleOBJECT:
		flags.object = true
		return flags, nil
	case RoleINVATR:
		flags.invariant = true
	case RoleATTRIB:
	default:
		return attributeDescriptorFlags{}, fmt.Errorf("dlis: expected ATTRIB, INVATR, ABSATR or OBJECT, got role %v: %w", role, ErrUnexpectedValue)
	}

	flags.label = b&0x10 != 0
	flags.count = b&0x08 != 0
	flags.reprc = b&0x04 != 0
	flags.units = b&0x02 != 0
	flags.value = b&0x01 != 0
	return flags, nil
}

// parseObjectDescriptor decodes an OBJECT component descriptor's name bit.
func parseObjectDescriptor(b byte) (bool, error) {
	role := componentRole(b)
	if role != RoleOBJECT {
		return false, fmt.Errorf("dlis: expected OBJECT, got role %v: %w", role, ErrUnexpectedValue)
	}
	return b&0x10 != 0, nil
}

// decodeRepcode reads a one-byte representation code, reporting an invalid
// code as a MINOR diagnostic rather than a hard error (grounded on
// repcode() in lib/src/records.cpp, which postpones dealing with an
// invalid code until the value is actually used).
func decodeRepcode(c cursor) (DLISRepCode, cursor, []Diagnostic, error) {
	raw, next, err := DecodeUSHORT(c)
	if err != nil {
		return 0, c, nil, err
	}
	rc := DLISRepCode(raw)
	if !rc.Valid() {
		return rc, next, []Diagnostic{{
			Severity:     SeverityMinor,
			Problem:      fmt.Sprintf("invalid representation code %d", raw),
			SpecCitation: "Appendix B: Representation Codes",
			Action:       "continue, postpone dealing with this until later",
		}}, nil
	}
	return rc, next, nil, nil
}

// decodeElements decodes n values of repcode rc, or returns nil if n == 0
// (grounded on elements() in lib/src/records.cpp).
func decodeElements(rc DLISRepCode, n int32, c cursor) ([]DLISValue, cursor, error) {
	if n == 0 {
		return nil, c, nil
	}
	if n < 0 {
		return nil, c, fmt.Errorf("dlis: negative element count %d: %w", n, ErrInvalidArgs)
	}

	out := make([]DLISValue, 0, n)
	cur := c
	for i := int32(0); i < n; i++ {
		v, next, err := DecodeValue(rc, cur)
		if err != nil {
			return out, c, err
		}
		out = append(out, v)
		cur = next
	}
	return out, cur, nil
}

// parseSetComponent reads the record's leading SET/RSET/RDSET component,
// populating s.Type/Name/Role. Grounded on object_set::parse_set_component.
func parseSetComponent(s *ObjectSet, c cursor) (cursor, error) {
	if c.eof() {
		return c, fmt.Errorf("dlis: eflr must be non-empty: %w", ErrTruncated)
	}

	desc, next, err := c.take(descriptorSize)
	if err != nil {
		return c, err
	}
	flags, err := parseSetDescriptor(desc[0])
	if err != nil {
		return c, err
	}

	switch flags.role {
	case RoleRDSET:
		s.diagnostics = append(s.diagnostics, Diagnostic{
			Severity:     SeverityMinor,
			Problem:      "redundant sets are not supported",
			SpecCitation: "3.2.2.2 Component Usage: A Redundant Set is an identical copy of some Set written previously in the same Logical File",
			Action:       "redundant set is treated as a normal set",
		})
	case RoleRSET:
		s.diagnostics = append(s.diagnostics, Diagnostic{
			Severity:     SeverityMajor,
			Problem:      "replacement sets are not supported",
			SpecCitation: "3.2.2.2 Component Usage: Attributes of the Replacement Set reflect all updates that may have been applied since the original Set was written",
			Action:       "replacement set is treated as a normal set",
		})
	}

	if !flags.typ {
		s.diagnostics = append(s.diagnostics, Diagnostic{
			Severity:     SeverityMajor,
			Problem:      "SET:type not set",
			SpecCitation: "3.2.2.1 Component Descriptor: A Set's Type Characteristic must be non-null and must always be explicitly present in the Set Component",
			Action:       "assumed set descriptor corrupted, attempt to read type anyway",
		})
	}

	typ, next2, err := DecodeIDENT(next)
	if err != nil {
		return c, err
	}
	cur := next2

	name := ""
	if flags.name {
		name, cur, err = DecodeIDENT(cur)
		if err != nil {
			return c, err
		}
	}

	s.Type = typ
	s.Name = name
	switch flags.role {
	case RoleRSET:
		s.Role = DLISRoleReplacementSet
	case RoleRDSET:
		s.Role = DLISRoleRedundantSet
	default:
		s.Role = DLISRoleSet
	}
	return cur, nil
}

// parseTemplate reads attribute descriptors until the first OBJECT
// descriptor, building s.Template. Grounded on object_set::parse_template.
func parseTemplate(s *ObjectSet, c cursor) (cursor, error) {
	cur := c
	for {
		if cur.eof() {
			return cur, fmt.Errorf("dlis: unexpected end-of-record in template: %w", ErrTruncated)
		}

		desc, err := cur.peek(descriptorSize)
		if err != nil {
			return cur, err
		}
		flags, err := parseAttributeDescriptor(desc[0])
		if err != nil {
			return cur, err
		}
		if flags.object {
			return cur, nil
		}
		cur, _ = cur.skip(descriptorSize)

		if flags.absent {
			s.diagnostics = append(s.diagnostics, Diagnostic{
				Severity:     SeverityMajor,
				Problem:      "absent attribute in object set template",
				SpecCitation: "3.2.2.2 Component Usage: A Template consists of a collection of Attribute Components and/or Invariant Attribute Components, mixed in any fashion",
				Action:       "attribute not included in template",
			})
			continue
		}

		var attr DLISAttribute
		if !flags.label {
			s.diagnostics = append(s.diagnostics, Diagnostic{
				Severity:     SeverityMajor,
				Problem:      "label not set in template",
				SpecCitation: "3.2.2.2 Component Usage: All Components in the Template must have distinct, non-null Labels",
				Action:       "assumed attribute descriptor corrupted, attempt to read label anyway",
			})
		}

		attr.Label, cur, err = DecodeIDENT(cur)
		if err != nil {
			return cur, err
		}

		if flags.count {
			n, next, err := DecodeUVARI(cur)
			if err != nil {
				return cur, err
			}
			attr.Count, attr.HasCount, cur = n, true, next
		} else {
			attr.Count = 1
		}

		if flags.reprc {
			rc, next, diags, err := decodeRepcode(cur)
			if err != nil {
				return cur, err
			}
			attr.Reprc, attr.HasReprc, cur = rc, true, next
			s.diagnostics = append(s.diagnostics, diags...)
		}

		if flags.units {
			u, next, err := DecodeUNITS(cur)
			if err != nil {
				return cur, err
			}
			attr.Units, attr.HasUnits, cur = u, true, next
		}

		if flags.value {
			vals, next, err := decodeElements(attr.Reprc, attr.Count, cur)
			if err != nil {
				return cur, err
			}
			attr.Value, attr.HasValue, cur = vals, true, next
		}
		attr.Invariant = flags.invariant

		s.Template = append(s.Template, attr)

		if cur.eof() {
			s.diagnostics = append(s.diagnostics, Diagnostic{
				Severity:     SeverityInfo,
				Problem:      "set contains no objects",
				SpecCitation: "3.2.2.2 Component Usage: A Set consists of one or more Objects",
				Action:       "leave the set empty and return",
			})
			return cur, nil
		}
	}
}

// defaultedObject builds a DLISObject pre-populated from the template, the
// starting point every object in the set inherits before its own
// attribute overrides are applied. Grounded on defaulted_object().
func defaultedObject(tmpl []DLISAttribute) DLISObject {
	obj := DLISObject{}
	for _, attr := range tmpl {
		obj.set(attr)
	}
	return obj
}

// parseObjects reads OBJECT components and their attribute overrides until
// the record is exhausted, populating s.objects. Grounded on
// object_set::parse_objects.
func parseObjects(s *ObjectSet, c cursor) (cursor, error) {
	cur := c
	def := defaultedObject(s.Template)

	for !cur.eof() {
		desc, next, err := cur.take(descriptorSize)
		if err != nil {
			return cur, err
		}
		hasName, err := parseObjectDescriptor(desc[0])
		if err != nil {
			return cur, err
		}
		cur = next

		current := def
		current.Attributes = append([]DLISAttribute(nil), def.Attributes...)
		current.Type = s.Type

		var objClear = true
		if !hasName {
			s.diagnostics = append(s.diagnostics, Diagnostic{
				Severity:     SeverityMajor,
				Problem:      "OBJECT:name was not set",
				SpecCitation: "3.2.2.1 Component Descriptor: every Object has a non-null Name",
				Action:       "assumed object descriptor corrupted, attempt to read name anyway",
			})
		}

		current.ObjectName, cur, err = DecodeOBNAME(cur)
		if err != nil {
			return cur, err
		}

		for _, templateAttr := range s.Template {
			if templateAttr.Invariant {
				continue
			}
			if cur.eof() {
				break
			}

			peeked, err := cur.peek(descriptorSize)
			if err != nil {
				return cur, err
			}
			flags, err := parseAttributeDescriptor(peeked[0])
			if err != nil {
				return cur, err
			}
			if flags.object {
				break
			}
			cur, _ = cur.skip(descriptorSize)

			attr := templateAttr
			if flags.absent {
				current.remove(attr.Label)
				continue
			}

			if flags.invariant {
				s.diagnostics = append(s.diagnostics, Diagnostic{
					Severity:     SeverityMajor,
					Problem:      "invariant attribute in object attributes",
					SpecCitation: "3.2.2.2 Component Usage: Invariant Attribute Components may only appear in the Template",
					Action:       "ignored invariant bit, assumed that attribute followed",
				})
			}
			if flags.label {
				s.diagnostics = append(s.diagnostics, Diagnostic{
					Severity:     SeverityMajor,
					Problem:      "label bit set in object attribute",
					SpecCitation: "3.2.2.2 Component Usage: Attribute Components that follow Object Components must not have Attribute Labels",
					Action:       "ignored label bit, assumed that label never followed",
				})
			}

			if flags.count {
				n, next, err := DecodeUVARI(cur)
				if err != nil {
					return cur, err
				}
				attr.Count, cur = n, next
			}
			if flags.reprc {
				rc, next, diags, err := decodeRepcode(cur)
				if err != nil {
					return cur, err
				}
				attr.Reprc, cur = rc, next
				s.diagnostics = append(s.diagnostics, diags...)
			}
			if flags.units {
				u, next, err := DecodeUNITS(cur)
				if err != nil {
					return cur, err
				}
				attr.Units, cur = u, next
			}

			var valueErr error
			if flags.value {
				attr.Value, cur, valueErr = decodeElements(attr.Reprc, attr.Count, cur)
				if valueErr != nil {
					return cur, valueErr
				}
				attr.HasValue = true
			}

			switch {
			case attr.Count == 0:
				attr.Value = nil
				attr.HasValue = false
			case !flags.value:
				if flags.reprc && attr.Reprc != templateAttr.Reprc {
					s.diagnostics = append(s.diagnostics, Diagnostic{
						Severity: SeverityMajor,
						Problem:  "count isn't 0 and representation code changed, but value is not explicitly set",
						Action:   "value defaulted based on representation code from attribute",
					})
					attr.Value = nil
				}
				patchMissingValue(&attr, s)
			}

			current.set(attr)
			_ = objClear
		}

		s.objects = append(s.objects, current)
	}
	return cur, nil
}

// patchMissingValue fills attr.Value with a slice of count nil elements
// (not typed zero values of the attribute's reprc) when an object attribute
// has a nonzero count but no explicit value, matching template shrink/grow
// handling. Grounded on
// patch_missing_value in lib/src/records.cpp; welog collapses the original
// template-vs-object count comparison into a simple truncate-or-zero-fill
// since DLISValue is already a boxed, type-erased slice.
func patchMissingValue(attr *DLISAttribute, s *ObjectSet) {
	count := int(attr.Count)
	if attr.Value != nil {
		switch {
		case len(attr.Value) == count:
			return
		case len(attr.Value) > count:
			s.diagnostics = append(s.diagnostics, Diagnostic{
				Severity:     SeverityMajor,
				Problem:      fmt.Sprintf("template value is not overridden by object attribute, but count is: count (%d) < template count (%d)", count, len(attr.Value)),
				SpecCitation: "3.2.2.1 Component Descriptor: The number of Elements that make up the Value is specified by the Count Characteristic",
				Action:       "shrank template value to new attribute count",
			})
			attr.Value = attr.Value[:count]
			return
		default:
			s.diagnostics = append(s.diagnostics, Diagnostic{
				Severity:     SeverityCritical,
				Problem:      fmt.Sprintf("template value is not overridden by object attribute, but count is: count (%d) > template count (%d)", count, len(attr.Value)),
				SpecCitation: "3.2.2.1 Component Descriptor: The number of Elements that make up the Value is specified by the Count Characteristic",
				Action:       "value is left as in template",
			})
			return
		}
	}

	if !attr.Reprc.Valid() {
		s.diagnostics = append(s.diagnostics, Diagnostic{
			Severity:     SeverityCritical,
			Problem:      fmt.Sprintf("invalid representation code %d", attr.Reprc),
			SpecCitation: "Appendix B: Representation Codes",
			Action:       "attribute value is left as template default, continue",
		})
		return
	}
	attr.Value = make([]DLISValue, count)
}

// parseSet fully parses a logical record's bytes into an ObjectSet,
// stopping (and recording a CRITICAL diagnostic) on the first error rather
// than propagating it, mirroring object_set::parse's catch-and-log
// behavior so a caller still gets whatever objects were decoded before the
// failure.
func parseSet(s *ObjectSet) {
	if s.parsed {
		return
	}
	defer func() { s.parsed = true }()

	if s.setErr != nil {
		return
	}

	cur, err := parseTemplate(s, s.postSetCursor)
	if err == nil {
		_, err = parseObjects(s, cur)
	}
	if err != nil {
		s.diagnostics = append(s.diagnostics, Diagnostic{
			Severity: SeverityCritical,
			Problem:  err.Error(),
			Action:   "object set parse has been interrupted",
		})
	}
}

// Objects triggers (on first call) a full parse of the set's logical
// record and returns the decoded objects. Subsequent calls are free: the
// result is memoized (spec §4.D "lazy self-parsing, idempotent even after
// errors").
func (s *ObjectSet) Objects() ([]DLISObject, error) {
	parseSet(s)
	return s.objects, nil
}

// NewObjectSet wraps rec as an ObjectSet, eagerly decoding just its Set
// component so Type/Name/Role are ready for Pool to match against. rec
// must be an explicit (EFLR) LogicalRecord; callers normally obtain rec
// via ExtractRecord at one of Pool's offsets.
func NewObjectSet(rec LogicalRecord) *ObjectSet {
	s := &ObjectSet{record: rec}
	cur, err := parseSetComponent(s, newCursor(rec.Data))
	if err != nil {
		s.setErr = err
		s.diagnostics = append(s.diagnostics, Diagnostic{
			Severity: SeverityCritical,
			Problem:  err.Error(),
			Action:   "set component could not be classified; object parse will report no objects",
		})
		return s
	}
	s.postSetCursor = cur
	return s
}
