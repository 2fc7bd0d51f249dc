// Copyright 2024 welog authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package welog

// This file defines the four-level RP66 v1 EFLR data model (Set, Template,
// Object, Attribute) that dlis_eflr.go populates, grounded on the
// object_set/basic_object/object_attribute types of
// lib/include/dlisio/records.hpp and lib/src/records.cpp.

// DLISAttribute is one labeled value slot of an object, either inherited
// unchanged from the set's Template or overridden by the object itself.
type DLISAttribute struct {
	Label     string
	Count     int32
	Reprc     DLISRepCode
	Units     string
	Value     []DLISValue
	Invariant bool

	// HasCount/HasReprc/HasUnits/HasValue record whether this attribute's
	// component descriptor carried an explicit characteristic for that
	// field, distinct from whether a value ended up populated (a zero
	// count legitimately leaves Value nil).
	HasCount bool
	HasReprc bool
	HasUnits bool
	HasValue bool
}

// DLISObject is one object of a set: an identity (ObjectName) plus the
// attributes inherited from or overriding the set's Template.
type DLISObject struct {
	Type       string
	ObjectName Obname
	Attributes []DLISAttribute
}

// At returns the attribute with the given label, or ok=false if absent
// (grounded on basic_object::at).
func (o DLISObject) At(label string) (DLISAttribute, bool) {
	for _, a := range o.Attributes {
		if a.Label == label {
			return a, true
		}
	}
	return DLISAttribute{}, false
}

// set inserts or overwrites the attribute matching attr.Label (grounded on
// basic_object::set).
func (o *DLISObject) set(attr DLISAttribute) {
	for i := range o.Attributes {
		if o.Attributes[i].Label == attr.Label {
			o.Attributes[i] = attr
			return
		}
	}
	o.Attributes = append(o.Attributes, attr)
}

// remove deletes the attribute matching label, if present (grounded on
// basic_object::remove).
func (o *DLISObject) remove(label string) {
	out := o.Attributes[:0]
	for _, a := range o.Attributes {
		if a.Label != label {
			out = append(out, a)
		}
	}
	o.Attributes = out
}

// DLISRole is the set-level role carried by a SET/RSET/RDSET component
// descriptor.
type DLISRole int

const (
	DLISRoleSet DLISRole = iota
	DLISRoleReplacementSet
	DLISRoleRedundantSet
)

// ObjectSet is one Explicitly Formatted Logical Record's worth of objects:
// a Set component (type/name/role), a Template describing every object's
// attribute shape, and the Objects themselves. The Set component itself is
// cheap enough (a handful of bytes) that NewObjectSet decodes it eagerly,
// so Type/Name/Role are available for Pool's matching immediately; the
// expensive Template+Objects walk stays lazy and memoized, triggered on
// the first call to Objects (spec §4.D "lazy self-parsing"). A parse that
// fails partway still leaves whatever objects were already decoded
// available, alongside a Diagnostic trail recording what went wrong.
type ObjectSet struct {
	record LogicalRecord

	Type string
	Name string
	Role DLISRole

	Template []DLISAttribute
	objects  []DLISObject

	postSetCursor cursor
	setErr        error

	parsed      bool
	diagnostics []Diagnostic
}

// Diagnostics returns every problem recorded while parsing this set: Set
// component problems are recorded as soon as the set is constructed;
// Template/Object problems only appear once Objects has been called.
func (s *ObjectSet) Diagnostics() []Diagnostic { return s.diagnostics }

// Pool is a queryable collection of ObjectSets, grounded on dl::pool in
// lib/include/dlisio/records.hpp.
type Pool struct {
	Sets    []*ObjectSet
	Matcher Matcher
}

// NewPool wraps sets with the given Matcher (ExactMatcher if nil).
func NewPool(sets []*ObjectSet, matcher Matcher) *Pool {
	if matcher == nil {
		matcher = ExactMatcher{}
	}
	return &Pool{Sets: sets, Matcher: matcher}
}

// Types lists the declared type of every set in the pool, in set order,
// without triggering any set's object parse.
func (p *Pool) Types() []string {
	out := make([]string, 0, len(p.Sets))
	for _, s := range p.Sets {
		out = append(out, s.Type)
	}
	return out
}

// Get returns every object across every set whose type and identifier both
// match the given patterns via the pool's Matcher (grounded on
// pool::get(type, name, ...)). Parsing each matching set's objects happens
// lazily here, and any Diagnostics recorded during that parse are
// forwarded to handler.
func (p *Pool) Get(typePattern, namePattern string, handler ErrorHandler) ([]DLISObject, error) {
	var out []DLISObject
	for _, s := range p.Sets {
		if !p.Matcher.Match(typePattern, s.Type) {
			continue
		}
		objs, err := s.Objects()
		if err != nil {
			return out, err
		}
		for _, obj := range objs {
			if p.Matcher.Match(namePattern, obj.ObjectName.Identifier) {
				out = append(out, obj)
			}
		}
		reportSetDiagnostics(s, handler)
	}
	return out, nil
}

// GetByType returns every object across every set whose type matches
// typePattern (grounded on pool::get(type, ...)).
func (p *Pool) GetByType(typePattern string, handler ErrorHandler) ([]DLISObject, error) {
	var out []DLISObject
	for _, s := range p.Sets {
		if !p.Matcher.Match(typePattern, s.Type) {
			continue
		}
		objs, err := s.Objects()
		if err != nil {
			return out, err
		}
		out = append(out, objs...)
		reportSetDiagnostics(s, handler)
	}
	return out, nil
}

func reportSetDiagnostics(s *ObjectSet, handler ErrorHandler) {
	if handler == nil || len(s.diagnostics) == 0 {
		return
	}
	context := "object set of type '" + s.Type + "' named '" + s.Name + "'"
	for _, d := range s.diagnostics {
		d.Context = context
		handler.Log(d)
	}
}
