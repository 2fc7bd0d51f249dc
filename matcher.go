// Copyright 2024 welog authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package welog

import "strings"

// Matcher decides whether a candidate identifier satisfies a query pattern,
// used by Pool to let callers plug in fuzzy/case-insensitive/wildcard
// lookup without Pool itself knowing about any particular matching scheme
// (spec §6, grounded in shape on the lookup-by-name helpers in
// saferwall/pe's section.go, generalized from RVA-range containment to
// string-pattern matching).
type Matcher interface {
	Match(pattern, candidate string) bool
}

// ExactMatcher matches only identical strings, case-sensitively. This is
// the default Pool uses when no Matcher is supplied, matching RP66's own
// notion of identifier equality.
type ExactMatcher struct{}

// Match reports whether pattern == candidate.
func (ExactMatcher) Match(pattern, candidate string) bool { return pattern == candidate }

// CaseInsensitiveMatcher matches strings up to ASCII case folding.
type CaseInsensitiveMatcher struct{}

// Match reports whether pattern and candidate are equal ignoring case.
func (CaseInsensitiveMatcher) Match(pattern, candidate string) bool {
	return strings.EqualFold(pattern, candidate)
}

// PrefixMatcher matches any candidate that starts with pattern.
type PrefixMatcher struct{}

// Match reports whether candidate starts with pattern.
func (PrefixMatcher) Match(pattern, candidate string) bool {
	return strings.HasPrefix(candidate, pattern)
}
