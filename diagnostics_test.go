// Copyright 2024 welog authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package welog

import (
	"strings"
	"testing"
)

func TestSeverityString(t *testing.T) {
	cases := map[Severity]string{
		SeverityInfo:     "INFO",
		SeverityMinor:    "MINOR",
		SeverityMajor:    "MAJOR",
		SeverityCritical: "CRITICAL",
	}
	for sev, want := range cases {
		if got := sev.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", sev, got, want)
		}
	}
	if got := Severity(99).String(); got != "UNKNOWN" {
		t.Errorf("unknown severity String() = %q, want UNKNOWN", got)
	}
}

func TestDiagnosticStringWithOffset(t *testing.T) {
	d := Diagnostic{
		Severity:     SeverityMinor,
		Context:      "extract",
		Problem:      "bad trailer",
		SpecCitation: "2.2.2.4",
		Action:       "segment skipped",
		Offset:       42,
	}
	got := d.String()
	if !strings.Contains(got, "@42") {
		t.Errorf("String() = %q, want it to mention offset 42", got)
	}
	if !strings.Contains(got, "MINOR") || !strings.Contains(got, "bad trailer") {
		t.Errorf("String() = %q, missing expected fields", got)
	}
}

func TestDiagnosticStringWithoutOffset(t *testing.T) {
	d := Diagnostic{Severity: SeverityInfo, Offset: -1}
	if strings.Contains(d.String(), "@") {
		t.Errorf("String() = %q, should omit an offset marker when Offset is -1", d.String())
	}
}

func TestCollectingHandlerHasSeverity(t *testing.T) {
	h := NewCollectingHandler()
	h.Log(Diagnostic{Severity: SeverityInfo})
	h.Log(Diagnostic{Severity: SeverityMinor})

	if h.HasSeverity(SeverityMajor) {
		t.Errorf("HasSeverity(Major) should be false, only Info/Minor were logged")
	}
	if !h.HasSeverity(SeverityMinor) {
		t.Errorf("HasSeverity(Minor) should be true")
	}
	if len(h.Diagnostics) != 2 {
		t.Errorf("got %d diagnostics, want 2", len(h.Diagnostics))
	}
}
