// Copyright 2024 welog authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package welog

import (
	"fmt"

	"github.com/dlisio-go/welog/internal/log"
)

// Severity classifies a Diagnostic by how much the recovered-from problem
// should worry a caller (spec §7, Design Notes on the error-handling
// layer). It is distinct from Go's error return: a Diagnostic is appended
// to a running log even when the surrounding operation ultimately
// succeeds, so a caller can decide after the fact whether partial/lossy
// recovery was acceptable for their use case.
type Severity int

const (
	// SeverityInfo notes an event with no correctness impact.
	SeverityInfo Severity = iota
	// SeverityMinor notes a recovered inconsistency with no data loss.
	SeverityMinor
	// SeverityMajor notes a recovered inconsistency with likely data loss
	// (e.g. a template value truncated to a smaller object attribute count).
	SeverityMajor
	// SeverityCritical notes an unrecoverable record, skipped entirely.
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityMinor:
		return "MINOR"
	case SeverityMajor:
		return "MAJOR"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Diagnostic records one recovered-from or noteworthy problem encountered
// while parsing. SpecCitation is free text naming the rule that was
// violated, so a report can point a user at the exact clause of the
// standard rather than just a Go error string.
type Diagnostic struct {
	Severity     Severity
	Context      string // which parser/operation raised this
	Problem      string // what was wrong
	SpecCitation string // which rule of the standard this concerns
	Action       string // what recovery action was taken, if any
	Offset       int64  // logical offset the problem was found at, -1 if n/a
}

func (d Diagnostic) String() string {
	if d.Offset >= 0 {
		return fmt.Sprintf("[%s] %s: %s (%s) -> %s @%d",
			d.Severity, d.Context, d.Problem, d.SpecCitation, d.Action, d.Offset)
	}
	return fmt.Sprintf("[%s] %s: %s (%s) -> %s",
		d.Severity, d.Context, d.Problem, d.SpecCitation, d.Action)
}

// ErrorHandler receives Diagnostics as they occur. Pool and the envelope
// walkers accept one so callers can route diagnostics to logs, a UI, or an
// in-memory slice for later inspection, instead of every recoverable
// problem being force-converted into a Go error.
type ErrorHandler interface {
	Log(d Diagnostic)
}

// CollectingHandler is an ErrorHandler that appends every Diagnostic to an
// in-memory slice, for callers that want to inspect the full list after
// parsing completes.
type CollectingHandler struct {
	Diagnostics []Diagnostic
}

// NewCollectingHandler returns an empty CollectingHandler.
func NewCollectingHandler() *CollectingHandler {
	return &CollectingHandler{}
}

// Log appends d.
func (h *CollectingHandler) Log(d Diagnostic) {
	h.Diagnostics = append(h.Diagnostics, d)
}

// HasSeverity reports whether any collected diagnostic is at least as
// severe as min.
func (h *CollectingHandler) HasSeverity(min Severity) bool {
	for _, d := range h.Diagnostics {
		if d.Severity >= min {
			return true
		}
	}
	return false
}

// loggingHandler adapts an ErrorHandler onto the internal leveled logger,
// used as the default when a caller supplies no ErrorHandler of their own.
type loggingHandler struct {
	helper *log.Helper
}

// newLoggingHandler wraps helper as an ErrorHandler.
func newLoggingHandler(helper *log.Helper) *loggingHandler {
	return &loggingHandler{helper: helper}
}

func (h *loggingHandler) Log(d Diagnostic) {
	switch d.Severity {
	case SeverityInfo:
		h.helper.Infof("%s", d)
	case SeverityMinor:
		h.helper.Warnf("%s", d)
	case SeverityMajor:
		h.helper.Warnf("%s", d)
	case SeverityCritical:
		h.helper.Errorf("%s", d)
	}
}
