// Copyright 2024 welog authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package welog

import (
	"errors"
	"testing"
)

func TestWrapErrNil(t *testing.T) {
	if err := wrapErr("op", 0, nil); err != nil {
		t.Errorf("wrapErr(nil) = %v, want nil", err)
	}
}

func TestWrapErrUnwrapsToSentinel(t *testing.T) {
	err := wrapErr("dlis: parse vrl", 12, ErrUnexpectedValue)
	if !errors.Is(err, ErrUnexpectedValue) {
		t.Errorf("errors.Is(err, ErrUnexpectedValue) = false, want true")
	}

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("errors.As(err, *ParseError) failed")
	}
	if perr.Op != "dlis: parse vrl" || perr.Offset != 12 {
		t.Errorf("ParseError = %+v, want Op=%q Offset=12", perr, "dlis: parse vrl")
	}
}

func TestParseErrorStringWithAndWithoutOffset(t *testing.T) {
	withOffset := wrapErr("op", 5, ErrTruncated).Error()
	if withOffset == "" {
		t.Fatalf("Error() returned empty string")
	}

	noOffset := wrapErr("op", -1, ErrTruncated).Error()
	if noOffset == withOffset {
		t.Errorf("offset and no-offset error strings should differ")
	}
}
