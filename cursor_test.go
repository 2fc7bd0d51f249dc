// Copyright 2024 welog authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package welog

import (
	"errors"
	"testing"
)

func TestCursorTake(t *testing.T) {
	c := newCursor([]byte{1, 2, 3, 4})

	out, next, err := c.take(2)
	if err != nil {
		t.Fatalf("take failed: %v", err)
	}
	if len(out) != 2 || out[0] != 1 || out[1] != 2 {
		t.Errorf("take(2) = %v, want [1 2]", out)
	}
	if next.tell() != 2 || next.remaining() != 2 {
		t.Errorf("next cursor = %+v, want tell=2 remaining=2", next)
	}
	if c.tell() != 0 {
		t.Errorf("take should not mutate the receiver, got tell=%d", c.tell())
	}
}

func TestCursorTakeTruncated(t *testing.T) {
	c := newCursor([]byte{1, 2})
	_, _, err := c.take(3)
	if !errors.Is(err, ErrTruncated) {
		t.Errorf("err = %v, want wrapping ErrTruncated", err)
	}
}

func TestCursorTakeNegative(t *testing.T) {
	c := newCursor([]byte{1, 2})
	_, _, err := c.take(-1)
	if !errors.Is(err, ErrInvalidArgs) {
		t.Errorf("err = %v, want wrapping ErrInvalidArgs", err)
	}
}

func TestCursorPeekDoesNotAdvance(t *testing.T) {
	c := newCursor([]byte{1, 2, 3})
	out, err := c.peek(2)
	if err != nil {
		t.Fatalf("peek failed: %v", err)
	}
	if len(out) != 2 || out[0] != 1 {
		t.Errorf("peek(2) = %v, want [1 2]", out)
	}
	if c.tell() != 0 {
		t.Errorf("peek should not advance the cursor, tell = %d", c.tell())
	}
}

func TestCursorSkip(t *testing.T) {
	c := newCursor([]byte{1, 2, 3, 4})
	next, err := c.skip(3)
	if err != nil {
		t.Fatalf("skip failed: %v", err)
	}
	if next.tell() != 3 || next.remaining() != 1 {
		t.Errorf("next cursor = %+v, want tell=3 remaining=1", next)
	}
}

func TestCursorEOF(t *testing.T) {
	c := newCursor([]byte{1})
	if c.eof() {
		t.Fatalf("fresh cursor over one byte should not be eof")
	}
	next, err := c.skip(1)
	if err != nil {
		t.Fatalf("skip failed: %v", err)
	}
	if !next.eof() {
		t.Errorf("cursor should be eof after consuming its whole buffer")
	}
}
