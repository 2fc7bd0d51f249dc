// Copyright 2024 welog authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package welog

import (
	"path"
	"path/filepath"
	"runtime"
)

// IsPrintable reports whether s contains only ASCII letters, digits,
// whitespace and punctuation, used to sanity-check decoded IDENT/ASCII
// mnemonics before they're surfaced to a caller.
func IsPrintable(s string) bool {
	for _, c := range s {
		if c < 0x20 || c > 0x7e {
			return false
		}
	}
	return true
}

// getAbsoluteFilePath resolves a path relative to the calling source
// file's directory, used by tests to locate fixture files regardless of
// the working directory go test was invoked from.
func getAbsoluteFilePath(testfile string) string {
	_, p, _, _ := runtime.Caller(0)
	return path.Join(filepath.Dir(p), testfile)
}
