// Copyright 2024 welog authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package welog

// Fuzz is a go-fuzz entry point: it opens data as whichever format (DLIS
// or LIS79) it sniffs as and walks everything Parse discovers, so a fuzzer
// exercises the envelope/object-pool/frame-decode paths of both formats
// from one corpus.
func Fuzz(data []byte) int {
	f, err := OpenBytes(data, nil)
	if err != nil {
		return 0
	}
	defer f.Close()

	if err := f.Parse(); err != nil {
		return 0
	}

	switch f.Format {
	case FormatDLIS:
		for _, t := range f.DLIS.Pool.Types() {
			if _, err := f.DLIS.Pool.GetByType(t, nil); err != nil {
				return 0
			}
		}
	case FormatLIS79:
		for _, tell := range f.LIS.Offsets.Tells {
			if _, err := ExtractLISRecord(f.Stream(), tell, nil); err != nil {
				return 0
			}
		}
	}

	return 1
}
