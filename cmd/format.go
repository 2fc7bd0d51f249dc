// Copyright 2024 welog authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
)

func prettyPrint(iface interface{}) string {
	var prettyJSON bytes.Buffer
	buff, err := json.Marshal(iface)
	if err != nil {
		log.Printf("JSON marshal error: %v", err)
		return ""
	}
	if err := json.Indent(&prettyJSON, buff, "", "\t"); err != nil {
		log.Printf("JSON indent error: %v", err)
		return string(buff)
	}
	return prettyJSON.String()
}

// hexDump prints b in the classic offset/hex/ASCII three-column layout,
// used for each encrypted record in the --encryption report when --hex is
// passed.
func hexDump(b []byte) {
	var a [16]byte
	n := (len(b) + 15) &^ 15
	for i := 0; i < n; i++ {
		if i%16 == 0 {
			fmt.Printf("%6d", i)
		}
		if i%8 == 0 {
			fmt.Print(" ")
		}
		if i < len(b) {
			fmt.Printf(" %02x", b[i])
		} else {
			fmt.Print("   ")
		}
		if i >= len(b) {
			a[i%16] = ' '
		} else if b[i] < 32 || b[i] > 126 {
			a[i%16] = '.'
		} else {
			a[i%16] = b[i]
		}
		if i%16 == 15 {
			fmt.Printf("  %s\n", string(a[:]))
		}
	}
}

func isDirectory(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
