// Copyright 2024 welog authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dlisio-go/welog"
)

func runDump(cmd *cobra.Command, args []string) {
	path := args[0]

	if !isDirectory(path) {
		dumpFile(path)
		return
	}

	var files []string
	filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	for _, f := range files {
		dumpFile(f)
	}
}

func dumpFile(path string) {
	log.Printf("parsing %s", path)

	f, err := welog.Open(path, &welog.Options{})
	if err != nil {
		log.Printf("failed to open %s: %v", path, err)
		return
	}
	defer f.Close()

	if err := f.Parse(); err != nil {
		log.Printf("failed to parse %s: %v", path, err)
		return
	}

	fmt.Printf("\n%s  [%s]\n", path, f.Format)

	switch f.Format {
	case welog.FormatDLIS:
		dumpDLIS(f)
	case welog.FormatLIS79:
		dumpLIS(f)
	}
}

func dumpDLIS(f *welog.File) {
	handler := welog.NewCollectingHandler()

	if wantSUL || wantAll {
		sul := f.DLIS.SUL
		w := tabwriter.NewWriter(os.Stdout, 1, 1, 3, ' ', 0)
		fmt.Print("\n--- Storage Unit Label ---\n")
		fmt.Fprintf(w, "Sequence Number:\t%d\n", sul.SequenceNumber)
		fmt.Fprintf(w, "DLIS Revision:\t%s\n", sul.Revision)
		fmt.Fprintf(w, "Structure:\t%s\n", sul.StructureName)
		fmt.Fprintf(w, "Max Record Length:\t%d\n", sul.MaxRecordLength)
		fmt.Fprintf(w, "Set Identifier:\t%s\n", sul.SetIdentifier)
		w.Flush()
	}

	if wantObjects || wantAll {
		objs, err := dlisObjects(f, typeName, handler)
		if err != nil {
			log.Printf("failed to read objects: %v", err)
		}
		label := typeName
		if label == "" {
			label = "all types"
		}
		fmt.Printf("\n--- Objects (%s) ---\n", label)
		for _, obj := range objs {
			if verbose {
				fmt.Println(prettyPrint(obj))
				continue
			}
			fmt.Printf("%s %v\n", obj.Type, obj.ObjectName)
			for _, attr := range obj.Attributes {
				fmt.Printf("  %-24s %v %s\n", attr.Label, attr.Value, attr.Units)
			}
		}
	}

	if wantEncryption || wantAll {
		fmt.Print("\n--- Encrypted records ---\n")
		tells := append(append([]int64{}, f.DLIS.Offsets.Explicits...), f.DLIS.Offsets.Implicits...)
		for _, tell := range tells {
			reportEncryptedRecord(f, tell, handler)
		}
	}

	if wantFrames || wantAll {
		if frameName == "" {
			fmt.Print("\n--- Frames: pass --frame <name> to decode rows ---\n")
			return
		}
		dumpDLISFrame(f, handler)
	}
}

// dlisObjects returns every object of typeName, or every object in the
// pool if typeName is empty. Pool.Get/GetByType take a pattern matched
// through the pool's configured Matcher (ExactMatcher by default), so an
// empty typeName can't be expressed as a single wildcard pattern here;
// walking the pool's distinct declared types instead works regardless of
// which Matcher the file was opened with.
func dlisObjects(f *welog.File, typeName string, handler welog.ErrorHandler) ([]welog.DLISObject, error) {
	if typeName != "" {
		return f.DLIS.Pool.GetByType(typeName, handler)
	}

	seen := make(map[string]bool)
	var objs []welog.DLISObject
	for _, t := range f.DLIS.Pool.Types() {
		if seen[t] {
			continue
		}
		seen[t] = true
		got, err := f.DLIS.Pool.GetByType(t, handler)
		if err != nil {
			return objs, err
		}
		objs = append(objs, got...)
	}
	return objs, nil
}

func reportEncryptedRecord(f *welog.File, tell int64, handler welog.ErrorHandler) {
	rec, err := welog.ExtractRecord(f.Stream(), tell, 1<<20, handler)
	if err != nil || !rec.IsEncrypted() {
		return
	}
	packet, err := welog.InspectEncryptionPacket(rec)
	if err != nil {
		fmt.Printf("  @%d: encrypted, encryption packet unreadable: %v\n", tell, err)
		return
	}
	fmt.Printf("  @%d: encrypted, company code %d, size %d\n", tell, packet.CompanyCode, packet.Size)
	if wantHex {
		hexDump(rec.Data)
	}
}

func dumpDLISFrame(f *welog.File, handler welog.ErrorHandler) {
	frames, err := f.DLIS.Pool.Get("FRAME", frameName, handler)
	if err != nil || len(frames) == 0 {
		log.Printf("frame %q not found: %v", frameName, err)
		return
	}

	lookup := func(name welog.Obname) (welog.DLISObject, bool) {
		chans, err := f.DLIS.Pool.Get("CHANNEL", name.Identifier, handler)
		if err != nil || len(chans) == 0 {
			return welog.DLISObject{}, false
		}
		return chans[0], true
	}

	spec := welog.FrameSpecFromObject(frames[0], lookup)
	rows, err := welog.DecodeFrameRows(f.Stream(), spec, f.DLIS.Offsets.Implicits, handler)
	if err != nil {
		log.Printf("failed to decode frame rows: %v", err)
		return
	}

	fmt.Printf("\n--- Frame %v rows ---\n", spec.Name)
	for _, row := range rows {
		fmt.Printf("frame %d: %v\n", row.FrameNo, row.Channels)
	}
}

func dumpLIS(f *welog.File) {
	handler := welog.NewCollectingHandler()

	if wantLISRecords || wantAll {
		fmt.Print("\n--- Logical record index ---\n")
		w := tabwriter.NewWriter(os.Stdout, 1, 1, 3, ' ', 0)
		for i, tell := range f.LIS.Offsets.Tells {
			fmt.Fprintf(w, "%d\t%d\t%s\n", i, tell, f.LIS.Offsets.Types[i])
		}
		w.Flush()
	}

	if wantInfo || wantAll {
		dumpLISInfo(f, handler)
	}

	if wantDFSR || wantFrames || wantAll {
		dumpLISFrames(f, handler)
	}
}

func dumpLISInfo(f *welog.File, handler welog.ErrorHandler) {
	for i, recType := range f.LIS.Offsets.Types {
		switch recType {
		case welog.LISJobIdentification, welog.LISWellsiteData, welog.LISToolStringInfo:
		default:
			continue
		}

		tell := f.LIS.Offsets.Tells[i]
		rec, err := welog.ExtractLISRecord(f.Stream(), tell, handler)
		if err != nil {
			log.Printf("failed to extract information record at %d: %v", tell, err)
			continue
		}
		info, err := welog.ParseInformationRecord(rec.Data)
		if err != nil {
			log.Printf("failed to parse information record at %d: %v", tell, err)
			continue
		}

		fmt.Printf("\n--- %s @ %d ---\n", recType, tell)
		for _, comp := range info.Components {
			fmt.Printf("  %-8s %-8s %v\n", comp.Mnemonic, comp.Units, comp.Component)
		}
	}
}

func dumpLISFrames(f *welog.File, handler welog.ErrorHandler) {
	runs := welog.IndexLISFrames(f.LIS.Offsets)
	for _, tell := range f.LIS.Offsets.Tells {
		rowTells, ok := runs[tell]
		if !ok {
			continue
		}

		rec, err := welog.ExtractLISRecord(f.Stream(), tell, handler)
		if err != nil {
			log.Printf("failed to extract DFSR at %d: %v", tell, err)
			continue
		}
		dfs, err := welog.ParseDataFormatSpec(rec.Data)
		if err != nil {
			log.Printf("failed to parse DFSR at %d: %v", tell, err)
			continue
		}

		if wantDFSR || wantAll {
			fmt.Printf("\n--- DFSR @ %d (%s) ---\n", tell, dfs.FormatString())
			for _, spec := range dfs.Specs {
				fmt.Printf("  %-8s %-8s %s samples=%d reprc=%d\n",
					spec.Mnemonic, spec.ServiceID, spec.Units, spec.Samples, spec.Reprc)
			}
		}

		if wantFrames || wantAll {
			rows, err := welog.DecodeLISFrameRows(f.Stream(), dfs, rowTells, handler)
			if err != nil {
				log.Printf("failed to decode frame rows for DFSR at %d: %v", tell, err)
				continue
			}
			fmt.Printf("\n--- Frame rows for DFSR @ %d ---\n", tell)
			for _, row := range rows {
				fmt.Println(row.Values)
			}
		}
	}
}
