// Copyright 2024 welog authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose bool

	wantSUL        bool
	wantObjects    bool
	wantFrames     bool
	wantLISRecords bool
	wantDFSR       bool
	wantInfo       bool
	wantEncryption bool
	wantHex        bool
	wantAll        bool

	frameName string
	typeName  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "welogdump",
		Short: "A DLIS/LIS79 well-log file parser",
		Long:  "welogdump inspects RP66 v1 (DLIS) and LIS79 well-log binary files.",
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("You are using version 0.1.0")
		},
	}

	dumpCmd := &cobra.Command{
		Use:   "dump <path>",
		Short: "Dump the structure of a well-log file, or a directory of them",
		Args:  cobra.MinimumNArgs(1),
		Run:   runDump,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print each --objects entry as indented JSON")

	dumpCmd.Flags().BoolVar(&wantSUL, "sul", false, "Dump the Storage Unit Label")
	dumpCmd.Flags().BoolVar(&wantObjects, "objects", false, "Dump explicitly formatted logical record objects (DLIS)")
	dumpCmd.Flags().StringVar(&typeName, "type", "", "Restrict --objects to a single set type, e.g. CHANNEL")
	dumpCmd.Flags().BoolVar(&wantFrames, "frames", false, "Decode frame rows for --frame (DLIS) or every DFSR (LIS79)")
	dumpCmd.Flags().StringVar(&frameName, "frame", "", "Frame object name to decode rows for (DLIS only)")
	dumpCmd.Flags().BoolVar(&wantLISRecords, "lis-records", false, "Dump the LIS79 logical record index")
	dumpCmd.Flags().BoolVar(&wantDFSR, "dfsr", false, "Dump LIS79 Data Format Specification Records")
	dumpCmd.Flags().BoolVar(&wantInfo, "info", false, "Dump LIS79 information records (job-id, wellsite-data, tool-string)")
	dumpCmd.Flags().BoolVar(&wantEncryption, "encryption", false, "Report encrypted logical records (DLIS)")
	dumpCmd.Flags().BoolVar(&wantHex, "hex", false, "Include a hex dump of each encrypted record in the --encryption report")
	dumpCmd.Flags().BoolVar(&wantAll, "all", false, "Dump everything")

	rootCmd.AddCommand(versionCmd, dumpCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
