// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// seqclust incrementally updates a clustering of sequence records as
// the underlying database changes, without re-clustering sequences
// that were already assigned to a cluster in a previous run.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("seqclust: ")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), `Usage of %[1]s:
  $ %[1]s update [options] <old.db> <new.db> <old.clu> <out.clu> <tmpdir>
  $ %[1]s seqdb build [options] <fasta> <out.db>
  $ %[1]s seqdb stats [options] <db>

`, os.Args[0])
		flag.PrintDefaults()
	}

	if len(os.Args) < 2 {
		flag.Usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "update":
		runUpdate(os.Args[2:])
	case "seqdb":
		runSeqDB(os.Args[2:])
	default:
		flag.Usage()
		os.Exit(2)
	}
}
