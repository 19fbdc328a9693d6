// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"gonum.org/v1/gonum/stat"

	"github.com/kortschak/seqclust/internal/fastaio"
	"github.com/kortschak/seqclust/internal/keyindex"
	"github.com/kortschak/seqclust/internal/recordstore"
	"github.com/kortschak/seqclust/internal/seqlookup"
	"github.com/kortschak/seqclust/internal/seqstore"
)

func runSeqDB(args []string) {
	if len(args) < 1 {
		seqdbUsage()
		os.Exit(2)
	}
	switch args[0] {
	case "build":
		runSeqDBBuild(args[1:])
	case "stats":
		runSeqDBStats(args[1:])
	default:
		seqdbUsage()
		os.Exit(2)
	}
}

func seqdbUsage() {
	fmt.Fprintf(os.Stderr, `Usage of %[1]s seqdb:
  $ %[1]s seqdb build [options] <fasta> <out.db>
  $ %[1]s seqdb stats [options] <db>
`, os.Args[0])
}

func runSeqDBBuild(args []string) {
	fs := flag.NewFlagSet("seqdb build", flag.ExitOnError)
	indexed := fs.Bool("indexed", false, "specify to use the fasta file's .fai sidecar for random access instead of a sequential scan")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage of %s seqdb build:\n  $ %[1]s seqdb build [-indexed] <fasta> <out.db>\n", os.Args[0])
		fs.PrintDefaults()
	}
	fs.Parse(args)
	if fs.NArg() != 2 {
		fs.Usage()
		os.Exit(2)
	}

	var store *seqstore.Store
	var idx *keyindex.Index
	if *indexed {
		var err error
		store, idx, err = fastaio.BuildIndexed(fs.Arg(0))
		if err != nil {
			log.Fatalf("build sequence store: %v", err)
		}
	} else {
		src, err := os.Open(fs.Arg(0))
		if err != nil {
			log.Fatalf("open fasta: %v", err)
		}
		defer src.Close()

		store, idx, err = fastaio.Build(src)
		if err != nil {
			log.Fatalf("build sequence store: %v", err)
		}
	}

	w, err := recordstore.Create(fs.Arg(1))
	if err != nil {
		log.Fatalf("create record store: %v", err)
	}
	for i := 0; i < idx.Len(); i++ {
		rec := idx.At(i)
		payload, _ := store.Get(i)
		if err := w.Write(rec.Key, payload); err != nil {
			log.Fatalf("write record %q: %v", rec.Key, err)
		}
	}
	if err := w.Close(); err != nil {
		log.Fatalf("close record store: %v", err)
	}
}

func runSeqDBStats(args []string) {
	fs := flag.NewFlagSet("seqdb stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage of %s seqdb stats:\n  $ %[1]s seqdb stats <db>\n", os.Args[0])
		fs.PrintDefaults()
	}
	fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}

	s, err := recordstore.Open(fs.Arg(0))
	if err != nil {
		log.Fatalf("open record store: %v", err)
	}
	defer s.Close()

	n := s.Len()
	total := 0
	seqs := make([][]byte, n)
	for i := 0; i < n; i++ {
		data, err := s.Data(i)
		if err != nil {
			log.Fatalf("read record %d: %v", i, err)
		}
		seqs[i] = data
		total += len(data)
	}

	arena, err := seqstore.NewOwned(n, total)
	if err != nil {
		log.Fatalf("build sequence arena: %v", err)
	}
	for _, raw := range seqs {
		if err := arena.Append(raw); err != nil {
			log.Fatalf("build sequence arena: %v", err)
		}
	}
	if err := arena.Close(); err != nil {
		log.Fatalf("build sequence arena: %v", err)
	}

	lk := seqlookup.New(arena)
	min, max := lk.MinMax()

	fmt.Fprintf(os.Stdout, "records:       %d\n", n)
	fmt.Fprintf(os.Stdout, "total symbols: %d\n", total)
	fmt.Fprintf(os.Stdout, "min length:    %d\n", min)
	fmt.Fprintf(os.Stdout, "max length:    %d\n", max)
	if lengths := lk.Lengths(); len(lengths) > 0 {
		mean, stddev := stat.MeanStdDev(lengths, nil)
		fmt.Fprintf(os.Stdout, "mean length:   %.1f\n", mean)
		fmt.Fprintf(os.Stdout, "stddev length: %.1f\n", stddev)
	}
}
