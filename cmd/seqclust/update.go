// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/kortschak/seqclust/internal/clustupdate"
	"github.com/kortschak/seqclust/internal/pipeline"
	"github.com/kortschak/seqclust/internal/report"
)

func runUpdate(args []string) {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	matrix := fs.String("matrix", "", "specify substitution matrix for the alignment stage")
	maxTargets := fs.Int("max-targets", 300, "specify maximum targets per query")
	maxSeqLen := fs.Int("max-seq-len", 100000, "specify maximum sequence length accepted by alignment")
	threads := fs.Int("threads", 0, "specify thread count for external stages (<=0 is use all cores)")
	verbose := fs.Bool("verbose", false, "specify verbose logging of sub-stage output")
	keep := fs.Bool("keep", false, "specify to keep the temporary directory on success")
	prefilterCmd := fs.String("prefilter-cmd", "prefilter", "specify the prefilter executable")
	alignCmd := fs.String("align-cmd", "align", "specify the alignment executable")
	clusterCmd := fs.String("cluster-cmd", "cluster", "specify the de novo clustering executable")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), `Usage of %[1]s update:
  $ %[1]s update [options] <old.db> <new.db> <old.clu> <out.clu> <tmpdir>

Options:
`, os.Args[0])
		fs.PrintDefaults()
	}
	fs.Parse(args)

	if fs.NArg() != 5 {
		fs.Usage()
		os.Exit(2)
	}
	oldDB, newDB, oldClu, outClu, tmpDir := fs.Arg(0), fs.Arg(1), fs.Arg(2), fs.Arg(3), fs.Arg(4)

	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		log.Fatalf("create tmpdir: %v", err)
	}
	if !*keep {
		defer os.RemoveAll(tmpDir)
	}

	var capture io.WriteCloser
	stageLogger := log.New(os.Stderr, "", 0)
	if *verbose {
		capture = logCapture()
		defer capture.Close()
		stageLogger = log.New(capture, "", 0)
	}

	cfg := clustupdate.Config{
		MatrixPath:         *matrix,
		MaxTargetsPerQuery: *maxTargets,
		MaxSeqLen:          *maxSeqLen,
	}

	sim := pipeline.SimilarityRunner{
		PrefilterCmd: *prefilterCmd,
		AlignCmd:     *alignCmd,
		Threads:      *threads,
		Logger:       stageLogger,
	}
	clu := pipeline.ClusterRunner{
		ClusterCmd: *clusterCmd,
		MaxResList: *maxTargets,
		Logger:     stageLogger,
	}

	o := &clustupdate.Orchestrator{
		Similarity: sim,
		Cluster:    clu,
		Logger:     log.New(os.Stderr, "", 0),
	}

	stats, err := o.Update(oldDB, newDB, oldClu, outClu, tmpDir, cfg)
	if err != nil {
		log.Fatalf("update failed in stage %s: %v", o.State(), err)
	}

	if err := report.Write(os.Stdout, stats); err != nil {
		log.Fatalf("write report: %v", err)
	}
}

// logCapture returns a WriteCloser that forwards non-empty lines
// written to it through the standard logger, the same pattern the ins
// command uses to fold external process stderr into its own log
// stream without the subprocess's output racing the main log.
func logCapture() io.WriteCloser {
	r, w := io.Pipe()
	go func() {
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for sc.Scan() {
			if len(bytes.TrimSpace(sc.Bytes())) == 0 {
				continue
			}
			log.Printf("\t%s", sc.Bytes())
		}
		err := sc.Err()
		if err != nil && err != io.EOF {
			r.CloseWithError(err)
		}
	}()
	return w
}
