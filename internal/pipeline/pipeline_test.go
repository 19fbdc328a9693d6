// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"strings"
	"testing"
)

func TestPrefilterBuildCommand(t *testing.T) {
	p := Prefilter{
		QueryDB:    "q.fasta",
		TargetDB:   "t.fasta",
		Out:        "pref.db",
		MaxResList: 300,
		Threads:    4,
	}
	cmd, err := p.BuildCommand()
	if err != nil {
		t.Fatalf("BuildCommand: %v", err)
	}
	args := strings.Join(cmd.Args, " ")
	for _, want := range []string{"prefilter", "--query q.fasta", "--target t.fasta", "--out pref.db", "--max-seqs 300", "--threads 4"} {
		if !strings.Contains(args, want) {
			t.Errorf("command line %q missing %q", args, want)
		}
	}
}

func TestAlignmentBuildCommand(t *testing.T) {
	a := Alignment{
		QueryDB:     "q.fasta",
		TargetDB:    "t.fasta",
		PrefilterDB: "pref.db",
		Out:         "align.db",
		MatrixPath:  "blosum62",
		MaxSeqLen:   10000,
	}
	cmd, err := a.BuildCommand()
	if err != nil {
		t.Fatalf("BuildCommand: %v", err)
	}
	args := strings.Join(cmd.Args, " ")
	for _, want := range []string{"align", "--prefilter pref.db", "--sub-mat blosum62", "--max-seq-len 10000"} {
		if !strings.Contains(args, want) {
			t.Errorf("command line %q missing %q", args, want)
		}
	}
}

func TestClusterEngineBuildCommand(t *testing.T) {
	c := ClusterEngine{
		DB:      "db.fasta",
		AlignDB: "align.db",
		Out:     "clu.db",
		Mode:    "set-cover",
	}
	cmd, err := c.BuildCommand()
	if err != nil {
		t.Fatalf("BuildCommand: %v", err)
	}
	args := strings.Join(cmd.Args, " ")
	for _, want := range []string{"cluster", "--db db.fasta", "--align align.db", "--mode set-cover"} {
		if !strings.Contains(args, want) {
			t.Errorf("command line %q missing %q", args, want)
		}
	}
}

func TestBuildCommandCustomExecutable(t *testing.T) {
	p := Prefilter{Cmd: "/opt/bin/myprefilter", QueryDB: "q.fasta"}
	cmd, err := p.BuildCommand()
	if err != nil {
		t.Fatalf("BuildCommand: %v", err)
	}
	if cmd.Args[0] != "/opt/bin/myprefilter" {
		t.Errorf("cmd.Args[0] = %q, want /opt/bin/myprefilter", cmd.Args[0])
	}
}
