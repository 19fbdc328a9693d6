// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"io"
	"log"
	"path/filepath"

	"github.com/kortschak/seqclust/internal/clustupdate"
)

// SimilarityRunner implements clustupdate.Similarity by chaining a
// Prefilter stage into an Alignment stage, both invoked as external
// subprocesses.
type SimilarityRunner struct {
	PrefilterCmd string
	AlignCmd     string
	Threads      int
	Logger       *log.Logger
}

// Run builds and runs the prefilter and alignment stages over
// queryFASTA against targetFASTA and returns the path to the resulting
// alignment record store.
func (s SimilarityRunner) Run(queryFASTA, targetFASTA, workDir, label string, cfg clustupdate.Config) (string, error) {
	prefilterOut := filepath.Join(workDir, label+"_pref.db")
	pre := Prefilter{
		Cmd:        s.PrefilterCmd,
		QueryDB:    queryFASTA,
		TargetDB:   targetFASTA,
		Out:        prefilterOut,
		MaxResList: cfg.MaxTargetsPerQuery,
		Threads:    s.Threads,
	}
	preCmd, err := pre.BuildCommand()
	if err != nil {
		return "", err
	}
	if err := Run(preCmd, logWriter(s.Logger)); err != nil {
		return "", err
	}

	alignOut := filepath.Join(workDir, label+"_align.db")
	al := Alignment{
		Cmd:         s.AlignCmd,
		QueryDB:     queryFASTA,
		TargetDB:    targetFASTA,
		PrefilterDB: prefilterOut,
		Out:         alignOut,
		MatrixPath:  cfg.MatrixPath,
		MaxSeqLen:   cfg.MaxSeqLen,
		Threads:     s.Threads,
	}
	alCmd, err := al.BuildCommand()
	if err != nil {
		return "", err
	}
	if err := Run(alCmd, logWriter(s.Logger)); err != nil {
		return "", err
	}
	return alignOut, nil
}

// ClusterRunner implements clustupdate.DeNovoCluster by invoking the
// set-cover ClusterEngine over a scored alignment database.
type ClusterRunner struct {
	ClusterCmd string
	MaxResList int
	Logger     *log.Logger
}

// Run builds and runs the clustering stage over fastaPath using
// alignDB's scored pairs and returns the path to the resulting
// clustering record store.
func (c ClusterRunner) Run(fastaPath, alignDB, workDir, label string, cfg clustupdate.Config) (string, error) {
	out := filepath.Join(workDir, label+".db")
	eng := ClusterEngine{
		Cmd:        c.ClusterCmd,
		DB:         fastaPath,
		AlignDB:    alignDB,
		Out:        out,
		Mode:       "set-cover",
		MaxResList: c.MaxResList,
	}
	cmd, err := eng.BuildCommand()
	if err != nil {
		return "", err
	}
	if err := Run(cmd, logWriter(c.Logger)); err != nil {
		return "", err
	}
	return out, nil
}

func logWriter(logger *log.Logger) io.Writer {
	if logger == nil {
		return nil
	}
	return logger.Writer()
}
