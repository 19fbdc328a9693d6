// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report assembles the end-of-run summary the orchestrator
// prints, replacing the reference workflow's scattered per-stage
// stderr counters with a single structured report over a Stats value.
package report

import (
	"fmt"
	"io"

	"github.com/kortschak/seqclust/internal/clustupdate"
)

// Fractions summarises the attached/residual split of a Stats value as
// plain shares of the new sequences.
type Fractions struct {
	Attached float64
	Residual float64
}

// Compute derives Fractions from s.
func Compute(s clustupdate.Stats) Fractions {
	total := s.SeqsWithMatches + s.SeqsWithoutMatches
	if total == 0 {
		return Fractions{}
	}
	attachedShare := float64(s.SeqsWithMatches) / float64(total)
	residualShare := float64(s.SeqsWithoutMatches) / float64(total)
	return Fractions{Attached: attachedShare, Residual: residualShare}
}

// Write prints a human-readable summary of s to w.
func Write(w io.Writer, s clustupdate.Stats) error {
	f := Compute(s)
	_, err := fmt.Fprintf(w, `update summary:
  old database:  %d sequences
  new database:  %d sequences
  shared:        %d
  deleted:       %d
  new:           %d
  attached:      %d (%.1f%% of new)
  residual:      %d (%.1f%% of new)
  anomalies:     %d
  clusters loaded: %d
  clusters folded: %d
`,
		s.OldDBSize, s.NewDBSize,
		s.Shared, s.Deleted, s.New,
		s.SeqsWithMatches, 100*f.Attached,
		s.SeqsWithoutMatches, 100*f.Residual,
		s.Anomalies,
		s.ClustersLoaded, s.ClustersFolded,
	)
	return err
}
