// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clustupdate

// Config holds the update run's tunable parameters, populated directly
// from CLI flags the same way the reference toolchain populates its
// blast.Nucleic search-mode literals from flags.
type Config struct {
	// MatrixPath is the substitution matrix passed to the alignment
	// stage.
	MatrixPath string
	// MaxTargetsPerQuery bounds the prefilter's and the de novo
	// clustering engine's result-list length per query.
	MaxTargetsPerQuery int
	// MaxSeqLen bounds sequence length accepted by the alignment
	// stage.
	MaxSeqLen int
	// Verbosity is a verbosity level for the run. The orchestrator
	// does not read it: stage transitions and anomalies are logged
	// whenever the Orchestrator has a Logger, at any Verbosity.
	Verbosity int
}
