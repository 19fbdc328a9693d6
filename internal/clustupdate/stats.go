// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clustupdate

// Stats summarises the outcome of a single update run. It replaces the
// reference toolchain's process-wide mutable counters with a value
// produced once by the orchestrator and handed to the reporter.
type Stats struct {
	OldDBSize int
	NewDBSize int

	Deleted int
	Shared  int
	New     int

	SeqsWithMatches    int
	SeqsWithoutMatches int
	Anomalies          int

	ClustersLoaded int
	ClustersFolded int
}
