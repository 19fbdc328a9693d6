// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clustupdate

import "errors"

// Fatal error kinds surfaced by the orchestrator. ClusteringAnomaly is
// deliberately absent from this list: per spec it is a non-fatal
// diagnostic, logged and skipped rather than propagated.
var (
	ErrAlloc           = errors.New("clustupdate: sequence store allocation refused")
	ErrCorruptInput    = errors.New("clustupdate: corrupt input")
	ErrOverflow        = errors.New("clustupdate: sequence store overflow")
	ErrSubstageFailure = errors.New("clustupdate: similarity or clustering sub-stage failed")
	ErrIO              = errors.New("clustupdate: I/O failure")
)
