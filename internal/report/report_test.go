// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kortschak/seqclust/internal/clustupdate"
)

func TestComputeFractions(t *testing.T) {
	s := clustupdate.Stats{SeqsWithMatches: 3, SeqsWithoutMatches: 1}
	f := Compute(s)
	if f.Attached != 0.75 {
		t.Errorf("Attached = %v, want 0.75", f.Attached)
	}
	if f.Residual != 0.25 {
		t.Errorf("Residual = %v, want 0.25", f.Residual)
	}
}

func TestComputeFractionsEmpty(t *testing.T) {
	f := Compute(clustupdate.Stats{})
	if f.Attached != 0 || f.Residual != 0 {
		t.Errorf("Compute on empty Stats = %+v, want zero value", f)
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, clustupdate.Stats{
		OldDBSize: 3, NewDBSize: 5, Shared: 3, New: 2,
		SeqsWithMatches: 2, ClustersLoaded: 2,
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), "new database:  5 sequences") {
		t.Errorf("report missing new database line: %s", buf.String())
	}
}
