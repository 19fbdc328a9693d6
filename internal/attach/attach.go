// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package attach implements the match-attachment stage: for each new
// sequence with an alignment hit against the shared set, it is appended
// to the cluster of its top hit's target; sequences with no hit are
// routed to a residual key index for de novo clustering.
package attach

import (
	"bytes"
	"fmt"
	"log"

	"github.com/biogo/store/interval"

	"github.com/kortschak/seqclust/internal/clustergraph"
	"github.com/kortschak/seqclust/internal/keyindex"
)

// ErrCorruptInput is returned when an alignment record names a target
// key that is not present in the current database, which can only
// happen if the alignment and index inputs are mutually inconsistent.
var ErrCorruptInput = fmt.Errorf("attach: alignment target not found in current database")

// Resolver maps a sequence key to its integer id in the current
// database.
type Resolver func(key string) (id int, ok bool)

// RecordSource is the minimal interface attach needs of the BA
// alignment record store.
type RecordSource interface {
	Len() int
	KeyAt(i int) string
	Data(i int) ([]byte, error)
}

// Stats reports the outcome of an Attach run.
type Stats struct {
	SeqsWithMatches    int
	SeqsWithoutMatches int
	Anomalies          int
}

// Attach walks the BA alignment records in order, resolves each query
// and its top surviving hit, and either appends the query to the hit's
// cluster or, if the query had no hit at all, writes its (key, offset,
// length) record from bIndex into Brest.
//
// A target key that does not resolve at all is a fatal inconsistency:
// it must have been present in the A set that fed the alignment stage.
// A target that resolves to an id with no representative is logged as
// a non-fatal anomaly and the query is simply dropped from attachment.
func Attach(ba RecordSource, bIndex *keyindex.Index, resolve Resolver, graph *clustergraph.Graph, brest *keyindex.Index, logger *log.Logger) (*keyindex.Index, Stats, error) {
	var restRecs []keyindex.Record
	var stats Stats

	for i := 0; i < ba.Len(); i++ {
		qKey := ba.KeyAt(i)
		qID, ok := resolve(qKey)
		if !ok {
			return nil, stats, fmt.Errorf("attach: query %q not present in current database", qKey)
		}
		payload, err := ba.Data(i)
		if err != nil {
			return nil, stats, err
		}
		hits := parseHits(payload)
		if len(hits) == 0 {
			rec, ok := bIndex.Lookup(qKey)
			if !ok {
				return nil, stats, fmt.Errorf("attach: query %q not present in B index", qKey)
			}
			restRecs = append(restRecs, rec)
			stats.SeqsWithoutMatches++
			continue
		}

		hits = cullContained(hits)
		top := hits[0]
		tID, ok := resolve(top.TargetKey)
		if !ok {
			return nil, stats, fmt.Errorf("%w: %q", ErrCorruptInput, top.TargetKey)
		}
		rep := graph.RepOf(tID)
		if rep == clustergraph.NoRep {
			if logger != nil {
				logger.Printf("clustering anomaly: target %q has no representative, dropping query %q", top.TargetKey, qKey)
			}
			stats.Anomalies++
			continue
		}
		graph.AddMember(rep, qID)
		stats.SeqsWithMatches++
	}

	return keyindex.New(restRecs), stats, nil
}

// hit is a single ranked alignment result row.
type hit struct {
	TargetKey  string
	Start, End int
}

// parseHits splits payload into ordered hit rows, best first, each
// beginning with a tab-separated target key.
func parseHits(payload []byte) []hit {
	var hits []hit
	for len(payload) > 0 {
		i := bytes.IndexByte(payload, '\n')
		var line []byte
		if i < 0 {
			line, payload = payload, nil
		} else {
			line, payload = payload[:i], payload[i+1:]
		}
		if len(line) == 0 {
			continue
		}
		fields := bytes.Split(line, []byte("\t"))
		h := hit{TargetKey: string(fields[0])}
		if len(fields) >= 3 {
			h.Start = atoiOrZero(fields[1])
			h.End = atoiOrZero(fields[2])
		}
		hits = append(hits, h)
	}
	return hits
}

func atoiOrZero(b []byte) int {
	n := 0
	neg := false
	for i, c := range b {
		if i == 0 && c == '-' {
			neg = true
			continue
		}
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	if neg {
		n = -n
	}
	return n
}

// cullContained removes hit rows that are completely contained, in
// target coordinates, by an earlier (higher-ranked) row against the
// same target, so a ranked duplicate never displaces the real top hit.
// Rows with no parseable coordinates (Start==End==0) are passed through
// unmodified. This generalises the cullContained/subjectInterval
// redundancy filter used for BLAST hit lists.
func cullContained(hits []hit) []hit {
	var tree interval.IntTree
	kept := make([]bool, len(hits))
	for i, h := range hits {
		kept[i] = true
		if h.Start == h.End {
			continue
		}
		iv := hitInterval{uid: uintptr(i), hit: h}
		for _, o := range tree.Get(iv) {
			oh := o.(hitInterval)
			if oh.hit.TargetKey == h.TargetKey && contains(oh.hit, h) {
				kept[i] = false
				break
			}
		}
		if kept[i] {
			_ = tree.Insert(iv, true)
			tree.AdjustRanges()
		}
	}
	out := make([]hit, 0, len(hits))
	for i, h := range hits {
		if kept[i] {
			out = append(out, h)
		}
	}
	return out
}

func contains(outer, inner hit) bool {
	lo, hi := outer.Start, outer.End
	if hi < lo {
		lo, hi = hi, lo
	}
	ilo, ihi := inner.Start, inner.End
	if ihi < ilo {
		ilo, ihi = ihi, ilo
	}
	return lo <= ilo && ihi <= hi
}

type hitInterval struct {
	uid uintptr
	hit hit
}

func (h hitInterval) ID() uintptr { return h.uid }
func (h hitInterval) Overlap(b interval.IntRange) bool {
	lo, hi := h.hit.Start, h.hit.End
	if hi < lo {
		lo, hi = hi, lo
	}
	return b.Start < hi && b.End > lo
}
func (h hitInterval) Range() interval.IntRange {
	lo, hi := h.hit.Start, h.hit.End
	if hi < lo {
		lo, hi = hi, lo
	}
	return interval.IntRange{Start: lo, End: hi}
}
