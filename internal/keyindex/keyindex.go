// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package keyindex implements the sorted key-index sidecar files that
// describe named slices of a record store blob, and the two-pointer
// diff between an old and a new index used to partition an incremental
// update.
package keyindex

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// MaxKeyLen is the maximum length, in bytes, of a key.
const MaxKeyLen = 4096

// Record describes a named slice of an on-disk blob.
type Record struct {
	Key    string
	Offset int64
	Length int64
}

// Index is a sorted, ascending-by-key sequence of Records. Keys must be
// unique and sort order is assumed by Diff and Lookup; Load verifies it.
type Index struct {
	recs []Record
}

// New returns an Index over recs, which must already be sorted ascending
// by Key. It does not copy recs.
func New(recs []Record) *Index {
	return &Index{recs: recs}
}

// Len returns the number of records in the index.
func (x *Index) Len() int { return len(x.recs) }

// At returns the record at sorted position i.
func (x *Index) At(i int) Record { return x.recs[i] }

// Records returns the index's underlying record slice.
func (x *Index) Records() []Record { return x.recs }

// Lookup returns the record for key and whether it was found, by binary
// search over the sorted records.
func (x *Index) Lookup(key string) (Record, bool) {
	i := sort.Search(len(x.recs), func(i int) bool { return x.recs[i].Key >= key })
	if i < len(x.recs) && x.recs[i].Key == key {
		return x.recs[i], true
	}
	return Record{}, false
}

// Load parses a key index file: one record per line, tab-separated
// "<key>\t<offset>\t<length>\n". It returns an error if the keys are not
// in strictly ascending order, if a key exceeds MaxKeyLen, or if a line
// is malformed.
func Load(r io.Reader) (*Index, error) {
	var recs []Record
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	prev := ""
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 3 {
			return nil, fmt.Errorf("keyindex: malformed record %q", line)
		}
		key := fields[0]
		if len(key) > MaxKeyLen {
			return nil, fmt.Errorf("keyindex: key exceeds max length: %q", key)
		}
		if key <= prev && len(recs) > 0 {
			return nil, fmt.Errorf("keyindex: keys out of order at %q", key)
		}
		off, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("keyindex: bad offset for %q: %w", key, err)
		}
		length, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("keyindex: bad length for %q: %w", key, err)
		}
		recs = append(recs, Record{Key: key, Offset: off, Length: length})
		prev = key
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("keyindex: %w", err)
	}
	return &Index{recs: recs}, nil
}

// WriteTo serialises the index in the same tab-separated format Load
// reads, in ascending key order.
func (x *Index) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for _, r := range x.recs {
		m, err := fmt.Fprintf(bw, "%s\t%d\t%d\n", r.Key, r.Offset, r.Length)
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

// Stats summarises the outcome of a Diff.
type Stats struct {
	Deleted int
	Shared  int
	New     int
}

// Diff partitions old and new by a two-pointer merge on ascending key
// order, producing A (keys present in both, taking offset/length from
// new) and B (keys present only in new). Keys present only in old are
// counted as deletions and do not appear in either output.
func Diff(old, new *Index) (a, b *Index, stats Stats) {
	var aRecs, bRecs []Record
	i, j := 0, 0
	for i < old.Len() && j < new.Len() {
		oi, nj := old.recs[i], new.recs[j]
		switch {
		case oi.Key == nj.Key:
			aRecs = append(aRecs, nj)
			stats.Shared++
			i++
			j++
		case oi.Key < nj.Key:
			stats.Deleted++
			i++
		default:
			bRecs = append(bRecs, nj)
			stats.New++
			j++
		}
	}
	for ; j < new.Len(); j++ {
		bRecs = append(bRecs, new.recs[j])
		stats.New++
	}
	stats.Deleted += old.Len() - i
	return &Index{recs: aRecs}, &Index{recs: bRecs}, stats
}
