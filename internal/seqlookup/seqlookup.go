// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package seqlookup provides read-side convenience accessors over a
// sealed seqstore.Store, grounded on the sequence lookup table the
// original workflow keeps alongside its packed sequence arena.
package seqlookup

import "github.com/kortschak/seqclust/internal/seqstore"

// Lookup wraps a sealed Store to provide length-distribution queries
// useful for sanity-checking a freshly built database.
type Lookup struct {
	store *seqstore.Store
}

// New returns a Lookup over store.
func New(store *seqstore.Store) Lookup {
	return Lookup{store: store}
}

// Sequence returns the symbols and length of sequence id.
func (l Lookup) Sequence(id int) ([]byte, int) {
	return l.store.Get(id)
}

// MinMax returns the shortest and longest sequence lengths currently in
// the store. It returns 0,0 for an empty store.
func (l Lookup) MinMax() (min, max int) {
	n := l.store.Len()
	if n == 0 {
		return 0, 0
	}
	offsets := l.store.Offsets()
	min = offsets[1] - offsets[0]
	max = min
	for i := 1; i < n; i++ {
		length := offsets[i+1] - offsets[i]
		if length < min {
			min = length
		}
		if length > max {
			max = length
		}
	}
	return min, max
}

// Lengths returns the length of every sequence currently in the store,
// in store order.
func (l Lookup) Lengths() []float64 {
	n := l.store.Len()
	if n == 0 {
		return nil
	}
	offsets := l.store.Offsets()
	lengths := make([]float64, n)
	for i := 0; i < n; i++ {
		lengths[i] = float64(offsets[i+1] - offsets[i])
	}
	return lengths
}
