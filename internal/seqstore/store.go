// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package seqstore provides a packed, offset-indexed immutable byte store
// of fixed-alphabet sequences, addressable by integer id.
//
// A Store holds N sequences with total length T as a single contiguous
// arena plus an offsets table, so that random access to any sequence is
// O(1) index arithmetic and a slice borrow rather than a pointer chase.
package seqstore

import "fmt"

// ErrAlloc is returned by NewOwned when the requested buffers cannot be
// reserved.
var ErrAlloc = fmt.Errorf("seqstore: allocation refused")

// ErrOverflow is returned by Append and AppendAt when a write would run
// past the store's declared capacity.
var ErrOverflow = fmt.Errorf("seqstore: append exceeds capacity")

// Store is a packed, offset-indexed collection of sequences. The zero
// value is not usable; construct one with NewOwned or FromExternal.
type Store struct {
	data    []byte
	offsets []int

	// owned is true when data and offsets were allocated by this
	// package and may be grown or reused; it is false when they were
	// adopted from an external buffer via FromExternal.
	owned bool

	n     int // number of sequences appended so far
	total int // declared total byte capacity
	cur   int // running write cursor, owned mode only
}

// NewOwned allocates a Store able to hold n sequences totalling
// totalBytes bytes of symbol data. It returns ErrAlloc if the
// backing buffers cannot be reserved.
func NewOwned(n, totalBytes int) (s *Store, err error) {
	if n < 0 || totalBytes < 0 {
		return nil, ErrAlloc
	}
	defer func() {
		// Allocation failures surface as a runtime panic from make;
		// convert that into ErrAlloc for the caller.
		if recover() != nil {
			s, err = nil, ErrAlloc
		}
	}()
	s = &Store{
		data:    make([]byte, totalBytes+1),
		offsets: make([]int, n+1),
		owned:   true,
		total:   totalBytes,
	}
	s.offsets[n] = totalBytes
	return s, nil
}

// FromExternal adopts foreign buffers in borrowed mode. The Store never
// reallocates or frees data or offsets; the caller retains ownership.
func FromExternal(data []byte, totalBytes int, offsets []int) (*Store, error) {
	if len(offsets) == 0 {
		return nil, fmt.Errorf("seqstore: empty offsets table")
	}
	if offsets[0] != 0 || offsets[len(offsets)-1] != totalBytes {
		return nil, fmt.Errorf("seqstore: malformed offsets table")
	}
	return &Store{
		data:    data,
		offsets: offsets,
		owned:   false,
		n:       len(offsets) - 1,
		total:   totalBytes,
		cur:     totalBytes,
	}, nil
}

// Append writes seq at the running cursor, records its starting offset,
// and advances the cursor by len(seq). It returns ErrOverflow if the
// write would exceed the store's declared capacity or sequence count.
func (s *Store) Append(seq []byte) error {
	if !s.owned {
		return fmt.Errorf("seqstore: append on borrowed store")
	}
	if s.n >= len(s.offsets)-1 || s.cur+len(seq) > s.total {
		return ErrOverflow
	}
	s.offsets[s.n] = s.cur
	copy(s.data[s.cur:], seq)
	s.cur += len(seq)
	s.n++
	return nil
}

// AppendAt writes seq into data[offset:] and records offsets[id] =
// offset, for use by parallel fillers that have already partitioned the
// id space. The caller guarantees that concurrent AppendAt calls never
// overlap in their byte ranges.
func (s *Store) AppendAt(seq []byte, id, offset int) error {
	if !s.owned {
		return fmt.Errorf("seqstore: append on borrowed store")
	}
	if id < 0 || id >= len(s.offsets)-1 || offset+len(seq) > s.total {
		return ErrOverflow
	}
	s.offsets[id] = offset
	copy(s.data[offset:], seq)
	if id >= s.n {
		s.n = id + 1
	}
	return nil
}

// Close asserts the owned-mode invariant that the final sentinel offset
// already equals the number of bytes written by Append, and seals the
// store. It is a no-op for borrowed stores, which are not checked.
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	if s.n != len(s.offsets)-1 {
		return fmt.Errorf("seqstore: close with %d of %d sequences written", s.n, len(s.offsets)-1)
	}
	if s.offsets[s.n] != s.cur {
		return fmt.Errorf("seqstore: close with cursor %d, sentinel %d", s.cur, s.offsets[s.n])
	}
	return nil
}

// Get returns a borrowed slice of the symbols comprising sequence id and
// its length. The returned slice aliases the store's internal buffer and
// must not be retained past the store's lifetime if the store is later
// reused in owned mode.
func (s *Store) Get(id int) ([]byte, int) {
	lo, hi := s.offsets[id], s.offsets[id+1]
	return s.data[lo:hi], hi - lo
}

// Len returns the number of sequences in the store.
func (s *Store) Len() int { return len(s.offsets) - 1 }

// DataBytes returns the total number of symbol bytes in the store.
func (s *Store) DataBytes() int { return s.total }

// Offsets returns the store's offsets table, of length Len()+1.
func (s *Store) Offsets() []int { return s.offsets }
