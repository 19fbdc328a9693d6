// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package recordstore implements the generic keyed record store used
// throughout the clustering update pipeline: sequence databases,
// clustering files and alignment result files are all instances of the
// same sorted, key-addressable blob store, backed by modernc.org/kv in
// the same way the reference toolchain backs its own on-disk hit
// databases (see the batched kv.Set/BeginTransaction/Commit pattern in
// the ins command's blast and fragment stages).
package recordstore

import (
	"fmt"
	"io"

	"modernc.org/kv"
)

// batchSize is the number of writes gathered into a single kv
// transaction before it is committed, matching the batching constant
// used by the reference toolchain's own kv writers.
const batchSize = 100

// Store is a read-only, key-sorted view over a record store opened from
// disk. Ids are assigned 0..N-1 by ascending key order at Open time.
type Store struct {
	db   *kv.DB
	keys []string
}

// Open opens the record store at path for reading and builds its
// ordinal id index by a single ascending scan.
func Open(path string) (*Store, error) {
	db, err := kv.Open(path, &kv.Options{})
	if err != nil {
		return nil, fmt.Errorf("recordstore: open %s: %w", path, err)
	}
	s := &Store{db: db}
	it, err := db.SeekFirst()
	if err != nil {
		if err == io.EOF {
			return s, nil
		}
		db.Close()
		return nil, fmt.Errorf("recordstore: scan %s: %w", path, err)
	}
	for {
		k, _, err := it.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			db.Close()
			return nil, fmt.Errorf("recordstore: scan %s: %w", path, err)
		}
		s.keys = append(s.keys, string(k))
	}
	return s, nil
}

// Close releases the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Len returns the number of records in the store.
func (s *Store) Len() int { return len(s.keys) }

// KeyAt returns the key at ordinal position i.
func (s *Store) KeyAt(i int) string { return s.keys[i] }

// IDOf returns the ordinal id of key and whether it is present, by
// binary search over the id-ordered key list.
func (s *Store) IDOf(key string) (int, bool) {
	lo, hi := 0, len(s.keys)
	for lo < hi {
		mid := (lo + hi) / 2
		if s.keys[mid] < key {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(s.keys) && s.keys[lo] == key {
		return lo, true
	}
	return 0, false
}

// Data returns the payload bytes for the record at ordinal id.
func (s *Store) Data(id int) ([]byte, error) {
	v, err := s.db.Get(nil, []byte(s.keys[id]))
	if err != nil {
		return nil, fmt.Errorf("recordstore: get %q: %w", s.keys[id], err)
	}
	if v == nil {
		return nil, fmt.Errorf("recordstore: key vanished: %q", s.keys[id])
	}
	return v, nil
}

// DataByKey returns the payload bytes stored under key.
func (s *Store) DataByKey(key string) ([]byte, error) {
	v, err := s.db.Get(nil, []byte(key))
	if err != nil {
		return nil, fmt.Errorf("recordstore: get %q: %w", key, err)
	}
	return v, nil
}

// Writer is a batched append-only writer over a freshly created record
// store, committing every batchSize writes the way the reference
// toolchain's hit-database writers do.
type Writer struct {
	db      *kv.DB
	path    string
	pending int
	inTx    bool
}

// Create creates a new record store at path, truncating any existing
// file, ready for Write calls.
func Create(path string) (*Writer, error) {
	db, err := kv.Create(path, &kv.Options{})
	if err != nil {
		return nil, fmt.Errorf("recordstore: create %s: %w", path, err)
	}
	return &Writer{db: db, path: path}, nil
}

// Write stores payload under key. Keys must be written in ascending
// order and must not repeat.
func (w *Writer) Write(key string, payload []byte) error {
	if !w.inTx {
		if err := w.db.BeginTransaction(); err != nil {
			return fmt.Errorf("recordstore: begin tx: %w", err)
		}
		w.inTx = true
	}
	if err := w.db.Set([]byte(key), payload); err != nil {
		return fmt.Errorf("recordstore: set %q: %w", key, err)
	}
	w.pending++
	if w.pending >= batchSize {
		if err := w.db.Commit(); err != nil {
			return fmt.Errorf("recordstore: commit: %w", err)
		}
		w.inTx = false
		w.pending = 0
	}
	return nil
}

// Close flushes any pending transaction and closes the store.
func (w *Writer) Close() error {
	if w.inTx {
		if err := w.db.Commit(); err != nil {
			w.db.Close()
			return fmt.Errorf("recordstore: final commit: %w", err)
		}
		w.inTx = false
	}
	return w.db.Close()
}

// Path returns the filesystem path the Writer was created at, so
// callers can register it for cleanup on failure.
func (w *Writer) Path() string { return w.path }
