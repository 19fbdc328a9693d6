// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package recordstore

import (
	"path/filepath"
	"testing"
)

func TestWriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.db")

	w, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	records := []struct {
		key, payload string
	}{
		{"a", "alpha"},
		{"b", "beta"},
		{"c", "gamma"},
	}
	for _, r := range records {
		if err := w.Write(r.key, []byte(r.payload)); err != nil {
			t.Fatalf("Write(%q): %v", r.key, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close writer: %v", err)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if s.Len() != len(records) {
		t.Fatalf("Len() = %d, want %d", s.Len(), len(records))
	}
	for i, r := range records {
		if got := s.KeyAt(i); got != r.key {
			t.Errorf("KeyAt(%d) = %q, want %q", i, got, r.key)
		}
		data, err := s.Data(i)
		if err != nil {
			t.Fatalf("Data(%d): %v", i, err)
		}
		if string(data) != r.payload {
			t.Errorf("Data(%d) = %q, want %q", i, data, r.payload)
		}
		id, ok := s.IDOf(r.key)
		if !ok || id != i {
			t.Errorf("IDOf(%q) = %d,%v, want %d,true", r.key, id, ok, i)
		}
	}
	if _, ok := s.IDOf("missing"); ok {
		t.Error("IDOf(missing) found, want not found")
	}
}

func TestWriterBatchesAcrossCommit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.db")
	w, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	const n = 250 // spans more than two default batches
	for i := 0; i < n; i++ {
		key := keyFor(i)
		if err := w.Write(key, []byte(key)); err != nil {
			t.Fatalf("Write(%d): %v", i, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()
	if s.Len() != n {
		t.Fatalf("Len() = %d, want %d", s.Len(), n)
	}
}

func keyFor(i int) string {
	const digits = "0123456789"
	b := []byte{digits[i/100%10], digits[i/10%10], digits[i%10]}
	return string(b)
}
