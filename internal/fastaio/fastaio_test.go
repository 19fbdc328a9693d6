// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fastaio

import (
	"bytes"
	"strings"
	"testing"
)

const sample = ">a\nACGTACGT\n>b\nGGCC\n>c\nTT\n"

func TestBuild(t *testing.T) {
	store, idx, err := Build(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if store.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", store.Len())
	}
	if idx.Len() != 3 {
		t.Fatalf("index Len() = %d, want 3", idx.Len())
	}
	want := map[string]int{"a": 8, "b": 4, "c": 2}
	for i := 0; i < idx.Len(); i++ {
		r := idx.At(i)
		if int(r.Length) != want[r.Key] {
			t.Errorf("record %q length = %d, want %d", r.Key, r.Length, want[r.Key])
		}
		_, n := store.Get(i)
		if n != want[r.Key] {
			t.Errorf("store.Get(%d) length = %d, want %d", i, n, want[r.Key])
		}
	}
}

func TestWriteSubsetRoundTrip(t *testing.T) {
	store, idx, err := Build(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	resolve := func(key string) (int, bool) {
		for i := 0; i < idx.Len(); i++ {
			if idx.At(i).Key == key {
				return i, true
			}
		}
		return 0, false
	}

	var buf bytes.Buffer
	if err := WriteSubset(&buf, idx, resolve, store); err != nil {
		t.Fatalf("WriteSubset: %v", err)
	}

	_, idx2, err := Build(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Build round trip: %v", err)
	}
	if idx2.Len() != idx.Len() {
		t.Fatalf("round-tripped index Len() = %d, want %d", idx2.Len(), idx.Len())
	}
	for i := 0; i < idx2.Len(); i++ {
		r2 := idx2.At(i)
		orig, ok := idx.Lookup(r2.Key)
		if !ok {
			t.Fatalf("round-tripped key %q missing from original index", r2.Key)
		}
		if orig.Length != r2.Length {
			t.Errorf("round-tripped length for %q = %d, want %d", r2.Key, r2.Length, orig.Length)
		}
	}
}
