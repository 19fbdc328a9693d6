// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fastaio

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func TestReadFaiFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "fastaio")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	faiPath := filepath.Join(dir, "seqs.fasta.fai")
	content := "a\t8\t3\t8\t9\nb\t4\t16\t4\t5\n"
	if err := ioutil.WriteFile(faiPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	recs, err := readFaiFile(faiPath)
	if err != nil {
		t.Fatalf("readFaiFile: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len(recs) = %d, want 2", len(recs))
	}
	if recs[0].name != "a" || recs[0].length != 8 {
		t.Errorf("recs[0] = %+v, want {a 8}", recs[0])
	}
	if recs[1].name != "b" || recs[1].length != 4 {
		t.Errorf("recs[1] = %+v, want {b 4}", recs[1])
	}
}

func TestBuildIndexed(t *testing.T) {
	dir, err := ioutil.TempDir("", "fastaio")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	fastaPath := filepath.Join(dir, "seqs.fasta")
	if err := ioutil.WriteFile(fastaPath, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	faiPath := fastaPath + ".fai"
	fai := "a\t8\t3\t8\t9\nb\t4\t15\t4\t5\nc\t2\t23\t2\t3\n"
	if err := ioutil.WriteFile(faiPath, []byte(fai), 0o644); err != nil {
		t.Fatal(err)
	}

	store, idx, err := BuildIndexed(fastaPath)
	if err != nil {
		t.Fatalf("BuildIndexed: %v", err)
	}
	if store.Len() != 3 {
		t.Fatalf("store.Len() = %d, want 3", store.Len())
	}
	if idx.Len() != 3 {
		t.Fatalf("idx.Len() = %d, want 3", idx.Len())
	}
	want := map[string]int{"a": 8, "b": 4, "c": 2}
	for i := 0; i < idx.Len(); i++ {
		r := idx.At(i)
		if int(r.Length) != want[r.Key] {
			t.Errorf("record %q length = %d, want %d", r.Key, r.Length, want[r.Key])
		}
	}
}
