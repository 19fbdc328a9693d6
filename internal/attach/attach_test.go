// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package attach

import (
	"strings"
	"testing"

	"github.com/kortschak/seqclust/internal/clustergraph"
	"github.com/kortschak/seqclust/internal/keyindex"
)

type fakeBA struct {
	keys     []string
	payloads [][]byte
}

func (f *fakeBA) Len() int                     { return len(f.keys) }
func (f *fakeBA) KeyAt(i int) string           { return f.keys[i] }
func (f *fakeBA) Data(i int) ([]byte, error)   { return f.payloads[i], nil }

func idx(t *testing.T, text string) *keyindex.Index {
	t.Helper()
	x, err := keyindex.Load(strings.NewReader(text))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return x
}

func TestAttachMatchedSequences(t *testing.T) {
	// Graph: C1=[a], C2=[b], with ids a=0, b=1.
	g := clustergraph.New(4)
	g.PromoteRepresentative(0, "C1")
	g.PromoteRepresentative(1, "C2")

	resolve := func(key string) (int, bool) {
		m := map[string]int{"a": 0, "b": 1, "d": 2, "e": 3}
		id, ok := m[key]
		return id, ok
	}

	ba := &fakeBA{
		keys: []string{"d", "e"},
		payloads: [][]byte{
			[]byte("a\t0\t10\n"),
			[]byte("b\t0\t10\n"),
		},
	}
	bIndex := idx(t, "d\t0\t1\ne\t1\t1\n")

	rest, stats, err := Attach(ba, bIndex, resolve, g, nil, nil)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if rest.Len() != 0 {
		t.Errorf("residual = %d, want 0", rest.Len())
	}
	if stats.SeqsWithMatches != 2 {
		t.Errorf("SeqsWithMatches = %d, want 2", stats.SeqsWithMatches)
	}
	if got := g.Members(0); !eqInts(got, []int{0, 2}) {
		t.Errorf("Members(C1) = %v, want [0 2]", got)
	}
	if got := g.Members(1); !eqInts(got, []int{1, 3}) {
		t.Errorf("Members(C2) = %v, want [1 3]", got)
	}
}

func TestAttachResidualOnEmptyPayload(t *testing.T) {
	g := clustergraph.New(2)
	resolve := func(key string) (int, bool) {
		m := map[string]int{"x": 0, "y": 1}
		id, ok := m[key]
		return id, ok
	}
	ba := &fakeBA{
		keys:     []string{"x", "y"},
		payloads: [][]byte{[]byte(""), []byte("")},
	}
	bIndex := idx(t, "x\t0\t1\ny\t1\t1\n")

	rest, stats, err := Attach(ba, bIndex, resolve, g, nil, nil)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if rest.Len() != 2 {
		t.Errorf("residual = %d, want 2", rest.Len())
	}
	if stats.SeqsWithoutMatches != 2 {
		t.Errorf("SeqsWithoutMatches = %d, want 2", stats.SeqsWithoutMatches)
	}
}

func TestAttachMissingRepresentativeAnomaly(t *testing.T) {
	// t is in the graph's id space but was never loaded into any cluster.
	g := clustergraph.New(3)
	resolve := func(key string) (int, bool) {
		m := map[string]int{"t": 0, "q": 1}
		id, ok := m[key]
		return id, ok
	}
	ba := &fakeBA{
		keys:     []string{"q"},
		payloads: [][]byte{[]byte("t\t0\t10\n")},
	}
	bIndex := idx(t, "q\t0\t1\n")

	rest, stats, err := Attach(ba, bIndex, resolve, g, nil, nil)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if rest.Len() != 0 {
		t.Errorf("residual = %d, want 0 (payload was non-empty)", rest.Len())
	}
	if stats.Anomalies != 1 {
		t.Errorf("Anomalies = %d, want 1", stats.Anomalies)
	}
	if stats.SeqsWithMatches != 0 {
		t.Errorf("SeqsWithMatches = %d, want 0", stats.SeqsWithMatches)
	}
}

func TestAttachCorruptTarget(t *testing.T) {
	g := clustergraph.New(2)
	resolve := func(key string) (int, bool) {
		m := map[string]int{"q": 0}
		id, ok := m[key]
		return id, ok
	}
	ba := &fakeBA{
		keys:     []string{"q"},
		payloads: [][]byte{[]byte("ghost\t0\t5\n")},
	}
	bIndex := idx(t, "q\t0\t1\n")

	_, _, err := Attach(ba, bIndex, resolve, g, nil, nil)
	if err == nil {
		t.Fatal("Attach with unresolvable target: want error")
	}
}

func TestAttachTakesOnlyTopHit(t *testing.T) {
	g := clustergraph.New(3)
	g.PromoteRepresentative(0, "C1")
	g.PromoteRepresentative(1, "C2")
	resolve := func(key string) (int, bool) {
		m := map[string]int{"a": 0, "b": 1, "q": 2}
		id, ok := m[key]
		return id, ok
	}
	ba := &fakeBA{
		keys:     []string{"q"},
		payloads: [][]byte{[]byte("a\t0\t10\nb\t0\t10\n")},
	}
	bIndex := idx(t, "q\t0\t1\n")
	_, stats, err := Attach(ba, bIndex, resolve, g, nil, nil)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if stats.SeqsWithMatches != 1 {
		t.Fatalf("SeqsWithMatches = %d, want 1", stats.SeqsWithMatches)
	}
	if got := g.Members(0); !eqInts(got, []int{0, 2}) {
		t.Errorf("Members(C1) = %v, want [0 2] (top hit only)", got)
	}
	if got := g.Members(1); !eqInts(got, []int{1}) {
		t.Errorf("Members(C2) = %v, want [1] (second hit ignored)", got)
	}
}

func eqInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
