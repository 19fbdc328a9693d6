// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package clustergraph holds an in-memory clustering of sequence ids as
// singly-linked member lists keyed by representative id, avoiding the
// per-insert heap allocation of a pointer-based node scheme by drawing
// nodes from a bump-allocated pool and using integer indices for the
// next link.
package clustergraph

// NoRep is the sentinel representative id for a member id that is not
// currently part of any cluster.
const NoRep = -1

// Graph is a clustering of ids in [0,M) into append-only member lists,
// one per representative. The zero value is not usable; construct one
// with New.
type Graph struct {
	first []int // first[r]: head member id of cluster r, or NoRep
	last  []int // last[r]: tail member id of cluster r, or NoRep
	size  []int // size[r]: number of members in cluster r

	idToRep []int // idToRep[m]: representative of member m, or NoRep

	next []int // next[m]: next member id after m in its list, or NoRep
	name map[int]string
}

// New returns an empty Graph over the id space [0,capacity).
func New(capacity int) *Graph {
	g := &Graph{
		first:   make([]int, capacity),
		last:    make([]int, capacity),
		size:    make([]int, capacity),
		idToRep: make([]int, capacity),
		next:    make([]int, capacity),
		name:    make(map[int]string),
	}
	for i := range g.idToRep {
		g.first[i] = NoRep
		g.last[i] = NoRep
		g.idToRep[i] = NoRep
		g.next[i] = NoRep
	}
	return g
}

// Cap returns the id capacity the Graph was constructed with.
func (g *Graph) Cap() int { return len(g.idToRep) }

// RepOf returns the representative of id, or NoRep if id is not a
// member of any cluster.
func (g *Graph) RepOf(id int) int { return g.idToRep[id] }

// NameOf returns the cluster name recorded for representative rep, and
// whether one was recorded.
func (g *Graph) NameOf(rep int) (string, bool) {
	name, ok := g.name[rep]
	return name, ok
}

// IsRep reports whether id is currently a representative, i.e. heads a
// non-empty cluster.
func (g *Graph) IsRep(id int) bool { return g.size[id] > 0 }

// Size returns the number of members of the cluster represented by rep.
func (g *Graph) Size(rep int) int { return g.size[rep] }

// PromoteRepresentative establishes id as a new representative named
// name, appending id to its own (initially empty) member list.
func (g *Graph) PromoteRepresentative(id int, name string) {
	g.name[id] = name
	g.AddMember(id, id)
}

// AddMember appends id to the member list of representative rep and
// records id's representative as rep. rep must already be a
// representative or be id itself (the first call for a fresh
// representative).
func (g *Graph) AddMember(rep, id int) {
	if g.first[rep] == NoRep {
		g.first[rep] = id
	} else {
		g.next[g.last[rep]] = id
	}
	g.last[rep] = id
	g.next[id] = NoRep
	g.size[rep]++
	g.idToRep[id] = rep
}

// Members returns the member ids of the cluster represented by rep, in
// insertion order, by walking the linked list.
func (g *Graph) Members(rep int) []int {
	members := make([]int, 0, g.size[rep])
	for m := g.first[rep]; m != NoRep; m = g.next[m] {
		members = append(members, m)
	}
	return members
}

// ForEachNonEmpty calls fn for every representative id, in ascending id
// order, that currently heads a non-empty cluster.
func (g *Graph) ForEachNonEmpty(fn func(rep int, name string, members []int)) {
	for rep := 0; rep < len(g.size); rep++ {
		if g.size[rep] == 0 {
			continue
		}
		name := g.name[rep]
		fn(rep, name, g.Members(rep))
	}
}
