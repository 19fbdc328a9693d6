// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package clusterio reads and writes the clustering file format: a
// record store keyed by cluster name, with a payload of newline
// separated member keys.
package clusterio

import (
	"bytes"

	"github.com/kortschak/seqclust/internal/clustergraph"
)

// Resolver maps a sequence key to its integer id in the current
// database, reporting false if the key is not present.
type Resolver func(key string) (id int, ok bool)

// RecordSource is the minimal interface clusterio needs of a record
// store: ordinal iteration by key and payload.
type RecordSource interface {
	Len() int
	KeyAt(i int) string
	Data(i int) ([]byte, error)
}

// Load parses a clustering file from src into graph. For each record,
// the payload is tokenised on newline without copying into a scratch
// buffer; tokens are byte-slice views directly over the record's
// payload. The first token that resolves to a surviving id becomes the
// cluster's representative and is recorded under the record's key as
// the cluster name. A record whose every member has been deleted from
// the current database is dropped silently.
//
// Load returns the number of records processed.
func Load(src RecordSource, resolve Resolver, graph *clustergraph.Graph) (int, error) {
	for i := 0; i < src.Len(); i++ {
		name := src.KeyAt(i)
		payload, err := src.Data(i)
		if err != nil {
			return i, err
		}
		rep := clustergraph.NoRep
		for _, tok := range tokens(payload) {
			id, ok := resolve(string(tok))
			if !ok {
				continue
			}
			if rep == clustergraph.NoRep {
				rep = id
				graph.PromoteRepresentative(id, name)
				continue
			}
			graph.AddMember(rep, id)
		}
	}
	return src.Len(), nil
}

// tokens splits payload on newline into non-empty byte-slice tokens
// that alias payload directly.
func tokens(payload []byte) [][]byte {
	var toks [][]byte
	for len(payload) > 0 {
		i := bytes.IndexByte(payload, '\n')
		var tok []byte
		if i < 0 {
			tok, payload = payload, nil
		} else {
			tok, payload = payload[:i], payload[i+1:]
		}
		if len(tok) > 0 {
			toks = append(toks, tok)
		}
	}
	return toks
}
