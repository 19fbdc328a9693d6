// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clusterio

import (
	"bytes"

	"github.com/kortschak/seqclust/internal/clustergraph"
)

// KeyOf returns the external key of a sequence id in the current
// database.
type KeyOf func(id int) string

// RecordSink is the minimal interface clusterio needs of a record
// store writer.
type RecordSink interface {
	Write(key string, payload []byte) error
}

// Emit serialises every non-empty cluster in graph to sink, keyed by
// cluster name, one newline-terminated member key per line. Unlike the
// fixed 1MiB-buffer scheme it replaces, Emit builds each cluster's whole
// payload in a growable buffer and writes it with a single sink.Write,
// so no cluster is ever silently dropped for being too large.
func Emit(graph *clustergraph.Graph, keyOf KeyOf, sink RecordSink) error {
	var buf bytes.Buffer
	var emitErr error
	graph.ForEachNonEmpty(func(rep int, name string, members []int) {
		if emitErr != nil {
			return
		}
		buf.Reset()
		for _, m := range members {
			buf.WriteString(keyOf(m))
			buf.WriteByte('\n')
		}
		payload := append([]byte(nil), buf.Bytes()...)
		if err := sink.Write(name, payload); err != nil {
			emitErr = err
		}
	})
	return emitErr
}
