// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fastaio builds a SequenceStore and its companion key index
// from a FASTA source, and writes FASTA subsets back out for handing
// to the external similarity pipeline, the way the reference
// toolchain's cmd/ins/fragment.go builds its working FASTA files with
// biogo's seqio/fasta reader and the %a formatting verb of its
// sequence types.
package fastaio

import (
	"fmt"
	"io"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"

	"github.com/kortschak/seqclust/internal/keyindex"
	"github.com/kortschak/seqclust/internal/seqstore"
)

// fastaLineWidth is the wrapped line length used when writing FASTA
// records, matching the width the reference toolchain formats with.
const fastaLineWidth = 60

// Build reads every record from src and returns a sealed SequenceStore
// together with a KeyIndex of (key, offset, length) triples describing
// each sequence's position in that store's backing byte arena, ordered
// as encountered in the FASTA source.
func Build(src io.Reader) (*seqstore.Store, *keyindex.Index, error) {
	sc := seqio.NewScanner(fasta.NewReader(src, linear.NewSeq("", nil, alphabet.DNAredundant)))

	var keys []string
	var seqs [][]byte
	total := 0
	for sc.Next() {
		s := sc.Seq().(*linear.Seq)
		raw := make([]byte, s.Len())
		for i := range raw {
			raw[i] = byte(s.Seq[i])
		}
		keys = append(keys, s.ID)
		seqs = append(seqs, raw)
		total += len(raw)
	}
	if err := sc.Error(); err != nil {
		return nil, nil, fmt.Errorf("fastaio: %w", err)
	}

	store, err := seqstore.NewOwned(len(seqs), total)
	if err != nil {
		return nil, nil, err
	}
	recs := make([]keyindex.Record, len(seqs))
	offset := int64(0)
	for i, s := range seqs {
		if err := store.Append(s); err != nil {
			return nil, nil, err
		}
		recs[i] = keyindex.Record{Key: keys[i], Offset: offset, Length: int64(len(s))}
		offset += int64(len(s))
	}
	if err := store.Close(); err != nil {
		return nil, nil, err
	}
	return store, keyindex.New(recs), nil
}

// WriteSubset writes the sequences named by idx, resolved through
// resolve and read from store, as FASTA records to w.
func WriteSubset(w io.Writer, idx *keyindex.Index, resolve func(key string) (id int, ok bool), store *seqstore.Store) error {
	for i := 0; i < idx.Len(); i++ {
		rec := idx.At(i)
		id, ok := resolve(rec.Key)
		if !ok {
			return fmt.Errorf("fastaio: key %q not present in sequence store", rec.Key)
		}
		raw, n := store.Get(id)
		letters := make(alphabet.Letters, n)
		for j, b := range raw {
			letters[j] = alphabet.Letter(b)
		}
		s := linear.NewSeq(rec.Key, letters, alphabet.DNAredundant)
		format := fmt.Sprintf("%%%da\n", fastaLineWidth)
		if _, err := fmt.Fprintf(w, format, s); err != nil {
			return fmt.Errorf("fastaio: write %q: %w", rec.Key, err)
		}
	}
	return nil
}
