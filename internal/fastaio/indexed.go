// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fastaio

import (
	"bufio"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strconv"
	"strings"

	"github.com/biogo/hts/fai"

	"github.com/kortschak/seqclust/internal/keyindex"
	"github.com/kortschak/seqclust/internal/seqstore"
)

// faiRecord holds the name and length fields of one line of a
// samtools-style .fai sidecar; the line's three byte-layout fields are
// not kept.
type faiRecord struct {
	name   string
	length int
}

func readFaiFile(path string) ([]faiRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var recs []faiRecord
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Split(sc.Text(), "\t")
		if len(fields) < 2 {
			continue
		}
		length, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("fastaio: malformed .fai length for %q: %w", fields[0], err)
		}
		recs = append(recs, faiRecord{name: fields[0], length: length})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

// BuildIndexed builds a SequenceStore and KeyIndex from a FASTA file at
// fastaPath using its samtools-style .fai sidecar (at fastaPath+".fai")
// for random access, the way cmd/ins/main.go indexes and re-reads its
// query genome with fai.NewIndex/fai.NewFile rather than scanning every
// record sequentially. Record lengths are read from the .fai file
// before the backing arena is allocated; each record is then read by a
// ranged read into a per-record buffer and appended to the store.
func BuildIndexed(fastaPath string) (*seqstore.Store, *keyindex.Index, error) {
	faiRecs, err := readFaiFile(fastaPath + ".fai")
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(fastaPath)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	idx, err := fai.NewIndex(f)
	if err != nil {
		return nil, nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, nil, err
	}
	indexed := fai.NewFile(f, idx)

	total := 0
	for _, r := range faiRecs {
		total += r.length
	}
	store, err := seqstore.NewOwned(len(faiRecs), total)
	if err != nil {
		return nil, nil, err
	}

	recs := make([]keyindex.Record, 0, len(faiRecs))
	offset := int64(0)
	for _, r := range faiRecs {
		seq, err := indexed.SeqRange(r.name, 0, r.length)
		if err != nil {
			return nil, nil, err
		}
		raw, err := ioutil.ReadAll(seq)
		if err != nil {
			return nil, nil, err
		}
		if err := store.Append(raw); err != nil {
			return nil, nil, err
		}
		recs = append(recs, keyindex.Record{Key: r.name, Offset: offset, Length: int64(len(raw))})
		offset += int64(len(raw))
	}
	if err := store.Close(); err != nil {
		return nil, nil, err
	}
	return store, keyindex.New(recs), nil
}
