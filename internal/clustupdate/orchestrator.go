// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package clustupdate drives the incremental clustering update state
// machine: diff the old and new sequence databases, invoke the
// similarity pipeline on the right subsets, attach matched new
// sequences to their existing clusters, and fold a de novo clustering
// of the unmatched residue back into the same cluster graph.
package clustupdate

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/kortschak/seqclust/internal/attach"
	"github.com/kortschak/seqclust/internal/clustergraph"
	"github.com/kortschak/seqclust/internal/clusterio"
	"github.com/kortschak/seqclust/internal/fastaio"
	"github.com/kortschak/seqclust/internal/keyindex"
	"github.com/kortschak/seqclust/internal/recordstore"
	"github.com/kortschak/seqclust/internal/seqstore"
)

// State names the orchestrator's position in its pipeline.
type State int

const (
	Init State = iota
	Diffed
	BAScored
	Attached
	BBScored
	BBClustered
	Folded
	Done
)

func (s State) String() string {
	switch s {
	case Init:
		return "INIT"
	case Diffed:
		return "DIFFED"
	case BAScored:
		return "BA_SCORED"
	case Attached:
		return "ATTACHED"
	case BBScored:
		return "BB_SCORED"
	case BBClustered:
		return "BB_CLUSTERED"
	case Folded:
		return "FOLDED"
	case Done:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// Similarity runs the external prefilter+alignment pipeline for
// queries against targets, both given as FASTA files, and returns the
// path to a record store of ranked hit lists keyed by query key (the
// alignment file format of spec §6).
type Similarity interface {
	Run(queryFASTA, targetFASTA, workDir, label string, cfg Config) (alignDB string, err error)
}

// DeNovoCluster runs the external set-cover clustering engine over db
// using alignDB's scored pairs and returns the path to a record store
// of new clusters (the clustering file format of spec §6).
type DeNovoCluster interface {
	Run(fastaPath, alignDB, workDir, label string, cfg Config) (clusterDB string, err error)
}

// Orchestrator drives a single update run end to end.
type Orchestrator struct {
	Similarity Similarity
	Cluster    DeNovoCluster
	Logger     *log.Logger

	state   State
	cleanup []string
}

func (o *Orchestrator) register(path string) {
	o.cleanup = append(o.cleanup, path)
}

func (o *Orchestrator) unlinkAll() {
	for _, p := range o.cleanup {
		os.RemoveAll(p)
	}
}

func (o *Orchestrator) logf(format string, args ...interface{}) {
	if o.Logger != nil {
		o.Logger.Printf(format, args...)
	}
}

func (o *Orchestrator) enter(s State) {
	o.state = s
	o.logf("stage %s", s)
}

// State returns the orchestrator's current state.
func (o *Orchestrator) State() State { return o.state }

// Update runs the full pipeline against the sequence databases at
// oldDBPath and newDBPath, the existing clustering at
// oldClusteringPath, writing the updated clustering to outDBPath and
// using tmpDir for intermediate artifacts. On any failure it unlinks
// every temp artifact it registered and guarantees outDBPath does not
// exist.
func (o *Orchestrator) Update(oldDBPath, newDBPath, oldClusteringPath, outDBPath, tmpDir string, cfg Config) (stats Stats, err error) {
	o.enter(Init)
	defer func() {
		if err != nil {
			o.unlinkAll()
			os.RemoveAll(outDBPath)
		}
	}()

	oldDB, err := recordstore.Open(oldDBPath)
	if err != nil {
		return stats, fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer oldDB.Close()
	newDB, err := recordstore.Open(newDBPath)
	if err != nil {
		return stats, fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer newDB.Close()

	stats.OldDBSize = oldDB.Len()
	stats.NewDBSize = newDB.Len()

	oldIdx := buildIndex(oldDB)
	newIdx := buildIndex(newDB)

	a, b, diffStats := keyindex.Diff(oldIdx, newIdx)
	stats.Deleted, stats.Shared, stats.New = diffStats.Deleted, diffStats.Shared, diffStats.New

	aPath := filepath.Join(tmpDir, "A.index")
	bPath := filepath.Join(tmpDir, "B.index")
	if err = writeIndexFile(aPath, a); err != nil {
		return stats, err
	}
	o.register(aPath)
	if err = writeIndexFile(bPath, b); err != nil {
		return stats, err
	}
	o.register(bPath)
	o.enter(Diffed)

	resolve := func(key string) (int, bool) { return newDB.IDOf(key) }

	// Build the in-memory sequence arena for the current database so
	// the similarity pipeline can be handed FASTA subsets.
	newStore, err := buildSeqStore(newDB)
	if err != nil {
		return stats, err
	}

	graph := clustergraph.New(newDB.Len())

	oldClustering, err := recordstore.Open(oldClusteringPath)
	if err != nil {
		return stats, fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer oldClustering.Close()
	loaded, err := clusterio.Load(oldClustering, resolve, graph)
	if err != nil {
		return stats, err
	}
	stats.ClustersLoaded = loaded

	var rest *keyindex.Index = keyindex.New(nil)
	if b.Len() > 0 {
		alignDB, aerr := o.runSimilarity(newStore, a, b, resolve, tmpDir, "BA", cfg)
		if aerr != nil {
			err = aerr
			return stats, err
		}
		o.enter(BAScored)

		baStore, oerr := recordstore.Open(alignDB)
		if oerr != nil {
			err = fmt.Errorf("%w: %v", ErrIO, oerr)
			return stats, err
		}
		defer baStore.Close()

		restIdx, attachStats, aterr := attach.Attach(baStore, b, resolve, graph, nil, o.Logger)
		if aterr != nil {
			err = mapAttachErr(aterr)
			return stats, err
		}
		rest = restIdx
		stats.SeqsWithMatches = attachStats.SeqsWithMatches
		stats.SeqsWithoutMatches = attachStats.SeqsWithoutMatches
		stats.Anomalies = attachStats.Anomalies
		o.enter(Attached)
	} else {
		o.enter(Attached)
	}

	if rest.Len() == 0 {
		o.enter(Done)
	} else {
		restPath := filepath.Join(tmpDir, "Brest.index")
		if err = writeIndexFile(restPath, rest); err != nil {
			return stats, err
		}
		o.register(restPath)

		bbAlignDB, serr := o.runSimilarity(newStore, rest, rest, resolve, tmpDir, "BB", cfg)
		if serr != nil {
			err = serr
			return stats, err
		}
		o.enter(BBScored)

		restFASTAPath := filepath.Join(tmpDir, "BB.fasta")
		cluDB, cerr := o.runCluster(newStore, rest, resolve, bbAlignDB, restFASTAPath, tmpDir, "BB_clu", cfg)
		if cerr != nil {
			err = cerr
			return stats, err
		}
		o.enter(BBClustered)

		cluStore, oerr := recordstore.Open(cluDB)
		if oerr != nil {
			err = fmt.Errorf("%w: %v", ErrIO, oerr)
			return stats, err
		}
		defer cluStore.Close()
		folded, lerr := clusterio.Load(cluStore, resolve, graph)
		if lerr != nil {
			err = lerr
			return stats, err
		}
		stats.ClustersFolded = folded
		o.enter(Folded)
		o.enter(Done)
	}

	writer, err := recordstore.Create(outDBPath)
	if err != nil {
		return stats, fmt.Errorf("%w: %v", ErrIO, err)
	}
	keyOf := func(id int) string { return newDB.KeyAt(id) }
	if err = clusterio.Emit(graph, keyOf, writer); err != nil {
		writer.Close()
		return stats, err
	}
	if err = writer.Close(); err != nil {
		return stats, fmt.Errorf("%w: %v", ErrIO, err)
	}

	return stats, nil
}

func mapAttachErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrCorruptInput, err)
}

// buildIndex derives a KeyIndex from a record store by ordinal
// iteration, computing each record's offset as the running sum of
// preceding payload lengths so the index describes a real offset
// layout rather than a placeholder.
func buildIndex(store *recordstore.Store) *keyindex.Index {
	recs := make([]keyindex.Record, store.Len())
	offset := int64(0)
	for i := 0; i < store.Len(); i++ {
		data, err := store.Data(i)
		length := int64(len(data))
		if err != nil {
			length = 0
		}
		recs[i] = keyindex.Record{Key: store.KeyAt(i), Offset: offset, Length: length}
		offset += length
	}
	return keyindex.New(recs)
}

// buildSeqStore packs every sequence in store into a seqstore.Store in
// ordinal id order, so ids agree with store's own id space.
func buildSeqStore(store *recordstore.Store) (*seqstore.Store, error) {
	total := 0
	n := store.Len()
	payloads := make([][]byte, n)
	for i := 0; i < n; i++ {
		data, err := store.Data(i)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIO, err)
		}
		payloads[i] = data
		total += len(data)
	}
	seq, err := seqstore.NewOwned(n, total)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAlloc, err)
	}
	for _, p := range payloads {
		if err := seq.Append(p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrOverflow, err)
		}
	}
	if err := seq.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOverflow, err)
	}
	return seq, nil
}

func writeIndexFile(path string, idx *keyindex.Index) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer f.Close()
	if _, err := idx.WriteTo(f); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

// runSimilarity writes the FASTA subsets named by queryIdx and
// targetIdx and invokes the Similarity collaborator over them.
func (o *Orchestrator) runSimilarity(store *seqstore.Store, targetIdx, queryIdx *keyindex.Index, resolve func(string) (int, bool), tmpDir, label string, cfg Config) (string, error) {
	queryPath := filepath.Join(tmpDir, label+"_query.fasta")
	targetPath := filepath.Join(tmpDir, label+"_target.fasta")
	if err := writeFASTA(queryPath, queryIdx, resolve, store); err != nil {
		return "", err
	}
	o.register(queryPath)
	if err := writeFASTA(targetPath, targetIdx, resolve, store); err != nil {
		return "", err
	}
	o.register(targetPath)

	alignDB, err := o.Similarity.Run(queryPath, targetPath, tmpDir, label, cfg)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSubstageFailure, err)
	}
	o.register(alignDB)
	return alignDB, nil
}

func (o *Orchestrator) runCluster(store *seqstore.Store, idx *keyindex.Index, resolve func(string) (int, bool), alignDB, fastaPath, tmpDir, label string, cfg Config) (string, error) {
	if err := writeFASTA(fastaPath, idx, resolve, store); err != nil {
		return "", err
	}
	o.register(fastaPath)
	cluDB, err := o.Cluster.Run(fastaPath, alignDB, tmpDir, label, cfg)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSubstageFailure, err)
	}
	o.register(cluDB)
	return cluDB, nil
}

func writeFASTA(path string, idx *keyindex.Index, resolve func(string) (int, bool), store *seqstore.Store) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer f.Close()
	if err := fastaio.WriteSubset(f, idx, resolve, store); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}
