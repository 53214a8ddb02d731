// Package indexer implements the Per-Project Indexer (C10): the end-to-end
// pipeline from a FileEvent to vector-store and graph-store writes,
// following a walk-hash-chunk-embed-store pipeline idiom, generalized to
// the full ignore/hash/parse/chunk/relationship/embed/store pipeline this
// package runs end to end.
package indexer

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/augmentorium/augmentorium/internal/apperrors"
	"github.com/augmentorium/augmentorium/internal/chunking"
	"github.com/augmentorium/augmentorium/internal/grammar"
	"github.com/augmentorium/augmentorium/internal/graphstore"
	"github.com/augmentorium/augmentorium/internal/hasher"
	"github.com/augmentorium/augmentorium/internal/model"
	"github.com/augmentorium/augmentorium/internal/parsing"
	"github.com/augmentorium/augmentorium/internal/pathmatch"
	"github.com/augmentorium/augmentorium/internal/vectorstore"
	"github.com/augmentorium/augmentorium/internal/watcher"
)

// Embedder is the subset of embedclient.Client the Indexer needs; an
// interface so tests can substitute a fake without an HTTP server.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Indexer owns one project's hash cache, grammar registry, and store
// handles, and processes FileEvents against them.
type Indexer struct {
	Project    model.Project
	Matcher    *pathmatch.Matcher
	HashCache  *hasher.Cache
	Grammar    *grammar.Registry
	Vectors    *vectorstore.Store
	Graph      *graphstore.Store
	Embedder   Embedder
	Collection string // vector-store collection name, normally Project.Name
	ChunkOpts  chunking.Options
	BatchSize  int
}

// FullIndex walks the project tree via watcher.Scan, processes every file
// as a synthetic "modified" event in sequence, and persists the hash cache
// once at the end regardless of per-file failures, so a re-run after a
// crash skips everything already unchanged.
func (ix *Indexer) FullIndex(ctx context.Context) error {
	files, err := watcher.Scan(ix.Project.Root, ix.Matcher)
	if err != nil {
		return err
	}

	for _, absPath := range files {
		relPath := pathmatch.ToRelSlash(ix.Project.Root, absPath)
		event := model.FileEvent{
			Kind:        model.EventModified,
			Path:        absPath,
			ProjectRoot: ix.Project.Root,
			ProjectName: ix.Project.Name,
			Timestamp:   time.Now(),
		}
		if err := ix.ProcessEvent(ctx, event); err != nil {
			log.Printf("indexer: full index: %s: %v", relPath, err)
		}
	}

	return ix.HashCache.Save()
}

// ProcessEvent runs the end-to-end ignore/hash/parse/chunk/embed/store
// pipeline for one FileEvent.
func (ix *Indexer) ProcessEvent(ctx context.Context, event model.FileEvent) error {
	relPath := pathmatch.ToRelSlash(ix.Project.Root, event.Path)
	if ix.Matcher.ShouldIgnoreRel(relPath) {
		return nil // IgnoredInput — not an error
	}

	if event.Kind == model.EventDeleted {
		return ix.processDeleted(ctx, relPath)
	}
	return ix.processUpsert(ctx, relPath, event.Path)
}

func (ix *Indexer) processDeleted(ctx context.Context, relPath string) error {
	if err := ix.Vectors.DeleteByFilePath(ctx, ix.Collection, relPath); err != nil {
		return apperrors.New(apperrors.KindStoreWrite, err)
	}

	nodes, err := ix.Graph.NodesByFilePath(relPath)
	if err != nil {
		return apperrors.New(apperrors.KindStoreWrite, err)
	}
	for _, n := range nodes {
		if err := ix.Graph.DeleteNode(n.ID); err != nil {
			return apperrors.New(apperrors.KindStoreWrite, err)
		}
	}

	ix.HashCache.Remove(relPath)
	return nil
}

func (ix *Indexer) processUpsert(ctx context.Context, relPath, absPath string) error {
	changed, err := ix.HashCache.HasChanged(relPath, absPath)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	source, err := os.ReadFile(absPath)
	if err != nil {
		return err
	}

	lang := ix.Grammar.Detect(relPath)
	structure, refs, err := parsing.ParseForIndexing(ix.Grammar, lang, source)
	if err != nil {
		// ParseUnavailable or ParseFailure: downgrade to plaintext chunking
		// with a warning rather than failing the whole file.
		log.Printf("indexer: %s: %v (downgrading to plaintext)", relPath, err)
		structure, refs = nil, nil
	}

	strategy := chunking.Select(relPath, structure != nil, "")
	chunks := chunking.ChunkFile(strategy, relPath, string(lang), source, structure, ix.ChunkOpts)
	attachRelationships(chunks, refs)

	stat, statErr := os.Stat(absPath)
	stamp := model.FileStats{FileName: filepath.Base(relPath)}
	if statErr == nil {
		stamp.FileSize = stat.Size()
		stamp.LastModified = stat.ModTime()
	}
	stampMetadata(chunks, relPath, stamp)

	if err := ix.embedAndUpsert(ctx, chunks); err != nil {
		return err
	}

	nodes, edges := toGraph(chunks)
	if err := ix.Graph.ReindexFile(relPath, nodes, edges); err != nil {
		return apperrors.New(apperrors.KindStoreWrite, err)
	}
	return nil
}

// attachRelationships records refs (extracted once per file) on the file's
// module-level chunk, or its first chunk when no AST structure exists to
// anchor them to.
func attachRelationships(chunks []model.CodeChunk, refs []model.Reference) {
	if len(refs) == 0 || len(chunks) == 0 {
		return
	}
	for i := range chunks {
		if chunks[i].NodeType == model.NodeModule {
			chunks[i].References = refs
			return
		}
	}
	chunks[0].References = refs
}

func stampMetadata(chunks []model.CodeChunk, relPath string, stat model.FileStats) {
	total := len(chunks)
	for i := range chunks {
		extra := map[string]string{
			"file_path":     relPath,
			"file_name":     stat.FileName,
			"file_size":     strconv.FormatInt(stat.FileSize, 10),
			"last_modified": stat.LastModified.UTC().Format(time.RFC3339),
			"chunk_index":   strconv.Itoa(i),
			"total_chunks":  strconv.Itoa(total),
			"name":          chunks[i].Name,
			"node_type":     string(chunks[i].NodeType),
			"docstring":     chunks[i].Docstring,
		}
		for k, v := range chunks[i].Metadata {
			extra[k] = v
		}
		chunks[i].Metadata = chunking.Flatten(chunks[i].Imports, chunks[i].References, extra)
		chunks[i].FilePath = relPath
	}
}

// embedAndUpsert embeds chunk text in batches of BatchSize and upserts every
// successfully embedded chunk; a batch embedding failure is logged and
// skipped, not fatal.
func (ix *Indexer) embedAndUpsert(ctx context.Context, chunks []model.CodeChunk) error {
	batchSize := ix.BatchSize
	if batchSize <= 0 {
		batchSize = 16
	}

	for start := 0; start < len(chunks); start += batchSize {
		end := start + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Text
		}

		vecs, err := ix.Embedder.EmbedBatch(ctx, texts)
		if err != nil {
			log.Printf("indexer: embedding batch failed, skipping %d chunks: %v", len(batch), err)
		}

		var ids, docs []string
		var metas []map[string]string
		var embeds [][]float32
		for i, c := range batch {
			if i >= len(vecs) || vecs[i] == nil {
				continue
			}
			ids = append(ids, c.ID)
			docs = append(docs, c.Text)
			metas = append(metas, c.Metadata)
			embeds = append(embeds, vecs[i])
		}
		if len(ids) == 0 {
			continue
		}
		if err := ix.Vectors.Upsert(ctx, ix.Collection, ids, docs, metas, embeds); err != nil {
			return apperrors.New(apperrors.KindStoreWrite, err)
		}
	}
	return nil
}

func toGraph(chunks []model.CodeChunk) ([]model.GraphNode, []model.GraphEdge) {
	nodes := make([]model.GraphNode, len(chunks))
	var edges []model.GraphEdge
	for i, c := range chunks {
		nodes[i] = model.GraphNode{
			ID:        c.ID,
			Type:      string(c.NodeType),
			Name:      c.Name,
			FilePath:  c.FilePath,
			StartLine: c.StartLine,
			EndLine:   c.EndLine,
			Metadata:  c.Metadata,
		}
		for _, ref := range c.References {
			edges = append(edges, model.GraphEdge{
				SourceID:     c.ID,
				TargetID:     ref.Target,
				RelationType: ref.Type,
			})
		}
	}
	return nodes, edges
}
