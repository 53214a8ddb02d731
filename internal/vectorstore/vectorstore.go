// Package vectorstore implements the Vector Store Adapter (C7) over
// chromem-go (chromem.NewDB / CreateCollection / Document /
// QueryEmbedding / Delete), generalized from a single read-only search
// collection to a full upsert/query/get/delete contract per project.
//
// chromem-go's public surface is a vector-query store; it has no "list all
// documents matching a filter" call, since it only ever queries by
// embedding. Get/DeleteByFilePath need exactly that, so Store keeps its own
// id -> metadata side index alongside each collection rather than
// inventing a chromem-go method the library doesn't expose.
package vectorstore

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	chromem "github.com/philippgille/chromem-go"
)

// Result mirrors one row of a {ids, docs, metadatas, distances} query
// response, pre-converted to a similarity score (1 - distance).
type Result struct {
	ID       string
	Text     string
	Metadata map[string]string
	Score    float32
}

type docRecord struct {
	text     string
	metadata map[string]string
}

// Store wraps a chromem-go database scoped to one project, exposing named
// collections.
type Store struct {
	mu          sync.Mutex
	db          *chromem.DB
	collections map[string]*chromem.Collection
	index       map[string]map[string]docRecord // collection -> id -> record
}

// Open creates an in-process chromem-go database. The adapter keeps vector
// data for the process lifetime; durability across restarts is out of
// scope.
func Open() *Store {
	return &Store{
		db:          chromem.NewDB(),
		collections: make(map[string]*chromem.Collection),
		index:       make(map[string]map[string]docRecord),
	}
}

func (s *Store) collection(name string) (*chromem.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.collections[name]; ok {
		return c, nil
	}
	c, err := s.db.CreateCollection(name, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: create collection %s: %w", name, err)
	}
	s.collections[name] = c
	s.index[name] = make(map[string]docRecord)
	return c, nil
}

// Upsert writes ids/docs/metadatas/embeddings into collection, deduplicating
// ids within the batch by keeping the last occurrence.
func (s *Store) Upsert(ctx context.Context, collection string, ids, docs []string, metadatas []map[string]string, embeddings [][]float32) error {
	if len(ids) != len(docs) || len(ids) != len(metadatas) || len(ids) != len(embeddings) {
		return fmt.Errorf("vectorstore: mismatched batch lengths for collection %s", collection)
	}

	c, err := s.collection(collection)
	if err != nil {
		return err
	}

	seen := make(map[string]int, len(ids))
	order := make([]string, 0, len(ids))
	for i, id := range ids {
		if _, ok := seen[id]; !ok {
			order = append(order, id)
		}
		seen[id] = i
	}

	s.mu.Lock()
	idx := s.index[collection]
	s.mu.Unlock()

	for _, id := range order {
		i := seen[id]
		doc := chromem.Document{
			ID:        id,
			Content:   docs[i],
			Embedding: embeddings[i],
			Metadata:  metadatas[i],
		}
		if err := c.AddDocument(ctx, doc); err != nil {
			return fmt.Errorf("vectorstore: upsert %s: %w", id, err)
		}

		s.mu.Lock()
		idx[id] = docRecord{text: docs[i], metadata: metadatas[i]}
		s.mu.Unlock()
	}
	return nil
}

// Query runs a k-NN search against collection and applies where as a
// scalar-equality metadata filter natively, plus fileName as a post-filter
// matching either the chunk's basename or its full file_path — richer
// filters than native equality are applied as a post-filter in the caller.
func (s *Store) Query(ctx context.Context, collection string, embedding []float32, k int, where map[string]string, fileName string) ([]Result, error) {
	c, err := s.collection(collection)
	if err != nil {
		return nil, err
	}
	count := c.Count()
	if count == 0 {
		return nil, nil
	}

	fetch := k
	if fileName != "" {
		fetch = count // file_name is a post-filter; fetch everything to not miss matches
	}
	if fetch > count {
		fetch = count
	}

	docs, err := c.QueryEmbedding(ctx, embedding, fetch, where, nil)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: query %s: %w", collection, err)
	}

	results := make([]Result, 0, len(docs))
	for _, d := range docs {
		if fileName != "" && !matchesFileName(d.Metadata["file_path"], fileName) {
			continue
		}
		results = append(results, Result{
			ID:       d.ID,
			Text:     d.Content,
			Metadata: d.Metadata,
			Score:    d.Similarity,
		})
		if len(results) >= k {
			break
		}
	}
	return results, nil
}

func matchesFileName(filePath, fileName string) bool {
	return filePath == fileName || filepath.Base(filePath) == fileName
}

// Get returns documents from collection matching where (scalar equality,
// every key must match), honoring limit and offset. Results are ordered by id for stable pagination.
func (s *Store) Get(ctx context.Context, collection string, where map[string]string, limit, offset int) ([]Result, error) {
	_, err := s.collection(collection)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	idx := s.index[collection]
	ids := make([]string, 0, len(idx))
	for id := range idx {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	matches := make([]Result, 0, len(ids))
	for _, id := range ids {
		rec := idx[id]
		if !matchesWhere(rec.metadata, where) {
			continue
		}
		matches = append(matches, Result{ID: id, Text: rec.text, Metadata: rec.metadata})
	}
	s.mu.Unlock()

	if offset > len(matches) {
		return nil, nil
	}
	matches = matches[offset:]
	if limit > 0 && limit < len(matches) {
		matches = matches[:limit]
	}
	return matches, nil
}

func matchesWhere(metadata, where map[string]string) bool {
	for k, v := range where {
		if metadata[k] != v {
			return false
		}
	}
	return true
}

// Delete removes ids from collection.
func (s *Store) Delete(ctx context.Context, collection string, ids ...string) error {
	c, err := s.collection(collection)
	if err != nil {
		return err
	}

	s.mu.Lock()
	idx := s.index[collection]
	s.mu.Unlock()

	for _, id := range ids {
		if err := c.Delete(ctx, nil, nil, id); err != nil && !strings.Contains(err.Error(), "not found") {
			return fmt.Errorf("vectorstore: delete %s: %w", id, err)
		}
		s.mu.Lock()
		delete(idx, id)
		s.mu.Unlock()
	}
	return nil
}

// DeleteByFilePath removes every chunk belonging to filePath from
// collection.
func (s *Store) DeleteByFilePath(ctx context.Context, collection, filePath string) error {
	results, err := s.Get(ctx, collection, map[string]string{"file_path": filePath}, 0, 0)
	if err != nil {
		return err
	}
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.ID
	}
	return s.Delete(ctx, collection, ids...)
}

// Count returns the number of documents in collection.
func (s *Store) Count(collection string) int {
	c, err := s.collection(collection)
	if err != nil {
		return 0
	}
	return c.Count()
}
