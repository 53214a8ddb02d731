package query

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/augmentorium/augmentorium/internal/graphstore"
	"github.com/augmentorium/augmentorium/internal/model"
	"github.com/augmentorium/augmentorium/internal/vectorstore"
)

// fakeEmbedder maps each preprocessed query deterministically onto a
// one-hot-ish vector so Query exercises real vectorstore k-NN search
// without a network call.
type fakeEmbedder struct{}

func (fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{float32(len(text))}, nil
}

func newTestEngine(t *testing.T) (*Engine, *vectorstore.Store, *graphstore.Store) {
	t.Helper()
	vectors := vectorstore.Open()
	graph, err := graphstore.Open(filepath.Join(t.TempDir(), "graph.db"))
	require.NoError(t, err)
	t.Cleanup(func() { graph.Close() })

	e, err := NewEngine(vectors, graph, fakeEmbedder{}, "proj", EngineConfig{
		DefaultNResults: 10,
		MaxContextSize:  4000,
		CacheSize:       16,
	})
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e, vectors, graph
}

func seedChunk(t *testing.T, vectors *vectorstore.Store, graph *graphstore.Store, id, filePath, text string, imports, refs string) {
	t.Helper()
	meta := map[string]string{
		"file_path": filePath,
		"name":      id,
		"node_type": "function",
		"docstring": "does a thing",
		"imports":   imports,
		"references": refs,
	}
	require.NoError(t, vectors.Upsert(context.Background(), "proj",
		[]string{id}, []string{text}, []map[string]string{meta}, [][]float32{{float32(len(text))}}))
	if graph != nil {
		require.NoError(t, graph.UpsertNode(model.GraphNode{ID: id, Type: "function", Name: id, FilePath: filePath}))
	}
}

func TestQueryReturnsVectorHitsAboveMinScore(t *testing.T) {
	e, vectors, _ := newTestEngine(t)
	seedChunk(t, vectors, nil, "c1", "a.py", "def add(a, b):\n    return a + b\n", "", "")

	resp, err := e.Query(context.Background(), Request{Text: "add", NResults: 5})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	require.Equal(t, "c1", resp.Results[0].ID)
}

func TestQueryFiltersByMinScore(t *testing.T) {
	e, vectors, _ := newTestEngine(t)
	seedChunk(t, vectors, nil, "c1", "a.py", "x", "", "")

	resp, err := e.Query(context.Background(), Request{Text: "add", NResults: 5, MinScore: 2})
	require.NoError(t, err)
	require.Empty(t, resp.Results)
}

func TestQueryAttachesGraphRelationships(t *testing.T) {
	e, vectors, graph := newTestEngine(t)
	seedChunk(t, vectors, graph, "caller", "a.py", "def caller(): callee()", "", "")
	seedChunk(t, vectors, graph, "callee", "a.py", "def callee(): pass", "", "")
	require.NoError(t, graph.InsertEdge(model.GraphEdge{SourceID: "caller", TargetID: "callee", RelationType: "calls"}))

	resp, err := e.Query(context.Background(), Request{Text: "caller", NResults: 5})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Results)

	var found bool
	for _, r := range resp.Results {
		if r.ID == "caller" {
			require.Len(t, r.GraphRelationships, 1)
			require.Equal(t, "callee", r.GraphRelationships[0].NeighborID)
			found = true
		}
	}
	require.True(t, found)
}

func TestQueryAttachesRelatedFilesByReference(t *testing.T) {
	e, vectors, _ := newTestEngine(t)
	seedChunk(t, vectors, nil, "mod_a", "a.py", "import helpers", "import helpers", "")
	seedChunk(t, vectors, nil, "mod_b", "helpers.py", "def helpers(): pass", "", "")

	resp, err := e.Query(context.Background(), Request{Text: "a", NResults: 5})
	require.NoError(t, err)

	for _, r := range resp.Results {
		if r.ID == "mod_a" {
			require.Contains(t, r.RelatedFiles, "helpers.py")
		}
	}
}

func TestQueryResultIsCached(t *testing.T) {
	e, vectors, _ := newTestEngine(t)
	seedChunk(t, vectors, nil, "c1", "a.py", "def add(): pass", "", "")

	first, err := e.Query(context.Background(), Request{Text: "add", NResults: 5})
	require.NoError(t, err)

	require.NoError(t, vectors.Delete(context.Background(), "proj", "c1"))

	second, err := e.Query(context.Background(), Request{Text: "add", NResults: 5})
	require.NoError(t, err)
	require.Equal(t, first, second, "a cached response must be returned without re-querying the store")

	e.ClearCache()
	third, err := e.Query(context.Background(), Request{Text: "add", NResults: 5})
	require.NoError(t, err)
	require.Empty(t, third.Results, "clearing the cache must force a fresh, now-empty query")
}

func TestSearchChunksSkipsEnrichmentAndCache(t *testing.T) {
	e, vectors, graph := newTestEngine(t)
	seedChunk(t, vectors, graph, "c1", "a.py", "def add(a, b):\n    return a + b\n", "", "")

	results, err := e.SearchChunks(context.Background(), "add", 5, "")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "c1", results[0].ID)

	require.NoError(t, vectors.Delete(context.Background(), "proj", "c1"))
	results, err = e.SearchChunks(context.Background(), "add", 5, "")
	require.NoError(t, err)
	require.Empty(t, results, "SearchChunks must not be served from the Query result cache")
}

func TestAssembleContextFormatsAndTruncates(t *testing.T) {
	results := []EnrichedResult{
		{Result: vectorstore.Result{ID: "c1", Text: "line one", Score: 0.9, Metadata: map[string]string{"file_path": "a.py", "name": "f1"}}},
		{Result: vectorstore.Result{ID: "c2", Text: "line two", Score: 0.5, Metadata: map[string]string{"file_path": "b.py", "name": "f2"}}},
	}

	full, truncated, _ := assembleContext("how does it work", results, 0, false)
	require.False(t, truncated)
	require.True(t, strings.HasPrefix(full, "Query: how does it work\n\nRelevant code:\n\n"))
	require.Contains(t, full, "--- a.py ---\nline one")
	require.Contains(t, full, "--- b.py ---\nline two")

	clipped, truncated, count := assembleContext("q", results, len("Query: q\n\nRelevant code:\n\n")+10, false)
	require.True(t, truncated)
	require.Equal(t, 2, count)
	require.Contains(t, clipped, "truncated 2 more results")
}
