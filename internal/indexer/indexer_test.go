package indexer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/augmentorium/augmentorium/internal/chunking"
	"github.com/augmentorium/augmentorium/internal/grammar"
	"github.com/augmentorium/augmentorium/internal/graphstore"
	"github.com/augmentorium/augmentorium/internal/hasher"
	"github.com/augmentorium/augmentorium/internal/model"
	"github.com/augmentorium/augmentorium/internal/pathmatch"
	"github.com/augmentorium/augmentorium/internal/vectorstore"
)

// fakeEmbedder returns a deterministic one-hot-ish vector per text so
// tests never touch the network.
type fakeEmbedder struct {
	fail bool
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if f.fail {
		return make([][]float32, len(texts)), os.ErrClosed
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t))}
	}
	return out, nil
}

func newTestIndexer(t *testing.T, root string) *Indexer {
	t.Helper()
	matcher, err := pathmatch.Compile(nil, nil)
	require.NoError(t, err)

	graph, err := graphstore.Open(filepath.Join(t.TempDir(), "graph.db"))
	require.NoError(t, err)
	t.Cleanup(func() { graph.Close() })

	return &Indexer{
		Project:    model.Project{Name: "proj", Root: root},
		Matcher:    matcher,
		HashCache:  hasher.Load(filepath.Join(t.TempDir(), "hash_cache.json"), hasher.MD5),
		Grammar:    grammar.NewRegistry(nil),
		Vectors:    vectorstore.Open(),
		Graph:      graph,
		Embedder:   &fakeEmbedder{},
		Collection: "proj",
		ChunkOpts:  chunking.DefaultOptions,
		BatchSize:  16,
	}
}

func TestProcessEventUpsertsVectorAndGraph(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.py")
	require.NoError(t, os.WriteFile(file, []byte("def add(a, b):\n    return a + b\n"), 0o644))

	ix := newTestIndexer(t, dir)
	ctx := context.Background()

	err := ix.ProcessEvent(ctx, model.FileEvent{Kind: model.EventCreated, Path: file})
	require.NoError(t, err)

	require.Greater(t, ix.Vectors.Count("proj"), 0)

	nodes, err := ix.Graph.NodesByFilePath("a.py")
	require.NoError(t, err)
	require.NotEmpty(t, nodes)
}

func TestProcessEventSkipsUnchangedFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.py")
	require.NoError(t, os.WriteFile(file, []byte("x = 1\n"), 0o644))

	ix := newTestIndexer(t, dir)
	ctx := context.Background()

	require.NoError(t, ix.ProcessEvent(ctx, model.FileEvent{Kind: model.EventCreated, Path: file}))
	before := ix.Vectors.Count("proj")

	require.NoError(t, ix.ProcessEvent(ctx, model.FileEvent{Kind: model.EventModified, Path: file}))
	require.Equal(t, before, ix.Vectors.Count("proj"), "unchanged content must not re-upsert")
}

func TestProcessEventDeletedRemovesVectorAndGraphEntries(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.py")
	require.NoError(t, os.WriteFile(file, []byte("def f():\n    pass\n"), 0o644))

	ix := newTestIndexer(t, dir)
	ctx := context.Background()
	require.NoError(t, ix.ProcessEvent(ctx, model.FileEvent{Kind: model.EventCreated, Path: file}))
	require.Greater(t, ix.Vectors.Count("proj"), 0)

	require.NoError(t, ix.ProcessEvent(ctx, model.FileEvent{Kind: model.EventDeleted, Path: file}))
	require.Equal(t, 0, ix.Vectors.Count("proj"))

	nodes, err := ix.Graph.NodesByFilePath("a.py")
	require.NoError(t, err)
	require.Empty(t, nodes)
}

func TestProcessEventIgnoredPathIsNoop(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".augmentorium"), 0o755))
	file := filepath.Join(dir, ".augmentorium", "internal.py")
	require.NoError(t, os.WriteFile(file, []byte("x = 1\n"), 0o644))

	ix := newTestIndexer(t, dir)
	err := ix.ProcessEvent(context.Background(), model.FileEvent{Kind: model.EventCreated, Path: file})
	require.NoError(t, err)
	require.Equal(t, 0, ix.Vectors.Count("proj"))
}

func TestFullIndexWalksTreeAndPersistsHashCache(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("def a():\n    pass\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.py"), []byte("def b():\n    pass\n"), 0o644))

	cachePath := filepath.Join(dir, ".augmentorium", "metadata", "hash_cache.json")
	ix := newTestIndexer(t, dir)
	ix.HashCache = hasher.Load(cachePath, hasher.MD5)

	require.NoError(t, ix.FullIndex(context.Background()))
	require.Greater(t, ix.Vectors.Count("proj"), 0)

	_, err := os.Stat(cachePath)
	require.NoError(t, err, "full index must persist the hash cache")

	reloaded := hasher.Load(cachePath, hasher.MD5)
	changed, err := reloaded.HasChanged("a.py", filepath.Join(dir, "a.py"))
	require.NoError(t, err)
	require.False(t, changed, "full index's hash cache entries must survive reload")
}

func TestEmbeddingBatchFailureDoesNotBlockGraphWrite(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.py")
	require.NoError(t, os.WriteFile(file, []byte("def f():\n    pass\n"), 0o644))

	ix := newTestIndexer(t, dir)
	ix.Embedder = &fakeEmbedder{fail: true}

	err := ix.ProcessEvent(context.Background(), model.FileEvent{Kind: model.EventCreated, Path: file})
	require.NoError(t, err, "a failed embedding batch is logged, not fatal")
	require.Equal(t, 0, ix.Vectors.Count("proj"), "nothing was embedded, so nothing is upserted")

	nodes, err := ix.Graph.NodesByFilePath("a.py")
	require.NoError(t, err)
	require.NotEmpty(t, nodes, "graph nodes are still written even when embedding fails")
}
