package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLayoutForComputesPaths(t *testing.T) {
	l := LayoutFor("/srv/myproj")
	require.Equal(t, "/srv/myproj/.augmentorium/chroma", l.ChromaDir)
	require.Equal(t, "/srv/myproj/.augmentorium/code_graph.db", l.GraphDBPath)
	require.Equal(t, "/srv/myproj/.augmentoriumignore", l.IgnoreFilePath)
}

func TestEnsureDirsCreatesLayout(t *testing.T) {
	dir := t.TempDir()
	l := LayoutFor(dir)
	require.NoError(t, l.EnsureDirs())

	_, err := os.Stat(l.ChromaDir)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Dir(l.HashCachePath))
	require.NoError(t, err)
}

func TestRegistryRejectsDuplicateNameDifferentRoot(t *testing.T) {
	r := NewRegistry()
	_, err := r.Register("proj", "/a")
	require.NoError(t, err)

	_, err = r.Register("proj", "/b")
	require.Error(t, err)
}

func TestRegistryRegisterIsIdempotentForSameRoot(t *testing.T) {
	r := NewRegistry()
	_, err := r.Register("proj", "/a")
	require.NoError(t, err)
	_, err = r.Register("proj", "/a")
	require.NoError(t, err)
}

func TestUnregisterIsIdempotent(t *testing.T) {
	r := NewRegistry()
	r.Unregister("nope")
	_, err := r.Register("proj", "/a")
	require.NoError(t, err)
	r.Unregister("proj")
	r.Unregister("proj")
	_, ok := r.Get("proj")
	require.False(t, ok)
}

func TestSyncAddsAndRemoves(t *testing.T) {
	r := NewRegistry()
	r.Register("keep", "/keep")
	r.Register("drop", "/drop")

	added, removed := r.Sync(map[string]string{"keep": "/keep", "new": "/new"})
	require.ElementsMatch(t, []string{"new"}, added)
	require.ElementsMatch(t, []string{"drop"}, removed)

	_, ok := r.Get("new")
	require.True(t, ok)
	_, ok = r.Get("drop")
	require.False(t, ok)
}
