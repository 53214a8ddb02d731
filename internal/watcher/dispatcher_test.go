package watcher

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"

	"github.com/augmentorium/augmentorium/internal/hasher"
	"github.com/augmentorium/augmentorium/internal/model"
	"github.com/augmentorium/augmentorium/internal/pathmatch"
)

func newTestDispatcher(t *testing.T, root string) (*Dispatcher, chan model.FileEvent) {
	t.Helper()
	matcher, err := pathmatch.Compile(nil, nil)
	require.NoError(t, err)
	out := make(chan model.FileEvent, 16)
	return NewDispatcher(model.Project{Name: "p", Root: root}, matcher, hasher.MD5, out), out
}

func TestDispatchIgnoredPathIsDropped(t *testing.T) {
	dir := t.TempDir()
	d, out := newTestDispatcher(t, dir)
	d.Matcher = mustMatcher(t, []string{"vendor/**"})

	d.Dispatch(RawEvent{Op: fsnotify.Create, Path: filepath.Join(dir, "vendor", "a.go")})
	require.Empty(t, out)
}

func TestDispatchCreateForwardsFileEvent(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.go")
	require.NoError(t, os.WriteFile(file, []byte("package a"), 0o644))

	d, out := newTestDispatcher(t, dir)
	d.Dispatch(RawEvent{Op: fsnotify.Create, Path: file})

	ev := <-out
	require.Equal(t, model.EventCreated, ev.Kind)
	require.Equal(t, file, ev.Path)
	require.Equal(t, "p", ev.ProjectName)
}

func TestDispatchSuppressesRepeatedModificationWithSameDigest(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.go")
	require.NoError(t, os.WriteFile(file, []byte("package a"), 0o644))

	d, out := newTestDispatcher(t, dir)
	d.Dispatch(RawEvent{Op: fsnotify.Write, Path: file})
	<-out

	d.Dispatch(RawEvent{Op: fsnotify.Write, Path: file})
	require.Empty(t, out, "second write with unchanged content must be suppressed")

	require.NoError(t, os.WriteFile(file, []byte("package a\nfunc x(){}"), 0o644))
	d.Dispatch(RawEvent{Op: fsnotify.Write, Path: file})
	require.Len(t, out, 1, "a genuine content change must still forward")
}

func TestDispatchRenameMapsToDeleted(t *testing.T) {
	dir := t.TempDir()
	d, out := newTestDispatcher(t, dir)

	d.Dispatch(RawEvent{Op: fsnotify.Rename, Path: filepath.Join(dir, "old.go")})
	ev := <-out
	require.Equal(t, model.EventDeleted, ev.Kind)
}

func mustMatcher(t *testing.T, patterns []string) *pathmatch.Matcher {
	t.Helper()
	m, err := pathmatch.Compile(patterns, nil)
	require.NoError(t, err)
	return m
}
