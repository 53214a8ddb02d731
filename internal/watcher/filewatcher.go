package watcher

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/augmentorium/augmentorium/internal/pathmatch"
)

// RawEvent is an un-filtered filesystem notification for one project,
// before C1 (ignore matching) and C2 (duplicate-modification suppression)
// are applied.
type RawEvent struct {
	Op   fsnotify.Op
	Path string
}

// FileWatcher recursively watches one project root, adding newly created
// directories as they appear, and emits RawEvents on Events.
type FileWatcher struct {
	ProjectRoot string

	watcher *fsnotify.Watcher
	matcher *pathmatch.Matcher

	Events chan RawEvent
	Errors chan error

	stopOnce sync.Once
	done     chan struct{}
}

// NewFileWatcher creates a watcher over root, recursively adding every
// directory not pruned by matcher.
func NewFileWatcher(root string, matcher *pathmatch.Matcher) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	fw := &FileWatcher{
		ProjectRoot: root,
		watcher:     w,
		matcher:     matcher,
		Events:      make(chan RawEvent, 1024),
		Errors:      make(chan error, 16),
		done:        make(chan struct{}),
	}

	if err := fw.addRecursively(root); err != nil {
		w.Close()
		return nil, err
	}
	return fw, nil
}

// addRecursively registers root and every non-pruned subdirectory with the
// underlying fsnotify watcher.
func (fw *FileWatcher) addRecursively(root string) error {
	rel := pathmatch.ToRelSlash(fw.ProjectRoot, root)
	if root != fw.ProjectRoot && fw.matcher.ShouldIgnoreRel(rel) {
		return nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return err
	}

	if err := fw.watcher.Add(root); err != nil {
		return fmt.Errorf("watcher: failed to watch %s: %w", root, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		sub := filepath.Join(root, entry.Name())
		if err := fw.addRecursively(sub); err != nil {
			log.Printf("watcher: %v", err)
		}
	}
	return nil
}

// Run drains the underlying fsnotify channels until Stop is called,
// re-registering newly created directories and forwarding everything else
// as a RawEvent.
func (fw *FileWatcher) Run() {
	for {
		select {
		case <-fw.done:
			return
		case ev, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := fw.addRecursively(ev.Name); err != nil {
						log.Printf("watcher: failed to watch new directory %s: %v", ev.Name, err)
					}
				}
			}
			select {
			case fw.Events <- RawEvent{Op: ev.Op, Path: ev.Name}:
			case <-fw.done:
				return
			}
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			select {
			case fw.Errors <- err:
			default:
			}
		}
	}
}

// Stop closes the underlying watcher and halts Run.
func (fw *FileWatcher) Stop() error {
	var err error
	fw.stopOnce.Do(func() {
		close(fw.done)
		err = fw.watcher.Close()
	})
	return err
}
