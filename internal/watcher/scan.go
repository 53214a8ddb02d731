// Package watcher implements the Watcher / Event Queue (C11): a recursive
// filesystem watcher per project, a dispatcher that turns raw fsnotify
// events into model.FileEvent records, and a worker pool that serialises
// events for the same file onto the same worker, using a walk-and-Add
// idiom for adding directories recursively, generalized from a hardcoded
// skip-list (.git, node_modules) to pathmatch.Matcher-driven pruning,
// and stripped of the
// teacher's git-branch-aware pause/resume coordination, which has no
// counterpart in this design.
package watcher

import (
	"os"
	"path/filepath"

	"github.com/augmentorium/augmentorium/internal/pathmatch"
)

// Scan walks root and returns every regular file's absolute path, pruning
// any directory that matches the ignore spec without entering it rather
// than walking the full tree and filtering afterward.
func Scan(root string, matcher *pathmatch.Matcher) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel := pathmatch.ToRelSlash(root, path)
		if d.IsDir() {
			if matcher.ShouldIgnoreRel(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if matcher.ShouldIgnoreRel(rel) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
