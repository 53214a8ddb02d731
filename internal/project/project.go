// Package project manages the Project Registry (part of C13): the mapping
// from project name to root path, and each project's internal
// .augmentorium/ directory layout, generalized from one fixed directory to
// a per-project registry of many.
package project

import (
	"os"
	"path/filepath"

	"github.com/augmentorium/augmentorium/internal/apperrors"
	"github.com/augmentorium/augmentorium/internal/model"
)

// InternalDirName is the per-project internal directory.
const InternalDirName = ".augmentorium"

// Layout is the resolved set of paths under a project's internal directory.
type Layout struct {
	Root         string
	InternalDir  string
	ChromaDir    string
	GraphDBPath  string
	CacheDir     string
	HashCachePath string
	IgnoreFilePath string
}

// LayoutFor computes the Layout for a project rooted at root.
func LayoutFor(root string) Layout {
	internal := filepath.Join(root, InternalDirName)
	return Layout{
		Root:           root,
		InternalDir:    internal,
		ChromaDir:      filepath.Join(internal, "chroma"),
		GraphDBPath:    filepath.Join(internal, "code_graph.db"),
		CacheDir:       filepath.Join(internal, "cache"),
		HashCachePath:  filepath.Join(internal, "metadata", "hash_cache.json"),
		IgnoreFilePath: filepath.Join(root, ".augmentoriumignore"),
	}
}

// EnsureDirs creates every directory in the layout that indexing needs
// present before writing (chroma/, cache/, metadata/), idempotently.
func (l Layout) EnsureDirs() error {
	dirs := []string{l.ChromaDir, l.CacheDir, filepath.Dir(l.HashCachePath)}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// Registry holds the set of registered projects, keyed by unique name.
type Registry struct {
	projects map[string]model.Project
}

func NewRegistry() *Registry {
	return &Registry{projects: make(map[string]model.Project)}
}

// Register adds a project, rejecting a name already bound to a different
// root path.
func (r *Registry) Register(name, root string) (model.Project, error) {
	if existing, ok := r.projects[name]; ok {
		if existing.Root != root {
			return model.Project{}, apperrors.New(apperrors.KindBadRequest, apperrors.ErrProjectExists)
		}
		return existing, nil
	}
	p := model.Project{Name: name, Root: root}
	r.projects[name] = p
	return p, nil
}

// Unregister removes name; it is idempotent — removing an unknown name is
// not an error.
func (r *Registry) Unregister(name string) {
	delete(r.projects, name)
}

// Get returns the project registered under name.
func (r *Registry) Get(name string) (model.Project, bool) {
	p, ok := r.projects[name]
	return p, ok
}

// List returns every registered project.
func (r *Registry) List() []model.Project {
	out := make([]model.Project, 0, len(r.projects))
	for _, p := range r.projects {
		out = append(out, p)
	}
	return out
}

// Sync reconciles the registry against a root-config projects map,
// registering additions and unregistering removals. Returns the names added and removed.
func (r *Registry) Sync(desired map[string]string) (added, removed []string) {
	for name, root := range desired {
		if _, ok := r.projects[name]; !ok {
			r.projects[name] = model.Project{Name: name, Root: root}
			added = append(added, name)
		}
	}
	for name := range r.projects {
		if _, ok := desired[name]; !ok {
			delete(r.projects, name)
			removed = append(removed, name)
		}
	}
	return added, removed
}
