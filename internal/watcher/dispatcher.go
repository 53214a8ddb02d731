package watcher

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/augmentorium/augmentorium/internal/hasher"
	"github.com/augmentorium/augmentorium/internal/model"
	"github.com/augmentorium/augmentorium/internal/pathmatch"
)

// Dispatcher turns one project's RawEvents into model.FileEvents: it
// applies the ignore matcher (C1), suppresses a "modified" event whose
// content digest has not actually changed (C2), and forwards the result
// onto Out, a channel shared by every project's dispatcher and drained by
// the worker pool.
//
// fsnotify reports a rename as a Rename op on the source path only; the
// destination shows up as its own Create event on the new path. That
// already yields the deleted(src), created(dst) pair a "moved" event
// should produce, so Rename is mapped straight to EventDeleted rather
// than requiring explicit pairing logic here.
type Dispatcher struct {
	Project model.Project
	Matcher *pathmatch.Matcher
	Alg     hasher.Algorithm
	Out     chan<- model.FileEvent

	mu         sync.Mutex
	lastDigest map[string]string
}

// NewDispatcher builds a Dispatcher for one project, forwarding onto out.
func NewDispatcher(project model.Project, matcher *pathmatch.Matcher, alg hasher.Algorithm, out chan<- model.FileEvent) *Dispatcher {
	return &Dispatcher{
		Project:    project,
		Matcher:    matcher,
		Alg:        alg,
		Out:        out,
		lastDigest: make(map[string]string),
	}
}

// Dispatch converts one RawEvent, dropping it if ignored or if it is a
// no-op "modified" repeat, and forwards the result.
func (d *Dispatcher) Dispatch(ev RawEvent) {
	rel := pathmatch.ToRelSlash(d.Project.Root, ev.Path)
	if d.Matcher.ShouldIgnoreRel(rel) {
		return
	}

	kind, ok := classify(ev.Op)
	if !ok {
		return
	}

	if kind == model.EventModified && d.isDuplicateModification(ev.Path) {
		return
	}
	if kind == model.EventDeleted {
		d.forgetDigest(ev.Path)
	}

	d.Out <- model.FileEvent{
		ID:          uuid.NewString(),
		Kind:        kind,
		Path:        ev.Path,
		ProjectRoot: d.Project.Root,
		ProjectName: d.Project.Name,
		Timestamp:   time.Now(),
	}
}

// classify maps an fsnotify op to an EventKind. fsnotify sets multiple
// bits at once on some platforms; Write takes priority over Chmod.
func classify(op fsnotify.Op) (model.EventKind, bool) {
	switch {
	case op&fsnotify.Remove != 0:
		return model.EventDeleted, true
	case op&fsnotify.Rename != 0:
		return model.EventDeleted, true
	case op&fsnotify.Create != 0:
		return model.EventCreated, true
	case op&fsnotify.Write != 0:
		return model.EventModified, true
	default:
		return "", false
	}
}

// isDuplicateModification computes path's current digest and compares it
// against the last digest seen by this dispatcher for path, independent of
// the Indexer's persistent hash cache — this is purely event-coalescing,
// not the authoritative content-changed check the Indexer performs before
// writing.
func (d *Dispatcher) isDuplicateModification(path string) bool {
	digest, err := hasher.Digest(path, d.Alg)
	if err != nil {
		// File may have vanished between the event firing and this read;
		// let the event through so the Indexer's own stat resolves it.
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if prev, ok := d.lastDigest[path]; ok && prev == digest {
		return true
	}
	d.lastDigest[path] = digest
	return false
}

func (d *Dispatcher) forgetDigest(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.lastDigest, path)
}
