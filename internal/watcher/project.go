package watcher

import (
	"context"
	"log"

	"github.com/augmentorium/augmentorium/internal/hasher"
	"github.com/augmentorium/augmentorium/internal/model"
	"github.com/augmentorium/augmentorium/internal/pathmatch"
)

// ProjectWatch ties one project's FileWatcher and Dispatcher to the
// process-wide event channel that feeds the worker pool.
type ProjectWatch struct {
	fw         *FileWatcher
	dispatcher *Dispatcher
	cancel     context.CancelFunc
}

// Start launches the recursive watcher and its dispatch loop for project,
// forwarding resulting FileEvents onto out. Call Stop to halt both.
func Start(ctx context.Context, project model.Project, matcher *pathmatch.Matcher, alg hasher.Algorithm, out chan<- model.FileEvent) (*ProjectWatch, error) {
	fw, err := NewFileWatcher(project.Root, matcher)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	pw := &ProjectWatch{
		fw:         fw,
		dispatcher: NewDispatcher(project, matcher, alg, out),
		cancel:     cancel,
	}

	go fw.Run()
	go pw.dispatchLoop(runCtx)
	return pw, nil
}

func (pw *ProjectWatch) dispatchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-pw.fw.Events:
			if !ok {
				return
			}
			pw.dispatcher.Dispatch(ev)
		case err, ok := <-pw.fw.Errors:
			if !ok {
				continue
			}
			log.Printf("watcher: %s: %v", pw.dispatcher.Project.Name, err)
		}
	}
}

// Stop halts the watcher and its dispatch loop.
func (pw *ProjectWatch) Stop() error {
	pw.cancel()
	return pw.fw.Stop()
}
