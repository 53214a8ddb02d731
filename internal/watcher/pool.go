package watcher

import (
	"context"
	"hash/fnv"
	"log"

	"github.com/augmentorium/augmentorium/internal/model"
)

// Processor handles one FileEvent end to end; satisfied by
// *indexer.Indexer.ProcessEvent.
type Processor interface {
	ProcessEvent(ctx context.Context, event model.FileEvent) error
}

// Pool is a fixed-size worker pool draining a shared event channel.
// Events for the same (project, path) are always routed to the same
// worker by hashing, preserving create/modify/delete order for a given
// file; across different files no ordering is promised.
type Pool struct {
	Size      int
	Processor Processor
	lanes     []chan model.FileEvent
}

// NewPool builds a pool of size workers, each backed by its own bounded
// lane, and starts them against ctx.
func NewPool(ctx context.Context, size int, processor Processor) *Pool {
	if size <= 0 {
		size = 4
	}
	p := &Pool{Size: size, Processor: processor}
	p.lanes = make([]chan model.FileEvent, size)
	for i := range p.lanes {
		p.lanes[i] = make(chan model.FileEvent, 256)
		go p.run(ctx, p.lanes[i])
	}
	return p
}

func (p *Pool) run(ctx context.Context, lane chan model.FileEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-lane:
			if !ok {
				return
			}
			if err := p.Processor.ProcessEvent(ctx, event); err != nil {
				log.Printf("watcher: processing %s failed: %v", event.Path, err)
			}
		}
	}
}

// Submit routes event to the worker owning its (project, path) lane,
// blocking if that worker's lane is full.
func (p *Pool) Submit(event model.FileEvent) {
	lane := p.lanes[laneFor(event.ProjectName, event.Path, len(p.lanes))]
	lane <- event
}

func laneFor(project, path string, n int) int {
	h := fnv.New32a()
	h.Write([]byte(project))
	h.Write([]byte{0})
	h.Write([]byte(path))
	return int(h.Sum32() % uint32(n))
}

// Pump reads events off in and submits each to the pool, until in is
// closed or ctx is cancelled.
func (p *Pool) Pump(ctx context.Context, in <-chan model.FileEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-in:
			if !ok {
				return
			}
			p.Submit(event)
		}
	}
}
