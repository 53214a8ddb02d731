package watcher

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/augmentorium/augmentorium/internal/model"
)

type recordingProcessor struct {
	mu    sync.Mutex
	order []model.FileEvent
}

func (r *recordingProcessor) ProcessEvent(ctx context.Context, event model.FileEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append(r.order, event)
	return nil
}

func (r *recordingProcessor) snapshot() []model.FileEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.FileEvent, len(r.order))
	copy(out, r.order)
	return out
}

func TestPoolPreservesPerFileOrdering(t *testing.T) {
	proc := &recordingProcessor{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := NewPool(ctx, 4, proc)

	events := []model.FileEvent{
		{ID: "1", Kind: model.EventCreated, ProjectName: "p", Path: "/a.go"},
		{ID: "2", Kind: model.EventModified, ProjectName: "p", Path: "/a.go"},
		{ID: "3", Kind: model.EventDeleted, ProjectName: "p", Path: "/a.go"},
	}
	for _, ev := range events {
		pool.Submit(ev)
	}

	require.Eventually(t, func() bool {
		return len(proc.snapshot()) == 3
	}, time.Second, 10*time.Millisecond)

	got := proc.snapshot()
	require.Equal(t, "1", got[0].ID)
	require.Equal(t, "2", got[1].ID)
	require.Equal(t, "3", got[2].ID)
}

func TestLaneForIsStablePerPath(t *testing.T) {
	a := laneFor("proj", "/x/a.go", 8)
	b := laneFor("proj", "/x/a.go", 8)
	require.Equal(t, a, b)
}
