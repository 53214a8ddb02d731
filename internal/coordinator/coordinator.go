// Package coordinator implements the Project Registry & Coordinator
// (C13): it owns the single root config, the lifecycle of each project's
// indexer/watcher/store handles, and periodic status aggregation, using
// one actor goroutine per registered project and a registry of actors
// with status reported on demand, generalized from per-project
// RPC-streamed progress to an in-memory status map published every 5s,
// and from
// on-disk ~/.cortex/projects.json persistence to a root-config-is-
// authoritative model (no side registry file of our own).
package coordinator

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/augmentorium/augmentorium/internal/apperrors"
	"github.com/augmentorium/augmentorium/internal/chunking"
	"github.com/augmentorium/augmentorium/internal/config"
	"github.com/augmentorium/augmentorium/internal/embedclient"
	"github.com/augmentorium/augmentorium/internal/grammar"
	"github.com/augmentorium/augmentorium/internal/graphstore"
	"github.com/augmentorium/augmentorium/internal/hasher"
	"github.com/augmentorium/augmentorium/internal/indexer"
	"github.com/augmentorium/augmentorium/internal/model"
	"github.com/augmentorium/augmentorium/internal/pathmatch"
	"github.com/augmentorium/augmentorium/internal/project"
	"github.com/augmentorium/augmentorium/internal/query"
	"github.com/augmentorium/augmentorium/internal/vectorstore"
	"github.com/augmentorium/augmentorium/internal/watcher"
)

// projectRuntime is every live handle the Coordinator owns for one running
// project.
type projectRuntime struct {
	project  model.Project
	layout   project.Layout
	matcher  *pathmatch.Matcher
	indexer  *indexer.Indexer
	graph    *graphstore.Store
	engine   *query.Engine
	events   chan model.FileEvent
	pool     *watcher.Pool
	watch    *watcher.ProjectWatch
	cancel   context.CancelFunc
	status   model.IndexerStatus
	statusMu sync.Mutex
	indexing sync.WaitGroup
}

// Coordinator owns the project registry and every running project's
// components.
type Coordinator struct {
	cfg      *config.Config
	loader   *config.Loader
	registry *project.Registry
	embedder *embedclient.Client

	mu       sync.Mutex
	runtimes map[string]*projectRuntime

	// apiProjects holds projects registered via AddProject rather than the
	// root config file, merged into the reconciled set on every
	// syncProjects pass so an API-registered project survives the next
	// config reload.
	apiProjects map[string]string

	statuses   map[string]model.IndexerStatus
	statusesMu sync.RWMutex

	cancel context.CancelFunc
}

// New builds a Coordinator from an already-loaded config, wiring one
// shared, process-global Embedding Client.
func New(loader *config.Loader, cfg *config.Config) *Coordinator {
	return &Coordinator{
		cfg:      cfg,
		loader:   loader,
		registry: project.NewRegistry(),
		embedder: embedclient.New(embedclient.Config{
			BaseURL: cfg.Ollama.BaseURL,
			Model:   cfg.Ollama.EmbeddingModel,
		}),
		runtimes:    make(map[string]*projectRuntime),
		apiProjects: make(map[string]string),
		statuses:    make(map[string]model.IndexerStatus),
	}
}

// Run starts the Coordinator's two background tasks — config re-read and
// status aggregation — and blocks until ctx is cancelled, at which point
// every running project is stopped.
func (c *Coordinator) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	if err := c.syncProjects(runCtx); err != nil {
		return err
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); c.reloadLoop(runCtx) }()
	go func() { defer wg.Done(); c.statusLoop(runCtx) }()

	<-runCtx.Done()
	wg.Wait()
	c.stopAll()
	return nil
}

// Stop cancels the Coordinator's background tasks.
func (c *Coordinator) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
}

// StopAll halts every running project's watcher, worker pool, and store
// handles directly, for one-shot callers (the index and query subcommands)
// that called Sync instead of Run and so never started the background
// tasks Stop cancels.
func (c *Coordinator) StopAll() {
	c.stopAll()
}

// reloadLoop periodically re-reads the root config to pick up
// newly-added/removed projects.
func (c *Coordinator) reloadLoop(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cfg, err := c.loader.Load()
			if err != nil {
				log.Printf("coordinator: config reload: %v", err)
			}
			if cfg != nil {
				c.mu.Lock()
				c.cfg = cfg
				c.mu.Unlock()
			}
			if err := c.syncProjects(ctx); err != nil {
				log.Printf("coordinator: project sync: %v", err)
			}
		}
	}
}

// statusLoop publishes each running project's IndexerStatus into the
// in-memory status map every 5s.
func (c *Coordinator) statusLoop(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.publishStatuses()
		}
	}
}

func (c *Coordinator) publishStatuses() {
	c.mu.Lock()
	runtimes := make([]*projectRuntime, 0, len(c.runtimes))
	for _, rt := range c.runtimes {
		runtimes = append(runtimes, rt)
	}
	c.mu.Unlock()

	c.statusesMu.Lock()
	defer c.statusesMu.Unlock()
	for _, rt := range runtimes {
		rt.statusMu.Lock()
		status := rt.status
		status.SizeBytes = int64(rt.indexer.Vectors.Count(rt.indexer.Collection))
		rt.statusMu.Unlock()
		c.statuses[rt.project.Name] = status
	}
}

// Statuses returns a snapshot of the most recently published status per
// project.
func (c *Coordinator) Statuses() map[string]model.IndexerStatus {
	c.statusesMu.RLock()
	defer c.statusesMu.RUnlock()
	out := make(map[string]model.IndexerStatus, len(c.statuses))
	for k, v := range c.statuses {
		out[k] = v
	}
	return out
}

// Query runs a Query Engine request against one registered project,
// returning an error only if the project is not currently running or the
// request fails the engine's argument validation (a stopped or unknown
// project is a caller error, distinct from the Query Engine's own
// internal-failure-returns-empty-results contract).
func (c *Coordinator) Query(ctx context.Context, projectName string, req query.Request) (*query.Response, error) {
	c.mu.Lock()
	rt, ok := c.runtimes[projectName]
	c.mu.Unlock()
	if !ok {
		return nil, apperrors.New(apperrors.KindNotFound, fmt.Errorf("project %q is not running", projectName))
	}
	return rt.engine.Query(ctx, req)
}

// SearchChunks runs the Query Engine's lighter-weight chunk search against
// one registered project.
func (c *Coordinator) SearchChunks(ctx context.Context, projectName, text string, nResults int, fileName string) ([]vectorstore.Result, error) {
	c.mu.Lock()
	rt, ok := c.runtimes[projectName]
	c.mu.Unlock()
	if !ok {
		return nil, apperrors.New(apperrors.KindNotFound, fmt.Errorf("project %q is not running", projectName))
	}
	return rt.engine.SearchChunks(ctx, text, nResults, fileName)
}

// ClearQueryCache drops one project's cached query responses.
func (c *Coordinator) ClearQueryCache(projectName string) error {
	c.mu.Lock()
	rt, ok := c.runtimes[projectName]
	c.mu.Unlock()
	if !ok {
		return apperrors.New(apperrors.KindNotFound, fmt.Errorf("project %q is not running", projectName))
	}
	rt.engine.ClearCache()
	return nil
}

// Graph returns the whole-project node/edge set, with unresolved edge
// targets materialized as external nodes.
func (c *Coordinator) Graph(projectName string) ([]model.GraphNode, []model.GraphEdge, error) {
	c.mu.Lock()
	rt, ok := c.runtimes[projectName]
	c.mu.Unlock()
	if !ok {
		return nil, nil, apperrors.New(apperrors.KindNotFound, fmt.Errorf("project %q is not running", projectName))
	}
	return rt.graph.Graph()
}

// Neighbors runs a bounded-depth traversal from nodeID.
func (c *Coordinator) Neighbors(projectName, nodeID string, depth int) ([]graphstore.Neighbor, error) {
	c.mu.Lock()
	rt, ok := c.runtimes[projectName]
	c.mu.Unlock()
	if !ok {
		return nil, apperrors.New(apperrors.KindNotFound, fmt.Errorf("project %q is not running", projectName))
	}
	return rt.graph.Neighbors(nodeID, depth)
}

// NodesByFilePath resolves a file path to its graph nodes, for callers of
// "POST /api/graph/neighbors/" that only have a file_name.
func (c *Coordinator) NodesByFilePath(projectName, filePath string) ([]model.GraphNode, error) {
	c.mu.Lock()
	rt, ok := c.runtimes[projectName]
	c.mu.Unlock()
	if !ok {
		return nil, apperrors.New(apperrors.KindNotFound, fmt.Errorf("project %q is not running", projectName))
	}
	return rt.graph.NodesByFilePath(filePath)
}

// Files lists every distinct indexed file path for a project, up to
// maxFiles (0 means unlimited), sorted for stable pagination.
func (c *Coordinator) Files(ctx context.Context, projectName string, maxFiles int) ([]string, error) {
	c.mu.Lock()
	rt, ok := c.runtimes[projectName]
	c.mu.Unlock()
	if !ok {
		return nil, apperrors.New(apperrors.KindNotFound, fmt.Errorf("project %q is not running", projectName))
	}

	docs, err := rt.indexer.Vectors.Get(ctx, rt.indexer.Collection, nil, 0, 0)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(docs))
	files := make([]string, 0, len(docs))
	for _, d := range docs {
		fp := d.Metadata["file_path"]
		if fp == "" || seen[fp] {
			continue
		}
		seen[fp] = true
		files = append(files, fp)
	}
	sort.Strings(files)
	if maxFiles > 0 && maxFiles < len(files) {
		files = files[:maxFiles]
	}
	return files, nil
}

// ProjectStats is the aggregate view behind "GET /api/stats/".
type ProjectStats struct {
	Status     model.IndexerStatus
	ChunkCount int
	NodeCount  int
	EdgeCount  int
}

// Stats reports one project's indexer status plus store sizes.
func (c *Coordinator) Stats(projectName string) (ProjectStats, error) {
	c.mu.Lock()
	rt, ok := c.runtimes[projectName]
	c.mu.Unlock()
	if !ok {
		return ProjectStats{}, apperrors.New(apperrors.KindNotFound, fmt.Errorf("project %q is not running", projectName))
	}

	nodes, edges, err := rt.graph.Graph()
	if err != nil {
		return ProjectStats{}, err
	}

	rt.statusMu.Lock()
	status := rt.status
	rt.statusMu.Unlock()
	status.SizeBytes = int64(rt.indexer.Vectors.Count(rt.indexer.Collection))

	return ProjectStats{
		Status:     status,
		ChunkCount: rt.indexer.Vectors.Count(rt.indexer.Collection),
		NodeCount:  len(nodes),
		EdgeCount:  len(edges),
	}, nil
}

// Projects lists every registered project, running or not.
func (c *Coordinator) Projects() []model.Project {
	return c.registry.List()
}

// AddProject registers a new project and starts it immediately. Registering
// an already-running name bound to the same root is idempotent.
func (c *Coordinator) AddProject(ctx context.Context, name, root string) (model.Project, error) {
	if name == "" || root == "" {
		return model.Project{}, apperrors.New(apperrors.KindBadRequest, fmt.Errorf("name and path are required"))
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return model.Project{}, apperrors.New(apperrors.KindBadRequest, err)
	}

	p, err := c.registry.Register(name, abs)
	if err != nil {
		return model.Project{}, err
	}

	c.mu.Lock()
	c.apiProjects[name] = abs
	_, running := c.runtimes[name]
	c.mu.Unlock()
	if running {
		return p, nil
	}

	if err := c.startProject(ctx, p); err != nil {
		return model.Project{}, err
	}
	return p, nil
}

// RemoveProject stops a running project and unregisters it; idempotent on an unknown name.
func (c *Coordinator) RemoveProject(name string) {
	c.mu.Lock()
	delete(c.apiProjects, name)
	c.mu.Unlock()
	c.stopProject(name)
	c.registry.Unregister(name)
}

// Reindex wipes a project's hash cache and query cache and re-runs a full
// index pass.
func (c *Coordinator) Reindex(ctx context.Context, name string) error {
	c.mu.Lock()
	rt, ok := c.runtimes[name]
	c.mu.Unlock()
	if !ok {
		return apperrors.New(apperrors.KindNotFound, fmt.Errorf("project %q is not running", name))
	}

	rt.indexer.HashCache.Wipe()
	rt.engine.ClearCache()
	rt.setIndexing()

	rt.indexing.Add(1)
	go func() {
		defer rt.indexing.Done()
		if err := rt.indexer.FullIndex(ctx); err != nil {
			rt.setError(err)
			return
		}
		rt.setIdle()
	}()
	return nil
}

// PushStatus records an externally-reported IndexerStatus alongside the statuses this Coordinator
// publishes itself.
func (c *Coordinator) PushStatus(status model.IndexerStatus) {
	c.statusesMu.Lock()
	defer c.statusesMu.Unlock()
	c.statuses[status.Name] = status
}

// Sync reconciles the registry against the current root config immediately,
// without waiting for reloadLoop's tick; used by one-shot callers (the
// indexer CLI subcommand, tests) that need every configured project
// started before proceeding.
func (c *Coordinator) Sync(ctx context.Context) error {
	return c.syncProjects(ctx)
}

// syncProjects reconciles the registry against the current root config,
// starting newly-added projects and stopping removed ones.
func (c *Coordinator) syncProjects(ctx context.Context) error {
	c.mu.Lock()
	desired := make(map[string]string, len(c.cfg.Projects)+len(c.apiProjects))
	for name, root := range c.cfg.Projects {
		desired[name] = root
	}
	for name, root := range c.apiProjects {
		desired[name] = root
	}
	c.mu.Unlock()

	added, removed := c.registry.Sync(desired)

	for _, name := range removed {
		c.stopProject(name)
	}
	for _, name := range added {
		p, _ := c.registry.Get(name)
		if err := c.startProject(ctx, p); err != nil {
			log.Printf("coordinator: failed to start project %s: %v", name, err)
		}
	}
	return nil
}

// startProject brings up every component one project needs: directory
// layout, ignore matcher, hash cache, graph store, indexer, event channel,
// worker pool, and recursive watcher.
func (c *Coordinator) startProject(ctx context.Context, p model.Project) error {
	layout := project.LayoutFor(p.Root)
	if err := layout.EnsureDirs(); err != nil {
		return err
	}

	projectPatterns, err := loadProjectIgnore(layout.IgnoreFilePath)
	if err != nil {
		return err
	}
	matcher, err := pathmatch.Compile(c.cfg.Indexer.IgnorePatterns, projectPatterns)
	if err != nil {
		return err
	}

	graph, err := graphstore.Open(layout.GraphDBPath)
	if err != nil {
		return err
	}

	vectors := vectorstore.Open()
	alg := hasher.Algorithm(c.cfg.Indexer.HashAlgorithm)
	ix := &indexer.Indexer{
		Project:    p,
		Matcher:    matcher,
		HashCache:  hasher.Load(layout.HashCachePath, alg),
		Grammar:    grammar.NewRegistry(nil),
		Vectors:    vectors,
		Graph:      graph,
		Embedder:   c.embedder,
		Collection: p.Name,
		ChunkOpts:  chunking.DefaultOptions,
		BatchSize:  c.cfg.Ollama.EmbeddingBatchSize,
	}

	engine, err := query.NewEngine(vectors, graph, c.embedder, p.Name, query.EngineConfig{
		DefaultNResults: c.cfg.Query.NResults,
		DefaultMinScore: c.cfg.Query.MinScore,
		MaxContextSize:  c.cfg.Query.MaxContextSize,
		CacheSize:       c.cfg.Query.CacheSize,
		RemoveStopwords: c.cfg.Query.RemoveStopwords,
	})
	if err != nil {
		graph.Close()
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	events := make(chan model.FileEvent, 1024)
	pool := watcher.NewPool(runCtx, c.cfg.Indexer.MaxWorkers, ix)
	go pool.Pump(runCtx, events)

	pw, err := watcher.Start(runCtx, p, matcher, alg, events)
	if err != nil {
		cancel()
		engine.Close()
		graph.Close()
		return err
	}

	rt := &projectRuntime{
		project: p,
		layout:  layout,
		matcher: matcher,
		indexer: ix,
		graph:   graph,
		engine:  engine,
		events:  events,
		pool:    pool,
		watch:   pw,
		cancel:  cancel,
		status: model.IndexerStatus{
			Name:  p.Name,
			Path:  p.Root,
			State: model.StateIndexing,
		},
	}

	c.mu.Lock()
	c.runtimes[p.Name] = rt
	c.mu.Unlock()

	rt.indexing.Add(1)
	go func() {
		defer rt.indexing.Done()
		if err := ix.FullIndex(runCtx); err != nil {
			rt.setError(err)
			return
		}
		rt.setIdle()
	}()

	return nil
}

func (rt *projectRuntime) setIndexing() {
	rt.statusMu.Lock()
	defer rt.statusMu.Unlock()
	rt.status.State = model.StateIndexing
	rt.status.Error = ""
}

func (rt *projectRuntime) setIdle() {
	rt.statusMu.Lock()
	defer rt.statusMu.Unlock()
	now := time.Now().UTC()
	rt.status.State = model.StateIdle
	rt.status.LastIndexed = &now
	rt.status.Error = ""
}

// waitForDrain waits for any in-flight full-index run to finish, up to a
// bounded timeout, rather than blocking shutdown indefinitely.
func (rt *projectRuntime) waitForDrain(timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		rt.indexing.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		log.Printf("coordinator: %s: timed out waiting for in-flight indexing to drain", rt.project.Name)
	}
}

func (rt *projectRuntime) setError(err error) {
	rt.statusMu.Lock()
	defer rt.statusMu.Unlock()
	rt.status.State = model.StateError
	rt.status.Error = err.Error()
}

// stopProject halts a project's watcher, drains its worker pool, and
// closes its store handles.
func (c *Coordinator) stopProject(name string) {
	c.mu.Lock()
	rt, ok := c.runtimes[name]
	if ok {
		delete(c.runtimes, name)
	}
	c.mu.Unlock()
	if !ok {
		return
	}

	if err := rt.watch.Stop(); err != nil {
		log.Printf("coordinator: stopping watcher for %s: %v", name, err)
	}
	rt.cancel()
	rt.waitForDrain(10 * time.Second)
	rt.engine.Close()
	if err := rt.graph.Close(); err != nil {
		log.Printf("coordinator: closing graph store for %s: %v", name, err)
	}
	if err := rt.indexer.HashCache.Save(); err != nil {
		log.Printf("coordinator: persisting hash cache for %s: %v", name, err)
	}

	c.statusesMu.Lock()
	delete(c.statuses, name)
	c.statusesMu.Unlock()
}

func (c *Coordinator) stopAll() {
	c.mu.Lock()
	names := make([]string, 0, len(c.runtimes))
	for name := range c.runtimes {
		names = append(names, name)
	}
	c.mu.Unlock()
	for _, name := range names {
		c.stopProject(name)
	}
}

// loadProjectIgnore reads the per-project .augmentoriumignore file; a
// missing file means no project-specific patterns, not an error.
func loadProjectIgnore(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	return pathmatch.LoadIgnoreFile(f)
}
