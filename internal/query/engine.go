package query

import (
	"context"
	"log"
	"strings"

	"github.com/augmentorium/augmentorium/internal/apperrors"
	"github.com/augmentorium/augmentorium/internal/graphstore"
	"github.com/augmentorium/augmentorium/internal/model"
	"github.com/augmentorium/augmentorium/internal/vectorstore"
)

// Embedder is the subset of embedclient.Client the Query Engine needs.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Request is one user query.
type Request struct {
	Text            string
	NResults        int
	MinScore        float32
	Where           map[string]string
	FileName        string
	IncludeMetadata bool
}

// GraphRelationship is one outgoing edge from a result's underlying graph
// node, with the target node resolved (or materialized as an external
// placeholder when the target was never indexed).
type GraphRelationship struct {
	RelationType string
	NeighborID   string
	NeighborNode *model.GraphNode
}

// EnrichedResult is one vector search hit plus its graph and related-files
// enrichment.
type EnrichedResult struct {
	vectorstore.Result
	GraphRelationships []GraphRelationship
	RelatedFiles       []string
}

// Response is the full result of one Engine.Query call.
type Response struct {
	Query          string
	Results        []EnrichedResult
	Context        string
	Truncated      bool
	TruncatedCount int
	// Expansions holds the Cartesian-product synonym expansions of the
	// preprocessed query, for debug/log use only; the embedding is always of the preprocessed original query.
	Expansions []string
}

// EngineConfig carries the Query Engine's tunables (config.Query).
type EngineConfig struct {
	DefaultNResults int
	DefaultMinScore float32
	MaxContextSize  int
	CacheSize       int
	RemoveStopwords bool
}

// Engine implements the Query Engine (C12): preprocess, expand, embed,
// vector search, graph/related-files enrichment, context assembly, and an
// LRU result cache, one per project.
type Engine struct {
	vectors      *vectorstore.Store
	graph        *graphstore.Store
	embedder     Embedder
	collection   string
	preprocessor Preprocessor
	cfg          EngineConfig
	cache        *resultCache
}

// NewEngine builds an Engine over one project's store handles.
func NewEngine(vectors *vectorstore.Store, graph *graphstore.Store, embedder Embedder, collection string, cfg EngineConfig) (*Engine, error) {
	cache, err := newResultCache(cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	return &Engine{
		vectors:      vectors,
		graph:        graph,
		embedder:     embedder,
		collection:   collection,
		preprocessor: Preprocessor{RemoveStopwords: cfg.RemoveStopwords},
		cfg:          cfg,
		cache:        cache,
	}, nil
}

// ClearCache drops every cached response.
func (e *Engine) ClearCache() { e.cache.clear() }

// Close releases the Engine's cache resources.
func (e *Engine) Close() { e.cache.close() }

// Query runs the full pipeline for one request. Internal failures (embed or
// store errors) yield an empty Response rather than an error; only
// argument validation failures are returned as errors.
func (e *Engine) Query(ctx context.Context, req Request) (*Response, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, apperrors.New(apperrors.KindBadRequest, apperrors.ErrBadRequest)
	}
	nResults := req.NResults
	if nResults <= 0 {
		nResults = e.cfg.DefaultNResults
	}
	minScore := req.MinScore
	if minScore <= 0 {
		minScore = e.cfg.DefaultMinScore
	}

	key := cacheKey(req.Text, nResults, minScore, req.Where, req.FileName)
	if cached, ok := e.cache.get(key); ok {
		return cached, nil
	}

	preprocessed := e.preprocessor.Process(req.Text)
	expansions := Expand(preprocessed)

	vec, err := e.embedder.Embed(ctx, preprocessed)
	if err != nil {
		log.Printf("query: embed failed: %v", err)
		return &Response{Query: req.Text}, nil
	}

	raw, err := e.vectors.Query(ctx, e.collection, vec, nResults, req.Where, req.FileName)
	if err != nil {
		log.Printf("query: vector search failed: %v", err)
		return &Response{Query: req.Text}, nil
	}

	results := make([]EnrichedResult, 0, len(raw))
	for _, r := range raw {
		if r.Score < minScore {
			continue
		}
		results = append(results, EnrichedResult{Result: r})
	}

	e.enrichGraph(results)
	if err := e.enrichRelatedFiles(ctx, results); err != nil {
		log.Printf("query: related-files enrichment failed: %v", err)
	}

	contextText, truncated, truncatedCount := assembleContext(req.Text, results, e.cfg.MaxContextSize, req.IncludeMetadata)

	resp := &Response{
		Query:          req.Text,
		Results:        results,
		Context:        contextText,
		Truncated:      truncated,
		TruncatedCount: truncatedCount,
		Expansions:     expansions,
	}
	e.cache.set(key, resp)
	return resp, nil
}

// SearchChunks runs a bare preprocess-embed-vector-search, skipping graph
// enrichment, related-files, context assembly, and the result cache — a
// lighter-weight sibling of Query for callers that only want ranked chunk
// text.
func (e *Engine) SearchChunks(ctx context.Context, text string, nResults int, fileName string) ([]vectorstore.Result, error) {
	if nResults <= 0 {
		nResults = e.cfg.DefaultNResults
	}
	preprocessed := e.preprocessor.Process(text)
	vec, err := e.embedder.Embed(ctx, preprocessed)
	if err != nil {
		log.Printf("query: embed failed: %v", err)
		return nil, nil
	}
	results, err := e.vectors.Query(ctx, e.collection, vec, nResults, nil, fileName)
	if err != nil {
		log.Printf("query: vector search failed: %v", err)
		return nil, nil
	}
	return results, nil
}

// enrichGraph attaches each result's outgoing edges and their target nodes.
// A result's id is also its graph node id (chunking assigns both from the
// same ChunkID).
func (e *Engine) enrichGraph(results []EnrichedResult) {
	if e.graph == nil {
		return
	}
	loaded := make(map[string]bool) // file paths already confirmed present in the graph
	for i := range results {
		r := &results[i]
		filePath := r.Metadata["file_path"]
		if filePath != "" && !loaded[filePath] {
			if _, err := e.graph.NodesByFilePath(filePath); err != nil {
				log.Printf("query: nodes_by_file_path %s: %v", filePath, err)
			}
			loaded[filePath] = true
		}

		edges, err := e.graph.EdgesFor(r.ID, "")
		if err != nil {
			log.Printf("query: edges_for %s: %v", r.ID, err)
			continue
		}
		for _, edge := range edges {
			target, err := e.graph.NodeByID(edge.TargetID)
			if err != nil {
				log.Printf("query: node_by_id %s: %v", edge.TargetID, err)
				continue
			}
			if target == nil {
				target = &model.GraphNode{ID: edge.TargetID, Metadata: map[string]string{"group": "external"}}
			}
			r.GraphRelationships = append(r.GraphRelationships, GraphRelationship{
				RelationType: edge.RelationType,
				NeighborID:   edge.TargetID,
				NeighborNode: target,
			})
		}
	}
}

// enrichRelatedFiles computes the legacy related-files heuristic for every
// result by indexing the project's current chunk texts and matching each
// result's imports/references against them.
func (e *Engine) enrichRelatedFiles(ctx context.Context, results []EnrichedResult) error {
	if len(results) == 0 {
		return nil
	}

	all, err := e.vectors.Get(ctx, e.collection, nil, 0, 0)
	if err != nil {
		return err
	}
	docs := make([]chunkDoc, 0, len(all))
	for _, d := range all {
		docs = append(docs, chunkDoc{id: d.ID, filePath: d.Metadata["file_path"], text: d.Text})
	}

	for i := range results {
		r := &results[i]
		refs := append(parseReferenceList(r.Metadata["imports"]), parseReferenceList(r.Metadata["references"])...)
		found, err := relatedFiles(docs, refs, r.Metadata["file_path"])
		if err != nil {
			return err
		}
		r.RelatedFiles = found
	}
	return nil
}
