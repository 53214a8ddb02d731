// Package model holds the data types shared across augmentorium's
// components, so that chunking, storage,
// and query packages can depend on a common vocabulary without importing
// each other.
package model

import "time"

// Project is a registered code tree: a
// unique name bound to an absolute root path.
type Project struct {
	Name string
	Root string
}

// EventKind is the kind of filesystem change that produced a FileEvent.
type EventKind string

const (
	EventCreated  EventKind = "created"
	EventModified EventKind = "modified"
	EventDeleted  EventKind = "deleted"
	EventMoved    EventKind = "moved"
)

// FileEvent is a single filesystem change, normalized by the watcher before
// it reaches the indexer. Moves are expanded into deleted(src)+created(dst)
// before they are queued — see watcher.Dispatcher.
type FileEvent struct {
	ID          string
	Kind        EventKind
	Path        string
	IsDirectory bool
	ProjectRoot string
	ProjectName string
	Timestamp   time.Time
}

// NodeType enumerates the kinds of CodeStructure / CodeChunk node.
type NodeType string

const (
	NodeModule          NodeType = "module"
	NodeClass           NodeType = "class"
	NodeFunction        NodeType = "function"
	NodeMethod          NodeType = "method"
	NodePlaintext       NodeType = "plaintext"
	NodeJSONObject      NodeType = "json_object"
	NodeJSONArrayItem   NodeType = "json_array_item"
	NodeYAMLDocument    NodeType = "yaml_document"
	NodeMarkdownSection NodeType = "markdown_section"
	NodeMarkdownDoc     NodeType = "markdown_document"
	NodeSlidingWindow   NodeType = "sliding_window"
)

// Reference is a single relationship record produced by the Relationship
// Extractor (C6): a typed, directed edge from the owning chunk/node to a
// textual target that has not yet been resolved to a chunk id.
type Reference struct {
	Target string
	Type   string // import, include, inherits, references, source, ...
}

// CodeStructure is the transient tree produced by the Parser & Structure
// Extractor (C4) before chunk materialization.
type CodeStructure struct {
	NodeType   NodeType
	Name       string
	StartLine  int
	EndLine    int
	Docstring  string
	Imports    []string
	References []Reference
	Metadata   map[string]string
	Children   []*CodeStructure
}

// CodeChunk is the persisted unit written to the vector store.
type CodeChunk struct {
	ID            string
	Text          string
	FilePath      string
	StartLine     int
	EndLine       int
	Name          string
	Language      string
	ParentChunkID string
	NodeType      NodeType
	Docstring     string

	Imports    []string
	References []Reference

	// Metadata is the flattened scalar map written to the vector store.
	// Populated by the Indexer from the fields above plus file stats —
	// see chunking.Flatten.
	Metadata map[string]string
}

// FileStats are the filesystem facts the Indexer stamps onto every chunk of
// a file.
type FileStats struct {
	FileName     string
	FileSize     int64
	LastModified time.Time
}

// GraphNode is one structural element (function, class, method) in the
// call/reference graph.
type GraphNode struct {
	ID        string
	Type      string
	Name      string
	FilePath  string
	StartLine int
	EndLine   int
	Metadata  map[string]string
}

// GraphEdge is one directed, typed relationship between two graph nodes.
type GraphEdge struct {
	SourceID     string
	TargetID     string
	RelationType string
	Metadata     map[string]string
}

// IndexerState is the lifecycle state of a per-project indexer.
type IndexerState string

const (
	StateIdle      IndexerState = "idle"
	StateIndexing  IndexerState = "indexing"
	StateError     IndexerState = "error"
)

// IndexerStatus is a project's indexing lifecycle snapshot.
type IndexerStatus struct {
	Name        string
	Path        string
	State       IndexerState
	LastIndexed *time.Time
	SizeBytes   int64
	Error       string
}
