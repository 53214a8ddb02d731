// Package graphstore implements the Graph Store Adapter (C8): a relational
// schema (nodes, edges) with lookup helpers, over database/sql and
// mattn/go-sqlite3, following a transactional per-file rewrite idiom.
package graphstore

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dominikbraun/graph"
	_ "github.com/mattn/go-sqlite3"

	"github.com/augmentorium/augmentorium/internal/model"
)

// Store wraps one project's code_graph.db.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite database at path and
// applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("graphstore: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1) // sqlite3 driver is not safe for concurrent writers

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// UpsertNode inserts or replaces a graph node.
func (s *Store) UpsertNode(node model.GraphNode) error {
	meta, err := json.Marshal(node.Metadata)
	if err != nil {
		return fmt.Errorf("graphstore: marshal node metadata: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO nodes (id, type, name, file_path, start_line, end_line, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type, name = excluded.name, file_path = excluded.file_path,
			start_line = excluded.start_line, end_line = excluded.end_line, metadata = excluded.metadata
	`, node.ID, node.Type, node.Name, node.FilePath, node.StartLine, node.EndLine, string(meta))
	if err != nil {
		return fmt.Errorf("graphstore: upsert node %s: %w", node.ID, err)
	}
	return nil
}

// InsertEdge inserts a directed, typed edge. Target nodes are not required
// to exist yet — unresolved references are materialized lazily on read.
func (s *Store) InsertEdge(edge model.GraphEdge) error {
	meta, err := json.Marshal(edge.Metadata)
	if err != nil {
		return fmt.Errorf("graphstore: marshal edge metadata: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO edges (source_id, target_id, relation_type, metadata)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(source_id, target_id, relation_type) DO UPDATE SET metadata = excluded.metadata
	`, edge.SourceID, edge.TargetID, edge.RelationType, string(meta))
	if err != nil {
		return fmt.Errorf("graphstore: insert edge %s->%s: %w", edge.SourceID, edge.TargetID, err)
	}
	return nil
}

// DeleteNode removes a node and every edge incident to it, in either
// direction. The foreign key on edges.source_id cascades automatically;
// edges.target_id has none (targets may be unresolved external
// references), so those are removed explicitly.
func (s *Store) DeleteNode(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("graphstore: begin delete transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM edges WHERE target_id = ?", id); err != nil {
		return fmt.Errorf("graphstore: delete incoming edges for %s: %w", id, err)
	}
	if _, err := tx.Exec("DELETE FROM nodes WHERE id = ?", id); err != nil {
		return fmt.Errorf("graphstore: delete node %s: %w", id, err)
	}
	return tx.Commit()
}

// EdgesFor returns edges whose source_id is id, optionally filtered to one
// relation type.
func (s *Store) EdgesFor(id string, relationType string) ([]model.GraphEdge, error) {
	query := "SELECT source_id, target_id, relation_type, metadata FROM edges WHERE source_id = ?"
	args := []any{id}
	if relationType != "" {
		query += " AND relation_type = ?"
		args = append(args, relationType)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("graphstore: edges_for %s: %w", id, err)
	}
	defer rows.Close()
	return scanEdges(rows)
}

// EdgesTo returns edges whose target_id is id, optionally filtered to one
// relation type.
func (s *Store) EdgesTo(id string, relationType string) ([]model.GraphEdge, error) {
	query := "SELECT source_id, target_id, relation_type, metadata FROM edges WHERE target_id = ?"
	args := []any{id}
	if relationType != "" {
		query += " AND relation_type = ?"
		args = append(args, relationType)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("graphstore: edges_to %s: %w", id, err)
	}
	defer rows.Close()
	return scanEdges(rows)
}

// NodeByID returns a single node, or (nil, nil) if it does not exist.
func (s *Store) NodeByID(id string) (*model.GraphNode, error) {
	row := s.db.QueryRow("SELECT id, type, name, file_path, start_line, end_line, metadata FROM nodes WHERE id = ?", id)
	node, err := scanNode(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("graphstore: node_by_id %s: %w", id, err)
	}
	return node, nil
}

// NodesByFilePath returns every node belonging to filePath.
func (s *Store) NodesByFilePath(filePath string) ([]model.GraphNode, error) {
	rows, err := s.db.Query("SELECT id, type, name, file_path, start_line, end_line, metadata FROM nodes WHERE file_path = ?", filePath)
	if err != nil {
		return nil, fmt.Errorf("graphstore: nodes_by_file_path %s: %w", filePath, err)
	}
	defer rows.Close()

	var nodes []model.GraphNode
	for rows.Next() {
		n, err := scanNodeRows(rows)
		if err != nil {
			return nil, fmt.Errorf("graphstore: scan node: %w", err)
		}
		nodes = append(nodes, *n)
	}
	return nodes, rows.Err()
}

// ReindexFile replaces every node and edge belonging to filePath with the
// given set, transactionally.
func (s *Store) ReindexFile(filePath string, nodes []model.GraphNode, edges []model.GraphEdge) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("graphstore: begin reindex transaction: %w", err)
	}
	defer tx.Rollback()

	existing, err := tx.Query("SELECT id FROM nodes WHERE file_path = ?", filePath)
	if err != nil {
		return fmt.Errorf("graphstore: list existing nodes for %s: %w", filePath, err)
	}
	var ids []string
	for existing.Next() {
		var id string
		if err := existing.Scan(&id); err != nil {
			existing.Close()
			return fmt.Errorf("graphstore: scan existing node id: %w", err)
		}
		ids = append(ids, id)
	}
	existing.Close()

	for _, id := range ids {
		if _, err := tx.Exec("DELETE FROM edges WHERE source_id = ? OR target_id = ?", id, id); err != nil {
			return fmt.Errorf("graphstore: delete edges for node %s: %w", id, err)
		}
	}
	if _, err := tx.Exec("DELETE FROM nodes WHERE file_path = ?", filePath); err != nil {
		return fmt.Errorf("graphstore: delete nodes for %s: %w", filePath, err)
	}

	for _, n := range nodes {
		meta, err := json.Marshal(n.Metadata)
		if err != nil {
			return fmt.Errorf("graphstore: marshal node metadata: %w", err)
		}
		if _, err := tx.Exec(`
			INSERT INTO nodes (id, type, name, file_path, start_line, end_line, metadata)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, n.ID, n.Type, n.Name, n.FilePath, n.StartLine, n.EndLine, string(meta)); err != nil {
			return fmt.Errorf("graphstore: insert node %s: %w", n.ID, err)
		}
	}
	for _, e := range edges {
		meta, err := json.Marshal(e.Metadata)
		if err != nil {
			return fmt.Errorf("graphstore: marshal edge metadata: %w", err)
		}
		if _, err := tx.Exec(`
			INSERT INTO edges (source_id, target_id, relation_type, metadata)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(source_id, target_id, relation_type) DO UPDATE SET metadata = excluded.metadata
		`, e.SourceID, e.TargetID, e.RelationType, string(meta)); err != nil {
			return fmt.Errorf("graphstore: insert edge %s->%s: %w", e.SourceID, e.TargetID, err)
		}
	}

	return tx.Commit()
}

// Neighbor is one hop reached from a Neighbors traversal: either an
// outbound edge (nodeID is the source) or an inbound edge (nodeID is the
// target).
type Neighbor struct {
	RelationType string
	Direction    string // "outbound" or "inbound"
	NeighborID   string
	NeighborNode *model.GraphNode
}

type adjacency struct {
	relationType string
	neighborID   string
}

// Neighbors returns every node reachable from nodeID within depth hops,
// following edges in both directions, tagged with the relation type and
// whether the hop was outbound or inbound. Unresolved edge targets are
// materialized as read-only placeholder nodes with metadata["group"] =
// "external" (SPEC_FULL.md's external-node-materialization supplement);
// these placeholders are never persisted back to the database.
//
// Neighbors builds an in-memory dominikbraun/graph graph from the full
// node/edge set on every query and walks it via its own reverse-index maps
// rather than the library's traversal helpers.
func (s *Store) Neighbors(nodeID string, depth int) ([]Neighbor, error) {
	if depth <= 0 {
		depth = 1
	}

	nodes, err := s.allNodes()
	if err != nil {
		return nil, err
	}
	edges, err := s.allEdges()
	if err != nil {
		return nil, err
	}

	g := graph.New(func(n *model.GraphNode) string { return n.ID }, graph.Directed())
	byID := make(map[string]*model.GraphNode, len(nodes))
	for i := range nodes {
		n := &nodes[i]
		byID[n.ID] = n
		_ = g.AddVertex(n)
	}

	materialize := func(id string) {
		if _, ok := byID[id]; ok {
			return
		}
		n := &model.GraphNode{ID: id, Metadata: map[string]string{"group": "external"}}
		byID[id] = n
		_ = g.AddVertex(n)
	}

	out := make(map[string][]adjacency)
	in := make(map[string][]adjacency)
	for _, e := range edges {
		materialize(e.SourceID)
		materialize(e.TargetID)
		_ = g.AddEdge(e.SourceID, e.TargetID) // tolerate duplicate or self edges
		out[e.SourceID] = append(out[e.SourceID], adjacency{e.RelationType, e.TargetID})
		in[e.TargetID] = append(in[e.TargetID], adjacency{e.RelationType, e.SourceID})
	}

	if _, ok := byID[nodeID]; !ok {
		return nil, nil
	}

	type frontier struct {
		id    string
		depth int
	}
	visited := map[string]bool{nodeID: true}
	queue := []frontier{{nodeID, 0}}
	var result []Neighbor

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= depth {
			continue
		}
		for _, a := range out[cur.id] {
			if !visited[a.neighborID] {
				visited[a.neighborID] = true
				queue = append(queue, frontier{a.neighborID, cur.depth + 1})
			}
			result = append(result, Neighbor{RelationType: a.relationType, Direction: "outbound", NeighborID: a.neighborID, NeighborNode: byID[a.neighborID]})
		}
		for _, a := range in[cur.id] {
			if !visited[a.neighborID] {
				visited[a.neighborID] = true
				queue = append(queue, frontier{a.neighborID, cur.depth + 1})
			}
			result = append(result, Neighbor{RelationType: a.relationType, Direction: "inbound", NeighborID: a.neighborID, NeighborNode: byID[a.neighborID]})
		}
	}

	return result, nil
}

// Graph returns every node and edge in the store, with unresolved edge
// targets materialized as external placeholder nodes (same rule as
// Neighbors), for the whole-project graph view.
func (s *Store) Graph() ([]model.GraphNode, []model.GraphEdge, error) {
	nodes, err := s.allNodes()
	if err != nil {
		return nil, nil, err
	}
	edges, err := s.allEdges()
	if err != nil {
		return nil, nil, err
	}

	byID := make(map[string]*model.GraphNode, len(nodes))
	for i := range nodes {
		byID[nodes[i].ID] = &nodes[i]
	}
	materialize := func(id string) {
		if _, ok := byID[id]; ok {
			return
		}
		n := &model.GraphNode{ID: id, Metadata: map[string]string{"group": "external"}}
		byID[id] = n
		nodes = append(nodes, *n)
	}
	for _, e := range edges {
		materialize(e.SourceID)
		materialize(e.TargetID)
	}

	return nodes, edges, nil
}

func (s *Store) allNodes() ([]model.GraphNode, error) {
	rows, err := s.db.Query("SELECT id, type, name, file_path, start_line, end_line, metadata FROM nodes")
	if err != nil {
		return nil, fmt.Errorf("graphstore: list nodes: %w", err)
	}
	defer rows.Close()

	var nodes []model.GraphNode
	for rows.Next() {
		n, err := scanNodeRows(rows)
		if err != nil {
			return nil, fmt.Errorf("graphstore: scan node: %w", err)
		}
		nodes = append(nodes, *n)
	}
	return nodes, rows.Err()
}

func (s *Store) allEdges() ([]model.GraphEdge, error) {
	rows, err := s.db.Query("SELECT source_id, target_id, relation_type, metadata FROM edges")
	if err != nil {
		return nil, fmt.Errorf("graphstore: list edges: %w", err)
	}
	defer rows.Close()
	return scanEdges(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNode(s rowScanner) (*model.GraphNode, error) {
	return scanNodeRows(s)
}

func scanNodeRows(s rowScanner) (*model.GraphNode, error) {
	var n model.GraphNode
	var meta string
	if err := s.Scan(&n.ID, &n.Type, &n.Name, &n.FilePath, &n.StartLine, &n.EndLine, &meta); err != nil {
		return nil, err
	}
	n.Metadata = map[string]string{}
	if meta != "" {
		if err := json.Unmarshal([]byte(meta), &n.Metadata); err != nil {
			return nil, fmt.Errorf("graphstore: unmarshal node metadata: %w", err)
		}
	}
	return &n, nil
}

func scanEdges(rows *sql.Rows) ([]model.GraphEdge, error) {
	var edges []model.GraphEdge
	for rows.Next() {
		var e model.GraphEdge
		var meta string
		if err := rows.Scan(&e.SourceID, &e.TargetID, &e.RelationType, &meta); err != nil {
			return nil, fmt.Errorf("graphstore: scan edge: %w", err)
		}
		e.Metadata = map[string]string{}
		if meta != "" {
			if err := json.Unmarshal([]byte(meta), &e.Metadata); err != nil {
				return nil, fmt.Errorf("graphstore: unmarshal edge metadata: %w", err)
			}
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}
