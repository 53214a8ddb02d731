package graphstore

import (
	"database/sql"
	"fmt"
)

// createSchema builds the two-table relational schema (nodes, edges) this
// store needs. A foreign key with ON DELETE CASCADE on edges.source_id
// removes a deleted node's outgoing edges; edges pointing at it carry no
// foreign key and are removed explicitly by DeleteNode.
func createSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("graphstore: begin schema transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("graphstore: enable foreign keys: %w", err)
	}

	statements := []string{
		createNodesTable,
		createEdgesTable,
		"CREATE INDEX IF NOT EXISTS idx_nodes_file_path ON nodes(file_path)",
		"CREATE INDEX IF NOT EXISTS idx_edges_source_id ON edges(source_id)",
		"CREATE INDEX IF NOT EXISTS idx_edges_target_id ON edges(target_id)",
		"CREATE INDEX IF NOT EXISTS idx_edges_relation_type ON edges(relation_type)",
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("graphstore: apply schema statement %q: %w", stmt, err)
		}
	}

	return tx.Commit()
}

const createNodesTable = `
CREATE TABLE IF NOT EXISTS nodes (
    id         TEXT PRIMARY KEY,
    type       TEXT NOT NULL,
    name       TEXT NOT NULL DEFAULT '',
    file_path  TEXT NOT NULL DEFAULT '',
    start_line INTEGER NOT NULL DEFAULT 0,
    end_line   INTEGER NOT NULL DEFAULT 0,
    metadata   TEXT NOT NULL DEFAULT '{}'
)
`

const createEdgesTable = `
CREATE TABLE IF NOT EXISTS edges (
    source_id     TEXT NOT NULL,
    target_id     TEXT NOT NULL,
    relation_type TEXT NOT NULL,
    metadata      TEXT NOT NULL DEFAULT '{}',
    PRIMARY KEY (source_id, target_id, relation_type),
    FOREIGN KEY (source_id) REFERENCES nodes(id) ON DELETE CASCADE
)
`
