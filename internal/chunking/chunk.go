// Package chunking implements the Chunking Strategies component (C5): a
// polymorphic chunk_file contract over {AST, sliding-window, JSON-object,
// YAML-document, Markdown-section, plaintext}, following a
// line-tracking/paragraph-splitting
// idiom, generalized from documentation-only chunking to the full strategy
// set the structural indexer needs.
package chunking

import (
	"crypto/sha1"
	"encoding/hex"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/augmentorium/augmentorium/internal/model"
)

// Options bundles the sliding-window parameters; all
// sizes are in characters.
type Options struct {
	MaxChunkSize int
	Overlap      int
	MinChunkSize int
}

// DefaultOptions mirrors common chunker defaults, scaled from tokens to
// characters (roughly 4 characters per token).
var DefaultOptions = Options{
	MaxChunkSize: 2000,
	Overlap:      200,
	MinChunkSize: 50,
}

// ChunkID computes the deterministic chunk id from (basename(file), name?,
// node_type, start_line, end_line).
func ChunkID(filePath, name string, nodeType model.NodeType, startLine, endLine int) string {
	base := filepath.Base(filePath)
	key := strings.Join([]string{
		base, name, string(nodeType), strconv.Itoa(startLine), strconv.Itoa(endLine),
	}, "\x1f")
	sum := sha1.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}

// sliceLines returns lines[start..end] inclusive, 1-indexed and clamped.
func sliceLines(lines []string, start, end int) string {
	if start < 1 {
		start = 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start > end || start > len(lines) {
		return ""
	}
	return strings.Join(lines[start-1:end], "\n")
}

// Flatten turns a CodeStructure's scalar-ish fields into the metadata map a
// chunk carries into the vector store.
func Flatten(imports []string, refs []model.Reference, extra map[string]string) map[string]string {
	meta := make(map[string]string, len(extra)+2)
	for k, v := range extra {
		meta[k] = v
	}
	meta["imports"] = joinOrEmpty(imports)

	refStrs := make([]string, len(refs))
	for i, r := range refs {
		refStrs[i] = r.Type + ":" + r.Target
	}
	meta["references"] = joinOrEmpty(refStrs)
	return meta
}

func joinOrEmpty(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return strings.Join(items, ", ")
}
