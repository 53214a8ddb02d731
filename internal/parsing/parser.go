// Package parsing implements the Parser & Structure Extractor (C4): for
// each supported language it builds a model.CodeStructure tree by
// pattern-matching on concrete tree-sitter node types, following a
// walkTree / extractLines idiom, generalized from a three-tier
// symbols/definitions/data extraction to a module/class/function/method
// CodeStructure tree.
package parsing

import (
	"strings"

	"github.com/augmentorium/augmentorium/internal/grammar"
	"github.com/augmentorium/augmentorium/internal/model"
	"github.com/augmentorium/augmentorium/internal/relationships"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Extractor produces a CodeStructure tree (with the file's flat import list
// on its module node) from a parsed file. Implementations are read-only
// over the parse tree.
type Extractor interface {
	Extract(source []byte, tree *sitter.Tree) *model.CodeStructure
}

// registry maps a grammar.Language to its structure Extractor. Languages not
// present here get the generic imports-only extractor.
var registry = map[grammar.Language]Extractor{
	grammar.Python:     pythonExtractor{},
	grammar.JavaScript: jsExtractor{},
	grammar.TypeScript: jsExtractor{},
	grammar.TSX:        jsExtractor{},
}

// ExtractorFor returns the structure extractor for lang, falling back to a
// generic imports-only extractor.
func ExtractorFor(lang grammar.Language) Extractor {
	if e, ok := registry[lang]; ok {
		return e
	}
	return genericExtractor{lang: lang}
}

// Parse runs lang's tree-sitter parser over source and returns the root
// CodeStructure. Returns (nil, err) if the parse tree is nil (ParseFailure);
// callers downgrade to plaintext chunking.
func Parse(reg *grammar.Registry, lang grammar.Language, source []byte) (*model.CodeStructure, error) {
	handle, err := reg.Load(lang)
	if err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(handle); err != nil {
		return nil, err
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, errParseFailed{lang: lang}
	}
	defer tree.Close()

	extractor := ExtractorFor(lang)
	root := extractor.Extract(source, tree)
	return root, nil
}

// ParseForIndexing parses source once and returns both the CodeStructure
// tree (C4) and the relationship list (C6) extracted from the same parse
// tree, so the Indexer does not pay for two parses per file.
func ParseForIndexing(reg *grammar.Registry, lang grammar.Language, source []byte) (*model.CodeStructure, []model.Reference, error) {
	handle, err := reg.Load(lang)
	if err != nil {
		return nil, nil, err
	}

	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(handle); err != nil {
		return nil, nil, err
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, nil, errParseFailed{lang: lang}
	}
	defer tree.Close()

	extractor := ExtractorFor(lang)
	root := extractor.Extract(source, tree)
	refs := relationships.Extract(lang, source, tree)
	return root, refs, nil
}

type errParseFailed struct{ lang grammar.Language }

func (e errParseFailed) Error() string { return "parsing: parser produced no tree for " + string(e.lang) }

// nodeText extracts the text of a tree-sitter node.
func nodeText(n *sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	return string(source[n.StartByte():n.EndByte()])
}

// lineRange returns the 1-indexed [start,end] line range of n.
func lineRange(n *sitter.Node) (int, int) {
	return int(n.StartPosition().Row) + 1, int(n.EndPosition().Row) + 1
}

// sliceLines extracts source lines [start,end] inclusive, 1-indexed.
func sliceLines(lines []string, start, end int) string {
	if start < 1 || end < 1 || start > len(lines) {
		return ""
	}
	s := start - 1
	e := end
	if e > len(lines) {
		e = len(lines)
	}
	return strings.Join(lines[s:e], "\n")
}

// walk recursively visits node and its descendants, depth-first; visitor
// returns false to skip the subtree rooted at node.
func walk(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}
	if !visitor(node) {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		walk(node.Child(uint(i)), visitor)
	}
}
