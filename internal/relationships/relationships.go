// Package relationships implements the Relationship Extractor (C6): for
// each supported language it walks a parsed tree depth-first and yields
// typed {target, type} edges (import, include, inherits, ...), following
// a walk-and-match tree-sitter idiom with per-language extraction rules,
// adjusted to this system's target-string convention: an import statement's
// target is its full source text, and a from-style import's target is the
// composed "module.name" form.
package relationships

import (
	"strings"

	"github.com/augmentorium/augmentorium/internal/grammar"
	"github.com/augmentorium/augmentorium/internal/model"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

type extractorFunc func(source []byte, tree *sitter.Tree) []model.Reference

var registry = map[grammar.Language]extractorFunc{
	grammar.Python:     extractPython,
	grammar.JavaScript: extractJS,
	grammar.TypeScript: extractJS,
	grammar.TSX:        extractJS,
	grammar.Java:       extractJava,
	grammar.C:          extractC,
	grammar.Cpp:        extractC,
	grammar.PHP:        extractPHP,
	grammar.Ruby:       extractRuby,
	grammar.Rust:       extractRust,
}

// Extract returns the relationships for lang's tree. Languages with no
// registered extractor (no grammar binding available, or the tree is nil
// because parsing failed) yield an empty slice rather than an error — the
// chunker must not fail on a missing relationship set.
func Extract(lang grammar.Language, source []byte, tree *sitter.Tree) []model.Reference {
	if tree == nil {
		return nil
	}
	fn, ok := registry[lang]
	if !ok {
		return nil
	}
	return fn(source, tree)
}

func nodeText(n *sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	return string(source[n.StartByte():n.EndByte()])
}

func walk(node *sitter.Node, visit func(*sitter.Node) bool) {
	if node == nil {
		return
	}
	if !visit(node) {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		walk(node.Child(uint(i)), visit)
	}
}

func stripQuotes(s string) string {
	s = strings.TrimSpace(s)
	return strings.Trim(s, `"'<>`)
}
