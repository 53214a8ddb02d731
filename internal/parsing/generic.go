package parsing

import (
	"github.com/augmentorium/augmentorium/internal/grammar"
	"github.com/augmentorium/augmentorium/internal/model"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// genericExtractor covers languages with no dedicated structure extractor:
// imports only; body chunks come from the sliding-window strategy. It
// never descends into class/function bodies — the module node it returns
// carries only an import list, so callers fall back to sliding-window
// chunking for everything else in the file.
type genericExtractor struct {
	lang grammar.Language
}

// importNodeKinds lists the tree-sitter node kind(s) that represent an
// import/include/use statement at the top of each grammar this extractor
// covers. Languages without a tree-sitter binding in the registry never
// reach Extract (Parse fails with ErrUnavailable first), so they are absent
// here; the relationship extractor handles them as a no-op.
var importNodeKinds = map[grammar.Language][]string{
	grammar.Java: {"import_declaration"},
	grammar.C:    {"preproc_include"},
	grammar.Cpp:  {"preproc_include"},
	grammar.PHP:  {"namespace_use_declaration"},
	grammar.Ruby: {"call"}, // require/require_relative surface as bare call nodes; filtered by name below
	grammar.Rust: {"use_declaration"},
}

func (g genericExtractor) Extract(source []byte, tree *sitter.Tree) *model.CodeStructure {
	root := tree.RootNode()
	start, end := lineRange(root)

	kinds := importNodeKinds[g.lang]
	kindSet := make(map[string]struct{}, len(kinds))
	for _, k := range kinds {
		kindSet[k] = struct{}{}
	}

	module := &model.CodeStructure{
		NodeType:  model.NodeModule,
		StartLine: start,
		EndLine:   end,
	}

	walk(root, func(n *sitter.Node) bool {
		if _, ok := kindSet[n.Kind()]; !ok {
			return true
		}
		if g.lang == grammar.Ruby && !isRubyRequireCall(n, source) {
			return true
		}
		module.Imports = append(module.Imports, nodeText(n, source))
		return g.lang != grammar.Ruby // require calls can nest arguments; import/use nodes are leaves
	})
	return module
}

// isRubyRequireCall reports whether a "call" node is a bare require or
// require_relative invocation, e.g. `require "json"`.
func isRubyRequireCall(n *sitter.Node, source []byte) bool {
	method := n.ChildByFieldName("method")
	if method == nil {
		return false
	}
	name := nodeText(method, source)
	return name == "require" || name == "require_relative"
}
