package relationships

import (
	"github.com/augmentorium/augmentorium/internal/model"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// extractJS covers JavaScript/TypeScript/TSX: ES import statements,
// CommonJS require(...) calls, and class extends clauses.
func extractJS(source []byte, tree *sitter.Tree) []model.Reference {
	var refs []model.Reference
	walk(tree.RootNode(), func(n *sitter.Node) bool {
		switch n.Kind() {
		case "import_statement":
			if target := jsImportSource(n, source); target != "" {
				refs = append(refs, model.Reference{Target: target, Type: "import"})
			}
			return false
		case "call_expression":
			if target := jsRequireArg(n, source); target != "" {
				refs = append(refs, model.Reference{Target: target, Type: "import"})
			}
		case "class_declaration":
			refs = append(refs, jsHeritageRefs(n, source)...)
		}
		return true
	})
	return refs
}

func jsImportSource(n *sitter.Node, source []byte) string {
	src := n.ChildByFieldName("source")
	if src != nil {
		return stripQuotes(nodeText(src, source))
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(uint(i))
		if child.Kind() == "string" {
			return stripQuotes(nodeText(child, source))
		}
	}
	return ""
}

func jsRequireArg(n *sitter.Node, source []byte) string {
	callee := n.ChildByFieldName("function")
	if callee == nil || nodeText(callee, source) != "require" {
		return ""
	}
	args := n.ChildByFieldName("arguments")
	if args == nil {
		return ""
	}
	for i := 0; i < int(args.ChildCount()); i++ {
		arg := args.Child(uint(i))
		if arg.Kind() == "string" {
			return stripQuotes(nodeText(arg, source))
		}
	}
	return ""
}

func jsHeritageRefs(n *sitter.Node, source []byte) []model.Reference {
	var refs []model.Reference
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(uint(i))
		if child.Kind() != "class_heritage" {
			continue
		}
		walk(child, func(base *sitter.Node) bool {
			if base.Kind() == "identifier" {
				refs = append(refs, model.Reference{Target: nodeText(base, source), Type: "inherits"})
			}
			return true
		})
	}
	return refs
}
