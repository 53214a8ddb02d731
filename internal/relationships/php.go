package relationships

import (
	"github.com/augmentorium/augmentorium/internal/model"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

func extractPHP(source []byte, tree *sitter.Tree) []model.Reference {
	var refs []model.Reference
	walk(tree.RootNode(), func(n *sitter.Node) bool {
		switch n.Kind() {
		case "namespace_use_declaration":
			walk(n, func(child *sitter.Node) bool {
				if child.Kind() == "namespace_name" {
					refs = append(refs, model.Reference{Target: nodeText(child, source), Type: "import"})
				}
				return true
			})
			return false
		case "require_expression", "require_once_expression", "include_expression", "include_once_expression":
			for i := 0; i < int(n.ChildCount()); i++ {
				if child := n.Child(uint(i)); child.Kind() == "string" {
					refs = append(refs, model.Reference{Target: stripQuotes(nodeText(child, source)), Type: "import"})
				}
			}
			return false
		}
		return true
	})
	return refs
}
