package relationships

import (
	"github.com/augmentorium/augmentorium/internal/model"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

func extractRust(source []byte, tree *sitter.Tree) []model.Reference {
	var refs []model.Reference
	walk(tree.RootNode(), func(n *sitter.Node) bool {
		if n.Kind() != "use_declaration" {
			return true
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			child := n.Child(uint(i))
			switch child.Kind() {
			case "scoped_use_list", "use_list":
				walk(child, func(item *sitter.Node) bool {
					if item.Kind() == "scoped_identifier" || item.Kind() == "identifier" {
						refs = append(refs, model.Reference{Target: nodeText(item, source), Type: "import"})
					}
					return true
				})
			case "scoped_identifier", "identifier", "use_as_clause", "use_wildcard":
				refs = append(refs, model.Reference{Target: nodeText(child, source), Type: "import"})
			}
		}
		return false
	})
	return refs
}
