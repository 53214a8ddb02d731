package relationships

import (
	"github.com/augmentorium/augmentorium/internal/model"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

func extractJava(source []byte, tree *sitter.Tree) []model.Reference {
	var refs []model.Reference
	walk(tree.RootNode(), func(n *sitter.Node) bool {
		switch n.Kind() {
		case "import_declaration":
			for i := 0; i < int(n.ChildCount()); i++ {
				if child := n.Child(uint(i)); child.Kind() == "scoped_identifier" {
					refs = append(refs, model.Reference{Target: nodeText(child, source), Type: "import"})
				}
			}
			return false
		case "class_declaration":
			if super := n.ChildByFieldName("superclass"); super != nil {
				walk(super, func(base *sitter.Node) bool {
					if base.Kind() == "type_identifier" {
						refs = append(refs, model.Reference{Target: nodeText(base, source), Type: "inherits"})
					}
					return true
				})
			}
		}
		return true
	})
	return refs
}
