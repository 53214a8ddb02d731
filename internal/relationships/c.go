package relationships

import (
	"github.com/augmentorium/augmentorium/internal/model"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

func extractC(source []byte, tree *sitter.Tree) []model.Reference {
	var refs []model.Reference
	walk(tree.RootNode(), func(n *sitter.Node) bool {
		switch n.Kind() {
		case "preproc_include":
			for i := 0; i < int(n.ChildCount()); i++ {
				child := n.Child(uint(i))
				if child.Kind() == "string_literal" || child.Kind() == "system_lib_string" {
					refs = append(refs, model.Reference{Target: stripQuotes(nodeText(child, source)), Type: "include"})
				}
			}
			return false
		case "class_specifier":
			for i := 0; i < int(n.ChildCount()); i++ {
				if child := n.Child(uint(i)); child.Kind() == "base_class_clause" {
					walk(child, func(base *sitter.Node) bool {
						if base.Kind() == "type_identifier" {
							refs = append(refs, model.Reference{Target: nodeText(base, source), Type: "inherits"})
						}
						return true
					})
				}
			}
		}
		return true
	})
	return refs
}
