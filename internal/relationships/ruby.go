package relationships

import (
	"github.com/augmentorium/augmentorium/internal/model"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

func extractRuby(source []byte, tree *sitter.Tree) []model.Reference {
	var refs []model.Reference
	walk(tree.RootNode(), func(n *sitter.Node) bool {
		if n.Kind() != "call" {
			return true
		}
		method := n.ChildByFieldName("method")
		if method == nil {
			return true
		}
		switch nodeText(method, source) {
		case "require", "require_relative", "load":
		default:
			return true
		}
		arg := n.ChildByFieldName("argument")
		if arg == nil {
			if args := n.ChildByFieldName("arguments"); args != nil && args.ChildCount() > 0 {
				arg = args.Child(0)
			}
		}
		if arg != nil && arg.Kind() == "string" {
			refs = append(refs, model.Reference{Target: stripQuotes(nodeText(arg, source)), Type: "import"})
		}
		return true
	})
	return refs
}
