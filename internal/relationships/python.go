package relationships

import (
	"github.com/augmentorium/augmentorium/internal/model"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// extractPython walks import and class-definition statements: `import os`
// yields target "import os" (the statement's own text); `from a import b`
// yields target "a.b" (module plus imported name). Class bases become
// "inherits" edges.
func extractPython(source []byte, tree *sitter.Tree) []model.Reference {
	var refs []model.Reference
	walk(tree.RootNode(), func(n *sitter.Node) bool {
		switch n.Kind() {
		case "import_statement":
			refs = append(refs, model.Reference{Target: nodeText(n, source), Type: "import"})
			return false
		case "import_from_statement":
			refs = append(refs, pythonFromImportRefs(n, source)...)
			return false
		case "class_definition":
			refs = append(refs, pythonBaseRefs(n, source)...)
		}
		return true
	})
	return refs
}

func pythonFromImportRefs(n *sitter.Node, source []byte) []model.Reference {
	var module string
	var names []string
	collectName := func(child *sitter.Node) {
		switch child.Kind() {
		case "wildcard_import":
			names = append(names, "*")
		case "aliased_import":
			if name := child.ChildByFieldName("name"); name != nil {
				names = append(names, nodeText(name, source))
			}
		case "identifier":
			names = append(names, nodeText(child, source))
		}
	}

	moduleSeen := false
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(uint(i))
		switch child.Kind() {
		case "dotted_name", "relative_import":
			if !moduleSeen {
				module = nodeText(child, source)
				moduleSeen = true
				continue
			}
			names = append(names, nodeText(child, source))
		case "import_list":
			for j := 0; j < int(child.ChildCount()); j++ {
				collectName(child.Child(uint(j)))
			}
		default:
			collectName(child)
		}
	}
	if module == "" {
		return nil
	}
	if len(names) == 0 {
		return []model.Reference{{Target: module, Type: "import"}}
	}
	refs := make([]model.Reference, 0, len(names))
	for _, name := range names {
		refs = append(refs, model.Reference{Target: module + "." + name, Type: "import"})
	}
	return refs
}

func pythonBaseRefs(n *sitter.Node, source []byte) []model.Reference {
	var refs []model.Reference
	argList := n.ChildByFieldName("superclasses")
	if argList == nil {
		return nil
	}
	for i := 0; i < int(argList.ChildCount()); i++ {
		base := argList.Child(uint(i))
		if base.Kind() == "identifier" {
			refs = append(refs, model.Reference{Target: nodeText(base, source), Type: "inherits"})
		}
	}
	return refs
}
