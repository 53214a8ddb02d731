package parsing

import (
	"strings"

	"github.com/augmentorium/augmentorium/internal/model"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// pythonExtractor extracts Python structure: top-level class_definition
// and function_definition (excluding those nested in classes, which become
// methods); docstring is the first string-only expression statement in
// the body with surrounding quotes stripped.
type pythonExtractor struct{}

func (pythonExtractor) Extract(source []byte, tree *sitter.Tree) *model.CodeStructure {
	root := tree.RootNode()
	lines := strings.Split(string(source), "\n")

	start, end := lineRange(root)
	module := &model.CodeStructure{
		NodeType:  model.NodeModule,
		StartLine: start,
		EndLine:   end,
		Imports:   collectPythonImports(root, source),
	}

	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(uint(i))
		switch child.Kind() {
		case "class_definition":
			module.Children = append(module.Children, pythonClass(child, source, lines))
		case "function_definition":
			module.Children = append(module.Children, pythonFunction(child, source, lines, model.NodeFunction))
		}
	}
	return module
}

func collectPythonImports(root *sitter.Node, source []byte) []string {
	var imports []string
	walk(root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "import_statement", "import_from_statement":
			imports = append(imports, nodeText(n, source))
			return false
		}
		return true
	})
	return imports
}

func pythonClass(node *sitter.Node, source []byte, lines []string) *model.CodeStructure {
	nameNode := node.ChildByFieldName("name")
	start, end := lineRange(node)
	cls := &model.CodeStructure{
		NodeType:  model.NodeClass,
		Name:      nodeText(nameNode, source),
		StartLine: start,
		EndLine:   end,
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return cls
	}
	cls.Docstring = firstDocstring(body, source)

	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(uint(i))
		if child.Kind() == "function_definition" {
			cls.Children = append(cls.Children, pythonFunction(child, source, lines, model.NodeMethod))
		}
	}
	return cls
}

func pythonFunction(node *sitter.Node, source []byte, lines []string, kind model.NodeType) *model.CodeStructure {
	nameNode := node.ChildByFieldName("name")
	start, end := lineRange(node)
	fn := &model.CodeStructure{
		NodeType:  kind,
		Name:      nodeText(nameNode, source),
		StartLine: start,
		EndLine:   end,
	}
	if body := node.ChildByFieldName("body"); body != nil {
		fn.Docstring = firstDocstring(body, source)
	}
	return fn
}

// firstDocstring returns the first string-only expression statement in
// body's direct children, with surrounding triple/single quotes stripped.
func firstDocstring(body *sitter.Node, source []byte) string {
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(uint(i))
		if child.Kind() != "expression_statement" {
			// Only the first statement counts; anything else means no docstring.
			return ""
		}
		if child.ChildCount() != 1 {
			return ""
		}
		str := child.Child(0)
		if str.Kind() != "string" {
			return ""
		}
		return stripPythonQuotes(nodeText(str, source))
	}
	return ""
}

func stripPythonQuotes(s string) string {
	for _, q := range []string{`"""`, `'''`} {
		if strings.HasPrefix(s, q) && strings.HasSuffix(s, q) && len(s) >= 2*len(q) {
			return strings.TrimSpace(s[len(q) : len(s)-len(q)])
		}
	}
	for _, q := range []string{`"`, `'`} {
		if strings.HasPrefix(s, q) && strings.HasSuffix(s, q) && len(s) >= 2 {
			return strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return strings.TrimSpace(s)
}
