package parsing

import (
	"strings"

	"github.com/augmentorium/augmentorium/internal/model"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// jsExtractor extracts JS/TS/TSX/JSX structure: class_declaration and
// function_declaration/generator_function_declaration; class
// method_definition becomes a method.
type jsExtractor struct{}

func (jsExtractor) Extract(source []byte, tree *sitter.Tree) *model.CodeStructure {
	root := tree.RootNode()
	start, end := lineRange(root)

	module := &model.CodeStructure{
		NodeType:  model.NodeModule,
		StartLine: start,
		EndLine:   end,
		Imports:   collectJSImports(root, source),
	}

	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(uint(i))
		switch child.Kind() {
		case "class_declaration":
			module.Children = append(module.Children, jsClass(child, source))
		case "function_declaration", "generator_function_declaration":
			module.Children = append(module.Children, jsFunction(child, source, model.NodeFunction))
		}
	}
	return module
}

func collectJSImports(root *sitter.Node, source []byte) []string {
	var imports []string
	walk(root, func(n *sitter.Node) bool {
		if n.Kind() == "import_statement" {
			imports = append(imports, nodeText(n, source))
			return false
		}
		return true
	})
	return imports
}

func jsClass(node *sitter.Node, source []byte) *model.CodeStructure {
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
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(uint(i))
		if child.Kind() == "method_definition" {
			cls.Children = append(cls.Children, jsFunction(child, source, model.NodeMethod))
		}
	}
	return cls
}

func jsFunction(node *sitter.Node, source []byte, kind model.NodeType) *model.CodeStructure {
	nameNode := node.ChildByFieldName("name")
	start, end := lineRange(node)
	return &model.CodeStructure{
		NodeType:  kind,
		Name:      strings.TrimSpace(nodeText(nameNode, source)),
		StartLine: start,
		EndLine:   end,
	}
}
