package chunking

import (
	"strings"

	"github.com/augmentorium/augmentorium/internal/model"
)

// AST emits one CodeChunk per CodeStructure node (module, class, function,
// method), recording the parent chunk id on children.
// Text is the source sliced by start_line..=end_line inclusive.
func AST(filePath, language string, source []byte, root *model.CodeStructure) []model.CodeChunk {
	lines := strings.Split(string(source), "\n")
	var chunks []model.CodeChunk
	walkStructure(root, "", filePath, language, lines, &chunks)
	return chunks
}

func walkStructure(node *model.CodeStructure, parentID, filePath, language string, lines []string, out *[]model.CodeChunk) {
	id := ChunkID(filePath, node.Name, node.NodeType, node.StartLine, node.EndLine)
	chunk := model.CodeChunk{
		ID:            id,
		Text:          sliceLines(lines, node.StartLine, node.EndLine),
		FilePath:      filePath,
		StartLine:     node.StartLine,
		EndLine:       node.EndLine,
		Name:          node.Name,
		Language:      language,
		ParentChunkID: parentID,
		NodeType:      node.NodeType,
		Docstring:     node.Docstring,
		Imports:       node.Imports,
		References:    node.References,
	}
	*out = append(*out, chunk)

	for _, child := range node.Children {
		walkStructure(child, id, filePath, language, lines, out)
	}
}
