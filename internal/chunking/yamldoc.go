package chunking

import (
	"strings"

	"github.com/augmentorium/augmentorium/internal/model"
)

// YAMLDocument implements the YAML-document strategy: split on lines equal
// to "---"; empty documents are skipped.
func YAMLDocument(filePath, language string, source []byte) []model.CodeChunk {
	lines := strings.Split(string(source), "\n")

	var chunks []model.CodeChunk
	docStart := 1
	flush := func(end int) {
		text := sliceLines(lines, docStart, end)
		if strings.TrimSpace(text) == "" {
			return
		}
		id := ChunkID(filePath, "", model.NodeYAMLDocument, docStart, end)
		chunks = append(chunks, model.CodeChunk{
			ID:        id,
			Text:      text,
			FilePath:  filePath,
			StartLine: docStart,
			EndLine:   end,
			Language:  language,
			NodeType:  model.NodeYAMLDocument,
		})
	}

	for i, line := range lines {
		lineNo := i + 1
		if strings.TrimRight(line, "\r") == "---" {
			flush(lineNo - 1)
			docStart = lineNo + 1
		}
	}
	flush(len(lines))
	return chunks
}
