package chunking

import (
	"strings"

	"github.com/augmentorium/augmentorium/internal/model"
)

// Plaintext is the fallback strategy: one chunk for the entire file, typed
// plaintext.
func Plaintext(filePath, language string, source []byte) []model.CodeChunk {
	lines := strings.Split(string(source), "\n")
	text := string(source)
	id := ChunkID(filePath, "", model.NodePlaintext, 1, len(lines))
	return []model.CodeChunk{{
		ID:        id,
		Text:      text,
		FilePath:  filePath,
		StartLine: 1,
		EndLine:   len(lines),
		Language:  language,
		NodeType:  model.NodePlaintext,
	}}
}
