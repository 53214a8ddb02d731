package chunking

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/augmentorium/augmentorium/internal/model"
)

var atxHeaderPattern = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)

// MarkdownSection implements the Markdown-section strategy: split on ATX
// headers; a file without headers yields a single markdown_document chunk.
func MarkdownSection(filePath, language string, source []byte) []model.CodeChunk {
	lines := strings.Split(string(source), "\n")

	type section struct {
		start, end  int
		title       string
		headerLevel int
	}
	var sections []section
	cur := section{start: 1}
	hasHeader := false

	for i, line := range lines {
		lineNo := i + 1
		if m := atxHeaderPattern.FindStringSubmatch(line); m != nil {
			if hasHeader || lineNo > 1 {
				cur.end = lineNo - 1
				sections = append(sections, cur)
			}
			cur = section{start: lineNo, title: strings.TrimSpace(m[2]), headerLevel: len(m[1])}
			hasHeader = true
		}
	}
	cur.end = len(lines)
	sections = append(sections, cur)

	if !hasHeader {
		text := strings.Join(lines, "\n")
		id := ChunkID(filePath, "", model.NodeMarkdownDoc, 1, len(lines))
		return []model.CodeChunk{{
			ID:        id,
			Text:      text,
			FilePath:  filePath,
			StartLine: 1,
			EndLine:   len(lines),
			Language:  language,
			NodeType:  model.NodeMarkdownDoc,
		}}
	}

	var chunks []model.CodeChunk
	for _, sec := range sections {
		text := sliceLines(lines, sec.start, sec.end)
		if strings.TrimSpace(text) == "" {
			continue
		}
		id := ChunkID(filePath, sec.title, model.NodeMarkdownSection, sec.start, sec.end)
		meta := map[string]string{}
		if sec.headerLevel > 0 {
			meta["header_level"] = strconv.Itoa(sec.headerLevel)
		}
		chunks = append(chunks, model.CodeChunk{
			ID:        id,
			Text:      text,
			FilePath:  filePath,
			StartLine: sec.start,
			EndLine:   sec.end,
			Name:      sec.title,
			Language:  language,
			NodeType:  model.NodeMarkdownSection,
			Metadata:  meta,
		})
	}
	return chunks
}
