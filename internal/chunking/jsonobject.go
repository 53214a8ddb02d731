package chunking

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/augmentorium/augmentorium/internal/model"
)

// JSONObject implements the JSON-object strategy: parse leniently
// (comments and trailing commas tolerated), then walk the decoded
// value and emit a chunk for every nested object or array whose serialised
// length exceeds 50 characters, recording json_path and parent_path.
//
// No available JSON5/HJSON decoder offers a direct parse-to-interface{}
// API (the tree-sitter grammars for those formats parse to a syntax tree,
// not a decoded value), so leniency is handled by stripping comments and
// trailing commas before handing the result to encoding/json.
func JSONObject(filePath, language string, source []byte) []model.CodeChunk {
	cleaned := stripJSONLeniencies(source)

	var data any
	if err := json.Unmarshal(cleaned, &data); err != nil {
		return nil
	}

	var chunks []model.CodeChunk
	walkJSON(data, filePath, "$", "", &chunks)
	return chunks
}

func walkJSON(data any, filePath, path, parentID string, out *[]model.CodeChunk) {
	switch v := data.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			processJSONMember(v[key], filePath, fmt.Sprintf("%s.%s", path, key), key, path, parentID, model.NodeJSONObject, out)
		}
	case []any:
		for i, item := range v {
			processJSONMember(item, filePath, fmt.Sprintf("%s[%d]", path, i), fmt.Sprintf("item_%d", i), path, parentID, model.NodeJSONArrayItem, out)
		}
	}
}

func processJSONMember(value any, filePath, childPath, name, parentPath, parentID string, nodeType model.NodeType, out *[]model.CodeChunk) {
	switch value.(type) {
	case map[string]any, []any:
	default:
		return
	}

	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil || len(encoded) <= 50 {
		return
	}

	id := ChunkID(filePath, name, nodeType, 0, 0)
	chunk := model.CodeChunk{
		ID:            id,
		Text:          string(encoded),
		FilePath:      filePath,
		Name:          name,
		Language:      "json",
		ParentChunkID: parentID,
		NodeType:      nodeType,
		Metadata: map[string]string{
			"json_path":   childPath,
			"parent_path": parentPath,
		},
	}
	if nodeType == model.NodeJSONArrayItem {
		chunk.Metadata["array_index"] = strconv.Itoa(arrayIndexFromName(name))
	}
	*out = append(*out, chunk)

	walkJSON(value, filePath, childPath, id, out)
}

func arrayIndexFromName(name string) int {
	n, _ := strconv.Atoi(strings.TrimPrefix(name, "item_"))
	return n
}

// stripJSONLeniencies removes // and /* */ comments and trailing commas
// before a strict-JSON decode, outside of string literals.
func stripJSONLeniencies(source []byte) []byte {
	var out strings.Builder
	out.Grow(len(source))

	inString := false
	escaped := false
	for i := 0; i < len(source); i++ {
		c := source[i]

		if inString {
			out.WriteByte(c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}

		switch {
		case c == '"':
			inString = true
			out.WriteByte(c)
		case c == '/' && i+1 < len(source) && source[i+1] == '/':
			for i < len(source) && source[i] != '\n' {
				i++
			}
			i--
		case c == '/' && i+1 < len(source) && source[i+1] == '*':
			i += 2
			for i+1 < len(source) && !(source[i] == '*' && source[i+1] == '/') {
				i++
			}
			i++
		case c == ',':
			if nextSignificant(source, i+1) == '}' || nextSignificant(source, i+1) == ']' {
				continue
			}
			out.WriteByte(c)
		default:
			out.WriteByte(c)
		}
	}
	return []byte(out.String())
}

func nextSignificant(source []byte, from int) byte {
	for i := from; i < len(source); i++ {
		switch source[i] {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return source[i]
		}
	}
	return 0
}
