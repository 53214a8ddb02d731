package chunking

import (
	"strings"
	"testing"

	"github.com/augmentorium/augmentorium/internal/grammar"
	"github.com/augmentorium/augmentorium/internal/model"
	"github.com/augmentorium/augmentorium/internal/parsing"
	"github.com/stretchr/testify/require"
)

func TestASTPythonClassYieldsFourChunks(t *testing.T) {
	src := []byte(`class Greeter:
    def __init__(self, name):
        self.name = name

    def greet(self):
        return self.name
`)
	reg := grammar.NewRegistry(nil)
	structure, err := parsing.Parse(reg, grammar.Python, src)
	require.NoError(t, err)

	chunks := AST("greeter.py", "python", src, structure)
	require.Len(t, chunks, 4)
	require.Equal(t, model.NodeModule, chunks[0].NodeType)
	require.Equal(t, model.NodeClass, chunks[1].NodeType)
	require.Equal(t, model.NodeMethod, chunks[2].NodeType)
	require.Equal(t, model.NodeMethod, chunks[3].NodeType)
	require.Equal(t, chunks[1].ID, chunks[2].ParentChunkID)
	require.Equal(t, chunks[1].ID, chunks[3].ParentChunkID)
	require.Empty(t, chunks[0].ParentChunkID)
}

func TestSlidingWindowTerminates(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 500; i++ {
		b.WriteString("x\n")
	}
	chunks := SlidingWindow("big.txt", "", []byte(b.String()), Options{MaxChunkSize: 100, Overlap: 90, MinChunkSize: 10})
	require.NotEmpty(t, chunks, "heavy overlap must still terminate instead of looping forever")
	last := chunks[len(chunks)-1]
	// 500 "x\n" lines split into 501 elements: the trailing newline leaves an
	// empty last line, which every line-based strategy counts.
	require.Equal(t, 501, last.EndLine, "final window must reach the end of the file")
	for i := 1; i < len(chunks); i++ {
		require.Greater(t, chunks[i].StartLine, chunks[i-1].StartLine, "each window must advance past the previous one")
	}
}

func TestSlidingWindowDropsShortNonFinalChunks(t *testing.T) {
	text := strings.Repeat("a", 40) + "\n" + strings.Repeat("b", 5) + "\n" + strings.Repeat("c", 200) + "\n"
	chunks := SlidingWindow("f.txt", "", []byte(text), Options{MaxChunkSize: 40, Overlap: 0, MinChunkSize: 20})
	for _, c := range chunks[:len(chunks)-1] {
		require.GreaterOrEqual(t, len(c.Text), 20)
	}
}

func TestJSONObjectEmitsNestedChunksOverThreshold(t *testing.T) {
	src := []byte(`{
  "name": "widget",
  "config": {"a": 1, "b": 2, "c": 3, "d": 4, "e": 5, "f": 6, "g": 7},
  "tags": ["x", "y"]
}`)
	chunks := JSONObject("config.json", "json", src)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		require.Greater(t, len(c.Text), 50)
		require.Equal(t, "config.json", c.FilePath)
	}
}

func TestJSONObjectToleratesCommentsAndTrailingCommas(t *testing.T) {
	src := []byte(`{
  // a comment
  "big": {"a": 1, "b": 2, "c": 3, "d": 4, "e": 5, "f": 6,},
}`)
	chunks := JSONObject("c.jsonc", "json", src)
	require.NotEmpty(t, chunks)
}

func TestYAMLDocumentSplitsOnSeparators(t *testing.T) {
	src := []byte("a: 1\n---\nb: 2\n---\n\n")
	chunks := YAMLDocument("multi.yaml", "yaml", src)
	require.Len(t, chunks, 2)
	require.Contains(t, chunks[0].Text, "a: 1")
	require.Contains(t, chunks[1].Text, "b: 2")
}

func TestMarkdownSectionSplitsOnHeaders(t *testing.T) {
	src := []byte("# Title\n\nIntro text.\n\n## Section One\n\nBody one.\n\n## Section Two\n\nBody two.\n")
	chunks := MarkdownSection("doc.md", "markdown", src)
	require.Len(t, chunks, 3)
	require.Equal(t, "Title", chunks[0].Name)
	require.Equal(t, "Section One", chunks[1].Name)
	require.Equal(t, "Section Two", chunks[2].Name)
}

func TestMarkdownWithoutHeadersIsSingleDocument(t *testing.T) {
	src := []byte("just some prose\nwith two lines\n")
	chunks := MarkdownSection("readme.txt", "markdown", src)
	require.Len(t, chunks, 1)
	require.Equal(t, model.NodeMarkdownDoc, chunks[0].NodeType)
}

func TestPlaintextSingleChunk(t *testing.T) {
	chunks := Plaintext("data.bin", "", []byte("hello\nworld\n"))
	require.Len(t, chunks, 1)
	require.Equal(t, model.NodePlaintext, chunks[0].NodeType)
}

func TestSelectStrategy(t *testing.T) {
	require.Equal(t, StrategyAST, Select("a.py", true, ""))
	require.Equal(t, StrategyJSONObject, Select("a.json", false, ""))
	require.Equal(t, StrategyYAMLDocument, Select("a.yaml", false, ""))
	require.Equal(t, StrategyMarkdownSection, Select("a.md", false, ""))
	require.Equal(t, StrategySlidingWindow, Select("a.bin", false, ""))
	require.Equal(t, StrategyPlaintext, Select("a.json", false, StrategyPlaintext))
}

func TestFlattenJoinsListsAndEmptiesBecomeEmptyString(t *testing.T) {
	meta := Flatten([]string{"import os", "import sys"}, nil, map[string]string{"file_name": "a.py"})
	require.Equal(t, "import os, import sys", meta["imports"])
	require.Equal(t, "", meta["references"])
	require.Equal(t, "a.py", meta["file_name"])
}
