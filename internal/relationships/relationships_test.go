package relationships

import (
	"testing"

	"github.com/augmentorium/augmentorium/internal/grammar"
	"github.com/augmentorium/augmentorium/internal/model"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tspython "github.com/tree-sitter/tree-sitter-python/bindings/go"
	"github.com/stretchr/testify/require"
)

func parsePython(t *testing.T, src []byte) *sitter.Tree {
	t.Helper()
	parser := sitter.NewParser()
	defer parser.Close()
	require.NoError(t, parser.SetLanguage(sitter.NewLanguage(tspython.Language())))
	tree := parser.Parse(src, nil)
	require.NotNil(t, tree)
	return tree
}

func TestPythonImportAndFromImport(t *testing.T) {
	src := []byte("import os\nfrom a import b\n")
	tree := parsePython(t, src)
	defer tree.Close()

	refs := Extract(grammar.Python, src, tree)
	require.Equal(t, []model.Reference{
		{Target: "import os", Type: "import"},
		{Target: "a.b", Type: "import"},
	}, refs)
}

func TestPythonInheritance(t *testing.T) {
	src := []byte("class Dog(Animal):\n    pass\n")
	tree := parsePython(t, src)
	defer tree.Close()

	refs := Extract(grammar.Python, src, tree)
	require.Contains(t, refs, model.Reference{Target: "Animal", Type: "inherits"})
}

func TestUnavailableLanguageReturnsEmpty(t *testing.T) {
	refs := Extract(grammar.Language("cobol"), []byte("x"), nil)
	require.Empty(t, refs)
}
