package parsing

import (
	"testing"

	"github.com/augmentorium/augmentorium/internal/grammar"
	"github.com/augmentorium/augmentorium/internal/model"
	"github.com/stretchr/testify/require"
)

func TestParsePythonClassWithTwoMethods(t *testing.T) {
	src := []byte(`import os
from a import b


class Greeter:
    """Greets people."""

    def __init__(self, name):
        self.name = name

    def greet(self):
        return "hi " + self.name
`)
	reg := grammar.NewRegistry(nil)
	structure, err := Parse(reg, grammar.Python, src)
	require.NoError(t, err)
	require.Equal(t, model.NodeModule, structure.NodeType)
	require.Equal(t, []string{"import os", "from a import b"}, structure.Imports)
	require.Len(t, structure.Children, 1)

	class := structure.Children[0]
	require.Equal(t, model.NodeClass, class.NodeType)
	require.Equal(t, "Greeter", class.Name)
	require.Equal(t, "Greets people.", class.Docstring)
	require.Len(t, class.Children, 2)
	require.Equal(t, model.NodeMethod, class.Children[0].NodeType)
	require.Equal(t, "__init__", class.Children[0].Name)
	require.Equal(t, "greet", class.Children[1].Name)
}

func TestParsePythonTopLevelFunction(t *testing.T) {
	src := []byte(`def add(a, b):
    return a + b
`)
	reg := grammar.NewRegistry(nil)
	structure, err := Parse(reg, grammar.Python, src)
	require.NoError(t, err)
	require.Len(t, structure.Children, 1)
	require.Equal(t, model.NodeFunction, structure.Children[0].NodeType)
	require.Equal(t, "add", structure.Children[0].Name)
}

func TestParseJavaScriptClassAndFunction(t *testing.T) {
	src := []byte(`import { readFile } from "fs";

class Widget {
  render() {
    return null;
  }
}

function build() {
  return new Widget();
}
`)
	reg := grammar.NewRegistry(nil)
	structure, err := Parse(reg, grammar.JavaScript, src)
	require.NoError(t, err)
	require.Len(t, structure.Imports, 1)
	require.Len(t, structure.Children, 2)

	class := structure.Children[0]
	require.Equal(t, model.NodeClass, class.NodeType)
	require.Equal(t, "Widget", class.Name)
	require.Len(t, class.Children, 1)
	require.Equal(t, model.NodeMethod, class.Children[0].NodeType)
	require.Equal(t, "render", class.Children[0].Name)

	fn := structure.Children[1]
	require.Equal(t, model.NodeFunction, fn.NodeType)
	require.Equal(t, "build", fn.Name)
}

func TestParseJavaImportsOnly(t *testing.T) {
	src := []byte(`import java.util.List;

class Ignored {
    void noop() {}
}
`)
	reg := grammar.NewRegistry(nil)
	structure, err := Parse(reg, grammar.Java, src)
	require.NoError(t, err)
	require.Equal(t, model.NodeModule, structure.NodeType)
	require.Len(t, structure.Imports, 1)
	require.Contains(t, structure.Imports[0], "java.util.List")
	require.Empty(t, structure.Children, "generic extractor does not descend into class bodies")
}

func TestParseForIndexingReturnsStructureAndRelationships(t *testing.T) {
	src := []byte("import os\nfrom a import b\n")
	reg := grammar.NewRegistry(nil)
	structure, refs, err := ParseForIndexing(reg, grammar.Python, src)
	require.NoError(t, err)
	require.Equal(t, model.NodeModule, structure.NodeType)
	require.Equal(t, []model.Reference{{Target: "import os", Type: "import"}, {Target: "a.b", Type: "import"}}, refs)
}

func TestParseUnavailableLanguage(t *testing.T) {
	reg := grammar.NewRegistry(nil)
	_, err := Parse(reg, grammar.Language("cobol"), []byte("IDENTIFICATION DIVISION."))
	require.Error(t, err)
	var unavailable *grammar.ErrUnavailable
	require.ErrorAs(t, err, &unavailable)
}
