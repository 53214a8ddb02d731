package query

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProcessLowersAndStripsDocstring(t *testing.T) {
	p := Preprocessor{}
	out := p.Process("\"\"\"Module docstring.\"\"\"\ndef Foo():\n    pass  # trailing comment\n")
	require.Equal(t, "def foo(): pass", out)
}

func TestProcessStripsBlockAndLineComments(t *testing.T) {
	p := Preprocessor{}
	out := p.Process("int x = 1; /* block\ncomment */ int y = 2; // line comment\n")
	require.Equal(t, "int x = 1; int y = 2;", out)
}

func TestProcessStripsLeadingHashLikeALineComment(t *testing.T) {
	// strip_markdown is a passthrough in the original pipeline; the
	// hash-comment regex still consumes ATX headers since it has no
	// markdown-aware exception.
	p := Preprocessor{}
	out := p.Process("# Heading\n\nSome *text*.")
	require.Equal(t, "some *text*.", out)
}

func TestProcessRemovesStopwordsWhenEnabled(t *testing.T) {
	p := Preprocessor{RemoveStopwords: true}
	out := p.Process("this is the function that will loop")
	require.Equal(t, "function loop", out)
}

func TestProcessKeepsStopwordsByDefault(t *testing.T) {
	p := Preprocessor{}
	out := p.Process("this is the function")
	require.Equal(t, "this is the function", out)
}
