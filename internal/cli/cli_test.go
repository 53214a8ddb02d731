package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newFakeOllama(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/embeddings", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"embedding": []float32{0.1, 0.2, 0.3}})
	})
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"models": []map[string]string{{"name": "nomic-embed-text"}}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// writeRootConfig writes a root config naming one project rooted at
// projectRoot, pointed at a fake Ollama server, and returns its path.
func writeRootConfig(t *testing.T, projectRoot, ollamaURL string) string {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	body := `
ollama:
  base_url: "` + ollamaURL + `"
  embedding_model: "nomic-embed-text"
projects:
  demo: "` + projectRoot + `"
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o644))
	return cfgPath
}

// captureStdout redirects os.Stdout for the duration of fn and returns
// everything written to it.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	require.NoError(t, w.Close())
	os.Stdout = old
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestRunIndexIndexesConfiguredProject(t *testing.T) {
	projectRoot := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(projectRoot, "a.py"), []byte("def add(a, b):\n    return a + b\n"), 0o644))

	ollama := newFakeOllama(t)
	cfgFile = writeRootConfig(t, projectRoot, ollama.URL)
	indexQuiet = true
	indexWatch = false

	out := captureStdout(t, func() {
		require.NoError(t, runIndex(indexCmd, nil))
	})
	require.Contains(t, out, "demo:")
	require.Contains(t, out, "chunks")
}

func TestRunProjectAddListRemove(t *testing.T) {
	projectRoot := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(projectRoot, "a.py"), []byte("x = 1\n"), 0o644))
	extraRoot := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(extraRoot, "b.py"), []byte("y = 2\n"), 0o644))

	ollama := newFakeOllama(t)
	cfgFile = writeRootConfig(t, projectRoot, ollama.URL)

	projectAddName = "extra"
	out := captureStdout(t, func() {
		require.NoError(t, runProjectAdd(projectAddCmd, []string{extraRoot}))
	})
	require.Contains(t, out, "extra:")

	out = captureStdout(t, func() {
		require.NoError(t, runProjectList(projectListCmd, nil))
	})
	require.Contains(t, out, "demo")

	out = captureStdout(t, func() {
		require.NoError(t, runProjectRemove(projectRemoveCmd, []string{"demo"}))
	})
	require.Contains(t, out, "removed demo")
}

func TestRunQueryPrintsContext(t *testing.T) {
	projectRoot := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(projectRoot, "a.py"), []byte("def add(a, b):\n    return a + b\n"), 0o644))

	ollama := newFakeOllama(t)
	cfgFile = writeRootConfig(t, projectRoot, ollama.URL)
	queryProject = "demo"
	queryJSON = false
	queryNResults = 0
	queryMinScore = 0
	queryFileName = ""

	out := captureStdout(t, func() {
		require.NoError(t, runQuery(queryCmd, []string{"add"}))
	})
	require.Contains(t, out, "results")
}
