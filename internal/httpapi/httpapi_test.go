package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/augmentorium/augmentorium/internal/config"
	"github.com/augmentorium/augmentorium/internal/coordinator"
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

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	projectRoot := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(projectRoot, "a.py"), []byte("def add(a, b):\n    return a + b\n"), 0o644))

	ollama := newFakeOllama(t)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	body := `
ollama:
  base_url: "` + ollama.URL + `"
  embedding_model: "nomic-embed-text"
projects:
  demo: "` + projectRoot + `"
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o644))

	loader := config.NewLoader(cfgPath)
	cfg, err := loader.Load()
	require.NoError(t, err)

	co := coordinator.New(loader, cfg)
	require.NoError(t, co.Sync(context.Background()))

	require.Eventually(t, func() bool {
		stats, err := co.Stats("demo")
		return err == nil && stats.ChunkCount > 0
	}, 2*time.Second, 20*time.Millisecond)

	return New(co), "demo"
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	srv.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestQueryEndpointReturnsResults(t *testing.T) {
	srv, project := newTestServer(t)

	body, _ := json.Marshal(map[string]any{"project": project, "query": "add"})
	req := httptest.NewRequest(http.MethodPost, "/api/query/", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["results"])
}

func TestQueryEndpointRejectsMissingFields(t *testing.T) {
	srv, _ := newTestServer(t)
	body, _ := json.Marshal(map[string]any{"query": "add"})
	req := httptest.NewRequest(http.MethodPost, "/api/query/", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestStatsEndpointUnknownProjectIs404(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/stats/?project=missing", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGraphAndFilesEndpoints(t *testing.T) {
	srv, project := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/graph/?project="+project, nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/files/?project="+project, nil)
	rr = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["files"])
}

func TestAddAndRemoveProject(t *testing.T) {
	srv, _ := newTestServer(t)
	extraRoot := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(extraRoot, "b.py"), []byte("y = 2\n"), 0o644))

	body, _ := json.Marshal(map[string]any{"path": extraRoot, "name": "extra"})
	req := httptest.NewRequest(http.MethodPost, "/api/projects/", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/projects/extra", nil)
	rr = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)
	require.Equal(t, http.StatusNoContent, rr.Code)
}
