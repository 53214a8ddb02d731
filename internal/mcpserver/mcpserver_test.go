package mcpserver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/augmentorium/augmentorium/internal/config"
	"github.com/augmentorium/augmentorium/internal/coordinator"
)

// mcp-go doesn't expose registered tools publicly, so New can only be
// verified not to panic during tool registration (same approach the
// teacher's own tool registration tests use).
func TestNewRegistersEveryToolWithoutPanicking(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	body := `
ollama:
  base_url: "http://127.0.0.1:0"
  embedding_model: "nomic-embed-text"
projects: {}
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o644))

	loader := config.NewLoader(cfgPath)
	cfg, err := loader.Load()
	require.NoError(t, err)
	co := coordinator.New(loader, cfg)

	var s any
	require.NotPanics(t, func() { s = New(co) })
	require.NotNil(t, s)
}
