package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/augmentorium/augmentorium/internal/config"
	"github.com/augmentorium/augmentorium/internal/embedclient"
)

// checkEmbeddingProvider fails fast with a non-zero exit if the embedding
// provider is unreachable at startup, with a warm-up call before any
// indexing work begins.
func checkEmbeddingProvider(ctx context.Context, cfg *config.Config) error {
	client := embedclient.New(embedclient.Config{
		BaseURL: cfg.Ollama.BaseURL,
		Model:   cfg.Ollama.EmbeddingModel,
	})
	warmCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.WarmUp(warmCtx, 10*time.Second); err != nil {
		return fmt.Errorf("embedding provider unreachable at %s: %w", cfg.Ollama.BaseURL, err)
	}
	return nil
}
