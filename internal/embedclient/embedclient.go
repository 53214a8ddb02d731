// Package embedclient implements the Embedding Client (C9): a thin HTTP
// client for the Ollama-compatible embedding endpoint, following a
// health-poll-then-call idiom generalized from a locally-spawned binary
// to a long-lived remote service.
package embedclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/augmentorium/augmentorium/internal/apperrors"
	"github.com/augmentorium/augmentorium/internal/query"
)

// Config configures a Client.
type Config struct {
	BaseURL    string
	Model      string
	MaxRetries int           // linear backoff, default 3
	RetryWait  time.Duration // default 1s, multiplied by attempt number
	Timeout    time.Duration // per-request HTTP timeout, default 30s
}

// Client calls the embedding provider's /api/embeddings and /api/tags
// endpoints. Preprocessing runs through query.Preprocessor
// so document and query embeddings share a representation (section 4.9).
type Client struct {
	cfg          Config
	http         *http.Client
	preprocessor query.Preprocessor
}

func New(cfg Config) *Client {
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryWait == 0 {
		cfg.RetryWait = time.Second
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Embed preprocesses text and requests its vector, retrying transport
// failures with linear backoff.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	processed := c.preprocessor.Process(text)

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * c.cfg.RetryWait):
			}
		}

		vec, err := c.embedOnce(ctx, processed)
		if err == nil {
			return vec, nil
		}
		lastErr = err
	}
	return nil, apperrors.New(apperrors.KindEmbeddingTransient, fmt.Errorf("embed after %d attempts: %w", c.cfg.MaxRetries+1, lastErr))
}

func (c *Client) embedOnce(ctx context.Context, prompt string) ([]float32, error) {
	body, err := json.Marshal(embedRequest{Model: c.cfg.Model, Prompt: prompt})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding server returned status %d", resp.StatusCode)
	}

	var parsed embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}
	return parsed.Embedding, nil
}

// EmbedBatch embeds each text independently; a batch never fails wholesale
// — the caller (the Indexer) is expected to treat a nil entry as a skipped
// chunk and continue.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var firstErr error
	for i, text := range texts {
		vec, err := c.Embed(ctx, text)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		out[i] = vec
	}
	return out, firstErr
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// WarmUp polls GET /api/tags until cfg.Model appears or timeout elapses. If
// the service never becomes reachable, indexing must not proceed — the
// caller should exit the process.
func (c *Client) WarmUp(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		if c.modelReady(ctx) {
			return nil
		}
		select {
		case <-ctx.Done():
			return apperrors.New(apperrors.KindEmbeddingFatal, apperrors.ErrEmbeddingUnreachable)
		case <-ticker.C:
		}
	}
}

func (c *Client) modelReady(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false
	}

	var parsed tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return false
	}
	for _, m := range parsed.Models {
		if m.Name == c.cfg.Model {
			return true
		}
	}
	return false
}
