package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/augmentorium/augmentorium/internal/apperrors"
)

var (
	ErrInvalidMaxWorkers    = errors.New("invalid max_workers")
	ErrInvalidHashAlgorithm = errors.New("invalid hash_algorithm")
	ErrInvalidCacheSize     = errors.New("invalid cache_size")
	ErrEmptyBaseURL         = errors.New("empty ollama base_url")
	ErrEmptyEmbeddingModel  = errors.New("empty ollama embedding_model")
	ErrInvalidBatchSize     = errors.New("invalid ollama embedding_batch_size")
	ErrInvalidProjectPath   = errors.New("project path must be absolute")
)

// Validate checks that cfg is well-formed, returning a joined
// apperrors.KindConfigInvalid error describing every violation at once
// rather than failing on the first one found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Indexer.MaxWorkers <= 0 {
		errs = append(errs, fmt.Errorf("%w: must be positive, got %d", ErrInvalidMaxWorkers, cfg.Indexer.MaxWorkers))
	}
	switch strings.ToLower(cfg.Indexer.HashAlgorithm) {
	case "md5", "sha1", "sha256":
	default:
		errs = append(errs, fmt.Errorf("%w: must be one of md5, sha1, sha256, got %q", ErrInvalidHashAlgorithm, cfg.Indexer.HashAlgorithm))
	}

	if cfg.Server.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: must be positive, got %d", ErrInvalidCacheSize, cfg.Server.CacheSize))
	}

	if strings.TrimSpace(cfg.Ollama.BaseURL) == "" {
		errs = append(errs, ErrEmptyBaseURL)
	}
	if strings.TrimSpace(cfg.Ollama.EmbeddingModel) == "" {
		errs = append(errs, ErrEmptyEmbeddingModel)
	}
	if cfg.Ollama.EmbeddingBatchSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: must be positive, got %d", ErrInvalidBatchSize, cfg.Ollama.EmbeddingBatchSize))
	}

	for name, path := range cfg.Projects {
		if !strings.HasPrefix(path, "/") {
			errs = append(errs, fmt.Errorf("project %q: %w: %q", name, ErrInvalidProjectPath, path))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return apperrors.New(apperrors.KindConfigInvalid, errors.Join(errs...))
}
