package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Loader loads the root configuration from a YAML file, environment
// variables, and built-in defaults, using spf13/viper's layered
// defaults -> file -> env idiom (env wins).
type Loader struct {
	path string
}

// NewLoader returns a Loader reading from path.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads the configuration. When validation fails it returns Default()
// together with the ConfigInvalid error, so a caller can fall back to the
// defaults; a read or unmarshal failure returns a nil config and the error.
func (l *Loader) Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(l.path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("AUGMENTORIUM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read %s: %w", l.path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal %s: %w", l.path, err)
	}

	if err := Validate(cfg); err != nil {
		return Default(), err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("general.log_dir", d.General.LogDir)
	v.SetDefault("general.log_level", d.General.LogLevel)

	v.SetDefault("indexer.polling_interval", d.Indexer.PollingInterval)
	v.SetDefault("indexer.max_workers", d.Indexer.MaxWorkers)
	v.SetDefault("indexer.hash_algorithm", d.Indexer.HashAlgorithm)
	v.SetDefault("indexer.ignore_patterns", d.Indexer.IgnorePatterns)
	v.SetDefault("indexer.host", d.Indexer.Host)
	v.SetDefault("indexer.port", d.Indexer.Port)

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.cache_size", d.Server.CacheSize)

	v.SetDefault("ollama.base_url", d.Ollama.BaseURL)
	v.SetDefault("ollama.embedding_model", d.Ollama.EmbeddingModel)
	v.SetDefault("ollama.embedding_batch_size", d.Ollama.EmbeddingBatchSize)

	v.SetDefault("query.n_results", d.Query.NResults)
	v.SetDefault("query.min_score", d.Query.MinScore)
	v.SetDefault("query.max_context_size", d.Query.MaxContextSize)
	v.SetDefault("query.cache_size", d.Query.CacheSize)
	v.SetDefault("query.remove_stopwords", d.Query.RemoveStopwords)
}
