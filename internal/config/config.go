// Package config loads augmentorium's root configuration with a
// viper-backed Loader, defaults-then-file-then-env priority, and joined
// validation errors, generalized from a single project-local config file
// to one root YAML file governing every
// registered project.
package config

// Config is the root configuration document.
type Config struct {
	General  GeneralConfig     `yaml:"general" mapstructure:"general"`
	Indexer  Indexer           `yaml:"indexer" mapstructure:"indexer"`
	Server   Server            `yaml:"server" mapstructure:"server"`
	Ollama   Ollama            `yaml:"ollama" mapstructure:"ollama"`
	Query    Query             `yaml:"query" mapstructure:"query"`
	Projects map[string]string `yaml:"projects" mapstructure:"projects"`
}

// GeneralConfig holds the general/logging block.
type GeneralConfig struct {
	LogDir   string `yaml:"log_dir" mapstructure:"log_dir"`
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
}

// Indexer holds indexing/watcher settings.
type Indexer struct {
	PollingInterval float64  `yaml:"polling_interval" mapstructure:"polling_interval"`
	MaxWorkers      int      `yaml:"max_workers" mapstructure:"max_workers"`
	HashAlgorithm   string   `yaml:"hash_algorithm" mapstructure:"hash_algorithm"`
	IgnorePatterns  []string `yaml:"ignore_patterns" mapstructure:"ignore_patterns"`
	Host            string   `yaml:"host" mapstructure:"host"`
	Port            int      `yaml:"port" mapstructure:"port"`
}

// Server holds the HTTP/MCP transport settings.
type Server struct {
	Host      string `yaml:"host" mapstructure:"host"`
	Port      int    `yaml:"port" mapstructure:"port"`
	CacheSize int    `yaml:"cache_size" mapstructure:"cache_size"`
}

// Ollama holds the embedding provider settings.
type Ollama struct {
	BaseURL            string `yaml:"base_url" mapstructure:"base_url"`
	EmbeddingModel     string `yaml:"embedding_model" mapstructure:"embedding_model"`
	EmbeddingBatchSize int    `yaml:"embedding_batch_size" mapstructure:"embedding_batch_size"`
}

// Query holds the Query Engine's (C12) defaults and cache sizing.
type Query struct {
	NResults        int     `yaml:"n_results" mapstructure:"n_results"`
	MinScore        float32 `yaml:"min_score" mapstructure:"min_score"`
	MaxContextSize  int     `yaml:"max_context_size" mapstructure:"max_context_size"`
	CacheSize       int     `yaml:"cache_size" mapstructure:"cache_size"`
	RemoveStopwords bool    `yaml:"remove_stopwords" mapstructure:"remove_stopwords"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		General: GeneralConfig{LogDir: "logs", LogLevel: "info"},
		Indexer: Indexer{
			PollingInterval: 1.0,
			MaxWorkers:      4,
			HashAlgorithm:   "md5",
			IgnorePatterns:  []string{".git/**", "node_modules/**", "__pycache__/**", ".augmentorium/**"},
			Host:            "127.0.0.1",
			Port:            6655,
		},
		Server: Server{Host: "127.0.0.1", Port: 6656, CacheSize: 100},
		Ollama: Ollama{
			BaseURL:            "http://localhost:11434",
			EmbeddingModel:     "nomic-embed-text",
			EmbeddingBatchSize: 16,
		},
		Query: Query{
			NResults:       10,
			MinScore:       0.0,
			MaxContextSize: 8000,
			CacheSize:      100,
		},
		Projects: map[string]string{},
	}
}
