// Package config loads codesearch's configuration from .codesearch/config.yml
// with CODESEARCH_* environment variable overrides, via viper.
package config

// Config is the complete codesearch configuration.
type Config struct {
	Embedding EmbeddingConfig `yaml:"embedding" mapstructure:"embedding"`
	Paths     PathsConfig     `yaml:"paths" mapstructure:"paths"`
	Retrieval RetrievalConfig `yaml:"retrieval" mapstructure:"retrieval"`
	Storage   StorageConfig   `yaml:"storage" mapstructure:"storage"`
}

// EmbeddingConfig configures the embedding provider.
type EmbeddingConfig struct {
	Provider   string `yaml:"provider" mapstructure:"provider"`     // "local" or "openai"
	Model      string `yaml:"model" mapstructure:"model"`           // e.g., "BAAI/bge-small-en-v1.5"
	Dimensions int    `yaml:"dimensions" mapstructure:"dimensions"` // embedding vector dimensions
	Endpoint   string `yaml:"endpoint" mapstructure:"endpoint"`     // e.g., "http://localhost:8121/embed"
}

// PathsConfig defines which files to index and which to ignore.
type PathsConfig struct {
	Code   []string `yaml:"code" mapstructure:"code"`     // glob patterns for code files
	Ignore []string `yaml:"ignore" mapstructure:"ignore"` // glob patterns to ignore
}

// RetrievalConfig mirrors retrieval.Options (spec.md §4.4).
type RetrievalConfig struct {
	TopK              int     `yaml:"top_k" mapstructure:"top_k"`
	MinScore          float64 `yaml:"min_score" mapstructure:"min_score"`
	ExpandGraph       bool    `yaml:"expand_graph" mapstructure:"expand_graph"`
	MaxHops           int     `yaml:"max_hops" mapstructure:"max_hops"`
	MaxExpandedChunks int     `yaml:"max_expanded_chunks" mapstructure:"max_expanded_chunks"`
	Reranker          string  `yaml:"reranker" mapstructure:"reranker"` // bge, llm, none
	RerankTopK        int     `yaml:"rerank_top_k" mapstructure:"rerank_top_k"`
	BGECommand        string  `yaml:"bge_command" mapstructure:"bge_command"`
}

// StorageConfig controls where snapshots live and which vector store
// backend to use.
type StorageConfig struct {
	Backend          string `yaml:"backend" mapstructure:"backend"` // "memory" or "postgres"
	CacheLocation    string `yaml:"cache_location" mapstructure:"cache_location"`
	PostgresURL      string `yaml:"postgres_url" mapstructure:"postgres_url"`
	CacheMaxAgeDays  int     `yaml:"cache_max_age_days" mapstructure:"cache_max_age_days"`
	CacheMaxSizeMB   float64 `yaml:"cache_max_size_mb" mapstructure:"cache_max_size_mb"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Embedding: EmbeddingConfig{
			Provider:   "local",
			Model:      "BAAI/bge-small-en-v1.5",
			Dimensions: 384,
			Endpoint:   "http://localhost:8121/embed",
		},
		Paths: PathsConfig{
			Code: []string{
				"**/*.go",
				"**/*.ts",
				"**/*.tsx",
				"**/*.js",
				"**/*.jsx",
				"**/*.py",
				"**/*.rs",
			},
			Ignore: []string{
				"node_modules/**",
				"vendor/**",
				".git/**",
				"dist/**",
				"build/**",
				"target/**",
				"__pycache__/**",
			},
		},
		Retrieval: RetrievalConfig{
			TopK:              10,
			MinScore:          0,
			ExpandGraph:       true,
			MaxHops:           2,
			MaxExpandedChunks: 20,
			Reranker:          "bge",
			RerankTopK:        5,
			BGECommand:        "bge-rerank",
		},
		Storage: StorageConfig{
			Backend:         "memory",
			CacheLocation:   ".codesearch/index",
			CacheMaxAgeDays: 30,
			CacheMaxSizeMB:  512,
		},
	}
}
