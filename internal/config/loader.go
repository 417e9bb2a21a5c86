package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader loads configuration from file and environment variables.
type Loader interface {
	// Load loads configuration with priority defaults → config file →
	// environment variables (env wins).
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a configuration loader rooted at rootDir.
func NewLoader(rootDir string) Loader {
	return &loader{rootDir: rootDir}
}

// Load reads .codesearch/config.yml (or .yaml) under rootDir, applying
// CODESEARCH_* environment overrides, falling back to Default().
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	configDir := filepath.Join(l.rootDir, ".codesearch")
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	v.SetEnvPrefix("CODESEARCH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("embedding.provider")
	v.BindEnv("embedding.model")
	v.BindEnv("embedding.dimensions")
	v.BindEnv("embedding.endpoint")

	v.BindEnv("retrieval.top_k")
	v.BindEnv("retrieval.reranker")
	v.BindEnv("retrieval.rerank_top_k")
	v.BindEnv("retrieval.bge_command")

	v.BindEnv("storage.backend")
	v.BindEnv("storage.cache_location")
	v.BindEnv("storage.postgres_url")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config: invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("embedding.provider", d.Embedding.Provider)
	v.SetDefault("embedding.model", d.Embedding.Model)
	v.SetDefault("embedding.dimensions", d.Embedding.Dimensions)
	v.SetDefault("embedding.endpoint", d.Embedding.Endpoint)

	v.SetDefault("paths.code", d.Paths.Code)
	v.SetDefault("paths.ignore", d.Paths.Ignore)

	v.SetDefault("retrieval.top_k", d.Retrieval.TopK)
	v.SetDefault("retrieval.min_score", d.Retrieval.MinScore)
	v.SetDefault("retrieval.expand_graph", d.Retrieval.ExpandGraph)
	v.SetDefault("retrieval.max_hops", d.Retrieval.MaxHops)
	v.SetDefault("retrieval.max_expanded_chunks", d.Retrieval.MaxExpandedChunks)
	v.SetDefault("retrieval.reranker", d.Retrieval.Reranker)
	v.SetDefault("retrieval.rerank_top_k", d.Retrieval.RerankTopK)
	v.SetDefault("retrieval.bge_command", d.Retrieval.BGECommand)

	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.cache_location", d.Storage.CacheLocation)
	v.SetDefault("storage.postgres_url", d.Storage.PostgresURL)
	v.SetDefault("storage.cache_max_age_days", d.Storage.CacheMaxAgeDays)
	v.SetDefault("storage.cache_max_size_mb", d.Storage.CacheMaxSizeMB)
}

// LoadConfig loads configuration rooted at the current working directory.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("config: get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration rooted at dir.
func LoadConfigFromDir(dir string) (*Config, error) {
	return NewLoader(dir).Load()
}
