package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidProvider indicates an unsupported embedding provider.
	ErrInvalidProvider = errors.New("invalid embedding provider")

	// ErrInvalidDimensions indicates invalid embedding dimensions.
	ErrInvalidDimensions = errors.New("invalid embedding dimensions")

	// ErrEmptyEndpoint indicates a missing embedding endpoint.
	ErrEmptyEndpoint = errors.New("empty embedding endpoint")

	// ErrEmptyModel indicates a missing embedding model.
	ErrEmptyModel = errors.New("empty embedding model")

	// ErrInvalidRetrieval indicates an invalid retrieval setting.
	ErrInvalidRetrieval = errors.New("invalid retrieval configuration")

	// ErrInvalidReranker indicates an unsupported reranker tag.
	ErrInvalidReranker = errors.New("invalid reranker")

	// ErrInvalidBackend indicates an unsupported storage backend.
	ErrInvalidBackend = errors.New("invalid storage backend")

	// ErrInvalidCacheSettings indicates invalid cache configuration.
	ErrInvalidCacheSettings = errors.New("invalid cache settings")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateEmbedding(&cfg.Embedding); err != nil {
		errs = append(errs, err)
	}
	if err := validateRetrieval(&cfg.Retrieval); err != nil {
		errs = append(errs, err)
	}
	if err := validateStorage(&cfg.Storage); err != nil {
		errs = append(errs, err)
	}

	return joinErrors(errs)
}

func validateEmbedding(cfg *EmbeddingConfig) error {
	var errs []error

	provider := strings.ToLower(cfg.Provider)
	if provider != "local" && provider != "openai" {
		errs = append(errs, fmt.Errorf("%w: must be 'local' or 'openai', got '%s'", ErrInvalidProvider, cfg.Provider))
	}
	if strings.TrimSpace(cfg.Model) == "" {
		errs = append(errs, fmt.Errorf("%w: model is required", ErrEmptyModel))
	}
	if cfg.Dimensions <= 0 {
		errs = append(errs, fmt.Errorf("%w: dimensions must be positive, got %d", ErrInvalidDimensions, cfg.Dimensions))
	}
	if strings.TrimSpace(cfg.Endpoint) == "" {
		errs = append(errs, fmt.Errorf("%w: endpoint is required", ErrEmptyEndpoint))
	}

	return joinErrors(errs)
}

func validateRetrieval(cfg *RetrievalConfig) error {
	var errs []error

	if cfg.TopK <= 0 {
		errs = append(errs, fmt.Errorf("%w: top_k must be positive, got %d", ErrInvalidRetrieval, cfg.TopK))
	}
	if cfg.MaxHops < 0 {
		errs = append(errs, fmt.Errorf("%w: max_hops cannot be negative, got %d", ErrInvalidRetrieval, cfg.MaxHops))
	}
	if cfg.MaxExpandedChunks < 0 {
		errs = append(errs, fmt.Errorf("%w: max_expanded_chunks cannot be negative, got %d", ErrInvalidRetrieval, cfg.MaxExpandedChunks))
	}
	if cfg.RerankTopK <= 0 {
		errs = append(errs, fmt.Errorf("%w: rerank_top_k must be positive, got %d", ErrInvalidRetrieval, cfg.RerankTopK))
	}

	switch cfg.Reranker {
	case "bge", "llm", "none":
	default:
		errs = append(errs, fmt.Errorf("%w: must be 'bge', 'llm', or 'none', got '%s'", ErrInvalidReranker, cfg.Reranker))
	}

	return joinErrors(errs)
}

func validateStorage(cfg *StorageConfig) error {
	var errs []error

	switch cfg.Backend {
	case "memory", "postgres":
	default:
		errs = append(errs, fmt.Errorf("%w: must be 'memory' or 'postgres', got '%s'", ErrInvalidBackend, cfg.Backend))
	}
	if cfg.Backend == "postgres" && strings.TrimSpace(cfg.PostgresURL) == "" {
		errs = append(errs, fmt.Errorf("%w: postgres_url is required when backend=postgres", ErrInvalidBackend))
	}
	if cfg.CacheMaxAgeDays < 0 {
		errs = append(errs, fmt.Errorf("%w: cache_max_age_days cannot be negative, got %d", ErrInvalidCacheSettings, cfg.CacheMaxAgeDays))
	}
	if cfg.CacheMaxSizeMB < 0 {
		errs = append(errs, fmt.Errorf("%w: cache_max_size_mb cannot be negative, got %.2f", ErrInvalidCacheSettings, cfg.CacheMaxSizeMB))
	}

	return joinErrors(errs)
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
