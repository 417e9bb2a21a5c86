package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmbedding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*EmbeddingConfig)
		wantErr error
	}{
		{"invalid provider", func(c *EmbeddingConfig) { c.Provider = "bogus" }, ErrInvalidProvider},
		{"empty model", func(c *EmbeddingConfig) { c.Model = "  " }, ErrEmptyModel},
		{"zero dimensions", func(c *EmbeddingConfig) { c.Dimensions = 0 }, ErrInvalidDimensions},
		{"negative dimensions", func(c *EmbeddingConfig) { c.Dimensions = -1 }, ErrInvalidDimensions},
		{"empty endpoint", func(c *EmbeddingConfig) { c.Endpoint = "" }, ErrEmptyEndpoint},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default().Embedding
			tt.mutate(&cfg)
			err := validateEmbedding(&cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr))
		})
	}
}

func TestValidateRetrieval(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*RetrievalConfig)
		wantErr error
	}{
		{"non-positive top_k", func(c *RetrievalConfig) { c.TopK = 0 }, ErrInvalidRetrieval},
		{"negative max_hops", func(c *RetrievalConfig) { c.MaxHops = -1 }, ErrInvalidRetrieval},
		{"negative max_expanded_chunks", func(c *RetrievalConfig) { c.MaxExpandedChunks = -1 }, ErrInvalidRetrieval},
		{"non-positive rerank_top_k", func(c *RetrievalConfig) { c.RerankTopK = 0 }, ErrInvalidRetrieval},
		{"invalid reranker tag", func(c *RetrievalConfig) { c.Reranker = "magic" }, ErrInvalidReranker},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default().Retrieval
			tt.mutate(&cfg)
			err := validateRetrieval(&cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr))
		})
	}
}

func TestValidateStorage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*StorageConfig)
		wantErr error
	}{
		{"invalid backend", func(c *StorageConfig) { c.Backend = "s3" }, ErrInvalidBackend},
		{"postgres backend without url", func(c *StorageConfig) { c.Backend = "postgres"; c.PostgresURL = "" }, ErrInvalidBackend},
		{"negative cache max age", func(c *StorageConfig) { c.CacheMaxAgeDays = -1 }, ErrInvalidCacheSettings},
		{"negative cache max size", func(c *StorageConfig) { c.CacheMaxSizeMB = -1 }, ErrInvalidCacheSettings},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default().Storage
			tt.mutate(&cfg)
			err := validateStorage(&cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr))
		})
	}
}

func TestValidateStorage_PostgresBackendWithURLIsValid(t *testing.T) {
	t.Parallel()

	cfg := Default().Storage
	cfg.Backend = "postgres"
	cfg.PostgresURL = "postgres://localhost/db"
	assert.NoError(t, validateStorage(&cfg))
}

func TestJoinErrors(t *testing.T) {
	t.Parallel()

	assert.NoError(t, joinErrors(nil))

	single := errors.New("only one")
	assert.Same(t, single, joinErrors([]error{single}))

	combined := joinErrors([]error{errors.New("first"), errors.New("second")})
	require.Error(t, combined)
	assert.Contains(t, combined.Error(), "first")
	assert.Contains(t, combined.Error(), "second")
}

func TestValidate_AggregatesAcrossSections(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Embedding.Model = ""
	cfg.Retrieval.TopK = 0
	cfg.Storage.Backend = "bogus"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrEmptyModel.Error())
	assert.Contains(t, err.Error(), ErrInvalidRetrieval.Error())
	assert.Contains(t, err.Error(), ErrInvalidBackend.Error())
}
