package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/codesearch-core/codesearch/internal/chunk"
	"github.com/codesearch-core/codesearch/internal/chunk/lang"
	"github.com/codesearch-core/codesearch/internal/config"
	"github.com/codesearch-core/codesearch/internal/discovery"
	"github.com/codesearch-core/codesearch/internal/embedclient"
	"github.com/codesearch-core/codesearch/internal/engine"
	"github.com/codesearch-core/codesearch/internal/rerank"
	"github.com/codesearch-core/codesearch/internal/vectorstore"
	"github.com/codesearch-core/codesearch/internal/vectorstore/pgstore"
)

// newChunker builds a Chunker registering every language parser.
func newChunker() *chunk.Chunker {
	return chunk.New(map[chunk.Language]chunk.Parser{
		chunk.LangTypeScript: lang.NewTypeScriptParser(),
		chunk.LangJavaScript: lang.NewTypeScriptParser(),
		chunk.LangPython:     lang.NewPythonParser(),
		chunk.LangGo:         lang.NewGoParser(),
		chunk.LangRust:       lang.NewRustParser(),
	})
}

// newStore builds the configured vectorstore.Store backend.
func newStore(ctx context.Context, cfg *config.Config) (vectorstore.Store, error) {
	switch cfg.Storage.Backend {
	case "postgres":
		return pgstore.New(ctx, cfg.Storage.PostgresURL, cfg.Embedding.Dimensions, cfg.Embedding.Model)
	default:
		return vectorstore.New(cfg.Embedding.Dimensions, cfg.Embedding.Model)
	}
}

// newReranker builds the Reranker selected by cfg.Retrieval.Reranker. The
// llm reranker has no configured ChatClient at the CLI surface (no chat
// provider is wired in this repository), so selecting "llm" degrades to
// "none"-equivalent behavior at retrieval time rather than failing index
// or search outright.
func newReranker(cfg *config.Config) (bge, llmR rerank.Reranker) {
	bge = &rerank.BGE{Command: cfg.Retrieval.BGECommand}
	return bge, nil
}

// buildEngine loads configuration rooted at rootDir and assembles an
// Engine ready to Index and Search.
func buildEngine(ctx context.Context, rootDir string) (*engine.Engine, *config.Config, error) {
	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}

	embedder := embedclient.NewHTTPClient(cfg.Embedding.Endpoint, cfg.Embedding.Dimensions, 30*time.Second)

	store, err := newStore(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create vector store: %w", err)
	}

	bge, llmR := newReranker(cfg)

	e := engine.New(newChunker(), embedder, store, engine.Config{
		EmbeddingProvider: cfg.Embedding.Provider,
		EmbeddingModel:    cfg.Embedding.Model,
		LLMConfigured:     llmR != nil,
	})
	e.BGEReranker = bge
	e.LLMReranker = llmR
	return e, cfg, nil
}

// discoverAndIndex walks rootDir per cfg's path patterns and indexes the
// discovered files into e.
func discoverAndIndex(ctx context.Context, e *engine.Engine, cfg *config.Config, rootDir string) (*engine.IndexMeta, error) {
	fd, err := discovery.New(rootDir, cfg.Paths.Code, cfg.Paths.Ignore)
	if err != nil {
		return nil, fmt.Errorf("compile path patterns: %w", err)
	}

	paths, err := fd.DiscoverFiles()
	if err != nil {
		return nil, fmt.Errorf("discover files: %w", err)
	}

	files := make([]engine.IndexFile, 0, len(paths))
	for _, relPath := range paths {
		content, err := os.ReadFile(rootDir + string(os.PathSeparator) + relPath)
		if err != nil {
			continue
		}
		files = append(files, engine.IndexFile{Filepath: relPath, Content: string(content)})
	}

	return e.Index(ctx, rootDir, files)
}
